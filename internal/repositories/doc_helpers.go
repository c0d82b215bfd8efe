package repositories

import (
	"time"

	"bharatbiz/internal/docstore"
)

func docString(d docstore.Document, key string) string {
	s, _ := d[key].(string)
	return s
}

func docFloat(d docstore.Document, key string) float64 {
	switch v := d[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

func docInt(d docstore.Document, key string) int {
	return int(docFloat(d, key))
}

func docTime(d docstore.Document, key string) time.Time {
	t, _ := d[key].(time.Time)
	return t
}
