package docstore

import (
	"sort"
	"time"
)

// Sort directions, matching the document-database convention.
const (
	Ascending  = 1
	Descending = -1
)

// Cursor iterates a query result. Sort and Limit return the cursor for
// chaining; All materializes the result and is terminal.
type Cursor struct {
	docs []Document
}

// Sort orders the result by a single key. The sort is stable, so documents
// with equal keys keep their insertion order.
func (cur *Cursor) Sort(key string, direction int) *Cursor {
	sort.SliceStable(cur.docs, func(i, j int) bool {
		cmp := compareValues(cur.docs[i][key], cur.docs[j][key])
		if direction == Descending {
			return cmp > 0
		}
		return cmp < 0
	})
	return cur
}

// Limit truncates the result to the first n documents.
func (cur *Cursor) Limit(n int) *Cursor {
	if n >= 0 && n < len(cur.docs) {
		cur.docs = cur.docs[:n]
	}
	return cur
}

// All returns the materialized result in order.
func (cur *Cursor) All() []Document {
	return cur.docs
}

// Count reports the number of documents in the result.
func (cur *Cursor) Count() int {
	return len(cur.docs)
}

func compareValues(a, b any) int {
	if af, aok := asFloat(a); aok {
		if bf, bok := asFloat(b); bok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			default:
				return 0
			}
		}
	}
	if at, ok := a.(time.Time); ok {
		if bt, ok := b.(time.Time); ok {
			switch {
			case at.Before(bt):
				return -1
			case at.After(bt):
				return 1
			default:
				return 0
			}
		}
	}
	as, aok := a.(string)
	bs, bok := b.(string)
	if aok && bok {
		switch {
		case as < bs:
			return -1
		case as > bs:
			return 1
		default:
			return 0
		}
	}
	return 0
}
