// Package docstore is an embedded, schema-free document store. It reproduces
// the subset of document-database behavior the ledger needs (equality filters,
// $set/$inc updates, upsert, sorted cursors) so the rest of the system cannot
// tell whether it is talking to a real database or this in-memory stand-in.
package docstore

import (
	"reflect"
	"sync"

	"github.com/google/uuid"
)

// Document is a schema-free record: field name to dynamically-typed value.
type Document map[string]any

// Filter matches documents by field equality. An empty filter matches all.
type Filter map[string]any

// Update describes a document mutation. Set overwrites named fields, Inc adds
// a numeric delta (initializing absent fields to the delta), SetOnInsert only
// applies when an upsert creates a new document.
type Update struct {
	Set         Document
	Inc         Document
	SetOnInsert Document
}

// UpdateResult reports what an update did.
type UpdateResult struct {
	Matched    int
	Modified   int
	UpsertedID string
}

// DB holds named collections. Collections are created on first access.
type DB struct {
	mu          sync.Mutex
	collections map[string]*Collection
}

func New() *DB {
	return &DB{collections: make(map[string]*Collection)}
}

func (db *DB) Collection(name string) *Collection {
	db.mu.Lock()
	defer db.mu.Unlock()
	c, ok := db.collections[name]
	if !ok {
		c = &Collection{name: name}
		db.collections[name] = c
	}
	return c
}

// Collection is an ordered sequence of documents. All mutation paths hold the
// collection lock, so concurrent updates to the same document never interleave
// partially.
type Collection struct {
	name string
	mu   sync.Mutex
	docs []Document
}

// InsertOne appends a document, assigning a surrogate "id" when absent, and
// returns the identifier.
func (c *Collection) InsertOne(doc Document) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	stored := cloneDoc(doc)
	id, ok := stored["id"].(string)
	if !ok || id == "" {
		id = uuid.NewString()
		stored["id"] = id
	}
	c.docs = append(c.docs, stored)
	return id
}

// InsertOneIfAbsent inserts doc only when no document matches filter. The
// check and the insert run under one critical section, so two racing callers
// with the same filter cannot both insert. It reports whether the insert
// happened.
func (c *Collection) InsertOneIfAbsent(filter Filter, doc Document) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, d := range c.docs {
		if matches(d, filter) {
			return "", false
		}
	}
	stored := cloneDoc(doc)
	id, ok := stored["id"].(string)
	if !ok || id == "" {
		id = uuid.NewString()
		stored["id"] = id
	}
	c.docs = append(c.docs, stored)
	return id, true
}

// Find returns a cursor over copies of the documents matching filter, in
// insertion order. Copies keep callers from racing with later updates.
func (c *Collection) Find(filter Filter) *Cursor {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []Document
	for _, d := range c.docs {
		if matches(d, filter) {
			out = append(out, cloneDoc(d))
		}
	}
	return &Cursor{docs: out}
}

// FindOne returns a copy of the first match in insertion order.
func (c *Collection) FindOne(filter Filter) (Document, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, d := range c.docs {
		if matches(d, filter) {
			return cloneDoc(d), true
		}
	}
	return nil, false
}

// UpdateOne applies update to the first document matching filter: $set first,
// then $inc. With upsert, a missing match constructs a new document from the
// filter's equality constraints, the SetOnInsert payload, and the Set/Inc
// deltas applied to zero bases, then inserts it.
func (c *Collection) UpdateOne(filter Filter, update Update, upsert bool) UpdateResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, d := range c.docs {
		if !matches(d, filter) {
			continue
		}
		applyUpdate(d, update)
		return UpdateResult{Matched: 1, Modified: 1}
	}

	if !upsert {
		return UpdateResult{}
	}

	doc := Document{}
	for k, v := range filter {
		doc[k] = cloneValue(v)
	}
	for k, v := range update.SetOnInsert {
		doc[k] = cloneValue(v)
	}
	applyUpdate(doc, update)
	id, ok := doc["id"].(string)
	if !ok || id == "" {
		id = uuid.NewString()
		doc["id"] = id
	}
	c.docs = append(c.docs, doc)
	return UpdateResult{UpsertedID: id}
}

// DeleteOne removes the first match and reports the deleted count.
func (c *Collection) DeleteOne(filter Filter) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, d := range c.docs {
		if matches(d, filter) {
			c.docs = append(c.docs[:i], c.docs[i+1:]...)
			return 1
		}
	}
	return 0
}

func applyUpdate(doc Document, update Update) {
	for k, v := range update.Set {
		doc[k] = cloneValue(v)
	}
	for k, v := range update.Inc {
		if existing, ok := doc[k]; ok {
			doc[k] = addNumeric(existing, v)
		} else {
			doc[k] = toFloat(v)
		}
	}
}

func matches(doc Document, filter Filter) bool {
	for k, want := range filter {
		got, ok := doc[k]
		if !ok || !valuesEqual(got, want) {
			return false
		}
	}
	return true
}

// valuesEqual compares with numeric coercion so that an int filter value
// matches a float64 stored by $inc.
func valuesEqual(a, b any) bool {
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	if aok && bok {
		return af == bf
	}
	return a == b
}

func addNumeric(existing, delta any) any {
	return toFloat(existing) + toFloat(delta)
}

func toFloat(v any) float64 {
	f, _ := asFloat(v)
	return f
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func cloneDoc(doc Document) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		out[k] = cloneValue(v)
	}
	return out
}

// cloneValue copies container values so documents handed to callers never
// share slices or maps with the stored record.
func cloneValue(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case Document:
		return cloneDoc(val)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, e := range val {
			out[k] = cloneValue(e)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = cloneValue(e)
		}
		return out
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice:
		if rv.IsNil() {
			return v
		}
		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		reflect.Copy(out, rv)
		return out.Interface()
	case reflect.Map:
		if rv.IsNil() {
			return v
		}
		out := reflect.MakeMap(rv.Type())
		iter := rv.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), iter.Value())
		}
		return out.Interface()
	}
	return v
}
