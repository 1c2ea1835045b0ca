package database

import (
	"context"
	"encoding/json"
	"reflect"
	"sort"
	"sync"
)

// MemStore is an in-memory Store used by the test suites. Documents are held
// as raw JSON per collection in insertion order, mirroring how the Arango
// implementation round-trips them.
type MemStore struct {
	mu   sync.Mutex
	docs map[string][]json.RawMessage
}

// NewMemStore builds an empty in-memory store
func NewMemStore() *MemStore {
	return &MemStore{docs: make(map[string][]json.RawMessage)}
}

// normalize round-trips a value through JSON so filter values compare
// equal to decoded document fields regardless of their Go types
func normalize(value interface{}) interface{} {
	buf, err := json.Marshal(value)
	if err != nil {
		return nil
	}
	var out interface{}
	_ = json.Unmarshal(buf, &out)
	return out
}

func matches(doc map[string]interface{}, filter Filter) bool {
	for field, want := range filter {
		if !reflect.DeepEqual(doc[field], normalize(want)) {
			return false
		}
	}
	return true
}

func project(doc map[string]interface{}, projection []string) map[string]interface{} {
	if len(projection) == 0 {
		return doc
	}
	kept := make(map[string]interface{}, len(projection))
	for _, field := range projection {
		if value, ok := doc[field]; ok {
			kept[field] = value
		}
	}
	return kept
}

func decodeDoc(raw json.RawMessage) map[string]interface{} {
	var doc map[string]interface{}
	_ = json.Unmarshal(raw, &doc)
	return doc
}

// sortKey renders a field value so lexicographic compare orders RFC3339
// timestamps and keys correctly
func sortKey(doc map[string]interface{}, field string) string {
	buf, _ := json.Marshal(doc[field])
	return string(buf)
}

// FindOne implements Store
func (m *MemStore) FindOne(_ context.Context, collection string, filter Filter, projection []string, out interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, raw := range m.docs[collection] {
		doc := decodeDoc(raw)
		if matches(doc, filter) {
			buf, err := json.Marshal(project(doc, projection))
			if err != nil {
				return err
			}
			return json.Unmarshal(buf, out)
		}
	}
	return ErrNotFound
}

// FindMany implements Store
func (m *MemStore) FindMany(_ context.Context, collection string, filter Filter, projection []string, sortFields []SortField, out interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	matched := []map[string]interface{}{}
	for _, raw := range m.docs[collection] {
		doc := decodeDoc(raw)
		if matches(doc, filter) {
			matched = append(matched, doc)
		}
	}

	if len(sortFields) == 0 {
		sortFields = []SortField{{Field: "_key"}}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		for _, s := range sortFields {
			a, b := sortKey(matched[i], s.Field), sortKey(matched[j], s.Field)
			if a == b {
				continue
			}
			if s.Desc {
				return a > b
			}
			return a < b
		}
		return false
	})

	projected := make([]map[string]interface{}, 0, len(matched))
	for _, doc := range matched {
		projected = append(projected, project(doc, projection))
	}
	buf, err := json.Marshal(projected)
	if err != nil {
		return err
	}
	return json.Unmarshal(buf, out)
}

// InsertOne implements Store
func (m *MemStore) InsertOne(_ context.Context, collection string, doc interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	m.docs[collection] = append(m.docs[collection], raw)
	return nil
}

// ReplaceOne implements Store. The stored document keeps its _key, as the
// AQL REPLACE does.
func (m *MemStore) ReplaceOne(_ context.Context, collection string, filter Filter, doc interface{}, out interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, raw := range m.docs[collection] {
		old := decodeDoc(raw)
		if !matches(old, filter) {
			continue
		}

		buf, err := json.Marshal(doc)
		if err != nil {
			return err
		}
		next := decodeDoc(buf)
		if key, ok := old["_key"]; ok {
			next["_key"] = key
		}
		stored, err := json.Marshal(next)
		if err != nil {
			return err
		}
		m.docs[collection][i] = stored

		if out != nil {
			return json.Unmarshal(stored, out)
		}
		return nil
	}
	return ErrNotModified
}

// DeleteOne implements Store
func (m *MemStore) DeleteOne(_ context.Context, collection string, filter Filter) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, raw := range m.docs[collection] {
		if matches(decodeDoc(raw), filter) {
			m.docs[collection] = append(m.docs[collection][:i], m.docs[collection][i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
