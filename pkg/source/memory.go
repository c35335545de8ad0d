package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/Sternrassler/catalog-api/pkg/catalog"
)

// Memory is an in-memory document store. Only documents whose status field is
// catalog.StatusActive are returned by FetchActive.
type Memory struct {
	mu          sync.RWMutex
	collections map[string][]catalog.Document
}

// NewMemory creates an empty in-memory source.
func NewMemory() *Memory {
	return &Memory{collections: make(map[string][]catalog.Document)}
}

// Put appends documents to a collection.
func (m *Memory) Put(collection string, docs ...catalog.Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.collections[collection] = append(m.collections[collection], docs...)
}

// Replace swaps the documents of a collection.
func (m *Memory) Replace(collection string, docs []catalog.Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.collections[collection] = append([]catalog.Document(nil), docs...)
}

// FetchActive implements catalog.Source.
func (m *Memory) FetchActive(ctx context.Context, collection string) ([]catalog.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	docs := m.collections[collection]
	active := make([]catalog.Document, 0, len(docs))
	for _, doc := range docs {
		if status, _ := doc.Fields[catalog.FieldStatus].(string); status != catalog.StatusActive {
			continue
		}
		active = append(active, catalog.Document{ID: doc.ID, Fields: copyFields(doc.Fields)})
	}
	return active, nil
}

// LoadFixtures reads a JSON fixture file into a new in-memory source.
func LoadFixtures(path string) (*Memory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	return ParseFixtures(data)
}

// ParseFixtures decodes {"<collection>": [{"id": ..., fields...}]}.
func ParseFixtures(data []byte) (*Memory, error) {
	var raw map[string][]map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}

	m := NewMemory()
	for collection, records := range raw {
		docs := make([]catalog.Document, 0, len(records))
		for i, record := range records {
			id, _ := record["id"].(string)
			if id == "" {
				return nil, fmt.Errorf("parse fixtures: %s[%d] has no id", collection, i)
			}
			fields := copyFields(record)
			delete(fields, "id")
			docs = append(docs, catalog.Document{ID: id, Fields: fields})
		}
		m.Replace(collection, docs)
	}
	return m, nil
}

func copyFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}
