// Package testutil provides testing utilities for the catalog API.
package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/Sternrassler/catalog-api/pkg/catalog"
	"github.com/Sternrassler/catalog-api/pkg/source"
)

// FakeSource is a configurable catalog.Source for tests. It serves documents
// from an in-memory source and can delay or fail reads per collection.
type FakeSource struct {
	*source.Memory

	mu     sync.RWMutex
	errs   map[string]error
	delay  time.Duration
	calls  map[string]int
	notify chan string
}

// NewFakeSource creates an empty fake source.
func NewFakeSource() *FakeSource {
	return &FakeSource{
		Memory: source.NewMemory(),
		errs:   make(map[string]error),
		calls:  make(map[string]int),
	}
}

// AddCategory adds an active category.
func (f *FakeSource) AddCategory(id, name string) {
	f.Put(catalog.CollectionCategories, catalog.Document{
		ID: id,
		Fields: map[string]any{
			catalog.FieldName:   name,
			catalog.FieldStatus: catalog.StatusActive,
		},
	})
}

// AddProduct adds an active product. An empty categoryRef leaves the field out.
func (f *FakeSource) AddProduct(id, name, categoryRef string) {
	fields := map[string]any{
		catalog.FieldName:   name,
		catalog.FieldStatus: catalog.StatusActive,
	}
	if categoryRef != "" {
		fields[catalog.FieldCategoryRef] = categoryRef
	}
	f.Put(catalog.CollectionProducts, catalog.Document{ID: id, Fields: fields})
}

// SetError makes reads of collection fail with err. A nil err clears the failure.
func (f *FakeSource) SetError(collection string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.errs, collection)
		return
	}
	f.errs[collection] = err
}

// SetDelay delays every read. The delay is cut short when the context ends.
func (f *FakeSource) SetDelay(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delay = d
}

// NotifyCalls returns a channel receiving the collection of every read as it starts.
func (f *FakeSource) NotifyCalls(buffer int) <-chan string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notify = make(chan string, buffer)
	return f.notify
}

// FetchActive implements catalog.Source.
func (f *FakeSource) FetchActive(ctx context.Context, collection string) ([]catalog.Document, error) {
	f.mu.Lock()
	f.calls[collection]++
	err := f.errs[collection]
	delay := f.delay
	notify := f.notify
	f.mu.Unlock()

	if notify != nil {
		select {
		case notify <- collection:
		default:
		}
	}

	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err != nil {
		return nil, err
	}
	return f.Memory.FetchActive(ctx, collection)
}

// Calls returns the number of reads of collection.
func (f *FakeSource) Calls(collection string) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.calls[collection]
}

// Reset clears the counters, failures and delay.
func (f *FakeSource) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = make(map[string]int)
	f.errs = make(map[string]error)
	f.delay = 0
}
