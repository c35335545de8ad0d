package catalog

import "context"

// Upstream collections.
const (
	CollectionProducts   = "productos"
	CollectionCategories = "categorias"
)

// StatusActive is the status value of documents served by the catalog.
const StatusActive = "activo"

// Source reads the active documents of a collection from the system of record.
// Implementations filter on the status field server side and keep the upstream order.
type Source interface {
	FetchActive(ctx context.Context, collection string) ([]Document, error)
}
