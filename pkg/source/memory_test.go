package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sternrassler/catalog-api/pkg/catalog"
)

func TestMemory_FetchActiveFiltersStatus(t *testing.T) {
	m := NewMemory()
	m.Put(catalog.CollectionProducts,
		catalog.Document{ID: "p1", Fields: map[string]any{"nombre": "Arroz", "estado": "activo"}},
		catalog.Document{ID: "p2", Fields: map[string]any{"nombre": "Azúcar", "estado": "inactivo"}},
		catalog.Document{ID: "p3", Fields: map[string]any{"nombre": "Sal"}},
		catalog.Document{ID: "p4", Fields: map[string]any{"nombre": "Aceite", "estado": "activo"}},
	)

	docs, err := m.FetchActive(context.Background(), catalog.CollectionProducts)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "p1", docs[0].ID)
	assert.Equal(t, "p4", docs[1].ID)
}

func TestMemory_FetchActiveReturnsCopies(t *testing.T) {
	m := NewMemory()
	m.Put(catalog.CollectionCategories, catalog.Document{ID: "c1", Fields: map[string]any{"nombre": "Carnes", "estado": "activo"}})

	docs, err := m.FetchActive(context.Background(), catalog.CollectionCategories)
	require.NoError(t, err)
	docs[0].Fields["nombre"] = "changed"

	again, err := m.FetchActive(context.Background(), catalog.CollectionCategories)
	require.NoError(t, err)
	assert.Equal(t, "Carnes", again[0].Fields["nombre"])
}

func TestMemory_UnknownCollectionIsEmpty(t *testing.T) {
	docs, err := NewMemory().FetchActive(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestMemory_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMemory().FetchActive(ctx, catalog.CollectionProducts)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseFixtures(t *testing.T) {
	data := []byte(`{
		"categorias": [{"id": "c1", "nombre": "Bebidas gaseosas", "estado": "activo"}],
		"productos": [
			{"id": "p1", "nombre": "Coca Cola 500ml", "categoria_ref": "c1", "estado": "activo", "precio": 3.5},
			{"id": "p2", "nombre": "Fanta 500ml", "categoria_ref": "c1", "estado": "inactivo"}
		]
	}`)

	m, err := ParseFixtures(data)
	require.NoError(t, err)

	products, err := m.FetchActive(context.Background(), catalog.CollectionProducts)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "p1", products[0].ID)
	assert.NotContains(t, products[0].Fields, "id")
	assert.Equal(t, 3.5, products[0].Fields["precio"])

	categories, err := m.FetchActive(context.Background(), catalog.CollectionCategories)
	require.NoError(t, err)
	assert.Len(t, categories, 1)
}

func TestParseFixtures_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid json", `{`},
		{"missing id", `{"productos": [{"nombre": "x"}]}`},
		{"wrong shape", `{"productos": {"id": "p1"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFixtures([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoadFixtures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtures.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"categorias": [{"id": "c1", "estado": "activo"}]}`), 0o600))

	m, err := LoadFixtures(path)
	require.NoError(t, err)
	docs, err := m.FetchActive(context.Background(), catalog.CollectionCategories)
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	_, err = LoadFixtures(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestMemory_ImplementsSource(t *testing.T) {
	var _ catalog.Source = NewMemory()
	var _ catalog.Source = (*Firestore)(nil)
}
