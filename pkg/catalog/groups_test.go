package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultGroups(t *testing.T) {
	g := DefaultGroups()

	assert.Equal(t, []string{
		"Alimentos Frescos",
		"Bebidas",
		"Abarrotes",
		"Snacks y Dulces",
		"Cuidado Personal y Limpieza",
		"Panadería y Embutidos",
		"Útiles Escolares",
		"Alimentos para Animales",
		"Gas y Licorería",
	}, g.Names())

	group, ok := g.GroupOf("Chocolates y dulces")
	assert.True(t, ok)
	assert.Equal(t, "Snacks y Dulces", group)

	group, ok = g.GroupOf("Bebidas")
	assert.True(t, ok)
	assert.Equal(t, "Bebidas", group)

	_, ok = g.GroupOf("Sin categoría")
	assert.False(t, ok)
}

func TestNewGroups_Validation(t *testing.T) {
	tests := []struct {
		name   string
		groups []Group
		want   error
	}{
		{
			name:   "empty name",
			groups: []Group{{Name: " ", Color: "#000000"}},
			want:   ErrInvalidGroup,
		},
		{
			name:   "duplicate group",
			groups: []Group{{Name: "A", Color: "#000000"}, {Name: "A", Color: "#ffffff"}},
			want:   ErrInvalidGroup,
		},
		{
			name:   "bad color",
			groups: []Group{{Name: "A", Color: "red"}},
			want:   ErrInvalidGroup,
		},
		{
			name: "category in two groups",
			groups: []Group{
				{Name: "A", Color: "#000000", Categories: []string{"x", "y"}},
				{Name: "B", Color: "#ffffff", Categories: []string{"y"}},
			},
			want: ErrDuplicateCategory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGroups(tt.groups)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestGroups_LookupReturnsCopy(t *testing.T) {
	g, err := NewGroups([]Group{{Name: "A", Color: "#000000", Categories: []string{"x"}}})
	require.NoError(t, err)

	group, ok := g.Lookup("A")
	require.True(t, ok)
	group.Categories[0] = "changed"

	again, _ := g.Lookup("A")
	assert.Equal(t, []string{"x"}, again.Categories)

	_, ok = g.Lookup("missing")
	assert.False(t, ok)
}

func TestGroups_HasCategory(t *testing.T) {
	g := DefaultGroups()

	assert.True(t, g.HasCategory("Bebidas", "Bebidas gaseosas"))
	assert.False(t, g.HasCategory("Abarrotes", "Bebidas gaseosas"))
	assert.False(t, g.HasCategory("Missing", "Bebidas gaseosas"))
	assert.False(t, g.HasCategory("Bebidas", "Unknown"))
}

func TestParseGroups(t *testing.T) {
	data := []byte(`
groups:
  - name: Bebidas
    color: "#0400f0"
    categories: [Bebidas gaseosas, Jugos]
  - name: Snacks
    color: "#ff7700"
    categories:
      - Galletas
`)
	g, err := ParseGroups(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bebidas", "Snacks"}, g.Names())
	assert.True(t, g.HasCategory("Bebidas", "Jugos"))
	assert.Equal(t, 2, g.Len())

	_, err = ParseGroups([]byte("groups: []"))
	assert.ErrorIs(t, err, ErrInvalidGroup)

	_, err = ParseGroups([]byte("groups: [unterminated"))
	assert.Error(t, err)
}

func TestLoadGroupsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "groups.yaml")
	require.NoError(t, os.WriteFile(path, []byte("groups:\n  - name: A\n    color: \"#123456\"\n    categories: [x]\n"), 0o600))

	g, err := LoadGroupsFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, g.Names())

	_, err = LoadGroupsFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
