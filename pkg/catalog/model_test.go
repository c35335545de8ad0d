package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductFromDocument(t *testing.T) {
	p := ProductFromDocument(Document{
		ID: "p1",
		Fields: map[string]any{
			"nombre":        "Coca Cola 500ml",
			"categoria_ref": "c1",
			"precio":        3.5,
		},
	})

	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "Coca Cola 500ml", p.Name)
	assert.Equal(t, "c1", p.CategoryRef)
	assert.Empty(t, p.CategoryName)
}

func TestProductFromDocument_NonStringFields(t *testing.T) {
	p := ProductFromDocument(Document{ID: "p1", Fields: map[string]any{"nombre": 42}})
	assert.Empty(t, p.Name)
	assert.Empty(t, p.CategoryRef)
}

func TestProduct_JSONFlattensFields(t *testing.T) {
	p := testProduct("p1", "Coca Cola 500ml", "c1", "Bebidas gaseosas")
	p.Fields["precio"] = 3.5

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "p1", got["id"])
	assert.Equal(t, "Coca Cola 500ml", got["nombre"])
	assert.Equal(t, "c1", got["categoria_ref"])
	assert.Equal(t, "Bebidas gaseosas", got["nombre_categoria"])
	assert.Equal(t, 3.5, got["precio"])
	assert.Equal(t, "activo", got["estado"])
}

func TestProduct_UnmarshalJSON(t *testing.T) {
	var p Product
	err := json.Unmarshal([]byte(`{"id":"p1","nombre":"Arroz","categoria_ref":"c2","nombre_categoria":"Abarrotes","precio":2}`), &p)
	require.NoError(t, err)

	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "Arroz", p.Name)
	assert.Equal(t, "c2", p.CategoryRef)
	assert.Equal(t, "Abarrotes", p.CategoryName)
	assert.NotContains(t, p.Fields, "id")
	assert.NotContains(t, p.Fields, "nombre_categoria")
	assert.Equal(t, float64(2), p.Fields["precio"])

	assert.Error(t, json.Unmarshal([]byte(`[]`), &p))
}

func TestCategory_JSON(t *testing.T) {
	c := CategoryFromDocument(Document{ID: "c1", Fields: map[string]any{"nombre": "Carnes", "estado": "activo", "orden": 1}})
	assert.Equal(t, "Carnes", c.Name)
	assert.Equal(t, "activo", c.Status)

	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"c1","nombre":"Carnes","estado":"activo","orden":1}`, string(data))

	var decoded Category
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "c1", decoded.ID)
	assert.Equal(t, "Carnes", decoded.Name)
	assert.Equal(t, "activo", decoded.Status)
}
