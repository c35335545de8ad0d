package catalog

import (
	"encoding/json"
	"fmt"
	"time"
)

// Upstream document field names.
const (
	FieldName        = "nombre"
	FieldCategoryRef = "categoria_ref"
	FieldStatus      = "estado"

	// fieldID and fieldCategoryName are added to the JSON form of documents.
	fieldID           = "id"
	fieldCategoryName = "nombre_categoria"
)

// UncategorizedName is the category name given to products whose category
// reference is missing or unknown.
const UncategorizedName = "Sin categoría"

// Document is one record returned by the document source.
type Document struct {
	ID     string
	Fields map[string]any
}

// Product is an active product enriched with its category name.
// Upstream fields are kept in Fields and flattened next to the typed ones in JSON.
type Product struct {
	ID           string
	Name         string
	CategoryRef  string
	CategoryName string
	Fields       map[string]any
}

// Category is an active product category.
type Category struct {
	ID     string
	Name   string
	Status string
	Fields map[string]any
}

// ProductFromDocument extracts a product from an upstream document.
// The category name is left empty; the builder resolves it.
func ProductFromDocument(doc Document) *Product {
	return &Product{
		ID:          doc.ID,
		Name:        stringField(doc.Fields, FieldName),
		CategoryRef: stringField(doc.Fields, FieldCategoryRef),
		Fields:      doc.Fields,
	}
}

// CategoryFromDocument extracts a category from an upstream document.
func CategoryFromDocument(doc Document) *Category {
	return &Category{
		ID:     doc.ID,
		Name:   stringField(doc.Fields, FieldName),
		Status: stringField(doc.Fields, FieldStatus),
		Fields: doc.Fields,
	}
}

// fieldMap returns the flattened JSON representation of the product.
func (p *Product) fieldMap() map[string]any {
	out := make(map[string]any, len(p.Fields)+4)
	for k, v := range p.Fields {
		out[k] = v
	}
	out[fieldID] = p.ID
	out[FieldName] = p.Name
	if p.CategoryRef != "" {
		out[FieldCategoryRef] = p.CategoryRef
	}
	out[fieldCategoryName] = p.CategoryName
	return out
}

// MarshalJSON flattens the upstream fields next to id and nombre_categoria.
func (p *Product) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.fieldMap())
}

// UnmarshalJSON restores a product from its flattened form.
func (p *Product) UnmarshalJSON(data []byte) error {
	fields := map[string]any{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("decode product: %w", err)
	}
	p.ID = stringField(fields, fieldID)
	p.Name = stringField(fields, FieldName)
	p.CategoryRef = stringField(fields, FieldCategoryRef)
	p.CategoryName = stringField(fields, fieldCategoryName)
	delete(fields, fieldID)
	delete(fields, fieldCategoryName)
	p.Fields = fields
	return nil
}

// MarshalJSON flattens the upstream fields next to id.
func (c *Category) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(c.Fields)+3)
	for k, v := range c.Fields {
		out[k] = v
	}
	out[fieldID] = c.ID
	out[FieldName] = c.Name
	if c.Status != "" {
		out[FieldStatus] = c.Status
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores a category from its flattened form.
func (c *Category) UnmarshalJSON(data []byte) error {
	fields := map[string]any{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("decode category: %w", err)
	}
	c.ID = stringField(fields, fieldID)
	c.Name = stringField(fields, FieldName)
	c.Status = stringField(fields, FieldStatus)
	delete(fields, fieldID)
	c.Fields = fields
	return nil
}

// CategoryList is the cached list of active categories.
type CategoryList struct {
	Categories  []*Category `json:"categorias"`
	Total       int         `json:"total"`
	LastUpdated time.Time   `json:"lastUpdated"`
}

// stringField reads a string field, returning "" when absent or not a string.
func stringField(fields map[string]any, name string) string {
	if v, ok := fields[name].(string); ok {
		return v
	}
	return ""
}
