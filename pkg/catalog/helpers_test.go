package catalog

func testProduct(id, name, categoryRef, categoryName string) *Product {
	return &Product{
		ID:           id,
		Name:         name,
		CategoryRef:  categoryRef,
		CategoryName: categoryName,
		Fields: map[string]any{
			FieldName:   name,
			FieldStatus: StatusActive,
		},
	}
}

func testSnapshot(groups *Groups, products ...*Product) *Snapshot {
	snap := newSnapshot(len(products))
	for _, p := range products {
		group, _ := groups.GroupOf(p.CategoryName)
		snap.add(p, group)
	}
	return snap
}

func productNames(products []*Product) []string {
	names := make([]string, len(products))
	for i, p := range products {
		names[i] = p.Name
	}
	return names
}
