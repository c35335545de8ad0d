package catalog

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchProducts_PrefixBeforeSubstring(t *testing.T) {
	all := []*Product{
		testProduct("1", "Milk Chocolate", "", ""),
		testProduct("2", "Chocolate Bar", "", ""),
		testProduct("3", "Dark Chocolate", "", ""),
		testProduct("4", "Vanilla", "", ""),
	}

	tests := []struct {
		name  string
		term  string
		limit int
		want  []string
	}{
		{"ranked", "Choc", 10, []string{"Chocolate Bar", "Milk Chocolate", "Dark Chocolate"}},
		{"case insensitive", "cHOC", 10, []string{"Chocolate Bar", "Milk Chocolate", "Dark Chocolate"}},
		{"limit stops pass two", "Choc", 2, []string{"Chocolate Bar", "Milk Chocolate"}},
		{"limit stops pass one", "Choc", 1, []string{"Chocolate Bar"}},
		{"default limit", "Choc", 0, []string{"Chocolate Bar", "Milk Chocolate", "Dark Chocolate"}},
		{"no match", "Cafe", 10, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := searchProducts(all, tt.term, tt.limit)
			assert.Equal(t, tt.want, productNames(got))
		})
	}
}

func TestSearchProducts_NoDuplicates(t *testing.T) {
	all := []*Product{
		testProduct("1", "Choc Choc", "", ""),
		testProduct("2", "Hot Choc", "", ""),
	}
	got := searchProducts(all, "choc", 10)
	assert.Equal(t, []string{"Choc Choc", "Hot Choc"}, productNames(got))
}

func TestSearchProducts_DefaultLimit(t *testing.T) {
	var all []*Product
	for i := 0; i < 25; i++ {
		all = append(all, testProduct(fmt.Sprint(i), fmt.Sprintf("Galleta %d", i), "", ""))
	}
	assert.Len(t, searchProducts(all, "gall", 0), DefaultSearchLimit)
	assert.Len(t, searchProducts(all, "gall", 20), 20)
}

func TestRelatedProducts_FirstWordBeforeCategory(t *testing.T) {
	primary := testProduct("p1", "Coca Cola 500ml", "c1", "Bebidas gaseosas")
	all := []*Product{
		testProduct("p2", "Fanta 500ml", "c1", "Bebidas gaseosas"),
		primary,
		testProduct("p3", "Coca Light", "c2", "Bebidas"),
		testProduct("p4", "Sprite 500ml", "c1", "Bebidas gaseosas"),
		testProduct("p5", "Coca Zero", "c3", "Bebidas"),
		testProduct("p6", "Pepsi", "c9", "Bebidas"),
	}

	got := relatedProducts(all, primary, NewRand(1))

	require.Len(t, got, 4)
	assert.Equal(t, []string{"Coca Light", "Coca Zero"}, productNames(got[:2]))
	assert.ElementsMatch(t, []string{"Fanta 500ml", "Sprite 500ml"}, productNames(got[2:]))
	for _, p := range got {
		assert.NotEqual(t, primary.ID, p.ID)
	}
}

func TestRelatedProducts_NameWithoutLastWordFirst(t *testing.T) {
	primary := testProduct("p1", "Coca Cola 500ml", "c1", "")
	all := []*Product{
		testProduct("p2", "Coca Light", "", ""),
		testProduct("p3", "Coca Cola 1L", "", ""),
		primary,
	}

	got := relatedProducts(all, primary, NewRand(1))
	assert.Equal(t, []string{"Coca Cola 1L", "Coca Light"}, productNames(got))
}

func TestRelatedProducts_Cap(t *testing.T) {
	primary := testProduct("p0", "Galleta Soda", "c1", "")
	all := []*Product{primary}
	for i := 1; i <= 30; i++ {
		all = append(all, testProduct(fmt.Sprintf("p%d", i), fmt.Sprintf("Galleta Soda %d", i), "c1", ""))
	}

	got := relatedProducts(all, primary, NewRand(1))
	assert.Len(t, got, RelatedLimit)
	for _, p := range got {
		assert.NotEqual(t, "p0", p.ID)
	}
	assert.Equal(t, "Galleta Soda 1", got[0].Name)
}

func TestRelatedProducts_SingleWordAndNoCategory(t *testing.T) {
	primary := testProduct("p1", "Pan", "", "")
	all := []*Product{
		primary,
		testProduct("p2", "Panetón", "c1", ""),
		testProduct("p3", "Leche", "", ""),
	}

	got := relatedProducts(all, primary, NewRand(1))
	assert.Equal(t, []string{"Panetón"}, productNames(got))
}

func TestRelatedProducts_EmptyName(t *testing.T) {
	primary := testProduct("p1", "", "c1", "")
	all := []*Product{primary, testProduct("p2", "Arroz", "c1", ""), testProduct("p3", "Azúcar", "c2", "")}

	got := relatedProducts(all, primary, NewRand(1))
	assert.Equal(t, []string{"Arroz"}, productNames(got))
}

func TestRelatedProducts_SeededShuffleIsDeterministic(t *testing.T) {
	primary := testProduct("p0", "Único", "c1", "")
	all := []*Product{primary}
	for i := 1; i <= 20; i++ {
		all = append(all, testProduct(fmt.Sprintf("p%d", i), fmt.Sprintf("Item %d", i), "c1", ""))
	}

	first := relatedProducts(all, primary, NewRand(42))
	second := relatedProducts(all, primary, NewRand(42))
	assert.Equal(t, productNames(first), productNames(second))
	assert.Len(t, first, RelatedLimit)
}

func TestHomeShowcase(t *testing.T) {
	groups := DefaultGroups()
	var products []*Product
	for i := 0; i < 20; i++ {
		products = append(products, testProduct(fmt.Sprintf("s%d", i), fmt.Sprintf("Snack %d", i), "c1", "Galletas"))
	}
	products = append(products,
		testProduct("f1", "Manzana", "c2", "Frutas"),
		testProduct("x1", "Misterio", "", UncategorizedName),
	)
	snap := testSnapshot(groups, products...)
	before := productNames(snap.ByGroupName["Snacks y Dulces"])

	showcase := homeShowcase(snap, groups, NewRand(3))

	require.Len(t, showcase, 2)
	assert.Equal(t, "Alimentos Frescos", showcase[0].Name)
	assert.Equal(t, "#ff0000", showcase[0].Color)
	assert.Equal(t, []string{"Manzana"}, productNames(showcase[0].Products))
	assert.Equal(t, "Snacks y Dulces", showcase[1].Name)
	assert.Len(t, showcase[1].Products, HomeGroupSize)
	assert.Subset(t, before, productNames(showcase[1].Products))

	assert.Equal(t, before, productNames(snap.ByGroupName["Snacks y Dulces"]), "cached bucket must not be reordered")
}

func TestHomeShowcase_Empty(t *testing.T) {
	showcase := homeShowcase(newSnapshot(0), DefaultGroups(), NewRand(1))
	assert.NotNil(t, showcase)
	assert.Empty(t, showcase)
}

func listingSnapshot(groups *Groups) *Snapshot {
	var products []*Product
	for i := 1; i <= 15; i++ {
		products = append(products, testProduct(fmt.Sprintf("g%d", i), fmt.Sprintf("Gaseosa %d", i), "c1", "Bebidas gaseosas"))
	}
	for i := 1; i <= 3; i++ {
		products = append(products, testProduct(fmt.Sprintf("j%d", i), fmt.Sprintf("Café %d", i), "c2", "Café e infusiones"))
	}
	products = append(products, testProduct("x1", "Misterio", "", UncategorizedName))
	return testSnapshot(groups, products...)
}

func TestGroupListing_AllProducts(t *testing.T) {
	groups := DefaultGroups()
	snap := listingSnapshot(groups)

	page, err := groupListing(snap, groups, GroupQuery{})
	require.NoError(t, err)

	assert.Equal(t, AllProductsName, page.GroupName)
	assert.Nil(t, page.GroupCategories)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 12, page.PageSize)
	assert.Equal(t, 19, page.TotalProducts)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Products, 12)
	assert.Equal(t, "Gaseosa 1", page.Products[0].Name)
}

func TestGroupListing_CategoryIgnoredWithoutGroup(t *testing.T) {
	groups := DefaultGroups()
	snap := listingSnapshot(groups)

	page, err := groupListing(snap, groups, GroupQuery{Category: "Café e infusiones", PageSize: 50})
	require.NoError(t, err)
	assert.Equal(t, 19, page.TotalProducts)
}

func TestGroupListing_GroupPages(t *testing.T) {
	groups := DefaultGroups()
	snap := listingSnapshot(groups)

	tests := []struct {
		name      string
		query     GroupQuery
		wantTotal int
		wantPages int
		wantPage  int
		wantNames []string
	}{
		{
			name:      "second page",
			query:     GroupQuery{Group: "Bebidas", Page: 2, PageSize: 5},
			wantTotal: 18,
			wantPages: 4,
			wantPage:  2,
			wantNames: []string{"Gaseosa 6", "Gaseosa 7", "Gaseosa 8", "Gaseosa 9", "Gaseosa 10"},
		},
		{
			name:      "last partial page",
			query:     GroupQuery{Group: "Bebidas", Page: 4, PageSize: 5},
			wantTotal: 18,
			wantPages: 4,
			wantPage:  4,
			wantNames: []string{"Café 1", "Café 2", "Café 3"},
		},
		{
			name:      "category filter",
			query:     GroupQuery{Group: "Bebidas", Category: "Café e infusiones"},
			wantTotal: 3,
			wantPages: 1,
			wantPage:  1,
			wantNames: []string{"Café 1", "Café 2", "Café 3"},
		},
		{
			name:      "past the end",
			query:     GroupQuery{Group: "Bebidas", Page: 9},
			wantTotal: 18,
			wantPages: 2,
			wantPage:  9,
			wantNames: []string{},
		},
		{
			name:      "empty group",
			query:     GroupQuery{Group: "Gas y Licorería"},
			wantTotal: 0,
			wantPages: 0,
			wantPage:  1,
			wantNames: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := groupListing(snap, groups, tt.query)
			require.NoError(t, err)

			assert.Equal(t, tt.query.Group, page.GroupName)
			assert.NotEmpty(t, page.GroupCategories)
			assert.Equal(t, tt.wantTotal, page.TotalProducts)
			assert.Equal(t, tt.wantPages, page.TotalPages)
			assert.Equal(t, tt.wantPage, page.Page)
			assert.NotNil(t, page.Products)
			assert.Equal(t, tt.wantNames, productNames(page.Products))
		})
	}
}

func TestGroupListing_UnknownGroup(t *testing.T) {
	groups := DefaultGroups()

	_, err := groupListing(listingSnapshot(groups), groups, GroupQuery{Group: "Bebida"})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	catErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, groups.Names(), catErr.Details["gruposDisponibles"])
}

func TestGroupListing_CategoryOutsideGroup(t *testing.T) {
	groups := DefaultGroups()

	_, err := groupListing(listingSnapshot(groups), groups, GroupQuery{Group: "Bebidas", Category: "Carnes"})
	require.Error(t, err)
	assert.True(t, IsInvalidInput(err))

	catErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, "La categoría 'Carnes' no pertenece al grupo 'Bebidas'", catErr.Message)
	group, _ := groups.Lookup("Bebidas")
	assert.Equal(t, group.Categories, catErr.Details["categoriasDelGrupo"])
}

func TestNameWords(t *testing.T) {
	assert.Equal(t, []string{"COCA", "COLA"}, nameWords("COCA  COLA "))
	assert.Empty(t, nameWords(""))
}
