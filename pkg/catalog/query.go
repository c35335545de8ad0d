package catalog

import (
	"strings"

	"github.com/Sternrassler/catalog-api/pkg/pagination"
)

const (
	// HomeGroupSize is the maximum number of products shown per group on the home page.
	HomeGroupSize = 12

	// DefaultSearchLimit is the result count of a search without a limit.
	DefaultSearchLimit = 10

	// RelatedLimit caps the related products of a product.
	RelatedLimit = 10

	// AllProductsName is the listing title when no group is requested.
	AllProductsName = "Todos los Productos"
)

// GroupShowcase is one group of the home page.
type GroupShowcase struct {
	Name     string     `json:"nombreGrupo"`
	Color    string     `json:"color"`
	Products []*Product `json:"productos"`
}

// GroupQuery selects a page of a group or of the whole catalog.
type GroupQuery struct {
	Group    string
	Category string
	Page     int
	PageSize int
}

// GroupPage is a page of a group listing.
type GroupPage struct {
	GroupName       string     `json:"nombreGrupo"`
	GroupCategories []string   `json:"categoriasDelGrupo"`
	Page            int        `json:"paginaActual"`
	TotalPages      int        `json:"totalPaginas"`
	TotalProducts   int        `json:"totalProductos"`
	PageSize        int        `json:"productosPorPagina"`
	Products        []*Product `json:"productos"`
}

// homeShowcase picks up to HomeGroupSize random products of every non-empty group,
// in configuration order.
func homeShowcase(snap *Snapshot, groups *Groups, rng Shuffler) []GroupShowcase {
	showcase := make([]GroupShowcase, 0, groups.Len())
	for _, group := range groups.All() {
		bucket := snap.ByGroupName[group.Name]
		if len(bucket) == 0 {
			continue
		}
		picked := shuffled(rng, bucket)
		if len(picked) > HomeGroupSize {
			picked = picked[:HomeGroupSize]
		}
		showcase = append(showcase, GroupShowcase{
			Name:     group.Name,
			Color:    group.Color,
			Products: picked,
		})
	}
	return showcase
}

// groupListing validates q against groups and paginates the selected products.
// A category without a group is ignored.
func groupListing(snap *Snapshot, groups *Groups, q GroupQuery) (*GroupPage, error) {
	source := snap.All
	name := AllProductsName
	var categories []string

	if q.Group != "" {
		group, ok := groups.Lookup(q.Group)
		if !ok {
			return nil, notFound("Grupo no encontrado", map[string]any{
				"gruposDisponibles": groups.Names(),
			})
		}
		name = group.Name
		categories = group.Categories
		source = snap.ByGroupName[group.Name]

		if q.Category != "" {
			if !groups.HasCategory(group.Name, q.Category) {
				return nil, invalidInput(
					"La categoría '"+q.Category+"' no pertenece al grupo '"+group.Name+"'",
					map[string]any{"categoriasDelGrupo": categories},
				)
			}
			source = filterByCategory(source, q.Category)
		}
	}

	page := pagination.Paginate(source, pagination.Request{Page: q.Page, PageSize: q.PageSize})
	products := page.Items
	if products == nil {
		products = []*Product{}
	}
	return &GroupPage{
		GroupName:       name,
		GroupCategories: categories,
		Page:            page.Page,
		TotalPages:      page.TotalPages,
		TotalProducts:   page.TotalItems,
		PageSize:        page.PageSize,
		Products:        products,
	}, nil
}

func filterByCategory(products []*Product, category string) []*Product {
	out := make([]*Product, 0, len(products))
	for _, p := range products {
		if p.CategoryName == category {
			out = append(out, p)
		}
	}
	return out
}

// searchProducts ranks prefix matches before substring matches, both in catalog order.
// Names and term are compared upper-cased.
func searchProducts(all []*Product, term string, limit int) []*Product {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	needle := strings.ToUpper(term)
	names := upperNames(all)
	selected := make(map[int]bool)
	results := make([]*Product, 0, min(limit, len(all)))

	for i, name := range names {
		if len(results) >= limit {
			break
		}
		if strings.HasPrefix(name, needle) {
			selected[i] = true
			results = append(results, all[i])
		}
	}
	for i, name := range names {
		if len(results) >= limit {
			break
		}
		if !selected[i] && strings.Contains(name, needle) {
			selected[i] = true
			results = append(results, all[i])
		}
	}
	return results
}

// relatedProducts collects up to RelatedLimit products related to primary: those
// starting with its name minus the last word, then those starting with its first
// word, then products of the same category in random order.
func relatedProducts(all []*Product, primary *Product, rng Shuffler) []*Product {
	words := nameWords(strings.ToUpper(primary.Name))

	others := make([]int, 0, len(all))
	for i, p := range all {
		if p.ID != primary.ID {
			others = append(others, i)
		}
	}
	names := upperNames(all)

	selected := make(map[int]bool)
	related := make([]*Product, 0, RelatedLimit)
	add := func(i int) {
		if len(related) < RelatedLimit && !selected[i] {
			selected[i] = true
			related = append(related, all[i])
		}
	}
	byPrefix := func(prefix string) {
		for _, i := range others {
			if len(related) >= RelatedLimit {
				return
			}
			if strings.HasPrefix(names[i], prefix) {
				add(i)
			}
		}
	}

	if len(words) > 1 {
		byPrefix(strings.Join(words[:len(words)-1], " "))
	}
	if len(related) < RelatedLimit && len(words) > 0 {
		byPrefix(words[0])
	}
	if len(related) < RelatedLimit && primary.CategoryRef != "" {
		same := make([]int, 0)
		for _, i := range others {
			if all[i].CategoryRef == primary.CategoryRef {
				same = append(same, i)
			}
		}
		rng.Shuffle(len(same), func(a, b int) {
			same[a], same[b] = same[b], same[a]
		})
		for _, i := range same {
			if len(related) >= RelatedLimit {
				break
			}
			add(i)
		}
	}
	return related
}

func upperNames(products []*Product) []string {
	names := make([]string, len(products))
	for i, p := range products {
		names[i] = strings.ToUpper(p.Name)
	}
	return names
}

// nameWords splits on single spaces and drops empty words.
func nameWords(name string) []string {
	parts := strings.Split(name, " ")
	words := parts[:0]
	for _, w := range parts {
		if w != "" {
			words = append(words, w)
		}
	}
	return words
}
