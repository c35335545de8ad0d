package catalog

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrDuplicateCategory is returned when a category is listed in more than one group.
	ErrDuplicateCategory = errors.New("category assigned to more than one group")

	// ErrInvalidGroup is returned for a group without a name, with a duplicate name or with a malformed color.
	ErrInvalidGroup = errors.New("invalid group configuration")
)

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Group is a named partition of categories shown together.
type Group struct {
	Name       string   `yaml:"name" json:"nombre"`
	Color      string   `yaml:"color" json:"color"`
	Categories []string `yaml:"categories" json:"categorias"`
}

// Groups is the static group configuration. The category to group lookup is
// computed once when the configuration is created and never changes afterwards.
type Groups struct {
	groups          []Group
	byName          map[string]int
	groupOfCategory map[string]string
}

// NewGroups validates the configuration and precomputes the category lookup.
// Declaration order is kept; it is the order of the home page.
func NewGroups(groups []Group) (*Groups, error) {
	g := &Groups{
		groups:          make([]Group, 0, len(groups)),
		byName:          make(map[string]int, len(groups)),
		groupOfCategory: make(map[string]string),
	}
	for _, group := range groups {
		if strings.TrimSpace(group.Name) == "" {
			return nil, fmt.Errorf("%w: empty group name", ErrInvalidGroup)
		}
		if _, exists := g.byName[group.Name]; exists {
			return nil, fmt.Errorf("%w: group %q declared twice", ErrInvalidGroup, group.Name)
		}
		if !colorPattern.MatchString(group.Color) {
			return nil, fmt.Errorf("%w: group %q has color %q, want #RRGGBB", ErrInvalidGroup, group.Name, group.Color)
		}
		for _, category := range group.Categories {
			if owner, exists := g.groupOfCategory[category]; exists {
				return nil, fmt.Errorf("%w: %q in %q and %q", ErrDuplicateCategory, category, owner, group.Name)
			}
			g.groupOfCategory[category] = group.Name
		}
		g.byName[group.Name] = len(g.groups)
		g.groups = append(g.groups, Group{
			Name:       group.Name,
			Color:      group.Color,
			Categories: append([]string(nil), group.Categories...),
		})
	}
	return g, nil
}

// DefaultGroups returns the built-in store configuration.
func DefaultGroups() *Groups {
	g, err := NewGroups(defaultGroups)
	if err != nil {
		panic(fmt.Sprintf("catalog: default groups: %v", err))
	}
	return g
}

var defaultGroups = []Group{
	{Name: "Alimentos Frescos", Color: "#ff0000", Categories: []string{"Carnes", "Frutas", "Verduras", "Lacteos y huevos"}},
	{Name: "Bebidas", Color: "#0400f0", Categories: []string{"Bebidas", "Bebidas gaseosas", "Bebidas alcohólicas", "Café e infusiones", "Bebidas y alimentos instantáneas"}},
	{Name: "Abarrotes", Color: "#45923a", Categories: []string{"Abarrotes", "Harinas", "Fideos", "Enlatados", "Grasas y Aceites", "Condimentos y esencias"}},
	{Name: "Snacks y Dulces", Color: "#ff7700", Categories: []string{"Snacks y cereales", "Chocolates y dulces", "Galletas"}},
	{Name: "Cuidado Personal y Limpieza", Color: "#0095ff", Categories: []string{"Cuidado Personal", "Productos de limpieza"}},
	{Name: "Panadería y Embutidos", Color: "#0000ff", Categories: []string{"Panadería", "Embutidos"}},
	{Name: "Útiles Escolares", Color: "#f05400", Categories: []string{"Útiles escolares"}},
	{Name: "Alimentos para Animales", Color: "#45923a", Categories: []string{"Alimentos para animales"}},
	{Name: "Gas y Licorería", Color: "#45923a", Categories: []string{"GAS", "Licorería"}},
}

type groupsFile struct {
	Groups []Group `yaml:"groups"`
}

// ParseGroups decodes a YAML group configuration.
func ParseGroups(data []byte) (*Groups, error) {
	var file groupsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse groups: %w", err)
	}
	if len(file.Groups) == 0 {
		return nil, fmt.Errorf("%w: no groups defined", ErrInvalidGroup)
	}
	return NewGroups(file.Groups)
}

// LoadGroupsFile reads a YAML group configuration from disk.
func LoadGroupsFile(path string) (*Groups, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read groups file: %w", err)
	}
	return ParseGroups(data)
}

// All returns a copy of the groups in declaration order.
func (g *Groups) All() []Group {
	out := make([]Group, len(g.groups))
	for i, group := range g.groups {
		out[i] = group
		out[i].Categories = append([]string(nil), group.Categories...)
	}
	return out
}

// Names returns the group names in declaration order.
func (g *Groups) Names() []string {
	names := make([]string, len(g.groups))
	for i, group := range g.groups {
		names[i] = group.Name
	}
	return names
}

// Lookup returns the named group.
func (g *Groups) Lookup(name string) (Group, bool) {
	i, ok := g.byName[name]
	if !ok {
		return Group{}, false
	}
	group := g.groups[i]
	group.Categories = append([]string(nil), group.Categories...)
	return group, true
}

// GroupOf returns the group a category belongs to.
func (g *Groups) GroupOf(category string) (string, bool) {
	name, ok := g.groupOfCategory[category]
	return name, ok
}

// HasCategory reports whether category is listed under the named group.
func (g *Groups) HasCategory(group, category string) bool {
	owner, ok := g.groupOfCategory[category]
	return ok && owner == group
}

// Len returns the number of configured groups.
func (g *Groups) Len() int {
	return len(g.groups)
}
