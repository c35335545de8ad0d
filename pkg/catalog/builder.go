package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/Sternrassler/catalog-api/pkg/cache"
)

// Builder turns the active products and categories of the source into a Snapshot.
type Builder struct {
	source Source
	groups *Groups
	clock  cache.Clock
	logger zerolog.Logger
}

// NewBuilder creates a builder. A nil clock uses the wall clock.
func NewBuilder(source Source, groups *Groups, clock cache.Clock) *Builder {
	if source == nil {
		panic("catalog: source cannot be nil")
	}
	if groups == nil {
		groups = DefaultGroups()
	}
	if clock == nil {
		clock = cache.SystemClock
	}
	return &Builder{
		source: source,
		groups: groups,
		clock:  clock,
		logger: log.With().Str("component", "catalog-builder").Logger(),
	}
}

// Build fetches categories and products concurrently and derives the indexes.
// On any fetch error nothing is returned.
func (b *Builder) Build(ctx context.Context) (*Snapshot, error) {
	start := time.Now()

	var productDocs, categoryDocs []Document
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		docs, err := b.source.FetchActive(gctx, CollectionCategories)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", CollectionCategories, err)
		}
		categoryDocs = docs
		return nil
	})
	g.Go(func() error {
		docs, err := b.source.FetchActive(gctx, CollectionProducts)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", CollectionProducts, err)
		}
		productDocs = docs
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	categoryNames := make(map[string]string, len(categoryDocs))
	for _, doc := range categoryDocs {
		categoryNames[doc.ID] = stringField(doc.Fields, FieldName)
	}

	snap := newSnapshot(len(productDocs))
	for _, doc := range productDocs {
		p := ProductFromDocument(doc)
		p.CategoryName = categoryNames[p.CategoryRef]
		if p.CategoryName == "" {
			p.CategoryName = UncategorizedName
		}
		group, _ := b.groups.GroupOf(p.CategoryName)
		snap.add(p, group)
	}
	snap.LastUpdated = b.clock.Now()

	b.logger.Info().
		Int("products", len(snap.All)).
		Int("categories", len(categoryDocs)).
		Int("groups", len(snap.ByGroupName)).
		Dur("duration", time.Since(start)).
		Msg("Built catalog snapshot")

	return snap, nil
}

// BuildCategories fetches the active categories.
func (b *Builder) BuildCategories(ctx context.Context) (*CategoryList, error) {
	docs, err := b.source.FetchActive(ctx, CollectionCategories)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", CollectionCategories, err)
	}
	categories := make([]*Category, 0, len(docs))
	for _, doc := range docs {
		categories = append(categories, CategoryFromDocument(doc))
	}

	b.logger.Info().Int("categories", len(categories)).Msg("Built category list")

	return &CategoryList{
		Categories:  categories,
		Total:       len(categories),
		LastUpdated: b.clock.Now(),
	}, nil
}

// Groups returns the group configuration used by the builder.
func (b *Builder) Groups() *Groups {
	return b.groups
}
