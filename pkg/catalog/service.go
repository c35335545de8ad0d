package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/Sternrassler/catalog-api/pkg/cache"
)

// Cache keys of the catalog.
const (
	KeyProducts   = "cache_de_productos"
	KeyCategories = "cache_de_categorias"
)

// Config holds service configuration.
type Config struct {
	Store  cache.Store
	Source Source
	Groups *Groups

	// TTL of the cached snapshot and category list (default: cache.DefaultTTL).
	TTL time.Duration

	// Rand drives the random picks of the home page and related products
	// (default: seeded from the clock).
	Rand Shuffler

	// Clock stamps built snapshots (default: wall clock).
	Clock cache.Clock

	Logger *zerolog.Logger
}

// Service answers catalog queries from the cached snapshot, rebuilding it from
// the source on a cache miss. Concurrent misses of the same key share one rebuild.
type Service struct {
	store   cache.Store
	builder *Builder
	groups  *Groups
	ttl     time.Duration
	rng     Shuffler
	flight  singleflight.Group
	logger  zerolog.Logger
}

// NewService creates a catalog service.
func NewService(cfg Config) (*Service, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("cache store is required")
	}
	if cfg.Source == nil {
		return nil, fmt.Errorf("document source is required")
	}
	if cfg.Groups == nil {
		cfg.Groups = DefaultGroups()
	}
	if cfg.TTL <= 0 {
		cfg.TTL = cache.DefaultTTL
	}
	if cfg.Rand == nil {
		cfg.Rand = NewTimeSeededRand()
	}

	var logger zerolog.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	} else {
		logger = log.With().Str("component", "catalog").Logger()
	}

	return &Service{
		store:   cfg.Store,
		builder: NewBuilder(cfg.Source, cfg.Groups, cfg.Clock),
		groups:  cfg.Groups,
		ttl:     cfg.TTL,
		rng:     cfg.Rand,
		logger:  logger,
	}, nil
}

// Groups returns the group configuration.
func (s *Service) Groups() *Groups {
	return s.groups
}

// Snapshot returns the cached snapshot, building and caching it on a miss.
func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	snap, err := cached(ctx, s, KeyProducts, func(ctx context.Context) (*Snapshot, error) {
		snap, err := s.builder.Build(ctx)
		if err == nil {
			snapshotProducts.Set(float64(snap.Len()))
		}
		return snap, err
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, upstream("Error al obtener productos", err)
	}
	return snap, nil
}

// CategoryList returns the cached category list, building and caching it on a miss.
func (s *Service) CategoryList(ctx context.Context) (*CategoryList, error) {
	list, err := cached(ctx, s, KeyCategories, s.builder.BuildCategories)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, upstream("Error al obtener categorías", err)
	}
	return list, nil
}

// cached is the cache-aside read shared by every cached value of the service.
// Cache read and write failures are logged and served from the source.
func cached[T any](ctx context.Context, s *Service, key string, build func(context.Context) (*T, error)) (*T, error) {
	value, err := s.store.Get(ctx, key)
	switch {
	case err == nil:
		decoded, decodeErr := decodeCached[T](value)
		if decodeErr == nil {
			return decoded, nil
		}
		s.logger.Warn().Err(decodeErr).Str("key", key).Msg("Discarding unreadable cache entry")
	case errors.Is(err, cache.ErrCacheMiss):
		s.logger.Debug().Str("key", key).Msg("Cache miss")
	default:
		s.logger.Warn().Err(err).Str("key", key).Msg("Cache read failed, rebuilding from source")
	}

	// The rebuild is shared by every waiting caller, so it must outlive the
	// caller that started it. Each caller still stops waiting on its own context.
	rebuildCtx := context.WithoutCancel(ctx)
	ch := s.flight.DoChan(key, func() (any, error) {
		start := time.Now()
		built, err := build(rebuildCtx)
		rebuildDuration.WithLabelValues(key).Observe(time.Since(start).Seconds())
		if err != nil {
			rebuildsTotal.WithLabelValues(key, "error").Inc()
			return nil, err
		}
		rebuildsTotal.WithLabelValues(key, "success").Inc()

		if err := s.store.Set(rebuildCtx, key, built, s.ttl); err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("Failed to cache rebuilt value")
		}
		return built, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Shared {
			rebuildsShared.WithLabelValues(key).Inc()
		}
		if res.Err != nil {
			s.logger.Error().Err(res.Err).Str("key", key).Msg("Rebuild failed")
			return nil, res.Err
		}
		return res.Val.(*T), nil
	}
}

// decodeCached accepts the value as stored in memory or its JSON encoding.
func decodeCached[T any](value any) (*T, error) {
	switch v := value.(type) {
	case *T:
		if v == nil {
			return nil, fmt.Errorf("%w: nil %T", cache.ErrInvalidEntry, v)
		}
		return v, nil
	case []byte:
		decoded := new(T)
		if err := json.Unmarshal(v, decoded); err != nil {
			return nil, fmt.Errorf("%w: %v", cache.ErrInvalidEntry, err)
		}
		return decoded, nil
	default:
		return nil, fmt.Errorf("%w: unexpected %T", cache.ErrInvalidEntry, value)
	}
}

// ProductList is the full active catalog.
type ProductList struct {
	Products    []*Product
	Total       int
	LastUpdated time.Time
}

// ListProducts returns every active product in source order.
func (s *Service) ListProducts(ctx context.Context) (*ProductList, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return &ProductList{Products: snap.All, Total: len(snap.All), LastUpdated: snap.LastUpdated}, nil
}

// Home is the home page grouping.
type Home struct {
	Groups      []GroupShowcase
	LastUpdated time.Time
}

// Home returns up to HomeGroupSize random products per non-empty group.
func (s *Service) Home(ctx context.Context) (*Home, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return &Home{Groups: homeShowcase(snap, s.groups, s.rng), LastUpdated: snap.LastUpdated}, nil
}

// ListGroup returns a page of a group, optionally narrowed to one of its
// categories, or of the whole catalog when no group is given.
func (s *Service) ListGroup(ctx context.Context, q GroupQuery) (*GroupPage, time.Time, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, time.Time{}, err
	}
	page, err := groupListing(snap, s.groups, q)
	if err != nil {
		return nil, time.Time{}, err
	}
	return page, snap.LastUpdated, nil
}

// SearchResult is the outcome of a product search.
type SearchResult struct {
	Term        string
	Products    []*Product
	LastUpdated time.Time
}

// Search finds products whose name starts with term, then products whose name
// contains it, up to limit (DefaultSearchLimit when not positive).
func (s *Service) Search(ctx context.Context, term string, limit int) (*SearchResult, error) {
	if strings.TrimSpace(term) == "" {
		return nil, invalidInput("Se requiere un término de búsqueda", nil)
	}
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return &SearchResult{
		Term:        term,
		Products:    searchProducts(snap.All, term, limit),
		LastUpdated: snap.LastUpdated,
	}, nil
}

// ProductDetail is a product with its related products.
type ProductDetail struct {
	Product     *Product
	Related     []*Product
	LastUpdated time.Time
}

// MarshalJSON adds productos_relacionados to the flattened product.
func (d *ProductDetail) MarshalJSON() ([]byte, error) {
	out := d.Product.fieldMap()
	related := d.Related
	if related == nil {
		related = []*Product{}
	}
	out["productos_relacionados"] = related
	return json.Marshal(out)
}

// Product returns the product with the given id and up to RelatedLimit related products.
func (s *Service) Product(ctx context.Context, id string) (*ProductDetail, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	p, ok := snap.ByID[id]
	if !ok {
		return nil, notFound("Producto no encontrado", nil)
	}
	return &ProductDetail{
		Product:     p,
		Related:     relatedProducts(snap.All, p, s.rng),
		LastUpdated: snap.LastUpdated,
	}, nil
}

// Categories returns the active categories.
func (s *Service) Categories(ctx context.Context) (*CategoryList, error) {
	return s.CategoryList(ctx)
}

// Category returns one active category.
func (s *Service) Category(ctx context.Context, id string) (*Category, time.Time, error) {
	list, err := s.CategoryList(ctx)
	if err != nil {
		return nil, time.Time{}, err
	}
	for _, c := range list.Categories {
		if c.ID == id {
			return c, list.LastUpdated, nil
		}
	}
	return nil, time.Time{}, notFound("Categoría no encontrada", nil)
}

// Refresh deletes the given keys so the next read rebuilds them.
// It returns the keys that were present.
func (s *Service) Refresh(ctx context.Context, keys []string) ([]string, error) {
	removed := make([]string, 0, len(keys))
	for _, key := range keys {
		ok, err := s.store.Delete(ctx, key)
		if err != nil {
			return removed, fmt.Errorf("refresh %q: %w", key, err)
		}
		if ok {
			removed = append(removed, key)
		}
	}
	s.logger.Info().Strs("keys", removed).Msg("Refreshed cache keys")
	return removed, nil
}

// RefreshAll empties the cache and returns how many entries were removed.
func (s *Service) RefreshAll(ctx context.Context) (int, error) {
	n, err := s.store.Clear(ctx)
	if err != nil {
		return n, fmt.Errorf("refresh all: %w", err)
	}
	s.logger.Info().Int("removed", n).Msg("Refreshed whole cache")
	return n, nil
}
