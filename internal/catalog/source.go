// Package catalog loads product snapshots for the search service.
//
// A Source returns the whole catalog on each call. The engine never retains a
// snapshot, so every source hands out a slice the caller may keep.
package catalog

import (
	"context"
	"slices"

	"go.uber.org/zap"

	"github.com/gcbaptista/go-product-search/config"
	"github.com/gcbaptista/go-product-search/model"
)

// Source provides catalog snapshots.
type Source interface {
	Products(ctx context.Context) ([]model.Product, error)
}

// Refresher is implemented by sources that hold a snapshot which can be
// reloaded on demand.
type Refresher interface {
	Refresh(ctx context.Context) (int, error)
}

// Refresh reloads src when it supports it, otherwise it fetches one snapshot
// to confirm the source is reachable. It returns the number of products.
func Refresh(ctx context.Context, src Source) (int, error) {
	if r, ok := src.(Refresher); ok {
		return r.Refresh(ctx)
	}
	products, err := src.Products(ctx)
	if err != nil {
		return 0, err
	}
	return len(products), nil
}

// StaticSource serves a fixed in-memory catalog.
type StaticSource struct {
	products []model.Product
}

// NewStaticSource copies products into a new StaticSource.
func NewStaticSource(products []model.Product) *StaticSource {
	return &StaticSource{products: slices.Clone(products)}
}

// Products returns a copy of the catalog.
func (s *StaticSource) Products(_ context.Context) ([]model.Product, error) {
	return cloneProducts(s.products), nil
}

// NewSource builds the source selected by cfg: a file when Path is set, the
// storefront API when URL is set, otherwise an empty static catalog. File and
// HTTP sources are wrapped in a CachedSource when CacheTTL is positive.
func NewSource(cfg config.CatalogConfig, logger *zap.Logger) (Source, error) {
	var src Source
	switch {
	case cfg.Path != "":
		fs, err := NewFileSource(cfg.Path)
		if err != nil {
			return nil, err
		}
		src = fs
	case cfg.URL != "":
		src = NewHTTPSource(cfg, logger)
	default:
		return NewStaticSource(nil), nil
	}

	if cfg.CacheTTL > 0 {
		src = NewCachedSource(src, cfg.CacheTTL, logger)
	}
	return src, nil
}

func cloneProducts(products []model.Product) []model.Product {
	out := make([]model.Product, len(products))
	copy(out, products)
	return out
}
