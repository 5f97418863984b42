package catalog

import (
	"context"
)

// CatalogLookup resolves product uids against the remote product-api
// and reports estimated availability.
//
//go:generate mockgen -source=api.go -package catalog -destination catalog_mock.go CatalogLookup
type CatalogLookup interface {
	GetProduct(c context.Context, productUID string) (Product, error)
	GetProductsByCategory(c context.Context, category string) ([]Product, error)
	IsAvailable(c context.Context, productUID string) (bool, error)
}
