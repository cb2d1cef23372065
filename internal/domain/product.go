package domain

import "context"

// ProductRepository is the catalog store collaborator: point lookup,
// plan-driven listing, distinct categories, related and search queries.
// Listing queries never return the photo payload.
type ProductRepository interface {
	GetProductByID(ctx context.Context, id int) (*Product, error)
	GetProductsByIDs(ctx context.Context, ids []int) ([]Product, error)
	ListProducts(ctx context.Context, plan *QueryPlan) ([]Product, error)
	ListRelated(ctx context.Context, productID, limit int) ([]Product, error)
	ListDistinctCategoryIDs(ctx context.Context) ([]int, error)
	SearchProducts(ctx context.Context, name string, categoryID int) ([]Product, error)
}
