package usecase

import (
	"context"

	"shop_service/internal/domain"

	"github.com/sirupsen/logrus"
)

type CatalogUseCase interface {
	ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	FilterProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	ListRelated(ctx context.Context, productID, limit int) ([]domain.Product, error)
	ListCategories(ctx context.Context) ([]int, error)
	SearchProducts(ctx context.Context, search string, categoryID int) ([]domain.Product, error)
}

type catalogUseCase struct {
	productRepo domain.ProductRepository
	log         *logrus.Logger
}

func NewCatalogUseCase(repo domain.ProductRepository, logger *logrus.Logger) CatalogUseCase {
	return &catalogUseCase{
		productRepo: repo,
		log:         logger,
	}
}

// ListProducts serves the plain listing endpoint: compile the filter with
// the small listing window and run the plan. An empty filter matches every
// product.
func (uc *catalogUseCase) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	plan, err := filter.Compile(domain.DefaultListLimit)
	if err != nil {
		uc.log.Warnf("Use Case: Rejected product filter: %v", err)
		return nil, err
	}

	products, err := uc.productRepo.ListProducts(ctx, plan)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list products: %v", err)
		return nil, err
	}

	uc.log.Infof("Use Case: Retrieved %d products", len(products))
	return products, nil
}

// FilterProducts serves the body-encoded filter endpoint, which uses the
// wider search window by default.
func (uc *catalogUseCase) FilterProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	plan, err := filter.Compile(domain.DefaultFilterLimit)
	if err != nil {
		uc.log.Warnf("Use Case: Rejected product filter: %v", err)
		return nil, err
	}

	products, err := uc.productRepo.ListProducts(ctx, plan)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to filter products: %v", err)
		return nil, err
	}

	uc.log.Infof("Use Case: Filter matched %d products", len(products))
	return products, nil
}

func (uc *catalogUseCase) ListRelated(ctx context.Context, productID, limit int) ([]domain.Product, error) {
	if productID <= 0 {
		return nil, &domain.NotFoundError{Entity: "product", ID: productID}
	}
	if limit <= 0 {
		limit = domain.DefaultListLimit
	}

	// Resolving the product first turns a dangling id into a clean not
	// found instead of an empty related list.
	if _, err := uc.productRepo.GetProductByID(ctx, productID); err != nil {
		uc.log.Warnf("Use Case: Related products requested for unknown product %d: %v", productID, err)
		return nil, err
	}

	products, err := uc.productRepo.ListRelated(ctx, productID, limit)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list related products for %d: %v", productID, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Retrieved %d related products for product %d", len(products), productID)
	return products, nil
}

func (uc *catalogUseCase) ListCategories(ctx context.Context) ([]int, error) {
	ids, err := uc.productRepo.ListDistinctCategoryIDs(ctx)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list categories: %v", err)
		return nil, err
	}

	uc.log.Infof("Use Case: Retrieved %d categories", len(ids))
	return ids, nil
}

// SearchProducts mirrors "no search performed, no results": an empty search
// term yields an empty result set, not a match-all.
func (uc *catalogUseCase) SearchProducts(ctx context.Context, search string, categoryID int) ([]domain.Product, error) {
	if search == "" {
		return []domain.Product{}, nil
	}

	products, err := uc.productRepo.SearchProducts(ctx, search, categoryID)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to search products for '%s': %v", search, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Search for '%s' matched %d products", search, len(products))
	return products, nil
}
