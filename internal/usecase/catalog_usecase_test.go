package usecase

import (
	"context"
	"sort"
	"strings"
	"testing"

	"shop_service/internal/domain"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func floatPtr(v float64) *float64 {
	return &v
}

// fakeProductRepo executes query plans in memory the same way the catalog
// store does: conjunction of present criteria, sort, then window.
type fakeProductRepo struct {
	products []domain.Product
	calls    int
}

func (f *fakeProductRepo) GetProductByID(_ context.Context, id int) (*domain.Product, error) {
	f.calls++
	for i := range f.products {
		if f.products[i].ID == id {
			product := f.products[i]
			return &product, nil
		}
	}
	return nil, &domain.NotFoundError{Entity: "product", ID: id}
}

func (f *fakeProductRepo) GetProductsByIDs(_ context.Context, ids []int) ([]domain.Product, error) {
	f.calls++
	result := []domain.Product{}
	for _, id := range ids {
		for _, product := range f.products {
			if product.ID == id {
				result = append(result, product)
				break
			}
		}
	}
	return result, nil
}

func (f *fakeProductRepo) ListProducts(_ context.Context, plan *domain.QueryPlan) ([]domain.Product, error) {
	f.calls++

	matched := []domain.Product{}
	for _, product := range f.products {
		if len(plan.CategoryIDs) > 0 && !containsInt(plan.CategoryIDs, product.CategoryID) {
			continue
		}
		if plan.PriceMin != nil && product.Price < *plan.PriceMin {
			continue
		}
		if plan.PriceMax != nil && product.Price > *plan.PriceMax {
			continue
		}
		if plan.Name != "" && !strings.Contains(strings.ToLower(product.Name), strings.ToLower(plan.Name)) {
			continue
		}
		matched = append(matched, product)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		var less bool
		switch plan.SortBy {
		case "price":
			less = matched[i].Price < matched[j].Price
		default:
			less = matched[i].ID < matched[j].ID
		}
		if plan.Descending {
			return !less
		}
		return less
	})

	if plan.Skip >= len(matched) {
		return []domain.Product{}, nil
	}
	matched = matched[plan.Skip:]
	if plan.Limit < len(matched) {
		matched = matched[:plan.Limit]
	}
	return matched, nil
}

func (f *fakeProductRepo) ListRelated(_ context.Context, productID, limit int) ([]domain.Product, error) {
	f.calls++
	var categoryID int
	for _, product := range f.products {
		if product.ID == productID {
			categoryID = product.CategoryID
		}
	}

	related := []domain.Product{}
	for _, product := range f.products {
		if product.ID != productID && product.CategoryID == categoryID {
			related = append(related, product)
		}
		if len(related) == limit {
			break
		}
	}
	return related, nil
}

func (f *fakeProductRepo) ListDistinctCategoryIDs(_ context.Context) ([]int, error) {
	f.calls++
	seen := map[int]bool{}
	ids := []int{}
	for _, product := range f.products {
		if product.CategoryID > 0 && !seen[product.CategoryID] {
			seen[product.CategoryID] = true
			ids = append(ids, product.CategoryID)
		}
	}
	sort.Ints(ids)
	return ids, nil
}

func (f *fakeProductRepo) SearchProducts(_ context.Context, name string, categoryID int) ([]domain.Product, error) {
	f.calls++
	matched := []domain.Product{}
	for _, product := range f.products {
		if !strings.Contains(strings.ToLower(product.Name), strings.ToLower(name)) {
			continue
		}
		if categoryID > 0 && product.CategoryID != categoryID {
			continue
		}
		matched = append(matched, product)
	}
	return matched, nil
}

func containsInt(values []int, v int) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}

func catalogFixture() *fakeProductRepo {
	return &fakeProductRepo{products: []domain.Product{
		{ID: 1, Name: "Espresso Cup", Price: 10, CategoryID: 1},
		{ID: 2, Name: "French Press", Price: 50, CategoryID: 2},
		{ID: 3, Name: "Pour Over Kettle", Price: 30, CategoryID: 1},
	}}
}

func TestListProductsEmptyFilterReturnsAll(t *testing.T) {
	repo := catalogFixture()
	uc := NewCatalogUseCase(repo, testLogger())

	products, err := uc.ListProducts(context.Background(), domain.ProductFilter{})
	require.NoError(t, err)
	require.Len(t, products, 3)

	seen := map[int]bool{}
	for _, product := range products {
		assert.False(t, seen[product.ID], "duplicate product %d", product.ID)
		seen[product.ID] = true
	}
}

func TestFilterProductsPriceRange(t *testing.T) {
	repo := catalogFixture()
	uc := NewCatalogUseCase(repo, testLogger())

	filter := domain.ProductFilter{
		PriceMin: floatPtr(20),
		PriceMax: floatPtr(60),
		SortBy:   "price",
	}

	products, err := uc.FilterProducts(context.Background(), filter)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, 30.0, products[0].Price)
	assert.Equal(t, 50.0, products[1].Price)
}

func TestListProductsInvalidFilterNeverReachesStore(t *testing.T) {
	repo := catalogFixture()
	uc := NewCatalogUseCase(repo, testLogger())

	_, err := uc.ListProducts(context.Background(), domain.ProductFilter{Limit: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidQuery)
	assert.Zero(t, repo.calls, "invalid query must be rejected before the store")
}

func TestSearchProductsEmptyTermReturnsEmpty(t *testing.T) {
	repo := catalogFixture()
	uc := NewCatalogUseCase(repo, testLogger())

	products, err := uc.SearchProducts(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Empty(t, products)
	assert.Zero(t, repo.calls, "no search performed, no store call")
}

func TestSearchProductsCaseInsensitive(t *testing.T) {
	repo := catalogFixture()
	uc := NewCatalogUseCase(repo, testLogger())

	products, err := uc.SearchProducts(context.Background(), "PRESS", 0)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "French Press", products[0].Name)
}

func TestSearchProductsNarrowedByCategory(t *testing.T) {
	repo := catalogFixture()
	uc := NewCatalogUseCase(repo, testLogger())

	products, err := uc.SearchProducts(context.Background(), "e", 1)
	require.NoError(t, err)
	for _, product := range products {
		assert.Equal(t, 1, product.CategoryID)
	}
}

func TestListRelatedExcludesProductItself(t *testing.T) {
	repo := catalogFixture()
	uc := NewCatalogUseCase(repo, testLogger())

	products, err := uc.ListRelated(context.Background(), 1, 6)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, 3, products[0].ID)
}

func TestListRelatedUnknownProduct(t *testing.T) {
	repo := catalogFixture()
	uc := NewCatalogUseCase(repo, testLogger())

	_, err := uc.ListRelated(context.Background(), 99, 6)
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestListCategoriesDistinct(t *testing.T) {
	repo := catalogFixture()
	uc := NewCatalogUseCase(repo, testLogger())

	ids, err := uc.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, ids)
}
