package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"shop_service/internal/domain"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// sortableColumns is the whitelist of sort keys the store can order by.
// Anything else in a query plan is rejected as an invalid query before
// touching the database.
var sortableColumns = map[string]string{
	"id":         "p.id",
	"name":       "p.name",
	"price":      "p.price",
	"stock":      "p.stock",
	"sold":       "p.sold",
	"created_at": "p.created_at",
	"updated_at": "p.updated_at",
}

const productColumns = `p.id, p.name, p.description, p.price, p.stock, p.sold, p.category_id, c.name, p.photo_content_type, p.created_at, p.updated_at`

type postgresProductRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresProductRepository(db *sql.DB, logger *logrus.Logger) domain.ProductRepository {
	return &postgresProductRepository{
		db:  db,
		log: logger,
	}
}

// buildListQuery translates a compiled query plan into SQL. Only criteria
// present in the plan contribute predicates; an empty plan selects every
// product.
func buildListQuery(plan *domain.QueryPlan) (string, []interface{}, error) {
	column, ok := sortableColumns[plan.SortBy]
	if !ok {
		return "", nil, fmt.Errorf("%w: cannot sort by '%s'", domain.ErrInvalidQuery, plan.SortBy)
	}

	query := `SELECT ` + productColumns + `
        FROM products p
        LEFT JOIN categories c ON p.category_id = c.id`

	args := []interface{}{}
	conditions := []string{}

	if len(plan.CategoryIDs) > 0 {
		args = append(args, pq.Array(plan.CategoryIDs))
		conditions = append(conditions, fmt.Sprintf("p.category_id = ANY($%d)", len(args)))
	}
	if plan.PriceMin != nil {
		args = append(args, *plan.PriceMin)
		conditions = append(conditions, fmt.Sprintf("p.price >= $%d", len(args)))
	}
	if plan.PriceMax != nil {
		args = append(args, *plan.PriceMax)
		conditions = append(conditions, fmt.Sprintf("p.price <= $%d", len(args)))
	}
	if plan.Name != "" {
		args = append(args, plan.Name)
		conditions = append(conditions, fmt.Sprintf("p.name ILIKE '%%' || $%d || '%%'", len(args)))
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	direction := "ASC"
	if plan.Descending {
		direction = "DESC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s", column, direction)

	args = append(args, plan.Limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, plan.Skip)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	return query, args, nil
}

func (r *postgresProductRepository) ListProducts(ctx context.Context, plan *domain.QueryPlan) ([]domain.Product, error) {
	query, args, err := buildListQuery(plan)
	if err != nil {
		r.log.Warnf("Repository: Rejected product list query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.log.Errorf("Repository: Failed to list products: %v", err)
		return nil, fmt.Errorf("%w: could not list products", domain.ErrStoreUnavailable)
	}
	defer rows.Close()

	products, err := r.scanProducts(rows)
	if err != nil {
		return nil, err
	}

	r.log.Infof("Repository: Retrieved %d products (sort: %s, limit: %d, skip: %d)", len(products), plan.SortBy, plan.Limit, plan.Skip)
	return products, nil
}

func (r *postgresProductRepository) GetProductByID(ctx context.Context, id int) (*domain.Product, error) {
	query := `SELECT ` + productColumns + `
        FROM products p
        LEFT JOIN categories c ON p.category_id = c.id
        WHERE p.id = $1`

	product := domain.Product{}
	var categoryID sql.NullInt64
	var categoryName, contentType sql.NullString

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.Stock,
		&product.Sold,
		&categoryID,
		&categoryName,
		&contentType,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: Product with ID %d not found", id)
			return nil, &domain.NotFoundError{Entity: "product", ID: id}
		}
		r.log.Errorf("Repository: Failed to get product by ID %d: %v", id, err)
		return nil, fmt.Errorf("%w: could not get product by id", domain.ErrStoreUnavailable)
	}

	attachCategory(&product, categoryID, categoryName)
	product.PhotoContentType = contentType.String

	r.log.Debugf("Repository: Product retrieved successfully with ID: %d", id)
	return &product, nil
}

func (r *postgresProductRepository) GetProductsByIDs(ctx context.Context, ids []int) ([]domain.Product, error) {
	if len(ids) == 0 {
		return []domain.Product{}, nil
	}

	query := `SELECT ` + productColumns + `
        FROM products p
        LEFT JOIN categories c ON p.category_id = c.id
        WHERE p.id = ANY($1::int[])`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		r.log.Errorf("Repository: Failed to get products by IDs %v: %v", ids, err)
		return nil, fmt.Errorf("%w: could not get products by ids", domain.ErrStoreUnavailable)
	}
	defer rows.Close()

	return r.scanProducts(rows)
}

func (r *postgresProductRepository) ListRelated(ctx context.Context, productID, limit int) ([]domain.Product, error) {
	// Products sharing the category of productID, excluding productID
	// itself. No ordering guaranteed beyond store default.
	query := `SELECT ` + productColumns + `
        FROM products p
        LEFT JOIN categories c ON p.category_id = c.id
        WHERE p.id <> $1
          AND p.category_id = (SELECT category_id FROM products WHERE id = $1)
        LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, productID, limit)
	if err != nil {
		r.log.Errorf("Repository: Failed to list related products for ID %d: %v", productID, err)
		return nil, fmt.Errorf("%w: could not list related products", domain.ErrStoreUnavailable)
	}
	defer rows.Close()

	products, err := r.scanProducts(rows)
	if err != nil {
		return nil, err
	}

	r.log.Infof("Repository: Retrieved %d related products for product %d", len(products), productID)
	return products, nil
}

func (r *postgresProductRepository) ListDistinctCategoryIDs(ctx context.Context) ([]int, error) {
	query := `SELECT DISTINCT category_id FROM products WHERE category_id IS NOT NULL ORDER BY category_id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.log.Errorf("Repository: Failed to list distinct categories: %v", err)
		return nil, fmt.Errorf("%w: could not list categories", domain.ErrStoreUnavailable)
	}
	defer rows.Close()

	ids := []int{}
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			r.log.Errorf("Repository: Failed to scan category id: %v", err)
			return nil, fmt.Errorf("%w: error scanning category id", domain.ErrStoreUnavailable)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Repository: Error during distinct category iteration: %v", err)
		return nil, fmt.Errorf("%w: error iterating categories", domain.ErrStoreUnavailable)
	}

	r.log.Infof("Repository: Retrieved %d distinct categories", len(ids))
	return ids, nil
}

func (r *postgresProductRepository) SearchProducts(ctx context.Context, name string, categoryID int) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + `
        FROM products p
        LEFT JOIN categories c ON p.category_id = c.id
        WHERE p.name ILIKE '%' || $1 || '%'`
	args := []interface{}{name}

	if categoryID > 0 {
		args = append(args, categoryID)
		query += fmt.Sprintf(" AND p.category_id = $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.log.Errorf("Repository: Failed to search products by name '%s': %v", name, err)
		return nil, fmt.Errorf("%w: could not search products", domain.ErrStoreUnavailable)
	}
	defer rows.Close()

	products, err := r.scanProducts(rows)
	if err != nil {
		return nil, err
	}

	r.log.Infof("Repository: Search for '%s' returned %d products", name, len(products))
	return products, nil
}

func (r *postgresProductRepository) scanProducts(rows *sql.Rows) ([]domain.Product, error) {
	products := []domain.Product{}
	for rows.Next() {
		var product domain.Product
		var categoryID sql.NullInt64
		var categoryName, contentType sql.NullString

		if err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.Description,
			&product.Price,
			&product.Stock,
			&product.Sold,
			&categoryID,
			&categoryName,
			&contentType,
			&product.CreatedAt,
			&product.UpdatedAt,
		); err != nil {
			r.log.Errorf("Repository: Failed to scan product row: %v", err)
			return nil, fmt.Errorf("%w: error scanning product data", domain.ErrStoreUnavailable)
		}

		attachCategory(&product, categoryID, categoryName)
		product.PhotoContentType = contentType.String
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		r.log.Errorf("Repository: Error during product iteration: %v", err)
		return nil, fmt.Errorf("%w: error iterating products", domain.ErrStoreUnavailable)
	}
	return products, nil
}

func attachCategory(product *domain.Product, categoryID sql.NullInt64, categoryName sql.NullString) {
	if !categoryID.Valid {
		return
	}
	product.CategoryID = int(categoryID.Int64)
	product.Category = &domain.Category{
		ID:   int(categoryID.Int64),
		Name: categoryName.String,
	}
}
