package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shop_service/internal/domain"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

type postgresOrderRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresOrderRepository(db *sql.DB, logger *logrus.Logger) domain.OrderRepository {
	return &postgresOrderRepository{
		db:  db,
		log: logger,
	}
}

func (r *postgresOrderRepository) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.log.Errorf("Repository: Failed to begin order transaction: %v", err)
		return nil, fmt.Errorf("%w: could not start transaction", domain.ErrStoreUnavailable)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	orderQuery := `
        INSERT INTO orders (user_id, total, status)
        VALUES ($1, $2, $3)
        RETURNING id, status, created_at, updated_at`
	err = tx.QueryRowContext(ctx, orderQuery, order.UserID, order.Total, order.Status).Scan(
		&order.ID,
		&order.Status,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			r.log.Warnf("Repository: Attempted to create order for non-existent user %d", order.UserID)
			return nil, &domain.NotFoundError{Entity: "user", ID: order.UserID}
		}
		r.log.Errorf("Repository: Failed to insert order for user %d: %v", order.UserID, err)
		return nil, fmt.Errorf("%w: could not create order entry", domain.ErrStoreUnavailable)
	}

	itemQuery := `
        INSERT INTO order_items (order_id, product_id, quantity, price)
        VALUES ($1, $2, $3, $4)`
	stmt, err := tx.PrepareContext(ctx, itemQuery)
	if err != nil {
		r.log.Errorf("Repository: Failed to prepare order item statement: %v", err)
		return nil, fmt.Errorf("%w: could not prepare item statement", domain.ErrStoreUnavailable)
	}
	defer stmt.Close()

	for i := range order.Items {
		item := &order.Items[i]
		if _, err = stmt.ExecContext(ctx, order.ID, item.ProductID, item.Quantity, item.Price); err != nil {
			r.log.Errorf("Repository: Failed to insert order item (product_id: %d, quantity: %d) for order %d: %v", item.ProductID, item.Quantity, order.ID, err)
			return nil, fmt.Errorf("%w: could not create order item", domain.ErrStoreUnavailable)
		}
	}

	if err = tx.Commit(); err != nil {
		r.log.Errorf("Repository: Failed to commit order transaction: %v", err)
		return nil, fmt.Errorf("%w: could not commit order", domain.ErrStoreUnavailable)
	}

	r.log.Infof("Repository: Order %d created successfully with %d items", order.ID, len(order.Items))
	return order, nil
}

func (r *postgresOrderRepository) GetOrderByID(ctx context.Context, id int) (*domain.Order, error) {
	order := &domain.Order{}
	query := `
        SELECT o.id, o.user_id, u.name, o.total, o.status, o.created_at, o.updated_at
        FROM orders o
        LEFT JOIN users u ON o.user_id = u.id
        WHERE o.id = $1`

	var userName sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&order.ID,
		&order.UserID,
		&userName,
		&order.Total,
		&order.Status,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: Order with ID %d not found", id)
			return nil, &domain.NotFoundError{Entity: "order", ID: id}
		}
		r.log.Errorf("Repository: Failed to get order by ID %d: %v", id, err)
		return nil, fmt.Errorf("%w: could not retrieve order", domain.ErrStoreUnavailable)
	}
	order.UserName = userName.String

	items, err := r.getOrderItems(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Items = items

	r.log.Debugf("Repository: Order %d retrieved with %d items", order.ID, len(order.Items))
	return order, nil
}

func (r *postgresOrderRepository) getOrderItems(ctx context.Context, orderID int) ([]domain.OrderItem, error) {
	query := `
        SELECT product_id, quantity, price
        FROM order_items
        WHERE order_id = $1`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		r.log.Errorf("Repository: Failed to query order items for order ID %d: %v", orderID, err)
		return nil, fmt.Errorf("%w: could not retrieve order items", domain.ErrStoreUnavailable)
	}
	defer rows.Close()

	items := []domain.OrderItem{}
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ProductID, &item.Quantity, &item.Price); err != nil {
			r.log.Errorf("Repository: Failed to scan order item row for order ID %d: %v", orderID, err)
			return nil, fmt.Errorf("%w: error scanning order item", domain.ErrStoreUnavailable)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Repository: Error during order items iteration for order ID %d: %v", orderID, err)
		return nil, fmt.Errorf("%w: error iterating order items", domain.ErrStoreUnavailable)
	}

	return items, nil
}

func (r *postgresOrderRepository) UpdateOrderStatus(ctx context.Context, id int, status domain.OrderStatus) (*domain.Order, error) {
	query := `
        UPDATE orders
        SET status = $1, updated_at = NOW()
        WHERE id = $2
        RETURNING id, user_id, total, status, created_at, updated_at`

	updatedOrder := &domain.Order{}
	err := r.db.QueryRowContext(ctx, query, status, id).Scan(
		&updatedOrder.ID,
		&updatedOrder.UserID,
		&updatedOrder.Total,
		&updatedOrder.Status,
		&updatedOrder.CreatedAt,
		&updatedOrder.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: Order with ID %d not found for status update", id)
			return nil, &domain.NotFoundError{Entity: "order", ID: id}
		}
		r.log.Errorf("Repository: Failed to update status for order ID %d: %v", id, err)
		return nil, fmt.Errorf("%w: could not update order status", domain.ErrStoreUnavailable)
	}

	items, err := r.getOrderItems(ctx, id)
	if err != nil {
		return nil, err
	}
	updatedOrder.Items = items

	r.log.Infof("Repository: Order %d status updated to '%s'", updatedOrder.ID, updatedOrder.Status)
	return updatedOrder, nil
}

func (r *postgresOrderRepository) ListOrders(ctx context.Context) ([]domain.Order, error) {
	query := `
        SELECT o.id, o.user_id, u.name, o.total, o.status, o.created_at, o.updated_at
        FROM orders o
        LEFT JOIN users u ON o.user_id = u.id
        ORDER BY o.created_at DESC`

	return r.listOrders(ctx, query)
}

func (r *postgresOrderRepository) ListOrdersByUserID(ctx context.Context, userID int) ([]domain.Order, error) {
	query := `
        SELECT o.id, o.user_id, u.name, o.total, o.status, o.created_at, o.updated_at
        FROM orders o
        LEFT JOIN users u ON o.user_id = u.id
        WHERE o.user_id = $1
        ORDER BY o.created_at DESC`

	return r.listOrders(ctx, query, userID)
}

func (r *postgresOrderRepository) listOrders(ctx context.Context, query string, args ...interface{}) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.log.Errorf("Repository: Failed to list orders: %v", err)
		return nil, fmt.Errorf("%w: could not retrieve orders", domain.ErrStoreUnavailable)
	}
	defer rows.Close()

	orders := []domain.Order{}
	orderIDs := []int{}
	for rows.Next() {
		var order domain.Order
		var userName sql.NullString
		if err := rows.Scan(
			&order.ID,
			&order.UserID,
			&userName,
			&order.Total,
			&order.Status,
			&order.CreatedAt,
			&order.UpdatedAt,
		); err != nil {
			r.log.Errorf("Repository: Failed to scan order row: %v", err)
			return nil, fmt.Errorf("%w: error scanning order data", domain.ErrStoreUnavailable)
		}
		order.UserName = userName.String
		orders = append(orders, order)
		orderIDs = append(orderIDs, order.ID)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Repository: Error during orders iteration: %v", err)
		return nil, fmt.Errorf("%w: error iterating orders", domain.ErrStoreUnavailable)
	}

	if len(orders) == 0 {
		return []domain.Order{}, nil
	}

	itemsQuery := `
        SELECT order_id, product_id, quantity, price
        FROM order_items
        WHERE order_id = ANY($1::int[])
        ORDER BY order_id`

	itemRows, err := r.db.QueryContext(ctx, itemsQuery, pq.Array(orderIDs))
	if err != nil {
		r.log.Errorf("Repository: Failed to query items for orders %v: %v", orderIDs, err)
		return nil, fmt.Errorf("%w: could not retrieve order items for list", domain.ErrStoreUnavailable)
	}
	defer itemRows.Close()

	itemsMap := make(map[int][]domain.OrderItem)
	for itemRows.Next() {
		var item domain.OrderItem
		var orderID int
		if err := itemRows.Scan(&orderID, &item.ProductID, &item.Quantity, &item.Price); err != nil {
			r.log.Errorf("Repository: Failed to scan order item row during multi-order fetch: %v", err)
			return nil, fmt.Errorf("%w: error scanning order item data for list", domain.ErrStoreUnavailable)
		}
		itemsMap[orderID] = append(itemsMap[orderID], item)
	}
	if err = itemRows.Err(); err != nil {
		r.log.Errorf("Repository: Error during multi-order items iteration: %v", err)
		return nil, fmt.Errorf("%w: error iterating order items for list", domain.ErrStoreUnavailable)
	}

	for i := range orders {
		if items, ok := itemsMap[orders[i].ID]; ok {
			orders[i].Items = items
		} else {
			orders[i].Items = []domain.OrderItem{}
		}
	}

	r.log.Infof("Repository: Retrieved %d orders", len(orders))
	return orders, nil
}
