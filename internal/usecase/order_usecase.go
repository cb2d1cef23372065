package usecase

import (
	"context"
	"errors"
	"fmt"

	"shop_service/internal/domain"

	"github.com/sirupsen/logrus"
)

type OrderUseCase interface {
	CreateOrder(ctx context.Context, userID int, items []domain.LineItem) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id int, status domain.OrderStatus) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
	PurchaseHistory(ctx context.Context, userID int) ([]domain.Order, error)
	StatusValues() []domain.OrderStatus
}

type orderUseCase struct {
	orderRepo   domain.OrderRepository
	productRepo domain.ProductRepository
	ledger      domain.StockLedger
	log         *logrus.Logger
}

func NewOrderUseCase(orderRepo domain.OrderRepository, productRepo domain.ProductRepository, ledger domain.StockLedger, logger *logrus.Logger) OrderUseCase {
	return &orderUseCase{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		ledger:      ledger,
		log:         logger,
	}
}

// CreateOrder validates the cart, snapshots current prices, reserves stock
// for every line as one unit of work and persists the order at the initial
// status. If the reservation fails nothing is persisted; if persistence
// fails after a successful reservation the reservation is released again.
func (uc *orderUseCase) CreateOrder(ctx context.Context, userID int, items []domain.LineItem) (*domain.Order, error) {
	if userID <= 0 {
		return nil, errors.New("invalid user ID")
	}
	if len(items) == 0 {
		return nil, errors.New("order must contain at least one item")
	}
	for i, item := range items {
		if item.ProductID <= 0 {
			return nil, fmt.Errorf("item %d: invalid product ID", i)
		}
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("item %d (product %d): quantity must be positive", i, item.ProductID)
		}
	}

	ids := make([]int, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}

	products, err := uc.productRepo.GetProductsByIDs(ctx, ids)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to load products for order (user %d): %v", userID, err)
		return nil, err
	}
	prices := make(map[int]float64, len(products))
	for _, product := range products {
		prices[product.ID] = product.Price
	}

	order := &domain.Order{
		UserID: userID,
		Status: domain.InitialStatus(),
		Items:  make([]domain.OrderItem, 0, len(items)),
	}
	for _, item := range items {
		price, ok := prices[item.ProductID]
		if !ok {
			uc.log.Warnf("Use Case: Order for user %d references unknown product %d", userID, item.ProductID)
			return nil, &domain.NotFoundError{Entity: "product", ID: item.ProductID}
		}
		order.Items = append(order.Items, domain.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     price,
		})
		order.Total += price * float64(item.Quantity)
	}

	uc.log.Infof("Use Case: Reserving stock for order (user %d, %d items, total %.2f)", userID, len(order.Items), order.Total)
	if err := uc.ledger.Reserve(ctx, items); err != nil {
		uc.log.Warnf("Use Case: Stock reservation failed for user %d: %v", userID, err)
		return nil, err
	}

	createdOrder, err := uc.orderRepo.CreateOrder(ctx, order)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to create order for user %d after reservation: %v. Releasing stock.", userID, err)
		if releaseErr := uc.ledger.Release(ctx, items); releaseErr != nil {
			uc.log.Errorf("Use Case: CRITICAL! Failed to release reserved stock for user %d: %v. Manual intervention required!", userID, releaseErr)
		}
		return nil, fmt.Errorf("failed to save order after reserving stock: %w", err)
	}

	uc.log.Infof("Use Case: Order created successfully with ID %d for user %d", createdOrder.ID, createdOrder.UserID)
	return createdOrder, nil
}

// UpdateOrderStatus sets any order to any value in the vocabulary. The
// state machine is deliberately permissive: administrators may move status
// backward to correct mistakes.
func (uc *orderUseCase) UpdateOrderStatus(ctx context.Context, id int, status domain.OrderStatus) (*domain.Order, error) {
	if id <= 0 {
		return nil, errors.New("invalid order ID for status update")
	}
	if !domain.IsValidStatus(status) {
		return nil, fmt.Errorf("invalid target order status: %s", status)
	}

	uc.log.Infof("Use Case: Updating status for order ID %d to '%s'", id, status)
	updatedOrder, err := uc.orderRepo.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to update status for order ID %d: %v", id, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Order status updated successfully for ID %d to %s", updatedOrder.ID, updatedOrder.Status)
	return updatedOrder, nil
}

func (uc *orderUseCase) ListOrders(ctx context.Context) ([]domain.Order, error) {
	orders, err := uc.orderRepo.ListOrders(ctx)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list orders: %v", err)
		return nil, err
	}

	uc.log.Infof("Use Case: Retrieved %d orders", len(orders))
	return orders, nil
}

func (uc *orderUseCase) PurchaseHistory(ctx context.Context, userID int) ([]domain.Order, error) {
	if userID <= 0 {
		return nil, errors.New("invalid user ID")
	}

	orders, err := uc.orderRepo.ListOrdersByUserID(ctx, userID)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list orders for user %d: %v", userID, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Retrieved %d orders for user %d", len(orders), userID)
	return orders, nil
}

func (uc *orderUseCase) StatusValues() []domain.OrderStatus {
	return domain.StatusValues()
}
