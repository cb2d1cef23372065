package domain

import (
	"context"
	"time"
)

type OrderStatus string

const (
	StatusNotProcessed OrderStatus = "Not processed"
	StatusProcessing   OrderStatus = "Processing"
	StatusShipped      OrderStatus = "Shipped"
	StatusDelivered    OrderStatus = "Delivered"
	StatusCancelled    OrderStatus = "Cancelled"
)

// statusVocabulary is the fixed, ordered set of legal order statuses.
// The first value is the initial status assigned at checkout.
var statusVocabulary = []OrderStatus{
	StatusNotProcessed,
	StatusProcessing,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
}

// StatusValues returns the vocabulary in declaration order. Callers get a
// copy so the vocabulary itself cannot be mutated.
func StatusValues() []OrderStatus {
	values := make([]OrderStatus, len(statusVocabulary))
	copy(values, statusVocabulary)
	return values
}

func InitialStatus() OrderStatus {
	return statusVocabulary[0]
}

func IsValidStatus(status OrderStatus) bool {
	for _, s := range statusVocabulary {
		if s == status {
			return true
		}
	}
	return false
}

type Order struct {
	ID        int         `json:"id"`
	UserID    int         `json:"user_id"`
	UserName  string      `json:"user_name,omitempty"`
	Items     []OrderItem `json:"items"`
	Total     float64     `json:"total"`
	Status    OrderStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// OrderItem carries the price at the time the order was placed, not the
// product's current price.
type OrderItem struct {
	ProductID int     `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *Order) (*Order, error)
	GetOrderByID(ctx context.Context, id int) (*Order, error)
	UpdateOrderStatus(ctx context.Context, id int, status OrderStatus) (*Order, error)
	ListOrders(ctx context.Context) ([]Order, error)
	ListOrdersByUserID(ctx context.Context, userID int) ([]Order, error)
}
