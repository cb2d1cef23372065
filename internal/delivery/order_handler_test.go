package delivery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"shop_service/internal/domain"
	"shop_service/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubOrderUseCase struct {
	createdOrder *domain.Order
	err          error
}

func (s *stubOrderUseCase) CreateOrder(_ context.Context, userID int, items []domain.LineItem) (*domain.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	order := *s.createdOrder
	order.UserID = userID
	return &order, nil
}

func (s *stubOrderUseCase) UpdateOrderStatus(_ context.Context, id int, status domain.OrderStatus) (*domain.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Order{ID: id, Status: status}, nil
}

func (s *stubOrderUseCase) ListOrders(_ context.Context) ([]domain.Order, error) {
	return []domain.Order{}, s.err
}

func (s *stubOrderUseCase) PurchaseHistory(_ context.Context, userID int) ([]domain.Order, error) {
	return []domain.Order{}, s.err
}

func (s *stubOrderUseCase) StatusValues() []domain.OrderStatus {
	return domain.StatusValues()
}

var _ usecase.OrderUseCase = (*stubOrderUseCase)(nil)

func newOrderRouter(uc usecase.OrderUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	router := gin.New()
	NewOrderHandler(uc, logger).RegisterRoutes(router)
	return router
}

func TestGetStatusValuesReturnsVocabulary(t *testing.T) {
	router := newOrderRouter(&stubOrderUseCase{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/order/status-values", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status string   `json:"Status"`
		Data   []string `json:"Data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Success", resp.Status)
	assert.Equal(t, []string{"Not processed", "Processing", "Shipped", "Delivered", "Cancelled"}, resp.Data)
}

func TestCreateOrderRequiresIdentity(t *testing.T) {
	router := newOrderRouter(&stubOrderUseCase{createdOrder: &domain.Order{ID: 1}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/order/create", strings.NewReader(`{"items":[{"product_id":1,"quantity":1}]}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateOrderUsesResolvedIdentity(t *testing.T) {
	router := newOrderRouter(&stubOrderUseCase{createdOrder: &domain.Order{ID: 7, Status: domain.InitialStatus()}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/order/create", strings.NewReader(`{"items":[{"product_id":1,"quantity":1}]}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "42")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data domain.Order `json:"Data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 42, resp.Data.UserID)
}

func TestCreateOrderInsufficientStockConflict(t *testing.T) {
	router := newOrderRouter(&stubOrderUseCase{err: &domain.InsufficientStockError{ProductIDs: []int{1}}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/order/create", strings.NewReader(`{"items":[{"product_id":1,"quantity":3}]}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "42")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "insufficient stock for product(s): 1")
}

func TestUpdateOrderStatusRequiresAdmin(t *testing.T) {
	router := newOrderRouter(&stubOrderUseCase{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/order/update-status", strings.NewReader(`{"order_id":1,"status":"Shipped"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "42")
	req.Header.Set("X-User-Role", "user")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUpdateOrderStatusAsAdmin(t *testing.T) {
	router := newOrderRouter(&stubOrderUseCase{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/order/update-status", strings.NewReader(`{"order_id":1,"status":"Shipped"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "1")
	req.Header.Set("X-User-Role", "admin")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Shipped")
}

func TestPurchaseHistoryForbiddenForOtherUsers(t *testing.T) {
	router := newOrderRouter(&stubOrderUseCase{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/order/history/99", nil)
	req.Header.Set("X-User-ID", "42")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestPurchaseHistoryAllowedForSelf(t *testing.T) {
	router := newOrderRouter(&stubOrderUseCase{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/order/history/42", nil)
	req.Header.Set("X-User-ID", "42")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStoreFailureHidesDiagnostics(t *testing.T) {
	router := newOrderRouter(&stubOrderUseCase{err: domain.ErrStoreUnavailable})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/order/list", nil)
	req.Header.Set("X-User-ID", "1")
	req.Header.Set("X-User-Role", "admin")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "temporarily unavailable")
	assert.NotContains(t, w.Body.String(), "store unavailable")
}
