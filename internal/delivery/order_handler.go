package delivery

import (
	"net/http"
	"strconv"

	"shop_service/internal/domain"
	"shop_service/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type OrderHandler struct {
	useCase usecase.OrderUseCase
	log     *logrus.Logger
}

func NewOrderHandler(uc usecase.OrderUseCase, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *OrderHandler) RegisterRoutes(router gin.IRouter) {
	orders := router.Group("/order")
	{
		orders.POST("/create", h.CreateOrder)
		orders.GET("/list", h.ListOrders)
		orders.GET("/status-values", h.GetStatusValues)
		orders.POST("/update-status", h.UpdateOrderStatus)
		orders.GET("/history/:userId", h.PurchaseHistory)
	}
}

type createOrderRequest struct {
	Items []domain.LineItem `json:"items"`
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	identity, err := resolveIdentity(c)
	if err != nil {
		h.log.Warn("Handler: Order creation without resolved identity")
		ErrorResponse(c, http.StatusUnauthorized, "Caller identity required")
		return
	}

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorf("Handler: Failed to bind JSON for create order: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	order, err := h.useCase.CreateOrder(c.Request.Context(), identity.UserID, req.Items)
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Warnf("Handler: Failed to create order for user %d: %v", identity.UserID, err)
		ErrorResponse(c, statusCode, "Failed to create order: "+errorMessage(err))
		return
	}

	h.log.Infof("Handler: Order %d created for user %d", order.ID, order.UserID)
	SuccessResponse(c, http.StatusCreated, "Order created successfully", order)
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	identity, err := resolveIdentity(c)
	if err != nil {
		ErrorResponse(c, http.StatusUnauthorized, "Caller identity required")
		return
	}
	if !identity.IsAdmin() {
		h.log.Warnf("Handler: User %d attempted to list all orders without admin role", identity.UserID)
		ErrorResponse(c, http.StatusForbidden, "Admin role required")
		return
	}

	orders, err := h.useCase.ListOrders(c.Request.Context())
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Errorf("Handler: Failed to list orders: %v", err)
		ErrorResponse(c, statusCode, "Failed to retrieve orders: "+errorMessage(err))
		return
	}

	SuccessResponse(c, http.StatusOK, "Orders retrieved successfully", orders)
}

func (h *OrderHandler) GetStatusValues(c *gin.Context) {
	SuccessResponse(c, http.StatusOK, "Status values retrieved successfully", h.useCase.StatusValues())
}

type updateStatusRequest struct {
	OrderID int                `json:"order_id"`
	Status  domain.OrderStatus `json:"status"`
}

func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	identity, err := resolveIdentity(c)
	if err != nil {
		ErrorResponse(c, http.StatusUnauthorized, "Caller identity required")
		return
	}
	if !identity.IsAdmin() {
		h.log.Warnf("Handler: User %d attempted to update order status without admin role", identity.UserID)
		ErrorResponse(c, http.StatusForbidden, "Admin role required")
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorf("Handler: Failed to bind JSON for update order status: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	order, err := h.useCase.UpdateOrderStatus(c.Request.Context(), req.OrderID, req.Status)
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Warnf("Handler: Failed to update status for order %d: %v", req.OrderID, err)
		ErrorResponse(c, statusCode, "Failed to update order status: "+errorMessage(err))
		return
	}

	h.log.Infof("Handler: Order %d status updated to '%s' by admin %d", order.ID, order.Status, identity.UserID)
	SuccessResponse(c, http.StatusOK, "Order status updated successfully", order)
}

func (h *OrderHandler) PurchaseHistory(c *gin.Context) {
	identity, err := resolveIdentity(c)
	if err != nil {
		ErrorResponse(c, http.StatusUnauthorized, "Caller identity required")
		return
	}

	idStr := c.Param("userId")
	userID, err := strconv.Atoi(idStr)
	if err != nil || userID <= 0 {
		h.log.Warnf("Handler: Invalid user ID parameter: %s", idStr)
		ErrorResponse(c, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	if userID != identity.UserID && !identity.IsAdmin() {
		h.log.Warnf("Handler: User %d attempted to read purchase history of user %d", identity.UserID, userID)
		ErrorResponse(c, http.StatusForbidden, "Cannot read another user's purchase history")
		return
	}

	orders, err := h.useCase.PurchaseHistory(c.Request.Context(), userID)
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Errorf("Handler: Failed to get purchase history for user %d: %v", userID, err)
		ErrorResponse(c, statusCode, "Failed to retrieve purchase history: "+errorMessage(err))
		return
	}

	SuccessResponse(c, http.StatusOK, "Purchase history retrieved successfully", orders)
}
