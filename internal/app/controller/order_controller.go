package controller

import (
	"net/http"

	"github.com/geekcommerce/geek-commerce-backend/internal/app/model"
	"github.com/geekcommerce/geek-commerce-backend/internal/app/service"
	apperrors "github.com/geekcommerce/geek-commerce-backend/internal/errors"
	"github.com/geekcommerce/geek-commerce-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

type OrderItemRequest struct {
	VariantID     uint   `json:"variant_id" binding:"required"`
	Quantity      int    `json:"quantity" binding:"required,min=1"`
	Customization string `json:"customization"`
}

type CreateOrderRequest struct {
	ShippingAddress string             `json:"shipping_address" binding:"required"`
	Items           []OrderItemRequest `json:"items" binding:"dive"`
}

type UpdateOrderStatusRequest struct {
	Status model.OrderStatus `json:"status" binding:"required"`
}

type BulkUpdateOrderStatusRequest struct {
	OrderIDs []uint            `json:"order_ids" binding:"required,min=1"`
	Status   model.OrderStatus `json:"status" binding:"required"`
}

func (r OrderItemRequest) input() service.OrderItemInput {
	return service.OrderItemInput{
		VariantID:     r.VariantID,
		Quantity:      r.Quantity,
		Customization: r.Customization,
	}
}

// currentUser returns the authenticated user's id and role or answers 401.
func currentUser(c *gin.Context) (uint, string, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "Authentication required")
		return 0, "", false
	}
	role, _ := middleware.GetUserRole(c)
	return userID, string(role), true
}

// CreateOrder places an order for the current user
// POST /api/v1/orders
func (ctrl *OrderController) CreateOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreateOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	items := make([]service.OrderItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, item.input())
	}

	order, err := ctrl.orderService.CreateOrder(userID, req.ShippingAddress, items)
	if err != nil {
		respondServiceError(c, err, "order")
		return
	}

	log.Info("Order created successfully", map[string]interface{}{
		"user_id":  userID,
		"order_id": order.ID,
		"total":    order.Total().String(),
	})

	c.JSON(http.StatusCreated, gin.H{
		"order": order,
	})
}

// GetMyOrders lists the current user's orders
// GET /api/v1/orders
func (ctrl *OrderController) GetMyOrders(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	orders, err := ctrl.orderService.ListUserOrders(userID)
	if err != nil {
		respondServiceError(c, err, "order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// GetOrder returns one order. Other users' orders read as not found.
// GET /api/v1/orders/:id
func (ctrl *OrderController) GetOrder(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		return
	}
	orderID, ok := parseID(c, "id")
	if !ok {
		return
	}

	order, err := ctrl.orderService.GetOrder(userID, role, orderID)
	if err != nil {
		respondServiceError(c, err, "order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
	})
}

// AddOrderItem appends an item to a pending order
// POST /api/v1/orders/:id/items
func (ctrl *OrderController) AddOrderItem(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		return
	}
	orderID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req OrderItemRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := ctrl.orderService.AddOrderItem(userID, role, orderID, req.input())
	if err != nil {
		respondServiceError(c, err, "order")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"order": order,
	})
}

// ListOrders lists all orders, optionally by status (Admin only)
// GET /api/v1/admin/orders?status=
func (ctrl *OrderController) ListOrders(c *gin.Context) {
	var status *model.OrderStatus
	if raw := c.Query("status"); raw != "" {
		s := model.OrderStatus(raw)
		status = &s
	}

	orders, err := ctrl.orderService.ListOrders(status)
	if err != nil {
		respondServiceError(c, err, "order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// UpdateOrderStatus moves an order forward (Admin only)
// PATCH /api/v1/admin/orders/:id/status
func (ctrl *OrderController) UpdateOrderStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	orderID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := ctrl.orderService.UpdateOrderStatus(orderID, req.Status)
	if err != nil {
		respondServiceError(c, err, "order")
		return
	}

	log.Info("Order status updated successfully", map[string]interface{}{
		"order_id": orderID,
		"status":   order.Status,
	})

	c.JSON(http.StatusOK, gin.H{
		"order": order,
	})
}

// BulkUpdateOrderStatus moves several orders at once, all or nothing (Admin only)
// POST /api/v1/admin/orders/status
func (ctrl *OrderController) BulkUpdateOrderStatus(c *gin.Context) {
	var req BulkUpdateOrderStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	orders, err := ctrl.orderService.BulkUpdateOrderStatus(req.OrderIDs, req.Status)
	if err != nil {
		respondServiceError(c, err, "order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// DELETE /api/v1/admin/orders/:id
func (ctrl *OrderController) DeleteOrder(c *gin.Context) {
	orderID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.orderService.DeleteOrder(orderID); err != nil {
		respondServiceError(c, err, "order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order deleted successfully",
	})
}
