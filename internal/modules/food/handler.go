package food

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hotelpms/internal/domain"
	"hotelpms/internal/middleware"
	"hotelpms/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	manage := middleware.RequirePermission(domain.PermManageFood)

	menu := rg.Group("/menu", manage)
	{
		menu.GET("", h.ListMenu)
		menu.POST("", h.CreateMenuItem)
		menu.PUT("/:id", h.UpdateMenuItem)
	}

	orders := rg.Group("/food-orders", manage)
	{
		orders.POST("/create", h.CreateOrder)
		orders.GET("", h.ListOrders)
		orders.GET("/:orderId", h.GetOrder)
		orders.PUT("/:orderId", h.UpdateOrder)
		orders.PUT("/:orderId/status", h.UpdateOrderStatus)
		orders.GET("/:orderId/kot", h.ListKOT)
	}

	rg.POST("/food-payments/record", middleware.RequirePermission(domain.PermRecordPayments), h.RecordPayment)
}

func (h *Handler) ListMenu(c *gin.Context) {
	var q MenuQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	items, err := h.service.ListMenu(c.Request.Context(), q)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "", items)
}

func (h *Handler) CreateMenuItem(c *gin.Context) {
	var req CreateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	m, err := h.service.CreateMenuItem(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Menu item created", m)
}

func (h *Handler) UpdateMenuItem(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid menu item ID")
	if !ok {
		return
	}
	var req UpdateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	m, err := h.service.UpdateMenuItem(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Menu item updated", m)
}

func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	o, err := h.service.CreateOrder(c.Request.Context(), req, middleware.UserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Food order created", o)
}

func (h *Handler) ListOrders(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	orders, err := h.service.ListOrders(c.Request.Context(), q)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "", orders)
}

func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := parseID(c, "orderId", "Invalid order ID")
	if !ok {
		return
	}
	o, err := h.service.GetOrder(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "", o)
}

func (h *Handler) UpdateOrder(c *gin.Context) {
	id, ok := parseID(c, "orderId", "Invalid order ID")
	if !ok {
		return
	}
	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	o, err := h.service.UpdateOrder(c.Request.Context(), id, req, middleware.UserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Food order updated", o)
}

func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseID(c, "orderId", "Invalid order ID")
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	o, err := h.service.UpdateOrderStatus(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Food order status updated", o)
}

func (h *Handler) ListKOT(c *gin.Context) {
	id, ok := parseID(c, "orderId", "Invalid order ID")
	if !ok {
		return
	}
	kots, err := h.service.ListKOT(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "", kots)
}

func (h *Handler) RecordPayment(c *gin.Context) {
	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	res, err := h.service.RecordPayment(c.Request.Context(), req, middleware.UserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Payment recorded", res)
}

func parseID(c *gin.Context, param, msg string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, msg)
		return 0, false
	}
	return id, true
}
