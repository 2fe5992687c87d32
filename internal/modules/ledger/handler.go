package ledger

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
	perm := middleware.RequirePermission(domain.PermRecordPayments)
	rg.GET("/bookings/:id/transactions", perm, h.ListBookingTransactions)
	rg.GET("/food-orders/:orderId/transactions", perm, h.ListFoodOrderTransactions)
}

func (h *Handler) ListBookingTransactions(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid booking ID")
		return
	}
	entries, err := h.service.ListForBooking(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "", gin.H{
		"transactions": entries,
		"net_paid":     Sum(entries),
	})
}

func (h *Handler) ListFoodOrderTransactions(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("orderId"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}
	entries, err := h.service.ListForFoodOrder(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "", gin.H{
		"transactions": entries,
		"net_paid":     Sum(entries),
	})
}
