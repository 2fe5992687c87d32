package booking

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
	manage := middleware.RequirePermission(domain.PermManageBookings)

	bookings := rg.Group("/bookings")
	{
		bookings.POST("", manage, h.CreateBooking)
		bookings.GET("", manage, h.ListBookings)
		bookings.GET("/:id", manage, h.GetBooking)
		bookings.PUT("/:id", manage, h.UpdateBooking)
		bookings.PUT("/:id/checkin", manage, h.CheckIn)
		bookings.PUT("/:id/checkout", manage, h.CheckOut)
		bookings.POST("/:id/cancel", manage, h.Cancel)
		bookings.PUT("/:id/payment", middleware.RequirePermission(domain.PermRecordPayments), h.AddPayment)
		bookings.GET("/:id/invoice", manage, h.Invoice)
	}
	rg.POST("/rooms/reconcile", middleware.RequirePermission(domain.PermManageRooms), h.ReconcileRooms)
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	b, err := h.service.Create(c.Request.Context(), req, middleware.UserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Booking created successfully", b)
}

func (h *Handler) ListBookings(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	res, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "", res)
}

func (h *Handler) GetBooking(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	b, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "", b)
}

func (h *Handler) UpdateBooking(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	var req UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	b, err := h.service.Update(c.Request.Context(), id, req, middleware.UserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Booking updated successfully", b)
}

func (h *Handler) CheckIn(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	b, err := h.service.CheckIn(c.Request.Context(), id, middleware.UserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Guest checked in successfully", b)
}

func (h *Handler) CheckOut(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	b, err := h.service.CheckOut(c.Request.Context(), id, middleware.UserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Guest checked out successfully", b)
}

func (h *Handler) Cancel(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	var req CancelRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request body")
			return
		}
	}
	b, err := h.service.Cancel(c.Request.Context(), id, req, middleware.UserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Booking cancelled successfully", b)
}

func (h *Handler) AddPayment(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	b, entry, err := h.service.AddPayment(c.Request.Context(), id, req, middleware.UserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Payment recorded successfully", gin.H{
		"booking":     b,
		"transaction": entry,
	})
}

func (h *Handler) Invoice(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	inv, err := h.service.Invoice(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "", inv)
}

func (h *Handler) ReconcileRooms(c *gin.Context) {
	changes, err := h.service.ReconcileRoomStatuses(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "", gin.H{"changed": changes})
}

func bookingID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "Invalid booking ID")
		return 0, false
	}
	return id, true
}
