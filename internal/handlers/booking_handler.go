package handlers

import (
	"net/http"

	"salonhub_backend/internal/middleware"
	"salonhub_backend/internal/models"
	"salonhub_backend/internal/services"
	"salonhub_backend/internal/services/dto"
	"salonhub_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	*BaseHandler
	bookingService services.BookingService
}

func NewBookingHandler(base *BaseHandler, bookingService services.BookingService) *BookingHandler {
	return &BookingHandler{
		BaseHandler:    base,
		bookingService: bookingService,
	}
}

func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup) {
	bookings := r.Group("/bookings")
	bookings.Use(middleware.AuthMiddleware())
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("", h.ListBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.PATCH("/:id/status", h.UpdateBookingStatus)
	}
}

func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req dto.CreateBookingRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.bookingService.CreateBooking(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *BookingHandler) ListBookings(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	page, pageSize := ParsePagination(c)
	resp, err := h.bookingService.ListBookings(h.GetDB(c), userID, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	bookingID := c.Param("id")
	if bookingID == "" {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Missing booking id"))
		return
	}

	resp, err := h.bookingService.GetBooking(h.GetDB(c), userID, bookingID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *BookingHandler) UpdateBookingStatus(c *gin.Context) {
	var req dto.UpdateBookingStatusRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	bookingID := c.Param("id")
	if bookingID == "" {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Missing booking id"))
		return
	}

	resp, err := h.bookingService.UpdateBookingStatus(
		h.GetDB(c), userID, bookingID, models.BookingStatus(req.Status))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
