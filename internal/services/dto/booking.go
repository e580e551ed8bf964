package dto

import (
	"time"

	"salonhub_backend/internal/models"
)

type CreateBookingRequest struct {
	RecipientID   string `json:"recipient_id" binding:"required"`
	DateRequested string `json:"date_requested" binding:"required"`
	TimeRequested string `json:"time_requested" binding:"required"`
	Note          string `json:"note" binding:"required"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" binding:"required" validate:"is-booking-status"`
}

type BookingResponse struct {
	ID            string               `json:"id"`
	SenderID      string               `json:"sender_id"`
	RecipientID   string               `json:"recipient_id"`
	DateRequested string               `json:"date_requested"`
	TimeRequested string               `json:"time_requested"`
	Note          string               `json:"note"`
	Status        models.BookingStatus `json:"status"`
	CreatedAt     time.Time            `json:"created_at"`
}

type BookingListResponse struct {
	Bookings []*BookingResponse `json:"bookings"`
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
}
