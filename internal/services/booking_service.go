package services

import (
	"errors"

	"salonhub_backend/internal/logger"
	"salonhub_backend/internal/models"
	"salonhub_backend/internal/repositories"
	"salonhub_backend/internal/services/dto"
	"salonhub_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type BookingService interface {
	CreateBooking(db *gorm.DB, senderID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error)
	GetBooking(db *gorm.DB, userID, bookingID string) (*dto.BookingResponse, error)
	ListBookings(db *gorm.DB, userID string, page, pageSize int) (*dto.BookingListResponse, error)

	// UpdateBookingStatus проверяет допустимость перехода по текущему
	// сохраненному статусу и пишет новый условным update (id + пре-статус).
	// Переход из pending и accepted разрешен только получателю заявки.
	UpdateBookingStatus(db *gorm.DB, actorID, bookingID string, newStatus models.BookingStatus) (*dto.BookingResponse, error)
}

type bookingService struct {
	bookingRepo     repositories.BookingRepository
	userRepo        repositories.UserRepository
	notificationSvc NotificationService
}

func NewBookingService(
	bookingRepo repositories.BookingRepository,
	userRepo repositories.UserRepository,
	notificationSvc NotificationService,
) BookingService {
	return &bookingService{
		bookingRepo:     bookingRepo,
		userRepo:        userRepo,
		notificationSvc: notificationSvc,
	}
}

func (s *bookingService) CreateBooking(db *gorm.DB, senderID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	if senderID == req.RecipientID {
		return nil, apperrors.ErrSelfBooking
	}

	sender, err := s.userRepo.FindByID(db, senderID)
	if err != nil {
		return nil, handleBookingLookupError(err)
	}
	if _, err := s.userRepo.FindByID(db, req.RecipientID); err != nil {
		return nil, handleBookingLookupError(err)
	}

	booking := &models.Booking{
		SenderID:      senderID,
		RecipientID:   req.RecipientID,
		DateRequested: req.DateRequested,
		TimeRequested: req.TimeRequested,
		Note:          req.Note,
		Status:        models.BookingStatusPending,
	}

	if err := s.bookingRepo.Create(db, booking); err != nil {
		return nil, apperrors.ErrPersistence(err, "booking")
	}

	if err := s.notificationSvc.NotifyBookingRequested(db, req.RecipientID, booking.ID, sender.Name); err != nil {
		logger.Warn("booking notification not delivered",
			"booking_id", booking.ID, "error", err.Error())
	}

	return buildBookingResponse(booking), nil
}

func (s *bookingService) GetBooking(db *gorm.DB, userID, bookingID string) (*dto.BookingResponse, error) {
	booking, err := s.bookingRepo.FindByID(db, bookingID)
	if err != nil {
		return nil, handleBookingLookupError(err)
	}
	if booking.SenderID != userID && booking.RecipientID != userID {
		return nil, apperrors.NewForbiddenError("Booking belongs to another user")
	}
	return buildBookingResponse(booking), nil
}

func (s *bookingService) ListBookings(db *gorm.DB, userID string, page, pageSize int) (*dto.BookingListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	bookings, total, err := s.bookingRepo.ListForUser(db, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, apperrors.ErrPersistence(err, "booking")
	}

	var responses []*dto.BookingResponse
	for i := range bookings {
		responses = append(responses, buildBookingResponse(&bookings[i]))
	}

	return &dto.BookingListResponse{
		Bookings: responses,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

func (s *bookingService) UpdateBookingStatus(db *gorm.DB, actorID, bookingID string, newStatus models.BookingStatus) (*dto.BookingResponse, error) {
	if !newStatus.IsValid() {
		return nil, apperrors.NewBadRequestError("Unknown booking status: " + string(newStatus))
	}

	booking, err := s.bookingRepo.FindByID(db, bookingID)
	if err != nil {
		return nil, handleBookingLookupError(err)
	}

	if booking.RecipientID != actorID {
		return nil, apperrors.ErrNotBookingRecipient
	}

	if !booking.Status.CanTransitionTo(newStatus) {
		return nil, apperrors.ErrIllegalTransition(string(booking.Status), string(newStatus))
	}

	// Условная запись: проигравший гонку конкурент получает 0 строк,
	// а не слепую перезапись чужого перехода.
	updated, err := s.bookingRepo.UpdateStatusFrom(db, bookingID, booking.Status, newStatus)
	if err != nil {
		return nil, apperrors.ErrPersistence(err, "booking")
	}
	if !updated {
		if _, err := s.bookingRepo.FindByID(db, bookingID); err != nil {
			return nil, handleBookingLookupError(err)
		}
		return nil, apperrors.ErrConditionFailed("booking", "Booking status changed concurrently")
	}

	booking.Status = newStatus

	if err := s.notificationSvc.NotifyBookingStatus(db, booking.SenderID, booking.ID, newStatus); err != nil {
		logger.Warn("booking status notification not delivered",
			"booking_id", booking.ID, "error", err.Error())
	}

	return buildBookingResponse(booking), nil
}

func handleBookingLookupError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrBookingNotFound):
		return apperrors.ErrNotFound(err, "booking")
	case errors.Is(err, repositories.ErrUserNotFound):
		return apperrors.ErrNotFound(err, "user")
	default:
		return apperrors.ErrPersistence(err, "booking")
	}
}

func buildBookingResponse(b *models.Booking) *dto.BookingResponse {
	return &dto.BookingResponse{
		ID:            b.ID,
		SenderID:      b.SenderID,
		RecipientID:   b.RecipientID,
		DateRequested: b.DateRequested,
		TimeRequested: b.TimeRequested,
		Note:          b.Note,
		Status:        b.Status,
		CreatedAt:     b.CreatedAt,
	}
}
