package repositories

import (
	"errors"

	"salonhub_backend/internal/models"

	"gorm.io/gorm"
)

var ErrBookingNotFound = errors.New("booking not found")

type BookingRepository interface {
	Create(db *gorm.DB, booking *models.Booking) error
	FindByID(db *gorm.DB, id string) (*models.Booking, error)
	ListForUser(db *gorm.DB, userID string, limit, offset int) ([]models.Booking, int64, error)

	// UpdateStatusFrom - условная запись статуса: update где id И текущий
	// статус совпадают. false означает, что строка с таким пре-статусом
	// не найдена (гонка либо несуществующая заявка - различает сервис).
	UpdateStatusFrom(db *gorm.DB, id string, from, to models.BookingStatus) (bool, error)
}

type BookingRepositoryImpl struct{}

func NewBookingRepository() BookingRepository {
	return &BookingRepositoryImpl{}
}

func (r *BookingRepositoryImpl) Create(db *gorm.DB, booking *models.Booking) error {
	return db.Create(booking).Error
}

func (r *BookingRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Booking, error) {
	var booking models.Booking
	err := db.First(&booking, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *BookingRepositoryImpl) ListForUser(db *gorm.DB, userID string, limit, offset int) ([]models.Booking, int64, error) {
	var bookings []models.Booking
	var total int64

	query := db.Model(&models.Booking{}).
		Where("sender_id = ? OR recipient_id = ?", userID, userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&bookings).Error
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

func (r *BookingRepositoryImpl) UpdateStatusFrom(db *gorm.DB, id string, from, to models.BookingStatus) (bool, error) {
	result := db.Model(&models.Booking{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
