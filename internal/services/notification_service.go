package services

import (
	"encoding/json"
	"fmt"

	"salonhub_backend/internal/models"
	"salonhub_backend/internal/repositories"
	"salonhub_backend/internal/services/dto"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	NotificationTypeReward           = "reward"
	NotificationTypeBookingRequested = "booking_requested"
	NotificationTypeBookingStatus    = "booking_status"
)

type NotificationService interface {
	GetUserNotifications(db *gorm.DB, userID string, page, pageSize int) (*dto.NotificationListResponse, error)
	MarkAsRead(db *gorm.DB, userID, notificationID string) error
	MarkAllAsRead(db *gorm.DB, userID string) error
	GetUnreadCount(db *gorm.DB, userID string) (int64, error)

	// Factory methods for domain events
	NotifyReward(db *gorm.DB, userID, message string, credits, badgeCount int) error
	NotifyBookingRequested(db *gorm.DB, recipientID, bookingID, senderName string) error
	NotifyBookingStatus(db *gorm.DB, userID, bookingID string, status models.BookingStatus) error

	// DismissRewardToasts - dismiss-контракт всплывающего сообщения о наградах:
	// клиент закрыл тост, непрочитанные reward-уведомления гасятся.
	DismissRewardToasts(db *gorm.DB, userID string) error
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
}

func NewNotificationService(notificationRepo repositories.NotificationRepository) NotificationService {
	return &notificationService{notificationRepo: notificationRepo}
}

func (s *notificationService) GetUserNotifications(db *gorm.DB, userID string, page, pageSize int) (*dto.NotificationListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	notifications, total, err := s.notificationRepo.FindForUser(db, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}

	unread, err := s.notificationRepo.CountUnread(db, userID)
	if err != nil {
		return nil, err
	}

	var responses []*dto.NotificationResponse
	for _, n := range notifications {
		responses = append(responses, buildNotificationResponse(&n))
	}

	return &dto.NotificationListResponse{
		Notifications: responses,
		Total:         total,
		UnreadCount:   unread,
		Page:          page,
		PageSize:      pageSize,
	}, nil
}

func (s *notificationService) MarkAsRead(db *gorm.DB, userID, notificationID string) error {
	return s.notificationRepo.MarkAsRead(db, userID, notificationID)
}

func (s *notificationService) MarkAllAsRead(db *gorm.DB, userID string) error {
	return s.notificationRepo.MarkAllAsRead(db, userID)
}

func (s *notificationService) GetUnreadCount(db *gorm.DB, userID string) (int64, error) {
	return s.notificationRepo.CountUnread(db, userID)
}

// ---------------- Factory methods ----------------

func (s *notificationService) NotifyReward(db *gorm.DB, userID, message string, credits, badgeCount int) error {
	data, _ := json.Marshal(map[string]interface{}{
		"credits": credits,
		"badges":  badgeCount,
	})

	return s.notificationRepo.Create(db, &models.Notification{
		UserID:  userID,
		Type:    NotificationTypeReward,
		Title:   "Reward earned",
		Message: message,
		Data:    datatypes.JSON(data),
	})
}

func (s *notificationService) NotifyBookingRequested(db *gorm.DB, recipientID, bookingID, senderName string) error {
	data, _ := json.Marshal(map[string]interface{}{"booking_id": bookingID})

	return s.notificationRepo.Create(db, &models.Notification{
		UserID:  recipientID,
		Type:    NotificationTypeBookingRequested,
		Title:   "New booking request",
		Message: fmt.Sprintf("%s sent you a booking request", senderName),
		Data:    datatypes.JSON(data),
	})
}

func (s *notificationService) NotifyBookingStatus(db *gorm.DB, userID, bookingID string, status models.BookingStatus) error {
	data, _ := json.Marshal(map[string]interface{}{
		"booking_id": bookingID,
		"status":     status,
	})

	return s.notificationRepo.Create(db, &models.Notification{
		UserID:  userID,
		Type:    NotificationTypeBookingStatus,
		Title:   "Booking update",
		Message: fmt.Sprintf("Your booking request was %s", status),
		Data:    datatypes.JSON(data),
	})
}

func (s *notificationService) DismissRewardToasts(db *gorm.DB, userID string) error {
	return s.notificationRepo.MarkTypeAsRead(db, userID, NotificationTypeReward)
}

func buildNotificationResponse(n *models.Notification) *dto.NotificationResponse {
	var data map[string]interface{}
	if len(n.Data) > 0 {
		_ = json.Unmarshal(n.Data, &data)
	}

	return &dto.NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Data:      data,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}
