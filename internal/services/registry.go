package services

import (
	"salonhub_backend/internal/email"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService         AuthService
	ProfileService      ProfileService
	ReferralService     ReferralService
	RewardService       RewardService
	BookingService      BookingService
	NotificationService NotificationService
	EmailService        email.Provider
}
