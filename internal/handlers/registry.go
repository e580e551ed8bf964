package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	ProfileHandler      *ProfileHandler
	ReferralHandler     *ReferralHandler
	RewardHandler       *RewardHandler
	BookingHandler      *BookingHandler
	NotificationHandler *NotificationHandler
}
