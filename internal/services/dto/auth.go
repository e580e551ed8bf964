package dto

import "salonhub_backend/internal/models"

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" validate:"omitempty,is-user-role"`

	// Код, пришедший out-of-band (ссылка-приглашение). Необязателен;
	// некорректный код регистрацию не блокирует.
	ReferralCode string `json:"referral_code"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string          `json:"token"`
	User  *UserResponse   `json:"user"`
	Role  models.UserRole `json:"role"`
}

type UserResponse struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Email string          `json:"email"`
	Role  models.UserRole `json:"role"`
}
