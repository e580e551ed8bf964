package dto

import (
	"time"

	"salonhub_backend/internal/models"
)

type UpdateProfileRequest struct {
	AvatarURL *string `json:"avatar_url"`
	Bio       *string `json:"bio"`
	Location  *string `json:"location"`
	Specialty *string `json:"specialty"`
}

type ProfileResponse struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	AvatarURL string         `json:"avatar_url"`
	Bio       string         `json:"bio"`
	Location  string         `json:"location"`
	Specialty string         `json:"specialty"`
	Badges    []models.Badge `json:"badges"`
	Credits   int            `json:"credits"`
	Referred  bool           `json:"referred"`
	CreatedAt time.Time      `json:"created_at"`
}
