package dto

import "salonhub_backend/internal/models"

// RewardSummary - результат одной сверки наград. Message пустой и
// Visible=false, если в этом цикле ничего не выдано.
type RewardSummary struct {
	BadgesGranted  []models.Badge `json:"badges_granted"`
	CreditsGranted int            `json:"credits_granted"`
	Message        string         `json:"message,omitempty"`
	Visible        bool           `json:"visible"`
}
