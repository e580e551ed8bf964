package models

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
)

// Badge - заработанная награда профиля. Порядок в списке = порядок получения,
// имя уникально в пределах профиля.
type Badge struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type Profile struct {
	BaseModel
	UserID    string `gorm:"uniqueIndex;not null"`
	AvatarURL string
	Bio       string
	Location  string
	Specialty string

	Badges  datatypes.JSON `gorm:"type:jsonb"` // [{"name": "...", "description": "...", "icon": "..."}]
	Credits int            `gorm:"not null;default:0"`

	ReferredBy            *string `gorm:"type:uuid"` // id пригласившего профиля
	ReferralRewardClaimed bool    `gorm:"not null;default:false"`
	ReferralCode          *string `gorm:"uniqueIndex"`
}

// GetBadges парсит badges из jsonb. Сырые данные валидируются здесь,
// бизнес-логика нетипизированный список не видит.
func (p *Profile) GetBadges() ([]Badge, error) {
	if len(p.Badges) == 0 {
		return nil, nil
	}
	var badges []Badge
	if err := json.Unmarshal(p.Badges, &badges); err != nil {
		return nil, fmt.Errorf("malformed badges payload: %w", err)
	}
	for i, b := range badges {
		if b.Name == "" {
			return nil, fmt.Errorf("badge at index %d has empty name", i)
		}
	}
	return badges, nil
}

// SetBadges сериализует список наград в jsonb
func (p *Profile) SetBadges(badges []Badge) error {
	data, err := json.Marshal(badges)
	if err != nil {
		return err
	}
	p.Badges = datatypes.JSON(data)
	return nil
}

// HasBadge проверяет наличие награды по имени. Ошибка парсинга трактуется
// как отсутствие награды: лучше не выдать повторно, чем задвоить.
func (p *Profile) HasBadge(name string) bool {
	badges, err := p.GetBadges()
	if err != nil {
		return true
	}
	for _, b := range badges {
		if b.Name == name {
			return true
		}
	}
	return false
}

// HasCompleteDetails - заполнены ли bio, location и specialty
func (p *Profile) HasCompleteDetails() bool {
	return p.Bio != "" && p.Location != "" && p.Specialty != ""
}
