package models

import (
	"time"

	"gorm.io/datatypes"
)

type Notification struct {
	BaseModel
	UserID  string `gorm:"not null;index"`
	Type    string `gorm:"not null"` // "reward", "booking_requested", "booking_status"
	Title   string `gorm:"not null"`
	Message string
	Data    datatypes.JSON `gorm:"type:jsonb"` // {"booking_id": "...", "credits": 5}
	IsRead  bool           `gorm:"default:false"`
	ReadAt  *time.Time
}
