package models

type Booking struct {
	BaseModel
	SenderID      string        `gorm:"type:uuid;not null;index"`
	RecipientID   string        `gorm:"type:uuid;not null;index"`
	DateRequested string        `gorm:"not null"`
	TimeRequested string        `gorm:"not null"`
	Note          string        `gorm:"not null"`
	Status        BookingStatus `gorm:"type:varchar(20);not null;default:'pending'"`

	// Relations
	Sender    User `gorm:"foreignKey:SenderID"`
	Recipient User `gorm:"foreignKey:RecipientID"`
}
