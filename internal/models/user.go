package models

type User struct {
	BaseModel
	Email        string     `gorm:"uniqueIndex;not null"`
	PasswordHash string     `gorm:"not null"`
	Name         string     `gorm:"not null"`
	Role         UserRole   `gorm:"type:varchar(20);not null;default:'client'"`
	Status       UserStatus `gorm:"type:varchar(20);not null;default:'active'"`

	// Relations
	Profile *Profile `gorm:"foreignKey:UserID"`
}
