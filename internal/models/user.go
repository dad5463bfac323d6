package models

import "time"

type User struct {
	BaseModel
	Name            string   `gorm:"type:varchar(255);not null" json:"name"`
	Email           string   `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash    string   `gorm:"not null" json:"-"`
	Role            UserRole `gorm:"type:varchar(20);not null;index" json:"role"`
	Department      *string  `gorm:"type:varchar(255)" json:"department,omitempty"`
	AvatarObjectKey *string  `gorm:"type:varchar(512)" json:"avatar_object_key,omitempty"`
	IsActive        bool     `gorm:"default:true" json:"is_active"`

	RefreshTokens []RefreshToken `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

type RefreshToken struct {
	BaseModel
	UserID    string    `gorm:"type:varchar(36);not null;index"`
	Token     string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null"`
}
