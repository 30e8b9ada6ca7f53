package model

import (
	"time"

	"gorm.io/gorm"
)

// User stores an identity together with its current refresh token.
type User struct {
	ID           uint   `gorm:"primarykey"`
	Username     string `gorm:"uniqueIndex;size:50;not null"`
	Email        string `gorm:"uniqueIndex;size:254;not null"`
	Sex          string `gorm:"size:7;not null"`
	Password     string `gorm:"size:150;not null"`
	Role         Role   `gorm:"type:varchar(16);not null;index"`
	Banned       bool   `gorm:"default:false;not null"`
	RefreshToken string `gorm:"size:64;not null"` // fingerprint of the active refresh token, empty when none
	Avatar       string `gorm:"size:255;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == 0 {
		u.ID = GenerateID()
	}
	return nil
}
