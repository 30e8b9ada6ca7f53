package model

import (
	"time"

	"gorm.io/gorm"
)

type Image struct {
	ID          uint   `gorm:"primarykey"`
	UserID      uint   `gorm:"not null;index"`
	URL         string `gorm:"size:255;not null"`
	PublicID    string `gorm:"size:150;not null;uniqueIndex"` // asset key at the provider
	Description string `gorm:"size:150;not null"`
	Tags        []Tag  `gorm:"many2many:image_tag"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (i *Image) BeforeCreate(tx *gorm.DB) error {
	if i.ID == 0 {
		i.ID = GenerateID()
	}
	return nil
}

type Tag struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	Name      string `gorm:"uniqueIndex;size:13;not null"`
	CreatedAt time.Time
}

type Comment struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	Body      string `gorm:"size:255;not null"`
	UserID    uint   `gorm:"not null;index"`
	ImageID   uint   `gorm:"not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Rating struct {
	ID        uint `gorm:"primaryKey;autoIncrement"`
	Rate      int  `gorm:"not null"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_rating_user_image"`
	ImageID   uint `gorm:"not null;uniqueIndex:idx_rating_user_image;index"`
	CreatedAt time.Time
}
