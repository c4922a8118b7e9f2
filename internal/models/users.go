package models

import (
	"time"

	"gorm.io/gorm"
)

type Users struct {
	ID           string         `gorm:"primaryKey;size:64" json:"id"`
	Name         string         `gorm:"not null" json:"name"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"` // Hidden from JSON
	Role         string         `gorm:"type:varchar(20);default:'listener'" json:"role"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	LikedSongs []LikedSong `gorm:"foreignKey:UserID" json:"-"`
}
