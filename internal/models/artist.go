package models

import "time"

// Artist is a catalog artist. Image holds the object key of the artist
// portrait in the image bucket.
type Artist struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"index;not null" json:"name"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Albums []Album `json:"albums,omitempty"`
}
