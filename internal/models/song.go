package models

import "time"

// Song is a playable track. Audio holds the object key of the audio file in
// the song bucket; Duration is in whole seconds.
type Song struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"index;not null" json:"name"`
	Audio     string    `gorm:"not null" json:"audio"`
	Duration  int       `json:"duration"`
	Year      int       `json:"year"`
	AlbumID   int64     `gorm:"index;not null" json:"album_id"`
	Album     Album     `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
