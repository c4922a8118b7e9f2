package models

import "time"

// Album groups songs under an artist. Cover holds the object key of the
// album art in the image bucket.
type Album struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"index;not null" json:"name"`
	Cover     string    `json:"cover"`
	Year      int       `json:"year"`
	ArtistID  int64     `gorm:"index;not null" json:"artist_id"`
	Artist    Artist    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Songs []Song `json:"songs,omitempty"`
}
