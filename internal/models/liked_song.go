package models

import "time"

// LikedSong is one row of the user↔song like join table. The composite
// primary key is what makes repeated likes idempotent at the DB level.
type LikedSong struct {
	UserID    string    `gorm:"primaryKey;size:64" json:"user_id"`
	SongID    int64     `gorm:"primaryKey" json:"song_id"`
	CreatedAt time.Time `json:"created_at"`
}
