// Package catalog serves the browsable artist/album/song views.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Niloy28/rhythmflow/internal/models"
	"github.com/Niloy28/rhythmflow/internal/player"
)

var ErrNotFound = errors.New("catalog: not found")

// Catalog reads the relational store. All song queries come back fully
// denormalized (artist, album, year, art, audio) because that is exactly
// the shape a catalog row pushes into the player on click.
type Catalog struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Catalog {
	return &Catalog{db: db}
}

// songColumns is the denormalized projection shared by every song query.
const songColumns = `songs.id, songs.name, songs.duration, songs.year,
	songs.audio, albums.cover AS album_art, albums.name AS album,
	artists.name AS artist`

func (c *Catalog) songQuery(ctx context.Context) *gorm.DB {
	return c.db.WithContext(ctx).Model(&models.Song{}).
		Select(songColumns).
		Joins("JOIN albums ON albums.id = songs.album_id").
		Joins("JOIN artists ON artists.id = albums.artist_id")
}

// markLiked stamps each row with the user's liked flag from the snapshot.
func markLiked(rows []player.SongRow, liked map[int64]bool) {
	for i := range rows {
		rows[i].Liked = liked[rows[i].ID]
	}
}

// Artists returns all artists ordered by name.
func (c *Catalog) Artists(ctx context.Context) ([]models.Artist, error) {
	var artists []models.Artist
	err := c.db.WithContext(ctx).Order("name ASC").Find(&artists).Error
	if err != nil {
		return nil, fmt.Errorf("list artists: %w", err)
	}
	return artists, nil
}

// Albums returns all albums with their artists preloaded, newest first.
func (c *Catalog) Albums(ctx context.Context) ([]models.Album, error) {
	var albums []models.Album
	err := c.db.WithContext(ctx).Preload("Artist").Order("year DESC, name ASC").Find(&albums).Error
	if err != nil {
		return nil, fmt.Errorf("list albums: %w", err)
	}
	return albums, nil
}

// Album returns a single album with its artist.
func (c *Catalog) Album(ctx context.Context, id int64) (*models.Album, error) {
	var album models.Album
	err := c.db.WithContext(ctx).Preload("Artist").First(&album, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load album %d: %w", id, err)
	}
	return &album, nil
}

// Artist returns a single artist.
func (c *Catalog) Artist(ctx context.Context, id int64) (*models.Artist, error) {
	var artist models.Artist
	err := c.db.WithContext(ctx).First(&artist, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load artist %d: %w", id, err)
	}
	return &artist, nil
}

// Song returns one song as a denormalized row with the user's liked flag.
func (c *Catalog) Song(ctx context.Context, songID int64, liked map[int64]bool) (*player.SongRow, error) {
	var row player.SongRow
	err := c.songQuery(ctx).Where("songs.id = ?", songID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load song %d: %w", songID, err)
	}
	row.Liked = liked[row.ID]
	return &row, nil
}

// SongsByAlbum returns an album's songs in track order.
func (c *Catalog) SongsByAlbum(ctx context.Context, albumID int64, liked map[int64]bool) ([]player.SongRow, error) {
	var rows []player.SongRow
	err := c.songQuery(ctx).
		Where("songs.album_id = ?", albumID).
		Order("songs.id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("songs for album %d: %w", albumID, err)
	}
	markLiked(rows, liked)
	return rows, nil
}

// SongsByArtist returns every song across an artist's albums.
func (c *Catalog) SongsByArtist(ctx context.Context, artistID int64, liked map[int64]bool) ([]player.SongRow, error) {
	var rows []player.SongRow
	err := c.songQuery(ctx).
		Where("albums.artist_id = ?", artistID).
		Order("albums.year DESC, songs.id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("songs for artist %d: %w", artistID, err)
	}
	markLiked(rows, liked)
	return rows, nil
}

// LikedSongs returns the user's liked songs, most recently liked first.
func (c *Catalog) LikedSongs(ctx context.Context, userID string) ([]player.SongRow, error) {
	var rows []player.SongRow
	err := c.songQuery(ctx).
		Joins("JOIN liked_songs ON liked_songs.song_id = songs.id").
		Where("liked_songs.user_id = ?", userID).
		Order("liked_songs.created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("liked songs for %s: %w", userID, err)
	}
	// Every row here is liked by construction.
	for i := range rows {
		rows[i].Liked = true
	}
	return rows, nil
}

// SearchSongs does a basic name/artist substring search with a hard cap,
// the same shape the library view's search box needs.
func (c *Catalog) SearchSongs(ctx context.Context, term string, limit int, liked map[int64]bool) ([]player.SongRow, error) {
	if limit <= 0 || limit > 200 {
		limit = 200 // Hard cap to protect the server
	}

	q := c.songQuery(ctx)
	if term != "" {
		pattern := "%" + term + "%"
		q = q.Where("songs.name LIKE ? OR artists.name LIKE ?", pattern, pattern)
	}

	var rows []player.SongRow
	if err := q.Order("songs.id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("search songs: %w", err)
	}
	markLiked(rows, liked)
	return rows, nil
}
