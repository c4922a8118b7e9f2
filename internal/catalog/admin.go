package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/Niloy28/rhythmflow/internal/models"
)

// ObjectStore is what the admin side needs from the storage layer: removing
// media objects that catalog rows no longer reference.
type ObjectStore interface {
	DeleteSongObject(key string) error
	DeleteImageObject(key string) error
}

// Admin performs the dashboard's catalog mutations. Replaced or orphaned
// storage objects are cleaned up best-effort; a failed object delete is
// logged and the row change stands.
type Admin struct {
	db    *gorm.DB
	store ObjectStore
}

func NewAdmin(db *gorm.DB, store ObjectStore) *Admin {
	return &Admin{db: db, store: store}
}

// --- Artists ---

type ArtistInput struct {
	Name  string `json:"name" binding:"required"`
	Image string `json:"image"`
}

func (a *Admin) CreateArtist(ctx context.Context, in ArtistInput) (*models.Artist, error) {
	artist := models.Artist{Name: in.Name, Image: in.Image}
	if err := a.db.WithContext(ctx).Create(&artist).Error; err != nil {
		return nil, fmt.Errorf("create artist: %w", err)
	}
	return &artist, nil
}

func (a *Admin) UpdateArtist(ctx context.Context, id int64, in ArtistInput) (*models.Artist, error) {
	var artist models.Artist
	if err := a.db.WithContext(ctx).First(&artist, id).Error; err != nil {
		return nil, a.wrapLookup("artist", id, err)
	}

	if in.Image != "" && in.Image != artist.Image && artist.Image != "" {
		a.removeImage(artist.Image)
	}

	artist.Name = in.Name
	if in.Image != "" {
		artist.Image = in.Image
	}
	if err := a.db.WithContext(ctx).Save(&artist).Error; err != nil {
		return nil, fmt.Errorf("update artist %d: %w", id, err)
	}
	return &artist, nil
}

func (a *Admin) DeleteArtist(ctx context.Context, id int64) error {
	var artist models.Artist
	if err := a.db.WithContext(ctx).First(&artist, id).Error; err != nil {
		return a.wrapLookup("artist", id, err)
	}

	if err := a.db.WithContext(ctx).Delete(&artist).Error; err != nil {
		return fmt.Errorf("delete artist %d: %w", id, err)
	}
	if artist.Image != "" {
		a.removeImage(artist.Image)
	}
	return nil
}

// --- Albums ---

type AlbumInput struct {
	Name     string `json:"name" binding:"required"`
	Cover    string `json:"cover"`
	Year     int    `json:"year" binding:"required"`
	ArtistID int64  `json:"artist_id" binding:"required"`
}

func (a *Admin) CreateAlbum(ctx context.Context, in AlbumInput) (*models.Album, error) {
	album := models.Album{Name: in.Name, Cover: in.Cover, Year: in.Year, ArtistID: in.ArtistID}
	if err := a.db.WithContext(ctx).Create(&album).Error; err != nil {
		return nil, fmt.Errorf("create album: %w", err)
	}
	return &album, nil
}

func (a *Admin) UpdateAlbum(ctx context.Context, id int64, in AlbumInput) (*models.Album, error) {
	var album models.Album
	if err := a.db.WithContext(ctx).First(&album, id).Error; err != nil {
		return nil, a.wrapLookup("album", id, err)
	}

	if in.Cover != "" && in.Cover != album.Cover && album.Cover != "" {
		a.removeImage(album.Cover)
	}

	album.Name = in.Name
	album.Year = in.Year
	album.ArtistID = in.ArtistID
	if in.Cover != "" {
		album.Cover = in.Cover
	}
	if err := a.db.WithContext(ctx).Save(&album).Error; err != nil {
		return nil, fmt.Errorf("update album %d: %w", id, err)
	}
	return &album, nil
}

func (a *Admin) DeleteAlbum(ctx context.Context, id int64) error {
	var album models.Album
	if err := a.db.WithContext(ctx).First(&album, id).Error; err != nil {
		return a.wrapLookup("album", id, err)
	}

	if err := a.db.WithContext(ctx).Delete(&album).Error; err != nil {
		return fmt.Errorf("delete album %d: %w", id, err)
	}
	if album.Cover != "" {
		a.removeImage(album.Cover)
	}
	return nil
}

// --- Songs ---

type SongInput struct {
	Name     string `json:"name" binding:"required"`
	Audio    string `json:"audio" binding:"required"`
	Duration int    `json:"duration"`
	Year     int    `json:"year" binding:"required"`
	AlbumID  int64  `json:"album_id" binding:"required"`
}

func (a *Admin) CreateSong(ctx context.Context, in SongInput) (*models.Song, error) {
	song := models.Song{
		Name:     in.Name,
		Audio:    in.Audio,
		Duration: in.Duration,
		Year:     in.Year,
		AlbumID:  in.AlbumID,
	}
	if err := a.db.WithContext(ctx).Create(&song).Error; err != nil {
		return nil, fmt.Errorf("create song: %w", err)
	}
	return &song, nil
}

func (a *Admin) UpdateSong(ctx context.Context, id int64, in SongInput) (*models.Song, error) {
	var song models.Song
	if err := a.db.WithContext(ctx).First(&song, id).Error; err != nil {
		return nil, a.wrapLookup("song", id, err)
	}

	if in.Audio != "" && in.Audio != song.Audio && song.Audio != "" {
		a.removeAudio(song.Audio)
	}

	song.Name = in.Name
	song.Duration = in.Duration
	song.Year = in.Year
	song.AlbumID = in.AlbumID
	if in.Audio != "" {
		song.Audio = in.Audio
	}
	if err := a.db.WithContext(ctx).Save(&song).Error; err != nil {
		return nil, fmt.Errorf("update song %d: %w", id, err)
	}
	return &song, nil
}

func (a *Admin) DeleteSong(ctx context.Context, id int64) error {
	var song models.Song
	if err := a.db.WithContext(ctx).First(&song, id).Error; err != nil {
		return a.wrapLookup("song", id, err)
	}

	// Likes reference the song; drop them first so the FK stays clean.
	if err := a.db.WithContext(ctx).Where("song_id = ?", id).Delete(&models.LikedSong{}).Error; err != nil {
		return fmt.Errorf("clear likes for song %d: %w", id, err)
	}
	if err := a.db.WithContext(ctx).Delete(&song).Error; err != nil {
		return fmt.Errorf("delete song %d: %w", id, err)
	}
	if song.Audio != "" {
		a.removeAudio(song.Audio)
	}
	return nil
}

func (a *Admin) wrapLookup(kind string, id int64, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("load %s %d: %w", kind, id, err)
}

func (a *Admin) removeImage(key string) {
	if err := a.store.DeleteImageObject(key); err != nil {
		slog.Error("failed to delete image object", "key", key, "error", err)
	}
}

func (a *Admin) removeAudio(key string) {
	if err := a.store.DeleteSongObject(key); err != nil {
		slog.Error("failed to delete audio object", "key", key, "error", err)
	}
}
