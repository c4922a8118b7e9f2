// Package likes owns the authoritative user↔song like relation.
package likes

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Niloy28/rhythmflow/internal/models"
)

// Service persists like/unlike proposals. Both operations are idempotent:
// liking an already-liked song and unliking a never-liked one are no-ops,
// which is what lets the UI fire them without deduplication.
type Service struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Like records that userID liked songID. Re-running is a no-op thanks to
// the composite primary key plus ON CONFLICT DO NOTHING.
func (s *Service) Like(ctx context.Context, userID string, songID int64) error {
	row := models.LikedSong{UserID: userID, SongID: songID}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("like song %d: %w", songID, err)
	}
	return nil
}

// Unlike removes userID's like for songID, scoped to that user. Removing a
// like that does not exist is a no-op.
func (s *Service) Unlike(ctx context.Context, userID string, songID int64) error {
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND song_id = ?", userID, songID).
		Delete(&models.LikedSong{}).Error
	if err != nil {
		return fmt.Errorf("unlike song %d: %w", songID, err)
	}
	return nil
}

// IsLiked reports whether userID has liked songID.
func (s *Service) IsLiked(ctx context.Context, userID string, songID int64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.LikedSong{}).
		Where("user_id = ? AND song_id = ?", userID, songID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check like for song %d: %w", songID, err)
	}
	return count > 0, nil
}

// SnapshotFor returns the user's liked song IDs as a lookup map. Pages read
// this once at render time to seed every row's liked flag, and re-reading it
// on the next navigation is what eventually corrects a lost fire-and-forget
// like call.
func (s *Service) SnapshotFor(ctx context.Context, userID string) (map[int64]bool, error) {
	var ids []int64
	err := s.db.WithContext(ctx).Model(&models.LikedSong{}).
		Where("user_id = ?", userID).
		Pluck("song_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("liked snapshot for %s: %w", userID, err)
	}

	liked := make(map[int64]bool, len(ids))
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}
