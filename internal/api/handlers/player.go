package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Niloy28/rhythmflow/internal/api/middleware"
	"github.com/Niloy28/rhythmflow/internal/catalog"
	"github.com/Niloy28/rhythmflow/internal/likes"
	"github.com/Niloy28/rhythmflow/internal/player"
	"github.com/Niloy28/rhythmflow/internal/storage"
)

// PlayerHandler exposes the playback session: reading the now-playing
// snapshot, loading a song into it, and adjusting volume.
type PlayerHandler struct {
	sessions     *player.SessionManager
	catalog      *catalog.Catalog
	likes        *likes.Service
	storage      *storage.Client
	cookieMaxAge int
}

func NewPlayerHandler(sessions *player.SessionManager, cat *catalog.Catalog, likeSvc *likes.Service, st *storage.Client, cookieMaxAge int) *PlayerHandler {
	return &PlayerHandler{
		sessions:     sessions,
		catalog:      cat,
		likes:        likeSvc,
		storage:      st,
		cookieMaxAge: cookieMaxAge,
	}
}

// GetState returns the session's now-playing snapshot, creating the session
// (hydrated from the cookie mirror) on first contact.
func (h *PlayerHandler) GetState(c *gin.Context) {
	jar := newJar(c, h.cookieMaxAge)
	store := h.sessions.Attach(jar)
	c.JSON(http.StatusOK, store.Snapshot())
}

type selectRequest struct {
	SongID int64 `json:"song_id" binding:"required"`
}

// Select loads a song into the player: the denormalized record is read,
// media keys are resolved to playable URLs, and the whole thing lands in
// the store and the cookie mirror as one transaction. The response is the
// resulting snapshot, which the audio surface treats as authoritative.
func (h *PlayerHandler) Select(c *gin.Context) {
	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	userID := middleware.UserID(c)

	liked := map[int64]bool{}
	if userID != "" {
		var err error
		liked, err = h.likes.SnapshotFor(c.Request.Context(), userID)
		if err != nil {
			slog.Error("liked snapshot failed", "user_id", userID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
	}

	row, err := h.catalog.Song(c.Request.Context(), req.SongID, liked)
	if errors.Is(err, catalog.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Song not found"})
		return
	}
	if err != nil {
		slog.Error("song lookup failed", "song_id", req.SongID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if err := h.resolveRow(row); err != nil {
		slog.Error("media URL resolution failed", "song_id", row.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Storage error"})
		return
	}

	jar := newJar(c, h.cookieMaxAge)
	store := h.sessions.Attach(jar)

	binding, err := player.BindRow(store, jar, h.likes, userID, *row)
	if err != nil {
		// A catalog row without an ID is a data-integrity bug upstream.
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer binding.Close()

	if err := binding.Select(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	playerSelections.Inc()
	c.JSON(http.StatusOK, store.Snapshot())
}

type volumeRequest struct {
	Volume *float64 `json:"volume" binding:"required"`
}

// SetVolume updates the player volume and its cookie entry.
func (h *PlayerHandler) SetVolume(c *gin.Context) {
	var req volumeRequest
	if err := c.ShouldBindJSON(&req); err != nil || *req.Volume < 0 || *req.Volume > 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Volume must be between 0 and 1"})
		return
	}

	jar := newJar(c, h.cookieMaxAge)
	store := h.sessions.Attach(jar)

	store.SetVolume(*req.Volume)
	player.PersistVolume(jar, *req.Volume)

	c.JSON(http.StatusOK, store.Snapshot())
}

// StreamSong proxies the audio object for deployments where the bucket is
// not directly reachable from the browser.
func (h *PlayerHandler) StreamSong(c *gin.Context) {
	songID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid song ID"})
		return
	}

	row, err := h.catalog.Song(c.Request.Context(), songID, nil)
	if errors.Is(err, catalog.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Song not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	obj, err := h.storage.DownloadSong(row.Audio)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Audio file missing from storage"})
		return
	}
	defer obj.Body.Close()

	if seeker, ok := obj.Body.(io.ReadSeeker); ok {
		http.ServeContent(c.Writer, c.Request, row.Name, obj.LastModified, seeker)
		return
	}

	extraHeaders := map[string]string{
		"Cache-Control": "public, max-age=31536000",
		"Accept-Ranges": "none",
	}
	c.DataFromReader(http.StatusOK, obj.ContentLength, obj.ContentType, obj.Body, extraHeaders)
}

// resolveRow swaps the row's storage keys for URLs the browser can load.
func (h *PlayerHandler) resolveRow(row *player.SongRow) error {
	audioURL, err := h.storage.SongURL(row.Audio)
	if err != nil {
		return err
	}
	row.Audio = audioURL

	if row.AlbumArt != "" {
		artURL, err := h.storage.ImageURL(row.AlbumArt)
		if err != nil {
			return err
		}
		row.AlbumArt = artURL
	}
	return nil
}
