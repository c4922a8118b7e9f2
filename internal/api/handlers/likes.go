package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Niloy28/rhythmflow/internal/api/middleware"
	"github.com/Niloy28/rhythmflow/internal/likes"
	"github.com/Niloy28/rhythmflow/internal/player"
)

// LikeHandler runs the like-toggle flow: optimistic per-song state plus
// propagation into the session's player store when the toggled song is the
// one currently playing.
type LikeHandler struct {
	sessions     *player.SessionManager
	likes        *likes.Service
	cookieMaxAge int
}

func NewLikeHandler(sessions *player.SessionManager, likeSvc *likes.Service, cookieMaxAge int) *LikeHandler {
	return &LikeHandler{sessions: sessions, likes: likeSvc, cookieMaxAge: cookieMaxAge}
}

// Like marks a song liked for the current user. Already-liked songs are a
// no-op: no duplicate row, no second service call.
func (h *LikeHandler) Like(c *gin.Context) {
	h.toggle(c, true)
}

// Unlike removes the current user's like. Never-liked songs are a no-op.
func (h *LikeHandler) Unlike(c *gin.Context) {
	h.toggle(c, false)
}

func (h *LikeHandler) toggle(c *gin.Context, wantLiked bool) {
	songID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || songID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid song ID"})
		return
	}

	userID := middleware.UserID(c)

	current, err := h.likes.IsLiked(c.Request.Context(), userID, songID)
	if err != nil {
		slog.Error("like lookup failed", "song_id", songID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	jar := newJar(c, h.cookieMaxAge)
	store := h.sessions.Attach(jar)

	cell, err := player.NewLikeCell(store, jar, h.likes, userID, songID, current)
	if errors.Is(err, player.ErrMissingSongID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid song ID"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer cell.Close()

	// Toggle only on an actual transition; repeating the same action is
	// idempotent end to end.
	if cell.Liked() != wantLiked {
		cell.Toggle(c.Request.Context())
		if wantLiked {
			songLikes.WithLabelValues("like").Inc()
		} else {
			songLikes.WithLabelValues("unlike").Inc()
		}
	}

	c.JSON(http.StatusOK, gin.H{"song_id": songID, "liked": wantLiked})
}
