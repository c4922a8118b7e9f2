package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Niloy28/rhythmflow/internal/api/middleware"
	"github.com/Niloy28/rhythmflow/internal/catalog"
	"github.com/Niloy28/rhythmflow/internal/likes"
	"github.com/Niloy28/rhythmflow/internal/models"
	"github.com/Niloy28/rhythmflow/internal/player"
	"github.com/Niloy28/rhythmflow/internal/storage"
)

// CatalogHandler serves the browse views: artists, albums, song lists with
// per-user liked flags and resolved media URLs.
type CatalogHandler struct {
	catalog *catalog.Catalog
	likes   *likes.Service
	storage *storage.Client
}

func NewCatalogHandler(cat *catalog.Catalog, likeSvc *likes.Service, st *storage.Client) *CatalogHandler {
	return &CatalogHandler{catalog: cat, likes: likeSvc, storage: st}
}

type artistView struct {
	models.Artist
	ImageURL string `json:"image_url"`
}

type albumView struct {
	models.Album
	ArtistName string `json:"artist_name"`
	CoverURL   string `json:"cover_url"`
}

func (h *CatalogHandler) GetArtists(c *gin.Context) {
	artists, err := h.catalog.Artists(c.Request.Context())
	if err != nil {
		slog.Error("artist list failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	views := make([]artistView, 0, len(artists))
	for _, a := range artists {
		v := artistView{Artist: a}
		if a.Image != "" {
			v.ImageURL, _ = h.storage.ImageURL(a.Image)
		}
		views = append(views, v)
	}
	c.JSON(http.StatusOK, gin.H{"data": views})
}

func (h *CatalogHandler) GetAlbums(c *gin.Context) {
	albums, err := h.catalog.Albums(c.Request.Context())
	if err != nil {
		slog.Error("album list failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	views := make([]albumView, 0, len(albums))
	for _, a := range albums {
		v := albumView{Album: a, ArtistName: a.Artist.Name}
		if a.Cover != "" {
			v.CoverURL, _ = h.storage.ImageURL(a.Cover)
		}
		views = append(views, v)
	}
	c.JSON(http.StatusOK, gin.H{"data": views})
}

// GetAlbumSongs returns an album's rows, ready to push into the player.
func (h *CatalogHandler) GetAlbumSongs(c *gin.Context) {
	albumID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid album ID"})
		return
	}

	album, err := h.catalog.Album(c.Request.Context(), albumID)
	if errors.Is(err, catalog.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Album not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	liked, ok := h.likedSnapshot(c)
	if !ok {
		return
	}

	rows, err := h.catalog.SongsByAlbum(c.Request.Context(), albumID, liked)
	if err != nil {
		slog.Error("album songs failed", "album_id", albumID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	h.resolveRows(rows)
	v := albumView{Album: *album, ArtistName: album.Artist.Name}
	if album.Cover != "" {
		v.CoverURL, _ = h.storage.ImageURL(album.Cover)
	}
	c.JSON(http.StatusOK, gin.H{"album": v, "data": rows})
}

// GetArtistSongs returns every song across an artist's albums.
func (h *CatalogHandler) GetArtistSongs(c *gin.Context) {
	artistID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid artist ID"})
		return
	}

	artist, err := h.catalog.Artist(c.Request.Context(), artistID)
	if errors.Is(err, catalog.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Artist not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	liked, ok := h.likedSnapshot(c)
	if !ok {
		return
	}

	rows, err := h.catalog.SongsByArtist(c.Request.Context(), artistID, liked)
	if err != nil {
		slog.Error("artist songs failed", "artist_id", artistID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	h.resolveRows(rows)
	v := artistView{Artist: *artist}
	if artist.Image != "" {
		v.ImageURL, _ = h.storage.ImageURL(artist.Image)
	}
	c.JSON(http.StatusOK, gin.H{"artist": v, "data": rows})
}

// GetLikedSongs returns the signed-in user's liked songs view.
func (h *CatalogHandler) GetLikedSongs(c *gin.Context) {
	userID := middleware.UserID(c)

	rows, err := h.catalog.LikedSongs(c.Request.Context(), userID)
	if err != nil {
		slog.Error("liked songs failed", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	h.resolveRows(rows)
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

// SearchSongs backs the library view's search box.
func (h *CatalogHandler) SearchSongs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	term := c.Query("search")

	liked, ok := h.likedSnapshot(c)
	if !ok {
		return
	}

	rows, err := h.catalog.SearchSongs(c.Request.Context(), term, limit, liked)
	if err != nil {
		slog.Error("song search failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	h.resolveRows(rows)
	c.JSON(http.StatusOK, gin.H{"data": rows, "meta": gin.H{"limit": limit, "search": term}})
}

// likedSnapshot reads the user's liked set, or an empty map for anonymous
// visitors. The bool result is false when the response was already written.
func (h *CatalogHandler) likedSnapshot(c *gin.Context) (map[int64]bool, bool) {
	userID := middleware.UserID(c)
	if userID == "" {
		return map[int64]bool{}, true
	}

	liked, err := h.likes.SnapshotFor(c.Request.Context(), userID)
	if err != nil {
		slog.Error("liked snapshot failed", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return nil, false
	}
	return liked, true
}

func (h *CatalogHandler) resolveRows(rows []player.SongRow) {
	for i := range rows {
		if url, err := h.storage.SongURL(rows[i].Audio); err == nil {
			rows[i].Audio = url
		}
		if rows[i].AlbumArt != "" {
			if url, err := h.storage.ImageURL(rows[i].AlbumArt); err == nil {
				rows[i].AlbumArt = url
			}
		}
	}
}
