package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Niloy28/rhythmflow/internal/catalog"
)

// AdminHandler exposes the dev-mode dashboard's catalog CRUD.
type AdminHandler struct {
	admin *catalog.Admin
}

func NewAdminHandler(admin *catalog.Admin) *AdminHandler {
	return &AdminHandler{admin: admin}
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return 0, false
	}
	return id, true
}

func writeAdminErr(c *gin.Context, err error) {
	if errors.Is(err, catalog.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
}

// --- Artists ---

func (h *AdminHandler) CreateArtist(c *gin.Context) {
	var in catalog.ArtistInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}
	artist, err := h.admin.CreateArtist(c.Request.Context(), in)
	if err != nil {
		writeAdminErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, artist)
}

func (h *AdminHandler) UpdateArtist(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var in catalog.ArtistInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}
	artist, err := h.admin.UpdateArtist(c.Request.Context(), id, in)
	if err != nil {
		writeAdminErr(c, err)
		return
	}
	c.JSON(http.StatusOK, artist)
}

func (h *AdminHandler) DeleteArtist(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.admin.DeleteArtist(c.Request.Context(), id); err != nil {
		writeAdminErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Artist deleted"})
}

// --- Albums ---

func (h *AdminHandler) CreateAlbum(c *gin.Context) {
	var in catalog.AlbumInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}
	album, err := h.admin.CreateAlbum(c.Request.Context(), in)
	if err != nil {
		writeAdminErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, album)
}

func (h *AdminHandler) UpdateAlbum(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var in catalog.AlbumInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}
	album, err := h.admin.UpdateAlbum(c.Request.Context(), id, in)
	if err != nil {
		writeAdminErr(c, err)
		return
	}
	c.JSON(http.StatusOK, album)
}

func (h *AdminHandler) DeleteAlbum(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.admin.DeleteAlbum(c.Request.Context(), id); err != nil {
		writeAdminErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Album deleted"})
}

// --- Songs ---

func (h *AdminHandler) CreateSong(c *gin.Context) {
	var in catalog.SongInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}
	song, err := h.admin.CreateSong(c.Request.Context(), in)
	if err != nil {
		writeAdminErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, song)
}

func (h *AdminHandler) UpdateSong(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var in catalog.SongInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}
	song, err := h.admin.UpdateSong(c.Request.Context(), id, in)
	if err != nil {
		writeAdminErr(c, err)
		return
	}
	c.JSON(http.StatusOK, song)
}

func (h *AdminHandler) DeleteSong(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.admin.DeleteSong(c.Request.Context(), id); err != nil {
		writeAdminErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Song deleted"})
}
