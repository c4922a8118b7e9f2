package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Niloy28/rhythmflow/internal/metadata"
	"github.com/Niloy28/rhythmflow/internal/storage"
	"github.com/Niloy28/rhythmflow/internal/utils"
)

// UploadHandler backs the dashboard's file workflows: presigning
// browser-direct uploads, pre-filling the song form from embedded tags,
// and a server-side path that stamps tags before storing.
type UploadHandler struct {
	storage *storage.Client
}

func NewUploadHandler(st *storage.Client) *UploadHandler {
	return &UploadHandler{storage: st}
}

type presignRequest struct {
	FileName string `json:"file_name" binding:"required"`
	FileType string `json:"file_type" binding:"required"`
	FileSize int64  `json:"file_size" binding:"required"`
	Kind     string `json:"kind" binding:"required"` // "song" or "image"
}

// Presign returns a short-lived URL the browser PUTs the file to, plus the
// object key to store on the catalog row.
func (h *UploadHandler) Presign(c *gin.Context) {
	var req presignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	ext := strings.ToLower(filepath.Ext(req.FileName))
	key := utils.Sanitize(utils.CleanFilename(req.FileName), "upload") + ext

	var (
		url string
		err error
	)
	switch req.Kind {
	case "song":
		key = "songs/" + key
		url, err = h.storage.PresignSongUpload(key, req.FileType, req.FileSize)
	case "image":
		key = "images/" + key
		url, err = h.storage.PresignImageUpload(key, req.FileType, req.FileSize)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Kind must be song or image"})
		return
	}
	if err != nil {
		slog.Error("presign failed", "key", key, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Storage error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url, "key": key})
}

// Analyze reads the uploaded file in memory and extracts its tags.
// It does NOT upload to storage or touch the DB.
func (h *UploadHandler) Analyze(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to open file"})
		return
	}
	defer file.Close()

	info, err := metadata.Analyze(file)
	if err != nil {
		// Fail gracefully: return just the filename for the form.
		c.JSON(http.StatusOK, gin.H{
			"filename": fileHeader.Filename,
			"title":    utils.CleanFilename(fileHeader.Filename),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"filename": fileHeader.Filename,
		"format":   info.Format,
		"title":    info.Title,
		"artist":   info.Artist,
		"album":    info.Album,
		"year":     info.Year,
	})
}

// UploadDirect stores a song through the server, stamping the form's
// metadata onto the file first. Used where browser-direct PUT is not
// available (local storage provider).
func (h *UploadHandler) UploadDirect(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	meta := map[string]string{
		"TITLE":  c.PostForm("title"),
		"ARTIST": c.PostForm("artist"),
		"ALBUM":  c.PostForm("album"),
		"DATE":   c.PostForm("year"),
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	tempFile, err := os.CreateTemp("", "rhythmflow-upload-*"+ext)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server storage error"})
		return
	}
	defer os.Remove(tempFile.Name())
	defer tempFile.Close()

	uploadedFile, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "File open error"})
		return
	}
	defer uploadedFile.Close()
	io.Copy(tempFile, uploadedFile)
	tempFile.Close() // Close to allow tagging

	switch ext {
	case ".mp3":
		if err := metadata.StampMP3(tempFile.Name(), meta); err != nil {
			slog.Error("failed to tag mp3", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to tag MP3"})
			return
		}
	case ".flac":
		if err := metadata.StampFLAC(tempFile.Name(), meta); err != nil {
			slog.Error("failed to tag flac", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to tag FLAC"})
			return
		}
	}

	finalFile, err := os.Open(tempFile.Name())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read processed file"})
		return
	}
	defer finalFile.Close()

	key := "songs/" + utils.Sanitize(utils.CleanFilename(fileHeader.Filename), "upload") + ext
	contentType := fileHeader.Header.Get("Content-Type")

	if err := h.storage.UploadSong(key, finalFile, contentType); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Storage upload failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "stored", "key": key})
}

// ListSongFiles lets the dashboard browse what's already in the bucket.
func (h *UploadHandler) ListSongFiles(c *gin.Context) {
	keys, err := h.storage.ListSongFiles(c.DefaultQuery("prefix", "songs/"))
	if err != nil {
		slog.Error("song file listing failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Storage error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": keys})
}
