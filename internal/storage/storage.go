package storage

import (
	"io"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"

	"github.com/Niloy28/rhythmflow/internal/config"
)

// Client wraps a storage backend with the two buckets this app uses:
// audio files and artwork images. Uploads go browser-direct through
// presigned PUT URLs; deletes happen server-side when catalog rows change.
type Client struct {
	backend      StorageProvider
	bucketSongs  string
	bucketImages string

	cache      map[string][]string
	cacheTime  map[string]time.Time
	cacheMutex sync.RWMutex
}

const CacheTTL = 1 * time.Hour

// UploadURLExpiry bounds how long a presigned upload stays valid.
const UploadURLExpiry = 120 * time.Second

// MediaURLExpiry bounds presigned GET links handed to the player.
const MediaURLExpiry = 12 * time.Hour

func New(cfg *config.Config) *Client {
	var backend StorageProvider

	if cfg.Storage.Provider == "local" {
		backend = NewLocalProvider(cfg.Storage.LocalRoot, cfg.Storage.PublicBase)
	} else {
		s3Config := &aws.Config{
			Credentials:      credentials.NewStaticCredentials(cfg.Storage.KeyID, cfg.Storage.AppKey, ""),
			Endpoint:         aws.String(cfg.Storage.Endpoint),
			Region:           aws.String(cfg.Storage.Region),
			S3ForcePathStyle: aws.Bool(true),
		}
		sess := session.Must(session.NewSession(s3Config))
		backend = NewS3Provider(sess)
	}

	return &Client{
		backend:      backend,
		bucketSongs:  cfg.Storage.BucketSongs,
		bucketImages: cfg.Storage.BucketImages,
		cache:        make(map[string][]string),
		cacheTime:    make(map[string]time.Time),
	}
}

// --- Delivery ---

// SongURL returns a link the <audio> element can play directly.
func (c *Client) SongURL(key string) (string, error) {
	return c.backend.PresignGet(c.bucketSongs, key, MediaURLExpiry)
}

// ImageURL returns a link for album art or artist portraits.
func (c *Client) ImageURL(key string) (string, error) {
	return c.backend.PresignGet(c.bucketImages, key, MediaURLExpiry)
}

func (c *Client) DownloadSong(key string) (*FileObject, error) {
	return c.backend.Get(c.bucketSongs, key)
}

// --- Dashboard uploads ---

func (c *Client) PresignSongUpload(key, contentType string, contentLength int64) (string, error) {
	return c.backend.PresignPut(c.bucketSongs, key, contentType, contentLength, UploadURLExpiry)
}

func (c *Client) PresignImageUpload(key, contentType string, contentLength int64) (string, error) {
	return c.backend.PresignPut(c.bucketImages, key, contentType, contentLength, UploadURLExpiry)
}

func (c *Client) UploadSong(key string, body io.ReadSeeker, contentType string) error {
	return c.backend.Put(c.bucketSongs, key, body, contentType, "")
}

func (c *Client) DeleteSongObject(key string) error {
	return c.backend.Delete(c.bucketSongs, key)
}

func (c *Client) DeleteImageObject(key string) error {
	return c.backend.Delete(c.bucketImages, key)
}

// --- Listings (dashboard file browser) ---

// ListSongFiles returns audio object keys under prefix, cached with a TTL
// so the dashboard can poll without hammering the bucket.
func (c *Client) ListSongFiles(prefix string) ([]string, error) {
	c.cacheMutex.RLock()
	files, ok := c.cache[prefix]
	ts := c.cacheTime[prefix]
	c.cacheMutex.RUnlock()

	if ok && time.Since(ts) < CacheTTL {
		return files, nil
	}

	keys, err := c.backend.List(c.bucketSongs, prefix)
	if err != nil {
		return nil, err
	}

	var audioKeys []string
	for _, key := range keys {
		if strings.HasSuffix(key, ".mp3") || strings.HasSuffix(key, ".flac") {
			audioKeys = append(audioKeys, key)
		}
	}

	c.cacheMutex.Lock()
	c.cache[prefix] = audioKeys
	c.cacheTime[prefix] = time.Now()
	c.cacheMutex.Unlock()

	return audioKeys, nil
}
