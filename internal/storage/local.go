package storage

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type LocalProvider struct {
	// RootPath is the directory where buckets are simulated (e.g., "./data")
	RootPath string
	// PublicBase is the URL prefix the API serves RootPath under.
	PublicBase string
}

func NewLocalProvider(root, publicBase string) *LocalProvider {
	// Ensure the root directory exists
	_ = os.MkdirAll(root, 0755)
	return &LocalProvider{RootPath: root, PublicBase: strings.TrimSuffix(publicBase, "/")}
}

func (l *LocalProvider) List(bucket, prefix string) ([]string, error) {
	var keys []string
	bucketPath := filepath.Join(l.RootPath, bucket)

	// We walk the bucket directory to find files
	err := filepath.Walk(bucketPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		// Convert OS path back to S3-style key (forward slashes)
		rel, _ := filepath.Rel(bucketPath, path)
		key := filepath.ToSlash(rel)

		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})

	return keys, err
}

func (l *LocalProvider) Get(bucket, key string) (*FileObject, error) {
	path := filepath.Join(l.RootPath, bucket, key)
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	return &FileObject{
		Body:          f,
		ContentLength: stat.Size(),
		ContentType:   "application/octet-stream", // Local files usually don't store this
		LastModified:  stat.ModTime(),
	}, nil
}

func (l *LocalProvider) Put(bucket, key string, body io.ReadSeeker, contentType, cacheControl string) error {
	path := filepath.Join(l.RootPath, bucket, key)

	// Ensure sub-directories exist (e.g. bucket/folder/file.mp3)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(f, body)
	return err
}

func (l *LocalProvider) Delete(bucket, key string) error {
	return os.Remove(filepath.Join(l.RootPath, bucket, key))
}

// PresignPut for local storage points at the API's own upload route, which
// accepts a raw PUT body. There is nothing to sign.
func (l *LocalProvider) PresignPut(bucket, key, contentType string, contentLength int64, expiry time.Duration) (string, error) {
	return l.PublicBase + "/" + bucket + "/" + key, nil
}

// PresignGet for local storage is a plain static-file URL.
func (l *LocalProvider) PresignGet(bucket, key string, expiry time.Duration) (string, error) {
	return l.PublicBase + "/" + bucket + "/" + key, nil
}
