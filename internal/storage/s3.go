package storage

import (
	"io"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

type S3Provider struct {
	api *s3.S3
}

func NewS3Provider(sess *session.Session) *S3Provider {
	return &S3Provider{api: s3.New(sess)}
}

func (s *S3Provider) List(bucket, prefix string) ([]string, error) {
	var keys []string
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	}
	err := s.api.ListObjectsV2Pages(input, func(page *s3.ListObjectsV2Output, lastPage bool) bool {
		for _, item := range page.Contents {
			keys = append(keys, *item.Key)
		}
		return true
	})
	return keys, err
}

func (s *S3Provider) Get(bucket, key string) (*FileObject, error) {
	out, err := s.api.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	return &FileObject{
		Body:          out.Body,
		ContentType:   aws.StringValue(out.ContentType),
		ContentLength: aws.Int64Value(out.ContentLength),
		LastModified:  aws.TimeValue(out.LastModified),
	}, nil
}

func (s *S3Provider) Put(bucket, key string, body io.ReadSeeker, contentType, cacheControl string) error {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}
	if cacheControl != "" {
		input.CacheControl = aws.String(cacheControl)
	}
	_, err := s.api.PutObject(input)
	return err
}

func (s *S3Provider) Delete(bucket, key string) error {
	_, err := s.api.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	return err
}

func (s *S3Provider) PresignPut(bucket, key, contentType string, contentLength int64, expiry time.Duration) (string, error) {
	req, _ := s.api.PutObjectRequest(&s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(contentLength),
	})
	return req.Presign(expiry)
}

func (s *S3Provider) PresignGet(bucket, key string, expiry time.Duration) (string, error) {
	req, _ := s.api.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	return req.Presign(expiry)
}
