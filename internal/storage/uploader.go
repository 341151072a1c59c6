// Package storage uploads user images (kos photos, avatars, payment
// proofs) to an S3-compatible bucket and returns their public URLs.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/ngekosaja/ngekosaja-api/internal/config"
)

// Folders used as key prefixes.
const (
	FolderKosPhotos = "kos"
	FolderAvatars   = "avatars"
	FolderProofs    = "payment-proofs"
)

var (
	ErrDisabled        = errors.New("file storage is not configured")
	ErrUnsupportedType = errors.New("only jpeg, png and webp images are accepted")
	ErrTooLarge        = errors.New("file is too large")
	ErrEmptyFile       = errors.New("file is empty")
)

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Store saves an object and returns the URL clients should use.
type Store interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}

// PutObjectAPI is the slice of the S3 client the uploader needs.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Uploader struct {
	Client        PutObjectAPI
	Bucket        string
	Region        string
	Endpoint      string
	PublicBaseURL string
}

// NewUploader builds an S3 client from cfg.  Static credentials are used
// when given, otherwise the default AWS chain.  A custom endpoint switches
// to path-style addressing for MinIO and friends.
func NewUploader(ctx context.Context, cfg config.S3Config) (*Uploader, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}
	sdkConfig, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(sdkConfig, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Uploader{
		Client:        client,
		Bucket:        cfg.Bucket,
		Region:        cfg.Region,
		Endpoint:      strings.TrimRight(cfg.Endpoint, "/"),
		PublicBaseURL: cfg.PublicBaseURL,
	}, nil
}

// Put uploads body under key and returns its URL.
func (u *Uploader) Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	_, err := u.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.Bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %w", err)
	}
	return u.URL(key), nil
}

// URL returns the public URL of key.
func (u *Uploader) URL(key string) string {
	switch {
	case u.PublicBaseURL != "":
		return u.PublicBaseURL + "/" + key
	case u.Endpoint != "":
		return fmt.Sprintf("%s/%s/%s", u.Endpoint, u.Bucket, key)
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.Bucket, u.Region, key)
	}
}

// ObjectKey returns folder/<uuid><ext> for an image content type.
func ObjectKey(folder, contentType string) string {
	return path.Join(folder, uuid.NewString()+extensions[contentType])
}

// SaveImage validates an uploaded image and stores it under folder.  The
// content type is sniffed from the bytes, not taken from the client.  A
// nil store yields ErrDisabled.
func SaveImage(ctx context.Context, store Store, folder string, fh *multipart.FileHeader, maxBytes int64) (string, error) {
	if store == nil {
		return "", ErrDisabled
	}
	if fh.Size > maxBytes {
		return "", ErrTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return "", err
	}
	if int64(len(data)) > maxBytes {
		return "", ErrTooLarge
	}
	if len(data) == 0 {
		return "", ErrEmptyFile
	}
	contentType := http.DetectContentType(data)
	if _, ok := extensions[contentType]; !ok {
		return "", ErrUnsupportedType
	}
	return store.Put(ctx, ObjectKey(folder, contentType), bytes.NewReader(data), contentType)
}
