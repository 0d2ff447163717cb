// internal/services/storage_service.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/catalog-backend/internal/config"
)

const productImageFolder = "products"

// LocalUploadRoute is where uploads stored on local disk are served from.
const LocalUploadRoute = "/uploads"

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

var ErrInvalidImage = fmt.Errorf("%w: unsupported image", ErrValidation)

// StorageService stores product images on S3, or on local disk when no AWS
// credentials are configured.
type StorageService struct {
	s3Client *s3.S3
	config   config.AWSConfig
}

type UploadResult struct {
	URL      string `json:"url"`
	Key      string `json:"key"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
}

func NewStorageService(cfg config.AWSConfig) (*StorageService, error) {
	if cfg.AccessKeyID == "" {
		if err := os.MkdirAll(cfg.LocalUploadDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create upload directory: %w", err)
		}
		logrus.WithField("dir", cfg.LocalUploadDir).Info("S3 not configured, storing uploads locally")
		return &StorageService{config: cfg}, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &StorageService{
		s3Client: s3.New(sess),
		config:   cfg,
	}, nil
}

// UploadProductImage stores an image and returns the URL to put in a
// product's image_url. The content type is sniffed from the bytes; the
// client-supplied name and header are not trusted.
func (s *StorageService) UploadProductImage(ctx context.Context, r io.Reader, size int64) (*UploadResult, error) {
	if s.config.MaxImageSize > 0 && size > s.config.MaxImageSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrInvalidImage, size, s.config.MaxImageSize)
	}

	limit := s.config.MaxImageSize
	if limit <= 0 {
		limit = size
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: exceeds limit of %d bytes", ErrInvalidImage, limit)
	}

	mimeType := http.DetectContentType(data)
	ext, ok := allowedImageTypes[mimeType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidImage, mimeType)
	}

	key := path.Join(productImageFolder, fmt.Sprintf("%s_%s%s", time.Now().UTC().Format("20060102"), uuid.NewString(), ext))

	if s.s3Client != nil {
		return s.uploadToS3(ctx, data, key, mimeType)
	}
	return s.uploadToLocal(data, key, mimeType)
}

func (s *StorageService) uploadToS3(ctx context.Context, data []byte, key, contentType string) (*UploadResult, error) {
	_, err := s.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.config.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
		ACL:           aws.String("public-read"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &UploadResult{
		URL:      s.s3URL(key),
		Key:      key,
		Size:     int64(len(data)),
		MimeType: contentType,
	}, nil
}

func (s *StorageService) uploadToLocal(data []byte, key, contentType string) (*UploadResult, error) {
	dest := filepath.Join(s.config.LocalUploadDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write upload: %w", err)
	}

	return &UploadResult{
		URL:      LocalUploadRoute + "/" + key,
		Key:      key,
		Size:     int64(len(data)),
		MimeType: contentType,
	}, nil
}

func (s *StorageService) DeleteImage(ctx context.Context, key string) error {
	if s.s3Client == nil {
		dest := filepath.Join(s.config.LocalUploadDir, filepath.FromSlash(key))
		if err := os.Remove(dest); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete upload: %w", err)
		}
		return nil
	}

	_, err := s.s3Client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.config.S3Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete image from S3: %w", err)
	}
	return nil
}

func (s *StorageService) s3URL(key string) string {
	if s.config.CloudFrontURL != "" {
		return fmt.Sprintf("%s/%s", strings.TrimRight(s.config.CloudFrontURL, "/"), key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.config.S3Bucket, s.config.Region, key)
}
