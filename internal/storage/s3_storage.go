package storage

import (
	"context"
	"crypto/sha256"
	"fmt"
	"net/http"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/ivan-cardenas/overlaymaps-backend/pkg/logger"
)

// S3Storage mirrors provider-hosted catalog images into an owned bucket so
// product pages do not hotlink the fulfillment provider's CDN.
type S3Storage struct {
	client     *s3.Client
	httpClient *http.Client
	bucket     string
	baseURL    string
}

func NewS3Storage(region, bucket, accessKeyID, secretAccessKey, baseURL string) *S3Storage {
	var cfg aws.Config
	var err error

	// Prefer explicit credentials; fall back to the default chain
	// (environment, shared config, IAM role).
	if accessKeyID != "" && secretAccessKey != "" {
		cfg = aws.Config{
			Region: region,
			Credentials: credentials.NewStaticCredentialsProvider(
				accessKeyID,
				secretAccessKey,
				"",
			),
		}
	} else {
		cfg, err = awsconfig.LoadDefaultConfig(context.TODO(),
			awsconfig.WithRegion(region),
		)
		if err != nil {
			cfg = aws.Config{Region: region}
		}
	}

	return &S3Storage{
		client:     s3.NewFromConfig(cfg),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		bucket:     bucket,
		baseURL:    baseURL,
	}
}

// MirrorImage downloads sourceURL and stores it under keyPrefix. The key is
// derived from the source URL, so re-mirroring the same image overwrites the
// same object instead of accumulating copies.
func (s *S3Storage) MirrorImage(ctx context.Context, sourceURL, keyPrefix string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build image request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image fetch returned status %d", resp.StatusCode)
	}

	key := s.keyFor(sourceURL, keyPrefix)
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        resp.Body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}

	url := s.fileURL(key)
	logger.Debug("Mirrored catalog image", map[string]interface{}{
		"source": sourceURL,
		"url":    url,
	})
	return url, nil
}

func (s *S3Storage) keyFor(sourceURL, keyPrefix string) string {
	sum := sha256.Sum256([]byte(sourceURL))
	ext := path.Ext(sourceURL)
	if len(ext) > 5 {
		ext = ""
	}
	return fmt.Sprintf("%s/%x%s", keyPrefix, sum[:8], ext)
}

func (s *S3Storage) fileURL(key string) string {
	if s.baseURL != "" {
		return fmt.Sprintf("%s/%s", s.baseURL, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.client.Options().Region, key)
}
