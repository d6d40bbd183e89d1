package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/ikkim/hairable-backend/pkg/logger"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ArchivedReport describes an uploaded report and a time-limited download link.
type ArchivedReport struct {
	Key         string `json:"key"`
	FileURL     string `json:"file_url"`
	DownloadURL string `json:"download_url"`
}

// S3Storage archives exported sales reports.
type S3Storage struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

func NewS3Storage(region, bucket, accessKeyID, secretAccessKey, baseURL string) *S3Storage {
	var cfg aws.Config
	var err error

	// static credentials when given, otherwise the default chain (env, ~/.aws, IAM role)
	if accessKeyID != "" && secretAccessKey != "" {
		cfg = aws.Config{
			Region:      region,
			Credentials: credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, ""),
		}
	} else {
		cfg, err = config.LoadDefaultConfig(context.TODO(), config.WithRegion(region))
		if err != nil {
			cfg = aws.Config{Region: region}
		}
	}

	return &S3Storage{
		client:  s3.NewFromConfig(cfg),
		bucket:  bucket,
		baseURL: baseURL,
	}
}

// ReportKey builds the object key for a store's export, e.g. reports/3/sales-monthly-<uuid>.xlsx
func ReportKey(storeID uint, name string) string {
	return fmt.Sprintf("reports/%d/%s-%s.xlsx", storeID, name, uuid.New().String())
}

// UploadReport stores an xlsx workbook and returns its URLs.
func (s *S3Storage) UploadReport(ctx context.Context, key string, body []byte) (*ArchivedReport, error) {
	logger.Info("Uploading report to S3", map[string]interface{}{
		"bucket": s.bucket,
		"key":    key,
		"size":   len(body),
	})

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(xlsxContentType),
	})
	if err != nil {
		logger.Error("Failed to upload report to S3", err, map[string]interface{}{
			"bucket": s.bucket,
			"key":    key,
		})
		return nil, fmt.Errorf("failed to upload report: %w", err)
	}

	presignClient := s3.NewPresignClient(s.client)
	presigned, err := presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(time.Hour))
	if err != nil {
		return nil, fmt.Errorf("failed to presign report download: %w", err)
	}

	return &ArchivedReport{
		Key:         key,
		FileURL:     s.fileURL(key),
		DownloadURL: presigned.URL,
	}, nil
}

func (s *S3Storage) fileURL(key string) string {
	if s.baseURL != "" {
		return fmt.Sprintf("%s/%s", s.baseURL, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.client.Options().Region, key)
}
