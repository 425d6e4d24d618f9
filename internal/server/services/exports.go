package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rlocatelli9/daily-diet-api/internal/common"
	sc "github.com/rlocatelli9/daily-diet-api/internal/server/config"
	"github.com/rlocatelli9/daily-diet-api/internal/server/models"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// Exporter stores an export document and returns a temporary download URL.
type Exporter interface {
	Upload(ctx context.Context, key string, body []byte) (string, error)
}

// ExportResult locates an uploaded export.
type ExportResult struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// ExportDocument is the JSON body written to object storage.
type ExportDocument struct {
	Owner       string         `json:"owner"`
	GeneratedAt time.Time      `json:"generated_at"`
	Metrics     models.Metrics `json:"metrics"`
	Meals       []*models.Meal `json:"meals"`
}

// ExportKey builds exports/<owner>/<yyyy>/<mm>/<dd>/<uuid>.json.
func ExportKey(owner string, t time.Time) string {
	return fmt.Sprintf("exports/%s/%04d/%02d/%02d/%s.json", owner, t.Year(), int(t.Month()), t.Day(), uuid.New())
}

// Export writes the owner's meals and metrics to object storage.
func (s *MealService) Export(ctx context.Context, owner string) (*ExportResult, error) {
	if err := checkOwner(owner); err != nil {
		return nil, err
	}
	if s.exporter == nil {
		return nil, common.ErrorUnavailable
	}

	list, err := s.List(ctx, owner)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	body, err := json.Marshal(&ExportDocument{
		Owner:       owner,
		GeneratedAt: now,
		Metrics:     ComputeMetrics(list),
		Meals:       list,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	key := ExportKey(owner, now)
	url, err := s.exporter.Upload(ctx, key, body)
	if err != nil {
		s.log.Error(ctx, "export upload failed", "key", key, "err", err)
		return nil, common.ErrorInternal
	}

	s.log.Info(ctx, "meals exported", "key", key, "count", len(list))
	return &ExportResult{Key: key, URL: url}, nil
}

// S3Exporter uploads exports to an S3-compatible bucket (AWS or MinIO) and
// presigns a GET link.
type S3Exporter struct {
	config *sc.Config
}

// NewS3Exporter returns nil when no bucket is configured.
func NewS3Exporter(cfg *sc.Config) *S3Exporter {
	if !cfg.ExportEnabled() {
		return nil
	}
	return &S3Exporter{config: cfg}
}

func (e *S3Exporter) getClient(ctx context.Context) (*s3.Client, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(e.config.S3Region)}
	if e.config.S3AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			e.config.S3AccessKey,
			e.config.S3SecretKey,
			"",
		)))
	}

	cfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if e.config.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(e.config.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	}), nil
}

func (e *S3Exporter) Upload(ctx context.Context, key string, body []byte) (string, error) {
	client, err := e.getClient(ctx)
	if err != nil {
		return "", err
	}

	bucket := e.config.S3Bucket

	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", err
	}

	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(e.config.ExportLinkValidityDuration))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}
