package storage

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"upload-relay-api/internal/config"
	"upload-relay-api/internal/services"
)

// putObjectAPI is the slice of the S3 client the relay needs
type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Target relays uploads to an S3 bucket and returns the public object URL
type S3Target struct {
	client putObjectAPI
	bucket string
	region string
	prefix string
}

// NewS3Target creates an S3 relay target using the default AWS credential chain
func NewS3Target(ctx context.Context, cfg *config.S3Config) (*S3Target, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	return &S3Target{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.Bucket,
		region: cfg.Region,
		prefix: cfg.KeyPrefix,
	}, nil
}

// Upload stores the staged file under a collision-free key
func (t *S3Target) Upload(ctx context.Context, upload *services.StagedUpload) (*services.UploadResult, error) {
	if t.bucket == "" {
		return nil, services.RemoteFailure("s3 bucket is not configured", nil)
	}

	f, err := upload.File.Open()
	if err != nil {
		return nil, services.RemoteFailure("failed to open staged payload", err)
	}
	defer f.Close()

	key := t.prefix + uuid.New().String() + "-" + upload.Filename

	_, err = t.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(t.bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentType:   aws.String(upload.MimeType),
		ContentLength: aws.Int64(upload.File.Size),
	})
	if err != nil {
		return nil, services.RemoteFailure("s3 upload failed", err)
	}

	return &services.UploadResult{
		URL: fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", t.bucket, t.region, key),
		ID:  key,
	}, nil
}
