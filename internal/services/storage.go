package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	appConfig "github.com/brendanx22/homeswift-backend/internal/config"
)

// Uploader stores a blob and returns its public URL. Message attachment and
// property image uploads go through this; tests substitute a fake.
type Uploader interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}

// Storage is the active uploader. Set by InitStorage, replaced in tests.
var Storage Uploader

// uploadTimeout bounds a single blob upload so a slow R2 call cannot hang
// a send indefinitely.
const uploadTimeout = 30 * time.Second

type r2Uploader struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

// InitStorage builds the R2-backed uploader from config.
func InitStorage() error {
	cfg := appConfig.AppConfig

	r2Resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2AccountID),
		}, nil
	})

	awsCfg, err := awsConfig.LoadDefaultConfig(context.TODO(),
		awsConfig.WithEndpointResolverWithOptions(r2Resolver),
		awsConfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.R2AccessKeyID, cfg.R2SecretAccessKey, "")),
	)
	if err != nil {
		return err
	}

	publicURL := cfg.R2PublicURL
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.r2.dev", cfg.R2BucketName)
	}

	Storage = &r2Uploader{
		client:    s3.NewFromConfig(awsCfg),
		bucket:    cfg.R2BucketName,
		publicURL: publicURL,
	}
	return nil
}

func (u *r2Uploader) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s/%s", u.publicURL, key), nil
}
