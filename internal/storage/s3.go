package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	appconfig "github.com/NoteHub-io/notehub/internal/config"
)

// Uploader stores an object and returns its public URL. Handlers depend on
// this interface so tests can swap in a fake.
type Uploader interface {
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) (string, error)
}

// S3Client uploads files to an S3-compatible Spaces bucket.
type S3Client struct {
	client    *s3.Client
	bucket    string
	cdnDomain string // CDN domain for faster downloads
}

// NewS3Client creates a new S3 client configured for DigitalOcean Spaces
func NewS3Client(cfg *appconfig.Config) (*S3Client, error) {
	spaces := cfg.Spaces
	cdnDomain := fmt.Sprintf("https://%s.%s.cdn.digitaloceanspaces.com", spaces.Bucket, spaces.Region)

	customResolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if service == s3.ServiceID {
			return aws.Endpoint{
				URL:           spaces.Endpoint,
				SigningRegion: region,
			}, nil
		}
		return aws.Endpoint{}, fmt.Errorf("unknown endpoint requested")
	})

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithEndpointResolverWithOptions(customResolver),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			spaces.AccessKey, spaces.SecretKey, "",
		)),
		awsconfig.WithRegion(spaces.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true // Required for DigitalOcean Spaces
	})

	return &S3Client{
		client:    client,
		bucket:    spaces.Bucket,
		cdnDomain: cdnDomain,
	}, nil
}

// Upload stores the object publicly readable and returns its CDN URL.
func (s *S3Client) Upload(ctx context.Context, key string, reader io.Reader, contentType string) (string, error) {
	putInput := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        reader,
		ContentType: aws.String(contentType),
		ACL:         types.ObjectCannedACLPublicRead, // Avatars are served directly to browsers
	}

	if _, err := s.client.PutObject(ctx, putInput); err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	return fmt.Sprintf("%s/%s", s.cdnDomain, key), nil
}
