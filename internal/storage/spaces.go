package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"jobboard/internal/config"
	"jobboard/internal/logging"
)

// SpacesStore keeps images in a DigitalOcean Spaces (S3 compatible) bucket
type SpacesStore struct {
	client     s3iface.S3API
	bucketName string
	prefix     string
	publicURL  string
	logger     logging.Logger
}

// NewSpacesStore creates a Spaces backed image store
func NewSpacesStore(cfg *config.Config, logger logging.Logger) (*SpacesStore, error) {
	sc := cfg.DigitalOcean.Spaces
	if sc.AccessKeyID == "" || sc.AccessKeySecret == "" {
		return nil, fmt.Errorf("DigitalOcean Spaces credentials are required")
	}

	endpoint := fmt.Sprintf("https://%s.digitaloceanspaces.com", sc.Region)

	sess, err := session.NewSession(&aws.Config{
		Credentials:      credentials.NewStaticCredentials(sc.AccessKeyID, sc.AccessKeySecret, ""),
		Endpoint:         aws.String(endpoint),
		Region:           aws.String(sc.Region),
		S3ForcePathStyle: aws.Bool(false),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create DigitalOcean Spaces session: %w", err)
	}

	return NewSpacesStoreWithClient(s3.New(sess), cfg, logger), nil
}

// NewSpacesStoreWithClient builds the store around an existing S3 client
func NewSpacesStoreWithClient(client s3iface.S3API, cfg *config.Config, logger logging.Logger) *SpacesStore {
	sc := cfg.DigitalOcean.Spaces
	return &SpacesStore{
		client:     client,
		bucketName: sc.BucketName,
		prefix:     strings.Trim(sc.Prefix, "/"),
		publicURL:  publicBaseURL(sc.CDNEndpoint, sc.BucketURL, sc.BucketName, sc.Region),
		logger:     logger.WithField("component", "storage.spaces"),
	}
}

// publicBaseURL prefers the CDN, then the bucket URL, then the regional default
func publicBaseURL(cdn, bucketURL, bucket, region string) string {
	if cdn != "" {
		return strings.TrimRight(cdn, "/")
	}
	if bucketURL != "" {
		base := strings.TrimRight(bucketURL, "/")
		if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
			base = "https://" + base
		}
		return base
	}
	return fmt.Sprintf("https://%s.%s.digitaloceanspaces.com", bucket, region)
}

func (s *SpacesStore) objectKey(name string) string {
	if s.prefix == "" {
		return name
	}
	return s.prefix + "/" + name
}

func (s *SpacesStore) Save(ctx context.Context, originalName, contentType string, r io.Reader) (string, error) {
	key := s.objectKey(UniqueFileName(originalName))

	body, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("failed to read image: %w", err)
		}
		body = strings.NewReader(string(data))
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
		ACL:         aws.String("public-read"),
	})
	if err != nil {
		s.logger.Error("image upload failed", map[string]interface{}{"object_key": key, "error": err.Error()})
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	s.logger.Info("image uploaded", map[string]interface{}{"object_key": key})
	return s.publicURL + "/" + key, nil
}

// Delete removes the object named by the last path segment of imagePath.
// S3 deletes of absent keys succeed, so a missing image needs no special case.
func (s *SpacesStore) Delete(ctx context.Context, imagePath string) error {
	if imagePath == "" {
		return nil
	}
	key := s.objectKey(path.Base(imagePath))

	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

// IsHealthy checks that the bucket is reachable
func (s *SpacesStore) IsHealthy(ctx context.Context) error {
	_, err := s.client.HeadBucketWithContext(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucketName)})
	return err
}
