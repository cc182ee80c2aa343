package snapshot

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/infrascope/infragraph/pkg/geojson"
)

// s3Client is the slice of the S3 API the publisher needs; it lets
// tests substitute a recorder for the real client.
type s3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Publisher uploads snapshots for downstream consumers (map tiles,
// analysis notebooks) that read from object storage rather than the
// database.
type S3Publisher struct {
	client s3Client
	bucket string
}

// NewS3Publisher builds a publisher using the ambient AWS credential
// chain.
func NewS3Publisher(ctx context.Context, bucket string) (*S3Publisher, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	return &S3Publisher{client: s3.NewFromConfig(cfg), bucket: bucket}, nil
}

// Publish uploads the feature collection under key. Keys ending in the
// CompressedSuffix are snappy-compressed before upload.
func (p *S3Publisher) Publish(ctx context.Context, key string, fc *geojson.FeatureCollection) error {
	compress := len(key) > len(CompressedSuffix) && key[len(key)-len(CompressedSuffix):] == CompressedSuffix

	data, err := Encode(fc, compress)
	if err != nil {
		return err
	}

	contentType := "application/geo+json"
	if compress {
		contentType = "application/octet-stream"
	}

	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("uploading snapshot %s: %w", key, err)
	}
	return nil
}
