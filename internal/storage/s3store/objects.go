// Package s3store reads and writes whole objects in an S3 bucket.
package s3store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"pig-logistics/internal/storage"
)

// API is the subset of the S3 client used here.
type API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Location is a bucket and key pair.
type Location struct {
	Bucket string
	Key    string
}

// String returns the s3:// URI of the location.
func (l Location) String() string {
	return "s3://" + l.Bucket + "/" + l.Key
}

// Join returns a location for name under l's key prefix.
func (l Location) Join(name string) Location {
	key := strings.TrimSuffix(l.Key, "/")
	if key != "" {
		key += "/"
	}
	return Location{Bucket: l.Bucket, Key: key + name}
}

// ParseURI parses "s3://bucket/key".
func ParseURI(uri string) (Location, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return Location{}, fmt.Errorf("parse s3 uri: %w", err)
	}
	if u.Scheme != "s3" || u.Host == "" {
		return Location{}, fmt.Errorf("parse s3 uri %q: %w", uri, storage.ErrInvalidInput)
	}
	return Location{Bucket: u.Host, Key: strings.TrimPrefix(u.Path, "/")}, nil
}

// ObjectStore reads and writes objects through an S3 client.
type ObjectStore struct {
	client API
}

// NewObjectStore wraps an existing client.
func NewObjectStore(client API) *ObjectStore {
	return &ObjectStore{client: client}
}

// NewObjectStoreFromEnv builds a client from the default AWS config chain.
func NewObjectStoreFromEnv(ctx context.Context, region string) (*ObjectStore, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &ObjectStore{client: s3.NewFromConfig(cfg)}, nil
}

// Get returns the full object body. Returns storage.ErrNotFound for a missing key.
func (o *ObjectStore) Get(ctx context.Context, loc Location) ([]byte, error) {
	out, err := o.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(loc.Bucket),
		Key:    aws.String(loc.Key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("get %s: %w", loc, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("get %s: %w", loc, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", loc, err)
	}
	return data, nil
}

// Put uploads data as the object at loc.
func (o *ObjectStore) Put(ctx context.Context, loc Location, data []byte, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(loc.Bucket),
		Key:    aws.String(loc.Key),
		Body:   bytes.NewReader(data),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := o.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("put %s: %w", loc, err)
	}
	return nil
}
