// Package storage wraps the GCS operations the agent exposes: bucket
// management and document upload for search data stores.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/kennychae/vertex-ai-search-agent/common/logger"
	"github.com/kennychae/vertex-ai-search-agent/config"
)

// Client wraps a GCS client with the configured defaults.
type Client struct {
	gcs *gcs.Client
	cfg *config.Config
}

func New(ctx context.Context, cfg *config.Config, opts ...option.ClientOption) (*Client, error) {
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client failed, err: %w", err)
	}
	return &Client{gcs: client, cfg: cfg}, nil
}

func (c *Client) Close() error {
	return c.gcs.Close()
}

// BucketInfo is the stable description of one bucket.
type BucketInfo struct {
	Name         string            `json:"name"`
	URI          string            `json:"uri"`
	Location     string            `json:"location,omitempty"`
	StorageClass string            `json:"storage_class,omitempty"`
	Created      time.Time         `json:"created,omitempty"`
	Labels       map[string]string `json:"labels,omitempty"`
}

// BlobInfo describes one object.
type BlobInfo struct {
	Name        string    `json:"name"`
	URI         string    `json:"uri"`
	SizeBytes   int64     `json:"size_bytes"`
	ContentType string    `json:"content_type,omitempty"`
	Updated     time.Time `json:"updated,omitempty"`
}

func bucketURI(bucket string) string {
	return "gs://" + bucket + "/"
}

func blobURI(bucket, object string) string {
	return "gs://" + bucket + "/" + object
}

// CreateBucket creates a bucket with the configured storage class and
// location defaults; explicit non-empty arguments win.
func (c *Client) CreateBucket(ctx context.Context, name, location, storageClass string) (*BucketInfo, error) {
	if name == "" {
		return nil, errors.New("bucket name is required")
	}
	if location == "" {
		location = c.cfg.Storage.DefaultLocation
	}
	if storageClass == "" {
		storageClass = c.cfg.Storage.DefaultStorageClass
	}

	attrs := &gcs.BucketAttrs{
		Location:     location,
		StorageClass: storageClass,
	}
	if err := c.gcs.Bucket(name).Create(ctx, c.cfg.Project.ID, attrs); err != nil {
		return nil, fmt.Errorf("create bucket %q failed, err: %w", name, err)
	}
	logger.Infof("created bucket %s location=%s class=%s", bucketURI(name), location, storageClass)

	return &BucketInfo{
		Name:         name,
		URI:          bucketURI(name),
		Location:     location,
		StorageClass: storageClass,
	}, nil
}

// ListBuckets lists the project's buckets up to the configured maximum.
func (c *Client) ListBuckets(ctx context.Context) ([]BucketInfo, error) {
	max := c.cfg.Storage.ListBucketsMaxResults
	if max <= 0 {
		max = 50
	}

	var buckets []BucketInfo
	it := c.gcs.Buckets(ctx, c.cfg.Project.ID)
	for len(buckets) < max {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list buckets failed, err: %w", err)
		}
		buckets = append(buckets, bucketInfo(attrs))
	}
	return buckets, nil
}

// BucketDetails returns the attributes of one bucket.
func (c *Client) BucketDetails(ctx context.Context, name string) (*BucketInfo, error) {
	attrs, err := c.gcs.Bucket(name).Attrs(ctx)
	if err != nil {
		return nil, fmt.Errorf("get bucket %q failed, err: %w", name, err)
	}
	info := bucketInfo(attrs)
	return &info, nil
}

func bucketInfo(attrs *gcs.BucketAttrs) BucketInfo {
	return BucketInfo{
		Name:         attrs.Name,
		URI:          bucketURI(attrs.Name),
		Location:     attrs.Location,
		StorageClass: attrs.StorageClass,
		Created:      attrs.Created,
		Labels:       attrs.Labels,
	}
}

// Upload streams content into bucket/object. An empty content type falls
// back to the configured default.
func (c *Client) Upload(ctx context.Context, bucket, object string, contentType string, r io.Reader) (*BlobInfo, error) {
	if bucket == "" || object == "" {
		return nil, errors.New("bucket and object names are required")
	}
	if contentType == "" {
		contentType = c.cfg.Storage.DefaultContentType
	}

	w := c.gcs.Bucket(bucket).Object(object).NewWriter(ctx)
	w.ContentType = contentType

	size, err := io.Copy(w, r)
	if err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("upload to %s failed, err: %w", blobURI(bucket, object), err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalize upload to %s failed, err: %w", blobURI(bucket, object), err)
	}
	logger.Infof("uploaded %s (%d bytes, %s)", blobURI(bucket, object), size, contentType)

	return &BlobInfo{
		Name:        object,
		URI:         blobURI(bucket, object),
		SizeBytes:   size,
		ContentType: contentType,
	}, nil
}

// ListBlobs lists objects in the bucket, optionally under a prefix, up to
// the configured maximum.
func (c *Client) ListBlobs(ctx context.Context, bucket, prefix string) ([]BlobInfo, error) {
	if bucket == "" {
		return nil, errors.New("bucket name is required")
	}
	max := c.cfg.Storage.ListBlobsMaxResults
	if max <= 0 {
		max = 100
	}

	var blobs []BlobInfo
	it := c.gcs.Bucket(bucket).Objects(ctx, &gcs.Query{Prefix: prefix})
	for len(blobs) < max {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list objects in %q failed, err: %w", bucket, err)
		}
		blobs = append(blobs, BlobInfo{
			Name:        attrs.Name,
			URI:         blobURI(bucket, attrs.Name),
			SizeBytes:   attrs.Size,
			ContentType: attrs.ContentType,
			Updated:     attrs.Updated,
		})
	}
	return blobs, nil
}
