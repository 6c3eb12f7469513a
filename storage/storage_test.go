package storage

import (
	"testing"

	gcs "cloud.google.com/go/storage"
	"github.com/stretchr/testify/assert"
)

func TestURIs(t *testing.T) {
	assert.Equal(t, "gs://reports/", bucketURI("reports"))
	assert.Equal(t, "gs://reports/2024/march.pdf", blobURI("reports", "2024/march.pdf"))
}

func TestBucketInfo(t *testing.T) {
	got := bucketInfo(&gcs.BucketAttrs{
		Name:         "reports",
		Location:     "US",
		StorageClass: "STANDARD",
		Labels:       map[string]string{"team": "sales"},
	})

	assert.Equal(t, "reports", got.Name)
	assert.Equal(t, "gs://reports/", got.URI)
	assert.Equal(t, "US", got.Location)
	assert.Equal(t, "STANDARD", got.StorageClass)
	assert.Equal(t, "sales", got.Labels["team"])
}
