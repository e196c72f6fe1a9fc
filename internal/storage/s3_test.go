//go:build integration

package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/covalentlabs/webquill/internal/domain"
	"github.com/covalentlabs/webquill/internal/service"
	"github.com/covalentlabs/webquill/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestS3Client_ArchiveSnapshot(t *testing.T) {
	ctx := context.Background()
	rc := testutil.NewRustFSContainer(ctx, t)
	defer rc.Terminate(ctx)

	client, err := NewS3Client(ctx, S3ClientConfig{
		Endpoint:        rc.Endpoint(),
		Region:          "us-east-1",
		AccessKeyID:     "rustfsadmin",
		SecretAccessKey: "rustfsadmin",
		Bucket:          "webquill-snapshots",
		UsePathStyle:    true,
	})
	require.NoError(t, err)
	require.NoError(t, client.EnsureBucket(ctx))

	key, err := client.ArchiveSnapshot(ctx, service.Snapshot{
		WebsiteURL: "https://example.com",
		CreatedAt:  time.Now().UTC(),
		PageCount:  1,
		Pages: []domain.Page{
			{URL: "https://example.com/", Title: "Home", Text: "welcome"},
		},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "snapshots/"))
	assert.True(t, strings.HasSuffix(key, ".json"))

	require.NoError(t, client.DeleteObject(ctx, key))
}
