package blob_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"supplierhub/internal/blob"
	"supplierhub/internal/config"

	"github.com/stretchr/testify/require"
)

func TestAttachmentKey(t *testing.T) {
	now := time.UnixMilli(1718000000123)
	require.Equal(t, "rfq-1/1718000000123.pdf", blob.AttachmentKey("rfq-1", "Tech Pack.PDF", now))
	require.Equal(t, "rfq-1/1718000000123", blob.AttachmentKey("rfq-1", "README", now))
}

func TestExportKey(t *testing.T) {
	require.Equal(t, "exports/factories.csv", blob.ExportKey("factories.csv"))
	require.Equal(t, "exports/passwd", blob.ExportKey("../../etc/passwd"))
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	m := blob.NewMemory("http://files.local/")

	url, err := m.Put(ctx, "rfq-1/1.png", strings.NewReader("img"), 3, "image/png")
	require.NoError(t, err)
	require.Equal(t, "http://files.local/rfq-1/1.png", url)

	data, ok := m.Get("rfq-1/1.png")
	require.True(t, ok)
	require.Equal(t, "img", string(data))

	require.NoError(t, m.Remove(ctx, "rfq-1/1.png"))
	require.ErrorIs(t, m.Remove(ctx, "rfq-1/1.png"), blob.ErrNotFound)
}

func TestNewMinIO(t *testing.T) {
	_, err := blob.NewMinIO(config.MinIOConfig{
		Endpoint:  "localhost:9000",
		AccessKey: "minio",
		SecretKey: "minio123",
		Bucket:    "rfq-attachments",
	})
	require.NoError(t, err)
}
