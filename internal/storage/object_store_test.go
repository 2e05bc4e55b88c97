package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidtube/internal/config"
	"vidtube/internal/media/sniffer"
)

func TestParseAssetRef(t *testing.T) {
	ref, err := ParseAssetRef("http://127.0.0.1:9000/vidtube-images/2Nw1qGJz0dQ1bYk0b7y0xXyZabc.png")
	require.NoError(t, err)
	assert.Equal(t, "vidtube-images", ref.Bucket)
	assert.Equal(t, "2Nw1qGJz0dQ1bYk0b7y0xXyZabc.png", ref.Key)
	assert.Equal(t, "2Nw1qGJz0dQ1bYk0b7y0xXyZabc", ref.ID)
	assert.Equal(t, sniffer.KindImage, ref.Kind)

	ref, err = ParseAssetRef("https://cdn.example.com/media/vidtube-videos/abc.mp4")
	require.NoError(t, err)
	assert.Equal(t, "vidtube-videos", ref.Bucket)
	assert.Equal(t, "abc", ref.ID)
	assert.Equal(t, sniffer.KindVideo, ref.Kind)
}

func TestParseAssetRefRejectsMalformed(t *testing.T) {
	for _, raw := range []string{"", "   ", "http://host/", "http://host/only-key.png", "http://host/bucket/"} {
		_, err := ParseAssetRef(raw)
		assert.ErrorIs(t, err, ErrInvalidAssetURL, raw)
	}
}

func TestPublicBaseURL(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com", publicBaseURL("https://cdn.example.com/", "minio:9000", false))
	assert.Equal(t, "http://minio:9000", publicBaseURL("", "minio:9000", false))
	assert.Equal(t, "https://minio:9000", publicBaseURL("", "minio:9000", true))
}

func newTestStore(t *testing.T) *ObjectStore {
	t.Helper()
	store, err := NewObjectStore(config.StorageConfig{
		Endpoint:      "http://127.0.0.1:9000",
		PublicBaseURL: "http://media.local",
		AccessKey:     "key",
		SecretKey:     "secret",
		BucketImages:  "images",
		BucketVideos:  "videos",
	})
	require.NoError(t, err)
	return store
}

func TestURLForRoundTripsThroughParseAssetRef(t *testing.T) {
	store := newTestStore(t)

	ref, err := ParseAssetRef(store.URLFor("videos", "abc.webm"))
	require.NoError(t, err)
	assert.Equal(t, "videos", ref.Bucket)
	assert.Equal(t, "abc.webm", ref.Key)
	assert.Equal(t, "videos", store.bucketFor(ref.Kind))
}

func TestUploadRemovesUnsupportedFile(t *testing.T) {
	store := newTestStore(t)
	local := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(local, []byte("just some text"), 0o600))

	_, err := store.Upload(context.Background(), local)
	assert.ErrorIs(t, err, ErrUnsupportedMedia)

	_, statErr := os.Stat(local)
	assert.True(t, os.IsNotExist(statErr))
}

func TestUploadRejectsEmptyPath(t *testing.T) {
	_, err := newTestStore(t).Upload(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyPath)
}
