package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/config"
)

func TestPublicURLAndKey(t *testing.T) {
	tests := []struct {
		name    string
		storage *S3Storage
		key     string
		url     string
	}{
		{
			name:    "aws",
			storage: &S3Storage{bucket: "feed-media", region: "eu-west-3"},
			key:     "posts/post_1.png",
			url:     "https://feed-media.s3.eu-west-3.amazonaws.com/posts/post_1.png",
		},
		{
			name:    "custom endpoint",
			storage: &S3Storage{bucket: "feed-media", region: "us-east-1", endpoint: "http://localhost:9000"},
			key:     "posts/post_2.mp4",
			url:     "http://localhost:9000/feed-media/posts/post_2.mp4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.url, tt.storage.PublicURL(tt.key))

			key, ok := tt.storage.KeyFromURL(tt.url)
			assert.True(t, ok)
			assert.Equal(t, tt.key, key)
		})
	}
}

func TestKeyFromForeignURL(t *testing.T) {
	s := &S3Storage{bucket: "feed-media", region: "eu-west-3"}

	_, ok := s.KeyFromURL("https://cdn.example.com/video.mp4")
	assert.False(t, ok)

	_, ok = s.KeyFromURL("https://feed-media.s3.eu-west-3.amazonaws.com/")
	assert.False(t, ok)
}

func TestUploadWrapsErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`<Error><Code>AccessDenied</Code><Message>denied</Message></Error>`))
	}))
	defer srv.Close()

	s, err := NewS3(context.Background(), config.S3Config{
		Region:          "us-east-1",
		Bucket:          "feed-media",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		Endpoint:        srv.URL,
	})
	require.NoError(t, err)

	_, err = s.Upload(context.Background(), strings.NewReader("img"), "a.png", "image/png", "posts")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upload posts/a.png")

	err = s.DeleteURL(context.Background(), s.PublicURL("posts/a.png"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delete posts/a.png")
}
