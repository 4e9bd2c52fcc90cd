package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, defaultPort, cfg.Port)
	assert.Equal(t, defaultDatabasePath, cfg.DatabasePath)
	assert.Equal(t, 5*time.Second, cfg.StoreTimeout)
	assert.Equal(t, defaultPhotoAPIBaseURL, cfg.PhotoAPIBaseURL)
	assert.Equal(t, 3, cfg.PhotoAPIMaxRetries)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123")
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_TIMEOUT_MS", "250")
	t.Setenv("PHOTO_API_BASE_URL", "http://photos.local/v1/")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test,")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.StoreTimeout)
	assert.Equal(t, "http://photos.local/v1", cfg.PhotoAPIBaseURL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
}

func TestLoadConfigInvalidIntFallsBack(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123")
	t.Setenv("PHOTO_API_MAX_RETRIES", "lots")
	t.Setenv("COMMENT_PAGE_SIZE", "-4")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, defaultPhotoAPIMaxRetries, cfg.PhotoAPIMaxRetries)
	assert.Equal(t, defaultCommentPageSize, cfg.CommentPageSize)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing secret", env: map[string]string{"JWT_SECRET": ""}},
		{name: "short secret", env: map[string]string{"JWT_SECRET": "short"}},
		{name: "admin without password", env: map[string]string{
			"JWT_SECRET":     "0123456789abcdef0123",
			"ADMIN_USERNAME": "root",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ADMIN_USERNAME", "")
			t.Setenv("ADMIN_PASSWORD", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}
