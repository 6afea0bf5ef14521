package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"API_PORT", "MONGO_URI", "MONGO_DATABASE", "CORS_ALLOW_ORIGINS", "IMAGE_HOST_URL", "QUOTE_SERVICE_URL"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "clinic_console", cfg.MongoDatabase)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSAllowOrigins)
	assert.Equal(t, "https://api.imgbb.com", cfg.ImageHostURL)
	assert.Equal(t, "https://api.quotable.io", cfg.QuoteServiceURL)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("API_PORT", "9090")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example, https://b.example ,")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowOrigins)
}
