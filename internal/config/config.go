package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	Port             string
	MongoURI         string
	MongoDatabase    string
	CORSAllowOrigins []string
	ImageHostURL     string
	ImageHostKey     string
	QuoteServiceURL  string
}

// Load reads configuration from the environment with sensible defaults,
// best-effort loading a local .env first.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables.")
	}

	if os.Getenv("JWT_SECRET") == "" {
		log.Println("JWT_SECRET is NOT SET.")
	}

	return Config{
		Port:             getEnv("API_PORT", "8080"),
		MongoURI:         getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:    getEnv("MONGO_DATABASE", "clinic_console"),
		CORSAllowOrigins: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		ImageHostURL:     getEnv("IMAGE_HOST_URL", "https://api.imgbb.com"),
		ImageHostKey:     getEnv("IMAGE_HOST_API_KEY", ""),
		QuoteServiceURL:  getEnv("QUOTE_SERVICE_URL", "https://api.quotable.io"),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
