package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port      string
	MongoURI  string
	MongoDB   string
	JWTSecret string
	TokenTTL  time.Duration
	UploadDir string
	PageSize  int64
	GinMode   string
}

// Load reads the config from environment variables. JWT_SECRET and
// MONGODB_URI are required; everything else has a default.
func Load() (*Config, error) {
	cfg := &Config{
		Port:      getenv("PORT", "8080"),
		MongoURI:  os.Getenv("MONGODB_URI"),
		MongoDB:   getenv("MONGODB_DB", "feedboard"),
		JWTSecret: os.Getenv("JWT_SECRET"),
		TokenTTL:  time.Hour,
		UploadDir: getenv("UPLOAD_DIR", "uploads"),
		PageSize:  2,
		GinMode:   os.Getenv("GIN_MODE"),
	}

	if cfg.JWTSecret == "" || cfg.MongoURI == "" {
		return nil, fmt.Errorf("JWT_SECRET and MONGODB_URI must be set")
	}

	if v := os.Getenv("TOKEN_TTL_MINUTES"); v != "" {
		mins, err := strconv.Atoi(v)
		if err != nil || mins <= 0 {
			return nil, fmt.Errorf("invalid TOKEN_TTL_MINUTES %q", v)
		}
		cfg.TokenTTL = time.Duration(mins) * time.Minute
	}

	if v := os.Getenv("PAGE_SIZE"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid PAGE_SIZE %q", v)
		}
		cfg.PageSize = n
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
