package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays BERKAS_* environment variables onto the config. An
// optional .env file in the working directory is loaded first; a missing
// file is not an error. Unset variables leave the current values alone.
func parseEnv(config *Config) {
	_ = godotenv.Load()

	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	setDuration := func(key string, dst *time.Duration) {
		if v, ok := os.LookupEnv(key); ok {
			if d, err := time.ParseDuration(v); err == nil {
				*dst = d
			}
		}
	}

	setString("BERKAS_HTTP_ADDR", &config.HTTPAddr)
	setString("BERKAS_DATABASE_DSN", &config.DatabaseDSN)
	setString("BERKAS_JWT_SECRET", &config.JWTSecret)
	setString("BERKAS_PROVISIONING_KEY", &config.ProvisioningKey)
	setString("BERKAS_S3_ACCESS_KEY", &config.S3AccessKey)
	setString("BERKAS_S3_SECRET_KEY", &config.S3SecretKey)
	setString("BERKAS_S3_BUCKET", &config.S3Bucket)
	setString("BERKAS_S3_REGION", &config.S3Region)
	setString("BERKAS_S3_BASE_ENDPOINT", &config.S3BaseEndpoint)
	setDuration("BERKAS_PRESIGN_EXPIRY", &config.PresignExpiry)
	setDuration("BERKAS_URL_CACHE_TTL", &config.URLCacheTTL)

	if v, ok := os.LookupEnv("BERKAS_URL_CACHE_SIZE"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			config.URLCacheSize = n
		}
	}
}
