package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/wibisana/berkas/internal/flagx"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. Durations are strings in time.ParseDuration notation
// ("15m", "1h30m").
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files; its fields are copied into the runtime Config.
// Absent fields keep their current values.
type JsonConfig struct {
	HTTPAddr        *string `json:"http_addr"`
	DatabaseDSN     *string `json:"database_dsn"`
	JWTSecret       *string `json:"jwt_secret"`
	ProvisioningKey *string `json:"provisioning_key"`
	S3AccessKey     *string `json:"s3_access_key"`
	S3SecretKey     *string `json:"s3_secret_key"`
	S3Bucket        *string `json:"s3_bucket"`
	S3Region        *string `json:"s3_region"`
	S3BaseEndpoint  *string `json:"s3_base_endpoint"`
	PresignExpiry   *string `json:"presign_expiry"`
	URLCacheSize    *int    `json:"url_cache_size"`
	URLCacheTTL     *string `json:"url_cache_ttl"`
}

// parseJson loads configuration values from a JSON file into the
// provided Config instance.
//
// The file path comes from the -c or -config command-line flags; when
// neither is set, no JSON file is loaded. An unreadable file or invalid
// JSON panics: a half-applied config file must not boot the server.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString := func(src *string, dst *string) {
		if src != nil {
			*dst = *src
		}
	}
	setDuration := func(src *string, dst *time.Duration) {
		if src == nil {
			return
		}
		d, err := time.ParseDuration(*src)
		if err != nil {
			panic(err)
		}
		*dst = d
	}

	setString(c.HTTPAddr, &config.HTTPAddr)
	setString(c.DatabaseDSN, &config.DatabaseDSN)
	setString(c.JWTSecret, &config.JWTSecret)
	setString(c.ProvisioningKey, &config.ProvisioningKey)
	setString(c.S3AccessKey, &config.S3AccessKey)
	setString(c.S3SecretKey, &config.S3SecretKey)
	setString(c.S3Bucket, &config.S3Bucket)
	setString(c.S3Region, &config.S3Region)
	setString(c.S3BaseEndpoint, &config.S3BaseEndpoint)
	setDuration(c.PresignExpiry, &config.PresignExpiry)
	setDuration(c.URLCacheTTL, &config.URLCacheTTL)
	if c.URLCacheSize != nil {
		config.URLCacheSize = *c.URLCacheSize
	}
}
