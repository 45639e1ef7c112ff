package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays configuration values from the environment. A .env file in
// the working directory is loaded first (missing file is not an error), then
// process environment variables take precedence over it.
//
// Recognized variables:
//
//	ADDRESS                  HTTP bind address (e.g. ":8080")
//	DATABASE_DSN             PostgreSQL DSN
//	SECRET_KEY               JWT HMAC signing secret
//	ACCESS_TOKEN_VALIDITY    access token lifetime (e.g. "168h")
//	REFRESH_TOKEN_VALIDITY   refresh token lifetime (e.g. "720h")
//	BCRYPT_COST              bcrypt work factor
//	STORE_TIMEOUT            credential store timeout (e.g. "3s")
func parseEnv(config *Config) {
	_ = godotenv.Load()

	if v, ok := os.LookupEnv("ADDRESS"); ok {
		config.EndpointAddrHTTP = v
	}
	if v, ok := os.LookupEnv("DATABASE_DSN"); ok {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("SECRET_KEY"); ok {
		config.SecretKey = v
	}
	if v, ok := os.LookupEnv("ACCESS_TOKEN_VALIDITY"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.AccessTokenValidityDuration = d
		}
	}
	if v, ok := os.LookupEnv("REFRESH_TOKEN_VALIDITY"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.RefreshTokenValidityDuration = d
		}
	}
	if v, ok := os.LookupEnv("BCRYPT_COST"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			config.BcryptCost = n
		}
	}
	if v, ok := os.LookupEnv("STORE_TIMEOUT"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.StoreTimeout = d
		}
	}
}
