package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseFlags_Overrides(t *testing.T) {
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })
	os.Args = []string{"testbin",
		"-a", ":9999",
		"-d", "postgres://flag@db/app",
		"-s", "flag-provided-secret-key-long-enough",
		"-t", "24",
		"-r", "240",
		"-w", "10",
	}

	var c Config
	c.LoadDefaults()
	parseFlags(&c)

	assert.Equal(t, ":9999", c.EndpointAddrHTTP)
	assert.Equal(t, "postgres://flag@db/app", c.DatabaseDSN)
	assert.Equal(t, "flag-provided-secret-key-long-enough", c.SecretKey)
	assert.Equal(t, 24*time.Hour, c.AccessTokenValidityDuration)
	assert.Equal(t, 240*time.Hour, c.RefreshTokenValidityDuration)
	assert.Equal(t, 10, c.BcryptCost)
}

func TestParseFlags_NoFlagsKeepDefaults(t *testing.T) {
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })
	os.Args = []string{"testbin"}

	var c Config
	c.LoadDefaults()
	want := c
	parseFlags(&c)

	assert.Equal(t, want, c)
}

func TestParseEnv_Overrides(t *testing.T) {
	t.Setenv("ADDRESS", ":6060")
	t.Setenv("SECRET_KEY", "env-provided-secret-key-long-enough!")
	t.Setenv("ACCESS_TOKEN_VALIDITY", "12h")
	t.Setenv("STORE_TIMEOUT", "500ms")

	var c Config
	c.LoadDefaults()
	parseEnv(&c)

	assert.Equal(t, ":6060", c.EndpointAddrHTTP)
	assert.Equal(t, "env-provided-secret-key-long-enough!", c.SecretKey)
	assert.Equal(t, 12*time.Hour, c.AccessTokenValidityDuration)
	assert.Equal(t, 500*time.Millisecond, c.StoreTimeout)
}

func TestParseEnv_InvalidDurationIgnored(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_VALIDITY", "not-a-duration")

	var c Config
	c.LoadDefaults()
	parseEnv(&c)

	assert.Equal(t, 7*24*time.Hour, c.AccessTokenValidityDuration)
}
