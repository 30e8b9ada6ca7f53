package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/khanghh/photoshare/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	filename := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(filename, []byte(content), 0o644))
	return filename
}

func TestLoadConfigDefaults(t *testing.T) {
	filename := writeConfig(t, `
token:
  secretKey: s3cr3t
`)
	config, err := LoadConfig(filename)
	require.NoError(t, err)

	assert.Equal(t, DefaultListenAddr, config.ListenAddr)
	assert.Equal(t, "HS256", config.Token.Algorithm)
	assert.Equal(t, params.DefaultAccessTokenTTL, config.Token.AccessTTL)
	assert.Equal(t, params.DefaultRefreshTokenTTL, config.Token.RefreshTTL)
	assert.Equal(t, "sqlite", config.Database.Driver)
	assert.Equal(t, DefaultDatabaseDsn, config.Database.Dsn)
	assert.Equal(t, DefaultKafkaTopic, config.Kafka.Topic)
	assert.Empty(t, config.Kafka.Brokers)
}

func TestLoadConfigValues(t *testing.T) {
	filename := writeConfig(t, `
listenAddr: ":8080"
allowOrigins: ["http://localhost:5173"]
token:
  secretKey: s3cr3t
  algorithm: hs512
  accessTTL: 15m
  refreshTTL: 48h
database:
  driver: mysql
  dsn: "user:pass@tcp(localhost:3306)/photoshare?parseTime=true"
  replicas: ["user:pass@tcp(replica:3306)/photoshare?parseTime=true"]
redis:
  url: "redis://localhost:6379/0"
kafka:
  brokers: ["localhost:9092"]
`)
	config, err := LoadConfig(filename)
	require.NoError(t, err)

	assert.Equal(t, ":8080", config.ListenAddr)
	assert.Equal(t, []string{"http://localhost:5173"}, config.AllowOrigins)
	assert.Equal(t, "HS512", config.Token.Algorithm)
	assert.Equal(t, 15*time.Minute, config.Token.AccessTTL)
	assert.Equal(t, 48*time.Hour, config.Token.RefreshTTL)
	assert.Equal(t, "mysql", config.Database.Driver)
	assert.Len(t, config.Database.Replicas, 1)
	assert.Equal(t, "redis://localhost:6379/0", config.Redis.URL)
	assert.Equal(t, []string{"localhost:9092"}, config.Kafka.Brokers)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	filename := writeConfig(t, `
token:
  secretKey: from-file
`)
	t.Setenv("TOKEN_SECRETKEY", "from-env")

	config, err := LoadConfig(filename)
	require.NoError(t, err)
	assert.Equal(t, "from-env", config.Token.SecretKey)
}

func TestSanitizeRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		err    error
	}{
		{name: "missing secret", config: Config{}, err: ErrMissingSecretKey},
		{name: "asymmetric algorithm", config: Config{Token: TokenConfig{SecretKey: "k", Algorithm: "RS256"}}, err: ErrUnsupportedAlgorithm},
		{name: "negative ttl", config: Config{Token: TokenConfig{SecretKey: "k", AccessTTL: -time.Minute}}, err: ErrInvalidTokenTTL},
		{name: "unknown driver", config: Config{Token: TokenConfig{SecretKey: "k"}, Database: DatabaseConfig{Driver: "oracle"}}, err: ErrUnsupportedDriver},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Sanitize()
			assert.ErrorIs(t, err, tt.err)
		})
	}
}
