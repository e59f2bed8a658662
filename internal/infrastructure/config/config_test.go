package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSQLiteDefaults(t *testing.T) {
	t.Setenv("ENV_TYPE", "LOCAL")
	t.Setenv("LOCAL_DB_DRIVER", "sqlite")
	t.Setenv("LOCAL_DB_PATH", "test.db")
	t.Setenv("JWT_SECRET_KEY", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "LOCAL", cfg.EnvType)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "test.db", cfg.GetDSN())
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "memory", cfg.BlobDriver)
	assert.Equal(t, int64(5<<20), cfg.MaxUploadBytes())
}

func TestLoadServerPrefix(t *testing.T) {
	t.Setenv("ENV_TYPE", "server")
	t.Setenv("SERVER_DB_DRIVER", "mysql")
	t.Setenv("SERVER_DB_USER", "bps")
	t.Setenv("SERVER_DB_PASSWORD", "pw")
	t.Setenv("SERVER_DB_HOST", "db")
	t.Setenv("SERVER_DB_PORT", "3307")
	t.Setenv("SERVER_DB_NAME", "caridad")
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("SESSION_TTL", "30m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "SERVER", cfg.EnvType)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Contains(t, cfg.GetDSN(), "bps:pw@tcp(db:3307)/caridad")
}

func TestLoadRejectsMissingSecret(t *testing.T) {
	t.Setenv("LOCAL_DB_DRIVER", "sqlite")
	t.Setenv("JWT_SECRET_KEY", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsS3WithoutBucket(t *testing.T) {
	t.Setenv("LOCAL_DB_DRIVER", "sqlite")
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("BLOB_DRIVER", "s3")
	t.Setenv("BLOB_S3_BUCKET", "")

	_, err := Load()
	assert.ErrorContains(t, err, "BLOB_S3_BUCKET")
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{DBDriver: "postgres", DBHost: "pg", DBUser: "u", DBPassword: "p", DBName: "n", DBPort: "5432"}
	assert.Equal(t, "host=pg user=u password=p dbname=n port=5432 sslmode=disable TimeZone=Asia/Manila", cfg.GetDSN())
}
