package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_DefaultValues(t *testing.T) {
	for _, key := range []string{
		"HTTP_ADDR", "DB_ENABLED", "DB_HOST", "DB_PORT", "REDIS_ENABLED", "REDIS_ADDR",
		"LOG_LEVEL", "DATASET_TTL_MINUTES", "MAX_UPLOAD_MB", "PROFILES_FILE",
		"DEFAULT_SCHEMA", "DEFAULT_SCORING_PROFILE", "DEFAULT_KEYWORD_PROFILE", "TOP_N",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.False(t, cfg.DBEnabled)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "dashupa", cfg.Database.Database)
	assert.False(t, cfg.RedisEnabled)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 120*time.Minute, cfg.Dataset.TTL)
	assert.Equal(t, int64(32), cfg.Dataset.MaxUploadMB)
	assert.Empty(t, cfg.Analysis.ProfilesFile)
	assert.Equal(t, "header", cfg.Analysis.DefaultSchema)
	assert.Equal(t, "resolution-weighted", cfg.Analysis.DefaultScoringProfile)
	assert.Equal(t, "strict", cfg.Analysis.DefaultKeywordProfile)
	assert.Equal(t, 10, cfg.Analysis.TopN)
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("DB_ENABLED", "true")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_ADDR", "cache:6379")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("DATASET_TTL_MINUTES", "15")
	t.Setenv("DEFAULT_SCHEMA", "positional")
	t.Setenv("TOP_N", "not-a-number")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.True(t, cfg.DBEnabled)
	assert.Equal(t, "db", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.True(t, cfg.RedisEnabled)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, 15*time.Minute, cfg.Dataset.TTL)
	assert.Equal(t, "positional", cfg.Analysis.DefaultSchema)
	assert.Equal(t, 10, cfg.Analysis.TopN, "invalid value falls back to default")
}
