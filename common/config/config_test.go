package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDatabaseConfig_LoadFromEnv(t *testing.T) {
	t.Setenv("DB_HOST", "db.upa.local")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_USER", "dash")
	t.Setenv("DB_NAME", "dashupa")
	t.Setenv("DB_MAX_CONNS", "not-a-number")

	cfg := DatabaseConfig{Port: 5432, MaxConns: 4, SSLMode: "disable"}
	cfg.LoadFromEnv("DB")

	assert.Equal(t, "db.upa.local", cfg.Host)
	assert.Equal(t, 6543, cfg.Port)
	assert.Equal(t, "dash", cfg.User)
	assert.Equal(t, "dashupa", cfg.Database)
	assert.Equal(t, 4, cfg.MaxConns, "invalid number keeps the previous value")
	assert.Equal(t, "host=db.upa.local port=6543 user=dash password= dbname=dashupa sslmode=disable", cfg.GetDSN())
}

func TestRedisConfig_LoadFromEnv(t *testing.T) {
	t.Setenv("REDIS_ADDR", "cache:6379")
	t.Setenv("REDIS_DB", "3")

	cfg := RedisConfig{Addr: "localhost:6379"}
	cfg.LoadFromEnv("REDIS")

	assert.Equal(t, "cache:6379", cfg.Addr)
	assert.Equal(t, 3, cfg.DB)
	assert.Empty(t, cfg.Password)
}
