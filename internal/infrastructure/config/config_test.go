package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StoreMongo, cfg.StoreDriver)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL())
	assert.Equal(t, "epic_events", cfg.Mongo.Database)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Notify.Workers)
	assert.Equal(t, 10, cfg.Redis.PoolSize)
	assert.Equal(t, 5*time.Second, cfg.Redis.Timeout)
	assert.Equal(t, DevJWTSecret, cfg.JWTSecret)
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"STORE_DRIVER":    "postgres",
		"TOKEN_TTL_HOURS": "2",
		"REDIS_ADDR":      "redis:6379",
		"ENV":             "production",
		"JWT_SECRET":      "s3cret",
	}))
	require.NoError(t, err)

	assert.Equal(t, StorePostgres, cfg.StoreDriver)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL())
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoad_Rejects(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown driver":       {"STORE_DRIVER": "sqlite"},
		"missing secret":       {"ENV": "production"},
		"missing secret stage": {"ENV": "staging", "STORE_DRIVER": "memory"},
		"empty secret":         {"ENV": "production", "JWT_SECRET": ""},
		"non-positive ttl":     {"TOKEN_TTL_HOURS": "0"},
		"malformed ttl value":  {"TOKEN_TTL_HOURS": "soon"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := load(context.Background(), envconfig.MapLookuper(env))
			require.Error(t, err)
		})
	}
}
