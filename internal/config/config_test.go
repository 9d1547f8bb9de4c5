package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("APP_ENV", "dev")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "board-auth", cfg.JWTIssuer)
	assert.Equal(t, "web-frontend", cfg.JWTAudience)
	assert.Equal(t, "board.events", cfg.RabbitExchange)
	assert.Equal(t, 100, cfg.RLLimit)
	assert.Equal(t, time.Minute, cfg.RLWindow)
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("APP_ENV", "dev")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RequiresDSNOutsideDev(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("APP_ENV", "prod")
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/board")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "prod", cfg.AppEnv)
}

func TestGetBool_PanicsOnGarbage(t *testing.T) {
	t.Setenv("SOME_FLAG", "maybe")
	assert.Panics(t, func() { getBool("SOME_FLAG", true) })
}
