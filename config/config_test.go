package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 30*time.Minute, cfg.AccessTTL)
	assert.Equal(t, "https://pokeapi.co/api/v2", cfg.PokeAPIBaseURL)
	assert.Equal(t, 10*time.Second, cfg.PokeAPITimeout)
	assert.False(t, cfg.MailSendEnabled)
	assert.Empty(t, cfg.ESAddrs())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("API_POKEMON", "http://localhost:8081/api/v2")
	t.Setenv("POKEAPI_TIMEOUT", "2s")
	t.Setenv("DB_MAX_CONNS", "25")
	t.Setenv("MAIL_SEND_ENABLED", "true")
	t.Setenv("ELASTICSEARCH_ADDRS", "http://es1:9200, http://es2:9200")

	cfg := Load()
	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, "http://localhost:8081/api/v2", cfg.PokeAPIBaseURL)
	assert.Equal(t, 2*time.Second, cfg.PokeAPITimeout)
	assert.Equal(t, int32(25), cfg.DBMaxConns)
	assert.True(t, cfg.MailSendEnabled)
	assert.Equal(t, []string{"http://es1:9200", "http://es2:9200"}, cfg.ESAddrs())
}

func TestLoadBadValuesFallBack(t *testing.T) {
	t.Setenv("DB_MAX_CONNS", "lots")
	t.Setenv("POKEAPI_TIMEOUT", "soon")
	t.Setenv("MAIL_SEND_ENABLED", "yep")

	cfg := Load()
	assert.Equal(t, int32(10), cfg.DBMaxConns)
	assert.Equal(t, 10*time.Second, cfg.PokeAPITimeout)
	assert.False(t, cfg.MailSendEnabled)
}

func TestPostgresDSN(t *testing.T) {
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "users")

	cfg := Load()
	assert.Equal(t, "postgres://app:secret@db:5432/users?sslmode=disable", cfg.PostgresDSN())
}
