package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseExpire(t *testing.T) {
	assert.Equal(t, 720*time.Hour, parseExpire("720h"))
	assert.Equal(t, 90*time.Minute, parseExpire("1h30m"))
	assert.Equal(t, 7*24*time.Hour, parseExpire("7"))
	assert.Equal(t, 7*24*time.Hour, parseExpire("7d"))

	// Fallback on garbage or non-positive values
	assert.Equal(t, 30*24*time.Hour, parseExpire(""))
	assert.Equal(t, 30*24*time.Hour, parseExpire("soon"))
	assert.Equal(t, 30*24*time.Hour, parseExpire("-1h"))
}

func TestParseOrigins(t *testing.T) {
	assert.Nil(t, parseOrigins(""))
	assert.Equal(t, []string{"https://a.example"}, parseOrigins("https://a.example"))
	assert.Equal(t,
		[]string{"https://a.example", "http://localhost:5173"},
		parseOrigins(" https://a.example , http://localhost:5173 ,"))
}

func TestIsProduction(t *testing.T) {
	assert.True(t, (&Config{Environment: "production"}).IsProduction())
	assert.True(t, (&Config{Environment: " Production "}).IsProduction())
	assert.False(t, (&Config{Environment: "development"}).IsProduction())
	assert.False(t, (&Config{}).IsProduction())
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 720*time.Hour, cfg.JWTExpire)
	assert.NotEmpty(t, cfg.AllowedOrigins)
}
