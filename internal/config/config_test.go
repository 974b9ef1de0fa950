package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, "3000", cfg.AppPort)
	assert.Equal(t, "email_otps", cfg.DynamoTables.EmailOTPs)
	assert.Equal(t, 10, cfg.OTPTTLMinutes)
	assert.Equal(t, 3, cfg.OTPMaxAttempts)
	assert.Equal(t, 60, cfg.OTPCooldownSec)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("OTP_MAX_ATTEMPTS", "5")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")
	cfg := Load()
	assert.Equal(t, 5, cfg.OTPMaxAttempts)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("OTP_TTL_MINUTES", "ten")
	assert.Equal(t, 10, Load().OTPTTLMinutes)
}
