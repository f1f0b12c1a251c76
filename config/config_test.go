package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(values map[string]any) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestDefaults(t *testing.T) {
	cfg, err := fromViper(newViper(nil))
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, TransportSMTP, cfg.Mail.Transport)
	assert.Equal(t, 587, cfg.Mail.Port)
	assert.False(t, cfg.Mail.ImplicitTLS())
	assert.Nil(t, cfg.Mail.Secure)
	assert.Equal(t, 15*time.Second, cfg.Mail.Timeout)
	assert.Equal(t, DefaultAllowedOrigins, cfg.AllowedOrigins)
	assert.Equal(t, 5, cfg.RateLimitFormLimit)
	assert.Equal(t, 60, cfg.RateLimitWindowSeconds)
	assert.False(t, cfg.IsProduction())
}

func TestMailSettings(t *testing.T) {
	t.Run("Should use implicit TLS on port 465", func(t *testing.T) {
		cfg, err := fromViper(newViper(map[string]any{"SMTP_ADMIN_PORT": "465"}))
		require.NoError(t, err)
		assert.True(t, cfg.Mail.ImplicitTLS())
	})

	t.Run("Should honour an explicit secure flag", func(t *testing.T) {
		cfg, err := fromViper(newViper(map[string]any{"SMTP_ADMIN_PORT": "465", "SMTP_ADMIN_SECURE": "false"}))
		require.NoError(t, err)
		require.NotNil(t, cfg.Mail.Secure)
		assert.False(t, cfg.Mail.ImplicitTLS())
	})

	t.Run("Should reject a non-numeric port", func(t *testing.T) {
		_, err := fromViper(newViper(map[string]any{"SMTP_ADMIN_PORT": "smtp"}))
		assert.ErrorContains(t, err, "SMTP_ADMIN_PORT")
	})

	t.Run("Should default the sender to the relay login", func(t *testing.T) {
		cfg, err := fromViper(newViper(map[string]any{"SMTP_ADMIN_USER": "relay@example.com"}))
		require.NoError(t, err)
		assert.Equal(t, "relay@example.com", cfg.Mail.FromEmail)
	})
}

func TestMissing(t *testing.T) {
	t.Run("Should list missing SMTP settings", func(t *testing.T) {
		cfg, err := fromViper(newViper(map[string]any{"SMTP_ADMIN_HOST": "smtp.example.com"}))
		require.NoError(t, err)
		assert.Equal(t, []string{"SMTP_ADMIN_USER", "SMTP_ADMIN_PASS", "ADMIN_RECEIVER_EMAIL"}, cfg.MailMissing())
	})

	t.Run("Should list missing ZeptoMail settings", func(t *testing.T) {
		cfg, err := fromViper(newViper(map[string]any{
			"MAIL_TRANSPORT":       "ZeptoMail",
			"SMTP_FROM_EMAIL":      "noreply@example.com",
			"ADMIN_RECEIVER_EMAIL": "admin@example.com",
		}))
		require.NoError(t, err)
		assert.Equal(t, []string{"ZEPTO_API_KEY"}, cfg.MailMissing())
	})

	t.Run("Should list missing PayFast settings sorted", func(t *testing.T) {
		cfg, err := fromViper(newViper(map[string]any{"PAYFAST_MERCHANT_ID": "10000100"}))
		require.NoError(t, err)
		assert.Equal(t, []string{
			"PAYFAST_CANCEL_URL", "PAYFAST_MERCHANT_KEY", "PAYFAST_NOTIFY_URL", "PAYFAST_RETURN_URL",
		}, cfg.PayFastMissing())
	})
}

func TestParseOrigins(t *testing.T) {
	assert.Nil(t, parseOrigins(""))
	assert.Equal(t,
		[]string{"https://a.example", "http://localhost:8080"},
		parseOrigins(" https://a.example/ , ,http://localhost:8080"),
	)
}
