package config

import (
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultAllowedOrigins are the site origins allowed to call the API when
// ALLOWED_ORIGINS is not set.
var DefaultAllowedOrigins = []string{
	"https://brittlebones.co.za",
	"https://brittlebones.devtechinnovations.co.za",
	"http://localhost:8080",
}

type Config struct {
	Port           string
	Environment    string // GIN_MODE: debug, release, test
	LogLevel       string
	AllowedOrigins []string
	StrictConfig   bool

	// Organisation branding used in outbound email
	OrgName    string
	OrgSiteURL string
	OrgLogoURL string

	Mail    MailConfig
	PayFast PayFastConfig

	// Redis is optional; rate limiting falls back to memory without it
	RedisURL      string
	RedisPassword string

	// Rate limiting for public POST routes
	RateLimitFormLimit     int
	RateLimitWindowSeconds int
}

// MailConfig describes the outbound mail relay.
type MailConfig struct {
	Transport     string // "smtp" or "zeptomail"
	Host          string
	Port          int
	Username      string
	Password      string
	FromEmail     string
	AdminEmail    string
	Secure        *bool // explicit implicit-TLS override; nil means decide by port
	TLSSkipVerify bool
	Timeout       time.Duration

	ZeptoAPIURL string
	ZeptoAPIKey string
}

// PayFastConfig holds the merchant settings for hosted payment redirects.
type PayFastConfig struct {
	MerchantID  string
	MerchantKey string
	ReturnURL   string
	CancelURL   string
	NotifyURL   string
	Passphrase  string
	Sandbox     bool
}

const (
	TransportSMTP      = "smtp"
	TransportZeptoMail = "zeptomail"
)

func LoadConfig() (*Config, error) {
	// .env is optional; production reads the real environment
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "5000")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ORG_NAME", "Brittle Bones SA")
	v.SetDefault("ORG_SITE_URL", "https://brittlebones-sa.org.za/")
	v.SetDefault("ORG_LOGO_URL", "https://iili.io/KID11bj.png")
	v.SetDefault("MAIL_TRANSPORT", TransportSMTP)
	v.SetDefault("SMTP_ADMIN_PORT", "587")
	v.SetDefault("MAIL_TIMEOUT", "15s")
	v.SetDefault("ZEPTO_API_URL", "https://api.zeptomail.com/v1.1/email")
	v.SetDefault("RATE_LIMIT_FORM_LIMIT", 5)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
}

func fromViper(v *viper.Viper) (*Config, error) {
	port, err := parsePort(v.GetString("SMTP_ADMIN_PORT"))
	if err != nil {
		return nil, err
	}

	timeout := v.GetDuration("MAIL_TIMEOUT")
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	cfg := &Config{
		Port:           v.GetString("PORT"),
		Environment:    v.GetString("GIN_MODE"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		AllowedOrigins: parseOrigins(v.GetString("ALLOWED_ORIGINS")),
		StrictConfig:   v.GetBool("STRICT_CONFIG"),
		OrgName:        v.GetString("ORG_NAME"),
		OrgSiteURL:     v.GetString("ORG_SITE_URL"),
		OrgLogoURL:     v.GetString("ORG_LOGO_URL"),
		Mail: MailConfig{
			Transport:     strings.ToLower(strings.TrimSpace(v.GetString("MAIL_TRANSPORT"))),
			Host:          v.GetString("SMTP_ADMIN_HOST"),
			Port:          port,
			Username:      v.GetString("SMTP_ADMIN_USER"),
			Password:      v.GetString("SMTP_ADMIN_PASS"),
			FromEmail:     v.GetString("SMTP_FROM_EMAIL"),
			AdminEmail:    v.GetString("ADMIN_RECEIVER_EMAIL"),
			Secure:        optionalBool(v, "SMTP_ADMIN_SECURE"),
			TLSSkipVerify: v.GetBool("SMTP_TLS_SKIP_VERIFY"),
			Timeout:       timeout,
			ZeptoAPIURL:   v.GetString("ZEPTO_API_URL"),
			ZeptoAPIKey:   v.GetString("ZEPTO_API_KEY"),
		},
		PayFast: PayFastConfig{
			MerchantID:  v.GetString("PAYFAST_MERCHANT_ID"),
			MerchantKey: v.GetString("PAYFAST_MERCHANT_KEY"),
			ReturnURL:   v.GetString("PAYFAST_RETURN_URL"),
			CancelURL:   v.GetString("PAYFAST_CANCEL_URL"),
			NotifyURL:   v.GetString("PAYFAST_NOTIFY_URL"),
			Passphrase:  v.GetString("PAYFAST_PASSPHRASE"),
			Sandbox:     v.GetBool("PAYFAST_SANDBOX"),
		},
		RedisURL:               v.GetString("REDIS_URL"),
		RedisPassword:          v.GetString("REDIS_PASSWORD"),
		RateLimitFormLimit:     v.GetInt("RATE_LIMIT_FORM_LIMIT"),
		RateLimitWindowSeconds: v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
	}

	// The relay login doubles as the sender address unless overridden
	if cfg.Mail.FromEmail == "" {
		cfg.Mail.FromEmail = cfg.Mail.Username
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = append([]string(nil), DefaultAllowedOrigins...)
	}

	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}

	return cfg, nil
}

// ImplicitTLS reports whether the relay connection starts with TLS (SMTPS)
// instead of upgrading with STARTTLS. An explicit SMTP_ADMIN_SECURE wins;
// otherwise port 465 means implicit TLS.
func (m MailConfig) ImplicitTLS() bool {
	if m.Secure != nil {
		return *m.Secure
	}
	return m.Port == 465
}

// MailMissing lists the mail settings required by the selected transport
// that are not set.
func (c *Config) MailMissing() []string {
	var missing []string
	add := func(key, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, key)
		}
	}

	switch c.Mail.Transport {
	case TransportZeptoMail:
		add("ZEPTO_API_URL", c.Mail.ZeptoAPIURL)
		add("ZEPTO_API_KEY", c.Mail.ZeptoAPIKey)
		add("SMTP_FROM_EMAIL", c.Mail.FromEmail)
	default:
		add("SMTP_ADMIN_HOST", c.Mail.Host)
		add("SMTP_ADMIN_USER", c.Mail.Username)
		add("SMTP_ADMIN_PASS", c.Mail.Password)
	}
	add("ADMIN_RECEIVER_EMAIL", c.Mail.AdminEmail)
	return missing
}

// PayFastMissing lists the PayFast merchant settings that are not set.
func (c *Config) PayFastMissing() []string {
	var missing []string
	for key, value := range map[string]string{
		"PAYFAST_MERCHANT_ID":  c.PayFast.MerchantID,
		"PAYFAST_MERCHANT_KEY": c.PayFast.MerchantKey,
		"PAYFAST_RETURN_URL":   c.PayFast.ReturnURL,
		"PAYFAST_CANCEL_URL":   c.PayFast.CancelURL,
		"PAYFAST_NOTIFY_URL":   c.PayFast.NotifyURL,
	} {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	return missing
}

// IsProduction reports whether gin runs in release mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "release"
}

func parsePort(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 587, nil
	}
	port, err := strconv.Atoi(raw)
	if err != nil || port <= 0 || port > 65535 {
		return 0, fmt.Errorf("invalid SMTP_ADMIN_PORT %q", raw)
	}
	return port, nil
}

// optionalBool returns nil when the key is unset or not a boolean.
func optionalBool(v *viper.Viper, key string) *bool {
	if !v.IsSet(key) {
		return nil
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		return nil
	}
	return &parsed
}

// parseOrigins parses comma-separated origins into a slice
func parseOrigins(origins string) []string {
	if origins == "" {
		return nil
	}

	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimRight(strings.TrimSpace(part), "/"); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
