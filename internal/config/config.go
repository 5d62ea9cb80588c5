package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	UseSSL   bool
}

type InstaSendConfig struct {
	BaseURL          string
	SecretKey        string
	PublishableKey   string
	WebhookChallenge string
}

type MpesaConfig struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
	ShortCode      string
	PassKey        string
	CallbackURL    string
}

type PollConfig struct {
	InitialDelay time.Duration
	Interval     time.Duration
	MaxAttempts  int
}

type Config struct {
	Port        string
	DBDriver    string
	PostgresURL string
	SQLitePath  string
	RedisURL    string
	JWTSecret   string
	AppBaseURL  string

	SMTP         SMTPConfig
	SupportEmail string

	PaymentProvider string
	InstaSend       InstaSendConfig
	Mpesa           MpesaConfig
	Poll            PollConfig

	GeocoderBaseURL   string
	GeocoderUserAgent string
	NotifyConcurrency int
}

// Load reads the process environment, after merging a .env file when one
// exists, and fails on missing or malformed required values.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("config: .env not loaded: %v", err)
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from any key lookup, which keeps tests off the
// real environment.
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	r := reader{lookup: lookup}

	cfg := &Config{
		Port:        r.str("PORT", "8080"),
		DBDriver:    strings.ToLower(r.str("DB_DRIVER", "postgres")),
		PostgresURL: r.str("POSTGRES_URL", ""),
		SQLitePath:  r.str("SQLITE_PATH", "data/autumhire.db"),
		RedisURL:    r.str("REDIS_URL", ""),
		JWTSecret:   r.str("JWT_SECRET", ""),
		AppBaseURL:  strings.TrimRight(r.str("APP_BASE_URL", "http://localhost:3000"), "/"),
		SMTP: SMTPConfig{
			Host:     r.str("SMTP_HOST", "smtp.gmail.com"),
			Port:     r.num("SMTP_PORT", 587),
			Username: r.str("SMTP_USERNAME", ""),
			Password: r.str("SMTP_PASSWORD", ""),
			From:     r.str("SMTP_FROM", ""),
			FromName: r.str("SMTP_FROM_NAME", "Autumhire"),
			UseSSL:   r.flag("SMTP_USE_SSL", false),
		},
		SupportEmail:    r.str("SUPPORT_EMAIL", ""),
		PaymentProvider: strings.ToLower(r.str("PAYMENT_PROVIDER", "instasend")),
		InstaSend: InstaSendConfig{
			BaseURL:          r.str("INSTASEND_BASE_URL", ""),
			SecretKey:        r.str("INSTASEND_SECRET_KEY", ""),
			PublishableKey:   r.str("INSTASEND_PUBLISHABLE_KEY", ""),
			WebhookChallenge: r.str("INSTASEND_WEBHOOK_CHALLENGE", ""),
		},
		Mpesa: MpesaConfig{
			BaseURL:        r.str("MPESA_BASE_URL", ""),
			ConsumerKey:    r.str("MPESA_CONSUMER_KEY", ""),
			ConsumerSecret: r.str("MPESA_CONSUMER_SECRET", ""),
			ShortCode:      r.str("MPESA_SHORTCODE", ""),
			PassKey:        r.str("MPESA_PASSKEY", ""),
			CallbackURL:    r.str("MPESA_CALLBACK_URL", ""),
		},
		Poll: PollConfig{
			InitialDelay: r.duration("PAYMENT_POLL_INITIAL_DELAY", 20*time.Second),
			Interval:     r.duration("PAYMENT_POLL_INTERVAL", 5*time.Second),
			MaxAttempts:  r.num("PAYMENT_POLL_MAX_ATTEMPTS", 12),
		},
		GeocoderBaseURL:   r.str("GEOCODER_BASE_URL", "https://nominatim.openstreetmap.org"),
		GeocoderUserAgent: r.str("GEOCODER_USER_AGENT", "autumhire/1.0"),
		NotifyConcurrency: r.num("NOTIFY_CONCURRENCY", 5),
	}

	if r.err != nil {
		return nil, r.err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var missing []string
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}

	switch c.DBDriver {
	case "postgres":
		if c.PostgresURL == "" {
			missing = append(missing, "POSTGRES_URL")
		}
	case "sqlite":
	default:
		return fmt.Errorf("config: unsupported DB_DRIVER %q", c.DBDriver)
	}

	switch c.PaymentProvider {
	case "instasend":
		if c.InstaSend.SecretKey == "" {
			missing = append(missing, "INSTASEND_SECRET_KEY")
		}
	case "mpesa":
		for key, v := range map[string]string{
			"MPESA_CONSUMER_KEY":    c.Mpesa.ConsumerKey,
			"MPESA_CONSUMER_SECRET": c.Mpesa.ConsumerSecret,
			"MPESA_SHORTCODE":       c.Mpesa.ShortCode,
			"MPESA_PASSKEY":         c.Mpesa.PassKey,
			"MPESA_CALLBACK_URL":    c.Mpesa.CallbackURL,
		} {
			if v == "" {
				missing = append(missing, key)
			}
		}
	default:
		return fmt.Errorf("config: unsupported PAYMENT_PROVIDER %q", c.PaymentProvider)
	}

	if c.Poll.MaxAttempts < 1 {
		return fmt.Errorf("config: PAYMENT_POLL_MAX_ATTEMPTS must be positive")
	}
	if c.NotifyConcurrency < 1 {
		c.NotifyConcurrency = 1
	}

	if len(missing) > 0 {
		return fmt.Errorf("config: missing required keys: %s", strings.Join(missing, ", "))
	}
	return nil
}

type reader struct {
	lookup func(string) (string, bool)
	err    error
}

func (r *reader) str(key, def string) string {
	if v, ok := r.lookup(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func (r *reader) num(key string, def int) int {
	v := r.str(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.fail(key, err)
		return def
	}
	return n
}

func (r *reader) flag(key string, def bool) bool {
	v := r.str(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		r.fail(key, err)
		return def
	}
	return b
}

func (r *reader) duration(key string, def time.Duration) time.Duration {
	v := r.str(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.fail(key, err)
		return def
	}
	return d
}

func (r *reader) fail(key string, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("config: invalid %s: %w", key, err)
	}
}
