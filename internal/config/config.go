// Package config loads the chat server configuration from defaults, an
// optional config file and environment variables.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Tyrowin/chatroom/internal/logging"
)

// RateLimitConfig defines the parameters for per-connection message rate limiting.
type RateLimitConfig struct {
	Burst          int
	RefillInterval time.Duration
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string
	Format string
}

// Config holds the server configuration settings.
type Config struct {
	Port           int
	AllowedOrigins []string
	MaxMessageSize int64
	SendBuffer     int
	RateLimit      RateLimitConfig
	GracePeriod    time.Duration
	Log            LogConfig
	MetricsEnabled bool
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// Default returns a Config populated with default values for all settings.
func Default() *Config {
	return &Config{
		Port:           8080,
		AllowedOrigins: []string{"*"},
		MaxMessageSize: 4096,
		SendBuffer:     256,
		RateLimit: RateLimitConfig{
			Burst:          10,
			RefillInterval: time.Second,
		},
		GracePeriod:    5 * time.Second,
		Log:            LogConfig{Level: "info", Format: "text"},
		MetricsEnabled: true,
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("port", d.Port)
	v.SetDefault("allowed_origins", strings.Join(d.AllowedOrigins, ","))
	v.SetDefault("max_message_size", d.MaxMessageSize)
	v.SetDefault("send_buffer", d.SendBuffer)
	v.SetDefault("rate_limit.burst", d.RateLimit.Burst)
	v.SetDefault("rate_limit.refill_interval", d.RateLimit.RefillInterval.String())
	v.SetDefault("grace_period", d.GracePeriod.String())
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("metrics.enabled", d.MetricsEnabled)
}

var envBindings = map[string][]string{
	"config_file":                {"CONFIG_FILE"},
	"port":                       {"PORT", "SERVER_PORT"},
	"allowed_origins":            {"ALLOWED_ORIGINS"},
	"max_message_size":           {"MAX_MESSAGE_SIZE"},
	"send_buffer":                {"SEND_BUFFER"},
	"rate_limit.burst":           {"RATE_LIMIT_BURST"},
	"rate_limit.refill_interval": {"RATE_LIMIT_REFILL_INTERVAL"},
	"grace_period":               {"GRACE_PERIOD"},
	"log.level":                  {"LOG_LEVEL"},
	"log.format":                 {"LOG_FORMAT"},
	"metrics.enabled":            {"METRICS_ENABLED"},
}

func bindEnv(v *viper.Viper) error {
	for key, names := range envBindings {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return fmt.Errorf("bind env for %s: %w", key, err)
		}
	}
	return nil
}

// Load reads the configuration. Environment variables win over the config
// file named by CONFIG_FILE, which wins over defaults.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	if err := bindEnv(v); err != nil {
		return nil, err
	}

	if path := v.GetString("config_file"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config file error: %w", err)
		}
	}

	cfg, err := fromViper(v)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func fromViper(v *viper.Viper) (*Config, error) {
	port, err := parsePort(v.GetString("port"))
	if err != nil {
		return nil, err
	}
	maxSize, err := strconv.ParseInt(v.GetString("max_message_size"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("max_message_size: %w", err)
	}
	sendBuffer, err := strconv.Atoi(v.GetString("send_buffer"))
	if err != nil {
		return nil, fmt.Errorf("send_buffer: %w", err)
	}
	burst, err := strconv.Atoi(v.GetString("rate_limit.burst"))
	if err != nil {
		return nil, fmt.Errorf("rate_limit.burst: %w", err)
	}
	refill, err := parseDuration(v.GetString("rate_limit.refill_interval"))
	if err != nil {
		return nil, fmt.Errorf("rate_limit.refill_interval: %w", err)
	}
	grace, err := parseDuration(v.GetString("grace_period"))
	if err != nil {
		return nil, fmt.Errorf("grace_period: %w", err)
	}

	return &Config{
		Port:           port,
		AllowedOrigins: originsValue(v),
		MaxMessageSize: maxSize,
		SendBuffer:     sendBuffer,
		RateLimit: RateLimitConfig{
			Burst:          burst,
			RefillInterval: refill,
		},
		GracePeriod:    grace,
		Log:            LogConfig{Level: v.GetString("log.level"), Format: v.GetString("log.format")},
		MetricsEnabled: v.GetBool("metrics.enabled"),
	}, nil
}

// Validate reports every setting that is out of range.
func (c *Config) Validate() error {
	var errs []error
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.MaxMessageSize <= 0 {
		errs = append(errs, errors.New("max_message_size must be positive"))
	}
	if c.SendBuffer <= 0 {
		errs = append(errs, errors.New("send_buffer must be positive"))
	}
	if c.RateLimit.Burst <= 0 {
		errs = append(errs, errors.New("rate_limit.burst must be positive"))
	}
	if c.RateLimit.RefillInterval <= 0 {
		errs = append(errs, errors.New("rate_limit.refill_interval must be positive"))
	}
	if c.GracePeriod <= 0 {
		errs = append(errs, errors.New("grace_period must be positive"))
	}
	if err := logging.ValidateLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if err := logging.ValidateFormat(c.Log.Format); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// parsePort accepts "8080" as well as the ":8080" form.
func parsePort(value string) (int, error) {
	port, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(value), ":"))
	if err != nil {
		return 0, fmt.Errorf("port: %w", err)
	}
	return port, nil
}

// parseDuration accepts a bare number of seconds or a Go duration string.
func parseDuration(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second, nil
	}
	return time.ParseDuration(value)
}

func originsValue(v *viper.Viper) []string {
	if raw, ok := v.Get("allowed_origins").(string); ok {
		return parseOrigins(raw)
	}
	return v.GetStringSlice("allowed_origins")
}

func parseOrigins(origins string) []string {
	parts := strings.Split(origins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
