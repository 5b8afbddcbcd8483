// Package config loads service configuration from environment variables,
// applies defaults and validates everything at startup so misconfiguration
// fails fast.
package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dcucoch/Gift-checking-App/pkg/platform/retry"
)

// Config holds all service configuration.
type Config struct {
	Server  ServerConfig
	Sheets  SheetsConfig
	Fetch   FetchConfig
	Breaker BreakerConfig
	Redis   RedisConfig
	Cache   CacheConfig
	Lookup  LookupConfig
	CORS    CORSConfig
	Logging LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port keeps the PORT name used by hosting platforms
	Port int `env:"PORT" envAlt:"SERVER_PORT" default:"3002"`

	ReadHeaderTimeout time.Duration `env:"SERVER_READ_HEADER_TIMEOUT" default:"5s"`

	// RequestTimeout bounds a whole request, retries included
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"30s"`

	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`
}

// Addr returns host:port for the listener.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// SheetsConfig selects the row source. File wins over the spreadsheet when set.
type SheetsConfig struct {
	SpreadsheetID string `env:"SPREADSHEET_ID" envAlt:"REACT_APP_GOOGLE_SHEETS_SPREADSHEET_ID"`

	ClientEmail string `env:"GOOGLE_SHEETS_CLIENT_EMAIL" envAlt:"REACT_APP_GOOGLE_SHEETS_CLIENT_EMAIL"`

	// PrivateKey may contain literal \n sequences
	PrivateKey string `env:"GOOGLE_SHEETS_PRIVATE_KEY" envAlt:"REACT_APP_GOOGLE_SHEETS_PRIVATE_KEY"`

	CredentialsFile string `env:"GOOGLE_APPLICATION_CREDENTIALS"`

	Range string `env:"SHEET_RANGE" default:"Hoja 1!A2:AD"`

	// File is a local CSV/TSV export used instead of the API
	File string `env:"SHEET_FILE"`
}

// FetchConfig is the retry policy around each row fetch.
type FetchConfig struct {
	MaxAttempts int           `env:"FETCH_MAX_ATTEMPTS" default:"3"`
	BaseDelay   time.Duration `env:"FETCH_BASE_DELAY" default:"500ms"`
	Multiplier  float64       `env:"FETCH_MULTIPLIER" default:"2"`

	// Timeout bounds a single attempt
	Timeout time.Duration `env:"FETCH_TIMEOUT" default:"10s"`
}

// Policy converts the settings into a retry policy.
func (f FetchConfig) Policy() retry.Policy {
	return retry.Policy{
		MaxAttempts: f.MaxAttempts,
		BaseDelay:   f.BaseDelay,
		Multiplier:  f.Multiplier,
	}
}

// BreakerConfig configures the row source circuit breaker.
type BreakerConfig struct {
	FailureThreshold int `env:"BREAKER_FAILURE_THRESHOLD" default:"5"`
	SuccessThreshold int `env:"BREAKER_SUCCESS_THRESHOLD" default:"3"`
}

// RedisConfig holds redis connection settings. An empty URL disables the cache.
type RedisConfig struct {
	URL          string        `env:"REDIS_URL"`
	PoolSize     int           `env:"REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" default:"3s"`
}

// CacheConfig controls the row cache.
type CacheConfig struct {
	TTL time.Duration `env:"CACHE_TTL" default:"60s"`
}

// LookupConfig controls lookup semantics.
type LookupConfig struct {
	// StrictRUT rejects identifiers with a wrong check digit
	StrictRUT bool `env:"STRICT_RUT" default:"false"`
}

// CORSConfig lists the origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" default:"*"`
}

// LoggingConfig holds log settings.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" default:"info"`
	Format string `env:"LOG_FORMAT" default:"text"`
}

// UsesFile reports whether rows come from a local export.
func (c *Config) UsesFile() bool {
	return c.Sheets.File != ""
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	// Row source
	if !c.UsesFile() {
		if c.Sheets.SpreadsheetID == "" {
			errs = append(errs, "SPREADSHEET_ID is required unless SHEET_FILE is set")
		}
		hasEmail, hasKey := c.Sheets.ClientEmail != "", c.Sheets.PrivateKey != ""
		switch {
		case hasEmail != hasKey:
			errs = append(errs, "GOOGLE_SHEETS_CLIENT_EMAIL and GOOGLE_SHEETS_PRIVATE_KEY must be set together")
		case !hasEmail && c.Sheets.CredentialsFile == "":
			errs = append(errs, "set GOOGLE_SHEETS_CLIENT_EMAIL and GOOGLE_SHEETS_PRIVATE_KEY, or GOOGLE_APPLICATION_CREDENTIALS")
		}
	}
	if strings.TrimSpace(c.Sheets.Range) == "" {
		errs = append(errs, "SHEET_RANGE must not be empty")
	}

	// Server
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("PORT (%d) must be 1-65535", c.Server.Port))
	}
	if c.Server.ReadHeaderTimeout <= 0 {
		errs = append(errs, "SERVER_READ_HEADER_TIMEOUT must be positive")
	}
	if c.Server.RequestTimeout <= 0 {
		errs = append(errs, "SERVER_REQUEST_TIMEOUT must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "SERVER_SHUTDOWN_TIMEOUT must be positive")
	}

	// Fetch
	if err := c.Fetch.Policy().Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("FETCH_* retry policy: %v", err))
	}
	if c.Fetch.Timeout <= 0 {
		errs = append(errs, "FETCH_TIMEOUT must be positive")
	}

	// Breaker
	if c.Breaker.FailureThreshold <= 0 {
		errs = append(errs, "BREAKER_FAILURE_THRESHOLD must be positive")
	}
	if c.Breaker.SuccessThreshold <= 0 {
		errs = append(errs, "BREAKER_SUCCESS_THRESHOLD must be positive")
	}

	// Redis and cache
	if c.Redis.URL != "" {
		if _, err := url.Parse(c.Redis.URL); err != nil {
			errs = append(errs, fmt.Sprintf("REDIS_URL is not a valid URL: %v", err))
		}
		if c.Redis.PoolSize <= 0 {
			errs = append(errs, "REDIS_POOL_SIZE must be positive")
		}
		if c.Redis.MinIdleConns < 0 {
			errs = append(errs, "REDIS_MIN_IDLE_CONNS must be non-negative")
		}
		if c.Cache.TTL <= 0 {
			errs = append(errs, "CACHE_TTL must be positive")
		}
	}

	// CORS
	if len(c.CORS.AllowedOrigins) == 0 {
		errs = append(errs, "CORS_ALLOWED_ORIGINS must list at least one origin")
	}

	// Logging
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}
	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// String returns a safe string representation of the config for logging.
// Credentials and the redis URL are masked.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	fmt.Fprintf(&b, "Server: {Addr: %q, RequestTimeout: %s}, ", c.Server.Addr(), c.Server.RequestTimeout)
	if c.UsesFile() {
		fmt.Fprintf(&b, "Source: {File: %q}, ", c.Sheets.File)
	} else {
		fmt.Fprintf(&b, "Source: {SpreadsheetID: %q, Range: %q, ClientEmail: %q, PrivateKey: %s}, ",
			c.Sheets.SpreadsheetID, c.Sheets.Range, c.Sheets.ClientEmail, mask(c.Sheets.PrivateKey))
	}
	fmt.Fprintf(&b, "Fetch: {MaxAttempts: %d, BaseDelay: %s, Multiplier: %g, Timeout: %s}, ",
		c.Fetch.MaxAttempts, c.Fetch.BaseDelay, c.Fetch.Multiplier, c.Fetch.Timeout)
	fmt.Fprintf(&b, "Breaker: {Failures: %d, Successes: %d}, ", c.Breaker.FailureThreshold, c.Breaker.SuccessThreshold)
	fmt.Fprintf(&b, "Redis: {URL: %s, PoolSize: %d}, Cache: {TTL: %s}, ", mask(c.Redis.URL), c.Redis.PoolSize, c.Cache.TTL)
	fmt.Fprintf(&b, "StrictRUT: %v, CORS: %v, ", c.Lookup.StrictRUT, c.CORS.AllowedOrigins)
	fmt.Fprintf(&b, "Logging: {Level: %q, Format: %q}", c.Logging.Level, c.Logging.Format)
	b.WriteString("}")
	return b.String()
}

func mask(secret string) string {
	if secret == "" {
		return "[UNSET]"
	}
	return "[MASKED]"
}
