// Package config is used to configure the dashboard settings.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"os"
	"strconv"
	"time"
)

// Config - dashboard configuration structure.
type Config struct {
	// Addr: address the dashboard listens on (e.g., "localhost:3000").
	Addr string `json:"server_address"`
	// APIBaseURL: base URL of the remote URL-shortening API.
	APIBaseURL string `json:"api_base_url"`
	// ConfigPath: path to configuration file.
	ConfigPath string `json:"-"`
	// SessionHashKey, SessionBlockKey: securecookie keys for the workspace cookie.
	// Random per process when empty.
	SessionHashKey  string `json:"-"`
	SessionBlockKey string `json:"-"`
	// PollInterval: auto-refresh interval of the statistics page.
	PollInterval Duration `json:"poll_interval"`
	// SessionTTL: idle time after which a workspace is torn down.
	SessionTTL Duration `json:"session_ttl"`
	// MaxSessions: upper bound of live workspaces; the least recently seen one
	// is evicted to make room.
	MaxSessions int `json:"max_sessions"`
	// Timeout: request timeout in seconds, both for incoming requests and API calls.
	Timeout int `json:"request_timeout"`
	// MaxFormEntries: how many URLs may be submitted at once.
	MaxFormEntries int `json:"max_form_entries"`
	// MaxValidityMinutes: upper bound of the validity period of a new short URL.
	MaxValidityMinutes int `json:"max_validity_minutes"`
	// DefaultValidityMinutes: validity period prefilled in a new form entry.
	DefaultValidityMinutes int `json:"default_validity_minutes"`
}

// Duration is a time.Duration that reads "5s"-style strings from JSON.
type Duration time.Duration

// UnmarshalJSON accepts a duration string or a number of nanoseconds.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		v, err := time.ParseDuration(s)
		if err != nil {
			return err
		}
		*d = Duration(v)
		return nil
	}

	var n int64
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*d = Duration(n)
	return nil
}

// Std returns the value as time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

var cfgDefault = Config{
	Addr:                   "localhost:3000",
	APIBaseURL:             "http://localhost:8000",
	PollInterval:           Duration(5 * time.Second),
	SessionTTL:             Duration(30 * time.Minute),
	MaxSessions:            1000,
	Timeout:                15,
	MaxFormEntries:         5,
	MaxValidityMinutes:     43200,
	DefaultValidityMinutes: 30,
}

// NewConfig returns a new Config filled with default values.
func NewConfig() *Config {
	c := cfgDefault
	return &c
}

// RequestTimeout returns Timeout as time.Duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// ErrReadConfig - error reading json config.
var ErrReadConfig = errors.New("reading json config")

// ErrParseConfig - error parsing json config.
var ErrParseConfig = errors.New("parse json config")

// ErrInvalidConfig - a setting is out of range.
var ErrInvalidConfig = errors.New("invalid config")

// Init initializes the configuration using environment variables,
// command-line flags and an optional json file.
func Init(c *Config) error {
	if val, exist := os.LookupEnv("SERVER_ADDRESS"); exist {
		c.Addr = val
	}
	if val, exist := os.LookupEnv("API_BASE_URL"); exist {
		c.APIBaseURL = val
	}
	if val, exist := os.LookupEnv("POLL_INTERVAL"); exist {
		if d, err := time.ParseDuration(val); err == nil {
			c.PollInterval = Duration(d)
		}
	}
	if val, exist := os.LookupEnv("REQUEST_TIMEOUT"); exist {
		if n, err := strconv.Atoi(val); err == nil {
			c.Timeout = n
		}
	}
	if val, exist := os.LookupEnv("SESSION_TTL"); exist {
		if d, err := time.ParseDuration(val); err == nil {
			c.SessionTTL = Duration(d)
		}
	}
	if val, exist := os.LookupEnv("MAX_SESSIONS"); exist {
		if n, err := strconv.Atoi(val); err == nil {
			c.MaxSessions = n
		}
	}
	if val, exist := os.LookupEnv("SESSION_HASH_KEY"); exist {
		c.SessionHashKey = val
	}
	if val, exist := os.LookupEnv("SESSION_BLOCK_KEY"); exist {
		c.SessionBlockKey = val
	}
	if val, exist := os.LookupEnv("CONFIG"); exist {
		c.ConfigPath = val
	}

	var flagCfg Config
	var pollInterval time.Duration
	flag.StringVar(&flagCfg.Addr, "a", "", "dashboard startup address")
	flag.StringVar(&flagCfg.APIBaseURL, "b", "", "base address of the URL shortener API")
	flag.DurationVar(&pollInterval, "p", 0, "auto-refresh interval")
	flag.IntVar(&flagCfg.Timeout, "t", 0, "request timeout in seconds")
	flag.StringVar(&flagCfg.ConfigPath, "c", "", "path to config file (json)")

	flag.Parse()

	if flagCfg.ConfigPath != "" {
		c.ConfigPath = flagCfg.ConfigPath
	}
	if c.ConfigPath != "" {
		file, err := os.ReadFile(c.ConfigPath)
		if err != nil {
			return ErrReadConfig
		}
		if err := json.Unmarshal(file, c); err != nil {
			return ErrParseConfig
		}
	}

	// override
	if flagCfg.Addr != "" {
		c.Addr = flagCfg.Addr
	}
	if flagCfg.APIBaseURL != "" {
		c.APIBaseURL = flagCfg.APIBaseURL
	}
	if pollInterval > 0 {
		c.PollInterval = Duration(pollInterval)
	}
	if flagCfg.Timeout > 0 {
		c.Timeout = flagCfg.Timeout
	}

	return c.Validate()
}

// Validate checks the limits the form controller and poller rely on.
func (c *Config) Validate() error {
	switch {
	case c.APIBaseURL == "":
		return errors.Join(ErrInvalidConfig, errors.New("api base url is empty"))
	case c.PollInterval <= 0:
		return errors.Join(ErrInvalidConfig, errors.New("poll interval must be positive"))
	case c.Timeout < 1:
		return errors.Join(ErrInvalidConfig, errors.New("request timeout must be at least one second"))
	case c.MaxSessions < 1:
		return errors.Join(ErrInvalidConfig, errors.New("max sessions must be at least 1"))
	case c.MaxFormEntries < 1:
		return errors.Join(ErrInvalidConfig, errors.New("max form entries must be at least 1"))
	case c.MaxValidityMinutes < 1:
		return errors.Join(ErrInvalidConfig, errors.New("max validity minutes must be positive"))
	case c.DefaultValidityMinutes < 1 || c.DefaultValidityMinutes > c.MaxValidityMinutes:
		return errors.Join(ErrInvalidConfig, errors.New("default validity minutes out of range"))
	}
	return nil
}
