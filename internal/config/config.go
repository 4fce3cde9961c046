// Package config loads runtime settings from an optional TOML or YAML file,
// .env files and the process environment, in increasing precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"crannies/internal/store"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// EnvConfigFile names the variable holding the config file path.
const EnvConfigFile = "CRANNIES_CONFIG"

// Duration reads "5s"-style strings from TOML and YAML.
type Duration time.Duration

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

type StoreConfig struct {
	Driver     string   `toml:"driver" yaml:"driver"`
	DSN        string   `toml:"dsn" yaml:"dsn"`
	BadgerPath string   `toml:"badger_path" yaml:"badger_path"`
	Timeout    Duration `toml:"timeout" yaml:"timeout"`
}

// Options converts the section for store.Open.
func (s StoreConfig) Options() store.Options {
	return store.Options{
		Driver:     s.Driver,
		DSN:        s.DSN,
		BadgerPath: s.BadgerPath,
		Timeout:    time.Duration(s.Timeout),
	}
}

type HTTPConfig struct {
	CORSOrigins    []string `toml:"cors_origins" yaml:"cors_origins"`
	RateLimitRPS   float64  `toml:"rate_limit_rps" yaml:"rate_limit_rps"`
	RateLimitBurst int      `toml:"rate_limit_burst" yaml:"rate_limit_burst"`
	MaxBodyBytes   int64    `toml:"max_body_bytes" yaml:"max_body_bytes"`
	EnableHSTS     bool     `toml:"enable_hsts" yaml:"enable_hsts"`
}

type Config struct {
	Addr     string      `toml:"addr" yaml:"addr"`
	Env      string      `toml:"env" yaml:"env"`
	LogLevel string      `toml:"log_level" yaml:"log_level"`
	Store    StoreConfig `toml:"store" yaml:"store"`
	HTTP     HTTPConfig  `toml:"http" yaml:"http"`
}

func Default() Config {
	return Config{
		Addr:     ":8080",
		Env:      "production",
		LogLevel: "info",
		Store: StoreConfig{
			Driver:     store.DriverBadger,
			BadgerPath: "data/badger",
			Timeout:    Duration(5 * time.Second),
		},
		HTTP: HTTPConfig{
			CORSOrigins:    []string{"http://localhost:3000", "http://localhost:5173"},
			RateLimitRPS:   10,
			RateLimitBurst: 20,
			MaxBodyBytes:   8 << 20,
		},
	}
}

// IsDevelopment reports whether the service runs in a development env.
func (c Config) IsDevelopment() bool {
	switch strings.ToLower(c.Env) {
	case "dev", "development", "local":
		return true
	}
	return false
}

// LoadEnvFiles reads .env and .env.local without overriding variables the
// runtime already set.
func LoadEnvFiles() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

// Load builds the configuration. path may be empty, in which case
// CRANNIES_CONFIG is consulted; with no file only defaults and the
// environment apply.
func Load(path string) (Config, error) {
	LoadEnvFiles()

	cfg := Default()
	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	if path != "" {
		if err := readFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("config %s: unsupported format %q", path, ext)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Addr, "APP_ADDR")
	setString(&cfg.Env, "APP_ENV")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.Store.Driver, "STORE_DRIVER")
	setString(&cfg.Store.DSN, "DB_DSN")
	setString(&cfg.Store.DSN, "STORE_DSN")
	setString(&cfg.Store.BadgerPath, "BADGER_PATH")

	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.HTTP.CORSOrigins = splitList(v)
	}

	var err error
	if v := os.Getenv("DB_TIMEOUT"); v != "" {
		var d time.Duration
		if d, err = time.ParseDuration(v); err != nil {
			return fmt.Errorf("DB_TIMEOUT: %w", err)
		}
		cfg.Store.Timeout = Duration(d)
	}
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		if cfg.HTTP.RateLimitRPS, err = strconv.ParseFloat(v, 64); err != nil {
			return fmt.Errorf("RATE_LIMIT_RPS: %w", err)
		}
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		if cfg.HTTP.RateLimitBurst, err = strconv.Atoi(v); err != nil {
			return fmt.Errorf("RATE_LIMIT_BURST: %w", err)
		}
	}
	if v := os.Getenv("MAX_BODY_BYTES"); v != "" {
		if cfg.HTTP.MaxBodyBytes, err = strconv.ParseInt(v, 10, 64); err != nil {
			return fmt.Errorf("MAX_BODY_BYTES: %w", err)
		}
	}
	if v := os.Getenv("ENABLE_HSTS"); v != "" {
		if cfg.HTTP.EnableHSTS, err = strconv.ParseBool(v); err != nil {
			return fmt.Errorf("ENABLE_HSTS: %w", err)
		}
	}
	return nil
}

func (c Config) validate() error {
	switch c.Store.Driver {
	case store.DriverMemory, store.DriverBadger, store.DriverSQLite, store.DriverPostgres:
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.Store.Driver == store.DriverPostgres && c.Store.DSN == "" {
		return fmt.Errorf("store driver %s needs STORE_DSN", c.Store.Driver)
	}
	if c.HTTP.MaxBodyBytes <= 0 {
		return fmt.Errorf("max body bytes must be positive, got %d", c.HTTP.MaxBodyBytes)
	}
	if c.HTTP.RateLimitRPS <= 0 || c.HTTP.RateLimitBurst <= 0 {
		return fmt.Errorf("rate limit must be positive, got %v rps burst %d", c.HTTP.RateLimitRPS, c.HTTP.RateLimitBurst)
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
