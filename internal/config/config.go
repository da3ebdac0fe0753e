// Package config handles loading and parsing application configuration.
// It supports two sources (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//
// The parsed values are returned as a *Config pointer so the struct is
// shared by reference rather than copied everywhere.
package config

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root configuration structure.
// Every field maps to a key in the YAML file AND can be overridden
// by the corresponding environment variable (env:"...").
//
// env-required:"true" means the app refuses to start if that value is
// missing — better to crash at boot than to silently use a wrong default.
type Config struct {
	// Env controls log format and verbosity.
	// Valid values: "dev", "staging", "prod"
	Env string `yaml:"env" env:"ENV" env-required:"true"`

	// StoragePath is the filesystem path to the SQLite .db file.
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH" env-required:"true"`

	// HTTPServer is embedded (not a pointer) so its fields are accessible
	// directly on Config:  cfg.HTTPServer.Addr
	HTTPServer `yaml:"http_server"`

	// Auth holds the account list and token settings.
	Auth Auth `yaml:"auth"`
}

// HTTPServer holds settings specific to the HTTP server.
type HTTPServer struct {
	// Addr is the TCP address the server listens on, e.g. "localhost:8082".
	Addr string `yaml:"address" env:"HTTP_SERVER_ADDR" env-required:"true"`
}

// Auth configures authentication and authorization.
//
// Accounts is the data-driven identity → role mapping: who may call the
// API and what they are allowed to do. Passwords are stored as bcrypt
// hashes, never in clear text.
type Auth struct {
	// TokenSecret signs the short-lived tokens issued by POST /api/login.
	TokenSecret string `yaml:"token_secret" env:"AUTH_TOKEN_SECRET" env-required:"true"`

	// TokenTTL is how long an issued token stays valid. Set it through
	// the AUTH_TOKEN_TTL environment variable (Go duration syntax,
	// e.g. "15m"); the YAML file cannot carry durations.
	TokenTTL time.Duration `yaml:"-" env:"AUTH_TOKEN_TTL" env-default:"15m"`

	Accounts []Account `yaml:"accounts"`
}

// Account is one row of the account list.
type Account struct {
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"password_hash"`
	// Role is either "admin" or "user". Only admins may create, update
	// or delete records.
	Role string `yaml:"role"`
}

// MustLoad reads, validates, and returns the application config.
//
// The name "MustLoad" follows a Go convention: functions prefixed with
// "Must" are allowed to panic/fatal on failure. Callers do not need to
// check a returned error — if this function returns, the config is valid.
func MustLoad() *Config {
	var configPath string

	// Source 1: environment variable. The standard way to pass config
	// to a container.
	configPath = os.Getenv("CONFIG_PATH")

	// Source 2: command-line flag. Useful when running locally:
	//   go run ./cmd/records-api --config=config/local.yaml
	if configPath == "" {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	if configPath == "" {
		log.Fatal("config path is not set: use --config flag or CONFIG_PATH env var")
	}

	// Verify the file exists before trying to read it, so we give a
	// clear message rather than a cryptic "open: no such file" later.
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", configPath)
	}

	// cleanenv.ReadConfig reads the YAML file and populates the struct.
	// It also reads any env:"..." tagged fields from the environment,
	// and validates env-required:"true" constraints.
	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err.Error())
	}

	if len(cfg.Auth.Accounts) == 0 {
		log.Fatal("config has no auth accounts: the API would reject every request")
	}

	return &cfg
}
