// Package config provides Viper-based configuration loading for the companion server.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	// Enabled selects the postgres store; the in-memory store is used otherwise.
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// RelayConfig holds settings for the transfer relay between peers.
type RelayConfig struct {
	// Authoritative marks this peer as the one that applies transfers.
	Authoritative bool `mapstructure:"authoritative"`
	// Host is the bind address of the relay listener on the authoritative peer.
	Host string `mapstructure:"host"`
	// Port is the TCP port of the relay listener.
	Port int `mapstructure:"port"`
	// PeerURL is the websocket URL of the authoritative peer.
	PeerURL string `mapstructure:"peer_url"`
	// Secret is sent by non-authoritative peers.
	Secret string `mapstructure:"secret"`
	// SecretHash is the bcrypt hash the authoritative peer checks Secret against.
	SecretHash    string        `mapstructure:"secret_hash"`
	ReadTimeout   time.Duration `mapstructure:"read_timeout"`
	WriteTimeout  time.Duration `mapstructure:"write_timeout"`
	RetryInterval time.Duration `mapstructure:"retry_interval"`
}

// Addr returns the "host:port" listen address.
//
// Postcondition: Returns a non-empty string in "host:port" format.
func (r RelayConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// Output is "stderr", "stdout" or a file path. The console reads chat
	// from stdin and answers on stdout, so logs default to stderr.
	Output string `mapstructure:"output"`
}

// MarketConfig holds currency settings.
type MarketConfig struct {
	// CurrentRegion is the key of the pivot region.
	CurrentRegion string `mapstructure:"current_region"`
	RegionsFile   string `mapstructure:"regions_file"`
	// CurrencyMode is one of "disable", "compatibility", "override".
	CurrencyMode string `mapstructure:"currency_mode"`
}

// ContentConfig locates the YAML content loaded at startup.
type ContentConfig struct {
	ItemsDir           string `mapstructure:"items_dir"`
	ConditionsDir      string `mapstructure:"conditions_dir"`
	ScriptsDir         string `mapstructure:"scripts_dir"`
	StinkingDrunkTable string `mapstructure:"stinking_drunk_table"`
	LocalesDir         string `mapstructure:"locales_dir"`
	PartyFile          string `mapstructure:"party_file"`
}

// I18nConfig selects the chat locale.
type I18nConfig struct {
	Locale string `mapstructure:"locale"`
}

// TransferConfig holds item transfer settings.
type TransferConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// SessionConfig holds the current session label used by XP reasons.
type SessionConfig struct {
	Name string `mapstructure:"name"`
}

// PlayerConfig maps a chat user to the actor they control.
type PlayerConfig struct {
	UserID  string `mapstructure:"user_id"`
	Name    string `mapstructure:"name"`
	ActorID string `mapstructure:"actor_id"`
	GM      bool   `mapstructure:"gm"`
	Active  bool   `mapstructure:"active"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging"`
	Database DatabaseConfig `mapstructure:"database"`
	Relay    RelayConfig    `mapstructure:"relay"`
	Market   MarketConfig   `mapstructure:"market"`
	Content  ContentConfig  `mapstructure:"content"`
	I18n     I18nConfig     `mapstructure:"i18n"`
	Transfer TransferConfig `mapstructure:"transfer"`
	Session  SessionConfig  `mapstructure:"session"`
	Players  []PlayerConfig `mapstructure:"players"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Database.Enabled {
		if err := validateDatabase(c.Database); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if err := validateRelay(c.Relay); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateMarket(c.Market); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateContent(c.Content); err != nil {
		errs = append(errs, err.Error())
	}
	if c.I18n.Locale == "" {
		errs = append(errs, "i18n.locale must not be empty")
	}
	if err := validatePlayers(c.Players); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateRelay(r RelayConfig) error {
	var errs []string
	if r.Authoritative {
		if r.Port < 1 || r.Port > 65535 {
			errs = append(errs, fmt.Sprintf("relay.port must be 1-65535, got %d", r.Port))
		}
		if r.SecretHash == "" {
			errs = append(errs, "relay.secret_hash must not be empty on the authoritative peer")
		}
	} else if r.PeerURL != "" {
		if !strings.HasPrefix(r.PeerURL, "ws://") && !strings.HasPrefix(r.PeerURL, "wss://") {
			errs = append(errs, fmt.Sprintf("relay.peer_url must be a ws:// or wss:// URL, got %q", r.PeerURL))
		}
		if r.Secret == "" {
			errs = append(errs, "relay.secret must not be empty when relay.peer_url is set")
		}
	}
	if r.ReadTimeout < 0 {
		errs = append(errs, "relay.read_timeout must not be negative")
	}
	if r.WriteTimeout < 0 {
		errs = append(errs, "relay.write_timeout must not be negative")
	}
	if r.RetryInterval < 0 {
		errs = append(errs, "relay.retry_interval must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateMarket(m MarketConfig) error {
	var errs []string
	if m.CurrentRegion == "" {
		errs = append(errs, "market.current_region must not be empty")
	}
	if m.RegionsFile == "" {
		errs = append(errs, "market.regions_file must not be empty")
	}
	validModes := map[string]bool{"disable": true, "compatibility": true, "override": true}
	if !validModes[m.CurrencyMode] {
		errs = append(errs, fmt.Sprintf("market.currency_mode must be one of [disable, compatibility, override], got %q", m.CurrencyMode))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateContent(c ContentConfig) error {
	required := []struct {
		key, value string
	}{
		{"content.items_dir", c.ItemsDir},
		{"content.conditions_dir", c.ConditionsDir},
		{"content.stinking_drunk_table", c.StinkingDrunkTable},
		{"content.locales_dir", c.LocalesDir},
	}
	var errs []string
	for _, r := range required {
		if r.value == "" {
			errs = append(errs, r.key+" must not be empty")
		}
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validatePlayers(players []PlayerConfig) error {
	var errs []string
	seen := make(map[string]bool, len(players))
	for i, p := range players {
		if p.UserID == "" {
			errs = append(errs, fmt.Sprintf("players[%d].user_id must not be empty", i))
			continue
		}
		if seen[p.UserID] {
			errs = append(errs, fmt.Sprintf("players[%d].user_id %q is duplicated", i, p.UserID))
		}
		seen[p.UserID] = true
		if !p.GM && p.ActorID == "" {
			errs = append(errs, fmt.Sprintf("players[%d].actor_id must not be empty for a player", i))
		}
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with MACROS_ prefix
	v.SetEnvPrefix("MACROS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stderr")

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "macros")
	v.SetDefault("database.password", "macros")
	v.SetDefault("database.name", "macros")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("relay.authoritative", true)
	v.SetDefault("relay.host", "0.0.0.0")
	v.SetDefault("relay.port", 7070)
	v.SetDefault("relay.read_timeout", "2m")
	v.SetDefault("relay.write_timeout", "5s")
	v.SetDefault("relay.retry_interval", "5s")

	v.SetDefault("market.current_region", "empire")
	v.SetDefault("market.regions_file", "content/regions.yaml")
	v.SetDefault("market.currency_mode", "override")

	v.SetDefault("content.items_dir", "content/items")
	v.SetDefault("content.conditions_dir", "content/conditions")
	v.SetDefault("content.scripts_dir", "content/scripts")
	v.SetDefault("content.stinking_drunk_table", "content/tables/stinking-drunk.yaml")
	v.SetDefault("content.locales_dir", "content/locales")
	v.SetDefault("content.party_file", "content/party.yaml")

	v.SetDefault("i18n.locale", "en-US")
	v.SetDefault("transfer.enabled", true)
}
