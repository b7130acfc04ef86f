package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// AccountConfig holds the identity used when the workspace logs in
// without prompting.
type AccountConfig struct {
	// Handle is the account handle. Empty means the login form is shown.
	Handle string `mapstructure:"handle" yaml:"handle"`

	// Domain is appended to derived addresses (handle@domain).
	Domain string `mapstructure:"domain" yaml:"domain"`
}

// WorkspaceConfig holds derivation settings.
type WorkspaceConfig struct {
	// CustomMailboxes are appended after the canonical folders.
	CustomMailboxes []string `mapstructure:"custom_mailboxes" yaml:"custom_mailboxes"`

	// MessageLimit caps how many messages a remote source fetches per folder.
	MessageLimit int `mapstructure:"message_limit" yaml:"message_limit"`

	// RefreshIntervalSec re-derives the open lists periodically. Zero
	// disables polling.
	RefreshIntervalSec int `mapstructure:"refresh_interval_sec" yaml:"refresh_interval_sec"`
}

// StoreConfig holds the SQLite location. ":memory:" keeps nothing after exit.
type StoreConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// IMAPConfig points one address at a real IMAP server.
type IMAPConfig struct {
	// Address is the email address routed to this server.
	Address  string `mapstructure:"address" yaml:"address"`
	Host     string `mapstructure:"host" yaml:"host"`
	Port     string `mapstructure:"port" yaml:"port"`
	Username string `mapstructure:"username" yaml:"username"`
	TLS      bool   `mapstructure:"tls" yaml:"tls"`
}

// Enabled reports whether enough is configured to dial the server.
func (c IMAPConfig) Enabled() bool {
	return c.Host != "" && c.Address != ""
}

// SMTPConfig holds the outgoing server. An empty Host files sent mail
// into the local outbox instead.
type SMTPConfig struct {
	Host     string `mapstructure:"host" yaml:"host"`
	Port     string `mapstructure:"port" yaml:"port"`
	Username string `mapstructure:"username" yaml:"username"`
	TLS      bool   `mapstructure:"tls" yaml:"tls"`
}

// Enabled reports whether an SMTP server is configured.
func (c SMTPConfig) Enabled() bool {
	return c.Host != ""
}

// LogConfig controls the log file. The terminal UI owns stdout.
type LogConfig struct {
	Path  string `mapstructure:"path" yaml:"path"`
	Level string `mapstructure:"level" yaml:"level"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Account   AccountConfig   `mapstructure:"account" yaml:"account"`
	Workspace WorkspaceConfig `mapstructure:"workspace" yaml:"workspace"`
	Store     StoreConfig     `mapstructure:"store" yaml:"store"`
	IMAP      IMAPConfig      `mapstructure:"imap" yaml:"imap"`
	SMTP      SMTPConfig      `mapstructure:"smtp" yaml:"smtp"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/mailspace/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "mailspace", "config.yaml")
}

// DefaultAppConfig returns the configuration used when no file exists.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Account: AccountConfig{
			Domain: "0xfog.com",
		},
		Workspace: WorkspaceConfig{
			CustomMailboxes:    []string{},
			MessageLimit:       50,
			RefreshIntervalSec: 120,
		},
		Store: StoreConfig{
			Path: ":memory:",
		},
		IMAP: IMAPConfig{
			Port: "993",
			TLS:  true,
		},
		SMTP: SMTPConfig{
			Port: "587",
		},
		Log: LogConfig{
			Path:  "mailspace.log",
			Level: "info",
		},
	}
}

// newViper builds a viper instance with defaults and MAILSPACE_ env
// overrides (account.handle -> MAILSPACE_ACCOUNT_HANDLE).
func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("mailspace")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := DefaultAppConfig()
	v.SetDefault("account.handle", d.Account.Handle)
	v.SetDefault("account.domain", d.Account.Domain)
	v.SetDefault("workspace.custom_mailboxes", d.Workspace.CustomMailboxes)
	v.SetDefault("workspace.message_limit", d.Workspace.MessageLimit)
	v.SetDefault("workspace.refresh_interval_sec", d.Workspace.RefreshIntervalSec)
	v.SetDefault("store.path", d.Store.Path)
	v.SetDefault("imap.address", "")
	v.SetDefault("imap.host", "")
	v.SetDefault("imap.port", d.IMAP.Port)
	v.SetDefault("imap.username", "")
	v.SetDefault("imap.tls", d.IMAP.TLS)
	v.SetDefault("smtp.host", "")
	v.SetDefault("smtp.port", d.SMTP.Port)
	v.SetDefault("smtp.username", "")
	v.SetDefault("smtp.tls", d.SMTP.TLS)
	v.SetDefault("log.path", d.Log.Path)
	v.SetDefault("log.level", d.Log.Level)
	return v
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// A missing file is not an error; defaults and environment overrides
// still apply.
func LoadConfig(path string) (*AppConfig, error) {
	v := newViper(path)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := DefaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Workspace.MessageLimit <= 0 {
		cfg.Workspace.MessageLimit = 50
	}
	if cfg.Workspace.RefreshIntervalSec < 0 {
		cfg.Workspace.RefreshIntervalSec = 0
	}
	if strings.TrimSpace(cfg.Account.Domain) == "" {
		cfg.Account.Domain = "0xfog.com"
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("account", cfg.Account)
	v.Set("workspace", cfg.Workspace)
	v.Set("store", cfg.Store)
	v.Set("imap", cfg.IMAP)
	v.Set("smtp", cfg.SMTP)
	v.Set("log", cfg.Log)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
