package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/nhle/mailspace/internal/model"
)

// Version is set via ldflags at build time.
var Version = "dev"

var (
	configPath string
	handleFlag string
	cfg        *model.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "mailspace",
	Short: "mailspace - a terminal mail workspace",
	Long:  "Browse addresses, folders and mail, search a folder and reply, forward or compose from the terminal.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A missing .env is fine.
		_ = godotenv.Load()

		var err error
		cfg, err = model.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if handleFlag != "" {
			cfg.Account.Handle = handleFlag
		}
		return nil
	},
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWorkspace(cmd.Context(), cfg)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "mailspace version %s\n", Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", model.DefaultConfigPath(), "config file")
	rootCmd.PersistentFlags().StringVar(&handleFlag, "handle", "", "log in as this handle without the login form")
	rootCmd.AddCommand(versionCmd)
}

// openLogger writes structured logs to the configured file. The terminal
// UI owns stdout.
func openLogger(c model.LogConfig) (*slog.Logger, func(), error) {
	if c.Path == "" {
		return slog.New(slog.DiscardHandler), func() {}, nil
	}
	f, err := os.OpenFile(c.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: parseLevel(c.Level)}))
	return logger, func() { f.Close() }, nil
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
