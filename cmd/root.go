package cmd

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TFMV/forcepad/config"
	"github.com/TFMV/forcepad/editor"
)

var version = "0.3.0"

var (
	debugMode  bool
	logFormat  string
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "forcepad",
	Short: "forcepad: an interactive force-directed graph editor",
	Long: Brand.Sprint("forcepad") + ": draw directed graphs and watch them settle\n" +
		Subtle.Sprint("Serve the editor in a browser, or replay recorded sessions headless"),
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate("forcepad {{ .Version }}\n")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging with source locations")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format (text, json)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/forcepad/config.toml)")

	rootCmd.AddCommand(
		serveCmd(),
		replayCmd(),
		configCmd(),
	)
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		Bad.Fprintf(os.Stderr, "forcepad: %v\n", err)
	}
	return err
}

// loadConfig reads --config when given, else the default location.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFile(configPath)
	}
	return config.Load()
}

// newLogger builds the process logger. It does not replace slog's default.
func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if debugMode || cfg.Log.Debug {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	}

	var handler slog.Handler
	if strings.EqualFold(logFormat, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func editorOptions(cfg *config.Config) editor.Options {
	return editor.Options{
		Push:     cfg.Push,
		Pull:     cfg.Pull,
		Directed: cfg.Canvas.Directed,
		Seed:     cfg.Simulation.Seed,
	}
}
