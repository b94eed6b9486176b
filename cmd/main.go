package main

import (
	"context"
	"errors"
	"os"

	"github.com/roosthq/roost/internal/session"
	"github.com/roosthq/roost/internal/shared"
	"github.com/urfave/cli/v3"
)

// exitHint returns a follow-up suggestion for a failed command, empty when
// there is none.
func exitHint(err error) string {
	if shared.IsAuthError(err) {
		return "session expired or missing, run 'roost auth login'"
	}
	return ""
}

// buildApp assembles the top-level CLI command tree.
func (r *Runner) buildApp() *cli.Command {
	return &cli.Command{
		Name:     "roost",
		Usage:    "Terminal console for farm operations & studio production",
		Version:  "0.3.0",
		Commands: r.register(),
	}
}

func main() {
	logger := shared.NewLogger(nil)

	if err := shared.LoadEnvFile(""); err != nil {
		logger.Warn("failed to load .env file", "error", err)
	}

	config := shared.DefaultConfig()
	configPath := "config.toml"
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "error", err)
		}
	}

	store, err := session.NewStore(config.Session.Path)
	if err != nil {
		logger.Fatalf("failed to open session store: %v", err)
	}
	store.Load()

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Store:      store,
		Logger:     logger,
	})

	app := runner.buildApp()

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			if hint := exitHint(err); hint != "" {
				logger.Warn(hint)
			}
			logger.Fatalf("application error: %v", err)
		}
	}
}
