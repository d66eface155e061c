package main

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/germanamz/analytical/cmd/analytical/internal/styles"
	"github.com/germanamz/analytical/pkg/engine"
	"github.com/joho/godotenv"
)

const defaultConfigPath = "analytical.yaml"

// loadDotEnv loads environment variables from a .env file.
// Returns nil if the file does not exist.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// resolveConfigPath picks the config file: explicit flag, then
// $ANALYTICAL_CONFIG, then analytical.yaml in the working directory.
func resolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}

	if env := os.Getenv("ANALYTICAL_CONFIG"); env != "" {
		return env
	}

	return defaultConfigPath
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.DiscardHandler)
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// setup loads the environment and configuration and builds the engine.
func setup(cf commonFlags) (*engine.Engine, error) {
	if err := loadDotEnv(*cf.env); err != nil {
		return nil, err
	}

	return loadEngine(resolveConfigPath(*cf.config), newLogger(os.Stderr, *cf.verbose))
}

func loadEngine(path string, log *slog.Logger) (*engine.Engine, error) {
	cfg, err := engine.LoadConfig(path)
	if err != nil {
		return nil, err
	}

	return engine.New(cfg, engine.WithLogger(log))
}

func renderError(err error) string {
	return styles.ErrorBlockStyle.Render("error: " + err.Error())
}
