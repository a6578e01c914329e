package vignette

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the settings of a story player. ParseEnv fills it from
// VIGNETTE_* environment variables.
type Config struct {
	Title  string `env:"VIGNETTE_TITLE" envDefault:"vignette"`
	Width  int    `env:"VIGNETTE_WIDTH" envDefault:"480"`
	Height int    `env:"VIGNETTE_HEIGHT" envDefault:"800"`

	// AssetBase is the base URL remote assets are resolved against. Empty
	// means every asset is read from the embedded file system.
	AssetBase  string `env:"VIGNETTE_ASSET_BASE"`
	ScriptDir  string `env:"VIGNETTE_SCRIPT_DIR" envDefault:"scenes"`
	StartScene string `env:"VIGNETTE_START_SCENE" envDefault:"start"`

	Touch        TouchMode     `env:"VIGNETTE_TOUCH" envDefault:"auto"`
	FetchTimeout time.Duration `env:"VIGNETTE_FETCH_TIMEOUT" envDefault:"10s"`
	Debug        bool          `env:"VIGNETTE_DEBUG"`
	// TestScript is a path to a JSON test script played on start.
	TestScript string `env:"VIGNETTE_TEST_SCRIPT"`
	CaptureDir string `env:"VIGNETTE_CAPTURE_DIR" envDefault:"captures"`
}

// ParseEnv loads a Config from environment variables.
func ParseEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Config{}, fmt.Errorf("parse env: invalid window size %dx%d", cfg.Width, cfg.Height)
	}
	return cfg, nil
}
