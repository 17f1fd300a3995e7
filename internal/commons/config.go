package commons

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"

	"supplyhub/internal/config"
)

// LoadConfig loads an optional dotenv file into the process environment and
// then resolves the configuration from it. Variables already set win.
func LoadConfig(envFile string) (*config.Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading env file: %w", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}
