package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

var dotenvPath = ".env"

// parseEnv loads an optional .env file into the process environment and then
// overlays every DIET_* variable that is set. Unset variables leave the
// current value untouched.
func parseEnv(config *Config) error {
	if _, err := os.Stat(dotenvPath); err == nil {
		if err := godotenv.Load(dotenvPath); err != nil {
			return fmt.Errorf("load %s: %w", dotenvPath, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	return env.Parse(config)
}
