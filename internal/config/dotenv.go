package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// DefaultEnvFile is read when no env file is named.
const DefaultEnvFile = ".env"

// LoadDotEnv applies the given env files in order. Missing files are skipped
// and variables already set in the environment are never overwritten.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		err := godotenv.Load(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}

// LoadConfig builds the AppConfig from an env file and the environment.
// An empty envPath reads DefaultEnvFile if present; a named file must exist.
func LoadConfig(envPath string) (AppConfig, error) {
	if envPath == "" {
		envPath = DefaultEnvFile
	} else if _, err := os.Stat(envPath); err != nil {
		return AppConfig{}, fmt.Errorf("env file: %w", err)
	}
	if err := LoadDotEnv(envPath); err != nil {
		return AppConfig{}, err
	}

	env, err := LoadFromEnv()
	if err != nil {
		return AppConfig{}, err
	}
	return env.ToAppConfig()
}
