package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Environment variables
const (
	EnvExecutor = "FLASHARB_EXECUTOR"
	EnvOwner    = "FLASHARB_OWNER"
	EnvDebug    = "FLASHARB_DEBUG"
)

// LoadEnv loads environment variables from .env file
func LoadEnv() error {
	return godotenv.Load()
}

// GetEnvWithDefault gets an environment variable with a default value
func GetEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
