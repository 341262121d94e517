// Package config centralizes environment handling for the deployable
// commands in this repository.
package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads a local .env file when one exists. A missing file is not
// an error; deployed environments set their variables directly.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: .env file could not be loaded: %v", err)
	}
}

// CheckEnv returns the value of key or exits the process.
func CheckEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatalf("WARNING: %s environment variable is required!", key)
	}
	return value
}

// EnvOr returns the value of key, or fallback when unset or empty.
func EnvOr(key string, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
