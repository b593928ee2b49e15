// Package config loads all runtime settings from the environment, with
// an optional .env file for development.
package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// Match timings.
	PreparingDelay  time.Duration
	CelebrationWait time.Duration
	DestructionWait time.Duration

	// CleaningInterval is how often the registry sweep runs. Zero
	// disables sweeping.
	CleaningInterval time.Duration
	// AbandonedRetention is how long a disconnected matchless identity
	// stays reclaimable before the sweep may collect it.
	AbandonedRetention time.Duration

	// DatabaseURL, when set, enables persisting match results.
	DatabaseURL string

	LogLevel string
}

// Load reads the environment. A missing .env file is not an error;
// real deployments set variables directly.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:               env("PORT", "8081"),
		PreparingDelay:     duration("PREPARING_DELAY", 5*time.Second),
		CelebrationWait:    duration("CELEBRATION_WAIT", time.Minute),
		DestructionWait:    duration("GAME_DESTRUCTION_WAIT", 5*time.Minute),
		CleaningInterval:   duration("CLEANING_INTERVAL", 2*time.Minute),
		AbandonedRetention: duration("ABANDONED_RETENTION", 12*time.Hour),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		LogLevel:           env("LOG_LEVEL", "info"),
	}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func duration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
