package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	JWKSURL     string
	CORSOrigins string
	Timezone    string // location for calendar-day boundaries, default UTC
	// Dev-only: account ID injected by the static verifier when no JWKS URL
	// is configured
	DevAccountID string

	// Progress policy
	UnlockThreshold  int           // word count at which AI features unlock
	SnapshotCooldown time.Duration // minimum gap between periodic snapshots

	// Token economy
	StartingTokens    int // balance granted at account provisioning
	WordsPerToken     int // RewardWriting grants words/WordsPerToken tokens
	ConsolationReward int // tokens for an incorrect challenge answer

	// Debug flags
	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:         getEnv("PORT", "8080"),
		Environment:  env,
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		JWKSURL:      getEnv("JWKS_URL", ""),
		CORSOrigins:  getEnv("CORS_ORIGINS", "http://localhost:3000"),
		Timezone:     getEnv("TIMEZONE", "UTC"),
		DevAccountID: getEnv("DEV_ACCOUNT_ID", "00000000-0000-0000-0000-000000000001"),

		UnlockThreshold:  getEnvInt("UNLOCK_THRESHOLD", 150),
		SnapshotCooldown: time.Duration(getEnvInt("SNAPSHOT_COOLDOWN_SECONDS", 600)) * time.Second,

		StartingTokens:    getEnvInt("STARTING_TOKENS", 100),
		WordsPerToken:     getEnvInt("WORDS_PER_TOKEN", 50),
		ConsolationReward: getEnvInt("CONSOLATION_REWARD", 1),

		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// Location resolves the configured timezone, falling back to UTC on a bad
// value so day-boundary math always has a location.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
