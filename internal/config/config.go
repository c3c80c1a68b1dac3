package config

import "os"

// Config holds application configuration loaded from environment variables.
// Empty DatabaseURL or RedisURL disables the corresponding store; an empty
// ResumeSecret means the server generates one per process.
type Config struct {
	Port         string
	DatabaseURL  string
	RedisURL     string
	ResumeSecret string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Port:         envOrDefault("PORT", "8009"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		RedisURL:     os.Getenv("REDIS_URL"),
		ResumeSecret: os.Getenv("RESUME_SECRET"),
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
