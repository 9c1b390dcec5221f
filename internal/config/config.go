package config

import "os"

// Config holds the runtime configuration loaded from the environment
type Config struct {
	Port     string
	DBPath   string
	LogPath  string
	LogLevel string
	GinMode  string
}

// Load reads configuration from environment variables, applying defaults
// for anything unset
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		DBPath:   getEnv("DB_PATH", "./data/transit.db"),
		LogPath:  getEnv("LOG_PATH", "./logs/server.log"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		GinMode:  getEnv("GIN_MODE", "debug"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
