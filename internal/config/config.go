package config

import "os"

// Config holds all runtime settings, read from the environment.
type Config struct {
	ListenAddr string
	DBPath     string
	JWTSecret  string
	AdminEmail string
	LogLevel   string
	LogFile    string
}

// Load reads the configuration from environment variables, applying
// defaults where unset. An empty JWTSecret means the secret is generated
// once and persisted in the database.
func Load() *Config {
	return &Config{
		ListenAddr: getEnv("LISTEN_ADDR", ":8080"),
		DBPath:     getEnv("DB_PATH", "stockroom.sqlite3"),
		JWTSecret:  getEnv("JWT_SECRET", ""),
		AdminEmail: getEnv("ADMIN_EMAIL", "admin@localhost"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogFile:    getEnv("LOG_FILE", ""),
	}
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}
