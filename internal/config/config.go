package config

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	API   APIConfig
	Chat  ChatConfig
	Store StoreConfig
}

type APIConfig struct {
	BaseURL string
	// WebBaseURL is the browser-facing origin used when building absolute
	// links embedded in shared chat messages.
	WebBaseURL string
	Timeout    time.Duration
}

type ChatConfig struct {
	WSURL            string
	PollInterval     time.Duration
	ShareDedupWindow time.Duration
}

type StoreConfig struct {
	Path string
}

func Load() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found or error loading .env file: %v", err)
	}

	return &Config{
		API: APIConfig{
			BaseURL:    getEnvOrDefault("API_BASE_URL", "http://localhost:8080"),
			WebBaseURL: getEnvOrDefault("WEB_BASE_URL", "http://localhost:3000"),
			Timeout:    getDurationOrDefault("HTTP_TIMEOUT", "15s"),
		},
		Chat: ChatConfig{
			WSURL:            getEnvOrDefault("WS_URL", "ws://localhost:8080/ws-stomp"),
			PollInterval:     getDurationOrDefault("PARTICIPANT_POLL_INTERVAL", "5s"),
			ShareDedupWindow: getDurationOrDefault("SHARE_DEDUP_WINDOW", "10m"),
		},
		Store: StoreConfig{
			Path: getEnvOrDefault("STATE_PATH", defaultStatePath()),
		},
	}
}

func defaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "state.db"
	}
	return filepath.Join(home, ".board-client", "state.db")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationOrDefault(key, defaultValue string) time.Duration {
	value := getEnvOrDefault(key, defaultValue)
	duration, err := time.ParseDuration(value)
	if err != nil {
		log.Fatalf("Invalid duration for %s: %v", key, err)
	}
	return duration
}
