package cli

import (
	"os"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string
	PlayerID  string
	Output    string
	Verbose   bool
}

// DefaultConfig returns a Config with values taken from the environment
func DefaultConfig() *Config {
	return &Config{
		ServerURL: getEnvOrDefault("UNO_SERVER", "http://localhost:8080"),
		PlayerID:  os.Getenv("UNO_PLAYER"),
		Output:    "text",
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
