package params

import (
	"os"

	"github.com/joho/godotenv"
)

type Input struct {
	// ActionsFile is the action stream to replay. "-" reads stdin.
	ActionsFile string
}

type API struct {
	Enabled bool
	Addr    string
}

type Config struct {
	Input   Input
	API     API
	LogFile string
}

func Default() Config {
	return Config{
		Input: Input{
			ActionsFile: "actions.txt",
		},
		API: API{
			Enabled: false,
			Addr:    ":8080",
		},
		LogFile: "",
	}
}

// LoadFromEnv loads configuration from a .env file (if present) and
// environment variables. Priority: ENV > .env file > defaults.
func LoadFromEnv(envPath string) Config {
	cfg := Default()

	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load() // loads .env from current directory
	}

	cfg.Input.ActionsFile = getEnv("ACTIONS_FILE", cfg.Input.ActionsFile)
	cfg.API.Addr = getEnv("HTTP_ADDR", cfg.API.Addr)
	cfg.LogFile = getEnv("LOG_FILE", cfg.LogFile)

	if v := os.Getenv("API_ENABLED"); v != "" {
		cfg.API.Enabled = v == "true"
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
