package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Docs     DocsConfig
	Llm      LLMConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RequestTopic       string
}

type DatabaseConfig struct {
	Connection string
}

type DocsConfig struct {
	Path string
}

type LLMConfig struct {
	UseLLM  bool   // USE_REAL_LLM selects the LLM synthesis strategy
	APIKey  string // required for the LLM strategy; absence forces fallback
	Model   string
	BaseURL string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RequestTopic:       getEnv("REQUEST_TOPIC_NAME", "PROCESS_LAB_REQUEST"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Docs: DocsConfig{
			Path: getEnv("DOCS_PATH", "./docs"),
		},
		Llm: LLMConfig{
			UseLLM:  getEnvAsBool("USE_REAL_LLM", false),
			APIKey:  getEnv("LLM_API_KEY", ""),
			Model:   getEnv("LLM_MODEL", "gpt-4"),
			BaseURL: getEnv("LLM_BASE_URL", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
