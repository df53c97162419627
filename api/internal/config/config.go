package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// LLMProvider is the engine used when a request carries no llm_name.
	LLMProvider string

	OpenAIAPIKey   string
	OpenAIModel    string
	OpenAIBaseURL  string
	GeminiAPIKey   string
	GeminiModel    string
	OllamaURL      string
	OllamaModel    string
	DeepseekAPIKey string
	DeepseekModel  string

	RequestTimeout time.Duration
	RateLimitRPM   int

	DatabaseType string // postgres | sqlite
	DatabaseURL  string
	DatabasePath string

	TelegramToken string
	// WebhookURL switches the bot from long polling to webhook mode.
	WebhookURL string
}

func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getEnvInt(k string, def int) int {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("config: bad %s=%q, using %d", k, v, def)
		return def
	}
	return n
}

// getEnvDuration accepts Go durations ("90s") and bare seconds ("90").
func getEnvDuration(k string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("config: bad %s=%q, using %s", k, v, def)
		return def
	}
	return d
}

// Load reads .env (if present) and then the process environment.
// API keys are not required here: a missing key fails at call time.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: .env: %v", err)
	}

	return &Config{
		Port: getEnv("PORT", "8000"),

		LLMProvider: strings.ToLower(getEnv("LLM_PROVIDER", "gpt")),

		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:    getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:  getEnv("OPENAI_BASE_URL", ""),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		OllamaURL:      getEnv("OLLAMA_URL", "http://localhost:11434"),
		OllamaModel:    getEnv("OLLAMA_MODEL", "llama3.1"),
		DeepseekAPIKey: os.Getenv("DEEPSEEK_API_KEY"),
		DeepseekModel:  getEnv("DEEPSEEK_MODEL", "deepseek-chat"),

		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 90*time.Second),
		RateLimitRPM:   getEnvInt("RATE_LIMIT_RPM", 30),

		DatabaseType: strings.ToLower(getEnv("DATABASE_TYPE", "postgres")),
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		DatabasePath: getEnv("DB_PATH", ""),

		TelegramToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		WebhookURL:    getEnv("WEBHOOK_URL", ""),
	}
}

// AuditEnabled reports whether a generation audit store is configured.
func (c *Config) AuditEnabled() bool {
	switch c.DatabaseType {
	case "sqlite", "sqlite3":
		return c.DatabasePath != ""
	default:
		return c.DatabaseURL != ""
	}
}
