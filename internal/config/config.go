package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App    App    `mapstructure:"app"`
	Scrape Scrape `mapstructure:"scrape"`
	AI     AI     `mapstructure:"ai"`
	Vector Vector `mapstructure:"vector"`
	RAG    RAG    `mapstructure:"rag"`
	Server Server `mapstructure:"server"`
}

// App holds general application configuration.
type App struct {
	LogLevel string `mapstructure:"log_level"`
	DataDir  string `mapstructure:"data_dir"`
}

// Scrape holds harvesting and backfill configuration.
type Scrape struct {
	BaseURL        string `mapstructure:"base_url"`
	MaxArticles    int    `mapstructure:"max_articles"` // <= 0 means unbounded
	RequestTimeout string `mapstructure:"request_timeout"`
	FetchDelay     string `mapstructure:"fetch_delay"`    // Politeness delay between detail fetches
	ConsentWait    string `mapstructure:"consent_wait"`   // Bounded wait for the consent prompt
	LoadMoreWait   string `mapstructure:"load_more_wait"` // Bounded wait for the load-more control
	UserAgent      string `mapstructure:"user_agent"`
}

// AI holds LLM configuration.
type AI struct {
	Gemini GeminiConfig `mapstructure:"gemini"`
}

// GeminiConfig holds Google Gemini configuration.
type GeminiConfig struct {
	APIKey         string  `mapstructure:"api_key"`
	Model          string  `mapstructure:"model"`
	EmbeddingModel string  `mapstructure:"embedding_model"`
	Temperature    float32 `mapstructure:"temperature"`
}

// Vector holds the Chroma vector index configuration.
type Vector struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	Collection string `mapstructure:"collection"`
}

// RAG holds chunking and retrieval configuration.
type RAG struct {
	ChunkSize    int `mapstructure:"chunk_size"`
	ChunkOverlap int `mapstructure:"chunk_overlap"`
	TopK         int `mapstructure:"top_k"`
}

// Server holds the dashboard API configuration.
type Server struct {
	Port int `mapstructure:"port"`
}

var globalConfig *Config

// Load reads configuration from .env, an optional YAML config file, and the
// environment, in ascending precedence. Subsequent calls return the first
// loaded config.
func Load(configFile string) (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			fmt.Printf("Warning: error loading .env file: %v\n", err)
		}
	}

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
		viper.SetConfigName(".bylines")
		viper.SetConfigType("yaml")
	}

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// GEMINI_API_KEY is the conventional env name; prefer it when set.
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		config.AI.Gemini.APIKey = key
	}

	globalConfig = config
	return config, nil
}

// Reset clears the cached configuration. Intended for tests.
func Reset() {
	globalConfig = nil
	viper.Reset()
}

func setDefaults() {
	viper.SetDefault("app.log_level", "info")
	viper.SetDefault("app.data_dir", ".bylines-data")

	viper.SetDefault("scrape.base_url", "https://yle.fi")
	viper.SetDefault("scrape.max_articles", 0)
	viper.SetDefault("scrape.request_timeout", "10s")
	viper.SetDefault("scrape.fetch_delay", "1s")
	viper.SetDefault("scrape.consent_wait", "4s")
	viper.SetDefault("scrape.load_more_wait", "2s")
	viper.SetDefault("scrape.user_agent",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")

	viper.SetDefault("ai.gemini.model", "gemini-1.5-flash")
	viper.SetDefault("ai.gemini.embedding_model", "text-embedding-004")
	viper.SetDefault("ai.gemini.temperature", 0.3)

	viper.SetDefault("vector.host", "localhost")
	viper.SetDefault("vector.port", 8000)
	viper.SetDefault("vector.collection", "journalist_articles")

	viper.SetDefault("rag.chunk_size", 1000)
	viper.SetDefault("rag.chunk_overlap", 200)
	viper.SetDefault("rag.top_k", 5)

	viper.SetDefault("server.port", 8080)
}
