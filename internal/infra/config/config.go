package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP  HTTPConfig  `yaml:"http"`
	LLM   LLMConfig   `yaml:"llm"`
	FAQ   FAQConfig   `yaml:"faq"`
	Store StoreConfig `yaml:"store"`
	Votes VotesConfig `yaml:"votes"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// LLMConfig contains ChatGPT/OpenAI settings.
type LLMConfig struct {
	APIKey      string  `yaml:"apiKey"`
	BaseURL     string  `yaml:"baseUrl"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
}

// FAQConfig controls the answer resolution pipeline.
type FAQConfig struct {
	Prompt            string        `yaml:"prompt"`
	FallbackAnswer    string        `yaml:"fallbackAnswer"`
	MinQuestionLen    int           `yaml:"minQuestionLen"`
	GenerationTimeout time.Duration `yaml:"generationTimeout"`
	MaxToolRounds     int           `yaml:"maxToolRounds"`
	ToolTokenBudget   int           `yaml:"toolTokenBudget"`
	SeedFile          string        `yaml:"seedFile"`
}

// StoreConfig selects and configures the FAQ store backend.
type StoreConfig struct {
	Backend  string         `yaml:"backend"`
	Postgres PostgresConfig `yaml:"postgres"`
	Valkey   ValkeyConfig   `yaml:"valkey"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// ValkeyConfig contains connection information for the valkey backend.
type ValkeyConfig struct {
	Addr string `yaml:"addr"`
}

// VotesConfig configures the optional vote event stream.
type VotesConfig struct {
	Kafka KafkaConfig `yaml:"kafka"`
}

// KafkaConfig describes the vote event topic.
type KafkaConfig struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// Store backend names accepted by StoreConfig.Backend.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendValkey   = "valkey"
)

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.LLM.Temperature = float32(parsed)
		}
	}
	if v := os.Getenv("FAQ_PROMPT"); v != "" {
		cfg.FAQ.Prompt = v
	}
	if v := os.Getenv("FAQ_FALLBACK_ANSWER"); v != "" {
		cfg.FAQ.FallbackAnswer = v
	}
	if v := os.Getenv("FAQ_MIN_QUESTION_LEN"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.FAQ.MinQuestionLen = parsed
		}
	}
	if v := os.Getenv("FAQ_GENERATION_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.FAQ.GenerationTimeout = parsed
		}
	}
	if v := os.Getenv("FAQ_MAX_TOOL_ROUNDS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.FAQ.MaxToolRounds = parsed
		}
	}
	if v := os.Getenv("FAQ_TOOL_TOKEN_BUDGET"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.FAQ.ToolTokenBudget = parsed
		}
	}
	if v := os.Getenv("FAQ_SEED_FILE"); v != "" {
		cfg.FAQ.SeedFile = v
	}
	if v := os.Getenv("STORE_BACKEND"); v != "" {
		cfg.Store.Backend = strings.ToLower(v)
	}
	if v := os.Getenv("STORE_POSTGRES_DSN"); v != "" {
		cfg.Store.Postgres.DSN = v
	}
	if v := os.Getenv("STORE_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Store.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("STORE_POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Store.Postgres.MinConns = int32(parsed)
		}
	}
	if v := os.Getenv("STORE_VALKEY_ADDR"); v != "" {
		cfg.Store.Valkey.Addr = v
	}
	if v := os.Getenv("VOTES_KAFKA_ENABLED"); v != "" {
		cfg.Votes.Kafka.Enabled = parseBool(v)
	}
	if v := os.Getenv("VOTES_KAFKA_BROKERS"); v != "" {
		cfg.Votes.Kafka.Brokers = splitList(v)
	}
	if v := os.Getenv("VOTES_KAFKA_TOPIC"); v != "" {
		cfg.Votes.Kafka.Topic = v
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 60 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
		},
		LLM: LLMConfig{
			Model:       "gpt-4o-mini",
			Temperature: 0.2,
		},
		FAQ: FAQConfig{
			Prompt:            "You are an AI assistant that answers questions based on retrieved information. Use the getRelevantInformation tool to find the most up-to-date information related to the question. The information is a JSON string of FAQs. Find the most relevant FAQ to answer the question. If no relevant FAQ is found, say that you could not find an answer. Respond with a JSON object of the form {\"answer\": \"...\", \"sourceId\": \"...\"}; omit sourceId when no relevant FAQ was found.",
			FallbackAnswer:    "I'm sorry, but I couldn't find an answer to your question in the available information.",
			MinQuestionLen:    10,
			GenerationTimeout: 45 * time.Second,
			MaxToolRounds:     4,
			ToolTokenBudget:   4096,
			SeedFile:          "configs/faqs.json",
		},
		Store: StoreConfig{
			Backend: BackendMemory,
			Postgres: PostgresConfig{
				MaxConns: 4,
			},
		},
		Votes: VotesConfig{
			Kafka: KafkaConfig{
				Topic: "faq.votes",
			},
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.FAQ.Prompt == "" {
		return errors.New("faq.prompt cannot be empty")
	}
	if c.FAQ.FallbackAnswer == "" {
		return errors.New("faq.fallbackAnswer cannot be empty")
	}
	if c.FAQ.MinQuestionLen <= 0 {
		return errors.New("faq.minQuestionLen must be positive")
	}
	if c.FAQ.MaxToolRounds <= 0 {
		return errors.New("faq.maxToolRounds must be positive")
	}
	switch c.Store.Backend {
	case BackendMemory:
	case BackendPostgres:
		if strings.TrimSpace(c.Store.Postgres.DSN) == "" {
			return errors.New("store.postgres.dsn cannot be empty when the postgres backend is selected")
		}
	case BackendValkey:
		if strings.TrimSpace(c.Store.Valkey.Addr) == "" {
			return errors.New("store.valkey.addr cannot be empty when the valkey backend is selected")
		}
	default:
		return fmt.Errorf("store.backend must be one of %s, %s, %s", BackendMemory, BackendPostgres, BackendValkey)
	}
	if c.Votes.Kafka.Enabled {
		if len(c.Votes.Kafka.Brokers) == 0 {
			return errors.New("votes.kafka.brokers cannot be empty when the vote stream is enabled")
		}
		if strings.TrimSpace(c.Votes.Kafka.Topic) == "" {
			return errors.New("votes.kafka.topic cannot be empty when the vote stream is enabled")
		}
	}
	return nil
}
