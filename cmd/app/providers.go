package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/faq-assistant/internal/domain/faq"
	"github.com/yanqian/faq-assistant/internal/infra/config"
	"github.com/yanqian/faq-assistant/internal/infra/faqstore"
	"github.com/yanqian/faq-assistant/internal/infra/llm/chatgpt"
	"github.com/yanqian/faq-assistant/internal/infra/votestream"
)

func provideFAQConfig(cfg *config.Config) faq.Config {
	return faq.Config{
		Model:             cfg.LLM.Model,
		Temperature:       cfg.LLM.Temperature,
		SystemPrompt:      cfg.FAQ.Prompt,
		MinQuestionLen:    cfg.FAQ.MinQuestionLen,
		FallbackAnswer:    cfg.FAQ.FallbackAnswer,
		GenerationTimeout: cfg.FAQ.GenerationTimeout,
		MaxToolRounds:     cfg.FAQ.MaxToolRounds,
		ToolTokenBudget:   cfg.FAQ.ToolTokenBudget,
	}
}

func provideChatGPTClient(cfg *config.Config) (*chatgpt.Client, error) {
	return chatgpt.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL)
}

func provideStore(cfg *config.Config, logger *slog.Logger) (faq.Store, error) {
	switch cfg.Store.Backend {
	case config.BackendPostgres:
		return providePostgresStore(cfg, logger)
	case config.BackendValkey:
		return provideValkeyStore(cfg, logger)
	default:
		return provideMemoryStore(cfg, logger)
	}
}

func provideMemoryStore(cfg *config.Config, logger *slog.Logger) (faq.Store, error) {
	store := faqstore.NewMemoryStore()
	seed, err := loadSeed(cfg.FAQ.SeedFile)
	if err != nil {
		return nil, err
	}
	store.Seed(seed)
	logger.Info("faq memory store enabled", "records", len(seed))
	return store, nil
}

func providePostgresStore(cfg *config.Config, logger *slog.Logger) (faq.Store, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.Store.Postgres.DSN)
	if err != nil {
		return nil, fmt.Errorf("invalid postgres dsn: %w", err)
	}
	if cfg.Store.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Store.Postgres.MaxConns
	}
	if cfg.Store.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Store.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, fmt.Errorf("initialize postgres pool: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}
	logger.Info("faq postgres store enabled")
	return faqstore.NewPostgresStore(pool), nil
}

func provideValkeyStore(cfg *config.Config, logger *slog.Logger) (faq.Store, error) {
	opt, err := buildValkeyOptions(cfg.Store.Valkey.Addr)
	if err != nil {
		return nil, fmt.Errorf("invalid valkey configuration: %w", err)
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		return nil, fmt.Errorf("create valkey client: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("valkey ping failed: %w", err)
	}
	store := faqstore.NewValkeyStore(client, "faq")
	seed, err := loadSeed(cfg.FAQ.SeedFile)
	if err != nil {
		return nil, err
	}
	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelSeed()
	if err := store.Seed(seedCtx, seed); err != nil {
		return nil, fmt.Errorf("seed valkey store: %w", err)
	}
	logger.Info("faq valkey store enabled", "addr", cfg.Store.Valkey.Addr)
	return store, nil
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}

func provideVotePublisher(cfg *config.Config, logger *slog.Logger) faq.VotePublisher {
	if cfg.Votes.Kafka.Enabled {
		logger.Info("vote event stream enabled", "topic", cfg.Votes.Kafka.Topic)
		return votestream.NewKafkaPublisher(cfg.Votes.Kafka.Brokers, cfg.Votes.Kafka.Topic)
	}
	return votestream.NewNoopPublisher()
}

type seedFile struct {
	Faqs []faq.Record `json:"faqs"`
}

func loadSeed(path string) ([]faq.Record, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var seed seedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return seed.Faqs, nil
}
