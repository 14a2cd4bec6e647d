package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/opencouncil/complaint-dedup/internal/domain/complaint"
	"github.com/opencouncil/complaint-dedup/internal/domain/dedup"
	"github.com/opencouncil/complaint-dedup/internal/infra/complaintrepo"
	"github.com/opencouncil/complaint-dedup/internal/infra/config"
	"github.com/opencouncil/complaint-dedup/internal/infra/embedcache"
	"github.com/opencouncil/complaint-dedup/internal/infra/embedder"
	"github.com/opencouncil/complaint-dedup/internal/infra/llm/chatgpt"
)

func provideDedupConfig(cfg *config.Config) dedup.Config {
	return dedup.Config{
		DefaultThreshold: cfg.Dedup.DefaultThreshold,
		MaxConcurrency:   cfg.Dedup.MaxConcurrency,
		CacheTTL:         cfg.Dedup.Cache.TTL,
		PrefilterLimit:   cfg.Dedup.PrefilterLimit,
	}
}

func provideEmbedder(cfg *config.Config, logger *slog.Logger) (dedup.Embedder, error) {
	if strings.TrimSpace(cfg.LLM.APIKey) == "" {
		logger.Warn("llm api key not set, using deterministic embedder; duplicate scores will not be semantic")
		return embedder.NewDeterministicEmbedder(0), nil
	}

	client, err := chatgpt.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL)
	if err != nil {
		return nil, err
	}
	return embedder.NewChatGPTEmbedder(client, embedder.Config{
		Model:             cfg.LLM.EmbeddingModel,
		MaxInputTokens:    cfg.LLM.MaxInputTokens,
		RequestsPerSecond: cfg.LLM.RequestsPerSecond,
		Burst:             cfg.LLM.Burst,
	}, logger), nil
}

func provideComplaintRepository(cfg *config.Config, logger *slog.Logger) complaint.Repository {
	fallback := complaintrepo.NewMemoryRepository()
	dsn := strings.TrimSpace(cfg.Postgres.DSN)
	if dsn == "" {
		logger.Info("postgres dsn not set, using memory repository")
		return fallback
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory repository", "error", err)
		return fallback
	}
	if cfg.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Postgres.MaxConns
	}
	if cfg.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory repository", "error", err)
		return fallback
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory repository", "error", err)
		pool.Close()
		return fallback
	}
	logger.Info("postgres complaint repository enabled")
	return complaintrepo.NewPostgresRepository(pool)
}

func provideEmbeddingCache(cfg *config.Config, logger *slog.Logger) dedup.EmbeddingCache {
	if !cfg.Dedup.Cache.Enabled {
		// no cache: every check re-embeds the full candidate pool
		return nil
	}

	addr := strings.TrimSpace(cfg.Dedup.Cache.ValkeyAddr)
	if addr == "" {
		logger.Info("embedding cache enabled without valkey addr, using in-process cache")
		return embedcache.NewMemoryCache()
	}

	opt, err := buildValkeyOptions(addr)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to in-process cache", "error", err)
		return embedcache.NewMemoryCache()
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to in-process cache", "error", err)
		return embedcache.NewMemoryCache()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to in-process cache", "error", err)
		return embedcache.NewMemoryCache()
	}
	logger.Info("valkey embedding cache enabled", "addr", addr)
	return embedcache.NewValkeyCache(client, "dedup")
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}
