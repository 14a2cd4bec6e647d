package embedder

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/pkoukk/tiktoken-go"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/opencouncil/complaint-dedup/internal/domain/dedup"
	"github.com/opencouncil/complaint-dedup/internal/infra/llm/chatgpt"
	apperrors "github.com/opencouncil/complaint-dedup/pkg/errors"
)

// Config holds the knobs for the remote embedder.
type Config struct {
	Model             string
	MaxInputTokens    int
	RequestsPerSecond float64
	Burst             int
}

// ChatGPTEmbedder produces embeddings through an OpenAI-compatible API. The
// model is loaded lazily on first use; concurrent first callers share a single
// load attempt instead of racing.
type ChatGPTEmbedder struct {
	client  *chatgpt.Client
	cfg     Config
	logger  *slog.Logger
	limiter *rate.Limiter

	loadGroup singleflight.Group
	ready     atomic.Bool
	encoding  atomic.Pointer[tiktoken.Tiktoken]
	dimension atomic.Int64
}

// NewChatGPTEmbedder constructs an embedder backed by the chatgpt client.
func NewChatGPTEmbedder(client *chatgpt.Client, cfg Config, logger *slog.Logger) *ChatGPTEmbedder {
	if logger == nil {
		logger = slog.Default()
	}
	e := &ChatGPTEmbedder{
		client: client,
		cfg:    cfg,
		logger: logger.With("component", "embedder.chatgpt"),
	}
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		e.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	return e
}

// EnsureReady probes the configured model. It is idempotent: once a load
// succeeds the embedder stays ready for the process lifetime, and concurrent
// callers during a load wait on the same in-flight attempt. A failed probe
// leaves the embedder unready so a later call can retry.
func (e *ChatGPTEmbedder) EnsureReady(ctx context.Context) error {
	if e.ready.Load() {
		return nil
	}

	result := e.loadGroup.DoChan("load", func() (any, error) {
		info, err := e.client.GetModel(ctx, e.cfg.Model)
		if err != nil {
			return nil, apperrors.Wrap(dedup.CodeModelLoad, "embedding model unavailable", err)
		}

		// The tokenizer only guards the input budget; a missing encoding
		// downgrades to sending text untruncated, it does not block readiness.
		if enc, encErr := tiktoken.EncodingForModel(e.cfg.Model); encErr != nil {
			e.logger.Warn("no tokenizer for model, skipping input truncation", "model", e.cfg.Model, "error", encErr)
		} else {
			e.encoding.Store(enc)
		}

		e.ready.Store(true)
		e.logger.Info("embedding model ready", "model", info.ID)
		return nil, nil
	})

	select {
	case res := <-result:
		return res.Err
	case <-ctx.Done():
		return apperrors.Wrap(dedup.CodeModelLoad, "embedding model load canceled", ctx.Err())
	}
}

// Embed returns the L2-normalized embedding for text. For a fixed model
// version the result depends only on the input.
func (e *ChatGPTEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := e.EnsureReady(ctx); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.Wrap(dedup.CodeEmbedding, "cannot embed empty text", nil)
	}

	input := e.truncate(text)
	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, apperrors.Wrap(dedup.CodeEmbedding, "rate limit wait canceled", err)
		}
	}

	resp, err := e.client.CreateEmbedding(ctx, chatgpt.EmbeddingRequest{
		Model: e.cfg.Model,
		Input: input,
	})
	if err != nil {
		return nil, apperrors.Wrap(dedup.CodeEmbedding, "embedding request failed", err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, apperrors.Wrap(dedup.CodeEmbedding, "embedding response empty", errors.New("no data"))
	}

	vector := make([]float32, len(resp.Data[0].Embedding))
	copy(vector, resp.Data[0].Embedding)
	e.dimension.Store(int64(len(vector)))

	if usage := resp.TokenUsage(); !usage.IsZero() {
		e.logger.Debug("embedding usage", "prompt_tokens", usage.PromptTokens, "total_tokens", usage.TotalTokens)
	}
	return l2Normalize(vector), nil
}

// Dimension reports the model's output width, 0 until the first successful
// embedding.
func (e *ChatGPTEmbedder) Dimension() int {
	return int(e.dimension.Load())
}

func (e *ChatGPTEmbedder) truncate(text string) string {
	enc := e.encoding.Load()
	if enc == nil || e.cfg.MaxInputTokens <= 0 {
		return text
	}
	tokens := enc.Encode(text, nil, nil)
	if len(tokens) <= e.cfg.MaxInputTokens {
		return text
	}
	e.logger.Warn("embedding input truncated", "tokens", len(tokens), "budget", e.cfg.MaxInputTokens)
	return enc.Decode(tokens[:e.cfg.MaxInputTokens])
}

var _ dedup.Embedder = (*ChatGPTEmbedder)(nil)
