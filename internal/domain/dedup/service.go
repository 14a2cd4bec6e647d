package dedup

import (
	"context"
	"fmt"
	"hash/fnv"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/opencouncil/complaint-dedup/internal/domain/complaint"
	apperrors "github.com/opencouncil/complaint-dedup/pkg/errors"
)

// Service decides whether a newly submitted complaint duplicates an existing
// active one in the same category.
type Service interface {
	CheckForDuplicates(ctx context.Context, req Request) (Verdict, error)
}

type service struct {
	cfg      Config
	repo     complaint.Repository
	embedder Embedder
	cache    EmbeddingCache
	logger   *slog.Logger
}

// NewService wires up the duplicate checker. cache may be nil, in which case
// every check re-embeds the full candidate pool.
func NewService(cfg Config, repo complaint.Repository, embedder Embedder, cache EmbeddingCache, logger *slog.Logger) Service {
	return &service{
		cfg:      cfg,
		repo:     repo,
		embedder: embedder,
		cache:    cache,
		logger:   logger.With("component", "dedup.service"),
	}
}

// CheckForDuplicates embeds the new complaint and every active complaint in
// its category, keeps candidates scoring at or above the threshold and returns
// them ranked. The check is read-only: nothing is persisted, and any failure
// aborts the whole check rather than producing a partial verdict.
func (s *service) CheckForDuplicates(ctx context.Context, req Request) (Verdict, error) {
	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	category := complaint.Category(strings.TrimSpace(string(req.Category)))

	switch {
	case title == "":
		return Verdict{}, apperrors.Wrap(CodeInvalidInput, "title cannot be empty", nil)
	case description == "":
		return Verdict{}, apperrors.Wrap(CodeInvalidInput, "description cannot be empty", nil)
	case category == "":
		return Verdict{}, apperrors.Wrap(CodeInvalidInput, "category cannot be empty", nil)
	}

	threshold := s.cfg.DefaultThreshold
	if req.Threshold != nil {
		threshold = *req.Threshold
	}
	if threshold < 0 || threshold > 1 {
		return Verdict{}, apperrors.Wrap(CodeInvalidThreshold,
			fmt.Sprintf("threshold %.3f outside [0, 1]", threshold), nil)
	}

	if err := s.embedder.EnsureReady(ctx); err != nil {
		return Verdict{}, err
	}

	target, candidates, err := s.candidatePool(ctx, category, comparisonText(title, description))
	if err != nil {
		return Verdict{}, err
	}

	scores, err := s.scoreCandidates(ctx, target, candidates)
	if err != nil {
		return Verdict{}, err
	}

	kept := make([]Match, 0, len(candidates))
	for i, record := range candidates {
		if scores[i] >= threshold {
			kept = append(kept, Match{Complaint: record, Score: scores[i]})
		}
	}
	ranked := Rank(kept)

	verdict := Verdict{
		IsDuplicate:       len(ranked) > 0,
		SimilarComplaints: ranked,
	}
	if len(ranked) > 0 {
		verdict.HighestSimilarity = ranked[0].Score
	}

	s.logger.Debug("duplicate check complete",
		"category", category,
		"candidates", len(candidates),
		"matches", len(ranked),
		"threshold", threshold,
	)
	return verdict, nil
}

// candidatePool fetches the records the new complaint is compared against,
// plus the new complaint's own embedding. With a vector-indexed repository and
// a configured prefilter limit the pool is capped to the nearest records;
// otherwise the whole active category is returned and embedded from scratch.
func (s *service) candidatePool(ctx context.Context, category complaint.Category, text string) ([]float32, []complaint.Record, error) {
	if limit := s.cfg.PrefilterLimit; limit > 0 {
		if searcher, ok := s.repo.(complaint.SimilaritySearcher); ok {
			target, err := s.embedder.Embed(ctx, text)
			if err != nil {
				return nil, nil, err
			}
			candidates, err := searcher.FindSimilarActive(ctx, category, target, limit)
			if err != nil {
				return nil, nil, apperrors.Wrap(CodeRepository, "candidate prefilter failed", err)
			}
			return target, candidates, nil
		}
	}

	candidates, err := s.repo.FindActiveByCategory(ctx, category)
	if err != nil {
		return nil, nil, apperrors.Wrap(CodeRepository, "candidate lookup failed", err)
	}
	target, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, nil, err
	}
	return target, candidates, nil
}

// scoreCandidates embeds and scores each candidate against the target vector.
// Embedding is fanned out with a bounded errgroup; scores land in a slice
// indexed by candidate position, so the later ranking is deterministic for
// fixed inputs regardless of goroutine scheduling.
func (s *service) scoreCandidates(ctx context.Context, target []float32, candidates []complaint.Record) ([]float64, error) {
	scores := make([]float64, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	if s.cfg.MaxConcurrency > 1 {
		g.SetLimit(s.cfg.MaxConcurrency)
	} else {
		g.SetLimit(1)
	}

	for i, record := range candidates {
		i, record := i, record
		g.Go(func() error {
			vector, err := s.candidateEmbedding(gctx, record)
			if err != nil {
				return err
			}
			score, err := CosineSimilarity(target, vector)
			if err != nil {
				return err
			}
			scores[i] = score
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scores, nil
}

func (s *service) candidateEmbedding(ctx context.Context, record complaint.Record) ([]float32, error) {
	text := comparisonText(record.Title, record.Description)

	if s.cache == nil {
		return s.embedder.Embed(ctx, text)
	}

	key := cacheKey(record, text)
	if vector, ok, err := s.cache.Get(ctx, key); err != nil {
		s.logger.Warn("embedding cache read failed, recomputing", "complaint_id", record.ID, "error", err)
	} else if ok {
		return vector, nil
	}

	vector, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Put(ctx, key, vector, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("embedding cache write failed", "complaint_id", record.ID, "error", err)
	}
	return vector, nil
}

// cacheKey ties a cached vector to both the complaint and its current text, so
// an edited complaint never serves a stale embedding.
func cacheKey(record complaint.Record, text string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	return fmt.Sprintf("%s:%x", record.ID, h.Sum64())
}
