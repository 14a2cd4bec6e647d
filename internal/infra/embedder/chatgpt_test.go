package embedder

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opencouncil/complaint-dedup/internal/domain/dedup"
	"github.com/opencouncil/complaint-dedup/internal/infra/llm/chatgpt"
	apperrors "github.com/opencouncil/complaint-dedup/pkg/errors"
)

type fakeAPI struct {
	probeCount    atomic.Int64
	embedCount    atomic.Int64
	failProbes    atomic.Int64 // fail this many probes before succeeding
	failEmbedding bool
	embedding     []float32
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/models/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}
		f.probeCount.Add(1)
		if f.failProbes.Load() > 0 {
			f.failProbes.Add(-1)
			http.Error(w, `{"error":"model overloaded"}`, http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "test-model", "object": "model"})
	})
	mux.HandleFunc("/embeddings", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		f.embedCount.Add(1)
		if f.failEmbedding {
			http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data":  []map[string]any{{"embedding": f.embedding, "index": 0}},
			"usage": map[string]int{"prompt_tokens": 7, "total_tokens": 7},
		})
	})
	return mux
}

func newEmbedderUnderTest(t *testing.T, api *fakeAPI) *ChatGPTEmbedder {
	t.Helper()
	server := httptest.NewServer(api.handler())
	t.Cleanup(server.Close)

	client, err := chatgpt.NewClient("test-key", server.URL)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewChatGPTEmbedder(client, Config{Model: "test-model", MaxInputTokens: 8192}, logger)
}

func TestChatGPTEmbedderEmbedNormalizes(t *testing.T) {
	api := &fakeAPI{embedding: []float32{3, 4}}
	e := newEmbedderUnderTest(t, api)

	vector, err := e.Embed(context.Background(), "pothole on main st")
	require.NoError(t, err)
	require.Equal(t, []float32{0.6, 0.8}, vector)
	require.Equal(t, 2, e.Dimension())
}

func TestChatGPTEmbedderSingleFlightLoad(t *testing.T) {
	api := &fakeAPI{embedding: []float32{1, 0}}
	e := newEmbedderUnderTest(t, api)

	errs := make(chan error, 8)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- e.EnsureReady(context.Background())
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	require.Equal(t, int64(1), api.probeCount.Load())

	// already-ready callers never probe again
	require.NoError(t, e.EnsureReady(context.Background()))
	require.Equal(t, int64(1), api.probeCount.Load())
}

func TestChatGPTEmbedderLoadFailureThenRetry(t *testing.T) {
	api := &fakeAPI{embedding: []float32{1, 0}}
	api.failProbes.Store(1)
	e := newEmbedderUnderTest(t, api)

	err := e.EnsureReady(context.Background())
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, dedup.CodeModelLoad))

	// a failed load leaves the embedder retryable
	require.NoError(t, e.EnsureReady(context.Background()))
	require.Equal(t, int64(2), api.probeCount.Load())
}

func TestChatGPTEmbedderEmbedFailure(t *testing.T) {
	api := &fakeAPI{failEmbedding: true}
	e := newEmbedderUnderTest(t, api)

	_, err := e.Embed(context.Background(), "some text")
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, dedup.CodeEmbedding))
}

func TestChatGPTEmbedderRejectsEmptyText(t *testing.T) {
	api := &fakeAPI{embedding: []float32{1, 0}}
	e := newEmbedderUnderTest(t, api)

	_, err := e.Embed(context.Background(), "   ")
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, dedup.CodeEmbedding))
	require.Equal(t, int64(0), api.embedCount.Load())
}
