package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/opencouncil/complaint-dedup/internal/domain/complaint"
	"github.com/opencouncil/complaint-dedup/internal/domain/dedup"
	"github.com/opencouncil/complaint-dedup/internal/infra/config"
	apperrors "github.com/opencouncil/complaint-dedup/pkg/errors"
)

type stubChecker struct {
	checkFn func(ctx context.Context, req dedup.Request) (dedup.Verdict, error)
}

func (s *stubChecker) CheckForDuplicates(ctx context.Context, req dedup.Request) (dedup.Verdict, error) {
	if s.checkFn == nil {
		return dedup.Verdict{}, nil
	}
	return s.checkFn(ctx, req)
}

func newRouterUnderTest(t *testing.T, svc dedup.Service) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{}
	cfg.HTTP.Address = ":0"
	handler := NewHandler(svc, logger)
	return NewRouter(cfg, handler, logger).Handler
}

func performRequest(path, body string, handler http.Handler) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	return recorder
}

func decodeErrorBody(t *testing.T, payload []byte) map[string]map[string]string {
	t.Helper()
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(payload, &body))
	return body
}

func TestRouterDuplicateCheckSuccess(t *testing.T) {
	match := dedup.Match{
		Complaint: complaint.Record{ID: uuid.New(), Title: "Pothole on Main Street", Category: complaint.CategoryPotholes, Status: complaint.StatusOpen},
		Score:     0.93,
	}
	verdict := dedup.Verdict{IsDuplicate: true, SimilarComplaints: []dedup.Match{match}, HighestSimilarity: 0.93}

	svc := &stubChecker{
		checkFn: func(_ context.Context, req dedup.Request) (dedup.Verdict, error) {
			require.Equal(t, "Pothole on Main St", req.Title)
			require.Equal(t, complaint.CategoryPotholes, req.Category)
			require.Nil(t, req.Threshold)
			return verdict, nil
		},
	}

	recorder := performRequest("/api/v1/complaints/duplicate-check",
		`{"title":"Pothole on Main St","description":"Large pothole near the intersection","category":"potholes"}`,
		newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusOK, recorder.Code)

	var got dedup.Verdict
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.True(t, got.IsDuplicate)
	require.Len(t, got.SimilarComplaints, 1)
	require.Equal(t, match.Complaint.ID, got.SimilarComplaints[0].Complaint.ID)
	require.Equal(t, 0.93, got.HighestSimilarity)
}

func TestRouterDuplicateCheckThresholdOverride(t *testing.T) {
	svc := &stubChecker{
		checkFn: func(_ context.Context, req dedup.Request) (dedup.Verdict, error) {
			require.NotNil(t, req.Threshold)
			require.Equal(t, 0.9, *req.Threshold)
			return dedup.Verdict{SimilarComplaints: []dedup.Match{}}, nil
		},
	}

	recorder := performRequest("/api/v1/complaints/duplicate-check",
		`{"title":"t","description":"d","category":"noise","threshold":0.9}`,
		newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusOK, recorder.Code)
}

func TestRouterDuplicateCheckInvalidJSON(t *testing.T) {
	recorder := performRequest("/api/v1/complaints/duplicate-check", `{"title":123}`, newRouterUnderTest(t, &stubChecker{}))
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "invalid_request", errBody["error"]["code"])
	require.NotEmpty(t, errBody["error"]["message"])
}

func TestRouterDuplicateCheckErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		wantStatus int
	}{
		{"invalid input", dedup.CodeInvalidInput, http.StatusBadRequest},
		{"invalid threshold", dedup.CodeInvalidThreshold, http.StatusBadRequest},
		{"model load", dedup.CodeModelLoad, http.StatusBadGateway},
		{"embedding", dedup.CodeEmbedding, http.StatusBadGateway},
		{"repository", dedup.CodeRepository, http.StatusInternalServerError},
		{"dimension mismatch", dedup.CodeDimensionMismatch, http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubChecker{
				checkFn: func(context.Context, dedup.Request) (dedup.Verdict, error) {
					return dedup.Verdict{}, apperrors.Wrap(tc.code, "check failed", errors.New("boom"))
				},
			}

			recorder := performRequest("/api/v1/complaints/duplicate-check",
				`{"title":"t","description":"d","category":"noise"}`,
				newRouterUnderTest(t, svc))
			require.Equal(t, tc.wantStatus, recorder.Code)

			errBody := decodeErrorBody(t, recorder.Body.Bytes())
			require.Equal(t, tc.code, errBody["error"]["code"])
		})
	}
}

func TestRouterHealthz(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	recorder := httptest.NewRecorder()
	newRouterUnderTest(t, &stubChecker{}).ServeHTTP(recorder, req)
	require.Equal(t, http.StatusOK, recorder.Code)
}
