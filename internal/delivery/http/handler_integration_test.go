package http

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ultrascore/backend/config"
	"github.com/ultrascore/backend/internal/domain"
	"github.com/ultrascore/backend/internal/infrastructure/quota"
	"github.com/ultrascore/backend/internal/usecase"
)

// TestMain sets up test environment before running tests
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// fakeAnalyzer returns a canned score or error and records the last request
type fakeAnalyzer struct {
	score   *domain.UltraScore
	err     error
	calls   int
	request *domain.AnalysisRequest
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, request *domain.AnalysisRequest) (*domain.UltraScore, error) {
	f.calls++
	f.request = request
	return f.score, f.err
}

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func sampleScore() *domain.UltraScore {
	name := "Rolled Oats"
	trust := 92
	return &domain.UltraScore{
		FinalScore:  76,
		Category:    domain.ScoreGood,
		TrustScore:  &trust,
		ProductName: &name,
		Breakdown: domain.ScoreBreakdown{
			BaseScore:   50,
			Adjustments: []domain.ScoreAdjustment{{Reason: "NOVA Group 1", Points: 15}, {Reason: "Positive Nutrients", Points: 11}},
		},
	}
}

// setupTestRouter creates a test router with a fake analyzer and a real in-memory quota
func setupTestRouter(t *testing.T, analyzer Analyzer, dailyLimit int) *gin.Engine {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"http://localhost:5173"},
		},
	}

	store := quota.NewMemoryStore(time.Hour)
	t.Cleanup(func() { _ = store.Close() })
	quotaService := usecase.NewQuotaService(store, usecase.QuotaServiceConfig{Limit: dailyLimit, Window: 24 * time.Hour}, nil)

	router := SetupRouter(cfg, NewHandler(analyzer, quotaService, nil), nil)
	require.NotNil(t, router)
	return router
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "203.0.113.7:4242"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["message"]
}

func TestHealthCheckEndpoint(t *testing.T) {
	router := setupTestRouter(t, &fakeAnalyzer{}, 10)

	t.Run("returns healthy status", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "healthy", response["status"])
		assert.Equal(t, "ultrascore-backend", response["service"])
		assert.NotEmpty(t, response["version"])
		assert.NotEmpty(t, w.Header().Get(requestIDHeader))
	})

	t.Run("accepts GET requests only", func(t *testing.T) {
		for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(method, "/health", nil))
			assert.Equal(t, http.StatusNotFound, w.Code, method)
		}
	})
}

func TestAnalyzeEndpoint_Success(t *testing.T) {
	analyzer := &fakeAnalyzer{score: sampleScore()}
	router := setupTestRouter(t, analyzer, 10)

	w := postJSON(router, "/api/v1/analyze", `{"term":"  rolled oats  "}`)
	require.Equal(t, http.StatusOK, w.Code)

	var got domain.UltraScore
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, *sampleScore(), got)
	assert.NotContains(t, w.Body.String(), "overrideReason")

	require.NotNil(t, analyzer.request)
	assert.Equal(t, "rolled oats", analyzer.request.Term)
	assert.False(t, analyzer.request.HasImage())
}

func TestAnalyzeEndpoint_Image(t *testing.T) {
	oversized := make([]byte, maxImageBytes+1)
	copy(oversized, pngHeader)

	tests := []struct {
		name        string
		image       string
		wantStatus  int
		wantMIME    string
		wantMessage string
	}{
		{name: "raw base64 png", image: base64.StdEncoding.EncodeToString(pngHeader), wantStatus: http.StatusOK, wantMIME: "image/png"},
		{name: "data url", image: "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngHeader), wantStatus: http.StatusOK, wantMIME: "image/png"},
		{name: "not base64", image: "%%%not-base64%%%", wantStatus: http.StatusBadRequest, wantMessage: msgInvalidImage},
		{name: "not an image", image: base64.StdEncoding.EncodeToString([]byte("just some text")), wantStatus: http.StatusBadRequest, wantMessage: msgInvalidImage},
		{name: "too large", image: base64.StdEncoding.EncodeToString(oversized), wantStatus: http.StatusRequestEntityTooLarge, wantMessage: msgImageTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyzer := &fakeAnalyzer{score: sampleScore()}
			router := setupTestRouter(t, analyzer, 10)

			w := postJSON(router, "/api/v1/analyze", fmt.Sprintf(`{"term":"cereal","image":%q}`, tt.image))
			assert.Equal(t, tt.wantStatus, w.Code)

			if tt.wantStatus == http.StatusOK {
				require.NotNil(t, analyzer.request)
				assert.Equal(t, pngHeader, analyzer.request.Image)
				assert.Equal(t, tt.wantMIME, analyzer.request.ImageMIMEType)
			} else {
				assert.Equal(t, tt.wantMessage, decodeMessage(t, w))
				assert.Zero(t, analyzer.calls)
			}
		})
	}
}

func TestAnalyzeEndpoint_BodyTooLarge(t *testing.T) {
	analyzer := &fakeAnalyzer{score: sampleScore()}
	router := setupTestRouter(t, analyzer, 10)

	padding := strings.Repeat("A", maxAnalyzeBodyBytes)
	w := postJSON(router, "/api/v1/analyze", fmt.Sprintf(`{"term":"cereal","image":%q}`, padding))

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, msgImageTooLarge, decodeMessage(t, w))
	assert.Zero(t, analyzer.calls)
}

func TestAnalyzeEndpoint_Validation(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantMessage string
	}{
		{name: "missing term", body: `{}`, wantMessage: "Search term is required."},
		{name: "blank term", body: `{"term":"   "}`, wantMessage: "Search term is required."},
		{name: "malformed json", body: `{"term":`, wantMessage: "Invalid request body."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyzer := &fakeAnalyzer{score: sampleScore()}
			router := setupTestRouter(t, analyzer, 10)

			w := postJSON(router, "/api/v1/analyze", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.wantMessage, decodeMessage(t, w))
			assert.Zero(t, analyzer.calls)
		})
	}
}

func TestAnalyzeEndpoint_ErrorMapping(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "rejection with reason",
			err:         &domain.RejectionError{Reason: "This is a car, not a consumable product."},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "This is a car, not a consumable product.",
		},
		{
			name:        "collaborator failure",
			err:         fmt.Errorf("%w: upstream 503", domain.ErrCollaboratorFailure),
			wantStatus:  http.StatusBadGateway,
			wantMessage: "Failed to analyze product.",
		},
		{
			name:        "configuration failure",
			err:         fmt.Errorf("%w: no api key", domain.ErrConfiguration),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Analysis service not configured.",
		},
		{
			name:        "unscorable category",
			err:         fmt.Errorf("%w: category missing", domain.ErrUnscorableCategory),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Unable to score this product.",
		},
		{
			name:        "caller cancelled",
			err:         context.Canceled,
			wantStatus:  http.StatusGatewayTimeout,
			wantMessage: "Request cancelled.",
		},
		{
			name:        "deadline exceeded",
			err:         fmt.Errorf("%w: verify_safety: rate limiter: would exceed context deadline", context.DeadlineExceeded),
			wantStatus:  http.StatusGatewayTimeout,
			wantMessage: "Request cancelled.",
		},
		{
			name:        "unexpected error hides details",
			err:         errors.New("secret stack trace"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Internal server error.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter(t, &fakeAnalyzer{err: tt.err}, 10)

			w := postJSON(router, "/api/v1/analyze", `{"term":"anything"}`)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantMessage, decodeMessage(t, w))
		})
	}
}

func TestAnalyzeEndpoint_NotConfigured(t *testing.T) {
	router := setupTestRouter(t, nil, 10)

	w := postJSON(router, "/api/v1/analyze", `{"term":"oats"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Analysis service not configured.", decodeMessage(t, w))
}

func TestAnalyzeEndpoint_Quota(t *testing.T) {
	t.Run("blocks after the daily limit", func(t *testing.T) {
		analyzer := &fakeAnalyzer{score: sampleScore()}
		router := setupTestRouter(t, analyzer, 2)

		for i := 0; i < 2; i++ {
			w := postJSON(router, "/api/v1/analyze", `{"term":"oats"}`)
			require.Equal(t, http.StatusOK, w.Code)
		}

		w := postJSON(router, "/api/v1/analyze", `{"term":"oats"}`)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "Rate limit exceeded. Try again tomorrow.", decodeMessage(t, w))
		assert.Equal(t, 2, analyzer.calls)
	})

	t.Run("failed analyses do not count", func(t *testing.T) {
		analyzer := &fakeAnalyzer{err: domain.NewRejectionError(nil)}
		router := setupTestRouter(t, analyzer, 1)

		for i := 0; i < 3; i++ {
			w := postJSON(router, "/api/v1/analyze", `{"term":"a rock"}`)
			require.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, domain.DefaultRejectionMessage, decodeMessage(t, w))
		}
		assert.Equal(t, 3, analyzer.calls)
	})
}

func TestScoreEndpoint(t *testing.T) {
	router := setupTestRouter(t, nil, 10)

	t.Run("scores attributes without the analyzer", func(t *testing.T) {
		w := postJSON(router, "/api/v1/score", `{
			"isConsumerProduct": true,
			"productCategory": "Beverage",
			"productName": "Sparkling Water",
			"nutrientsPer100g": {"addedSugarG": 0, "sodiumMg": 0}
		}`)
		require.Equal(t, http.StatusOK, w.Code)

		var got domain.UltraScore
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, 100, got.FinalScore)
		assert.Equal(t, domain.ScoreExcellent, got.Category)
		require.NotNil(t, got.TrustScore)
		assert.Equal(t, 99, *got.TrustScore)
	})

	t.Run("rejects non-products", func(t *testing.T) {
		w := postJSON(router, "/api/v1/score", `{"isConsumerProduct": false, "rejectionReason": "Not a product."}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Not a product.", decodeMessage(t, w))
	})

	t.Run("missing category", func(t *testing.T) {
		w := postJSON(router, "/api/v1/score", `{"isConsumerProduct": true}`)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestCORSPreflightThroughRouter(t *testing.T) {
	router := setupTestRouter(t, &fakeAnalyzer{}, 10)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/analyze", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}
