package http

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ultrascore/backend/internal/domain"
	"github.com/ultrascore/backend/internal/usecase"
)

const (
	serviceName    = "ultrascore-backend"
	serviceVersion = "1.0.0"

	maxImageBytes = 8 << 20
	// base64 of the largest image plus room for the term and a data URL prefix
	maxAnalyzeBodyBytes = (maxImageBytes+2)/3*4 + 64<<10
)

// User-facing messages. They never carry internal details.
const (
	msgInvalidBody      = "Invalid request body."
	msgTermRequired     = "Search term is required."
	msgInvalidImage     = "Image must be a base64 encoded picture."
	msgImageTooLarge    = "Image is too large."
	msgQuotaExceeded    = "Rate limit exceeded. Try again tomorrow."
	msgNotConfigured    = "Analysis service not configured."
	msgAnalysisFailed   = "Failed to analyze product."
	msgUnscorable       = "Unable to score this product."
	msgInternalError    = "Internal server error."
	msgRequestCancelled = "Request cancelled."
)

// Analyzer produces a score for one analysis request
type Analyzer interface {
	Analyze(ctx context.Context, request *domain.AnalysisRequest) (*domain.UltraScore, error)
}

// QuotaGuard checks and records per-client usage
type QuotaGuard interface {
	Allow(ctx context.Context, key string) error
	Record(ctx context.Context, key string)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	analyzer Analyzer
	quota    QuotaGuard
	logger   *zap.Logger
}

// NewHandler creates a new HTTP handler. A nil analyzer makes /analyze
// answer with a configuration error; a nil quota disables rate limiting.
func NewHandler(analyzer Analyzer, quota QuotaGuard, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{analyzer: analyzer, quota: quota, logger: logger}
}

// AnalyzeRequest is the body of POST /api/v1/analyze
type AnalyzeRequest struct {
	Term  string `json:"term"`
	Image string `json:"image,omitempty"` // base64, optionally a data URL
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
		"version": serviceVersion,
	})
}

// Analyze runs the full AI-backed analysis for a term and optional image
func (h *Handler) Analyze(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxAnalyzeBodyBytes)

	var body AnalyzeRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondMessage(c, http.StatusRequestEntityTooLarge, msgImageTooLarge)
			return
		}
		respondMessage(c, http.StatusBadRequest, msgInvalidBody)
		return
	}

	term := strings.TrimSpace(body.Term)
	if term == "" {
		respondMessage(c, http.StatusBadRequest, msgTermRequired)
		return
	}

	ctx := c.Request.Context()
	client := c.ClientIP()
	if h.quota != nil {
		if err := h.quota.Allow(ctx, client); err != nil {
			h.respondError(c, err)
			return
		}
	}

	request := &domain.AnalysisRequest{Term: term}
	if body.Image != "" {
		image, mimeType, status, msg := decodeImage(body.Image)
		if status != 0 {
			respondMessage(c, status, msg)
			return
		}
		request.Image = image
		request.ImageMIMEType = mimeType
	}

	if h.analyzer == nil {
		h.respondError(c, domain.ErrConfiguration)
		return
	}

	score, err := h.analyzer.Analyze(ctx, request)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if h.quota != nil {
		h.quota.Record(ctx, client)
	}
	c.JSON(http.StatusOK, score)
}

// Score scores caller-supplied attributes without any AI calls
func (h *Handler) Score(c *gin.Context) {
	var attrs domain.ProductAttributes
	if err := c.ShouldBindJSON(&attrs); err != nil {
		respondMessage(c, http.StatusBadRequest, msgInvalidBody)
		return
	}

	if !attrs.IsConsumerProduct {
		h.respondError(c, domain.NewRejectionError(attrs.RejectionReason))
		return
	}

	score, err := usecase.CalculateUltraScore(&attrs)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, score)
}

// decodeImage accepts raw base64 or a data URL. A non-zero status means
// the image was rejected with msg.
func decodeImage(encoded string) (data []byte, mimeType string, status int, msg string) {
	if i := strings.Index(encoded, ";base64,"); strings.HasPrefix(encoded, "data:") && i >= 0 {
		encoded = encoded[i+len(";base64,"):]
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil || len(data) == 0 {
		return nil, "", http.StatusBadRequest, msgInvalidImage
	}
	if len(data) > maxImageBytes {
		return nil, "", http.StatusRequestEntityTooLarge, msgImageTooLarge
	}

	detected := mimetype.Detect(data)
	if !strings.HasPrefix(detected.String(), "image/") {
		return nil, "", http.StatusBadRequest, msgInvalidImage
	}
	return data, detected.String(), 0, ""
}

// respondError maps domain errors onto status codes and user-facing messages
func (h *Handler) respondError(c *gin.Context, err error) {
	var rejection *domain.RejectionError

	switch {
	case errors.As(err, &rejection):
		respondMessage(c, http.StatusBadRequest, rejection.Reason)
	case errors.Is(err, domain.ErrInvalidRequest):
		respondMessage(c, http.StatusBadRequest, msgTermRequired)
	case errors.Is(err, domain.ErrQuotaExceeded):
		respondMessage(c, http.StatusTooManyRequests, msgQuotaExceeded)
	case errors.Is(err, domain.ErrConfiguration):
		h.logger.Error("analysis not configured", zap.Error(err))
		respondMessage(c, http.StatusInternalServerError, msgNotConfigured)
	case errors.Is(err, domain.ErrCollaboratorFailure):
		h.logger.Error("analysis collaborator failed", zap.Error(err))
		respondMessage(c, http.StatusBadGateway, msgAnalysisFailed)
	case errors.Is(err, domain.ErrUnscorableCategory):
		h.logger.Warn("unscorable product", zap.Error(err))
		respondMessage(c, http.StatusInternalServerError, msgUnscorable)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respondMessage(c, http.StatusGatewayTimeout, msgRequestCancelled)
	default:
		h.logger.Error("unexpected analysis error", zap.Error(err))
		respondMessage(c, http.StatusInternalServerError, msgInternalError)
	}
}

func respondMessage(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}
