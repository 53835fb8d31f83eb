package gemini

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/ultrascore/backend/internal/domain"
)

const (
	DefaultModel = "gemini-2.5-flash"

	defaultImageMIMEType = "image/jpeg"
	jsonMIMEType         = "application/json"
	maxAttempts          = 3
)

// contentGenerator is the slice of the genai models service the client uses
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Config holds configuration for the Gemini client
type Config struct {
	APIKey              string
	Model               string
	AnalysisTemperature float32
	SafetyTemperature   float32
	RequestsPerSecond   float64
	Burst               int
}

// Client extracts product attributes and safety verdicts from Gemini.
// It implements domain.AttributeExtractor and domain.SafetyVerifier.
type Client struct {
	models      contentGenerator
	config      Config
	rateLimiter *rate.Limiter
	backoff     func(attempt int) time.Duration
	logger      *zap.Logger
}

// NewClient creates a Gemini client. A missing API key is a configuration error.
func NewClient(ctx context.Context, config Config, logger *zap.Logger) (*Client, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("%w: gemini api key is not set", domain.ErrConfiguration)
	}

	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create genai client: %v", domain.ErrConfiguration, err)
	}

	return newClient(genaiClient.Models, config, logger), nil
}

func newClient(models contentGenerator, config Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.RequestsPerSecond <= 0 {
		config.RequestsPerSecond = 1
	}
	if config.Burst <= 0 {
		config.Burst = 5
	}

	return &Client{
		models:      models,
		config:      config,
		rateLimiter: rate.NewLimiter(rate.Limit(config.RequestsPerSecond), config.Burst),
		backoff:     exponentialBackoff,
		logger:      logger.Named("gemini"),
	}
}

// exponentialBackoff calculates the wait before a retry: 500ms, 1s, 2s
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// ExtractAttributes asks the model for structured product attributes
func (c *Client) ExtractAttributes(ctx context.Context, request *domain.AnalysisRequest) (*domain.ProductAttributes, error) {
	parts := []*genai.Part{genai.NewPartFromText(analysisUserText(request.Term))}
	if request.HasImage() {
		mimeType := request.ImageMIMEType
		if mimeType == "" {
			mimeType = defaultImageMIMEType
		}
		parts = append(parts, genai.NewPartFromBytes(request.Image, mimeType))
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(analysisSystemInstruction, genai.RoleUser),
		Temperature:       genai.Ptr(c.config.AnalysisTemperature),
		ResponseMIMEType:  jsonMIMEType,
		ResponseSchema:    analysisSchema(),
	}

	body, err := c.generate(ctx, "extract", []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}, config)
	if err != nil {
		return nil, err
	}
	return MapToAttributes(body)
}

// VerifySafety asks the model whether candidateScore is dangerously misleading for productName
func (c *Client) VerifySafety(ctx context.Context, productName string, candidateScore int) (*domain.SafetyVerdict, error) {
	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(c.config.SafetyTemperature),
		ResponseMIMEType: jsonMIMEType,
	}
	contents := []*genai.Content{genai.NewContentFromText(safetyPrompt(productName, candidateScore), genai.RoleUser)}

	body, err := c.generate(ctx, "verify", contents, config)
	if err != nil {
		return nil, err
	}
	return MapToVerdict(body)
}

// generate runs one rate-limited call with retries and returns the response text
func (c *Client) generate(ctx context.Context, op string, contents []*genai.Content, config *genai.GenerateContentConfig) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			// Wait fails early with a plain error when the deadline is too close
			if ctxErr := ctx.Err(); ctxErr != nil {
				return "", ctxErr
			}
			return "", fmt.Errorf("%w: %s: rate limiter: %v", context.DeadlineExceeded, op, err)
		}

		start := time.Now()
		resp, err := c.models.GenerateContent(ctx, c.config.Model, contents, config)
		if err == nil {
			text := resp.Text()
			c.logger.Debug("generate content",
				zap.String("op", op),
				zap.Int("attempt", attempt),
				zap.Duration("latency", time.Since(start)),
				zap.Int("bytes", len(text)))
			if text == "" {
				return "", fmt.Errorf("%w: %s: empty response", domain.ErrCollaboratorFailure, op)
			}
			return text, nil
		}

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}

		lastErr = err
		c.logger.Warn("generate content failed",
			zap.String("op", op),
			zap.Int("attempt", attempt),
			zap.Error(err))

		if attempt < maxAttempts {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(c.backoff(attempt)):
			}
		}
	}

	return "", fmt.Errorf("%w: %s: %v", domain.ErrCollaboratorFailure, op, lastErr)
}
