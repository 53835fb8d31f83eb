package mcptools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/ultrascore/backend/internal/domain"
	"github.com/ultrascore/backend/internal/usecase"
)

// Analyzer produces a score for one analysis request
type Analyzer interface {
	Analyze(ctx context.Context, request *domain.AnalysisRequest) (*domain.UltraScore, error)
}

// AnalyzeTool handles the analyze_product MCP tool.
type AnalyzeTool struct {
	analyzer Analyzer
	logger   *zap.Logger
}

// NewAnalyzeTool creates an AnalyzeTool backed by the analysis pipeline.
func NewAnalyzeTool(analyzer Analyzer, logger *zap.Logger) *AnalyzeTool {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyzeTool{analyzer: analyzer, logger: logger}
}

// Definition returns the MCP tool definition for analyze_product.
func (t *AnalyzeTool) Definition() mcp.Tool {
	return mcp.NewTool("analyze_product",
		mcp.WithDescription(
			"Analyze a food, beverage or personal care product by name and return its UltraScore "+
				"(0-100 health score with category, breakdown and suggestions) as JSON.",
		),
		mcp.WithString("term",
			mcp.Required(),
			mcp.Description("Product name or description, e.g. 'plain greek yogurt'"),
		),
	)
}

// Handle processes the analyze_product tool call.
func (t *AnalyzeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	term := strings.TrimSpace(req.GetString("term", ""))
	if term == "" {
		return mcp.NewToolResultError("term is required"), nil
	}
	if t.analyzer == nil {
		return mcp.NewToolResultError("analysis service not configured"), nil
	}

	score, err := t.analyzer.Analyze(ctx, &domain.AnalysisRequest{Term: term})
	if err != nil {
		return t.errorResult(err), nil
	}
	return jsonResult(score)
}

func (t *AnalyzeTool) errorResult(err error) *mcp.CallToolResult {
	var rejection *domain.RejectionError
	switch {
	case errors.As(err, &rejection):
		return mcp.NewToolResultError(rejection.Reason)
	case errors.Is(err, domain.ErrInvalidRequest):
		return mcp.NewToolResultError("term is required")
	case errors.Is(err, domain.ErrConfiguration):
		t.logger.Error("analysis not configured", zap.Error(err))
		return mcp.NewToolResultError("analysis service not configured")
	case errors.Is(err, domain.ErrUnscorableCategory):
		return mcp.NewToolResultError("unable to score this product")
	default:
		t.logger.Error("analyze_product failed", zap.Error(err))
		return mcp.NewToolResultError("failed to analyze product")
	}
}

// ScoreTool handles the score_attributes MCP tool.
type ScoreTool struct{}

// NewScoreTool creates a ScoreTool.
func NewScoreTool() *ScoreTool {
	return &ScoreTool{}
}

// Definition returns the MCP tool definition for score_attributes.
func (t *ScoreTool) Definition() mcp.Tool {
	return mcp.NewTool("score_attributes",
		mcp.WithDescription(
			"Deterministically score already-known product attributes without any AI call. "+
				"Input is a ProductAttributes JSON object (isConsumerProduct, productCategory, nutrientsPer100g, ...).",
		),
		mcp.WithString("attributes_json",
			mcp.Required(),
			mcp.Description("ProductAttributes as a JSON object"),
		),
	)
}

// Handle processes the score_attributes tool call.
func (t *ScoreTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw := req.GetString("attributes_json", "")
	if strings.TrimSpace(raw) == "" {
		return mcp.NewToolResultError("attributes_json is required"), nil
	}

	var attrs domain.ProductAttributes
	if err := json.Unmarshal([]byte(raw), &attrs); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid attributes_json: %v", err)), nil
	}
	if !attrs.IsConsumerProduct {
		return mcp.NewToolResultError(domain.NewRejectionError(attrs.RejectionReason).Reason), nil
	}

	score, err := usecase.CalculateUltraScore(&attrs)
	if err != nil {
		return mcp.NewToolResultError("unable to score this product: category missing or unknown"), nil
	}
	return jsonResult(score)
}

func jsonResult(score *domain.UltraScore) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(score, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode score: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
