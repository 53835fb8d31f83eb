package domain

import (
	"context"
	"time"
)

// AttributeExtractor turns a free-text description and optional image into
// structured product attributes
type AttributeExtractor interface {
	ExtractAttributes(ctx context.Context, request *AnalysisRequest) (*ProductAttributes, error)
}

// SafetyVerifier judges whether a candidate score is dangerously misleading
// for the named product
type SafetyVerifier interface {
	VerifySafety(ctx context.Context, productName string, candidateScore int) (*SafetyVerdict, error)
}

// QuotaStore defines the interface for per-client usage counters
type QuotaStore interface {
	// Count returns the live usage for key, or ErrQuotaMiss if there is none
	Count(ctx context.Context, key string) (int, error)
	// Increment adds one use for key, refreshes its expiry to now+window
	// and returns the new count
	Increment(ctx context.Context, key string, window time.Duration) (int, error)
}
