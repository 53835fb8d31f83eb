package gemini

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ultrascore/backend/internal/domain"
)

// MapToAttributes decodes an extraction response body into product attributes
func MapToAttributes(body string) (*domain.ProductAttributes, error) {
	var attrs domain.ProductAttributes
	if err := decodeJSON(body, &attrs); err != nil {
		return nil, fmt.Errorf("%w: decode attributes: %v", domain.ErrCollaboratorFailure, err)
	}
	return &attrs, nil
}

// MapToVerdict decodes a safety check response body into a verdict
func MapToVerdict(body string) (*domain.SafetyVerdict, error) {
	var verdict domain.SafetyVerdict
	if err := decodeJSON(body, &verdict); err != nil {
		return nil, fmt.Errorf("%w: decode safety verdict: %v", domain.ErrCollaboratorFailure, err)
	}
	return &verdict, nil
}

func decodeJSON(body string, v any) error {
	body = stripCodeFence(body)
	if body == "" {
		return fmt.Errorf("empty response")
	}
	return json.Unmarshal([]byte(body), v)
}

// stripCodeFence removes a markdown ```json fence some responses arrive in
func stripCodeFence(body string) string {
	body = strings.TrimSpace(body)
	if !strings.HasPrefix(body, "```") {
		return body
	}
	body = strings.TrimPrefix(body, "```")
	body = strings.TrimPrefix(body, "json")
	body = strings.TrimSuffix(strings.TrimSpace(body), "```")
	return strings.TrimSpace(body)
}
