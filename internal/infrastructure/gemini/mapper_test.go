package gemini

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ultrascore/backend/internal/domain"
)

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"  {\"a\":1}\n", `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, stripCodeFence(tt.input))
	}
}

func TestMapToAttributes_PersonalCare(t *testing.T) {
	attrs, err := MapToAttributes(`{
		"isConsumerProduct": true,
		"productCategory": "PersonalCare",
		"productName": "Daily Moisturizer",
		"isBestInClass": null,
		"personalCareDetails": {
			"harmfulIngredients": ["Methylparaben"],
			"beneficialIngredients": ["Ceramide NP"],
			"hasFragrance": true,
			"isCrueltyFree": false
		},
		"healthierAddon": {"productName": "Fragrance-Free Moisturizer", "description": "Skip the fragrance", "scoreBoost": 6}
	}`)
	require.NoError(t, err)

	assert.Equal(t, domain.CategoryPersonalCare, attrs.Category)
	assert.Nil(t, attrs.IsBestInClass)
	require.NotNil(t, attrs.PersonalCareDetails)
	assert.Equal(t, []string{"Methylparaben"}, attrs.PersonalCareDetails.HarmfulIngredients)
	assert.True(t, attrs.PersonalCareDetails.HasFragrance)
	require.NotNil(t, attrs.HealthierAddon)
	require.NotNil(t, attrs.HealthierAddon.ScoreBoost)
	assert.Equal(t, 6, *attrs.HealthierAddon.ScoreBoost)
	assert.Nil(t, attrs.TopInCategory)
}

func TestMapToVerdict_Invalid(t *testing.T) {
	_, err := MapToVerdict(`{"isMisleading": "maybe"}`)
	assert.ErrorIs(t, err, domain.ErrCollaboratorFailure)
}
