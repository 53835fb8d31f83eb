package usecase

import (
	"regexp"

	"github.com/ultrascore/backend/internal/domain"
)

const personalCareBaseline = 60

// ingredientRule matches an ingredient name and contributes a labeled adjustment
type ingredientRule struct {
	pattern *regexp.Regexp
	reason  string
	points  int
}

// harmfulIngredientRules are evaluated in order; the first match wins per ingredient
var harmfulIngredientRules = []ingredientRule{
	{regexp.MustCompile(`(?i)paraben`), "Contains Parabens", -8},
	{regexp.MustCompile(`(?i)sulfate|sls|sles`), "Contains Sulfates", -3},
	{regexp.MustCompile(`(?i)phthalate`), "Contains Phthalates", -8},
}

var beneficialIngredientRules = []ingredientRule{
	{regexp.MustCompile(`(?i)ceramide`), "Contains Ceramides", 5},
	{regexp.MustCompile(`(?i)vitamin e|tocopherol`), "Contains Vitamin E", 3},
}

const (
	reasonSyntheticFragrance = "Contains Synthetic Fragrance"
	reasonCrueltyFree        = "Cruelty-Free"

	fragrancePenalty = -3
	crueltyFreeBonus = 3
)

// calculatePersonalCareScore scores personal-care items from a baseline of 60.
// Unlike the food branch, adjustments are applied one by one with no subtotal caps.
func calculatePersonalCareScore(attrs *domain.ProductAttributes) *domain.UltraScore {
	sheet := newScoreSheet(personalCareBaseline)

	if details := attrs.PersonalCareDetails; details != nil {
		applyIngredientRules(sheet, details.HarmfulIngredients, harmfulIngredientRules)
		if details.HasFragrance {
			sheet.add(reasonSyntheticFragrance, fragrancePenalty, false)
		}
		applyIngredientRules(sheet, details.BeneficialIngredients, beneficialIngredientRules)
		if details.IsCrueltyFree {
			sheet.add(reasonCrueltyFree, crueltyFreeBonus, false)
		}
	}

	if attrs.BestInClass() {
		sheet.add(reasonBestInClass, bestInClassBonus, false)
	}

	finalScore := sheet.finalScore()
	return &domain.UltraScore{
		FinalScore:     finalScore,
		Category:       CategoryForScore(finalScore),
		TrustScore:     attrs.TrustScore,
		ProductName:    attrs.ProductName,
		IsBestInClass:  attrs.IsBestInClass,
		Breakdown:      sheet.breakdown(),
		HealthierAddon: attrs.HealthierAddon,
		TopInCategory:  attrs.TopInCategory,
	}
}

func applyIngredientRules(sheet *scoreSheet, ingredients []string, rules []ingredientRule) {
	for _, ingredient := range ingredients {
		for _, rule := range rules {
			if rule.pattern.MatchString(ingredient) {
				sheet.add(rule.reason, rule.points, false)
				break
			}
		}
	}
}
