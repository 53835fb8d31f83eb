package usecase

import (
	"strings"

	"github.com/ultrascore/backend/internal/domain"
)

const (
	foodBaseline = 50

	positiveNutrientsCap = 20
	negativeModifiersCap = 30
	additivePenaltyCap   = 5
	additivePenalty      = 3
	transFatPenalty      = 5
	bestInClassBonus     = 5

	// plain water short-circuits to a perfect score
	waterToken        = "water"
	waterScore        = 100
	defaultWaterTrust = 99
)

// Adjustment labels for the food and beverage branch
const (
	reasonNovaGroup1        = "NOVA Group 1"
	reasonNovaGroup2        = "NOVA Group 2"
	reasonNovaGroup3        = "NOVA Group 3"
	reasonNovaGroup4        = "NOVA Group 4"
	reasonPositiveNutrients = "Positive Nutrients"
	reasonNegativeModifiers = "Negative Modifiers"
	reasonBestInClass       = "Best In Class"
)

// calculateFoodScore scores food and beverages from a baseline of 50
func calculateFoodScore(attrs *domain.ProductAttributes) *domain.UltraScore {
	nutrients := attrs.NutrientsOrZero()

	if isPlainWater(attrs.Name(), nutrients) {
		return plainWaterScore(attrs)
	}

	sheet := newScoreSheet(foodBaseline)

	switch attrs.ProcessingLevel {
	case domain.ProcessingUnprocessed:
		sheet.add(reasonNovaGroup1, 15, false)
	case domain.ProcessingCulinaryIngredient:
		sheet.add(reasonNovaGroup2, 8, false)
	case domain.ProcessingProcessedFood:
		sheet.add(reasonNovaGroup3, 0, true)
	case domain.ProcessingUltraProcessed:
		sheet.add(reasonNovaGroup4, -8, false)
	}

	sheet.add(reasonPositiveNutrients, min(positiveNutrientsCap, positivePoints(attrs, nutrients)), false)
	sheet.add(reasonNegativeModifiers, -min(negativeModifiersCap, negativePoints(attrs, nutrients)), false)

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
		Nutrients:      attrs.Nutrients,
	}
}

// isPlainWater treats an absent nutrients record like one with zero sugar and sodium
func isPlainWater(name string, nutrients domain.Nutrients) bool {
	return strings.Contains(strings.ToLower(name), waterToken) &&
		nutrients.AddedSugarG == 0 && nutrients.SodiumMg == 0
}

func plainWaterScore(attrs *domain.ProductAttributes) *domain.UltraScore {
	trust := defaultWaterTrust
	if attrs.TrustScore != nil && *attrs.TrustScore != 0 {
		trust = *attrs.TrustScore
	}
	bestInClass := true

	return &domain.UltraScore{
		FinalScore:    waterScore,
		Category:      domain.ScoreExcellent,
		TrustScore:    &trust,
		ProductName:   attrs.ProductName,
		IsBestInClass: &bestInClass,
		Breakdown: domain.ScoreBreakdown{
			BaseScore:   waterScore,
			Adjustments: []domain.ScoreAdjustment{},
		},
	}
}

// positivePoints sums fiber, fat quality, protein quality and whole-food content, uncapped
func positivePoints(attrs *domain.ProductAttributes, nutrients domain.Nutrients) int {
	points := 0

	switch fiber := nutrients.FiberG; {
	case fiber >= 6:
		points += 8
	case fiber >= 3:
		points += 5
	case fiber >= 1.5:
		points += 3
	}

	satFat, unsatFat := nutrients.SaturatedFatG, nutrients.UnsaturatedFatG
	if satFat > 0 {
		ratio := unsatFat / satFat
		if ratio >= 2.0 {
			points += 5
		} else if ratio >= 1.0 {
			points += 3
		}
	} else if unsatFat > 0 {
		points += 3
	}

	switch attrs.ProteinQuality {
	case domain.ProteinWholeFoodHighQuality:
		points += 5
	case domain.ProteinPlantBasedHighQuality:
		points += 3
	}

	if attrs.WholeFoodPercentage() >= 40 {
		points += 3
	}

	return points
}

// negativePoints returns the penalty magnitude for sugar, sodium, trans fat
// and additives, uncapped except for the additive sub-cap
func negativePoints(attrs *domain.ProductAttributes, nutrients domain.Nutrients) int {
	points := 0

	switch sugar := nutrients.AddedSugarG; {
	case sugar > 22.5:
		points += 20
	case sugar >= 15:
		points += 15
	case sugar >= 5:
		points += 10
	case sugar > 0:
		points += 5
	}

	switch sodium := nutrients.SodiumMg; {
	case sodium >= 600:
		points += 8
	case sodium >= 300:
		points += 5
	case sodium >= 120:
		points += 3
	}

	if attrs.TransFat() {
		points += transFatPenalty
	}

	return points + min(additivePenaltyCap, additivePoints(attrs.HarmfulAdditives))
}

func additivePoints(additives *domain.HarmfulAdditives) int {
	if additives == nil {
		return 0
	}
	points := 0
	if additives.HasArtificialSweeteners {
		points += additivePenalty
	}
	if additives.HasIndustrialEmulsifiers {
		points += additivePenalty
	}
	if additives.HasArtificialColorsFlavors {
		points += additivePenalty
	}
	return points
}
