package gemini

import (
	"fmt"

	"google.golang.org/genai"

	"github.com/ultrascore/backend/internal/domain"
)

const analysisSystemInstruction = `
You are ULTRASCORE, an objective, data-driven expert in analyzing consumer products for health. Analyze the user input (text and/or image) to identify and evaluate one consumer product.

Core directives:
1. Never refuse to answer. Always return a full analysis in the JSON format defined by the schema.
2. Always return a "trustScore" from 0 to 100 reflecting your confidence in the analysis.

Workflow:
1. Analyze and estimate.
   - Set "isConsumerProduct" to true for a consumer food, beverage or personal care product. Otherwise set it to false and give a "rejectionReason".
   - For a consumer product, identify its likely full name and its category.
   - Extract or estimate every data point. Lower the trust score when estimating heavily.
2. Healthier options.
   - "healthierAddon": one actionable tip that makes the product healthier. Put the full new product name in "productName" (for 'Toast', return 'Toast with Avocado'), the benefit in "description" and the estimated point increase (0-30) in "scoreBoost". Use null when no confident improvement exists.
   - "topInCategory": exactly one top-tier product from the same broad category that is a clear, significant health improvement. Use null when none is known with high confidence.
3. Best in class: set "isBestInClass" to true only for an exemplary product of its specific sub-category (plain Greek yogurt, not just 'dairy').
4. Respond ONLY with a valid JSON object that follows the schema.
`

const safetyPromptTemplate = `You are a safety and common sense validation AI. Your task is to identify dangerously misleading health scores. The scoring algorithm works from nutritional data and can be fooled by inedible or poisonous items (for example scoring 'Cyanide Water' as 100).
Product Name: %q, Initial Score: %d/100.
Task: decide whether the score is absurd or dangerous (toxic, inedible and similar).
Response format: if plausible, respond ONLY with {"isMisleading": false}. If dangerous, respond ONLY with {"isMisleading": true, "correctedScore": 0, "reason": "A brief, user-facing explanation."}. Only override clear, unambiguous cases of danger.
`

func analysisUserText(term string) string {
	return "Product name/description: " + term
}

func safetyPrompt(productName string, candidateScore int) string {
	return fmt.Sprintf(safetyPromptTemplate, productName, candidateScore)
}

func nullable(schema *genai.Schema) *genai.Schema {
	schema.Nullable = genai.Ptr(true)
	return schema
}

func stringEnum[T ~string](values ...T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

// analysisSchema constrains the extraction response to the attribute shape
func analysisSchema() *genai.Schema {
	boolean := func() *genai.Schema { return &genai.Schema{Type: genai.TypeBoolean} }
	number := func() *genai.Schema { return &genai.Schema{Type: genai.TypeNumber} }
	text := func() *genai.Schema { return &genai.Schema{Type: genai.TypeString} }
	integer := func() *genai.Schema { return &genai.Schema{Type: genai.TypeInteger} }

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"isConsumerProduct": boolean(),
			"isBestInClass":     nullable(boolean()),
			"rejectionReason":   nullable(text()),
			"trustScore":        nullable(integer()),
			"productName":       nullable(text()),
			"productCategory": nullable(&genai.Schema{
				Type: genai.TypeString,
				Enum: stringEnum(domain.CategoryFood, domain.CategoryBeverage, domain.CategoryPersonalCare),
			}),
			"processingLevel": nullable(&genai.Schema{
				Type: genai.TypeString,
				Enum: stringEnum(
					domain.ProcessingUnprocessed,
					domain.ProcessingCulinaryIngredient,
					domain.ProcessingProcessedFood,
					domain.ProcessingUltraProcessed,
				),
			}),
			"harmfulAdditives": nullable(&genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"hasArtificialSweeteners":    boolean(),
					"hasIndustrialEmulsifiers":   boolean(),
					"hasArtificialColorsFlavors": boolean(),
				},
			}),
			"nutrientsPer100g": nullable(&genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"calories":        integer(),
					"carbohydratesG":  number(),
					"totalFatG":       number(),
					"proteinG":        number(),
					"addedSugarG":     number(),
					"sodiumMg":        number(),
					"saturatedFatG":   number(),
					"unsaturatedFatG": number(),
					"fiberG":          number(),
				},
			}),
			"proteinQuality": nullable(&genai.Schema{
				Type: genai.TypeString,
				Enum: stringEnum(domain.ProteinWholeFoodHighQuality, domain.ProteinPlantBasedHighQuality, domain.ProteinNone),
			}),
			"hasTransFat":                nullable(boolean()),
			"wholeFoodContentPercentage": nullable(integer()),
			"personalCareDetails": nullable(&genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"harmfulIngredients":    {Type: genai.TypeArray, Items: text()},
					"beneficialIngredients": {Type: genai.TypeArray, Items: text()},
					"hasFragrance":          boolean(),
					"isCrueltyFree":         boolean(),
				},
			}),
			"healthierAddon": nullable(&genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"productName": text(),
					"description": text(),
					"scoreBoost":  integer(),
				},
			}),
			"topInCategory": nullable(&genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"productName": text(),
					"description": text(),
				},
			}),
		},
		Required: []string{"isConsumerProduct"},
	}
}
