package domain

// Nutrients contains estimated nutrition values per 100g.
// Absent values decode as zero.
type Nutrients struct {
	Calories        float64 `json:"calories"`
	CarbohydratesG  float64 `json:"carbohydratesG"`
	TotalFatG       float64 `json:"totalFatG"`
	ProteinG        float64 `json:"proteinG"`
	AddedSugarG     float64 `json:"addedSugarG"`
	SodiumMg        float64 `json:"sodiumMg"`
	SaturatedFatG   float64 `json:"saturatedFatG"`
	UnsaturatedFatG float64 `json:"unsaturatedFatG"`
	FiberG          float64 `json:"fiberG"`
}
