package domain

// ProductCategory selects the scoring branch for a product
type ProductCategory string

const (
	CategoryFood         ProductCategory = "Food"
	CategoryBeverage     ProductCategory = "Beverage"
	CategoryPersonalCare ProductCategory = "PersonalCare"
)

// ProcessingLevel is the NOVA-style processing tier of a food or beverage
type ProcessingLevel string

const (
	ProcessingUnprocessed        ProcessingLevel = "Unprocessed/Minimally Processed"
	ProcessingCulinaryIngredient ProcessingLevel = "Processed Culinary Ingredients"
	ProcessingProcessedFood      ProcessingLevel = "Processed Foods"
	ProcessingUltraProcessed     ProcessingLevel = "Ultra-Processed Foods"
)

// ProteinQuality describes the dominant protein source
type ProteinQuality string

const (
	ProteinWholeFoodHighQuality  ProteinQuality = "High-Quality Whole-Food"
	ProteinPlantBasedHighQuality ProteinQuality = "High-Quality Plant-Based"
	ProteinNone                  ProteinQuality = "None"
)

// ProductAttributes is the structured description of one candidate product,
// as estimated by the attribute extraction step. Any field may be absent.
type ProductAttributes struct {
	IsConsumerProduct          bool                 `json:"isConsumerProduct"`
	RejectionReason            *string              `json:"rejectionReason"`
	Category                   ProductCategory      `json:"productCategory,omitempty"`
	ProductName                *string              `json:"productName"`
	TrustScore                 *int                 `json:"trustScore"`
	IsBestInClass              *bool                `json:"isBestInClass"`
	ProcessingLevel            ProcessingLevel      `json:"processingLevel,omitempty"`
	Nutrients                  *Nutrients           `json:"nutrientsPer100g"`
	ProteinQuality             ProteinQuality       `json:"proteinQuality,omitempty"`
	HasTransFat                *bool                `json:"hasTransFat"`
	WholeFoodContentPercentage *int                 `json:"wholeFoodContentPercentage"`
	HarmfulAdditives           *HarmfulAdditives    `json:"harmfulAdditives"`
	PersonalCareDetails        *PersonalCareDetails `json:"personalCareDetails"`
	HealthierAddon             *Suggestion          `json:"healthierAddon"`
	TopInCategory              *Suggestion          `json:"topInCategory"`
}

// HarmfulAdditives flags additive classes that are penalized in food scoring
type HarmfulAdditives struct {
	HasArtificialSweeteners    bool `json:"hasArtificialSweeteners"`
	HasIndustrialEmulsifiers   bool `json:"hasIndustrialEmulsifiers"`
	HasArtificialColorsFlavors bool `json:"hasArtificialColorsFlavors"`
}

// PersonalCareDetails holds ingredient information for personal-care items
type PersonalCareDetails struct {
	HarmfulIngredients    []string `json:"harmfulIngredients"`
	BeneficialIngredients []string `json:"beneficialIngredients"`
	HasFragrance          bool     `json:"hasFragrance"`
	IsCrueltyFree         bool     `json:"isCrueltyFree"`
}

// Suggestion is an alternative or improvement offered alongside a score
type Suggestion struct {
	ProductName string `json:"productName"`
	Description string `json:"description"`
	ScoreBoost  *int   `json:"scoreBoost,omitempty"`
}

// Name returns the product name, or "" when absent
func (a *ProductAttributes) Name() string {
	if a.ProductName == nil {
		return ""
	}
	return *a.ProductName
}

// BestInClass reports whether the product is explicitly flagged best in class
func (a *ProductAttributes) BestInClass() bool {
	return a.IsBestInClass != nil && *a.IsBestInClass
}

// TransFat reports whether the product is flagged as containing trans fat
func (a *ProductAttributes) TransFat() bool {
	return a.HasTransFat != nil && *a.HasTransFat
}

// WholeFoodPercentage returns the whole-food content percentage, 0 when absent
func (a *ProductAttributes) WholeFoodPercentage() int {
	if a.WholeFoodContentPercentage == nil {
		return 0
	}
	return *a.WholeFoodContentPercentage
}

// NutrientsOrZero returns the nutrients record, or an all-zero record when absent
func (a *ProductAttributes) NutrientsOrZero() Nutrients {
	if a.Nutrients == nil {
		return Nutrients{}
	}
	return *a.Nutrients
}

// AnalysisRequest is the raw input of one analysis: a free-text term and
// an optional product photo.
type AnalysisRequest struct {
	Term          string `json:"term"`
	Image         []byte `json:"-"`
	ImageMIMEType string `json:"-"`
}

// HasImage reports whether the request carries image bytes
func (r *AnalysisRequest) HasImage() bool {
	return len(r.Image) > 0
}
