package domain

// ScoreCategory is the discrete health bucket derived from a final score
type ScoreCategory string

const (
	ScoreExcellent ScoreCategory = "Excellent"
	ScoreGood      ScoreCategory = "Good"
	ScoreModerate  ScoreCategory = "Moderate"
	ScoreLimit     ScoreCategory = "Limit"
	ScoreAvoid     ScoreCategory = "Avoid"
)

// ScoreAdjustment is one labeled contribution to a score
type ScoreAdjustment struct {
	Reason string `json:"reason"`
	Points int    `json:"points"`
}

// ScoreBreakdown lists the baseline and every adjustment in the order it was applied.
// BaseScore plus the adjustment points is the unclamped score.
type ScoreBreakdown struct {
	BaseScore   int               `json:"baseScore"`
	Adjustments []ScoreAdjustment `json:"adjustments"`
}

// UltraScore is the result of analyzing one product
type UltraScore struct {
	FinalScore     int            `json:"finalScore"`
	Category       ScoreCategory  `json:"category"`
	TrustScore     *int           `json:"trustScore"`
	ProductName    *string        `json:"productName"`
	IsBestInClass  *bool          `json:"isBestInClass"`
	Breakdown      ScoreBreakdown `json:"breakdown"`
	HealthierAddon *Suggestion    `json:"healthierAddon"`
	TopInCategory  *Suggestion    `json:"topInCategory"`
	Nutrients      *Nutrients     `json:"nutrients"`
	OverrideReason *string        `json:"overrideReason,omitempty"`
}

// Name returns the product name, or "" when absent
func (s *UltraScore) Name() string {
	if s.ProductName == nil {
		return ""
	}
	return *s.ProductName
}

// Overridden reports whether a safety override replaced this score
func (s *UltraScore) Overridden() bool {
	return s.OverrideReason != nil
}

// SafetyVerdict is the answer of the safety verdict collaborator.
// CorrectedScore and Reason are only meaningful when IsMisleading is true.
type SafetyVerdict struct {
	IsMisleading   bool    `json:"isMisleading"`
	CorrectedScore *int    `json:"correctedScore,omitempty"`
	Reason         *string `json:"reason,omitempty"`
}
