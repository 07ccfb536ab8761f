package entities

const ComparisonFailedNotice = "Could not complete the comparison. Please try again later."

// ComparisonResult pairs the two analyses with the conflicts found between them
type ComparisonResult struct {
	ChineseAnalysis MedicineAnalysis `json:"chineseAnalysis"`
	WesternAnalysis MedicineAnalysis `json:"westernAnalysis"`
	Comparison      Comparison       `json:"comparison"`
}

type Comparison struct {
	IngredientConflicts []string `json:"ingredientConflicts"`
	EffectInteractions  []string `json:"effectInteractions"`
	Warnings            []string `json:"warnings"`
	Recommendations     []string `json:"recommendations"`
}

// HasConflicts reports whether any ingredient conflict or effect interaction was found
func (c Comparison) HasConflicts() bool {
	return len(c.IngredientConflicts) > 0 || len(c.EffectInteractions) > 0
}

// FailedComparisonResult returns the result used when a comparison cannot complete
func FailedComparisonResult() ComparisonResult {
	return ComparisonResult{
		ChineseAnalysis: FailedMedicineAnalysis(),
		WesternAnalysis: FailedMedicineAnalysis(),
		Comparison: Comparison{
			IngredientConflicts: []string{},
			EffectInteractions:  []string{},
			Warnings:            []string{},
			Recommendations:     []string{ComparisonFailedNotice},
		},
	}
}

// CompareRequest is the body of POST /v1/compare
type CompareRequest struct {
	ChineseMedicine string `json:"chineseMedicine"`
	WesternMedicine string `json:"westernMedicine"`
}

// CompareResponse wraps a result with the inputs and an ID for client-side history
type CompareResponse struct {
	ID              string           `json:"id"`
	ChineseMedicine string           `json:"chineseMedicine"`
	WesternMedicine string           `json:"westernMedicine"`
	Result          ComparisonResult `json:"result"`
}

// AnalyzeRequest is the body of POST /v1/analyze
type AnalyzeRequest struct {
	Text string `json:"text"`
}
