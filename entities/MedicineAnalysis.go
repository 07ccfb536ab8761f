package entities

const (
	UnknownMedicineName = "Unknown medicine"
	FailedAnalysisName  = "Analysis failed"
	DosageNotSpecified  = "Not specified"
	AnalysisRetryNotice = "Unable to analyze this medicine right now. Please try again later."
)

// MedicineAnalysis is the fixed-shape record extracted from one medicine description.
// Every list is non-nil so it always serializes as an array.
type MedicineAnalysis struct {
	Name         string   `json:"name"`
	Ingredients  []string `json:"ingredients"`
	Effects      []string `json:"effects"`
	Interactions []string `json:"interactions"`
	Dosage       string   `json:"dosage"`
	Warnings     []string `json:"warnings"`
}

// NewMedicineAnalysis returns a record with every field set to its default
func NewMedicineAnalysis() MedicineAnalysis {
	return MedicineAnalysis{
		Name:         UnknownMedicineName,
		Ingredients:  []string{},
		Effects:      []string{},
		Interactions: []string{},
		Dosage:       DosageNotSpecified,
		Warnings:     []string{},
	}
}

// FailedMedicineAnalysis returns the sentinel record used when extraction fails
func FailedMedicineAnalysis() MedicineAnalysis {
	a := NewMedicineAnalysis()
	a.Name = FailedAnalysisName
	a.Warnings = []string{AnalysisRetryNotice}
	return a
}

// Failed reports whether the record is the failure sentinel
func (a MedicineAnalysis) Failed() bool {
	return a.Name == FailedAnalysisName && len(a.Warnings) == 1 && a.Warnings[0] == AnalysisRetryNotice
}

// Clone returns a deep copy, so cached records are never shared with callers
func (a MedicineAnalysis) Clone() MedicineAnalysis {
	return MedicineAnalysis{
		Name:         a.Name,
		Ingredients:  cloneStrings(a.Ingredients),
		Effects:      cloneStrings(a.Effects),
		Interactions: cloneStrings(a.Interactions),
		Dosage:       a.Dosage,
		Warnings:     cloneStrings(a.Warnings),
	}
}

func cloneStrings(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
