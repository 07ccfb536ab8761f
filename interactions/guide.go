package interactions

// GuideEntry describes one well-known conflict
type GuideEntry struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Tips        string `json:"tips"`
}

// HealthTip is a general piece of advice
type HealthTip struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Guide is the medication guide served at /v1/guide
type Guide struct {
	Conflicts  []GuideEntry `json:"conflicts"`
	HealthTips []HealthTip  `json:"healthTips"`
	Disclaimer string       `json:"disclaimer"`
}

// GetGuide returns a fresh copy of the guide
func GetGuide() Guide {
	return Guide{
		Conflicts: []GuideEntry{
			{
				Title:       "Ginseng vs antihypertensives",
				Description: "Ginseng can raise blood pressure and may reduce the effect of blood pressure medication.",
				Tips:        "Take them at least 2 hours apart, or adjust the regimen under a doctor's guidance.",
			},
			{
				Title:       "Ginkgo vs anticoagulants",
				Description: "Ginkgo inhibits platelet aggregation. Combined with anticoagulants it may increase the risk of bleeding.",
				Tips:        "Monitor coagulation closely and adjust dosages if needed.",
			},
			{
				Title:       "Licorice vs diuretics",
				Description: "Licorice can cause sodium and water retention, counteracting diuretics.",
				Tips:        "Use under a doctor's guidance and monitor blood pressure and electrolytes.",
			},
			{
				Title:       "Dong quai vs antidepressants",
				Description: "Dong quai may enhance the effect of antidepressants and increase the risk of side effects.",
				Tips:        "Dosages may need adjusting. Watch closely for changes in mood or mental state.",
			},
		},
		HealthTips: []HealthTip{
			{
				Title:       "Timing",
				Description: "Space Chinese and Western medicines at least 2 hours apart to avoid interactions.",
			},
			{
				Title:       "Diet",
				Description: "Avoid spicy and greasy food while taking medication and keep meals light.",
			},
			{
				Title:       "Monitoring",
				Description: "Check liver and kidney function regularly and watch for adverse reactions.",
			},
		},
		Disclaimer: "This information is for reference only. Always follow your doctor's instructions.",
	}
}
