// Package interactions holds the static ingredient and effect conflict tables
// and the name normalization used to look them up.
package interactions

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/width"
)

// aliases maps folded names to their canonical table key
var aliases = map[string]string{
	// ingredients
	"人参":            "ginseng",
	"人蔘":            "ginseng",
	"panax ginseng": "ginseng",
	"red ginseng":   "ginseng",
	"红参":            "ginseng",
	"银杏":            "ginkgo",
	"银杏叶":           "ginkgo",
	"ginkgo biloba": "ginkgo",
	"甘草":            "licorice",
	"liquorice":     "licorice",
	"当归":            "dong quai",
	"angelica":      "dong quai",
	"丹参":            "danshen",
	"salvia":        "danshen",
	"阿司匹林":          "aspirin",
	"华法林":           "warfarin",
	"氯吡格雷":          "clopidogrel",
	"肝素":            "heparin",
	"硝苯地平":          "nifedipine",
	"氨氯地平":          "amlodipine",
	"呋塞米":           "furosemide",
	"速尿":            "furosemide",
	"氢氯噻嗪":          "hydrochlorothiazide",
	"地高辛":           "digoxin",
	"氟西汀":           "fluoxetine",
	"舍曲林":           "sertraline",

	// effects
	"活血":   "blood thinning",
	"活血化瘀": "blood thinning",
	"抗凝":   "anticoagulant",
	"抗血小板": "antiplatelet",
	"升压":   "raise blood pressure",
	"升高血压": "raise blood pressure",
	"降压":   "lower blood pressure",
	"降血压":  "lower blood pressure",
	"安神":   "sedative",
	"镇静":   "sedative",
	"嗜睡":   "drowsiness",
	"水钠潴留": "water retention",
	"利尿":   "diuretic",
	"降糖":   "lower blood sugar",
	"降血糖":  "lower blood sugar",

	"blood-thinning": "blood thinning",
	"anti-coagulant": "anticoagulant",
}

// Normalize folds a name to its canonical lookup key: trimmed, full-width
// forms narrowed, case folded, inner whitespace collapsed, aliases resolved.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	s = width.Fold.String(s)
	// Casers are stateful, one per call
	s = cases.Fold().String(s)
	s = strings.Join(strings.Fields(s), " ")

	if canonical, ok := aliases[s]; ok {
		return canonical
	}
	return s
}
