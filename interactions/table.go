package interactions

// Table maps a subject name to the set of names it conflicts with.
// It is built once and never modified, so lookups are safe from any goroutine.
type Table struct {
	name    string
	entries map[string]map[string]struct{}
}

func newTable(name string, raw map[string][]string) *Table {
	t := &Table{name: name, entries: make(map[string]map[string]struct{}, len(raw))}
	for subject, others := range raw {
		set := make(map[string]struct{}, len(others))
		for _, o := range others {
			set[Normalize(o)] = struct{}{}
		}
		t.entries[Normalize(subject)] = set
	}
	return t
}

// Name identifies the table in logs
func (t *Table) Name() string {
	return t.name
}

// Conflicts reports whether other is listed under subject.
// Only subject is used as the key; the reverse pair is not checked.
func (t *Table) Conflicts(subject, other string) bool {
	set, ok := t.entries[Normalize(subject)]
	if !ok {
		return false
	}
	_, ok = set[Normalize(other)]
	return ok
}

// Len returns the number of subjects in the table
func (t *Table) Len() int {
	return len(t.entries)
}

var (
	ingredientTable = newTable("ingredients", map[string][]string{
		"ginseng":   {"warfarin", "aspirin", "nifedipine", "amlodipine"},
		"ginkgo":    {"warfarin", "aspirin", "clopidogrel", "heparin"},
		"licorice":  {"furosemide", "hydrochlorothiazide", "digoxin"},
		"dong quai": {"warfarin", "fluoxetine", "sertraline"},
		"danshen":   {"warfarin", "aspirin"},
	})

	effectTable = newTable("effects", map[string][]string{
		"blood thinning":       {"anticoagulant", "antiplatelet", "blood thinning"},
		"raise blood pressure": {"lower blood pressure", "antihypertensive"},
		"sedative":             {"sedative", "drowsiness"},
		"water retention":      {"diuretic"},
		"lower blood sugar":    {"lower blood sugar", "hypoglycemic"},
	})
)

// IngredientTable returns the ingredient conflict table
func IngredientTable() *Table {
	return ingredientTable
}

// EffectTable returns the effect interaction table
func EffectTable() *Table {
	return effectTable
}
