package dietary

import "sort"

// ViolationSource is the closed set of rule sources a conflict can come
// from. Every scoring and ordering site switches exhaustively on it.
type ViolationSource string

const (
	SourceRestriction ViolationSource = "restriction"
	SourceAllergy     ViolationSource = "allergy"
)

// Violation is a conflict severe enough to block compatibility.
// Exactly one of Restriction/Allergen is set, per Source.
type Violation struct {
	Source              ViolationSource
	Restriction         RestrictionKind
	Allergen            string
	RestrictionSeverity Severity
	AllergySeverity     AllergySeverity
	Description         string
	AffectedIngredients []string

	// index of the first affected ingredient in the recipe, used as the
	// deterministic ordering tie-break
	firstIngredient int
}

// Warning is a conflict recorded for visibility that does not block usage.
// It shares the violation shape plus an optional suggestion line.
type Warning struct {
	Source              ViolationSource
	Restriction         RestrictionKind
	Allergen            string
	RestrictionSeverity Severity
	AllergySeverity     AllergySeverity
	Description         string
	AffectedIngredients []string
	Suggestion          string

	firstIngredient int
}

// Compatibility is the evaluator's verdict for one recipe against one
// profile. Violations and warnings are deterministically ordered: by
// descending severity, allergies before restrictions on equal severity,
// then by first affected ingredient position.
type Compatibility struct {
	IsCompatible bool
	Violations   []Violation
	Warnings     []Warning
	Score        float64
}

// severityRank returns the cross-scale ordering rank of a violation
func (v Violation) severityRank() int {
	switch v.Source {
	case SourceAllergy:
		return v.AllergySeverity.rank()
	case SourceRestriction:
		return v.RestrictionSeverity.rank()
	default:
		return 0
	}
}

// SeverityLabel returns the display label of whichever severity scale the
// violation carries.
func (v Violation) SeverityLabel() string {
	switch v.Source {
	case SourceAllergy:
		return string(v.AllergySeverity)
	case SourceRestriction:
		return string(v.RestrictionSeverity)
	default:
		return ""
	}
}

func (w Warning) severityRank() int {
	switch w.Source {
	case SourceAllergy:
		return w.AllergySeverity.rank()
	case SourceRestriction:
		return w.RestrictionSeverity.rank()
	default:
		return 0
	}
}

// SeverityLabel returns the display label of whichever severity scale the
// warning carries.
func (w Warning) SeverityLabel() string {
	switch w.Source {
	case SourceAllergy:
		return string(w.AllergySeverity)
	case SourceRestriction:
		return string(w.RestrictionSeverity)
	default:
		return ""
	}
}

// sortViolations orders violations per the determinism invariant. Allergy
// violations outrank restriction violations of equal severity: safety-first
// tie-break.
func sortViolations(violations []Violation) {
	sort.SliceStable(violations, func(i, j int) bool {
		a, b := violations[i], violations[j]
		if a.severityRank() != b.severityRank() {
			return a.severityRank() > b.severityRank()
		}
		if a.Source != b.Source {
			return a.Source == SourceAllergy
		}
		return a.firstIngredient < b.firstIngredient
	})
}

// sortWarnings applies the same ordering to warnings
func sortWarnings(warnings []Warning) {
	sort.SliceStable(warnings, func(i, j int) bool {
		a, b := warnings[i], warnings[j]
		if a.severityRank() != b.severityRank() {
			return a.severityRank() > b.severityRank()
		}
		if a.Source != b.Source {
			return a.Source == SourceAllergy
		}
		return a.firstIngredient < b.firstIngredient
	})
}
