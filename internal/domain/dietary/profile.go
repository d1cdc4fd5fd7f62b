// Package dietary contains the core domain logic for the dietary
// compatibility and substitution engine. Every operation in this package is
// a pure function of its inputs: there is no I/O, no shared mutable state,
// and results for identical inputs are byte-for-byte identical.
package dietary

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// RestrictionKind identifies a dietary rule a user follows
type RestrictionKind string

const (
	RestrictionVegetarian    RestrictionKind = "vegetarian"
	RestrictionVegan         RestrictionKind = "vegan"
	RestrictionPescatarian   RestrictionKind = "pescatarian"
	RestrictionGlutenFree    RestrictionKind = "gluten_free"
	RestrictionDairyFree     RestrictionKind = "dairy_free"
	RestrictionNutFree       RestrictionKind = "nut_free"
	RestrictionSoyFree       RestrictionKind = "soy_free"
	RestrictionEggFree       RestrictionKind = "egg_free"
	RestrictionShellfishFree RestrictionKind = "shellfish_free"
	RestrictionKeto          RestrictionKind = "keto"
	RestrictionHalal         RestrictionKind = "halal"
	RestrictionKosher        RestrictionKind = "kosher"
)

// Severity indicates how strictly a restriction must be honored.
// Only Strict blocks compatibility; lower severities produce warnings.
type Severity string

const (
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeverityStrict   Severity = "strict"
)

// rank returns the ordering rank of a restriction severity
func (s Severity) rank() int {
	switch s {
	case SeverityStrict:
		return 3
	case SeverityModerate:
		return 2
	case SeverityMild:
		return 1
	default:
		return 0
	}
}

// AllergySeverity is the independent severity scale for allergies.
// Severe and Anaphylaxis block compatibility unconditionally.
type AllergySeverity string

const (
	AllergyMild        AllergySeverity = "mild"
	AllergyModerate    AllergySeverity = "moderate"
	AllergySevere      AllergySeverity = "severe"
	AllergyAnaphylaxis AllergySeverity = "anaphylaxis"
)

// rank returns the ordering rank of an allergy severity
func (s AllergySeverity) rank() int {
	switch s {
	case AllergyAnaphylaxis:
		return 4
	case AllergySevere:
		return 3
	case AllergyModerate:
		return 2
	case AllergyMild:
		return 1
	default:
		return 0
	}
}

// PreferenceKind identifies what a food preference refers to
type PreferenceKind string

const (
	PreferenceIngredient PreferenceKind = "ingredient"
	PreferenceCuisine    PreferenceKind = "cuisine"
)

// PreferenceLevel is a non-blocking like/dislike signal. Preferences only
// influence ranking of batch results, never the pass/fail decision.
type PreferenceLevel string

const (
	PreferenceDislike PreferenceLevel = "dislike"
	PreferenceNeutral PreferenceLevel = "neutral"
	PreferenceLike    PreferenceLevel = "like"
	PreferenceLove    PreferenceLevel = "love"
)

// weight returns the ranking weight of a preference level
func (l PreferenceLevel) weight() int {
	switch l {
	case PreferenceLove:
		return 2
	case PreferenceLike:
		return 1
	case PreferenceDislike:
		return -1
	default:
		return 0
	}
}

// Restriction is one dietary rule in a profile
type Restriction struct {
	Kind     RestrictionKind
	Severity Severity
	Active   bool
}

// Allergy is one declared allergen in a profile. The allergen is stored in
// normalized (lowercase, trimmed) form.
type Allergy struct {
	Allergen string
	Severity AllergySeverity
	Active   bool
}

// Preference is one like/dislike signal in a profile
type Preference struct {
	Kind  PreferenceKind
	Item  string
	Level PreferenceLevel
}

// Profile normalizes a user's restrictions, allergies, and preferences into
// one queryable structure. Built once per evaluation call; immutable value.
type Profile struct {
	Restrictions []Restriction
	Allergies    []Allergy
	Preferences  []Preference
}

// NewProfile builds a profile with allergens and preference items
// normalized. Input order is preserved so repeated construction from the
// same data yields an identical value.
func NewProfile(restrictions []Restriction, allergies []Allergy, preferences []Preference) Profile {
	p := Profile{
		Restrictions: make([]Restriction, len(restrictions)),
		Allergies:    make([]Allergy, 0, len(allergies)),
		Preferences:  make([]Preference, 0, len(preferences)),
	}
	copy(p.Restrictions, restrictions)

	for _, a := range allergies {
		a.Allergen = normalizeName(a.Allergen)
		if a.Allergen == "" {
			continue
		}
		p.Allergies = append(p.Allergies, a)
	}

	for _, pref := range preferences {
		pref.Item = normalizeName(pref.Item)
		if pref.Item == "" {
			continue
		}
		p.Preferences = append(p.Preferences, pref)
	}

	return p
}

// ActiveRestrictions returns the restrictions that participate in
// evaluation, one per kind. A later duplicate of an already-seen kind is
// ignored.
func (p Profile) ActiveRestrictions() []Restriction {
	seen := make(map[RestrictionKind]bool, len(p.Restrictions))
	active := make([]Restriction, 0, len(p.Restrictions))
	for _, r := range p.Restrictions {
		if !r.Active || seen[r.Kind] {
			continue
		}
		seen[r.Kind] = true
		active = append(active, r)
	}
	return active
}

// ActiveAllergies returns the allergies that participate in evaluation
func (p Profile) ActiveAllergies() []Allergy {
	active := make([]Allergy, 0, len(p.Allergies))
	for _, a := range p.Allergies {
		if a.Active {
			active = append(active, a)
		}
	}
	return active
}

// IsEmpty reports whether the profile has no active restrictions or
// allergies. Evaluation against an empty profile is always compatible.
func (p Profile) IsEmpty() bool {
	return len(p.ActiveRestrictions()) == 0 && len(p.ActiveAllergies()) == 0
}

// Fingerprint returns a stable digest of the evaluation-relevant parts of
// the profile. Callers use it to build cache keys of the form
// (fingerprint, recipe-id). Preferences are included because they affect
// batch ordering.
func (p Profile) Fingerprint() string {
	parts := make([]string, 0, len(p.Restrictions)+len(p.Allergies)+len(p.Preferences))
	for _, r := range p.ActiveRestrictions() {
		parts = append(parts, fmt.Sprintf("r:%s:%s", r.Kind, r.Severity))
	}
	for _, a := range p.ActiveAllergies() {
		parts = append(parts, fmt.Sprintf("a:%s:%s", a.Allergen, a.Severity))
	}
	for _, pref := range p.Preferences {
		parts = append(parts, fmt.Sprintf("p:%s:%s:%s", pref.Kind, pref.Item, pref.Level))
	}
	sort.Strings(parts)

	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:16])
}

// normalizeName lowercases and trims a free-text ingredient, allergen, or
// preference name.
func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
