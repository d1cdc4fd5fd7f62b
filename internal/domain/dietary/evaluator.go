package dietary

import (
	"fmt"
	"strings"

	"github.com/platewise/v1/internal/domain/recipe"
)

// forbiddenTags maps each restriction kind to the ingredient tags it rules
// out. The map is logically constant.
var forbiddenTags = map[RestrictionKind][]IngredientTag{
	RestrictionVegetarian:    {TagMeat, TagFish, TagShellfish},
	RestrictionVegan:         {TagMeat, TagFish, TagShellfish, TagDairy, TagEgg, TagHoney},
	RestrictionPescatarian:   {TagMeat},
	RestrictionGlutenFree:    {TagGluten},
	RestrictionDairyFree:     {TagDairy},
	RestrictionNutFree:       {TagNut, TagPeanut},
	RestrictionSoyFree:       {TagSoy},
	RestrictionEggFree:       {TagEgg},
	RestrictionShellfishFree: {TagShellfish},
	RestrictionKeto:          {TagHighCarb, TagHighSugar},
	RestrictionHalal:         {TagPork, TagAlcohol},
	RestrictionKosher:        {TagPork, TagShellfish},
}

// allergenTagHints maps common allergen names to the classifier tag that
// also indicates their presence, so "dairy" flags "cheddar cheese" even
// though the names share no substring.
var allergenTagHints = map[string]IngredientTag{
	"peanut":    TagPeanut,
	"peanuts":   TagPeanut,
	"tree nuts": TagNut,
	"nuts":      TagNut,
	"dairy":     TagDairy,
	"milk":      TagDairy,
	"lactose":   TagDairy,
	"egg":       TagEgg,
	"eggs":      TagEgg,
	"gluten":    TagGluten,
	"wheat":     TagGluten,
	"soy":       TagSoy,
	"shellfish": TagShellfish,
	"fish":      TagFish,
	"sesame":    TagSesame,
}

// ForbiddenTags returns the tags a restriction kind rules out. Unknown
// kinds forbid nothing.
func ForbiddenTags(kind RestrictionKind) TagSet {
	set := make(TagSet)
	for _, tag := range forbiddenTags[kind] {
		set[tag] = struct{}{}
	}
	return set
}

// Evaluate applies a profile against one recipe and returns the verdict.
// The result is deterministic: identical inputs yield byte-identical
// output, including violation and warning order.
//
// Blocking rules: a restriction violation blocks at Strict severity; an
// allergy violation blocks at Severe or Anaphylaxis and forces the score to
// zero. Conflicts below the blocking bar are recorded as warnings and only
// reduce the score.
func Evaluate(profile Profile, rec recipe.Recipe) Compatibility {
	ingredientTags := make([]TagSet, len(rec.Ingredients))
	for i, ing := range rec.Ingredients {
		ingredientTags[i] = Classify(ing.Name)
	}

	var violations []Violation
	var warnings []Warning

	// Restriction checks. Ingredients are grouped into one finding per
	// restriction, deduplicated by normalized name.
	for _, r := range profile.ActiveRestrictions() {
		forbidden := ForbiddenTags(r.Kind)
		if len(forbidden) == 0 {
			continue
		}

		affected, firstIdx := collectMatches(rec.Ingredients, func(i int, _ recipe.Ingredient) bool {
			return ingredientTags[i].Intersects(forbidden)
		})
		if len(affected) == 0 {
			continue
		}

		description := fmt.Sprintf("recipe conflicts with %s restriction", restrictionLabel(r.Kind))
		if r.Severity == SeverityStrict {
			violations = append(violations, Violation{
				Source:              SourceRestriction,
				Restriction:         r.Kind,
				RestrictionSeverity: r.Severity,
				Description:         description,
				AffectedIngredients: affected,
				firstIngredient:     firstIdx,
			})
		} else {
			warnings = append(warnings, Warning{
				Source:              SourceRestriction,
				Restriction:         r.Kind,
				RestrictionSeverity: r.Severity,
				Description:         description,
				AffectedIngredients: affected,
				Suggestion:          "consider substituting or omitting the affected ingredients",
				firstIngredient:     firstIdx,
			})
		}
	}

	// Allergy checks run independently of restrictions and always run.
	for _, a := range profile.ActiveAllergies() {
		affected, firstIdx := collectMatches(rec.Ingredients, func(i int, ing recipe.Ingredient) bool {
			return matchesAllergen(ing.Name, ingredientTags[i], a.Allergen)
		})

		// Pre-declared recipe tags can also flag an allergen even when no
		// single ingredient does.
		for _, tag := range rec.DeclaredTags {
			if strings.Contains(normalizeName(tag), a.Allergen) {
				affected = appendUnique(affected, normalizeName(tag))
				if firstIdx < 0 {
					firstIdx = len(rec.Ingredients)
				}
			}
		}
		if len(affected) == 0 {
			continue
		}

		description := fmt.Sprintf("recipe contains allergen: %s", a.Allergen)
		if a.Severity == AllergySevere || a.Severity == AllergyAnaphylaxis {
			violations = append(violations, Violation{
				Source:              SourceAllergy,
				Allergen:            a.Allergen,
				AllergySeverity:     a.Severity,
				Description:         description,
				AffectedIngredients: affected,
				firstIngredient:     firstIdx,
			})
		} else {
			warnings = append(warnings, Warning{
				Source:              SourceAllergy,
				Allergen:            a.Allergen,
				AllergySeverity:     a.Severity,
				Description:         description,
				AffectedIngredients: affected,
				Suggestion:          "check product labels for traces of this allergen",
				firstIngredient:     firstIdx,
			})
		}
	}

	sortViolations(violations)
	sortWarnings(warnings)

	return Compatibility{
		IsCompatible: len(violations) == 0,
		Violations:   violations,
		Warnings:     warnings,
		Score:        computeScore(violations, warnings),
	}
}

// computeScore derives the [0,1] compatibility score. The score starts at
// 1.0 and only ever decreases as findings accumulate.
func computeScore(violations []Violation, warnings []Warning) float64 {
	score := 1.0
	for _, v := range violations {
		switch v.Source {
		case SourceAllergy:
			// A blocking allergy is non-negotiable.
			return 0.0
		case SourceRestriction:
			score -= 0.5
		}
	}

	for _, w := range warnings {
		switch w.severityRank() {
		case 2:
			score -= 0.15
		case 1:
			score -= 0.05
		}
	}

	if score < 0 {
		return 0.0
	}
	return score
}

// collectMatches walks the ingredient list once, collecting the normalized
// names that satisfy match. Duplicate names collapse into one entry; the
// returned index is the position of the first match, or -1.
func collectMatches(ingredients []recipe.Ingredient, match func(int, recipe.Ingredient) bool) ([]string, int) {
	var affected []string
	firstIdx := -1
	for i, ing := range ingredients {
		if !match(i, ing) {
			continue
		}
		if firstIdx < 0 {
			firstIdx = i
		}
		affected = appendUnique(affected, normalizeName(ing.Name))
	}
	return affected, firstIdx
}

// matchesAllergen reports whether an ingredient matches a normalized
// allergen by name or by classified tag.
func matchesAllergen(name string, tags TagSet, allergen string) bool {
	normalized := normalizeName(name)
	if strings.Contains(normalized, allergen) {
		return true
	}
	// "peanuts" should still match "peanut butter".
	if singular := strings.TrimSuffix(allergen, "s"); len(singular) > 2 && strings.Contains(normalized, singular) {
		return true
	}
	if hint, ok := allergenTagHints[allergen]; ok && tags.Has(hint) {
		return true
	}
	return false
}

// restrictionLabel renders a restriction kind for violation descriptions
func restrictionLabel(kind RestrictionKind) string {
	return strings.ReplaceAll(string(kind), "_", "-")
}

// appendUnique appends value to list unless already present, preserving
// first-occurrence order.
func appendUnique(list []string, value string) []string {
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	return append(list, value)
}
