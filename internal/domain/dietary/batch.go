package dietary

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/platewise/v1/internal/domain/recipe"
)

// ScoredRecipe pairs a recipe with its evaluation result and the
// preference weight used for ranking.
type ScoredRecipe struct {
	Recipe        recipe.Recipe
	Result        Compatibility
	PreferenceFit int
}

// RejectedRecipe is a recipe that fell below the score floor, with a
// human-readable account of what failed.
type RejectedRecipe struct {
	Recipe         recipe.Recipe
	Result         Compatibility
	FailedCriteria []string
}

// CompatibilityStats summarizes one batch evaluation. AverageScore is the
// mean over every evaluated recipe, compatible or not.
type CompatibilityStats struct {
	TotalEvaluated    int
	TotalCompatible   int
	TotalIncompatible int
	AverageScore      float64
}

// FilteredRecipes is the outcome of filtering a recipe batch against a
// profile. Compatible entries are ordered best-first.
type FilteredRecipes struct {
	Compatible   []ScoredRecipe
	Incompatible []RejectedRecipe
	Stats        CompatibilityStats
}

// FilterRecipes evaluates every recipe against the profile and partitions
// the batch at minScore. A recipe passes when it has no blocking
// violations and its score is at least minScore. Compatible results are
// ordered by score descending, then preference fit descending, then input
// position; rejected results keep input order.
func FilterRecipes(recipes []recipe.Recipe, profile Profile, minScore float64) FilteredRecipes {
	out := FilteredRecipes{
		Compatible:   make([]ScoredRecipe, 0, len(recipes)),
		Incompatible: make([]RejectedRecipe, 0),
	}

	var scoreSum float64
	order := make(map[uuid.UUID]int, len(recipes))

	for i, rec := range recipes {
		order[rec.ID] = i
		result := Evaluate(profile, rec)
		scoreSum += result.Score

		if result.IsCompatible && result.Score >= minScore {
			out.Compatible = append(out.Compatible, ScoredRecipe{
				Recipe:        rec,
				Result:        result,
				PreferenceFit: preferenceScore(rec, profile),
			})
			continue
		}
		out.Incompatible = append(out.Incompatible, RejectedRecipe{
			Recipe:         rec,
			Result:         result,
			FailedCriteria: failedCriteria(result, minScore),
		})
	}

	sort.SliceStable(out.Compatible, func(i, j int) bool {
		a, b := out.Compatible[i], out.Compatible[j]
		if a.Result.Score != b.Result.Score {
			return a.Result.Score > b.Result.Score
		}
		if a.PreferenceFit != b.PreferenceFit {
			return a.PreferenceFit > b.PreferenceFit
		}
		return order[a.Recipe.ID] < order[b.Recipe.ID]
	})

	out.Stats = CompatibilityStats{
		TotalEvaluated:    len(recipes),
		TotalCompatible:   len(out.Compatible),
		TotalIncompatible: len(out.Incompatible),
	}
	if len(recipes) > 0 {
		out.Stats.AverageScore = scoreSum / float64(len(recipes))
	}
	return out
}

// MealVerdict is the evaluation of one planned meal within a plan
type MealVerdict struct {
	Meal         recipe.PlannedMeal
	Recipe       recipe.Recipe
	Result       Compatibility
	Alternatives []ScoredRecipe
}

// FilteredMealPlan is the outcome of checking a weekly meal plan. A meal
// is flagged when its recipe score falls below the threshold or it has
// blocking violations; flagged meals carry replacement candidates drawn
// from the supplied recipe set.
type FilteredMealPlan struct {
	Plan              recipe.WeeklyMealPlan
	CompatibleMeals   []MealVerdict
	IncompatibleMeals []MealVerdict
	OverallScore      float64
}

// FilterMealPlan evaluates every planned meal against the profile.
// Recipes are supplied as a set keyed by ID; a meal referencing a recipe
// outside the set fails the whole call with ErrUnknownRecipeReference.
// OverallScore is the mean score across all planned meals, 1.0 for an
// empty plan.
func FilterMealPlan(plan recipe.WeeklyMealPlan, recipes map[uuid.UUID]recipe.Recipe, profile Profile, threshold float64, maxAlternatives int) (FilteredMealPlan, error) {
	out := FilteredMealPlan{
		Plan:            plan,
		CompatibleMeals: make([]MealVerdict, 0, len(plan.PlannedMeals)),
		OverallScore:    1.0,
	}

	for _, meal := range plan.PlannedMeals {
		if _, ok := recipes[meal.RecipeID]; !ok {
			return FilteredMealPlan{}, fmt.Errorf("planned meal %s: %w", meal.ID, ErrUnknownRecipeReference)
		}
	}

	var scoreSum float64
	for _, meal := range plan.PlannedMeals {
		rec := recipes[meal.RecipeID]
		result := Evaluate(profile, rec)
		scoreSum += result.Score

		verdict := MealVerdict{Meal: meal, Recipe: rec, Result: result}
		if result.IsCompatible && result.Score >= threshold {
			out.CompatibleMeals = append(out.CompatibleMeals, verdict)
			continue
		}
		verdict.Alternatives = alternativesFor(meal.RecipeID, recipes, profile, threshold, maxAlternatives)
		out.IncompatibleMeals = append(out.IncompatibleMeals, verdict)
	}

	if len(plan.PlannedMeals) > 0 {
		out.OverallScore = scoreSum / float64(len(plan.PlannedMeals))
	}
	return out, nil
}

// alternativesFor ranks replacement candidates for a flagged meal. Only
// recipes that clear the threshold with no blocking violations qualify.
// Candidates are ordered by score, then preference fit, then recipe ID
// for a stable result.
func alternativesFor(exclude uuid.UUID, recipes map[uuid.UUID]recipe.Recipe, profile Profile, threshold float64, max int) []ScoredRecipe {
	ids := make([]uuid.UUID, 0, len(recipes))
	for id := range recipes {
		if id != exclude {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	var candidates []ScoredRecipe
	for _, id := range ids {
		rec := recipes[id]
		result := Evaluate(profile, rec)
		if !result.IsCompatible || result.Score < threshold {
			continue
		}
		candidates = append(candidates, ScoredRecipe{
			Recipe:        rec,
			Result:        result,
			PreferenceFit: preferenceScore(rec, profile),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Result.Score != b.Result.Score {
			return a.Result.Score > b.Result.Score
		}
		if a.PreferenceFit != b.PreferenceFit {
			return a.PreferenceFit > b.PreferenceFit
		}
		return a.Recipe.ID.String() < b.Recipe.ID.String()
	})

	if max > 0 && len(candidates) > max {
		candidates = candidates[:max]
	}
	return candidates
}

// HighlightLevel grades how urgently a shopping-list item conflicts with
// the profile.
type HighlightLevel string

const (
	HighlightNone   HighlightLevel = "none"
	HighlightLow    HighlightLevel = "low"
	HighlightMedium HighlightLevel = "medium"
	HighlightHigh   HighlightLevel = "high"
)

// HighlightedItem annotates one shopping-list item with its conflict
// grade and replacement product suggestions.
type HighlightedItem struct {
	Item         recipe.ShoppingListItem
	Level        HighlightLevel
	Reasons      []string
	Alternatives []string
}

// HighlightedShoppingList preserves the input list order with every item
// annotated.
type HighlightedShoppingList struct {
	List  recipe.ShoppingListWithItems
	Items []HighlightedItem
}

// HighlightShoppingList grades each item on the list against the profile.
// Strict restrictions and severe or anaphylaxis allergies grade high,
// moderate conflicts grade medium, mild ones low. Conflicting items get
// up to maxSuggestions replacement product names.
func HighlightShoppingList(list recipe.ShoppingListWithItems, profile Profile, maxSuggestions int) HighlightedShoppingList {
	out := HighlightedShoppingList{
		List:  list,
		Items: make([]HighlightedItem, 0, len(list.Items)),
	}

	for _, item := range list.Items {
		tags := Classify(item.Name)
		level := HighlightNone
		var reasons []string

		for _, r := range profile.ActiveRestrictions() {
			if !tags.Intersects(ForbiddenTags(r.Kind)) {
				continue
			}
			reasons = append(reasons, fmt.Sprintf("conflicts with %s restriction", restrictionLabel(r.Kind)))
			level = maxHighlight(level, restrictionHighlight(r.Severity))
		}
		for _, a := range profile.ActiveAllergies() {
			if !matchesAllergen(item.Name, tags, a.Allergen) {
				continue
			}
			reasons = append(reasons, fmt.Sprintf("contains allergen: %s", a.Allergen))
			level = maxHighlight(level, allergyHighlight(a.Severity))
		}

		highlighted := HighlightedItem{Item: item, Level: level, Reasons: reasons}
		if level != HighlightNone {
			highlighted.Alternatives = AlternativeNames(item.Name, maxSuggestions)
		}
		out.Items = append(out.Items, highlighted)
	}
	return out
}

// preferenceScore sums the profile's preference weights that apply to a
// recipe. Ingredient preferences match by substring against normalized
// ingredient names; cuisine preferences match the recipe's cuisine.
func preferenceScore(rec recipe.Recipe, profile Profile) int {
	score := 0
	cuisine := normalizeName(rec.Cuisine)

	for _, pref := range profile.Preferences {
		switch pref.Kind {
		case PreferenceCuisine:
			if cuisine != "" && cuisine == pref.Item {
				score += pref.Level.weight()
			}
		case PreferenceIngredient:
			for _, ing := range rec.Ingredients {
				if strings.Contains(normalizeName(ing.Name), pref.Item) {
					score += pref.Level.weight()
					break
				}
			}
		}
	}
	return score
}

// failedCriteria renders the reasons a recipe was rejected
func failedCriteria(result Compatibility, minScore float64) []string {
	var criteria []string
	for _, v := range result.Violations {
		criteria = append(criteria, v.Description)
	}
	if len(result.Violations) == 0 && result.Score < minScore {
		criteria = append(criteria, fmt.Sprintf("score %.2f below minimum %.2f", result.Score, minScore))
	}
	return criteria
}

func restrictionHighlight(s Severity) HighlightLevel {
	switch s {
	case SeverityStrict:
		return HighlightHigh
	case SeverityModerate:
		return HighlightMedium
	default:
		return HighlightLow
	}
}

func allergyHighlight(s AllergySeverity) HighlightLevel {
	switch s {
	case AllergySevere, AllergyAnaphylaxis:
		return HighlightHigh
	case AllergyModerate:
		return HighlightMedium
	default:
		return HighlightLow
	}
}

func highlightRank(l HighlightLevel) int {
	switch l {
	case HighlightHigh:
		return 3
	case HighlightMedium:
		return 2
	case HighlightLow:
		return 1
	default:
		return 0
	}
}

func maxHighlight(a, b HighlightLevel) HighlightLevel {
	if highlightRank(b) > highlightRank(a) {
		return b
	}
	return a
}
