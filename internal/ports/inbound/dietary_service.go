// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the interfaces that the application exposes to the outside world
package inbound

import (
	"context"

	"github.com/google/uuid"

	"github.com/platewise/v1/internal/domain/dietary"
	"github.com/platewise/v1/internal/domain/recipe"
)

// DietaryService defines the use cases of the compatibility engine
// This is the primary port that HTTP handlers and other driving adapters will use
type DietaryService interface {
	// Point evaluation
	EvaluateRecipe(ctx context.Context, cmd EvaluateRecipeCommand) (*CompatibilityDTO, error)
	EvaluateRecipeByID(ctx context.Context, profileID, recipeID uuid.UUID) (*CompatibilityDTO, error)

	// Batch operations
	FilterRecipes(ctx context.Context, cmd FilterRecipesCommand) (*FilteredRecipesDTO, error)
	FilterMealPlan(ctx context.Context, cmd FilterMealPlanCommand) (*FilteredMealPlanDTO, error)
	HighlightShoppingList(ctx context.Context, cmd HighlightShoppingListCommand) (*HighlightedListDTO, error)

	// Substitutions
	SuggestSubstitutions(ctx context.Context, profileID, recipeID uuid.UUID) (map[string][]SubstitutionDTO, error)

	// Import support
	ValidateRecipeImport(ctx context.Context, cmd ValidateRecipeImportCommand) (*ImportValidationDTO, error)
}

// Command objects for operations

// EvaluateRecipeCommand evaluates one inline recipe against a stored profile
type EvaluateRecipeCommand struct {
	ProfileID uuid.UUID
	Recipe    recipe.Recipe
}

// FilterRecipesCommand filters a set of stored recipes for a profile.
// MinScore of nil uses the engine's configured default.
type FilterRecipesCommand struct {
	ProfileID uuid.UUID
	RecipeIDs []uuid.UUID
	MinScore  *float64
}

// FilterMealPlanCommand checks a stored weekly meal plan against a profile
type FilterMealPlanCommand struct {
	ProfileID       uuid.UUID
	MealPlanID      uuid.UUID
	Threshold       *float64
	MaxAlternatives *int
}

// HighlightShoppingListCommand grades a stored shopping list against a profile
type HighlightShoppingListCommand struct {
	ProfileID      uuid.UUID
	ShoppingListID uuid.UUID
	MaxSuggestions *int
}

// ValidateRecipeImportCommand checks a candidate recipe before import
type ValidateRecipeImportCommand struct {
	ProfileID uuid.UUID
	Recipe    recipe.Recipe
}

// DTOs returned to driving adapters

// ViolationDTO is the transport shape of a blocking conflict
type ViolationDTO struct {
	Source              string   `json:"source"`
	Rule                string   `json:"rule"`
	Severity            string   `json:"severity"`
	Description         string   `json:"description"`
	AffectedIngredients []string `json:"affected_ingredients"`
}

// WarningDTO is the transport shape of a non-blocking conflict
type WarningDTO struct {
	Source              string   `json:"source"`
	Rule                string   `json:"rule"`
	Severity            string   `json:"severity"`
	Description         string   `json:"description"`
	AffectedIngredients []string `json:"affected_ingredients"`
	Suggestion          string   `json:"suggestion,omitempty"`
}

// CompatibilityDTO is the transport shape of one evaluation verdict
type CompatibilityDTO struct {
	RecipeID     uuid.UUID      `json:"recipe_id"`
	RecipeName   string         `json:"recipe_name"`
	IsCompatible bool           `json:"is_compatible"`
	Score        float64        `json:"score"`
	Violations   []ViolationDTO `json:"violations"`
	Warnings     []WarningDTO   `json:"warnings"`
}

// ScoredRecipeDTO is one compatible entry of a filtered batch
type ScoredRecipeDTO struct {
	RecipeID      uuid.UUID `json:"recipe_id"`
	RecipeName    string    `json:"recipe_name"`
	Score         float64   `json:"score"`
	PreferenceFit int       `json:"preference_fit"`
}

// RejectedRecipeDTO is one incompatible entry of a filtered batch
type RejectedRecipeDTO struct {
	RecipeID       uuid.UUID `json:"recipe_id"`
	RecipeName     string    `json:"recipe_name"`
	Score          float64   `json:"score"`
	FailedCriteria []string  `json:"failed_criteria"`
}

// StatsDTO summarizes one batch evaluation
type StatsDTO struct {
	TotalEvaluated    int     `json:"total_evaluated"`
	TotalCompatible   int     `json:"total_compatible"`
	TotalIncompatible int     `json:"total_incompatible"`
	AverageScore      float64 `json:"average_score"`
}

// FilteredRecipesDTO is the transport shape of a batch filter result
type FilteredRecipesDTO struct {
	Compatible   []ScoredRecipeDTO   `json:"compatible"`
	Incompatible []RejectedRecipeDTO `json:"incompatible"`
	Stats        StatsDTO            `json:"stats"`
}

// MealVerdictDTO is the verdict for one planned meal
type MealVerdictDTO struct {
	MealID       uuid.UUID         `json:"meal_id"`
	RecipeID     uuid.UUID         `json:"recipe_id"`
	RecipeName   string            `json:"recipe_name"`
	MealType     string            `json:"meal_type"`
	Score        float64           `json:"score"`
	IsCompatible bool              `json:"is_compatible"`
	Alternatives []ScoredRecipeDTO `json:"alternatives,omitempty"`
}

// FilteredMealPlanDTO is the transport shape of a meal plan check
type FilteredMealPlanDTO struct {
	MealPlanID        uuid.UUID        `json:"meal_plan_id"`
	OverallScore      float64          `json:"overall_score"`
	CompatibleMeals   []MealVerdictDTO `json:"compatible_meals"`
	IncompatibleMeals []MealVerdictDTO `json:"incompatible_meals"`
}

// HighlightedItemDTO is one annotated shopping list item
type HighlightedItemDTO struct {
	ItemID       uuid.UUID `json:"item_id"`
	Name         string    `json:"name"`
	Level        string    `json:"level"`
	Reasons      []string  `json:"reasons,omitempty"`
	Alternatives []string  `json:"alternatives,omitempty"`
}

// HighlightedListDTO is the transport shape of a graded shopping list
type HighlightedListDTO struct {
	ShoppingListID uuid.UUID            `json:"shopping_list_id"`
	Items          []HighlightedItemDTO `json:"items"`
}

// ImportValidationDTO is the pre-import verdict for a candidate recipe.
// A recipe is importable unless a blocking allergy violation exists;
// substitutions cover every conflicting ingredient.
type ImportValidationDTO struct {
	Importable    bool                         `json:"importable"`
	Compatibility *CompatibilityDTO            `json:"compatibility"`
	Substitutions map[string][]SubstitutionDTO `json:"substitutions,omitempty"`
}

// SubstitutionDTO is one ranked replacement suggestion
type SubstitutionDTO struct {
	Original   string  `json:"original"`
	Substitute string  `json:"substitute"`
	Ratio      string  `json:"ratio"`
	Confidence float64 `json:"confidence"`
	Note       string  `json:"note,omitempty"`

	CalorieChange float64 `json:"calorie_change"`
	ProteinChange float64 `json:"protein_change"`
	CarbChange    float64 `json:"carb_change"`
	FatChange     float64 `json:"fat_change"`
}

// NewCompatibilityDTO maps a domain verdict into its transport shape
func NewCompatibilityDTO(rec recipe.Recipe, result dietary.Compatibility) *CompatibilityDTO {
	dto := &CompatibilityDTO{
		RecipeID:     rec.ID,
		RecipeName:   rec.Name,
		IsCompatible: result.IsCompatible,
		Score:        result.Score,
		Violations:   make([]ViolationDTO, 0, len(result.Violations)),
		Warnings:     make([]WarningDTO, 0, len(result.Warnings)),
	}
	for _, v := range result.Violations {
		dto.Violations = append(dto.Violations, ViolationDTO{
			Source:              string(v.Source),
			Rule:                violationRule(v.Source, string(v.Restriction), v.Allergen),
			Severity:            v.SeverityLabel(),
			Description:         v.Description,
			AffectedIngredients: v.AffectedIngredients,
		})
	}
	for _, w := range result.Warnings {
		dto.Warnings = append(dto.Warnings, WarningDTO{
			Source:              string(w.Source),
			Rule:                violationRule(w.Source, string(w.Restriction), w.Allergen),
			Severity:            w.SeverityLabel(),
			Description:         w.Description,
			AffectedIngredients: w.AffectedIngredients,
			Suggestion:          w.Suggestion,
		})
	}
	return dto
}

// NewSubstitutionDTO maps a domain suggestion into its transport shape
func NewSubstitutionDTO(s dietary.Substitution) SubstitutionDTO {
	return SubstitutionDTO{
		Original:      s.Original,
		Substitute:    s.Substitute,
		Ratio:         s.Ratio,
		Confidence:    s.Confidence,
		Note:          s.Note,
		CalorieChange: s.Impact.CalorieChange,
		ProteinChange: s.Impact.ProteinChange,
		CarbChange:    s.Impact.CarbChange,
		FatChange:     s.Impact.FatChange,
	}
}

func violationRule(source dietary.ViolationSource, restriction, allergen string) string {
	if source == dietary.SourceAllergy {
		return allergen
	}
	return restriction
}
