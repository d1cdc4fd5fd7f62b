// Package dietary provides the application layer for the compatibility
// engine. It implements the use cases defined in the inbound ports on top
// of the pure domain evaluator.
package dietary

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/platewise/v1/internal/domain/dietary"
	"github.com/platewise/v1/internal/domain/recipe"
	"github.com/platewise/v1/internal/ports/inbound"
	"github.com/platewise/v1/internal/ports/outbound"
	"github.com/platewise/v1/pkg/errors"
)

// Options carries the engine defaults a deployment can tune
type Options struct {
	MinScore           float64
	MealPlanThreshold  float64
	MaxAlternatives    int
	MaxItemSuggestions int
	CacheTTL           time.Duration
}

// DefaultOptions returns the engine defaults
func DefaultOptions() Options {
	return Options{
		MinScore:           0.0,
		MealPlanThreshold:  0.7,
		MaxAlternatives:    3,
		MaxItemSuggestions: 3,
		CacheTTL:           15 * time.Minute,
	}
}

// DietaryService implements the compatibility engine use cases
type DietaryService struct {
	profileRepo      outbound.ProfileRepository
	recipeRepo       outbound.RecipeRepository
	mealPlanRepo     outbound.MealPlanRepository
	shoppingListRepo outbound.ShoppingListRepository
	cache            outbound.CacheRepository
	metrics          outbound.MetricsRecorder
	opts             Options
	logger           *zap.Logger
}

// NewDietaryService creates a new dietary service
func NewDietaryService(
	profileRepo outbound.ProfileRepository,
	recipeRepo outbound.RecipeRepository,
	mealPlanRepo outbound.MealPlanRepository,
	shoppingListRepo outbound.ShoppingListRepository,
	cache outbound.CacheRepository,
	metrics outbound.MetricsRecorder,
	opts Options,
	logger *zap.Logger,
) inbound.DietaryService {
	return &DietaryService{
		profileRepo:      profileRepo,
		recipeRepo:       recipeRepo,
		mealPlanRepo:     mealPlanRepo,
		shoppingListRepo: shoppingListRepo,
		cache:            cache,
		metrics:          metrics,
		opts:             opts,
		logger:           logger.Named("dietary-service"),
	}
}

// EvaluateRecipe evaluates an inline recipe against a stored profile
func (s *DietaryService) EvaluateRecipe(ctx context.Context, cmd inbound.EvaluateRecipeCommand) (*inbound.CompatibilityDTO, error) {
	if err := cmd.Recipe.Validate(); err != nil {
		return nil, errors.NewInvalidInputError(err.Error())
	}

	profile, err := s.loadProfile(ctx, cmd.ProfileID)
	if err != nil {
		return nil, err
	}

	return s.evaluate(ctx, profile, cmd.Recipe), nil
}

// EvaluateRecipeByID evaluates a stored recipe against a stored profile
func (s *DietaryService) EvaluateRecipeByID(ctx context.Context, profileID, recipeID uuid.UUID) (*inbound.CompatibilityDTO, error) {
	profile, err := s.loadProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}

	rec, err := s.recipeRepo.FindByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, errors.CodeRecipeNotFound) {
			return nil, err
		}
		return nil, errors.NewRepositoryError("find recipe", err)
	}

	return s.evaluate(ctx, profile, rec), nil
}

// FilterRecipes filters a set of stored recipes for a profile
func (s *DietaryService) FilterRecipes(ctx context.Context, cmd inbound.FilterRecipesCommand) (*inbound.FilteredRecipesDTO, error) {
	profile, err := s.loadProfile(ctx, cmd.ProfileID)
	if err != nil {
		return nil, err
	}

	var recipes []recipe.Recipe
	if len(cmd.RecipeIDs) > 0 {
		recipes, err = s.recipeRepo.FindByIDs(ctx, cmd.RecipeIDs)
	} else {
		recipes, err = s.recipeRepo.FindAll(ctx)
	}
	if err != nil {
		return nil, errors.NewRepositoryError("load recipes", err)
	}

	minScore := s.opts.MinScore
	if cmd.MinScore != nil {
		minScore = *cmd.MinScore
	}
	if minScore < 0 || minScore > 1 {
		return nil, errors.NewInvalidInputError(fmt.Sprintf("min score %.2f outside [0,1]", minScore))
	}

	s.metrics.RecordBatch(len(recipes))
	result := dietary.FilterRecipes(recipes, profile, minScore)

	s.logger.Info("Filtered recipe batch",
		zap.String("profile_id", cmd.ProfileID.String()),
		zap.Int("evaluated", result.Stats.TotalEvaluated),
		zap.Int("compatible", result.Stats.TotalCompatible),
	)

	dto := &inbound.FilteredRecipesDTO{
		Compatible:   make([]inbound.ScoredRecipeDTO, 0, len(result.Compatible)),
		Incompatible: make([]inbound.RejectedRecipeDTO, 0, len(result.Incompatible)),
		Stats: inbound.StatsDTO{
			TotalEvaluated:    result.Stats.TotalEvaluated,
			TotalCompatible:   result.Stats.TotalCompatible,
			TotalIncompatible: result.Stats.TotalIncompatible,
			AverageScore:      result.Stats.AverageScore,
		},
	}
	for _, scored := range result.Compatible {
		dto.Compatible = append(dto.Compatible, scoredToDTO(scored))
	}
	for _, rejected := range result.Incompatible {
		dto.Incompatible = append(dto.Incompatible, inbound.RejectedRecipeDTO{
			RecipeID:       rejected.Recipe.ID,
			RecipeName:     rejected.Recipe.Name,
			Score:          rejected.Result.Score,
			FailedCriteria: rejected.FailedCriteria,
		})
	}
	return dto, nil
}

// FilterMealPlan checks a stored weekly meal plan against a profile
func (s *DietaryService) FilterMealPlan(ctx context.Context, cmd inbound.FilterMealPlanCommand) (*inbound.FilteredMealPlanDTO, error) {
	profile, err := s.loadProfile(ctx, cmd.ProfileID)
	if err != nil {
		return nil, err
	}

	plan, err := s.mealPlanRepo.FindByID(ctx, cmd.MealPlanID)
	if err != nil {
		if errors.Is(err, errors.CodeMealPlanNotFound) {
			return nil, err
		}
		return nil, errors.NewRepositoryError("find meal plan", err)
	}

	recipeIDs := make([]uuid.UUID, 0, len(plan.PlannedMeals))
	for _, meal := range plan.PlannedMeals {
		recipeIDs = append(recipeIDs, meal.RecipeID)
	}
	recipes, err := s.recipeRepo.FindByIDs(ctx, recipeIDs)
	if err != nil {
		return nil, errors.NewRepositoryError("load planned recipes", err)
	}
	recipeSet := make(map[uuid.UUID]recipe.Recipe, len(recipes))
	for _, rec := range recipes {
		recipeSet[rec.ID] = rec
	}

	// Alternatives draw from the whole catalog, not just the planned recipes.
	catalog, err := s.recipeRepo.FindAll(ctx)
	if err != nil {
		return nil, errors.NewRepositoryError("load recipe catalog", err)
	}
	for _, rec := range catalog {
		recipeSet[rec.ID] = rec
	}

	threshold := s.opts.MealPlanThreshold
	if cmd.Threshold != nil {
		threshold = *cmd.Threshold
	}
	maxAlternatives := s.opts.MaxAlternatives
	if cmd.MaxAlternatives != nil {
		maxAlternatives = *cmd.MaxAlternatives
	}

	result, err := dietary.FilterMealPlan(plan, recipeSet, profile, threshold, maxAlternatives)
	if err != nil {
		return nil, errors.NewInvalidInputError(err.Error())
	}

	s.logger.Info("Checked meal plan",
		zap.String("meal_plan_id", plan.ID.String()),
		zap.Float64("overall_score", result.OverallScore),
		zap.Int("flagged", len(result.IncompatibleMeals)),
	)

	dto := &inbound.FilteredMealPlanDTO{
		MealPlanID:        plan.ID,
		OverallScore:      result.OverallScore,
		CompatibleMeals:   make([]inbound.MealVerdictDTO, 0, len(result.CompatibleMeals)),
		IncompatibleMeals: make([]inbound.MealVerdictDTO, 0, len(result.IncompatibleMeals)),
	}
	for _, verdict := range result.CompatibleMeals {
		dto.CompatibleMeals = append(dto.CompatibleMeals, verdictToDTO(verdict))
	}
	for _, verdict := range result.IncompatibleMeals {
		dto.IncompatibleMeals = append(dto.IncompatibleMeals, verdictToDTO(verdict))
	}
	return dto, nil
}

// HighlightShoppingList grades a stored shopping list against a profile
func (s *DietaryService) HighlightShoppingList(ctx context.Context, cmd inbound.HighlightShoppingListCommand) (*inbound.HighlightedListDTO, error) {
	profile, err := s.loadProfile(ctx, cmd.ProfileID)
	if err != nil {
		return nil, err
	}

	list, err := s.shoppingListRepo.FindByID(ctx, cmd.ShoppingListID)
	if err != nil {
		if errors.Is(err, errors.CodeNotFound) {
			return nil, err
		}
		return nil, errors.NewRepositoryError("find shopping list", err)
	}

	maxSuggestions := s.opts.MaxItemSuggestions
	if cmd.MaxSuggestions != nil {
		maxSuggestions = *cmd.MaxSuggestions
	}

	result := dietary.HighlightShoppingList(list, profile, maxSuggestions)

	dto := &inbound.HighlightedListDTO{
		ShoppingListID: list.ID,
		Items:          make([]inbound.HighlightedItemDTO, 0, len(result.Items)),
	}
	for _, item := range result.Items {
		dto.Items = append(dto.Items, inbound.HighlightedItemDTO{
			ItemID:       item.Item.ID,
			Name:         item.Item.Name,
			Level:        string(item.Level),
			Reasons:      item.Reasons,
			Alternatives: item.Alternatives,
		})
	}
	return dto, nil
}

// SuggestSubstitutions returns replacement suggestions for every
// conflicting ingredient of a stored recipe.
func (s *DietaryService) SuggestSubstitutions(ctx context.Context, profileID, recipeID uuid.UUID) (map[string][]inbound.SubstitutionDTO, error) {
	profile, err := s.loadProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}

	rec, err := s.recipeRepo.FindByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, errors.CodeRecipeNotFound) {
			return nil, err
		}
		return nil, errors.NewRepositoryError("find recipe", err)
	}

	suggestions := dietary.SuggestForRecipe(rec, profile)
	dto := make(map[string][]inbound.SubstitutionDTO, len(suggestions))
	for name, subs := range suggestions {
		out := make([]inbound.SubstitutionDTO, 0, len(subs))
		for _, sub := range subs {
			out = append(out, inbound.NewSubstitutionDTO(sub))
		}
		dto[name] = out
	}
	return dto, nil
}

// ValidateRecipeImport checks a candidate recipe before import. The recipe
// is importable unless a blocking allergy violation exists; restriction
// violations reduce the score but never block import. The verdict bundles
// substitutions for every conflicting ingredient.
func (s *DietaryService) ValidateRecipeImport(ctx context.Context, cmd inbound.ValidateRecipeImportCommand) (*inbound.ImportValidationDTO, error) {
	if err := cmd.Recipe.Validate(); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if len(cmd.Recipe.Ingredients) == 0 {
		return nil, errors.NewValidationError("recipe has no ingredients")
	}

	profile, err := s.loadProfile(ctx, cmd.ProfileID)
	if err != nil {
		return nil, err
	}

	compatibility := s.evaluate(ctx, profile, cmd.Recipe)
	importable := true
	for _, v := range compatibility.Violations {
		if v.Source == string(dietary.SourceAllergy) {
			importable = false
			break
		}
	}

	dto := &inbound.ImportValidationDTO{
		Importable:    importable,
		Compatibility: compatibility,
	}

	suggestions := dietary.SuggestForRecipe(cmd.Recipe, profile)
	if len(suggestions) > 0 {
		dto.Substitutions = make(map[string][]inbound.SubstitutionDTO, len(suggestions))
		for name, subs := range suggestions {
			out := make([]inbound.SubstitutionDTO, 0, len(subs))
			for _, sub := range subs {
				out = append(out, inbound.NewSubstitutionDTO(sub))
			}
			dto.Substitutions[name] = out
		}
	}
	return dto, nil
}

// evaluate runs one evaluation with a cache in front of it. Cache keys
// combine the profile fingerprint with the recipe ID, so any profile edit
// changes the key instead of requiring invalidation.
func (s *DietaryService) evaluate(ctx context.Context, profile dietary.Profile, rec recipe.Recipe) *inbound.CompatibilityDTO {
	key := cacheKey(profile, rec.ID)

	if cached, err := s.cache.Get(ctx, key); err == nil && cached != nil {
		var dto inbound.CompatibilityDTO
		if err := json.Unmarshal(cached, &dto); err == nil {
			s.metrics.RecordCacheHit()
			return &dto
		}
		s.logger.Warn("Discarding undecodable cache entry", zap.String("key", key))
	}
	s.metrics.RecordCacheMiss()

	start := time.Now()
	result := dietary.Evaluate(profile, rec)
	s.metrics.RecordEvaluation(result.IsCompatible, time.Since(start))
	for _, v := range result.Violations {
		s.metrics.RecordViolation(string(v.Source))
	}

	dto := inbound.NewCompatibilityDTO(rec, result)

	if encoded, err := json.Marshal(dto); err == nil {
		if err := s.cache.Set(ctx, key, encoded, s.opts.CacheTTL); err != nil {
			s.logger.Warn("Failed to cache evaluation",
				zap.String("key", key),
				zap.Error(err),
			)
		}
	}
	return dto
}

// loadProfile fetches a stored profile and maps repository failures onto
// the engine's error contract.
func (s *DietaryService) loadProfile(ctx context.Context, profileID uuid.UUID) (dietary.Profile, error) {
	if profileID == uuid.Nil {
		return dietary.Profile{}, errors.NewInvalidInputError("profile id is required")
	}

	profile, err := s.profileRepo.FindByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, errors.CodeProfileNotFound) {
			return dietary.Profile{}, err
		}
		return dietary.Profile{}, errors.NewRepositoryError("find profile", err)
	}
	return profile, nil
}

func cacheKey(profile dietary.Profile, recipeID uuid.UUID) string {
	return fmt.Sprintf("compat:%s:%s", profile.Fingerprint(), recipeID)
}

func scoredToDTO(scored dietary.ScoredRecipe) inbound.ScoredRecipeDTO {
	return inbound.ScoredRecipeDTO{
		RecipeID:      scored.Recipe.ID,
		RecipeName:    scored.Recipe.Name,
		Score:         scored.Result.Score,
		PreferenceFit: scored.PreferenceFit,
	}
}

func verdictToDTO(verdict dietary.MealVerdict) inbound.MealVerdictDTO {
	dto := inbound.MealVerdictDTO{
		MealID:       verdict.Meal.ID,
		RecipeID:     verdict.Recipe.ID,
		RecipeName:   verdict.Recipe.Name,
		MealType:     string(verdict.Meal.MealType),
		Score:        verdict.Result.Score,
		IsCompatible: verdict.Result.IsCompatible,
	}
	for _, alt := range verdict.Alternatives {
		dto.Alternatives = append(dto.Alternatives, scoredToDTO(alt))
	}
	return dto
}
