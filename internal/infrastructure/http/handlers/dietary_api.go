// Package handlers provides HTTP handlers for the REST API
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/platewise/v1/internal/domain/dietary"
	"github.com/platewise/v1/internal/domain/recipe"
	"github.com/platewise/v1/internal/ports/inbound"
	"github.com/platewise/v1/internal/ports/outbound"
	"github.com/platewise/v1/pkg/errors"
)

// DietaryHandlers handles the engine's REST API requests
type DietaryHandlers struct {
	service          inbound.DietaryService
	profileRepo      outbound.ProfileRepository
	recipeRepo       outbound.RecipeRepository
	mealPlanRepo     outbound.MealPlanRepository
	shoppingListRepo outbound.ShoppingListRepository
	validate         *validator.Validate
	logger           *zap.Logger
}

// NewDietaryHandlers creates a new handlers instance
func NewDietaryHandlers(
	service inbound.DietaryService,
	profileRepo outbound.ProfileRepository,
	recipeRepo outbound.RecipeRepository,
	mealPlanRepo outbound.MealPlanRepository,
	shoppingListRepo outbound.ShoppingListRepository,
	logger *zap.Logger,
) *DietaryHandlers {
	return &DietaryHandlers{
		service:          service,
		profileRepo:      profileRepo,
		recipeRepo:       recipeRepo,
		mealPlanRepo:     mealPlanRepo,
		shoppingListRepo: shoppingListRepo,
		validate:         validator.New(),
		logger:           logger.Named("dietary-api"),
	}
}

// Request payloads

type restrictionRequest struct {
	Kind     string `json:"kind" validate:"required"`
	Severity string `json:"severity" validate:"required,oneof=mild moderate strict"`
	Active   bool   `json:"active"`
}

type allergyRequest struct {
	Allergen string `json:"allergen" validate:"required"`
	Severity string `json:"severity" validate:"required,oneof=mild moderate severe anaphylaxis"`
	Active   bool   `json:"active"`
}

type preferenceRequest struct {
	Kind  string `json:"kind" validate:"required,oneof=ingredient cuisine"`
	Item  string `json:"item" validate:"required"`
	Level string `json:"level" validate:"required,oneof=dislike neutral like love"`
}

type saveProfileRequest struct {
	Restrictions []restrictionRequest `json:"restrictions" validate:"dive"`
	Allergies    []allergyRequest     `json:"allergies" validate:"dive"`
	Preferences  []preferenceRequest  `json:"preferences" validate:"dive"`
}

type ingredientRequest struct {
	Name     string  `json:"name" validate:"required"`
	Quantity float64 `json:"quantity" validate:"gte=0"`
	Unit     string  `json:"unit"`
	Optional bool    `json:"optional"`
}

type recipeRequest struct {
	ID           uuid.UUID           `json:"id"`
	Name         string              `json:"name" validate:"required"`
	Ingredients  []ingredientRequest `json:"ingredients" validate:"required,min=1,dive"`
	DeclaredTags []string            `json:"declared_tags"`
	Cuisine      string              `json:"cuisine"`
	Servings     int                 `json:"servings" validate:"gte=0"`
}

type evaluateRequest struct {
	ProfileID uuid.UUID     `json:"profile_id" validate:"required"`
	Recipe    recipeRequest `json:"recipe" validate:"required"`
}

type filterRecipesRequest struct {
	ProfileID uuid.UUID   `json:"profile_id" validate:"required"`
	RecipeIDs []uuid.UUID `json:"recipe_ids"`
	MinScore  *float64    `json:"min_score" validate:"omitempty,gte=0,lte=1"`
}

type filterMealPlanRequest struct {
	ProfileID       uuid.UUID `json:"profile_id" validate:"required"`
	MealPlanID      uuid.UUID `json:"meal_plan_id" validate:"required"`
	Threshold       *float64  `json:"threshold" validate:"omitempty,gte=0,lte=1"`
	MaxAlternatives *int      `json:"max_alternatives" validate:"omitempty,gte=0"`
}

type highlightListRequest struct {
	ProfileID      uuid.UUID `json:"profile_id" validate:"required"`
	ShoppingListID uuid.UUID `json:"shopping_list_id" validate:"required"`
	MaxSuggestions *int      `json:"max_suggestions" validate:"omitempty,gte=0"`
}

type plannedMealRequest struct {
	RecipeID uuid.UUID `json:"recipe_id" validate:"required"`
	Date     time.Time `json:"date"`
	MealType string    `json:"meal_type" validate:"required,oneof=breakfast lunch dinner snack"`
}

type saveMealPlanRequest struct {
	UserID        uuid.UUID            `json:"user_id" validate:"required"`
	WeekStartDate time.Time            `json:"week_start_date"`
	Meals         []plannedMealRequest `json:"meals" validate:"dive"`
}

type shoppingItemRequest struct {
	Name     string  `json:"name" validate:"required"`
	Quantity float64 `json:"quantity" validate:"gte=0"`
	Unit     string  `json:"unit"`
}

type saveShoppingListRequest struct {
	UserID uuid.UUID             `json:"user_id" validate:"required"`
	Name   string                `json:"name" validate:"required"`
	Items  []shoppingItemRequest `json:"items" validate:"dive"`
}

// SaveProfile handles PUT /api/v1/profiles/{userID}
func (h *DietaryHandlers) SaveProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.parseID(w, r, "userID")
	if !ok {
		return
	}

	var req saveProfileRequest
	if !h.decode(w, r, &req) {
		return
	}

	restrictions := make([]dietary.Restriction, 0, len(req.Restrictions))
	for _, restriction := range req.Restrictions {
		restrictions = append(restrictions, dietary.Restriction{
			Kind:     dietary.RestrictionKind(restriction.Kind),
			Severity: dietary.Severity(restriction.Severity),
			Active:   restriction.Active,
		})
	}
	allergies := make([]dietary.Allergy, 0, len(req.Allergies))
	for _, allergy := range req.Allergies {
		allergies = append(allergies, dietary.Allergy{
			Allergen: allergy.Allergen,
			Severity: dietary.AllergySeverity(allergy.Severity),
			Active:   allergy.Active,
		})
	}
	preferences := make([]dietary.Preference, 0, len(req.Preferences))
	for _, pref := range req.Preferences {
		preferences = append(preferences, dietary.Preference{
			Kind:  dietary.PreferenceKind(pref.Kind),
			Item:  pref.Item,
			Level: dietary.PreferenceLevel(pref.Level),
		})
	}

	profile := dietary.NewProfile(restrictions, allergies, preferences)
	if err := h.profileRepo.Save(r.Context(), userID, profile); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"user_id":     userID.String(),
		"fingerprint": profile.Fingerprint(),
	})
}

// GetProfile handles GET /api/v1/profiles/{userID}
func (h *DietaryHandlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.parseID(w, r, "userID")
	if !ok {
		return
	}

	profile, err := h.profileRepo.FindByID(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, profile)
}

// ImportRecipe handles POST /api/v1/recipes
func (h *DietaryHandlers) ImportRecipe(w http.ResponseWriter, r *http.Request) {
	var req recipeRequest
	if !h.decode(w, r, &req) {
		return
	}

	rec := requestToRecipe(req)
	if err := h.recipeRepo.Save(r.Context(), rec); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, map[string]string{"recipe_id": rec.ID.String()})
}

// ValidateImport handles POST /api/v1/recipes/validate-import
func (h *DietaryHandlers) ValidateImport(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.service.ValidateRecipeImport(r.Context(), inbound.ValidateRecipeImportCommand{
		ProfileID: req.ProfileID,
		Recipe:    requestToRecipe(req.Recipe),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// EvaluateRecipe handles POST /api/v1/compatibility/evaluate
func (h *DietaryHandlers) EvaluateRecipe(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.service.EvaluateRecipe(r.Context(), inbound.EvaluateRecipeCommand{
		ProfileID: req.ProfileID,
		Recipe:    requestToRecipe(req.Recipe),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// EvaluateStoredRecipe handles GET /api/v1/compatibility/{profileID}/recipes/{recipeID}
func (h *DietaryHandlers) EvaluateStoredRecipe(w http.ResponseWriter, r *http.Request) {
	profileID, ok := h.parseID(w, r, "profileID")
	if !ok {
		return
	}
	recipeID, ok := h.parseID(w, r, "recipeID")
	if !ok {
		return
	}

	result, err := h.service.EvaluateRecipeByID(r.Context(), profileID, recipeID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// FilterRecipes handles POST /api/v1/compatibility/filter
func (h *DietaryHandlers) FilterRecipes(w http.ResponseWriter, r *http.Request) {
	var req filterRecipesRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.service.FilterRecipes(r.Context(), inbound.FilterRecipesCommand{
		ProfileID: req.ProfileID,
		RecipeIDs: req.RecipeIDs,
		MinScore:  req.MinScore,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// FilterMealPlan handles POST /api/v1/compatibility/meal-plan
func (h *DietaryHandlers) FilterMealPlan(w http.ResponseWriter, r *http.Request) {
	var req filterMealPlanRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.service.FilterMealPlan(r.Context(), inbound.FilterMealPlanCommand{
		ProfileID:       req.ProfileID,
		MealPlanID:      req.MealPlanID,
		Threshold:       req.Threshold,
		MaxAlternatives: req.MaxAlternatives,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// HighlightShoppingList handles POST /api/v1/compatibility/shopping-list
func (h *DietaryHandlers) HighlightShoppingList(w http.ResponseWriter, r *http.Request) {
	var req highlightListRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.service.HighlightShoppingList(r.Context(), inbound.HighlightShoppingListCommand{
		ProfileID:      req.ProfileID,
		ShoppingListID: req.ShoppingListID,
		MaxSuggestions: req.MaxSuggestions,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// SuggestSubstitutions handles GET /api/v1/substitutions/{profileID}/recipes/{recipeID}
func (h *DietaryHandlers) SuggestSubstitutions(w http.ResponseWriter, r *http.Request) {
	profileID, ok := h.parseID(w, r, "profileID")
	if !ok {
		return
	}
	recipeID, ok := h.parseID(w, r, "recipeID")
	if !ok {
		return
	}

	result, err := h.service.SuggestSubstitutions(r.Context(), profileID, recipeID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// SaveMealPlan handles POST /api/v1/meal-plans
func (h *DietaryHandlers) SaveMealPlan(w http.ResponseWriter, r *http.Request) {
	var req saveMealPlanRequest
	if !h.decode(w, r, &req) {
		return
	}

	plan := recipe.WeeklyMealPlan{
		ID:            uuid.New(),
		UserID:        req.UserID,
		WeekStartDate: req.WeekStartDate,
	}
	for _, meal := range req.Meals {
		plan.PlannedMeals = append(plan.PlannedMeals, recipe.PlannedMeal{
			ID:       uuid.New(),
			RecipeID: meal.RecipeID,
			Date:     meal.Date,
			MealType: recipe.MealType(meal.MealType),
		})
	}

	if err := h.mealPlanRepo.Save(r.Context(), plan); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, map[string]string{"meal_plan_id": plan.ID.String()})
}

// SaveShoppingList handles POST /api/v1/shopping-lists
func (h *DietaryHandlers) SaveShoppingList(w http.ResponseWriter, r *http.Request) {
	var req saveShoppingListRequest
	if !h.decode(w, r, &req) {
		return
	}

	list := recipe.ShoppingListWithItems{
		ID:     uuid.New(),
		UserID: req.UserID,
		Name:   req.Name,
	}
	for _, item := range req.Items {
		list.Items = append(list.Items, recipe.ShoppingListItem{
			ID:       uuid.New(),
			Name:     item.Name,
			Quantity: item.Quantity,
			Unit:     recipe.MeasurementUnit(item.Unit),
		})
	}

	if err := h.shoppingListRepo.Save(r.Context(), list); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, map[string]string{"shopping_list_id": list.ID.String()})
}

// HealthCheck handles GET /health
func (h *DietaryHandlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
	})
}

// Helpers

func requestToRecipe(req recipeRequest) recipe.Recipe {
	id := req.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	rec := recipe.Recipe{
		ID:           id,
		Name:         req.Name,
		DeclaredTags: req.DeclaredTags,
		Cuisine:      req.Cuisine,
		Servings:     req.Servings,
	}
	for _, ing := range req.Ingredients {
		rec.Ingredients = append(rec.Ingredients, recipe.Ingredient{
			Name:     ing.Name,
			Quantity: ing.Quantity,
			Unit:     recipe.MeasurementUnit(ing.Unit),
			Optional: ing.Optional,
		})
	}
	return rec
}

// decode parses and validates a JSON request body. It writes the error
// response itself and reports success to the caller.
func (h *DietaryHandlers) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.writeError(w, errors.NewAppError(errors.CodeBadRequest, "Malformed request body", err.Error()))
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		var fieldErrors []errors.ValidationError
		if invalid, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range invalid {
				fieldErrors = append(fieldErrors, errors.ValidationError{
					Field:   fe.Field(),
					Value:   fe.Value(),
					Tag:     fe.Tag(),
					Message: fe.Error(),
				})
			}
			h.writeError(w, errors.NewValidationErrors(fieldErrors))
		} else {
			h.writeError(w, errors.NewValidationError(err.Error()))
		}
		return false
	}
	return true
}

func (h *DietaryHandlers) parseID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		h.writeError(w, errors.NewAppError(errors.CodeBadRequest, "Invalid identifier", param))
		return uuid.Nil, false
	}
	return id, true
}

func (h *DietaryHandlers) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (h *DietaryHandlers) writeError(w http.ResponseWriter, err error) {
	appErr := errors.Wrap(err, "request failed")
	if appErr.StatusCode() >= http.StatusInternalServerError {
		h.logger.Error("Request failed", zap.Error(err))
	}
	h.writeJSON(w, appErr.StatusCode(), errors.ToErrorResponse(appErr))
}
