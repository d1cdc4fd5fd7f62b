// Package testutils provides test data factories for consistent test data generation
package testutils

import (
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"github.com/platewise/v1/internal/domain/dietary"
	"github.com/platewise/v1/internal/domain/recipe"
)

// RecipeFactory provides methods to create test recipes
type RecipeFactory struct {
	faker *gofakeit.Faker
}

// NewRecipeFactory creates a new recipe factory with seeded faker
func NewRecipeFactory(seed int64) *RecipeFactory {
	return &RecipeFactory{faker: gofakeit.New(seed)}
}

// Recipe creates a recipe with the given ingredient names
func (f *RecipeFactory) Recipe(ingredients ...string) recipe.Recipe {
	rec := recipe.Recipe{
		ID:       uuid.New(),
		Name:     f.faker.Dinner(),
		Cuisine:  f.faker.RandomString([]string{"italian", "thai", "mexican", "indian", "french"}),
		Servings: f.faker.Number(1, 8),
	}
	for _, name := range ingredients {
		rec.Ingredients = append(rec.Ingredients, f.Ingredient(name))
	}
	return rec
}

// Ingredient creates an ingredient with the given name
func (f *RecipeFactory) Ingredient(name string) recipe.Ingredient {
	units := []recipe.MeasurementUnit{
		recipe.MeasurementUnitCup,
		recipe.MeasurementUnitGram,
		recipe.MeasurementUnitTablespoon,
		recipe.MeasurementUnitPiece,
	}
	return recipe.Ingredient{
		Name:     name,
		Quantity: float64(f.faker.Number(1, 500)),
		Unit:     units[f.faker.Number(0, len(units)-1)],
	}
}

// MealPlan creates a weekly plan referencing the given recipes
func (f *RecipeFactory) MealPlan(userID uuid.UUID, recipes ...recipe.Recipe) recipe.WeeklyMealPlan {
	plan := recipe.WeeklyMealPlan{
		ID:            uuid.New(),
		UserID:        userID,
		WeekStartDate: time.Now().Truncate(24 * time.Hour),
	}
	mealTypes := []recipe.MealType{
		recipe.MealTypeBreakfast,
		recipe.MealTypeLunch,
		recipe.MealTypeDinner,
		recipe.MealTypeSnack,
	}
	for i, rec := range recipes {
		plan.PlannedMeals = append(plan.PlannedMeals, recipe.PlannedMeal{
			ID:       uuid.New(),
			RecipeID: rec.ID,
			Date:     plan.WeekStartDate.AddDate(0, 0, i),
			MealType: mealTypes[i%len(mealTypes)],
		})
	}
	return plan
}

// ShoppingList creates a shopping list with the given item names
func (f *RecipeFactory) ShoppingList(userID uuid.UUID, items ...string) recipe.ShoppingListWithItems {
	list := recipe.ShoppingListWithItems{
		ID:     uuid.New(),
		UserID: userID,
		Name:   f.faker.Word() + " groceries",
	}
	for _, name := range items {
		list.Items = append(list.Items, recipe.ShoppingListItem{
			ID:       uuid.New(),
			Name:     name,
			Quantity: float64(f.faker.Number(1, 5)),
			Unit:     recipe.MeasurementUnitPiece,
		})
	}
	return list
}

// ProfileBuilder provides a fluent interface for building test profiles
type ProfileBuilder struct {
	restrictions []dietary.Restriction
	allergies    []dietary.Allergy
	preferences  []dietary.Preference
}

// NewProfileBuilder creates an empty profile builder
func NewProfileBuilder() *ProfileBuilder {
	return &ProfileBuilder{}
}

// WithRestriction adds an active restriction
func (b *ProfileBuilder) WithRestriction(kind dietary.RestrictionKind, severity dietary.Severity) *ProfileBuilder {
	b.restrictions = append(b.restrictions, dietary.Restriction{Kind: kind, Severity: severity, Active: true})
	return b
}

// WithAllergy adds an active allergy
func (b *ProfileBuilder) WithAllergy(allergen string, severity dietary.AllergySeverity) *ProfileBuilder {
	b.allergies = append(b.allergies, dietary.Allergy{Allergen: allergen, Severity: severity, Active: true})
	return b
}

// WithPreference adds a preference
func (b *ProfileBuilder) WithPreference(kind dietary.PreferenceKind, item string, level dietary.PreferenceLevel) *ProfileBuilder {
	b.preferences = append(b.preferences, dietary.Preference{Kind: kind, Item: item, Level: level})
	return b
}

// Build constructs the profile
func (b *ProfileBuilder) Build() dietary.Profile {
	return dietary.NewProfile(b.restrictions, b.allergies, b.preferences)
}
