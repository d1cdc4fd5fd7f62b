package recipe

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// MealType identifies the slot a planned meal occupies
type MealType string

const (
	MealTypeBreakfast MealType = "breakfast"
	MealTypeLunch     MealType = "lunch"
	MealTypeDinner    MealType = "dinner"
	MealTypeSnack     MealType = "snack"
)

// PlannedMeal is one scheduled entry in a weekly meal plan. It references a
// recipe by ID; the referenced recipe must be present in the recipe set
// supplied alongside the plan.
type PlannedMeal struct {
	ID       uuid.UUID
	RecipeID uuid.UUID
	Date     time.Time
	MealType MealType
}

// WeeklyMealPlan is an ordered list of scheduled meals for one week
type WeeklyMealPlan struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	WeekStartDate time.Time
	PlannedMeals  []PlannedMeal
}

// Validate validates the meal plan value
func (p WeeklyMealPlan) Validate() error {
	if p.ID == uuid.Nil {
		return errors.New("meal plan id is required")
	}
	for _, meal := range p.PlannedMeals {
		if meal.RecipeID == uuid.Nil {
			return errors.New("planned meal must reference a recipe")
		}
	}
	return nil
}

// ShoppingListItem is a single purchasable item on a shopping list
type ShoppingListItem struct {
	ID       uuid.UUID
	Name     string
	Quantity float64
	Unit     MeasurementUnit
	Checked  bool
}

// ShoppingListWithItems is a resolved shopping list with its items loaded
type ShoppingListWithItems struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Name   string
	Items  []ShoppingListItem
}
