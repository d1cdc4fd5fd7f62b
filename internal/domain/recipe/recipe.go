// Package recipe contains the value types the dietary engine consumes.
// Recipes, meal plans, and shopping lists are owned by external
// collaborators; the engine treats them as plain immutable values.
package recipe

import (
	"errors"

	"github.com/google/uuid"
)

// Recipe is a resolved recipe value handed to the engine by the calling
// layer. Ingredient order is significant: violation ordering ties break on
// the first affected ingredient's position.
type Recipe struct {
	ID           uuid.UUID
	Name         string
	Ingredients  []Ingredient
	DeclaredTags []string
	Cuisine      string
	Servings     int
}

// Validate validates the recipe value
func (r Recipe) Validate() error {
	if r.ID == uuid.Nil {
		return errors.New("recipe id is required")
	}
	if r.Name == "" {
		return errors.New("recipe name is required")
	}
	for _, ing := range r.Ingredients {
		if err := ing.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Ingredient represents an ingredient in a recipe
type Ingredient struct {
	Name     string
	Quantity float64
	Unit     MeasurementUnit
	Optional bool
}

// Validate validates the ingredient
func (i Ingredient) Validate() error {
	if i.Name == "" {
		return errors.New("ingredient name is required")
	}
	if i.Quantity < 0 {
		return errors.New("ingredient quantity cannot be negative")
	}
	return nil
}

// MeasurementUnit represents units of measurement
type MeasurementUnit string

const (
	// Volume units
	MeasurementUnitTeaspoon   MeasurementUnit = "tsp"
	MeasurementUnitTablespoon MeasurementUnit = "tbsp"
	MeasurementUnitCup        MeasurementUnit = "cup"
	MeasurementUnitOunce      MeasurementUnit = "oz"
	MeasurementUnitMilliliter MeasurementUnit = "ml"
	MeasurementUnitLiter      MeasurementUnit = "l"

	// Weight units
	MeasurementUnitGram     MeasurementUnit = "g"
	MeasurementUnitKilogram MeasurementUnit = "kg"
	MeasurementUnitPound    MeasurementUnit = "lb"

	// Count units
	MeasurementUnitPiece MeasurementUnit = "piece"
	MeasurementUnitDash  MeasurementUnit = "dash"
	MeasurementUnitPinch MeasurementUnit = "pinch"
)
