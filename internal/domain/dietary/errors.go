package dietary

import "errors"

// ErrUnknownRecipeReference is returned when a meal plan references a
// recipe that is missing from the supplied recipe set.
var ErrUnknownRecipeReference = errors.New("meal plan references a recipe not present in the recipe set")
