package dietary

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/platewise/v1/internal/domain/recipe"
)

// BatchTestSuite provides a test suite for batch filtering, meal plan
// checks, and shopping list highlighting
type BatchTestSuite struct {
	suite.Suite
}

func (suite *BatchTestSuite) TestFilterRecipes() {
	suite.Run("MixedBatch_ShouldPartitionAtMinScore", func() {
		// Arrange
		profile := restrictionProfile(RestrictionVegetarian, SeverityStrict)
		recipes := []recipe.Recipe{
			makeRecipe("Chicken Curry", "chicken", "rice"),
			makeRecipe("Veggie Curry", "chickpeas", "rice"),
			makeRecipe("Beef Stew", "beef", "carrot"),
		}

		// Act
		result := FilterRecipes(recipes, profile, 0.7)

		// Assert
		require.Len(suite.T(), result.Compatible, 1)
		assert.Equal(suite.T(), "Veggie Curry", result.Compatible[0].Recipe.Name)
		require.Len(suite.T(), result.Incompatible, 2)
		assert.NotEmpty(suite.T(), result.Incompatible[0].FailedCriteria)

		assert.Equal(suite.T(), 3, result.Stats.TotalEvaluated)
		assert.Equal(suite.T(), 1, result.Stats.TotalCompatible)
		assert.Equal(suite.T(), 2, result.Stats.TotalIncompatible)
		assert.InDelta(suite.T(), (0.5+1.0+0.5)/3.0, result.Stats.AverageScore, 1e-9)
	})

	suite.Run("EqualScores_ShouldRankByPreference", func() {
		// Arrange
		profile := NewProfile(nil, nil, []Preference{
			{Kind: PreferenceIngredient, Item: "mushroom", Level: PreferenceLove},
			{Kind: PreferenceIngredient, Item: "olive", Level: PreferenceDislike},
		})
		recipes := []recipe.Recipe{
			makeRecipe("Olive Pasta", "olive", "pasta"),
			makeRecipe("Plain Pasta", "pasta"),
			makeRecipe("Mushroom Pasta", "mushroom", "pasta"),
		}

		// Act
		result := FilterRecipes(recipes, profile, 0.0)

		// Assert
		require.Len(suite.T(), result.Compatible, 3)
		assert.Equal(suite.T(), "Mushroom Pasta", result.Compatible[0].Recipe.Name)
		assert.Equal(suite.T(), "Plain Pasta", result.Compatible[1].Recipe.Name)
		assert.Equal(suite.T(), "Olive Pasta", result.Compatible[2].Recipe.Name)
	})

	suite.Run("CuisinePreference_ShouldCountTowardFit", func() {
		// Arrange
		profile := NewProfile(nil, nil, []Preference{
			{Kind: PreferenceCuisine, Item: "thai", Level: PreferenceLove},
		})
		thai := makeRecipe("Pad See Ew", "rice noodles", "broccoli")
		thai.Cuisine = "Thai"
		italian := makeRecipe("Margherita", "tomato", "basil")
		italian.Cuisine = "Italian"

		// Act
		result := FilterRecipes([]recipe.Recipe{italian, thai}, profile, 0.0)

		// Assert
		require.Len(suite.T(), result.Compatible, 2)
		assert.Equal(suite.T(), "Pad See Ew", result.Compatible[0].Recipe.Name)
		assert.Equal(suite.T(), 2, result.Compatible[0].PreferenceFit)
	})

	suite.Run("EmptyBatch_ShouldReturnZeroStats", func() {
		result := FilterRecipes(nil, NewProfile(nil, nil, nil), 0.5)
		assert.Empty(suite.T(), result.Compatible)
		assert.Empty(suite.T(), result.Incompatible)
		assert.Zero(suite.T(), result.Stats.TotalEvaluated)
		assert.Zero(suite.T(), result.Stats.AverageScore)
	})

	suite.Run("BatchResults_ShouldMatchPointEvaluation", func() {
		// Arrange
		profile := NewProfile(
			[]Restriction{{Kind: RestrictionGlutenFree, Severity: SeverityModerate, Active: true}},
			[]Allergy{{Allergen: "peanuts", Severity: AllergySevere, Active: true}},
			nil,
		)
		recipes := []recipe.Recipe{
			makeRecipe("Noodle Bowl", "wheat noodles", "peanut sauce"),
			makeRecipe("Rice Bowl", "rice", "tofu"),
		}

		// Act
		batch := FilterRecipes(recipes, profile, 0.7)

		// Assert
		for _, scored := range batch.Compatible {
			assert.Equal(suite.T(), Evaluate(profile, scored.Recipe), scored.Result)
		}
		for _, rejected := range batch.Incompatible {
			assert.Equal(suite.T(), Evaluate(profile, rejected.Recipe), rejected.Result)
		}
	})
}

func (suite *BatchTestSuite) TestFilterMealPlan() {
	makePlan := func(recipeIDs ...uuid.UUID) recipe.WeeklyMealPlan {
		plan := recipe.WeeklyMealPlan{ID: uuid.New(), UserID: uuid.New()}
		for _, id := range recipeIDs {
			plan.PlannedMeals = append(plan.PlannedMeals, recipe.PlannedMeal{
				ID:       uuid.New(),
				RecipeID: id,
				MealType: recipe.MealTypeDinner,
			})
		}
		return plan
	}

	suite.Run("FlaggedMeal_ShouldGetAlternatives", func() {
		// Arrange
		profile := restrictionProfile(RestrictionVegetarian, SeverityStrict)
		chicken := makeRecipe("Chicken Curry", "chicken", "rice")
		veggie := makeRecipe("Veggie Curry", "chickpeas", "rice")
		lentil := makeRecipe("Lentil Soup", "lentils", "carrot")
		recipes := map[uuid.UUID]recipe.Recipe{
			chicken.ID: chicken,
			veggie.ID:  veggie,
			lentil.ID:  lentil,
		}
		plan := makePlan(chicken.ID, veggie.ID)

		// Act
		result, err := FilterMealPlan(plan, recipes, profile, 0.7, 2)

		// Assert
		require.NoError(suite.T(), err)
		require.Len(suite.T(), result.CompatibleMeals, 1)
		require.Len(suite.T(), result.IncompatibleMeals, 1)

		flagged := result.IncompatibleMeals[0]
		assert.Equal(suite.T(), "Chicken Curry", flagged.Recipe.Name)
		require.Len(suite.T(), flagged.Alternatives, 2)
		for _, alt := range flagged.Alternatives {
			assert.NotEqual(suite.T(), chicken.ID, alt.Recipe.ID)
			assert.True(suite.T(), alt.Result.IsCompatible)
		}
		assert.InDelta(suite.T(), (0.5+1.0)/2.0, result.OverallScore, 1e-9)
	})

	suite.Run("DanglingRecipeReference_ShouldFailWholeCall", func() {
		// Arrange
		profile := NewProfile(nil, nil, nil)
		known := makeRecipe("Known", "rice")
		plan := makePlan(known.ID, uuid.New())

		// Act
		_, err := FilterMealPlan(plan, map[uuid.UUID]recipe.Recipe{known.ID: known}, profile, 0.7, 2)

		// Assert
		require.Error(suite.T(), err)
		assert.ErrorIs(suite.T(), err, ErrUnknownRecipeReference)
	})

	suite.Run("EmptyPlan_ShouldScoreOne", func() {
		result, err := FilterMealPlan(recipe.WeeklyMealPlan{ID: uuid.New()}, nil, NewProfile(nil, nil, nil), 0.7, 2)
		require.NoError(suite.T(), err)
		assert.InDelta(suite.T(), 1.0, result.OverallScore, 1e-9)
		assert.Empty(suite.T(), result.IncompatibleMeals)
	})

	suite.Run("MaxAlternatives_ShouldCapList", func() {
		// Arrange
		profile := restrictionProfile(RestrictionVegetarian, SeverityStrict)
		chicken := makeRecipe("Chicken Curry", "chicken", "rice")
		recipes := map[uuid.UUID]recipe.Recipe{chicken.ID: chicken}
		for i := 0; i < 5; i++ {
			rec := makeRecipe("Veggie Option", "chickpeas")
			recipes[rec.ID] = rec
		}
		plan := makePlan(chicken.ID)

		// Act
		result, err := FilterMealPlan(plan, recipes, profile, 0.7, 3)

		// Assert
		require.NoError(suite.T(), err)
		require.Len(suite.T(), result.IncompatibleMeals, 1)
		assert.Len(suite.T(), result.IncompatibleMeals[0].Alternatives, 3)
	})
}

func (suite *BatchTestSuite) TestHighlightShoppingList() {
	makeList := func(names ...string) recipe.ShoppingListWithItems {
		list := recipe.ShoppingListWithItems{ID: uuid.New(), UserID: uuid.New(), Name: "Weekly"}
		for _, name := range names {
			list.Items = append(list.Items, recipe.ShoppingListItem{
				ID:       uuid.New(),
				Name:     name,
				Quantity: 1,
				Unit:     recipe.MeasurementUnitPiece,
			})
		}
		return list
	}

	suite.Run("ConflictLevels_ShouldFollowSeverity", func() {
		// Arrange
		profile := NewProfile(
			[]Restriction{
				{Kind: RestrictionVegetarian, Severity: SeverityStrict, Active: true},
				{Kind: RestrictionGlutenFree, Severity: SeverityModerate, Active: true},
				{Kind: RestrictionDairyFree, Severity: SeverityMild, Active: true},
			},
			nil, nil,
		)
		list := makeList("chicken breast", "wheat flour", "milk", "apples")

		// Act
		result := HighlightShoppingList(list, profile, 3)

		// Assert
		require.Len(suite.T(), result.Items, 4)
		assert.Equal(suite.T(), HighlightHigh, result.Items[0].Level)
		assert.Equal(suite.T(), HighlightMedium, result.Items[1].Level)
		assert.Equal(suite.T(), HighlightLow, result.Items[2].Level)
		assert.Equal(suite.T(), HighlightNone, result.Items[3].Level)
	})

	suite.Run("SevereAllergy_ShouldGradeHigh", func() {
		// Arrange
		profile := allergyProfile("peanuts", AllergyAnaphylaxis)
		list := makeList("peanut butter")

		// Act
		result := HighlightShoppingList(list, profile, 2)

		// Assert
		require.Len(suite.T(), result.Items, 1)
		assert.Equal(suite.T(), HighlightHigh, result.Items[0].Level)
		assert.NotEmpty(suite.T(), result.Items[0].Reasons)
		assert.Equal(suite.T(), []string{"sunflower seed butter", "tahini"}, result.Items[0].Alternatives)
	})

	suite.Run("OverlappingConflicts_ShouldKeepHighestLevel", func() {
		// Arrange: mild restriction plus severe allergy on the same item
		profile := NewProfile(
			[]Restriction{{Kind: RestrictionDairyFree, Severity: SeverityMild, Active: true}},
			[]Allergy{{Allergen: "dairy", Severity: AllergySevere, Active: true}},
			nil,
		)
		list := makeList("whole milk")

		// Act
		result := HighlightShoppingList(list, profile, 1)

		// Assert
		require.Len(suite.T(), result.Items, 1)
		assert.Equal(suite.T(), HighlightHigh, result.Items[0].Level)
		assert.Len(suite.T(), result.Items[0].Reasons, 2)
	})

	suite.Run("VeganProfileWithChickenBreast_ShouldGradeHighWithAlternatives", func() {
		// Arrange
		profile := restrictionProfile(RestrictionVegan, SeverityStrict)
		list := makeList("chicken breast")

		// Act
		result := HighlightShoppingList(list, profile, 3)

		// Assert
		require.Len(suite.T(), result.Items, 1)
		assert.Equal(suite.T(), HighlightHigh, result.Items[0].Level)
		assert.NotEmpty(suite.T(), result.Items[0].Alternatives)
	})

	suite.Run("CleanItem_ShouldHaveNoSuggestions", func() {
		profile := restrictionProfile(RestrictionVegan, SeverityStrict)
		result := HighlightShoppingList(makeList("carrots"), profile, 3)

		require.Len(suite.T(), result.Items, 1)
		assert.Equal(suite.T(), HighlightNone, result.Items[0].Level)
		assert.Empty(suite.T(), result.Items[0].Alternatives)
	})
}

func TestBatchTestSuite(t *testing.T) {
	suite.Run(t, new(BatchTestSuite))
}
