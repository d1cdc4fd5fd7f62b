package dietary

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"

	domdietary "github.com/platewise/v1/internal/domain/dietary"
	"github.com/platewise/v1/internal/domain/recipe"
	"github.com/platewise/v1/internal/infrastructure/persistence/memory"
	"github.com/platewise/v1/internal/ports/inbound"
	"github.com/platewise/v1/internal/ports/outbound"
	"github.com/platewise/v1/pkg/errors"
	"github.com/platewise/v1/test/testutils"
)

// ServiceTestSuite exercises the application service against the
// in-memory adapters
type ServiceTestSuite struct {
	suite.Suite

	ctx              context.Context
	service          inbound.DietaryService
	profileRepo      outbound.ProfileRepository
	recipeRepo       outbound.RecipeRepository
	mealPlanRepo     outbound.MealPlanRepository
	shoppingListRepo outbound.ShoppingListRepository
	cache            outbound.CacheRepository
	factory          *testutils.RecipeFactory
}

func (suite *ServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.profileRepo = memory.NewProfileRepository()
	suite.recipeRepo = memory.NewRecipeRepository()
	suite.mealPlanRepo = memory.NewMealPlanRepository()
	suite.shoppingListRepo = memory.NewShoppingListRepository()
	suite.cache = memory.NewCacheRepository()
	suite.factory = testutils.NewRecipeFactory(42)

	suite.service = NewDietaryService(
		suite.profileRepo,
		suite.recipeRepo,
		suite.mealPlanRepo,
		suite.shoppingListRepo,
		suite.cache,
		outbound.NopMetrics{},
		DefaultOptions(),
		zaptest.NewLogger(suite.T()),
	)
}

func (suite *ServiceTestSuite) saveProfile(profile domdietary.Profile) uuid.UUID {
	userID := uuid.New()
	require.NoError(suite.T(), suite.profileRepo.Save(suite.ctx, userID, profile))
	return userID
}

func (suite *ServiceTestSuite) saveRecipe(rec recipe.Recipe) recipe.Recipe {
	require.NoError(suite.T(), suite.recipeRepo.Save(suite.ctx, rec))
	return rec
}

func (suite *ServiceTestSuite) TestEvaluateRecipe() {
	suite.Run("InlineRecipe_ShouldReturnVerdict", func() {
		// Arrange
		profileID := suite.saveProfile(testutils.NewProfileBuilder().
			WithRestriction(domdietary.RestrictionVegetarian, domdietary.SeverityStrict).
			Build())
		rec := suite.factory.Recipe("chicken breast", "rice")

		// Act
		result, err := suite.service.EvaluateRecipe(suite.ctx, inbound.EvaluateRecipeCommand{
			ProfileID: profileID,
			Recipe:    rec,
		})

		// Assert
		require.NoError(suite.T(), err)
		assert.False(suite.T(), result.IsCompatible)
		assert.InDelta(suite.T(), 0.5, result.Score, 1e-9)
		require.Len(suite.T(), result.Violations, 1)
		assert.Equal(suite.T(), "vegetarian", result.Violations[0].Rule)
	})

	suite.Run("MissingProfile_ShouldReturnProfileNotFound", func() {
		// Arrange
		rec := suite.factory.Recipe("rice")

		// Act
		_, err := suite.service.EvaluateRecipe(suite.ctx, inbound.EvaluateRecipeCommand{
			ProfileID: uuid.New(),
			Recipe:    rec,
		})

		// Assert
		require.Error(suite.T(), err)
		assert.True(suite.T(), errors.Is(err, errors.CodeProfileNotFound))
	})

	suite.Run("NilProfileID_ShouldReturnInvalidInput", func() {
		_, err := suite.service.EvaluateRecipe(suite.ctx, inbound.EvaluateRecipeCommand{
			ProfileID: uuid.Nil,
			Recipe:    suite.factory.Recipe("rice"),
		})

		require.Error(suite.T(), err)
		assert.True(suite.T(), errors.Is(err, errors.CodeInvalidInput))
	})

	suite.Run("MalformedRecipe_ShouldReturnInvalidInput", func() {
		profileID := suite.saveProfile(testutils.NewProfileBuilder().Build())

		_, err := suite.service.EvaluateRecipe(suite.ctx, inbound.EvaluateRecipeCommand{
			ProfileID: profileID,
			Recipe:    recipe.Recipe{Name: "no id"},
		})

		require.Error(suite.T(), err)
		assert.True(suite.T(), errors.Is(err, errors.CodeInvalidInput))
	})

	suite.Run("SecondEvaluation_ShouldBeServedFromCache", func() {
		// Arrange
		profile := testutils.NewProfileBuilder().
			WithAllergy("peanuts", domdietary.AllergySevere).
			Build()
		profileID := suite.saveProfile(profile)
		rec := suite.saveRecipe(suite.factory.Recipe("peanut butter", "bread"))

		// Act
		first, err := suite.service.EvaluateRecipeByID(suite.ctx, profileID, rec.ID)
		require.NoError(suite.T(), err)
		second, err := suite.service.EvaluateRecipeByID(suite.ctx, profileID, rec.ID)
		require.NoError(suite.T(), err)

		// Assert
		assert.Equal(suite.T(), first, second)
		cached, cerr := suite.cache.Exists(suite.ctx, "compat:"+profile.Fingerprint()+":"+rec.ID.String())
		require.NoError(suite.T(), cerr)
		assert.True(suite.T(), cached)
	})

	suite.Run("StoredRecipeMissing_ShouldReturnRecipeNotFound", func() {
		profileID := suite.saveProfile(testutils.NewProfileBuilder().Build())

		_, err := suite.service.EvaluateRecipeByID(suite.ctx, profileID, uuid.New())

		require.Error(suite.T(), err)
		assert.True(suite.T(), errors.Is(err, errors.CodeRecipeNotFound))
	})
}

func (suite *ServiceTestSuite) TestFilterRecipes() {
	suite.Run("WholeCatalog_ShouldPartition", func() {
		// Arrange
		profileID := suite.saveProfile(testutils.NewProfileBuilder().
			WithRestriction(domdietary.RestrictionVegan, domdietary.SeverityStrict).
			Build())
		suite.saveRecipe(suite.factory.Recipe("chicken", "rice"))
		suite.saveRecipe(suite.factory.Recipe("lentils", "carrot"))

		// Act
		result, err := suite.service.FilterRecipes(suite.ctx, inbound.FilterRecipesCommand{
			ProfileID: profileID,
		})

		// Assert
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), 2, result.Stats.TotalEvaluated)
		assert.Equal(suite.T(), 1, result.Stats.TotalCompatible)
		assert.Equal(suite.T(), 1, result.Stats.TotalIncompatible)
	})

	suite.Run("ExplicitIDs_ShouldLimitScope", func() {
		// Arrange
		profileID := suite.saveProfile(testutils.NewProfileBuilder().Build())
		wanted := suite.saveRecipe(suite.factory.Recipe("rice"))
		suite.saveRecipe(suite.factory.Recipe("beans"))

		// Act
		result, err := suite.service.FilterRecipes(suite.ctx, inbound.FilterRecipesCommand{
			ProfileID: profileID,
			RecipeIDs: []uuid.UUID{wanted.ID},
		})

		// Assert
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), 1, result.Stats.TotalEvaluated)
	})

	suite.Run("MinScoreOutOfRange_ShouldReturnInvalidInput", func() {
		profileID := suite.saveProfile(testutils.NewProfileBuilder().Build())
		bad := 1.5

		_, err := suite.service.FilterRecipes(suite.ctx, inbound.FilterRecipesCommand{
			ProfileID: profileID,
			MinScore:  &bad,
		})

		require.Error(suite.T(), err)
		assert.True(suite.T(), errors.Is(err, errors.CodeInvalidInput))
	})
}

func (suite *ServiceTestSuite) TestFilterMealPlan() {
	suite.Run("StoredPlan_ShouldFlagConflictingMeals", func() {
		// Arrange
		userID := uuid.New()
		profile := testutils.NewProfileBuilder().
			WithRestriction(domdietary.RestrictionVegetarian, domdietary.SeverityStrict).
			Build()
		require.NoError(suite.T(), suite.profileRepo.Save(suite.ctx, userID, profile))

		chicken := suite.saveRecipe(suite.factory.Recipe("chicken", "rice"))
		veggie := suite.saveRecipe(suite.factory.Recipe("chickpeas", "rice"))
		plan := suite.factory.MealPlan(userID, chicken, veggie)
		require.NoError(suite.T(), suite.mealPlanRepo.Save(suite.ctx, plan))

		// Act
		result, err := suite.service.FilterMealPlan(suite.ctx, inbound.FilterMealPlanCommand{
			ProfileID:  userID,
			MealPlanID: plan.ID,
		})

		// Assert
		require.NoError(suite.T(), err)
		assert.Len(suite.T(), result.CompatibleMeals, 1)
		require.Len(suite.T(), result.IncompatibleMeals, 1)
		assert.Equal(suite.T(), chicken.ID, result.IncompatibleMeals[0].RecipeID)
		require.NotEmpty(suite.T(), result.IncompatibleMeals[0].Alternatives)
		assert.Equal(suite.T(), veggie.ID, result.IncompatibleMeals[0].Alternatives[0].RecipeID)
	})

	suite.Run("MissingPlan_ShouldReturnMealPlanNotFound", func() {
		profileID := suite.saveProfile(testutils.NewProfileBuilder().Build())

		_, err := suite.service.FilterMealPlan(suite.ctx, inbound.FilterMealPlanCommand{
			ProfileID:  profileID,
			MealPlanID: uuid.New(),
		})

		require.Error(suite.T(), err)
		assert.True(suite.T(), errors.Is(err, errors.CodeMealPlanNotFound))
	})
}

func (suite *ServiceTestSuite) TestHighlightShoppingList() {
	suite.Run("StoredList_ShouldGradeItems", func() {
		// Arrange
		userID := uuid.New()
		profile := testutils.NewProfileBuilder().
			WithAllergy("peanuts", domdietary.AllergyAnaphylaxis).
			Build()
		require.NoError(suite.T(), suite.profileRepo.Save(suite.ctx, userID, profile))

		list := suite.factory.ShoppingList(userID, "peanut butter", "apples")
		require.NoError(suite.T(), suite.shoppingListRepo.Save(suite.ctx, list))

		// Act
		result, err := suite.service.HighlightShoppingList(suite.ctx, inbound.HighlightShoppingListCommand{
			ProfileID:      userID,
			ShoppingListID: list.ID,
		})

		// Assert
		require.NoError(suite.T(), err)
		require.Len(suite.T(), result.Items, 2)
		assert.Equal(suite.T(), "high", result.Items[0].Level)
		assert.NotEmpty(suite.T(), result.Items[0].Alternatives)
		assert.Equal(suite.T(), "none", result.Items[1].Level)
	})
}

func (suite *ServiceTestSuite) TestSubstitutionsAndImport() {
	suite.Run("Substitutions_ShouldCoverConflictingIngredients", func() {
		// Arrange
		profileID := suite.saveProfile(testutils.NewProfileBuilder().
			WithRestriction(domdietary.RestrictionVegan, domdietary.SeverityStrict).
			Build())
		rec := suite.saveRecipe(suite.factory.Recipe("milk", "oats"))

		// Act
		result, err := suite.service.SuggestSubstitutions(suite.ctx, profileID, rec.ID)

		// Assert
		require.NoError(suite.T(), err)
		require.Contains(suite.T(), result, "milk")
		assert.Equal(suite.T(), "oat milk", result["milk"][0].Substitute)
	})

	suite.Run("ImportWithoutIngredients_ShouldFailValidation", func() {
		profileID := suite.saveProfile(testutils.NewProfileBuilder().Build())

		_, err := suite.service.ValidateRecipeImport(suite.ctx, inbound.ValidateRecipeImportCommand{
			ProfileID: profileID,
			Recipe:    recipe.Recipe{ID: uuid.New(), Name: "Empty"},
		})

		require.Error(suite.T(), err)
		assert.True(suite.T(), errors.Is(err, errors.CodeValidationFailed))
	})

	suite.Run("BlockingAllergy_ShouldBlockImport", func() {
		// Arrange
		profileID := suite.saveProfile(testutils.NewProfileBuilder().
			WithAllergy("peanuts", domdietary.AllergyAnaphylaxis).
			Build())
		rec := suite.factory.Recipe("peanut butter", "bread")

		// Act
		result, err := suite.service.ValidateRecipeImport(suite.ctx, inbound.ValidateRecipeImportCommand{
			ProfileID: profileID,
			Recipe:    rec,
		})

		// Assert
		require.NoError(suite.T(), err)
		assert.False(suite.T(), result.Importable)
		assert.Zero(suite.T(), result.Compatibility.Score)
		assert.Contains(suite.T(), result.Substitutions, "peanut butter")
	})

	suite.Run("RestrictionViolationOnly_ShouldStayImportable", func() {
		// Arrange
		profileID := suite.saveProfile(testutils.NewProfileBuilder().
			WithRestriction(domdietary.RestrictionVegetarian, domdietary.SeverityStrict).
			Build())
		rec := suite.factory.Recipe("chicken", "rice")

		// Act
		result, err := suite.service.ValidateRecipeImport(suite.ctx, inbound.ValidateRecipeImportCommand{
			ProfileID: profileID,
			Recipe:    rec,
		})

		// Assert
		require.NoError(suite.T(), err)
		assert.True(suite.T(), result.Importable)
		assert.False(suite.T(), result.Compatibility.IsCompatible)
		assert.Contains(suite.T(), result.Substitutions, "chicken")
	})
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}
