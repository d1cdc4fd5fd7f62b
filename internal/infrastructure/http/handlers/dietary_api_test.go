package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"

	appdietary "github.com/platewise/v1/internal/application/dietary"
	"github.com/platewise/v1/internal/domain/dietary"
	"github.com/platewise/v1/internal/infrastructure/persistence/memory"
	"github.com/platewise/v1/internal/ports/outbound"
	"github.com/platewise/v1/test/testutils"
)

// HandlersTestSuite exercises the REST handlers end to end against the
// in-memory adapters
type HandlersTestSuite struct {
	suite.Suite

	router      *chi.Mux
	profileRepo outbound.ProfileRepository
	recipeRepo  outbound.RecipeRepository
	factory     *testutils.RecipeFactory
}

func (suite *HandlersTestSuite) SetupTest() {
	logger := zaptest.NewLogger(suite.T())
	suite.profileRepo = memory.NewProfileRepository()
	suite.recipeRepo = memory.NewRecipeRepository()
	mealPlanRepo := memory.NewMealPlanRepository()
	shoppingListRepo := memory.NewShoppingListRepository()
	suite.factory = testutils.NewRecipeFactory(7)

	service := appdietary.NewDietaryService(
		suite.profileRepo,
		suite.recipeRepo,
		mealPlanRepo,
		shoppingListRepo,
		memory.NewCacheRepository(),
		outbound.NopMetrics{},
		appdietary.DefaultOptions(),
		logger,
	)
	h := NewDietaryHandlers(service, suite.profileRepo, suite.recipeRepo, mealPlanRepo, shoppingListRepo, logger)

	r := chi.NewRouter()
	r.Put("/api/v1/profiles/{userID}", h.SaveProfile)
	r.Get("/api/v1/profiles/{userID}", h.GetProfile)
	r.Post("/api/v1/recipes", h.ImportRecipe)
	r.Post("/api/v1/compatibility/evaluate", h.EvaluateRecipe)
	r.Get("/api/v1/compatibility/{profileID}/recipes/{recipeID}", h.EvaluateStoredRecipe)
	r.Post("/api/v1/compatibility/filter", h.FilterRecipes)
	suite.router = r
}

func (suite *HandlersTestSuite) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(suite.T(), json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	suite.router.ServeHTTP(rec, req)
	return rec
}

func (suite *HandlersTestSuite) TestProfileEndpoints() {
	suite.Run("SaveAndFetchProfile_ShouldRoundTrip", func() {
		// Arrange
		userID := uuid.New()
		payload := map[string]interface{}{
			"restrictions": []map[string]interface{}{
				{"kind": "vegetarian", "severity": "strict", "active": true},
			},
			"allergies": []map[string]interface{}{
				{"allergen": "Peanuts", "severity": "severe", "active": true},
			},
		}

		// Act
		saveResp := suite.do(http.MethodPut, "/api/v1/profiles/"+userID.String(), payload)
		getResp := suite.do(http.MethodGet, "/api/v1/profiles/"+userID.String(), nil)

		// Assert
		assert.Equal(suite.T(), http.StatusOK, saveResp.Code)
		assert.Equal(suite.T(), http.StatusOK, getResp.Code)

		stored, err := suite.profileRepo.FindByID(context.Background(), userID)
		require.NoError(suite.T(), err)
		require.Len(suite.T(), stored.Allergies, 1)
		assert.Equal(suite.T(), "peanuts", stored.Allergies[0].Allergen)
	})

	suite.Run("InvalidSeverity_ShouldReturnBadRequest", func() {
		userID := uuid.New()
		payload := map[string]interface{}{
			"restrictions": []map[string]interface{}{
				{"kind": "vegetarian", "severity": "extreme", "active": true},
			},
		}

		resp := suite.do(http.MethodPut, "/api/v1/profiles/"+userID.String(), payload)

		assert.Equal(suite.T(), http.StatusBadRequest, resp.Code)
	})

	suite.Run("UnknownProfile_ShouldReturnNotFound", func() {
		resp := suite.do(http.MethodGet, "/api/v1/profiles/"+uuid.NewString(), nil)
		assert.Equal(suite.T(), http.StatusNotFound, resp.Code)
	})

	suite.Run("MalformedID_ShouldReturnBadRequest", func() {
		resp := suite.do(http.MethodGet, "/api/v1/profiles/not-a-uuid", nil)
		assert.Equal(suite.T(), http.StatusBadRequest, resp.Code)
	})
}

func (suite *HandlersTestSuite) TestEvaluationEndpoints() {
	suite.Run("InlineEvaluation_ShouldReturnVerdict", func() {
		// Arrange
		userID := uuid.New()
		profile := testutils.NewProfileBuilder().
			WithRestriction(dietary.RestrictionVegetarian, dietary.SeverityStrict).
			Build()
		require.NoError(suite.T(), suite.profileRepo.Save(context.Background(), userID, profile))

		payload := map[string]interface{}{
			"profile_id": userID.String(),
			"recipe": map[string]interface{}{
				"name": "Chicken Rice",
				"ingredients": []map[string]interface{}{
					{"name": "chicken", "quantity": 1, "unit": "lb"},
					{"name": "rice", "quantity": 2, "unit": "cup"},
				},
			},
		}

		// Act
		resp := suite.do(http.MethodPost, "/api/v1/compatibility/evaluate", payload)

		// Assert
		require.Equal(suite.T(), http.StatusOK, resp.Code)
		var result struct {
			IsCompatible bool    `json:"is_compatible"`
			Score        float64 `json:"score"`
		}
		require.NoError(suite.T(), json.Unmarshal(resp.Body.Bytes(), &result))
		assert.False(suite.T(), result.IsCompatible)
		assert.InDelta(suite.T(), 0.5, result.Score, 1e-9)
	})

	suite.Run("RecipeWithoutIngredients_ShouldReturnBadRequest", func() {
		userID := uuid.New()
		require.NoError(suite.T(), suite.profileRepo.Save(context.Background(), userID, testutils.NewProfileBuilder().Build()))

		payload := map[string]interface{}{
			"profile_id": userID.String(),
			"recipe":     map[string]interface{}{"name": "Empty"},
		}

		resp := suite.do(http.MethodPost, "/api/v1/compatibility/evaluate", payload)
		assert.Equal(suite.T(), http.StatusBadRequest, resp.Code)
	})

	suite.Run("ImportThenEvaluateStored_ShouldWork", func() {
		// Arrange
		userID := uuid.New()
		profile := testutils.NewProfileBuilder().
			WithAllergy("peanuts", dietary.AllergyAnaphylaxis).
			Build()
		require.NoError(suite.T(), suite.profileRepo.Save(context.Background(), userID, profile))

		importPayload := map[string]interface{}{
			"name": "Satay",
			"ingredients": []map[string]interface{}{
				{"name": "peanut sauce", "quantity": 1, "unit": "cup"},
			},
		}

		// Act
		importResp := suite.do(http.MethodPost, "/api/v1/recipes", importPayload)
		require.Equal(suite.T(), http.StatusCreated, importResp.Code)

		var created map[string]string
		require.NoError(suite.T(), json.Unmarshal(importResp.Body.Bytes(), &created))
		evalResp := suite.do(http.MethodGet,
			fmt.Sprintf("/api/v1/compatibility/%s/recipes/%s", userID, created["recipe_id"]), nil)

		// Assert
		require.Equal(suite.T(), http.StatusOK, evalResp.Code)
		var result struct {
			IsCompatible bool    `json:"is_compatible"`
			Score        float64 `json:"score"`
		}
		require.NoError(suite.T(), json.Unmarshal(evalResp.Body.Bytes(), &result))
		assert.False(suite.T(), result.IsCompatible)
		assert.Zero(suite.T(), result.Score)
	})

	suite.Run("FilterEndpoint_ShouldReturnStats", func() {
		// Arrange
		userID := uuid.New()
		require.NoError(suite.T(), suite.profileRepo.Save(context.Background(), userID, testutils.NewProfileBuilder().Build()))
		require.NoError(suite.T(), suite.recipeRepo.Save(context.Background(), suite.factory.Recipe("rice")))

		// Act
		resp := suite.do(http.MethodPost, "/api/v1/compatibility/filter", map[string]interface{}{
			"profile_id": userID.String(),
		})

		// Assert
		require.Equal(suite.T(), http.StatusOK, resp.Code)
		var result struct {
			Stats struct {
				TotalEvaluated int `json:"total_evaluated"`
			} `json:"stats"`
		}
		require.NoError(suite.T(), json.Unmarshal(resp.Body.Bytes(), &result))
		assert.GreaterOrEqual(suite.T(), result.Stats.TotalEvaluated, 1)
	})
}

func TestHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}
