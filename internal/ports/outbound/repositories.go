// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/platewise/v1/internal/domain/dietary"
	"github.com/platewise/v1/internal/domain/recipe"
)

// ProfileRepository defines the interface for dietary profile persistence
type ProfileRepository interface {
	Save(ctx context.Context, userID uuid.UUID, profile dietary.Profile) error
	FindByID(ctx context.Context, userID uuid.UUID) (dietary.Profile, error)
	Delete(ctx context.Context, userID uuid.UUID) error
	Exists(ctx context.Context, userID uuid.UUID) (bool, error)
}

// RecipeRepository defines the interface for recipe persistence
type RecipeRepository interface {
	Save(ctx context.Context, rec recipe.Recipe) error
	FindByID(ctx context.Context, id uuid.UUID) (recipe.Recipe, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]recipe.Recipe, error)
	FindAll(ctx context.Context) ([]recipe.Recipe, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// MealPlanRepository defines the interface for weekly meal plan persistence
type MealPlanRepository interface {
	Save(ctx context.Context, plan recipe.WeeklyMealPlan) error
	FindByID(ctx context.Context, id uuid.UUID) (recipe.WeeklyMealPlan, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]recipe.WeeklyMealPlan, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ShoppingListRepository defines the interface for shopping list persistence
type ShoppingListRepository interface {
	Save(ctx context.Context, list recipe.ShoppingListWithItems) error
	FindByID(ctx context.Context, id uuid.UUID) (recipe.ShoppingListWithItems, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
	Exists(ctx context.Context, key string) (bool, error)
}
