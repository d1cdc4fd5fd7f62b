package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/platewise/v1/internal/domain/recipe"
	"github.com/platewise/v1/internal/ports/outbound"
	"github.com/platewise/v1/pkg/errors"
)

// RecipeRepository stores recipes keyed by ID
type RecipeRepository struct {
	mu      sync.RWMutex
	recipes map[uuid.UUID]recipe.Recipe
}

// NewRecipeRepository creates an empty in-memory recipe repository
func NewRecipeRepository() outbound.RecipeRepository {
	return &RecipeRepository{recipes: make(map[uuid.UUID]recipe.Recipe)}
}

// Save stores or replaces a recipe
func (r *RecipeRepository) Save(ctx context.Context, rec recipe.Recipe) error {
	if err := rec.Validate(); err != nil {
		return errors.NewInvalidInputError(err.Error())
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recipes[rec.ID] = rec
	return nil
}

// FindByID returns a recipe by ID
func (r *RecipeRepository) FindByID(ctx context.Context, id uuid.UUID) (recipe.Recipe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.recipes[id]
	if !ok {
		return recipe.Recipe{}, errors.NewRecipeNotFoundError(id.String())
	}
	return rec, nil
}

// FindByIDs returns the recipes for the given IDs. A missing ID fails the
// whole call so a batch never silently shrinks.
func (r *RecipeRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]recipe.Recipe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]recipe.Recipe, 0, len(ids))
	for _, id := range ids {
		rec, ok := r.recipes[id]
		if !ok {
			return nil, errors.NewRecipeNotFoundError(id.String())
		}
		out = append(out, rec)
	}
	return out, nil
}

// FindAll returns every stored recipe ordered by ID
func (r *RecipeRepository) FindAll(ctx context.Context) ([]recipe.Recipe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]recipe.Recipe, 0, len(r.recipes))
	for _, rec := range r.recipes {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

// Delete removes a recipe
func (r *RecipeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.recipes[id]; !ok {
		return errors.NewRecipeNotFoundError(id.String())
	}
	delete(r.recipes, id)
	return nil
}
