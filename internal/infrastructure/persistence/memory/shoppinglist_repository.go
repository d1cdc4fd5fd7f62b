package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/platewise/v1/internal/domain/recipe"
	"github.com/platewise/v1/internal/ports/outbound"
	"github.com/platewise/v1/pkg/errors"
)

// ShoppingListRepository stores shopping lists keyed by ID
type ShoppingListRepository struct {
	mu    sync.RWMutex
	lists map[uuid.UUID]recipe.ShoppingListWithItems
}

// NewShoppingListRepository creates an empty in-memory shopping list repository
func NewShoppingListRepository() outbound.ShoppingListRepository {
	return &ShoppingListRepository{lists: make(map[uuid.UUID]recipe.ShoppingListWithItems)}
}

// Save stores or replaces a shopping list
func (r *ShoppingListRepository) Save(ctx context.Context, list recipe.ShoppingListWithItems) error {
	if list.ID == uuid.Nil {
		return errors.NewInvalidInputError("shopping list id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists[list.ID] = list
	return nil
}

// FindByID returns a shopping list by ID
func (r *ShoppingListRepository) FindByID(ctx context.Context, id uuid.UUID) (recipe.ShoppingListWithItems, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list, ok := r.lists[id]
	if !ok {
		return recipe.ShoppingListWithItems{}, errors.NewAppError(errors.CodeNotFound, "Shopping list not found", id.String())
	}
	return list, nil
}

// Delete removes a shopping list
func (r *ShoppingListRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.lists[id]; !ok {
		return errors.NewAppError(errors.CodeNotFound, "Shopping list not found", id.String())
	}
	delete(r.lists, id)
	return nil
}
