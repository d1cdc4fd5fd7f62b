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

// MealPlanRepository stores weekly meal plans keyed by ID
type MealPlanRepository struct {
	mu    sync.RWMutex
	plans map[uuid.UUID]recipe.WeeklyMealPlan
}

// NewMealPlanRepository creates an empty in-memory meal plan repository
func NewMealPlanRepository() outbound.MealPlanRepository {
	return &MealPlanRepository{plans: make(map[uuid.UUID]recipe.WeeklyMealPlan)}
}

// Save stores or replaces a meal plan
func (r *MealPlanRepository) Save(ctx context.Context, plan recipe.WeeklyMealPlan) error {
	if err := plan.Validate(); err != nil {
		return errors.NewInvalidInputError(err.Error())
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plans[plan.ID] = plan
	return nil
}

// FindByID returns a meal plan by ID
func (r *MealPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (recipe.WeeklyMealPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	plan, ok := r.plans[id]
	if !ok {
		return recipe.WeeklyMealPlan{}, errors.NewMealPlanNotFoundError(id.String())
	}
	return plan, nil
}

// FindByUserID returns every plan of one user, newest week first
func (r *MealPlanRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]recipe.WeeklyMealPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []recipe.WeeklyMealPlan
	for _, plan := range r.plans {
		if plan.UserID == userID {
			out = append(out, plan)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WeekStartDate.After(out[j].WeekStartDate) })
	return out, nil
}

// Delete removes a meal plan
func (r *MealPlanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.plans[id]; !ok {
		return errors.NewMealPlanNotFoundError(id.String())
	}
	delete(r.plans, id)
	return nil
}
