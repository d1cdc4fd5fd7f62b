// Package memory provides in-memory implementations of the outbound
// repository ports. They back the default deployment and the test suites;
// a SQL-backed deployment swaps them out in the container.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/platewise/v1/internal/domain/dietary"
	"github.com/platewise/v1/internal/ports/outbound"
	"github.com/platewise/v1/pkg/errors"
)

// ProfileRepository stores dietary profiles keyed by user ID
type ProfileRepository struct {
	mu       sync.RWMutex
	profiles map[uuid.UUID]dietary.Profile
}

// NewProfileRepository creates an empty in-memory profile repository
func NewProfileRepository() outbound.ProfileRepository {
	return &ProfileRepository{profiles: make(map[uuid.UUID]dietary.Profile)}
}

// Save stores or replaces the profile for a user
func (r *ProfileRepository) Save(ctx context.Context, userID uuid.UUID, profile dietary.Profile) error {
	if userID == uuid.Nil {
		return errors.NewInvalidInputError("user id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[userID] = profile
	return nil
}

// FindByID returns the profile for a user
func (r *ProfileRepository) FindByID(ctx context.Context, userID uuid.UUID) (dietary.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	profile, ok := r.profiles[userID]
	if !ok {
		return dietary.Profile{}, errors.NewProfileNotFoundError(userID.String())
	}
	return profile, nil
}

// Delete removes the profile for a user
func (r *ProfileRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[userID]; !ok {
		return errors.NewProfileNotFoundError(userID.String())
	}
	delete(r.profiles, userID)
	return nil
}

// Exists reports whether a profile is stored for a user
func (r *ProfileRepository) Exists(ctx context.Context, userID uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.profiles[userID]
	return ok, nil
}
