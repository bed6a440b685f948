package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/proofline/proofline/internal/domain/entities"
)

// UserRepository is the slice of account persistence the pipeline needs:
// resolving callers and maintaining the accumulated API spend.
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	FindByAPIKey(ctx context.Context, apiKey string) (*entities.User, error)
	// AddAPICost atomically adds cost to the user's running total.
	AddAPICost(ctx context.Context, userID uuid.UUID, cost float64) error
}
