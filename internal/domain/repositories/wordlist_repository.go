package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/proofline/proofline/internal/domain/entities"
)

// WordListRepository defines word-list persistence. Versions are append-only;
// AppendVersion must create the version row and advance the list's current
// pointer atomically.
type WordListRepository interface {
	Create(ctx context.Context, list *entities.WordList) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.WordList, error)
	FindByName(ctx context.Context, userID uuid.UUID, name string) (*entities.WordList, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]entities.WordList, error)
	AppendVersion(ctx context.Context, list *entities.WordList, version *entities.WordListVersion) error
	FindVersion(ctx context.Context, versionID uuid.UUID) (*entities.WordListVersion, error)
	ListVersions(ctx context.Context, wordListID uuid.UUID) ([]entities.WordListVersion, error)
	// Update persists list-level fields (sharing flag, description).
	Update(ctx context.Context, list *entities.WordList) error
	RecordUsage(ctx context.Context, list *entities.WordList) error
	// Share records a per-user read grant; granting twice is a no-op.
	Share(ctx context.Context, share *entities.SharedWordList) error
	Unshare(ctx context.Context, wordListID, userID uuid.UUID) error
	HasShare(ctx context.Context, wordListID, userID uuid.UUID) (bool, error)
	// Delete removes a list and its versions. Implementations must refuse
	// when any completed correction job references one of the versions.
	Delete(ctx context.Context, list *entities.WordList) error
}
