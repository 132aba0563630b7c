package queries

import (
	"context"

	"mentor-booking/internal/infra"
	"mentor-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

// UserQueries resolves the account behind an access token for the /me view
// and for role checks on reservation endpoints.
type UserQueries interface {
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*AuthorizedUserView, error)
}

// UserReadStore is backed by the users table. FindByEmail also returns the
// stored hash so login can verify without a second round trip.
type UserReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*AuthorizedUserView, error)
	FindByEmail(ctx context.Context, email string) (*AuthorizedUserView, string, error)
}

type userQueriesImpl struct {
	accounts UserReadStore
}

func NewUserQueries(accounts UserReadStore) UserQueries {
	return &userQueriesImpl{accounts: accounts}
}

// GetCurrentUser refuses deactivated mentors and mentees even while their
// token is still within its lifetime.
func (q *userQueriesImpl) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*AuthorizedUserView, error) {
	account, err := q.accounts.FindByID(ctx, userID)
	switch {
	case infra.IsKind(err, infra.KindNotFound):
		return nil, errs.Mark(ErrUserNotFound, errs.ErrNotFound)
	case err != nil:
		return nil, errs.Mark(errs.Wrapf(err, "load account %s", userID), errs.ErrDatabaseOperationFailed)
	case account == nil:
		return nil, errs.Mark(ErrUserNotFound, errs.ErrNotFound)
	case !account.IsActive:
		return nil, errs.Mark(ErrUserInactive, errs.ErrUnauthorized)
	}
	return account, nil
}
