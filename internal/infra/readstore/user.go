package readstore

import (
	"context"

	"mentor-booking/internal/infra"
	"mentor-booking/internal/infra/db"
	"mentor-booking/internal/pkg/pgconv"
	"mentor-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

const findUserByID = `SELECT id, email, role, is_active FROM users WHERE id = $1`

const findUserByEmail = `SELECT id, email, role, is_active, password_hash FROM users WHERE email = $1 ORDER BY is_active DESC, created_at DESC LIMIT 1`

type UserReadStore struct {
	db db.DBTX
}

func NewUserReadStore(dbtx db.DBTX) *UserReadStore {
	return &UserReadStore{db: dbtx}
}

func (r *UserReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.AuthorizedUserView, error) {
	var u queries.AuthorizedUserView
	err := r.db.QueryRow(ctx, findUserByID, id).Scan(&u.ID, &u.Email, &u.Role, &u.IsActive)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user by ID", err)
	}
	return &u, nil
}

// FindByEmail also returns the password hash, which never leaves the auth command.
func (r *UserReadStore) FindByEmail(ctx context.Context, email string) (*queries.AuthorizedUserView, string, error) {
	var (
		u    queries.AuthorizedUserView
		hash string
	)
	err := r.db.QueryRow(ctx, findUserByEmail, email).Scan(&u.ID, &u.Email, &u.Role, &u.IsActive, &hash)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, "", infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, "", infra.WrapRepoErr("failed to find user by email", err)
	}
	return &u, hash, nil
}
