package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/hubinity/hubinity-api/internal/models"
)

// UserRepository reads account display data. Account writes belong to the
// external auth service.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository constructs the repository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByID fetches a user by identifier.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	const query = `SELECT id, email, username, first_name, last_name, company_name, role, created_at
FROM users WHERE id = $1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}
