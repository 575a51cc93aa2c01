package postgres

import (
	"context"
	"fmt"

	"github.com/oksasatya/go-ddd-catalog/internal/domain/entity"
	"github.com/oksasatya/go-ddd-catalog/internal/domain/repository"
)

type UserRepository struct {
	pool PgxPool
	uow  *UnitOfWork
}

func NewUserRepository(pool PgxPool) *UserRepository {
	return &UserRepository{pool: pool, uow: NewUnitOfWork(pool)}
}

// Create relies on the users_email_key unique index; concurrent registrations
// of one email leave exactly one row and the loser gets ErrDuplicate.
func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	err := r.uow.Do(ctx, func(q Querier) error {
		row := q.QueryRow(ctx, `
			INSERT INTO users (email, password)
			VALUES ($1, $2)
			RETURNING id, created_at
		`, u.Email, u.Password)
		return row.Scan(&u.ID, &u.CreatedAt)
	})
	if err != nil {
		return fmt.Errorf("error creating user: %w", classify(err))
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, email, password, created_at
		FROM users
		WHERE id = $1
	`, id)
	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("error querying user by id: %w", classify(err))
	}
	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, email, password, created_at
		FROM users
		WHERE email = $1
	`, email)
	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("error querying user by email: %w", classify(err))
	}
	return u, nil
}

func scanUser(row rowScanner) (*entity.User, error) {
	u := &entity.User{}
	if err := row.Scan(&u.ID, &u.Email, &u.Password, &u.CreatedAt); err != nil {
		return nil, err
	}
	return u, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
