package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/leadhub/lead-tracker/internal/core/domain"
)

var userColumns = []string{
	"id", "name", "email", "password_hash", "role", "is_active",
	"created_at", "updated_at",
}

// UserRepository is the Postgres implementation of ports.UserRepository.
type UserRepository struct {
	db Querier
}

func NewUserRepository(db Querier) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	query, args, err := builder.
		Insert("users").
		Columns("id", "name", "email", "password_hash", "role", "is_active").
		Values(user.ID, user.Name, user.Email, user.PasswordHash, user.Role, user.IsActive).
		Suffix("RETURNING " + strings.Join(userColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert user: %w", err)
	}

	var stored domain.User
	if err := pgxscan.Get(ctx, r.db, &stored, query, args...); err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &stored, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	query, args, err := builder.
		Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"email": email}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user: %w", err)
	}
	return r.getOne(ctx, query, args)
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query, args, err := builder.
		Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user: %w", err)
	}
	return r.getOne(ctx, query, args)
}

func (r *UserRepository) ListActive(ctx context.Context, role domain.Role) ([]domain.User, error) {
	q := builder.
		Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("name ASC")
	if role != "" {
		q = q.Where(squirrel.Eq{"role": role})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list users: %w", err)
	}

	users := []domain.User{}
	if err := pgxscan.Select(ctx, r.db, &users, query, args...); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (r *UserRepository) getOne(ctx context.Context, query string, args []any) (*domain.User, error) {
	var user domain.User
	if err := pgxscan.Get(ctx, r.db, &user, query, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("select user: %w", err)
	}
	return &user, nil
}
