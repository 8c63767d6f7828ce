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

var activityColumns = []string{
	"id", "type", "title", "description", "lead_id", "user_id",
	"metadata", "created_at", "updated_at",
}

// ActivityRepository is the Postgres implementation of
// ports.ActivityRepository.
type ActivityRepository struct {
	db Querier
}

func NewActivityRepository(db Querier) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Create(ctx context.Context, a *domain.Activity) (*domain.Activity, error) {
	query, args, err := builder.
		Insert("activities").
		Columns("id", "type", "title", "description", "lead_id", "user_id", "metadata").
		Values(a.ID, a.Type, a.Title, a.Description, a.LeadID, a.UserID, a.Metadata).
		Suffix("RETURNING " + strings.Join(activityColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert activity: %w", err)
	}

	var stored domain.Activity
	if err := pgxscan.Get(ctx, r.db, &stored, query, args...); err != nil {
		return nil, fmt.Errorf("insert activity: %w", err)
	}
	return &stored, nil
}

func (r *ActivityRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Activity, error) {
	query, args, err := builder.
		Select(activityColumns...).
		From("activities").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select activity: %w", err)
	}

	var a domain.Activity
	if err := pgxscan.Get(ctx, r.db, &a, query, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrActivityNotFound
		}
		return nil, fmt.Errorf("select activity: %w", err)
	}
	return &a, nil
}

func (r *ActivityRepository) Update(ctx context.Context, a *domain.Activity) (*domain.Activity, error) {
	query, args, err := builder.
		Update("activities").
		Set("type", a.Type).
		Set("title", a.Title).
		Set("description", a.Description).
		Set("metadata", a.Metadata).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": a.ID}).
		Suffix("RETURNING " + strings.Join(activityColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update activity: %w", err)
	}

	var stored domain.Activity
	if err := pgxscan.Get(ctx, r.db, &stored, query, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrActivityNotFound
		}
		return nil, fmt.Errorf("update activity: %w", err)
	}
	return &stored, nil
}

func (r *ActivityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query, args, err := builder.
		Delete("activities").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete activity: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete activity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrActivityNotFound
	}
	return nil
}

func (r *ActivityRepository) ListByLead(ctx context.Context, leadID uuid.UUID) ([]domain.Activity, error) {
	query, args, err := builder.
		Select(activityColumns...).
		From("activities").
		Where(squirrel.Eq{"lead_id": leadID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list activities: %w", err)
	}

	activities := []domain.Activity{}
	if err := pgxscan.Select(ctx, r.db, &activities, query, args...); err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return activities, nil
}

func (r *ActivityRepository) ListRecent(ctx context.Context, authorID *uuid.UUID, limit int) ([]domain.Activity, error) {
	q := builder.
		Select(activityColumns...).
		From("activities").
		OrderBy("created_at DESC").
		Limit(uint64(limit))
	if authorID != nil {
		q = q.Where(squirrel.Eq{"user_id": *authorID})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build recent activities: %w", err)
	}

	activities := []domain.Activity{}
	if err := pgxscan.Select(ctx, r.db, &activities, query, args...); err != nil {
		return nil, fmt.Errorf("recent activities: %w", err)
	}
	return activities, nil
}
