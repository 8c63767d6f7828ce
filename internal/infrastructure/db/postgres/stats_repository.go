package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"github.com/leadhub/lead-tracker/internal/core/domain"
	"github.com/leadhub/lead-tracker/internal/core/policy"
	"github.com/leadhub/lead-tracker/internal/core/ports"
)

// StatsRepository is the Postgres implementation of ports.StatsRepository.
// Every aggregate runs as a single GROUP BY or FILTER query; sparse
// results (statuses, sources, months without leads) are simply missing
// rows.
type StatsRepository struct {
	db Querier
}

func NewStatsRepository(db Querier) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) CountByScope(ctx context.Context, scope policy.Scope) (*ports.LeadCounters, error) {
	q := builder.
		Select(
			"COUNT(*) AS total",
			"COUNT(*) FILTER (WHERE status = 'won') AS won",
			"COALESCE(SUM(estimated_value), 0) AS total_value",
		).
		From("leads")
	if p := scopePredicate(scope); p != nil {
		q = q.Where(p)
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build lead counters: %w", err)
	}

	var counters ports.LeadCounters
	if err := pgxscan.Get(ctx, r.db, &counters, query, args...); err != nil {
		return nil, fmt.Errorf("lead counters: %w", err)
	}
	return &counters, nil
}

func (r *StatsRepository) CountByStatus(ctx context.Context, scope policy.Scope) (map[domain.LeadStatus]int64, error) {
	q := builder.
		Select("status", "COUNT(*) AS count").
		From("leads").
		GroupBy("status")
	if p := scopePredicate(scope); p != nil {
		q = q.Where(p)
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build status counts: %w", err)
	}

	var rows []struct {
		Status domain.LeadStatus `db:"status"`
		Count  int64             `db:"count"`
	}
	if err := pgxscan.Select(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("status counts: %w", err)
	}

	counts := make(map[domain.LeadStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *StatsRepository) TopSources(ctx context.Context, scope policy.Scope, limit int) ([]ports.SourceCount, error) {
	q := builder.
		Select("source", "COUNT(*) AS count").
		From("leads").
		Where("source IS NOT NULL").
		GroupBy("source").
		OrderBy("count DESC").
		Limit(uint64(limit))
	if p := scopePredicate(scope); p != nil {
		q = q.Where(p)
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build top sources: %w", err)
	}

	sources := []ports.SourceCount{}
	if err := pgxscan.Select(ctx, r.db, &sources, query, args...); err != nil {
		return nil, fmt.Errorf("top sources: %w", err)
	}
	return sources, nil
}

func (r *StatsRepository) MonthlyTrend(ctx context.Context, scope policy.Scope, months int) ([]ports.MonthCount, error) {
	q := builder.
		Select(
			"to_char(date_trunc('month', created_at), 'YYYY-MM') AS month",
			"COUNT(*) AS count",
		).
		From("leads").
		Where(squirrel.Expr(
			"created_at >= date_trunc('month', now()) - make_interval(months => ?)",
			months-1,
		)).
		GroupBy("month").
		OrderBy("month ASC")
	if p := scopePredicate(scope); p != nil {
		q = q.Where(p)
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build monthly trend: %w", err)
	}

	trend := []ports.MonthCount{}
	if err := pgxscan.Select(ctx, r.db, &trend, query, args...); err != nil {
		return nil, fmt.Errorf("monthly trend: %w", err)
	}
	return trend, nil
}

func (r *StatsRepository) AssignedCounters(ctx context.Context, userID uuid.UUID) (*ports.LeadCounters, error) {
	query, args, err := builder.
		Select(
			"COUNT(*) AS total",
			"COUNT(*) FILTER (WHERE status = 'won') AS won",
			"COALESCE(SUM(estimated_value), 0) AS total_value",
		).
		From("leads").
		Where(squirrel.Eq{"assigned_to": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build assigned counters: %w", err)
	}

	var counters ports.LeadCounters
	if err := pgxscan.Get(ctx, r.db, &counters, query, args...); err != nil {
		return nil, fmt.Errorf("assigned counters: %w", err)
	}
	return &counters, nil
}
