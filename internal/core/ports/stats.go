package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/leadhub/lead-tracker/internal/core/domain"
	"github.com/leadhub/lead-tracker/internal/core/policy"
)

// SourceCount is one (source, count) pair in the lead source breakdown.
type SourceCount struct {
	Source string `json:"source" db:"source"`
	Count  int64  `json:"count" db:"count"`
}

// MonthCount is one month in the creation trend. Month is the first day
// of the calendar month in UTC, rendered as "2006-01".
type MonthCount struct {
	Month string `json:"month" db:"month"`
	Count int64  `json:"count" db:"count"`
}

// DashboardStats aggregates the visible lead set for one user. Maps and
// slices are sparse: statuses, sources, and months with zero leads are
// simply absent.
type DashboardStats struct {
	TotalLeads       int64                        `json:"total_leads"`
	LeadsByStatus    map[domain.LeadStatus]int64  `json:"leads_by_status"`
	TotalValue       float64                      `json:"total_value"`
	ConversionRate   float64                      `json:"conversion_rate"`
	LeadsBySource    []SourceCount                `json:"leads_by_source"`
	MonthlyTrend     []MonthCount                 `json:"monthly_trend"`
	RecentActivities []domain.Activity            `json:"recent_activities"`
}

// UserPerformance summarises one sales executive's assigned leads.
type UserPerformance struct {
	UserID         uuid.UUID `json:"user_id"`
	Name           string    `json:"name"`
	TotalLeads     int64     `json:"total_leads"`
	WonLeads       int64     `json:"won_leads"`
	TotalValue     float64   `json:"total_value"`
	ConversionRate float64   `json:"conversion_rate"`
}

// LeadCounters is the scalar slice of the dashboard computed in one query.
type LeadCounters struct {
	Total      int64   `db:"total"`
	Won        int64   `db:"won"`
	TotalValue float64 `db:"total_value"`
}

// StatsRepository defines the aggregation queries. Every query is
// restricted to the given visibility scope.
type StatsRepository interface {
	CountByScope(ctx context.Context, scope policy.Scope) (*LeadCounters, error)
	CountByStatus(ctx context.Context, scope policy.Scope) (map[domain.LeadStatus]int64, error)
	TopSources(ctx context.Context, scope policy.Scope, limit int) ([]SourceCount, error)
	// MonthlyTrend counts leads created in the trailing `months` calendar
	// months, chronologically ascending, omitting empty months.
	MonthlyTrend(ctx context.Context, scope policy.Scope, months int) ([]MonthCount, error)
	// AssignedCounters aggregates over leads *assigned* to userID, the
	// attribution rule used for team performance.
	AssignedCounters(ctx context.Context, userID uuid.UUID) (*LeadCounters, error)
}

// StatsService defines the read-only aggregation use-cases.
type StatsService interface {
	Dashboard(ctx context.Context, actor *domain.User) (*DashboardStats, error)
	// PerformanceByUser is restricted to managers and admins.
	PerformanceByUser(ctx context.Context, actor *domain.User) ([]UserPerformance, error)
}
