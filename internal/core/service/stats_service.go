package service

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/leadhub/lead-tracker/internal/core/domain"
	"github.com/leadhub/lead-tracker/internal/core/policy"
	"github.com/leadhub/lead-tracker/internal/core/ports"
)

const (
	topSourcesLimit       = 10
	trendMonths           = 6
	recentActivitiesLimit = 10
)

// StatsService computes the dashboard aggregations over the acting user's
// visibility scope.
type StatsService struct {
	stats      ports.StatsRepository
	activities ports.ActivityRepository
	users      ports.UserRepository
	logger     zerolog.Logger
}

func NewStatsService(stats ports.StatsRepository, activities ports.ActivityRepository, users ports.UserRepository, logger zerolog.Logger) *StatsService {
	return &StatsService{stats: stats, activities: activities, users: users, logger: logger}
}

func (s *StatsService) Dashboard(ctx context.Context, actor *domain.User) (*ports.DashboardStats, error) {
	scope := policy.VisibilityScope(actor)

	counters, err := s.stats.CountByScope(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("dashboard counters: %w", err)
	}

	byStatus, err := s.stats.CountByStatus(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("dashboard status counts: %w", err)
	}

	sources, err := s.stats.TopSources(ctx, scope, topSourcesLimit)
	if err != nil {
		return nil, fmt.Errorf("dashboard sources: %w", err)
	}

	trend, err := s.stats.MonthlyTrend(ctx, scope, trendMonths)
	if err != nil {
		return nil, fmt.Errorf("dashboard trend: %w", err)
	}

	// Recent activities follow a narrower rule than lead visibility:
	// executives only see their own authored activities.
	var author *uuid.UUID
	if actor.Role == domain.RoleSalesExecutive {
		id := actor.ID
		author = &id
	}
	recent, err := s.activities.ListRecent(ctx, author, recentActivitiesLimit)
	if err != nil {
		return nil, fmt.Errorf("dashboard recent activities: %w", err)
	}

	return &ports.DashboardStats{
		TotalLeads:       counters.Total,
		LeadsByStatus:    byStatus,
		TotalValue:       counters.TotalValue,
		ConversionRate:   conversionRate(counters.Won, counters.Total),
		LeadsBySource:    sources,
		MonthlyTrend:     trend,
		RecentActivities: recent,
	}, nil
}

// PerformanceByUser reports per-executive aggregates over *assigned* leads
// only, not the assignment-or-creation rule the dashboard uses: team
// performance reflects the assigned owner.
func (s *StatsService) PerformanceByUser(ctx context.Context, actor *domain.User) ([]ports.UserPerformance, error) {
	if actor.Role != domain.RoleAdmin && actor.Role != domain.RoleManager {
		return nil, domain.ErrForbidden
	}

	execs, err := s.users.ListActive(ctx, domain.RoleSalesExecutive)
	if err != nil {
		return nil, fmt.Errorf("performance: list executives: %w", err)
	}

	result := make([]ports.UserPerformance, 0, len(execs))
	for _, u := range execs {
		counters, err := s.stats.AssignedCounters(ctx, u.ID)
		if err != nil {
			return nil, fmt.Errorf("performance for %s: %w", u.ID, err)
		}
		result = append(result, ports.UserPerformance{
			UserID:         u.ID,
			Name:           u.Name,
			TotalLeads:     counters.Total,
			WonLeads:       counters.Won,
			TotalValue:     counters.TotalValue,
			ConversionRate: conversionRate(counters.Won, counters.Total),
		})
	}
	return result, nil
}

// conversionRate returns won/total as a percentage rounded to 2 decimals,
// and 0 when there are no leads.
func conversionRate(won, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(won)/float64(total)*100*100) / 100
}
