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
	"github.com/leadhub/lead-tracker/internal/core/ports"
)

var leadColumns = []string{
	"id", "name", "email", "phone", "company", "status", "source",
	"estimated_value", "assigned_to", "created_by", "notes",
	"created_at", "updated_at",
}

// leadSortColumns whitelists the sortable columns. Anything else falls
// back to created_at.
var leadSortColumns = map[string]struct{}{
	"created_at":      {},
	"updated_at":      {},
	"name":            {},
	"email":           {},
	"company":         {},
	"status":          {},
	"estimated_value": {},
}

// LeadRepository is the Postgres implementation of ports.LeadRepository.
type LeadRepository struct {
	db Querier
}

func NewLeadRepository(db Querier) *LeadRepository {
	return &LeadRepository{db: db}
}

func (r *LeadRepository) Create(ctx context.Context, lead *domain.Lead) (*domain.Lead, error) {
	query, args, err := builder.
		Insert("leads").
		Columns("id", "name", "email", "phone", "company", "status", "source",
			"estimated_value", "assigned_to", "created_by", "notes").
		Values(lead.ID, lead.Name, lead.Email, lead.Phone, lead.Company,
			lead.Status, lead.Source, lead.EstimatedValue, lead.AssignedTo,
			lead.CreatedBy, lead.Notes).
		Suffix("RETURNING " + strings.Join(leadColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert lead: %w", err)
	}

	var stored domain.Lead
	if err := pgxscan.Get(ctx, r.db, &stored, query, args...); err != nil {
		return nil, fmt.Errorf("insert lead: %w", err)
	}
	return &stored, nil
}

func (r *LeadRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Lead, error) {
	query, args, err := builder.
		Select(leadColumns...).
		From("leads").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select lead: %w", err)
	}

	var lead domain.Lead
	if err := pgxscan.Get(ctx, r.db, &lead, query, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLeadNotFound
		}
		return nil, fmt.Errorf("select lead: %w", err)
	}
	return &lead, nil
}

func (r *LeadRepository) Update(ctx context.Context, lead *domain.Lead) (*domain.Lead, error) {
	query, args, err := builder.
		Update("leads").
		Set("name", lead.Name).
		Set("email", lead.Email).
		Set("phone", lead.Phone).
		Set("company", lead.Company).
		Set("status", lead.Status).
		Set("source", lead.Source).
		Set("estimated_value", lead.EstimatedValue).
		Set("assigned_to", lead.AssignedTo).
		Set("notes", lead.Notes).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": lead.ID}).
		Suffix("RETURNING " + strings.Join(leadColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update lead: %w", err)
	}

	var stored domain.Lead
	if err := pgxscan.Get(ctx, r.db, &stored, query, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLeadNotFound
		}
		return nil, fmt.Errorf("update lead: %w", err)
	}
	return &stored, nil
}

// Delete removes the lead row. Activities go with it via the ON DELETE
// CASCADE constraint on activities.lead_id.
func (r *LeadRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query, args, err := builder.
		Delete("leads").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete lead: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLeadNotFound
	}
	return nil
}

func (r *LeadRepository) List(ctx context.Context, filter ports.ListLeadsFilter) ([]domain.Lead, int64, error) {
	where := leadListPredicates(filter)

	countQuery := builder.Select("COUNT(*)").From("leads")
	for _, p := range where {
		countQuery = countQuery.Where(p)
	}
	query, args, err := countQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count leads: %w", err)
	}

	var total int64
	if err := pgxscan.Get(ctx, r.db, &total, query, args...); err != nil {
		return nil, 0, fmt.Errorf("count leads: %w", err)
	}

	listQuery := builder.Select(leadColumns...).From("leads")
	for _, p := range where {
		listQuery = listQuery.Where(p)
	}
	listQuery = listQuery.
		OrderBy(leadOrderClause(filter.SortBy, filter.SortOrder)).
		Limit(uint64(filter.Limit)).
		Offset(uint64((filter.Page - 1) * filter.Limit))

	query, args, err = listQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list leads: %w", err)
	}

	leads := []domain.Lead{}
	if err := pgxscan.Select(ctx, r.db, &leads, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list leads: %w", err)
	}
	return leads, total, nil
}

// leadListPredicates builds the WHERE clauses shared by the count and the
// page query: scope first, then the optional filters ANDed on top.
func leadListPredicates(filter ports.ListLeadsFilter) []squirrel.Sqlizer {
	var where []squirrel.Sqlizer
	if p := scopePredicate(filter.Scope); p != nil {
		where = append(where, p)
	}
	if filter.Status != "" {
		where = append(where, squirrel.Eq{"status": filter.Status})
	}
	if filter.AssignedTo != nil {
		where = append(where, squirrel.Eq{"assigned_to": *filter.AssignedTo})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		where = append(where, squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"email": pattern},
			squirrel.ILike{"company": pattern},
		})
	}
	return where
}

func leadOrderClause(sortBy, sortOrder string) string {
	if _, ok := leadSortColumns[sortBy]; !ok {
		sortBy = "created_at"
	}
	order := "DESC"
	if strings.EqualFold(sortOrder, "asc") {
		order = "ASC"
	}
	return sortBy + " " + order
}
