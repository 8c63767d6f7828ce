package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/leadhub/lead-tracker/internal/core/domain"
	"github.com/leadhub/lead-tracker/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stubs shared by the service tests
// ---------------------------------------------------------------------------

type stubLeadRepo struct {
	leads     map[uuid.UUID]*domain.Lead
	createErr error
	updateErr error
}

func newStubLeadRepo() *stubLeadRepo {
	return &stubLeadRepo{leads: make(map[uuid.UUID]*domain.Lead)}
}

func (r *stubLeadRepo) Create(_ context.Context, lead *domain.Lead) (*domain.Lead, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	clone := *lead
	r.leads[lead.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubLeadRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Lead, error) {
	lead, ok := r.leads[id]
	if !ok {
		return nil, domain.ErrLeadNotFound
	}
	clone := *lead
	return &clone, nil
}

func (r *stubLeadRepo) Update(_ context.Context, lead *domain.Lead) (*domain.Lead, error) {
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	if _, ok := r.leads[lead.ID]; !ok {
		return nil, domain.ErrLeadNotFound
	}
	clone := *lead
	r.leads[lead.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubLeadRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.leads[id]; !ok {
		return domain.ErrLeadNotFound
	}
	delete(r.leads, id)
	return nil
}

// List applies the same predicate combination the Postgres repo builds.
func (r *stubLeadRepo) List(_ context.Context, f ports.ListLeadsFilter) ([]domain.Lead, int64, error) {
	var matched []domain.Lead
	for _, lead := range r.leads {
		if !f.Scope.Covers(lead) {
			continue
		}
		if f.Status != "" && lead.Status != f.Status {
			continue
		}
		if f.AssignedTo != nil && (lead.AssignedTo == nil || *lead.AssignedTo != *f.AssignedTo) {
			continue
		}
		if f.Search != "" {
			needle := strings.ToLower(f.Search)
			company := ""
			if lead.Company != nil {
				company = *lead.Company
			}
			if !strings.Contains(strings.ToLower(lead.Name), needle) &&
				!strings.Contains(strings.ToLower(lead.Email), needle) &&
				!strings.Contains(strings.ToLower(company), needle) {
				continue
			}
		}
		matched = append(matched, *lead)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	skip := (f.Page - 1) * f.Limit
	if skip > len(matched) {
		return nil, total, nil
	}
	end := skip + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], total, nil
}

type stubActivityRepo struct {
	activities []domain.Activity
	createErr  error

	lastRecentAuthor *uuid.UUID
	lastRecentLimit  int
}

func (r *stubActivityRepo) Create(_ context.Context, a *domain.Activity) (*domain.Activity, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.activities = append(r.activities, *a)
	clone := *a
	return &clone, nil
}

func (r *stubActivityRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Activity, error) {
	for i := range r.activities {
		if r.activities[i].ID == id {
			clone := r.activities[i]
			return &clone, nil
		}
	}
	return nil, domain.ErrActivityNotFound
}

func (r *stubActivityRepo) Update(_ context.Context, a *domain.Activity) (*domain.Activity, error) {
	for i := range r.activities {
		if r.activities[i].ID == a.ID {
			r.activities[i] = *a
			clone := *a
			return &clone, nil
		}
	}
	return nil, domain.ErrActivityNotFound
}

func (r *stubActivityRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i := range r.activities {
		if r.activities[i].ID == id {
			r.activities = append(r.activities[:i], r.activities[i+1:]...)
			return nil
		}
	}
	return domain.ErrActivityNotFound
}

func (r *stubActivityRepo) ListByLead(_ context.Context, leadID uuid.UUID) ([]domain.Activity, error) {
	var out []domain.Activity
	for _, a := range r.activities {
		if a.LeadID == leadID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *stubActivityRepo) ListRecent(_ context.Context, authorID *uuid.UUID, limit int) ([]domain.Activity, error) {
	r.lastRecentAuthor = authorID
	r.lastRecentLimit = limit
	var out []domain.Activity
	for _, a := range r.activities {
		if authorID != nil && a.UserID != *authorID {
			continue
		}
		out = append(out, a)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// byType filters the recorded activities, newest-last.
func (r *stubActivityRepo) byType(t domain.ActivityType) []domain.Activity {
	var out []domain.Activity
	for _, a := range r.activities {
		if a.Type == t {
			out = append(out, a)
		}
	}
	return out
}

func (r *stubActivityRepo) byTitle(title string) []domain.Activity {
	var out []domain.Activity
	for _, a := range r.activities {
		if a.Title == title {
			out = append(out, a)
		}
	}
	return out
}

type stubUserRepo struct {
	users map[uuid.UUID]*domain.User
}

func newStubUserRepo(users ...*domain.User) *stubUserRepo {
	r := &stubUserRepo{users: make(map[uuid.UUID]*domain.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	clone := *user
	r.users[user.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) ListActive(_ context.Context, role domain.Role) ([]domain.User, error) {
	var out []domain.User
	for _, u := range r.users {
		if !u.IsActive {
			continue
		}
		if role != "" && u.Role != role {
			continue
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type recordingDispatcher struct {
	mu   sync.Mutex
	jobs []ports.NotificationJob
}

func (d *recordingDispatcher) Enqueue(job ports.NotificationJob) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.jobs = append(d.jobs, job)
}

type recordingBroadcaster struct {
	events []domain.Event
	err    error
}

func (b *recordingBroadcaster) Publish(_ context.Context, event domain.Event) error {
	if b.err != nil {
		return b.err
	}
	b.events = append(b.events, event)
	return nil
}

// ---------------------------------------------------------------------------
// Common fixtures
// ---------------------------------------------------------------------------

func testUser(role domain.Role) *domain.User {
	return &domain.User{
		ID:       uuid.New(),
		Name:     "Test " + string(role),
		Email:    string(role) + "@example.com",
		Role:     role,
		IsActive: true,
	}
}

var _ ports.LeadRepository = (*stubLeadRepo)(nil)
var _ ports.ActivityRepository = (*stubActivityRepo)(nil)
var _ ports.UserRepository = (*stubUserRepo)(nil)
