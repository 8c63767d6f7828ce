package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/leadhub/lead-tracker/internal/core/domain"
	"github.com/leadhub/lead-tracker/internal/core/ports"
)

type leadFixture struct {
	repo        *stubLeadRepo
	activities  *stubActivityRepo
	users       *stubUserRepo
	dispatcher  *recordingDispatcher
	broadcaster *recordingBroadcaster
	svc         *LeadService
}

func newLeadFixture(users ...*domain.User) *leadFixture {
	f := &leadFixture{
		repo:        newStubLeadRepo(),
		activities:  &stubActivityRepo{},
		users:       newStubUserRepo(users...),
		dispatcher:  &recordingDispatcher{},
		broadcaster: &recordingBroadcaster{},
	}
	f.svc = NewLeadService(f.repo, f.activities, f.users, f.dispatcher, f.broadcaster, zerolog.Nop())
	return f
}

func (f *leadFixture) seedLead(createdBy uuid.UUID, assignedTo *uuid.UUID) *domain.Lead {
	now := time.Now().UTC()
	lead := &domain.Lead{
		ID:         uuid.New(),
		Name:       "Acme Corp deal",
		Email:      "contact@acme.test",
		Status:     domain.StatusNew,
		AssignedTo: assignedTo,
		CreatedBy:  createdBy,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	f.repo.leads[lead.ID] = lead
	return lead
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestLeadService_Create_Defaults(t *testing.T) {
	exec := testUser(domain.RoleSalesExecutive)
	f := newLeadFixture(exec)

	lead, err := f.svc.Create(context.Background(), exec, ports.CreateLeadInput{
		Name:  "Acme",
		Email: "sales@acme.test",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if lead.Status != domain.StatusNew {
		t.Errorf("expected default status %q, got %q", domain.StatusNew, lead.Status)
	}
	if lead.CreatedBy != exec.ID {
		t.Errorf("created_by must be the acting user")
	}
	if lead.AssignedTo == nil || *lead.AssignedTo != exec.ID {
		t.Errorf("omitted assignee must default to the creator")
	}
	if lead.CreatedAt.IsZero() || lead.UpdatedAt.IsZero() {
		t.Error("timestamps must be set")
	}
}

func TestLeadService_Create_EmitsOneAuditNote(t *testing.T) {
	exec := testUser(domain.RoleSalesExecutive)
	f := newLeadFixture(exec)

	lead, err := f.svc.Create(context.Background(), exec, ports.CreateLeadInput{Name: "Acme", Email: "a@b.test"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	audits := f.activities.byTitle(domain.AuditTitleLeadCreated)
	if len(audits) != 1 {
		t.Fatalf("expected exactly 1 %q audit activity, got %d", domain.AuditTitleLeadCreated, len(audits))
	}
	if audits[0].Type != domain.ActivityNote {
		t.Errorf("audit type: expected %q, got %q", domain.ActivityNote, audits[0].Type)
	}
	if audits[0].LeadID != lead.ID || audits[0].UserID != exec.ID {
		t.Error("audit must reference the lead and the acting user")
	}
}

func TestLeadService_Create_Broadcasts(t *testing.T) {
	exec := testUser(domain.RoleSalesExecutive)
	f := newLeadFixture(exec)

	lead, _ := f.svc.Create(context.Background(), exec, ports.CreateLeadInput{Name: "Acme", Email: "a@b.test"})

	if len(f.broadcaster.events) != 1 {
		t.Fatalf("expected 1 broadcast event, got %d", len(f.broadcaster.events))
	}
	ev := f.broadcaster.events[0]
	if ev.Type != domain.EventLeadCreated {
		t.Errorf("expected event %q, got %q", domain.EventLeadCreated, ev.Type)
	}
	if ev.LeadID != lead.ID {
		t.Error("event must carry the lead id")
	}
	wantRooms := map[string]bool{
		domain.RoomRole(domain.RoleAdmin):   false,
		domain.RoomRole(domain.RoleManager): false,
		domain.RoomLead(lead.ID):            false,
		domain.RoomUser(exec.ID):            false,
	}
	for _, room := range ev.Rooms {
		if _, ok := wantRooms[room]; ok {
			wantRooms[room] = true
		}
	}
	for room, seen := range wantRooms {
		if !seen {
			t.Errorf("expected event to target room %q", room)
		}
	}
}

func TestLeadService_Create_ValidationErrors(t *testing.T) {
	exec := testUser(domain.RoleSalesExecutive)
	f := newLeadFixture(exec)

	cases := []struct {
		name  string
		input ports.CreateLeadInput
	}{
		{"missing name", ports.CreateLeadInput{Email: "a@b.test"}},
		{"missing email", ports.CreateLeadInput{Name: "Acme"}},
		{"bad status", ports.CreateLeadInput{Name: "Acme", Email: "a@b.test", Status: "closed"}},
		{"negative value", ports.CreateLeadInput{Name: "Acme", Email: "a@b.test", EstimatedValue: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Create(context.Background(), exec, tc.input)
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if len(f.repo.leads) != 0 {
				t.Error("validation failure must not persist anything")
			}
		})
	}
}

func TestLeadService_Create_AuditFailureDoesNotFailMutation(t *testing.T) {
	exec := testUser(domain.RoleSalesExecutive)
	f := newLeadFixture(exec)
	f.activities.createErr = errors.New("activities table unavailable")

	lead, err := f.svc.Create(context.Background(), exec, ports.CreateLeadInput{Name: "Acme", Email: "a@b.test"})
	if err != nil {
		t.Fatalf("audit failure must not fail the create: %v", err)
	}
	if _, ok := f.repo.leads[lead.ID]; !ok {
		t.Error("lead must be persisted despite audit failure")
	}
}

// ---------------------------------------------------------------------------
// Get
// ---------------------------------------------------------------------------

func TestLeadService_Get_Policy(t *testing.T) {
	creator := testUser(domain.RoleSalesExecutive)
	stranger := testUser(domain.RoleSalesExecutive)
	manager := testUser(domain.RoleManager)
	f := newLeadFixture(creator, stranger, manager)

	lead := f.seedLead(creator.ID, &creator.ID)

	if _, err := f.svc.Get(context.Background(), creator, lead.ID); err != nil {
		t.Errorf("creator must see own lead: %v", err)
	}
	if _, err := f.svc.Get(context.Background(), manager, lead.ID); err != nil {
		t.Errorf("manager must see any lead: %v", err)
	}
	if _, err := f.svc.Get(context.Background(), stranger, lead.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("unrelated executive must get ErrForbidden, got %v", err)
	}
	if _, err := f.svc.Get(context.Background(), manager, uuid.New()); !errors.Is(err, domain.ErrLeadNotFound) {
		t.Errorf("missing lead must yield ErrLeadNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

func TestLeadService_Update_StatusChangeEmitsAuditAndNotification(t *testing.T) {
	exec := testUser(domain.RoleSalesExecutive)
	manager := testUser(domain.RoleManager)
	f := newLeadFixture(exec, manager)
	lead := f.seedLead(exec.ID, &exec.ID)

	status := domain.StatusQualified
	updated, err := f.svc.Update(context.Background(), manager, lead.ID, ports.UpdateLeadInput{Status: &status})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != domain.StatusQualified {
		t.Errorf("expected status %q, got %q", domain.StatusQualified, updated.Status)
	}

	audits := f.activities.byType(domain.ActivityStatusChange)
	if len(audits) != 1 {
		t.Fatalf("expected exactly 1 status_change audit, got %d", len(audits))
	}
	if audits[0].Metadata["oldStatus"] != string(domain.StatusNew) || audits[0].Metadata["newStatus"] != string(domain.StatusQualified) {
		t.Errorf("audit metadata wrong: %v", audits[0].Metadata)
	}

	if len(f.dispatcher.jobs) != 1 {
		t.Fatalf("expected 1 notification to the assignee, got %d", len(f.dispatcher.jobs))
	}
	if f.dispatcher.jobs[0].To != exec.Email {
		t.Errorf("notification recipient: expected %q, got %q", exec.Email, f.dispatcher.jobs[0].To)
	}
}

func TestLeadService_Update_NoStatusChangeNoAudit(t *testing.T) {
	exec := testUser(domain.RoleSalesExecutive)
	f := newLeadFixture(exec)
	lead := f.seedLead(exec.ID, &exec.ID)

	name := "Renamed"
	if _, err := f.svc.Update(context.Background(), exec, lead.ID, ports.UpdateLeadInput{Name: &name}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if n := len(f.activities.byType(domain.ActivityStatusChange)); n != 0 {
		t.Errorf("expected no status_change audits, got %d", n)
	}
	if n := len(f.dispatcher.jobs); n != 0 {
		t.Errorf("expected no notifications, got %d", n)
	}
}

func TestLeadService_Update_SameStatusValueNoAudit(t *testing.T) {
	exec := testUser(domain.RoleSalesExecutive)
	f := newLeadFixture(exec)
	lead := f.seedLead(exec.ID, &exec.ID)

	same := domain.StatusNew
	if _, err := f.svc.Update(context.Background(), exec, lead.ID, ports.UpdateLeadInput{Status: &same}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := len(f.activities.byType(domain.ActivityStatusChange)); n != 0 {
		t.Errorf("setting the status to its current value must not audit, got %d audits", n)
	}
}

func TestLeadService_Update_ReassignmentEmitsAuditAndNotifiesNewAssignee(t *testing.T) {
	exec := testUser(domain.RoleSalesExecutive)
	newAssignee := testUser(domain.RoleSalesExecutive)
	manager := testUser(domain.RoleManager)
	f := newLeadFixture(exec, newAssignee, manager)
	lead := f.seedLead(exec.ID, &exec.ID)

	updated, err := f.svc.Update(context.Background(), manager, lead.ID, ports.UpdateLeadInput{
		AssignedTo: ports.Set(newAssignee.ID),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.AssignedTo == nil || *updated.AssignedTo != newAssignee.ID {
		t.Fatal("assignee not applied")
	}

	audits := f.activities.byTitle(domain.AuditTitleLeadReassigned)
	if len(audits) != 1 {
		t.Fatalf("expected exactly 1 reassignment audit, got %d", len(audits))
	}
	if len(f.dispatcher.jobs) != 1 || f.dispatcher.jobs[0].To != newAssignee.Email {
		t.Errorf("expected 1 notification to the new assignee, got %+v", f.dispatcher.jobs)
	}
}

func TestLeadService_Update_ExplicitNullClearsField(t *testing.T) {
	exec := testUser(domain.RoleSalesExecutive)
	f := newLeadFixture(exec)
	lead := f.seedLead(exec.ID, &exec.ID)
	phone := "+1 555 0100"
	lead.Phone = &phone

	// Explicit null clears; an absent field stays untouched.
	updated, err := f.svc.Update(context.Background(), exec, lead.ID, ports.UpdateLeadInput{
		Phone: ports.Clear[string](),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Phone != nil {
		t.Error("explicit null must clear the phone")
	}
	if updated.Email != lead.Email {
		t.Error("absent fields must stay untouched")
	}

	// Unassignment via explicit null.
	updated, err = f.svc.Update(context.Background(), exec, lead.ID, ports.UpdateLeadInput{
		AssignedTo: ports.Clear[uuid.UUID](),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.AssignedTo != nil {
		t.Error("explicit null must clear the assignee")
	}
}

func TestLeadService_Update_ForbiddenForUnrelatedExecutive(t *testing.T) {
	creator := testUser(domain.RoleSalesExecutive)
	stranger := testUser(domain.RoleSalesExecutive)
	f := newLeadFixture(creator, stranger)
	lead := f.seedLead(creator.ID, &creator.ID)

	name := "hijack"
	_, err := f.svc.Update(context.Background(), stranger, lead.ID, ports.UpdateLeadInput{Name: &name})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Delete
// ---------------------------------------------------------------------------

func TestLeadService_Delete_RoleOnly(t *testing.T) {
	exec := testUser(domain.RoleSalesExecutive)
	manager := testUser(domain.RoleManager)
	f := newLeadFixture(exec, manager)
	lead := f.seedLead(exec.ID, &exec.ID)

	// Even the creator cannot delete as an executive; the check runs
	// before the fetch.
	if err := f.svc.Delete(context.Background(), exec, lead.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("executive delete: expected ErrForbidden, got %v", err)
	}
	if err := f.svc.Delete(context.Background(), exec, uuid.New()); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("executive delete of missing lead must still be ErrForbidden, got %v", err)
	}

	if err := f.svc.Delete(context.Background(), manager, lead.ID); err != nil {
		t.Fatalf("manager delete failed: %v", err)
	}
	if _, ok := f.repo.leads[lead.ID]; ok {
		t.Error("lead must be removed")
	}

	last := f.broadcaster.events[len(f.broadcaster.events)-1]
	if last.Type != domain.EventLeadDeleted {
		t.Errorf("expected %q broadcast, got %q", domain.EventLeadDeleted, last.Type)
	}
}

// ---------------------------------------------------------------------------
// List
// ---------------------------------------------------------------------------

func TestLeadService_List_ScopesExecutives(t *testing.T) {
	exec := testUser(domain.RoleSalesExecutive)
	other := testUser(domain.RoleSalesExecutive)
	manager := testUser(domain.RoleManager)
	f := newLeadFixture(exec, other, manager)

	f.seedLead(exec.ID, &exec.ID)     // created + assigned to exec
	f.seedLead(other.ID, &exec.ID)    // assigned to exec
	f.seedLead(other.ID, &other.ID)   // invisible to exec
	f.seedLead(manager.ID, nil)       // unassigned, invisible to exec

	res, err := f.svc.List(context.Background(), exec, ports.ListLeadsFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 2 {
		t.Errorf("executive: expected 2 visible leads, got %d", res.Total)
	}
	for _, lead := range res.Items {
		ok := (lead.AssignedTo != nil && *lead.AssignedTo == exec.ID) || lead.CreatedBy == exec.ID
		if !ok {
			t.Errorf("lead %s leaked outside the executive scope", lead.ID)
		}
	}

	res, err = f.svc.List(context.Background(), manager, ports.ListLeadsFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 4 {
		t.Errorf("manager: expected all 4 leads, got %d", res.Total)
	}
}

func TestLeadService_List_ClampsPaging(t *testing.T) {
	manager := testUser(domain.RoleManager)
	f := newLeadFixture(manager)

	res, err := f.svc.List(context.Background(), manager, ports.ListLeadsFilter{Page: -3, Limit: 0})
	if err != nil {
		t.Fatal(err)
	}
	if res.Page != 1 {
		t.Errorf("page clamped: expected 1, got %d", res.Page)
	}
	if res.Limit != defaultPageLimit {
		t.Errorf("limit defaulted: expected %d, got %d", defaultPageLimit, res.Limit)
	}

	res, _ = f.svc.List(context.Background(), manager, ports.ListLeadsFilter{Page: 1, Limit: 9999})
	if res.Limit != maxPageLimit {
		t.Errorf("limit capped: expected %d, got %d", maxPageLimit, res.Limit)
	}
}

func TestLeadService_List_PaginationMath(t *testing.T) {
	manager := testUser(domain.RoleManager)
	f := newLeadFixture(manager)
	for i := 0; i < 5; i++ {
		f.seedLead(manager.ID, nil)
	}

	res, err := f.svc.List(context.Background(), manager, ports.ListLeadsFilter{Page: 1, Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 5 || res.TotalPages != 3 || len(res.Items) != 2 {
		t.Errorf("pagination: total=%d pages=%d items=%d", res.Total, res.TotalPages, len(res.Items))
	}
}

func TestLeadService_List_Search(t *testing.T) {
	manager := testUser(domain.RoleManager)
	f := newLeadFixture(manager)

	acme := f.seedLead(manager.ID, nil)
	acme.Name = "Deal with ACME"
	company := "Globex"
	other := f.seedLead(manager.ID, nil)
	other.Name = "Other deal"
	other.Company = &company

	res, err := f.svc.List(context.Background(), manager, ports.ListLeadsFilter{Search: "acme"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 1 {
		t.Fatalf("search: expected 1 match, got %d", res.Total)
	}
	if res.Items[0].ID != acme.ID {
		t.Error("search matched the wrong lead")
	}
}
