package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/baladiya/complaint-service/internal/authz"
	"github.com/baladiya/complaint-service/internal/config"
	"github.com/baladiya/complaint-service/internal/domain"
	"github.com/baladiya/complaint-service/internal/events"
	"github.com/baladiya/complaint-service/internal/geo"
	"github.com/baladiya/complaint-service/internal/repository"
	apperrors "github.com/baladiya/complaint-service/pkg/util"
)

type fakeComplaintRepo struct {
	byID   map[string]*domain.Complaint
	nextID int
}

func newFakeComplaintRepo() *fakeComplaintRepo {
	return &fakeComplaintRepo{byID: map[string]*domain.Complaint{}}
}

func (f *fakeComplaintRepo) Create(_ context.Context, c *domain.Complaint) error {
	f.nextID++
	c.ID = fmt.Sprintf("c-%d", f.nextID)
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	stored := *c
	f.byID[c.ID] = &stored
	return nil
}

func (f *fakeComplaintRepo) Update(_ context.Context, c *domain.Complaint) error {
	if _, ok := f.byID[c.ID]; !ok {
		return pgx.ErrNoRows
	}
	c.UpdatedAt = time.Now()
	stored := *c
	f.byID[c.ID] = &stored
	return nil
}

func (f *fakeComplaintRepo) GetByID(_ context.Context, id string) (*domain.Complaint, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *c
	return &copied, nil
}

func (f *fakeComplaintRepo) GetByReference(_ context.Context, reference string) (*domain.Complaint, error) {
	for _, c := range f.byID {
		if c.Reference == reference {
			copied := *c
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeComplaintRepo) ListWithFilter(_ context.Context, filter repository.ComplaintFilter) ([]domain.Complaint, error) {
	var out []domain.Complaint
	for _, c := range f.byID {
		if filter.CreatedBy != nil && c.CreatedBy != *filter.CreatedBy {
			continue
		}
		if filter.Municipality != nil && c.Municipality != *filter.Municipality {
			continue
		}
		if filter.AssignedToID != nil && (c.AssignedToID == nil || *c.AssignedToID != *filter.AssignedToID) {
			continue
		}
		if filter.AssignedDepartmentID != nil && (c.AssignedDepartmentID == nil || *c.AssignedDepartmentID != *filter.AssignedDepartmentID) {
			continue
		}
		if len(filter.Statuses) > 0 {
			match := false
			for _, status := range filter.Statuses {
				if c.Status == status {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, *c)
	}
	return out, nil
}

type fakeCommentRepo struct {
	comments []domain.Comment
	nextID   int
}

func (f *fakeCommentRepo) Create(_ context.Context, comment *domain.Comment) error {
	f.nextID++
	comment.ID = fmt.Sprintf("cm-%d", f.nextID)
	comment.CreatedAt = time.Now()
	f.comments = append(f.comments, *comment)
	return nil
}

func (f *fakeCommentRepo) ListByComplaint(_ context.Context, complaintID string) ([]domain.Comment, error) {
	var out []domain.Comment
	for _, c := range f.comments {
		if c.ComplaintID == complaintID {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeHistoryRepo struct {
	entries []domain.ComplaintHistory
	failing bool
}

func (f *fakeHistoryRepo) Create(_ context.Context, history *domain.ComplaintHistory) error {
	if f.failing {
		return errors.New("history store unavailable")
	}
	f.entries = append(f.entries, *history)
	return nil
}

func (f *fakeHistoryRepo) ListByComplaint(_ context.Context, complaintID string, _, _ int) ([]domain.ComplaintHistory, error) {
	var out []domain.ComplaintHistory
	for _, e := range f.entries {
		if e.ComplaintID == complaintID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	byID map[string]*domain.User
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	f.byID[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	f.byID[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range f.byID {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) List(_ context.Context, _ repository.UserFilter) ([]domain.User, error) {
	var out []domain.User
	for _, user := range f.byID {
		out = append(out, *user)
	}
	return out, nil
}

type fakeDepartmentRepo struct {
	byID          map[string]*domain.Department
	byResponsable map[string]*domain.Department
}

func newFakeDepartmentRepo() *fakeDepartmentRepo {
	return &fakeDepartmentRepo{byID: map[string]*domain.Department{}, byResponsable: map[string]*domain.Department{}}
}

func (f *fakeDepartmentRepo) Create(_ context.Context, dept *domain.Department) error {
	f.byID[dept.ID] = dept
	return nil
}

func (f *fakeDepartmentRepo) Update(_ context.Context, dept *domain.Department) error {
	f.byID[dept.ID] = dept
	return nil
}

func (f *fakeDepartmentRepo) GetByID(_ context.Context, id string) (*domain.Department, error) {
	dept, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return dept, nil
}

func (f *fakeDepartmentRepo) GetByResponsable(_ context.Context, userID string) (*domain.Department, error) {
	return f.byResponsable[userID], nil
}

func (f *fakeDepartmentRepo) ListActive(_ context.Context) ([]domain.Department, error) {
	var out []domain.Department
	for _, dept := range f.byID {
		out = append(out, *dept)
	}
	return out, nil
}

type fixture struct {
	service     *ComplaintService
	complaints  *fakeComplaintRepo
	comments    *fakeCommentRepo
	history     *fakeHistoryRepo
	users       *fakeUserRepo
	departments *fakeDepartmentRepo
	dispatcher  events.Dispatcher

	citizen *domain.User
	agent   *domain.User
	admin   *domain.User
	tech    *domain.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		complaints:  newFakeComplaintRepo(),
		comments:    &fakeCommentRepo{},
		history:     &fakeHistoryRepo{},
		users:       &fakeUserRepo{byID: map[string]*domain.User{}},
		departments: newFakeDepartmentRepo(),
		dispatcher:  events.NewInMemoryDispatcher(),
	}
	f.citizen = &domain.User{ID: "cit-1", Name: "Amira", Email: "amira@example.com", Phone: "21600001", Role: domain.RoleCitizen, Active: true}
	f.agent = &domain.User{ID: "agent-1", Name: "Karim", Role: domain.RoleMunicipalAgent, Municipality: "La Marsa", Active: true}
	f.admin = &domain.User{ID: "admin-1", Name: "Root", Role: domain.RoleAdmin, Active: true}
	f.tech = &domain.User{ID: "tech-1", Name: "Sami", Role: domain.RoleTechnician, Active: true}
	for _, user := range []*domain.User{f.citizen, f.agent, f.admin, f.tech} {
		f.users.byID[user.ID] = user
	}

	cfg := config.ComplaintConfig{
		Categories:     []string{"ROAD", "LIGHTING", "WASTE"},
		DailyLimit:     5,
		RateLimitedKey: "complaints:daily",
	}
	directory := geo.NewDirectory(map[string][]string{
		"Tunis": {"La Marsa", "Carthage"},
	})

	f.service = NewComplaintService(cfg, ComplaintDependencies{
		ComplaintRepo:  f.complaints,
		CommentRepo:    f.comments,
		HistoryRepo:    f.history,
		UserRepo:       f.users,
		DepartmentRepo: f.departments,
		Policy:         authz.NewPolicy(f.departments),
		Geo:            directory,
		Dispatcher:     f.dispatcher,
	})
	return f
}

func (f *fixture) fileComplaint(t *testing.T, input ComplaintCreateInput) *domain.Complaint {
	t.Helper()
	if input.Title == "" {
		input.Title = "Broken street light"
	}
	if input.Description == "" {
		input.Description = "The light at the corner has been out for a week."
	}
	if input.Category == "" {
		input.Category = "LIGHTING"
	}
	complaint, err := f.service.CreateComplaint(context.Background(), f.citizen, input)
	if err != nil {
		t.Fatalf("CreateComplaint() error: %v", err)
	}
	return complaint
}

func errorCode(err error) string {
	var domainErr *apperrors.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}

func TestCreateComplaintDerivesScoreAndReference(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	complaint := f.fileComplaint(t, ComplaintCreateInput{
		Urgency:      domain.UrgencyHigh,
		Governorate:  "Tunis",
		Municipality: "La Marsa",
	})

	if complaint.Status != domain.ComplaintStatusSubmitted {
		t.Errorf("status = %s, want SUBMITTED", complaint.Status)
	}
	if complaint.PriorityScore != 8 {
		t.Errorf("priority score = %d, want 8", complaint.PriorityScore)
	}
	if len(complaint.Reference) != 12 || complaint.Reference[:4] != "CMP-" {
		t.Errorf("reference = %q, want CMP- prefix with 8 characters", complaint.Reference)
	}
}

func TestCreateComplaintDefaultsUrgencyToMedium(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	complaint := f.fileComplaint(t, ComplaintCreateInput{})
	if complaint.Urgency != domain.UrgencyMedium {
		t.Errorf("urgency = %s, want MEDIUM", complaint.Urgency)
	}
	if complaint.PriorityScore != 5 {
		t.Errorf("priority score = %d, want 5", complaint.PriorityScore)
	}
}

func TestCreateComplaintRejectsUnknownCategoryAndGeography(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.service.CreateComplaint(context.Background(), f.citizen, ComplaintCreateInput{
		Title: "t", Description: "d", Category: "TELEPATHY",
	})
	if errorCode(err) != "VALIDATION_FAILED" {
		t.Errorf("unknown category error = %v, want VALIDATION_FAILED", err)
	}

	_, err = f.service.CreateComplaint(context.Background(), f.citizen, ComplaintCreateInput{
		Title: "t", Description: "d", Category: "ROAD", Governorate: "Atlantis",
	})
	if errorCode(err) != "VALIDATION_FAILED" {
		t.Errorf("unknown governorate error = %v, want VALIDATION_FAILED", err)
	}

	_, err = f.service.CreateComplaint(context.Background(), f.citizen, ComplaintCreateInput{
		Title: "t", Description: "d", Category: "ROAD", Governorate: "Tunis", Municipality: "Sakiet Ezzit",
	})
	if errorCode(err) != "VALIDATION_FAILED" {
		t.Errorf("mismatched municipality error = %v, want VALIDATION_FAILED", err)
	}
}

func TestStatusTransitionRejectsUnknownStatus(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	complaint := f.fileComplaint(t, ComplaintCreateInput{})

	_, err := f.service.ApplyStatusTransition(context.Background(), f.agent, complaint.ID, "ESCALATED", nil)
	if errorCode(err) != "INVALID_STATUS" {
		t.Errorf("error = %v, want INVALID_STATUS", err)
	}
}

func TestStatusTransitionRecordsRejectionReason(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	complaint := f.fileComplaint(t, ComplaintCreateInput{})

	reason := "duplicate of an existing report"
	updated, err := f.service.ApplyStatusTransition(context.Background(), f.agent, complaint.ID, domain.ComplaintStatusRejected, &reason)
	if err != nil {
		t.Fatalf("ApplyStatusTransition() error: %v", err)
	}
	if updated.RejectionReason == nil || *updated.RejectionReason != reason {
		t.Errorf("rejection reason = %v, want %q", updated.RejectionReason, reason)
	}
	if len(f.history.entries) != 1 || f.history.entries[0].ChangeType != domain.ChangeTypeStatus {
		t.Errorf("history entries = %+v, want one STATUS_CHANGE", f.history.entries)
	}
}

func TestResolvedAtStampedExactlyOnce(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	complaint := f.fileComplaint(t, ComplaintCreateInput{})

	first := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	f.service.now = func() time.Time { return first }

	resolved, err := f.service.ApplyStatusTransition(context.Background(), f.agent, complaint.ID, domain.ComplaintStatusResolved, nil)
	if err != nil {
		t.Fatalf("ApplyStatusTransition() error: %v", err)
	}
	if resolved.ResolvedAt == nil || !resolved.ResolvedAt.Equal(first) {
		t.Fatalf("resolved_at = %v, want %v", resolved.ResolvedAt, first)
	}

	// Reopen, then resolve again later. The original stamp must survive.
	if _, err := f.service.ApplyStatusTransition(context.Background(), f.agent, complaint.ID, domain.ComplaintStatusInProgress, nil); err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	f.service.now = func() time.Time { return first.Add(48 * time.Hour) }
	again, err := f.service.ApplyStatusTransition(context.Background(), f.agent, complaint.ID, domain.ComplaintStatusResolved, nil)
	if err != nil {
		t.Fatalf("second resolve error: %v", err)
	}
	if again.ResolvedAt == nil || !again.ResolvedAt.Equal(first) {
		t.Errorf("resolved_at after second resolve = %v, want original %v", again.ResolvedAt, first)
	}
}

func TestDirectJumpSubmittedToResolvedAllowed(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	complaint := f.fileComplaint(t, ComplaintCreateInput{})

	resolved, err := f.service.ApplyStatusTransition(context.Background(), f.agent, complaint.ID, domain.ComplaintStatusResolved, nil)
	if err != nil {
		t.Fatalf("ApplyStatusTransition() error: %v", err)
	}
	if resolved.Status != domain.ComplaintStatusResolved {
		t.Errorf("status = %s, want RESOLVED", resolved.Status)
	}
}

func TestTechnicianAssignmentValidatesRole(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	complaint := f.fileComplaint(t, ComplaintCreateInput{})

	_, err := f.service.ApplyTechnicianAssignment(context.Background(), f.agent, complaint.ID, "nobody")
	if errorCode(err) != "INVALID_ASSIGNEE" {
		t.Errorf("missing user error = %v, want INVALID_ASSIGNEE", err)
	}

	_, err = f.service.ApplyTechnicianAssignment(context.Background(), f.agent, complaint.ID, f.citizen.ID)
	if errorCode(err) != "INVALID_ASSIGNEE" {
		t.Errorf("citizen assignee error = %v, want INVALID_ASSIGNEE", err)
	}

	// Failed assignments leave the record untouched.
	current, err := f.complaints.GetByID(context.Background(), complaint.ID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if current.AssignedToID != nil {
		t.Errorf("assigned_to_id = %v after failed assignments, want nil", current.AssignedToID)
	}

	assigned, err := f.service.ApplyTechnicianAssignment(context.Background(), f.agent, complaint.ID, f.tech.ID)
	if err != nil {
		t.Fatalf("ApplyTechnicianAssignment() error: %v", err)
	}
	if assigned.AssignedToID == nil || *assigned.AssignedToID != f.tech.ID {
		t.Errorf("assigned_to_id = %v, want %s", assigned.AssignedToID, f.tech.ID)
	}
}

func TestDepartmentAssignmentAutoAdvancesSubmitted(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	complaint := f.fileComplaint(t, ComplaintCreateInput{})
	f.departments.byID["dep-1"] = &domain.Department{ID: "dep-1", Name: "Roads", Municipality: "La Marsa"}

	updated, err := f.service.ApplyDepartmentAssignment(context.Background(), f.agent, complaint.ID, "dep-1")
	if err != nil {
		t.Fatalf("ApplyDepartmentAssignment() error: %v", err)
	}
	if updated.Status != domain.ComplaintStatusValidated {
		t.Errorf("status = %s, want VALIDATED after assignment from SUBMITTED", updated.Status)
	}
	if updated.AssignedDepartmentID == nil || *updated.AssignedDepartmentID != "dep-1" {
		t.Errorf("assigned_department_id = %v, want dep-1", updated.AssignedDepartmentID)
	}

	// Assigning again from a later state must not regress the status.
	if _, err := f.service.ApplyStatusTransition(context.Background(), f.agent, complaint.ID, domain.ComplaintStatusInProgress, nil); err != nil {
		t.Fatalf("transition error: %v", err)
	}
	f.departments.byID["dep-2"] = &domain.Department{ID: "dep-2", Name: "Lighting", Municipality: "La Marsa"}
	updated, err = f.service.ApplyDepartmentAssignment(context.Background(), f.agent, complaint.ID, "dep-2")
	if err != nil {
		t.Fatalf("second assignment error: %v", err)
	}
	if updated.Status != domain.ComplaintStatusInProgress {
		t.Errorf("status = %s, want IN_PROGRESS preserved", updated.Status)
	}

	_, err = f.service.ApplyDepartmentAssignment(context.Background(), f.agent, complaint.ID, "dep-missing")
	if errorCode(err) != "INVALID_DEPARTMENT" {
		t.Errorf("missing department error = %v, want INVALID_DEPARTMENT", err)
	}
}

func TestPriorityUpdateExplicitScoreWins(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	complaint := f.fileComplaint(t, ComplaintCreateInput{})

	urgency := domain.UrgencyUrgent
	updated, err := f.service.ApplyPriorityUpdate(context.Background(), f.agent, complaint.ID, &urgency, nil)
	if err != nil {
		t.Fatalf("ApplyPriorityUpdate() error: %v", err)
	}
	if updated.PriorityScore != 10 {
		t.Errorf("derived score = %d, want 10", updated.PriorityScore)
	}

	explicit := 42
	updated, err = f.service.ApplyPriorityUpdate(context.Background(), f.agent, complaint.ID, &urgency, &explicit)
	if err != nil {
		t.Fatalf("ApplyPriorityUpdate() error: %v", err)
	}
	if updated.PriorityScore != 42 {
		t.Errorf("explicit score = %d, want 42 stored as-is", updated.PriorityScore)
	}
}

func TestCitizenCannotMutateOwnComplaint(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	complaint := f.fileComplaint(t, ComplaintCreateInput{})

	_, err := f.service.ApplyStatusTransition(context.Background(), f.citizen, complaint.ID, domain.ComplaintStatusResolved, nil)
	if errorCode(err) != "FORBIDDEN" {
		t.Errorf("citizen status change error = %v, want FORBIDDEN", err)
	}

	urgency := domain.UrgencyLow
	_, err = f.service.ApplyPriorityUpdate(context.Background(), f.citizen, complaint.ID, &urgency, nil)
	if errorCode(err) != "FORBIDDEN" {
		t.Errorf("citizen priority change error = %v, want FORBIDDEN", err)
	}
}

func TestGetComplaintRedactsAnonymousReporter(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	complaint := f.fileComplaint(t, ComplaintCreateInput{IsAnonymous: true})

	view, err := f.service.GetComplaint(context.Background(), f.agent, complaint.ID)
	if err != nil {
		t.Fatalf("GetComplaint() error: %v", err)
	}
	if view.Reporter != nil {
		t.Errorf("reporter = %+v for anonymous complaint, want nil", view.Reporter)
	}

	own, err := f.service.GetComplaint(context.Background(), f.citizen, complaint.ID)
	if err != nil {
		t.Fatalf("GetComplaint() owner error: %v", err)
	}
	if own.Reporter == nil || own.Reporter.Email != f.citizen.Email {
		t.Errorf("owner view reporter = %+v, want full identity", own.Reporter)
	}
}

func TestGetComplaintTechnicianSeesNameOnly(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	complaint := f.fileComplaint(t, ComplaintCreateInput{})
	if _, err := f.service.ApplyTechnicianAssignment(context.Background(), f.agent, complaint.ID, f.tech.ID); err != nil {
		t.Fatalf("assignment error: %v", err)
	}

	view, err := f.service.GetComplaint(context.Background(), f.tech, complaint.ID)
	if err != nil {
		t.Fatalf("GetComplaint() error: %v", err)
	}
	if view.Reporter == nil || view.Reporter.Name == "" {
		t.Fatalf("reporter = %+v, want name visible", view.Reporter)
	}
	if view.Reporter.Email != "" || view.Reporter.Phone != "" {
		t.Errorf("reporter contact = %q/%q, want empty for technician", view.Reporter.Email, view.Reporter.Phone)
	}
}

func TestListComplaintsScopesByRole(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	mine := f.fileComplaint(t, ComplaintCreateInput{Governorate: "Tunis", Municipality: "La Marsa"})
	other := &domain.User{ID: "cit-2", Role: domain.RoleCitizen, Active: true}
	f.users.byID[other.ID] = other
	elsewhere, err := f.service.CreateComplaint(context.Background(), other, ComplaintCreateInput{
		Title: "Pothole", Description: "Deep pothole on the main road.", Category: "ROAD",
		Governorate: "Tunis", Municipality: "Carthage",
	})
	if err != nil {
		t.Fatalf("CreateComplaint() error: %v", err)
	}

	listed, err := f.service.ListComplaints(context.Background(), f.citizen, ComplaintListFilter{})
	if err != nil {
		t.Fatalf("citizen list error: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != mine.ID {
		t.Errorf("citizen list = %+v, want only own complaint", listed)
	}

	listed, err = f.service.ListComplaints(context.Background(), f.agent, ComplaintListFilter{})
	if err != nil {
		t.Fatalf("agent list error: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != mine.ID {
		t.Errorf("agent list = %+v, want La Marsa complaints only", listed)
	}

	listed, err = f.service.ListComplaints(context.Background(), f.admin, ComplaintListFilter{})
	if err != nil {
		t.Fatalf("admin list error: %v", err)
	}
	if len(listed) != 2 {
		t.Errorf("admin list length = %d, want 2", len(listed))
	}
	_ = elsewhere
}

func TestListComplaintsManagerQueueHidesSubmitted(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	manager := &domain.User{ID: "mgr-1", Role: domain.RoleDepartmentManager, Active: true}
	f.users.byID[manager.ID] = manager
	dept := &domain.Department{ID: "dep-1", Name: "Roads"}
	f.departments.byID[dept.ID] = dept
	f.departments.byResponsable[manager.ID] = dept

	assigned := f.fileComplaint(t, ComplaintCreateInput{})
	if _, err := f.service.ApplyDepartmentAssignment(context.Background(), f.agent, assigned.ID, dept.ID); err != nil {
		t.Fatalf("assignment error: %v", err)
	}
	submitted := f.fileComplaint(t, ComplaintCreateInput{})
	deptID := dept.ID
	stored := f.complaints.byID[submitted.ID]
	stored.AssignedDepartmentID = &deptID // still SUBMITTED

	listed, err := f.service.ListComplaints(context.Background(), manager, ComplaintListFilter{})
	if err != nil {
		t.Fatalf("manager list error: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != assigned.ID {
		t.Errorf("manager queue = %+v, want only the VALIDATED complaint", listed)
	}

	orphan := &domain.User{ID: "mgr-2", Role: domain.RoleDepartmentManager, Active: true}
	f.users.byID[orphan.ID] = orphan
	if _, err := f.service.ListComplaints(context.Background(), orphan, ComplaintListFilter{}); errorCode(err) != "FORBIDDEN" {
		t.Errorf("manager without department list error = %v, want FORBIDDEN", err)
	}
}

func TestListComplaintsManagerHiddenStatusFilterReturnsNothing(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	manager := &domain.User{ID: "mgr-1", Role: domain.RoleDepartmentManager, Active: true}
	f.users.byID[manager.ID] = manager
	dept := &domain.Department{ID: "dep-1", Name: "Roads"}
	f.departments.byID[dept.ID] = dept
	f.departments.byResponsable[manager.ID] = dept

	complaint := f.fileComplaint(t, ComplaintCreateInput{})
	if _, err := f.service.ApplyDepartmentAssignment(context.Background(), f.agent, complaint.ID, dept.ID); err != nil {
		t.Fatalf("assignment error: %v", err)
	}

	// The queue holds one VALIDATED complaint. A filter naming only states
	// hidden from the manager queue must come back empty, not fall back to
	// the full visible set.
	for _, status := range []domain.ComplaintStatus{domain.ComplaintStatusRejected, domain.ComplaintStatusSubmitted} {
		listed, err := f.service.ListComplaints(context.Background(), manager, ComplaintListFilter{
			Statuses: []domain.ComplaintStatus{status},
		})
		if err != nil {
			t.Fatalf("manager list with %s filter error: %v", status, err)
		}
		if len(listed) != 0 {
			t.Errorf("filter %s returned %d complaints, want none", status, len(listed))
		}
	}

	// A mixed filter keeps only the visible member.
	listed, err := f.service.ListComplaints(context.Background(), manager, ComplaintListFilter{
		Statuses: []domain.ComplaintStatus{domain.ComplaintStatusRejected, domain.ComplaintStatusValidated},
	})
	if err != nil {
		t.Fatalf("manager mixed filter error: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != complaint.ID {
		t.Errorf("mixed filter = %+v, want the VALIDATED complaint only", listed)
	}
}

func TestHistoryFailurePropagates(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	complaint := f.fileComplaint(t, ComplaintCreateInput{})
	f.history.failing = true

	_, err := f.service.ApplyStatusTransition(context.Background(), f.agent, complaint.ID, domain.ComplaintStatusValidated, nil)
	if err == nil {
		t.Fatal("ApplyStatusTransition() succeeded despite history store failure")
	}
}

func TestFailingNotifierDoesNotFailMutation(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.dispatcher.Subscribe(events.EventComplaintStatusChanged, func(_ context.Context, _ events.Event) error {
		return errors.New("smtp down")
	})
	complaint := f.fileComplaint(t, ComplaintCreateInput{})

	updated, err := f.service.ApplyStatusTransition(context.Background(), f.agent, complaint.ID, domain.ComplaintStatusValidated, nil)
	if err != nil {
		t.Fatalf("ApplyStatusTransition() error: %v", err)
	}
	if updated.Status != domain.ComplaintStatusValidated {
		t.Errorf("status = %s, want VALIDATED despite notifier failure", updated.Status)
	}
}

func TestAddCommentRequiresBodyAndAccess(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	complaint := f.fileComplaint(t, ComplaintCreateInput{})

	if _, err := f.service.AddComment(context.Background(), f.citizen, complaint.ID, "   "); errorCode(err) != "VALIDATION_FAILED" {
		t.Errorf("blank body error = %v, want VALIDATION_FAILED", err)
	}

	comment, err := f.service.AddComment(context.Background(), f.citizen, complaint.ID, "Any update on this?")
	if err != nil {
		t.Fatalf("AddComment() error: %v", err)
	}
	if comment.AuthorID != f.citizen.ID {
		t.Errorf("author = %s, want %s", comment.AuthorID, f.citizen.ID)
	}

	stranger := &domain.User{ID: "cit-9", Role: domain.RoleCitizen, Active: true}
	f.users.byID[stranger.ID] = stranger
	if _, err := f.service.AddComment(context.Background(), stranger, complaint.ID, "nosy"); errorCode(err) != "FORBIDDEN" {
		t.Errorf("stranger comment error = %v, want FORBIDDEN", err)
	}
}

func TestUnknownComplaintIsNotFound(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.service.GetComplaint(context.Background(), f.admin, "missing")
	if errorCode(err) != "NOT_FOUND" {
		t.Errorf("error = %v, want NOT_FOUND", err)
	}
}
