package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/baladiya/complaint-service/internal/authz"
	"github.com/baladiya/complaint-service/internal/config"
	"github.com/baladiya/complaint-service/internal/domain"
	"github.com/baladiya/complaint-service/internal/events"
	"github.com/baladiya/complaint-service/internal/geo"
	"github.com/baladiya/complaint-service/internal/repository"
	apperrors "github.com/baladiya/complaint-service/pkg/util"
)

// ComplaintService coordinates the complaint lifecycle: intake, the status
// workflow, assignments, priority and comments. Every mutating operation
// authorizes against the role policy before touching the record.
type ComplaintService struct {
	complaints  repository.ComplaintRepository
	comments    repository.CommentRepository
	history     repository.HistoryRepository
	users       repository.UserRepository
	departments repository.DepartmentRepository
	policy      *authz.Policy
	geo         *geo.Directory
	dispatcher  events.Dispatcher
	cfg         config.ComplaintConfig
	now         func() time.Time
}

// ComplaintDependencies bundles collaborators for the complaint service.
type ComplaintDependencies struct {
	ComplaintRepo  repository.ComplaintRepository
	CommentRepo    repository.CommentRepository
	HistoryRepo    repository.HistoryRepository
	UserRepo       repository.UserRepository
	DepartmentRepo repository.DepartmentRepository
	Policy         *authz.Policy
	Geo            *geo.Directory
	Dispatcher     events.Dispatcher
}

// ComplaintCreateInput describes complaint intake payload.
type ComplaintCreateInput struct {
	Title        string
	Description  string
	Category     string
	Urgency      domain.Urgency
	Governorate  string
	Municipality string
	IsAnonymous  bool
}

// ComplaintListFilter describes listing filters; role scoping is applied
// on top of it.
type ComplaintListFilter struct {
	Statuses     []domain.ComplaintStatus
	Categories   []string
	Municipality *string
	Governorate  *string
	SearchTerm   *string
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
	Limit        int
	Offset       int
}

// ReporterInfo carries the identity fields a viewer may see.
type ReporterInfo struct {
	ID    string
	Name  string
	Email string
	Phone string
}

// ComplaintView is a complaint with its thread and the redacted reporter.
type ComplaintView struct {
	Complaint *domain.Complaint
	Reporter  *ReporterInfo
	Comments  []domain.Comment
}

// NewComplaintService constructs the service.
func NewComplaintService(cfg config.ComplaintConfig, deps ComplaintDependencies) *ComplaintService {
	return &ComplaintService{
		complaints:  deps.ComplaintRepo,
		comments:    deps.CommentRepo,
		history:     deps.HistoryRepo,
		users:       deps.UserRepo,
		departments: deps.DepartmentRepo,
		policy:      deps.Policy,
		geo:         deps.Geo,
		dispatcher:  deps.Dispatcher,
		cfg:         cfg,
		now:         time.Now,
	}
}

// CreateComplaint files a complaint for a citizen. The priority score is
// derived from urgency; callers cannot set it at intake.
func (s *ComplaintService) CreateComplaint(ctx context.Context, citizen *domain.User, input ComplaintCreateInput) (*domain.Complaint, error) {
	if citizen == nil {
		return nil, apperrors.NewUnauthorized("citizen required")
	}
	if !s.cfg.HasCategory(input.Category) {
		return nil, apperrors.NewValidationError("unknown category", map[string]any{"category": input.Category})
	}
	if s.geo != nil && input.Governorate != "" {
		if _, ok := s.geo.Municipalities(input.Governorate); !ok {
			return nil, apperrors.NewValidationError("unknown governorate", map[string]any{"governorate": input.Governorate})
		}
		if input.Municipality != "" && !s.geo.HasMunicipality(input.Governorate, input.Municipality) {
			return nil, apperrors.NewValidationError("municipality not in governorate", map[string]any{
				"governorate":  input.Governorate,
				"municipality": input.Municipality,
			})
		}
	}

	urgency := input.Urgency
	if urgency == "" {
		urgency = domain.UrgencyMedium
	}

	complaint := &domain.Complaint{
		Reference:     generateReference(),
		CreatedBy:     citizen.ID,
		Title:         strings.TrimSpace(input.Title),
		Description:   strings.TrimSpace(input.Description),
		Category:      input.Category,
		Urgency:       urgency,
		PriorityScore: domain.PriorityScore(urgency),
		Status:        domain.ComplaintStatusSubmitted,
		Governorate:   input.Governorate,
		Municipality:  input.Municipality,
		IsAnonymous:   input.IsAnonymous,
	}

	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintCreated,
		ComplaintID: complaint.ID,
		ActorID:     citizen.ID,
		RecipientID: citizen.ID,
		Payload: events.ComplaintCreatedPayload{
			Reference:     complaint.Reference,
			Category:      complaint.Category,
			Urgency:       complaint.Urgency,
			PriorityScore: complaint.PriorityScore,
			Municipality:  complaint.Municipality,
		},
	})
	return complaint, nil
}

// GetComplaint fetches a complaint with its thread, enforcing single-record
// read access and reporter redaction for the viewer.
func (s *ComplaintService) GetComplaint(ctx context.Context, actor *domain.User, complaintID string) (*ComplaintView, error) {
	complaint, err := s.loadComplaint(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, complaint, authz.OpRead); err != nil {
		return nil, err
	}

	comments, err := s.comments.ListByComplaint(ctx, complaint.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	view := &ComplaintView{Complaint: complaint, Comments: comments}
	visibility := authz.ReporterView(actor, complaint)
	if visibility.ShowName {
		owner, err := s.users.GetByID(ctx, complaint.CreatedBy)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		info := &ReporterInfo{ID: owner.ID, Name: owner.Name}
		if visibility.ShowContact {
			info.Email = owner.Email
			info.Phone = owner.Phone
		}
		view.Reporter = info
	}
	return view, nil
}

// ListComplaints returns complaints visible to the actor, with the role's
// scope applied on top of the caller's filter.
func (s *ComplaintService) ListComplaints(ctx context.Context, actor *domain.User, filter ComplaintListFilter) ([]domain.Complaint, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("account required")
	}
	repoFilter := repository.ComplaintFilter{
		Statuses:     filter.Statuses,
		Categories:   filter.Categories,
		Municipality: filter.Municipality,
		Governorate:  filter.Governorate,
		SearchTerm:   filter.SearchTerm,
		CreatedFrom:  filter.CreatedFrom,
		CreatedTo:    filter.CreatedTo,
		Limit:        filter.Limit,
		Offset:       filter.Offset,
	}

	switch actor.Role {
	case domain.RoleAdmin:
		// unrestricted
	case domain.RoleCitizen:
		repoFilter.CreatedBy = &actor.ID
	case domain.RoleMunicipalAgent:
		if actor.Municipality != "" {
			municipality := actor.Municipality
			repoFilter.Municipality = &municipality
		}
	case domain.RoleTechnician:
		repoFilter.AssignedToID = &actor.ID
	case domain.RoleDepartmentManager:
		dept, err := s.departments.GetByResponsable(ctx, actor.ID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		if dept == nil {
			return nil, apperrors.NewForbidden("no department under your responsibility")
		}
		repoFilter.AssignedDepartmentID = &dept.ID
		statuses := managerListStatuses(filter.Statuses)
		if len(statuses) == 0 {
			// The request asked only for states hidden from manager list
			// views; an empty Statuses slice would mean no filter at all.
			return []domain.Complaint{}, nil
		}
		repoFilter.Statuses = statuses
	default:
		return nil, apperrors.NewForbidden("operation not permitted for this account")
	}

	result, err := s.complaints.ListWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

// ApplyStatusTransition moves a complaint to a new lifecycle state. Any
// member of the status enum is a legal target; the workflow permits direct
// jumps. REJECTED records the supplied reason, RESOLVED stamps resolved_at
// exactly once.
func (s *ComplaintService) ApplyStatusTransition(ctx context.Context, actor *domain.User, complaintID string, newStatus domain.ComplaintStatus, rejectionReason *string) (*domain.Complaint, error) {
	if !newStatus.Valid() {
		return nil, apperrors.NewInvalidStatus(string(newStatus))
	}
	complaint, err := s.loadComplaint(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, complaint, authz.OpUpdateStatus); err != nil {
		return nil, err
	}

	oldStatus := complaint.Status
	complaint.Status = newStatus
	if newStatus == domain.ComplaintStatusRejected {
		complaint.RejectionReason = rejectionReason
	}
	if newStatus == domain.ComplaintStatusResolved && complaint.ResolvedAt == nil {
		resolvedAt := s.now()
		complaint.ResolvedAt = &resolvedAt
	}

	if err := s.complaints.Update(ctx, complaint); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.recordHistory(ctx, actor, complaint.ID, domain.ChangeTypeStatus,
		map[string]any{"status": oldStatus},
		map[string]any{"status": newStatus}); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintStatusChanged,
		ComplaintID: complaint.ID,
		ActorID:     actor.ID,
		RecipientID: complaint.CreatedBy,
		Payload: events.ComplaintStatusChangedPayload{
			OldStatus:       oldStatus,
			NewStatus:       newStatus,
			RejectionReason: complaint.RejectionReason,
		},
	})
	return complaint, nil
}

// ApplyTechnicianAssignment assigns the complaint to a technician. The
// target must exist and hold the TECHNICIAN role.
func (s *ComplaintService) ApplyTechnicianAssignment(ctx context.Context, actor *domain.User, complaintID, assigneeID string) (*domain.Complaint, error) {
	complaint, err := s.loadComplaint(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, complaint, authz.OpAssignTechnician); err != nil {
		return nil, err
	}

	assignee, err := s.users.GetByID(ctx, assigneeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewInvalidAssignee(assigneeID)
		}
		return nil, apperrors.MapError(err)
	}
	if assignee.Role != domain.RoleTechnician {
		return nil, apperrors.NewInvalidAssignee(assigneeID)
	}

	oldAssignee := complaint.AssignedToID
	complaint.AssignedToID = &assignee.ID
	if err := s.complaints.Update(ctx, complaint); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.recordHistory(ctx, actor, complaint.ID, domain.ChangeTypeAssignee,
		map[string]any{"assigned_to_id": oldAssignee},
		map[string]any{"assigned_to_id": complaint.AssignedToID}); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintAssigned,
		ComplaintID: complaint.ID,
		ActorID:     actor.ID,
		RecipientID: assignee.ID,
		Payload: events.ComplaintAssignedPayload{
			AssignedToID: complaint.AssignedToID,
			DepartmentID: complaint.AssignedDepartmentID,
		},
	})
	return complaint, nil
}

// ApplyDepartmentAssignment routes the complaint to a department. A
// SUBMITTED complaint auto-advances to VALIDATED on successful assignment.
func (s *ComplaintService) ApplyDepartmentAssignment(ctx context.Context, actor *domain.User, complaintID, departmentID string) (*domain.Complaint, error) {
	complaint, err := s.loadComplaint(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, complaint, authz.OpAssignDepartment); err != nil {
		return nil, err
	}

	dept, err := s.departments.GetByID(ctx, departmentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewInvalidDepartment(departmentID)
		}
		return nil, apperrors.MapError(err)
	}

	oldDept := complaint.AssignedDepartmentID
	oldStatus := complaint.Status
	complaint.AssignedDepartmentID = &dept.ID
	if complaint.Status == domain.ComplaintStatusSubmitted {
		complaint.Status = domain.ComplaintStatusValidated
	}

	if err := s.complaints.Update(ctx, complaint); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.recordHistory(ctx, actor, complaint.ID, domain.ChangeTypeDepartment,
		map[string]any{"assigned_department_id": oldDept, "status": oldStatus},
		map[string]any{"assigned_department_id": complaint.AssignedDepartmentID, "status": complaint.Status}); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintAssigned,
		ComplaintID: complaint.ID,
		ActorID:     actor.ID,
		RecipientID: complaint.CreatedBy,
		Payload: events.ComplaintAssignedPayload{
			AssignedToID: complaint.AssignedToID,
			DepartmentID: complaint.AssignedDepartmentID,
		},
	})
	return complaint, nil
}

// ApplyPriorityUpdate recomputes the priority score. An explicit score,
// when supplied, is stored as-is; otherwise the score is derived from the
// given urgency.
func (s *ComplaintService) ApplyPriorityUpdate(ctx context.Context, actor *domain.User, complaintID string, urgency *domain.Urgency, explicitScore *int) (*domain.Complaint, error) {
	complaint, err := s.loadComplaint(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, complaint, authz.OpUpdatePriority); err != nil {
		return nil, err
	}

	oldScore := complaint.PriorityScore
	if urgency != nil {
		complaint.Urgency = *urgency
		complaint.PriorityScore = domain.PriorityScore(*urgency)
	}
	if explicitScore != nil {
		complaint.PriorityScore = *explicitScore
	}

	if err := s.complaints.Update(ctx, complaint); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.recordHistory(ctx, actor, complaint.ID, domain.ChangeTypePriority,
		map[string]any{"priority_score": oldScore},
		map[string]any{"priority_score": complaint.PriorityScore}); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintPriorityChanged,
		ComplaintID: complaint.ID,
		ActorID:     actor.ID,
		Payload: events.ComplaintPriorityChangedPayload{
			OldScore: oldScore,
			NewScore: complaint.PriorityScore,
		},
	})
	return complaint, nil
}

// AddComment appends to the complaint thread.
func (s *ComplaintService) AddComment(ctx context.Context, actor *domain.User, complaintID, body string) (*domain.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperrors.NewValidationError("body required", nil)
	}
	complaint, err := s.loadComplaint(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, complaint, authz.OpAddComment); err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		ComplaintID: complaint.ID,
		AuthorID:    actor.ID,
		Body:        body,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintCommentAdded,
		ComplaintID: complaint.ID,
		ActorID:     actor.ID,
		RecipientID: complaint.CreatedBy,
		Payload: events.ComplaintCommentAddedPayload{
			CommentID:   comment.ID,
			AuthorID:    comment.AuthorID,
			BodyPreview: bodyPreview(comment.Body, 120),
		},
	})
	return comment, nil
}

// ListHistory returns audit entries for a complaint the actor may read.
func (s *ComplaintService) ListHistory(ctx context.Context, actor *domain.User, complaintID string, limit, offset int) ([]domain.ComplaintHistory, error) {
	complaint, err := s.loadComplaint(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, complaint, authz.OpRead); err != nil {
		return nil, err
	}
	history, err := s.history.ListByComplaint(ctx, complaintID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return history, nil
}

func (s *ComplaintService) loadComplaint(ctx context.Context, complaintID string) (*domain.Complaint, error) {
	complaint, err := s.complaints.GetByID(ctx, complaintID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"complaint_id": complaintID})
		}
		return nil, apperrors.MapError(err)
	}
	return complaint, nil
}

func (s *ComplaintService) authorize(ctx context.Context, actor *domain.User, complaint *domain.Complaint, op authz.Operation) error {
	allowed, err := s.policy.Can(ctx, actor, complaint, op)
	if err != nil {
		return apperrors.MapError(err)
	}
	if !allowed {
		return apperrors.NewForbidden("operation not permitted for this account")
	}
	return nil
}

func (s *ComplaintService) recordHistory(ctx context.Context, actor *domain.User, complaintID string, changeType domain.ComplaintChangeType, oldValue, newValue map[string]any) error {
	if s.history == nil {
		return nil
	}
	actorID := actor.ID
	return s.history.Create(ctx, &domain.ComplaintHistory{
		ComplaintID: complaintID,
		ChangedByID: &actorID,
		ChangeType:  changeType,
		OldValue:    oldValue,
		NewValue:    newValue,
	})
}

func (s *ComplaintService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

// managerListStatuses intersects the requested statuses with the states a
// department manager may see in list views. The intersection may be empty
// when the request names only hidden states.
func managerListStatuses(requested []domain.ComplaintStatus) []domain.ComplaintStatus {
	visible := []domain.ComplaintStatus{
		domain.ComplaintStatusValidated,
		domain.ComplaintStatusAssigned,
		domain.ComplaintStatusInProgress,
		domain.ComplaintStatusResolved,
	}
	if len(requested) == 0 {
		return visible
	}
	allowed := make(map[domain.ComplaintStatus]struct{}, len(visible))
	for _, status := range visible {
		allowed[status] = struct{}{}
	}
	out := make([]domain.ComplaintStatus, 0, len(requested))
	for _, status := range requested {
		if _, ok := allowed[status]; ok {
			out = append(out, status)
		}
	}
	return out
}

func generateReference() string {
	return "CMP-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func bodyPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
