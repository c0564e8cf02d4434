package authz

import (
	"context"

	"github.com/baladiya/complaint-service/internal/domain"
)

// Operation enumerates the complaint operations gated by the policy.
type Operation string

const (
	OpRead             Operation = "read"
	OpUpdateStatus     Operation = "update_status"
	OpAssignTechnician Operation = "assign_technician"
	OpAssignDepartment Operation = "assign_department"
	OpUpdatePriority   Operation = "update_priority"
	OpAddComment       Operation = "add_comment"
)

// ReadMode distinguishes fetching a single complaint by id from seeing it
// through a filtered listing. Department managers do not see SUBMITTED or
// REJECTED complaints in list views even when their department owns them.
type ReadMode int

const (
	ReadSingle ReadMode = iota
	ReadList
)

// DepartmentResolver resolves the department a manager is responsible for.
// Implementations return (nil, nil) when no department matches.
type DepartmentResolver interface {
	GetByResponsable(ctx context.Context, userID string) (*domain.Department, error)
}

// Request carries everything a decision needs: the acting user with its
// scoping attributes, a snapshot of the complaint, and the operation.
type Request struct {
	Actor     *domain.User
	Complaint *domain.Complaint
	Operation Operation
	Mode      ReadMode
}

// Policy decides complaint operations per role. Decisions are pure over the
// request except for the department lookup needed by the manager rule.
type Policy struct {
	departments DepartmentResolver
}

// NewPolicy builds a policy backed by the given department resolver.
func NewPolicy(departments DepartmentResolver) *Policy {
	return &Policy{departments: departments}
}

type ruleFunc func(ctx context.Context, p *Policy, req Request) (bool, error)

// rules maps each role to its decision rule. An unknown role has no entry
// and is denied.
var rules = map[domain.Role]ruleFunc{
	domain.RoleAdmin:             adminRule,
	domain.RoleCitizen:           citizenRule,
	domain.RoleMunicipalAgent:    agentRule,
	domain.RoleDepartmentManager: managerRule,
	domain.RoleTechnician:        technicianRule,
}

// Decide evaluates the request. The returned error is reserved for
// collaborator failures; a plain denial is (false, nil).
func (p *Policy) Decide(ctx context.Context, req Request) (bool, error) {
	if req.Actor == nil || req.Complaint == nil {
		return false, nil
	}
	rule, ok := rules[req.Actor.Role]
	if !ok {
		return false, nil
	}
	return rule(ctx, p, req)
}

// Can evaluates a single-record decision for the given operation.
func (p *Policy) Can(ctx context.Context, actor *domain.User, c *domain.Complaint, op Operation) (bool, error) {
	return p.Decide(ctx, Request{Actor: actor, Complaint: c, Operation: op, Mode: ReadSingle})
}

// CanList evaluates whether the complaint is visible to the actor through a
// filtered listing.
func (p *Policy) CanList(ctx context.Context, actor *domain.User, c *domain.Complaint) (bool, error) {
	return p.Decide(ctx, Request{Actor: actor, Complaint: c, Operation: OpRead, Mode: ReadList})
}

func adminRule(_ context.Context, _ *Policy, _ Request) (bool, error) {
	return true, nil
}

func citizenRule(_ context.Context, _ *Policy, req Request) (bool, error) {
	if req.Complaint.CreatedBy != req.Actor.ID {
		return false, nil
	}
	switch req.Operation {
	case OpRead, OpAddComment:
		return true, nil
	}
	return false, nil
}

// agentRule scopes agents by municipality. An agent without a municipality,
// or a complaint without one, is treated as unrestricted.
func agentRule(_ context.Context, _ *Policy, req Request) (bool, error) {
	actor, c := req.Actor, req.Complaint
	if actor.Municipality == "" || c.Municipality == "" {
		return true, nil
	}
	return actor.Municipality == c.Municipality, nil
}

// managerListableStatuses are the lifecycle states a department manager sees
// through list views of the department queue.
var managerListableStatuses = map[domain.ComplaintStatus]struct{}{
	domain.ComplaintStatusValidated:  {},
	domain.ComplaintStatusAssigned:   {},
	domain.ComplaintStatusInProgress: {},
	domain.ComplaintStatusResolved:   {},
}

func managerRule(ctx context.Context, p *Policy, req Request) (bool, error) {
	dept, err := p.departments.GetByResponsable(ctx, req.Actor.ID)
	if err != nil {
		return false, err
	}
	if dept == nil {
		return false, nil
	}
	c := req.Complaint
	if c.AssignedDepartmentID == nil || *c.AssignedDepartmentID != dept.ID {
		return false, nil
	}
	if req.Operation == OpRead && req.Mode == ReadList {
		_, listable := managerListableStatuses[c.Status]
		return listable, nil
	}
	return true, nil
}

// technicianRule limits technicians to their own assignments, and even there
// to reading and commenting; progress is reported through comments only.
func technicianRule(_ context.Context, _ *Policy, req Request) (bool, error) {
	c := req.Complaint
	if c.AssignedToID == nil || *c.AssignedToID != req.Actor.ID {
		return false, nil
	}
	switch req.Operation {
	case OpRead, OpAddComment:
		return true, nil
	}
	return false, nil
}
