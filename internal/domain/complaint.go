package domain

import "time"

// ComplaintStatus enumerates lifecycle states for complaints.
type ComplaintStatus string

const (
	ComplaintStatusSubmitted  ComplaintStatus = "SUBMITTED"
	ComplaintStatusValidated  ComplaintStatus = "VALIDATED"
	ComplaintStatusAssigned   ComplaintStatus = "ASSIGNED"
	ComplaintStatusInProgress ComplaintStatus = "IN_PROGRESS"
	ComplaintStatusResolved   ComplaintStatus = "RESOLVED"
	ComplaintStatusClosed     ComplaintStatus = "CLOSED"
	ComplaintStatusRejected   ComplaintStatus = "REJECTED"
)

// Valid reports whether the status is a member of the lifecycle enum.
// Transitions between members are unrestricted; the workflow permits
// direct jumps such as SUBMITTED -> RESOLVED.
func (s ComplaintStatus) Valid() bool {
	switch s {
	case ComplaintStatusSubmitted, ComplaintStatusValidated, ComplaintStatusAssigned,
		ComplaintStatusInProgress, ComplaintStatusResolved, ComplaintStatusClosed,
		ComplaintStatusRejected:
		return true
	}
	return false
}

// Urgency enumerates citizen-supplied urgency levels.
type Urgency string

const (
	UrgencyLow    Urgency = "LOW"
	UrgencyMedium Urgency = "MEDIUM"
	UrgencyHigh   Urgency = "HIGH"
	UrgencyUrgent Urgency = "URGENT"
)

// PriorityScore maps an urgency to its numeric triage score. Unknown or
// empty urgencies fall back to the MEDIUM score.
func PriorityScore(u Urgency) int {
	switch u {
	case UrgencyLow:
		return 1
	case UrgencyMedium:
		return 5
	case UrgencyHigh:
		return 8
	case UrgencyUrgent:
		return 10
	default:
		return 5
	}
}

// Complaint is the aggregate for citizen-filed reports.
type Complaint struct {
	ID                   string
	Reference            string
	CreatedBy            string
	Title                string
	Description          string
	Category             string
	Urgency              Urgency
	PriorityScore        int
	Status               ComplaintStatus
	Governorate          string
	Municipality         string
	AssignedDepartmentID *string
	AssignedToID         *string
	RejectionReason      *string
	ResolvedAt           *time.Time
	IsAnonymous          bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Comment is an append-only entry on a complaint thread.
type Comment struct {
	ID          string
	ComplaintID string
	AuthorID    string
	Body        string
	CreatedAt   time.Time
}
