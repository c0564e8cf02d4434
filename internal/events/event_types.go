package events

import (
	"time"

	"github.com/baladiya/complaint-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventComplaintCreated         EventType = "complaint_created"
	EventComplaintStatusChanged   EventType = "complaint_status_changed"
	EventComplaintAssigned        EventType = "complaint_assigned"
	EventComplaintPriorityChanged EventType = "complaint_priority_changed"
	EventComplaintCommentAdded    EventType = "complaint_comment_added"
)

// Event represents a domain event emitted by services. RecipientID names
// the user a notification should reach (owner or assignee), ActorID the
// user who caused the change.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	ComplaintID string      `json:"complaint_id"`
	ActorID     string      `json:"actor_id"`
	RecipientID string      `json:"recipient_id,omitempty"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// ComplaintCreatedPayload payload.
type ComplaintCreatedPayload struct {
	Reference     string         `json:"reference"`
	Category      string         `json:"category"`
	Urgency       domain.Urgency `json:"urgency"`
	PriorityScore int            `json:"priority_score"`
	Municipality  string         `json:"municipality"`
}

// ComplaintStatusChangedPayload payload.
type ComplaintStatusChangedPayload struct {
	OldStatus       domain.ComplaintStatus `json:"old_status"`
	NewStatus       domain.ComplaintStatus `json:"new_status"`
	RejectionReason *string                `json:"rejection_reason,omitempty"`
}

// ComplaintAssignedPayload payload.
type ComplaintAssignedPayload struct {
	AssignedToID *string `json:"assigned_to_id,omitempty"`
	DepartmentID *string `json:"department_id,omitempty"`
}

// ComplaintPriorityChangedPayload payload.
type ComplaintPriorityChangedPayload struct {
	OldScore int `json:"old_score"`
	NewScore int `json:"new_score"`
}

// ComplaintCommentAddedPayload payload.
type ComplaintCommentAddedPayload struct {
	CommentID   string `json:"comment_id"`
	AuthorID    string `json:"author_id"`
	BodyPreview string `json:"body_preview"`
}
