package dto

import (
	"time"

	"github.com/baladiya/complaint-service/internal/domain"
)

// CreateComplaintRequest payload.
type CreateComplaintRequest struct {
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Category     string         `json:"category"`
	Urgency      domain.Urgency `json:"urgency"`
	Governorate  string         `json:"governorate"`
	Municipality string         `json:"municipality"`
	IsAnonymous  bool           `json:"is_anonymous"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status          domain.ComplaintStatus `json:"status"`
	RejectionReason *string                `json:"rejection_reason,omitempty"`
}

// AssignTechnicianRequest payload.
type AssignTechnicianRequest struct {
	AssigneeID string `json:"assignee_id"`
}

// AssignDepartmentRequest payload.
type AssignDepartmentRequest struct {
	DepartmentID string `json:"department_id"`
}

// UpdatePriorityRequest payload. An explicit score overrides the urgency
// derivation.
type UpdatePriorityRequest struct {
	Urgency       *domain.Urgency `json:"urgency,omitempty"`
	PriorityScore *int            `json:"priority_score,omitempty"`
}

// AddCommentRequest payload.
type AddCommentRequest struct {
	Body string `json:"body"`
}

// ComplaintSummary response.
type ComplaintSummary struct {
	ID            string                 `json:"id"`
	Reference     string                 `json:"reference"`
	Title         string                 `json:"title"`
	Category      string                 `json:"category"`
	Urgency       domain.Urgency         `json:"urgency"`
	PriorityScore int                    `json:"priority_score"`
	Status        domain.ComplaintStatus `json:"status"`
	Governorate   string                 `json:"governorate"`
	Municipality  string                 `json:"municipality"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

// ReporterResponse carries whatever identity the viewer may see.
type ReporterResponse struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// ComplaintDetailResponse provides full complaint info.
type ComplaintDetailResponse struct {
	ID                   string                 `json:"id"`
	Reference            string                 `json:"reference"`
	Title                string                 `json:"title"`
	Description          string                 `json:"description"`
	Category             string                 `json:"category"`
	Urgency              domain.Urgency         `json:"urgency"`
	PriorityScore        int                    `json:"priority_score"`
	Status               domain.ComplaintStatus `json:"status"`
	Governorate          string                 `json:"governorate"`
	Municipality         string                 `json:"municipality"`
	AssignedDepartmentID *string                `json:"assigned_department_id,omitempty"`
	AssignedToID         *string                `json:"assigned_to_id,omitempty"`
	RejectionReason      *string                `json:"rejection_reason,omitempty"`
	ResolvedAt           *time.Time             `json:"resolved_at,omitempty"`
	IsAnonymous          bool                   `json:"is_anonymous"`
	Reporter             *ReporterResponse      `json:"reporter,omitempty"`
	Comments             []CommentResponse      `json:"comments"`
	CreatedAt            time.Time              `json:"created_at"`
	UpdatedAt            time.Time              `json:"updated_at"`
}

// CommentResponse represents a thread entry.
type CommentResponse struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// HistoryResponse represents an audit entry.
type HistoryResponse struct {
	ID          string                     `json:"id"`
	ChangeType  domain.ComplaintChangeType `json:"change_type"`
	ChangedByID *string                    `json:"changed_by_id,omitempty"`
	OldValue    map[string]any             `json:"old_value"`
	NewValue    map[string]any             `json:"new_value"`
	CreatedAt   time.Time                  `json:"created_at"`
}
