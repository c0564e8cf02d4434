package dto

import "time"

// DepartmentRequest payload for create/update.
type DepartmentRequest struct {
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Municipality  string  `json:"municipality"`
	ResponsableID *string `json:"responsable_id,omitempty"`
	IsActive      bool    `json:"is_active"`
}

// DepartmentResponse view.
type DepartmentResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Municipality  string    `json:"municipality"`
	ResponsableID *string   `json:"responsable_id,omitempty"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
