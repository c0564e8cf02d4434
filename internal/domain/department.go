package domain

import "time"

// Department represents a municipal service unit (roads, lighting, ...).
// ResponsableID references the DEPARTMENT_MANAGER accountable for it.
type Department struct {
	ID            string
	Name          string
	Description   string
	Municipality  string
	ResponsableID *string
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
