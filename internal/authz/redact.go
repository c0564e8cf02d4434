package authz

import "github.com/baladiya/complaint-service/internal/domain"

// ReporterVisibility tells a read endpoint which identity fields of the
// complaint's reporter may be included for a given viewer.
type ReporterVisibility struct {
	ShowName    bool
	ShowContact bool
}

// ReporterView applies the anonymity and contact rules. The owner always
// sees their own identity. Anonymous complaints withhold everything from
// every other viewer regardless of role. Otherwise contact details (email,
// phone) are limited to admins, agents and department managers; remaining
// permitted viewers, such as an assigned technician, see the name only.
func ReporterView(viewer *domain.User, c *domain.Complaint) ReporterVisibility {
	if viewer == nil || c == nil {
		return ReporterVisibility{}
	}
	if viewer.ID == c.CreatedBy {
		return ReporterVisibility{ShowName: true, ShowContact: true}
	}
	if c.IsAnonymous {
		return ReporterVisibility{}
	}
	switch viewer.Role {
	case domain.RoleAdmin, domain.RoleMunicipalAgent, domain.RoleDepartmentManager:
		return ReporterVisibility{ShowName: true, ShowContact: true}
	default:
		return ReporterVisibility{ShowName: true}
	}
}
