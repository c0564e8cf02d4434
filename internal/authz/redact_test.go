package authz

import (
	"testing"

	"github.com/baladiya/complaint-service/internal/domain"
)

func TestReporterViewOwnerSeesEverything(t *testing.T) {
	t.Parallel()
	owner := &domain.User{ID: "cit-1", Role: domain.RoleCitizen}
	complaint := &domain.Complaint{ID: "c1", CreatedBy: "cit-1", IsAnonymous: true}

	vis := ReporterView(owner, complaint)
	if !vis.ShowName || !vis.ShowContact {
		t.Errorf("owner visibility = %+v, want full even on anonymous complaints", vis)
	}
}

func TestReporterViewAnonymousHiddenFromOthers(t *testing.T) {
	t.Parallel()
	complaint := &domain.Complaint{ID: "c1", CreatedBy: "cit-1", IsAnonymous: true}

	viewers := []*domain.User{
		{ID: "admin-1", Role: domain.RoleAdmin},
		{ID: "agent-1", Role: domain.RoleMunicipalAgent},
		{ID: "mgr-1", Role: domain.RoleDepartmentManager},
		{ID: "tech-1", Role: domain.RoleTechnician},
	}
	for _, viewer := range viewers {
		vis := ReporterView(viewer, complaint)
		if vis.ShowName || vis.ShowContact {
			t.Errorf("anonymous reporter exposed to %s: %+v", viewer.Role, vis)
		}
	}
}

func TestReporterViewContactTiers(t *testing.T) {
	t.Parallel()
	complaint := &domain.Complaint{ID: "c1", CreatedBy: "cit-1"}

	full := []*domain.User{
		{ID: "admin-1", Role: domain.RoleAdmin},
		{ID: "agent-1", Role: domain.RoleMunicipalAgent},
		{ID: "mgr-1", Role: domain.RoleDepartmentManager},
	}
	for _, viewer := range full {
		vis := ReporterView(viewer, complaint)
		if !vis.ShowName || !vis.ShowContact {
			t.Errorf("%s visibility = %+v, want name and contact", viewer.Role, vis)
		}
	}

	tech := &domain.User{ID: "tech-1", Role: domain.RoleTechnician}
	vis := ReporterView(tech, complaint)
	if !vis.ShowName || vis.ShowContact {
		t.Errorf("technician visibility = %+v, want name only", vis)
	}
}
