package domain

import "testing"

func TestPriorityScore(t *testing.T) {
	t.Parallel()

	cases := []struct {
		urgency Urgency
		want    int
	}{
		{UrgencyLow, 1},
		{UrgencyMedium, 5},
		{UrgencyHigh, 8},
		{UrgencyUrgent, 10},
		{Urgency(""), 5},
		{Urgency("CATASTROPHIC"), 5},
	}
	for _, tc := range cases {
		if got := PriorityScore(tc.urgency); got != tc.want {
			t.Errorf("PriorityScore(%q) = %d, want %d", tc.urgency, got, tc.want)
		}
	}
}

func TestComplaintStatusValid(t *testing.T) {
	t.Parallel()

	valid := []ComplaintStatus{
		ComplaintStatusSubmitted, ComplaintStatusValidated, ComplaintStatusAssigned,
		ComplaintStatusInProgress, ComplaintStatusResolved, ComplaintStatusClosed,
		ComplaintStatusRejected,
	}
	for _, status := range valid {
		if !status.Valid() {
			t.Errorf("Valid() = false for %q", status)
		}
	}

	for _, status := range []ComplaintStatus{"", "OPEN", "submitted", "DONE"} {
		if status.Valid() {
			t.Errorf("Valid() = true for %q", status)
		}
	}
}

func TestRoleValidAndStaff(t *testing.T) {
	t.Parallel()

	staff := map[Role]bool{
		RoleCitizen:           false,
		RoleMunicipalAgent:    true,
		RoleDepartmentManager: true,
		RoleTechnician:        true,
		RoleAdmin:             true,
	}
	for role, wantStaff := range staff {
		if !role.Valid() {
			t.Errorf("Valid() = false for %q", role)
		}
		if got := role.Staff(); got != wantStaff {
			t.Errorf("Staff() = %v for %q, want %v", got, role, wantStaff)
		}
	}
	if Role("SUPERUSER").Valid() {
		t.Error("Valid() = true for unknown role")
	}
}
