package auth

import "testing"

func TestCanAccessUser(t *testing.T) {
	admin := Principal{UserID: "u-admin", Roles: []string{RoleAdmin}}
	support := Principal{UserID: "u-support", Roles: []string{RoleSupportAgent}}
	orgAdminA := Principal{UserID: "u-oa", OrganizationID: "org-a", Roles: []string{RoleOrganizationAdmin}}
	memberA := Principal{UserID: "u-member", OrganizationID: "org-a", Roles: []string{RoleOrganizationUser, RoleOrganizationDeviceManager}}

	cases := []struct {
		name        string
		actor       Principal
		targetID    string
		targetOrgID string
		want        bool
	}{
		{"admin reads anyone", admin, "u-member", "org-b", true},
		{"support agent reads anyone", support, "u-member", "org-b", true},
		{"self access", memberA, "u-member", "org-a", true},
		{"self access without organization", Principal{UserID: "u-solo"}, "u-solo", "", true},
		{"org admin reads same org", orgAdminA, "u-member", "org-a", true},
		{"org admin denied cross org", orgAdminA, "u-stranger", "org-b", false},
		{"plain member denied other user", memberA, "u-oa", "org-a", false},
		{"unauthenticated denied", Principal{}, "u-member", "org-a", false},
		{"org admin without org denied orgless target", Principal{UserID: "u-x", Roles: []string{RoleOrganizationAdmin}}, "u-y", "", false},
	}

	for _, tc := range cases {
		if got := CanAccessUser(tc.actor, tc.targetID, tc.targetOrgID); got != tc.want {
			t.Fatalf("%s: CanAccessUser=%v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestCanAccessUserRuleOrder(t *testing.T) {
	// An admin who also happens to be an organization admin of another org
	// is allowed by the admin rule before the organization rule can deny.
	actor := Principal{
		UserID:         "u-1",
		OrganizationID: "org-a",
		Roles:          []string{RoleAdmin, RoleOrganizationAdmin},
	}
	if !CanAccessUser(actor, "u-2", "org-b") {
		t.Fatal("admin role must win regardless of organization membership")
	}
}
