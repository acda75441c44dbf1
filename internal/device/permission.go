package device

import (
	"strings"

	"gridcert.org/internal/organization"
	"gridcert.org/internal/user"
)

// PermissionRule is one named requirement inside a capability check.
type PermissionRule struct {
	Label   string `json:"label"`
	Passing bool   `json:"passing"`
}

// Permission is the outcome of a capability check: the aggregate verdict
// plus every rule in display order, so a caller can render the complete
// checklist of unmet requirements.
type Permission struct {
	Value bool             `json:"value"`
	Rules []PermissionRule `json:"rules"`
}

// RegistrationContext is the immutable snapshot a permission evaluation
// reads. Absent fields fail their rule; they are never an error.
type RegistrationContext struct {
	User           *user.User
	Organization   *organization.Organization
	DepositAddress string
}

// CanRegister decides whether the actor may register a device. The four
// rules are evaluated in fixed order and all of them always run; the
// feedback layer shows every unmet requirement at once. The rule list is
// built fresh per call so each verdict reflects live input.
func CanRegister(rc RegistrationContext) Permission {
	rules := []PermissionRule{
		{
			Label:   "You have to be a logged in user",
			Passing: rc.User != nil,
		},
		{
			Label:   "Your account has to be active",
			Passing: rc.User.IsActive(),
		},
		{
			Label: "You have to be a member of an approved organization",
			Passing: rc.User != nil && rc.User.OrganizationID != "" &&
				rc.Organization.IsActive(),
		},
		{
			Label:   "Your organization has to have an exchange deposit address",
			Passing: strings.TrimSpace(rc.DepositAddress) != "",
		},
	}

	return aggregate(rules)
}

// aggregate folds an ordered rule list into the AND verdict. Other
// capability checks reuse this shape with their own rule sets.
func aggregate(rules []PermissionRule) Permission {
	p := Permission{Value: true, Rules: rules}
	for _, r := range rules {
		p.Value = p.Value && r.Passing
	}
	return p
}
