package auth

import "strings"

// Marketplace roles. A user may carry several at once, e.g. an
// organization admin who also manages devices.
const (
	RoleAdmin                     = "admin"
	RoleSupportAgent              = "support-agent"
	RoleOrganizationAdmin         = "organization-admin"
	RoleOrganizationUser          = "organization-user"
	RoleOrganizationDeviceManager = "organization-device-manager"
	RoleIssuer                    = "issuer"
)

// NormalizeRoles lower-cases, trims and deduplicates a role list while
// preserving first-seen order.
func NormalizeRoles(roles []string) []string {
	if len(roles) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(roles))
	var normalized []string
	for _, role := range roles {
		role = strings.TrimSpace(strings.ToLower(role))
		if role == "" {
			continue
		}
		if _, ok := seen[role]; ok {
			continue
		}
		seen[role] = struct{}{}
		normalized = append(normalized, role)
	}
	return normalized
}
