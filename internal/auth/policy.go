package auth

// CanAccessUser decides whether the actor may read or mutate the user
// record identified by targetID/targetOrgID. Rules are evaluated in
// order and the first match wins:
//
//  1. platform admins and support agents see everyone
//  2. every user sees their own record
//  3. organization admins see members of their own organization
//  4. everyone else is denied
//
// Callers are expected to surface a denial exactly like a missing
// target, so the existence of other users never leaks.
func CanAccessUser(actor Principal, targetID, targetOrgID string) bool {
	if actor.HasRole(RoleAdmin) || actor.HasRole(RoleSupportAgent) {
		return true
	}
	if actor.UserID != "" && actor.UserID == targetID {
		return true
	}
	if actor.HasRole(RoleOrganizationAdmin) &&
		actor.OrganizationID != "" && actor.OrganizationID == targetOrgID {
		return true
	}
	return false
}
