package httpapi

import (
	"context"
	"net/http"

	"gridcert.org/internal/audit"
	"gridcert.org/internal/auth"
	"gridcert.org/internal/device"
	"gridcert.org/internal/obs"
	"gridcert.org/internal/organization"
	"gridcert.org/internal/user"
)

// registrationContext assembles the snapshot the permission evaluation
// reads: account, organization and exchange deposit address. Lookup
// failures degrade to absent fields, which fail their rule instead of
// erroring the whole check.
func (a *API) registrationContext(ctx context.Context, p auth.Principal) device.RegistrationContext {
	rc := device.RegistrationContext{}

	u, err := a.users.Find(ctx, p.UserID)
	if err == nil {
		rc.User = u
	}
	rc.Organization = a.findOrganization(ctx, rc.User)

	orgID := p.OrganizationID
	if orgID == "" && rc.User != nil {
		orgID = rc.User.OrganizationID
	}
	if orgID != "" {
		addr, err := a.exchange.DepositAddress(ctx, orgID)
		if err == nil {
			rc.DepositAddress = addr
		} else {
			obs.LogRequest(map[string]any{
				"level":  "warn",
				"msg":    "deposit address lookup failed",
				"org_id": orgID,
				"error":  err.Error(),
			})
		}
	}
	return rc
}

func (a *API) findOrganization(ctx context.Context, u *user.User) *organization.Organization {
	if u == nil || u.OrganizationID == "" || a.orgs == nil {
		return nil
	}
	org, err := a.orgs.Find(ctx, u.OrganizationID)
	if err != nil {
		return nil
	}
	return org
}

func (a *API) handleDevicePermissions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	perm := device.CanRegister(a.registrationContext(r.Context(), p))
	writeJSON(w, http.StatusOK, perm)
}

func (a *API) handleDevices(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		a.createDevice(w, r)
	case http.MethodGet:
		a.listDevices(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) createDevice(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	// The client shows the permission checklist before the form, but the
	// verdict is re-evaluated here; the UI cannot be trusted.
	perm := device.CanRegister(a.registrationContext(r.Context(), p))
	if !perm.Value {
		payload := map[string]any{
			"error": "device registration not permitted",
			"rules": perm.Rules,
		}
		if rid := RequestIDFromContext(r.Context()); rid != "" {
			payload["request_id"] = rid
		}
		writeJSON(w, http.StatusUnauthorized, payload)
		return
	}

	var sub device.GroupSubmission
	if err := decodeJSON(w, r, &sub); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	d, err := a.devices.Register(r.Context(), p.OrganizationID, sub)
	if err != nil {
		if verr, ok := device.ValidationError(err); ok {
			writeValidationError(w, r, verr)
			return
		}
		writeError(w, r, http.StatusInternalServerError, "device registration failed")
		return
	}

	_ = audit.LogEvent(r.Context(), "device.registered", map[string]any{
		"device_id":     d.ID,
		"facility_name": d.FacilityName,
		"capacity_in_w": d.CapacityInW,
	})
	writeJSON(w, http.StatusCreated, d)
}

func (a *API) listDevices(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	if p.OrganizationID == "" {
		writeJSON(w, http.StatusOK, []*device.Device{})
		return
	}
	devices, err := a.devices.ListByOrg(r.Context(), p.OrganizationID)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "device lookup failed")
		return
	}
	if devices == nil {
		devices = []*device.Device{}
	}
	writeJSON(w, http.StatusOK, devices)
}
