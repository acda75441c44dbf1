package httpapi

import (
	"net/http"
	"testing"

	"gridcert.org/internal/auth"
	"gridcert.org/internal/organization"
	"gridcert.org/internal/user"
)

func (c *apiClient) seedRegistrant(t *testing.T) *user.User {
	t.Helper()
	org := c.seedOrg(&organization.Organization{
		ID:     "01HORGACTIVE0000000000001",
		Name:   "Sunfield Energy",
		Status: organization.StatusActive,
	})
	return c.seedUser(&user.User{
		ID:             "01HREGISTRANT000000000001",
		Email:          "registrant@example.com",
		Roles:          []string{auth.RoleOrganizationAdmin},
		Status:         user.StatusActive,
		OrganizationID: org.ID,
	})
}

func validSubmission() map[string]any {
	return map[string]any{
		"facilityName": "Sunfield One",
		"children": []map[string]any{{
			"installationName": "Rooftop array A",
			"address":          "12 Solar Way",
			"city":             "Adelaide",
			"latitude":         -34.92,
			"longitude":        138.6,
			"capacity":         250,
			"meterId":          "METER-001",
			"meterType":        "interval",
		}},
	}
}

func TestDevicePermissionsChecklist(t *testing.T) {
	c := newTestAPI(t)
	u := c.seedRegistrant(t)
	c.exchange.address = "0xcafe"

	resp := c.get("/device/permissions", bearerFor(t, u))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var perm struct {
		Value bool `json:"value"`
		Rules []struct {
			Label   string `json:"label"`
			Passing bool   `json:"passing"`
		} `json:"rules"`
	}
	decodeBody(t, resp, &perm)
	if !perm.Value || len(perm.Rules) != 4 {
		t.Fatalf("unexpected permission: %+v", perm)
	}
}

func TestDevicePermissionsReportsMissingDeposit(t *testing.T) {
	c := newTestAPI(t)
	u := c.seedRegistrant(t)
	// exchange address left empty

	resp := c.get("/device/permissions", bearerFor(t, u))
	var perm struct {
		Value bool `json:"value"`
		Rules []struct {
			Label   string `json:"label"`
			Passing bool   `json:"passing"`
		} `json:"rules"`
	}
	decodeBody(t, resp, &perm)
	if perm.Value {
		t.Fatal("expected denied verdict")
	}
	if perm.Rules[3].Passing {
		t.Fatalf("deposit rule should fail: %+v", perm.Rules)
	}
	for i := 0; i < 3; i++ {
		if !perm.Rules[i].Passing {
			t.Errorf("rule %d should pass: %+v", i, perm.Rules[i])
		}
	}
}

func TestCreateDevice(t *testing.T) {
	c := newTestAPI(t)
	u := c.seedRegistrant(t)
	c.exchange.address = "0xcafe"

	resp := c.post("/device", validSubmission(), bearerFor(t, u))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var d map[string]any
	decodeBody(t, resp, &d)
	if d["status"] != "submitted" {
		t.Errorf("status = %v", d["status"])
	}
	if d["deviceType"] != "Solar;Photovoltaic" {
		t.Errorf("deviceType = %v", d["deviceType"])
	}
	if d["capacityInW"] != float64(250_000) {
		t.Errorf("capacityInW = %v", d["capacityInW"])
	}
	if d["organizationId"] != u.OrganizationID {
		t.Errorf("organizationId = %v", d["organizationId"])
	}

	// The new device shows up in the organization's listing.
	resp = c.get("/device", bearerFor(t, u))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", resp.StatusCode)
	}
	var list []map[string]any
	decodeBody(t, resp, &list)
	if len(list) != 1 {
		t.Fatalf("expected 1 device, got %d", len(list))
	}
}

func TestCreateDeviceDeniedWithoutPermission(t *testing.T) {
	c := newTestAPI(t)
	u := c.seedRegistrant(t)
	// no deposit address: permission check must fail server-side

	resp := c.post("/device", validSubmission(), bearerFor(t, u))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	var body struct {
		Error string `json:"error"`
		Rules []struct {
			Label   string `json:"label"`
			Passing bool   `json:"passing"`
		} `json:"rules"`
	}
	decodeBody(t, resp, &body)
	if len(body.Rules) != 4 {
		t.Fatalf("expected checklist in denial, got %+v", body)
	}
}

func TestCreateDeviceValidation(t *testing.T) {
	c := newTestAPI(t)
	u := c.seedRegistrant(t)
	c.exchange.address = "0xcafe"

	sub := validSubmission()
	children := sub["children"].([]map[string]any)
	children[0]["capacity"] = 5 // below the 20 kW minimum

	resp := c.post("/device", sub, bearerFor(t, u))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	var payload struct {
		Errors []struct {
			Path    string `json:"path"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	decodeBody(t, resp, &payload)
	found := false
	for _, fe := range payload.Errors {
		if fe.Path == "children[0].capacity" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected children[0].capacity error, got %+v", payload.Errors)
	}
}

func TestCreateDeviceAggregateCapacity(t *testing.T) {
	c := newTestAPI(t)
	u := c.seedRegistrant(t)
	c.exchange.address = "0xcafe"

	sub := validSubmission()
	first := sub["children"].([]map[string]any)[0]
	second := map[string]any{}
	for k, v := range first {
		second[k] = v
	}
	first["capacity"] = 3000
	second["capacity"] = 2500
	second["installationName"] = "Rooftop array B"
	sub["children"] = []map[string]any{first, second}

	resp := c.post("/device", sub, bearerFor(t, u))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	var payload struct {
		Errors []struct {
			Path    string `json:"path"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	decodeBody(t, resp, &payload)
	if len(payload.Errors) != 1 || payload.Errors[0].Path != "children[1].capacity" {
		t.Fatalf("expected aggregate error on children[1].capacity, got %+v", payload.Errors)
	}
}

func TestTradesForOrganization(t *testing.T) {
	c := newTestAPI(t)
	u := c.seedRegistrant(t)
	c.exchange.trades = nil

	resp := c.get("/trades", bearerFor(t, u))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var trades []map[string]any
	decodeBody(t, resp, &trades)
	if trades == nil || len(trades) != 0 {
		t.Fatalf("expected empty list, got %v", trades)
	}
}
