package user

import (
	"context"
	"errors"
	"testing"

	"gridcert.org/internal/auth"
	"gridcert.org/internal/validate"
)

func registration() RegistrationData {
	return RegistrationData{
		Title:     "Mr",
		FirstName: "John",
		LastName:  "Rambo",
		Email:     "john@example.com",
		Password:  "FirstBlood",
		Telephone: "+11",
	}
}

func TestRegisterDefaults(t *testing.T) {
	svc := NewService(NewInMemory())

	u, err := svc.Register(context.Background(), registration())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Email != "john@example.com" {
		t.Fatalf("unexpected email: %s", u.Email)
	}
	if len(u.Roles) != 1 || u.Roles[0] != auth.RoleOrganizationAdmin {
		t.Fatalf("expected organization-admin default, got %v", u.Roles)
	}
	if u.Status != StatusPending {
		t.Fatalf("expected pending status, got %s", u.Status)
	}
	if u.KYCStatus != KYCPending {
		t.Fatalf("expected pending kyc, got %s", u.KYCStatus)
	}
	if u.OrganizationID != "" {
		t.Fatalf("organization must stay unset, got %q", u.OrganizationID)
	}
	if u.PasswordHash == "FirstBlood" {
		t.Fatal("password must be hashed")
	}
}

func TestRegisterNormalizesEmail(t *testing.T) {
	svc := NewService(NewInMemory())
	data := registration()
	data.Email = "  John@Example.COM "

	u, err := svc.Register(context.Background(), data)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Email != "john@example.com" {
		t.Fatalf("expected normalized email, got %q", u.Email)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewService(NewInMemory())
	ctx := context.Background()

	if _, err := svc.Register(ctx, registration()); err != nil {
		t.Fatalf("first Register: %v", err)
	}

	second := registration()
	second.FirstName = "Samuel"
	second.LastName = "Trautman"
	_, err := svc.Register(ctx, second)
	if !errors.Is(err, auth.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestRegisterMissingFieldsPersistsNothing(t *testing.T) {
	store := NewInMemory()
	svc := NewService(store)

	data := registration()
	data.Password = ""
	_, err := svc.Register(context.Background(), data)

	var verr *validate.Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(verr.Fields) != 1 || verr.Fields[0].Path != "password" {
		t.Fatalf("expected single password error, got %v", verr.Fields)
	}
	if store.Len() != 0 {
		t.Fatalf("expected no persisted records, got %d", store.Len())
	}
}

func TestRegisterCollectsAllFieldErrors(t *testing.T) {
	svc := NewService(NewInMemory())

	_, err := svc.Register(context.Background(), RegistrationData{Email: "not-an-email"})
	var verr *validate.Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	paths := make(map[string]bool)
	for _, f := range verr.Fields {
		paths[f.Path] = true
	}
	for _, want := range []string{"firstName", "lastName", "email", "password", "telephone"} {
		if !paths[want] {
			t.Fatalf("missing error for %q: %v", want, verr.Fields)
		}
	}
}

func TestAuthenticate(t *testing.T) {
	svc := NewService(NewInMemory())
	ctx := context.Background()

	if _, err := svc.Register(ctx, registration()); err != nil {
		t.Fatalf("Register: %v", err)
	}

	u, err := svc.Authenticate(ctx, "john@example.com", "FirstBlood")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if u.Status != StatusPending {
		t.Fatalf("pending accounts must be able to log in, got status %s", u.Status)
	}

	if _, err := svc.Authenticate(ctx, "john@example.com", "wrong"); !errors.Is(err, auth.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for bad password, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "ghost@example.com", "FirstBlood"); !errors.Is(err, auth.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for unknown email, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "", ""); !errors.Is(err, auth.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for empty credentials, got %v", err)
	}
}
