package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/leadhub/lead-tracker/internal/core/domain"
	"github.com/leadhub/lead-tracker/internal/core/ports"
)

const testSecret = "test-secret"

func registeredUser(t *testing.T, svc *AuthService, role domain.Role) *domain.User {
	t.Helper()
	user, err := svc.Register(context.Background(), ports.RegisterInput{
		Name:     "Jamie",
		Email:    "jamie@example.com",
		Password: "hunter22",
		Role:     role,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return user
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	users := newStubUserRepo()
	svc := NewAuthService(users, testSecret, time.Hour)
	registeredUser(t, svc, domain.RoleSalesExecutive)

	token, user, err := svc.Login(context.Background(), "jamie@example.com", "hunter22")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" {
		t.Error("expected a signed token")
	}
	if user.Role != domain.RoleSalesExecutive {
		t.Errorf("role: got %q", user.Role)
	}
	if user.PasswordHash == "hunter22" {
		t.Error("password must be hashed")
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	users := newStubUserRepo()
	svc := NewAuthService(users, testSecret, time.Hour)
	registeredUser(t, svc, domain.RoleSalesExecutive)

	_, _, err := svc.Login(context.Background(), "jamie@example.com", "nope")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownEmailIndistinguishable(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), testSecret, time.Hour)

	_, _, err := svc.Login(context.Background(), "ghost@example.com", "whatever")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("unknown email must look like bad credentials, got %v", err)
	}
}

func TestAuthService_Login_InactiveRejected(t *testing.T) {
	users := newStubUserRepo()
	svc := NewAuthService(users, testSecret, time.Hour)
	user := registeredUser(t, svc, domain.RoleSalesExecutive)
	users.users[user.ID].IsActive = false

	_, _, err := svc.Login(context.Background(), "jamie@example.com", "hunter22")
	if !errors.Is(err, domain.ErrUserInactive) {
		t.Errorf("expected ErrUserInactive, got %v", err)
	}
}

func TestAuthService_Register_RejectsUnknownRole(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), testSecret, time.Hour)

	_, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "X", Email: "x@example.com", Password: "pw", Role: "superuser",
	})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}

func TestAuthService_Identify(t *testing.T) {
	users := newStubUserRepo()
	svc := NewAuthService(users, testSecret, time.Hour)
	registeredUser(t, svc, domain.RoleManager)

	token, _, err := svc.Login(context.Background(), "jamie@example.com", "hunter22")
	if err != nil {
		t.Fatal(err)
	}

	user, err := svc.Identify(context.Background(), token)
	if err != nil {
		t.Fatalf("identify: %v", err)
	}
	if user.Role != domain.RoleManager {
		t.Errorf("role: got %q", user.Role)
	}

	// Deactivation takes effect on the next request even with a live token.
	users.users[user.ID].IsActive = false
	if _, err := svc.Identify(context.Background(), token); !errors.Is(err, domain.ErrUserInactive) {
		t.Errorf("expected ErrUserInactive, got %v", err)
	}
}

func TestAuthService_Identify_GarbageToken(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), testSecret, time.Hour)

	if _, err := svc.Identify(context.Background(), "not.a.jwt"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Identify_WrongSecret(t *testing.T) {
	users := newStubUserRepo()
	issuer := NewAuthService(users, "other-secret", time.Hour)
	registeredUser(t, issuer, domain.RoleAdmin)
	token, _, err := issuer.Login(context.Background(), "jamie@example.com", "hunter22")
	if err != nil {
		t.Fatal(err)
	}

	verifier := NewAuthService(users, testSecret, time.Hour)
	if _, err := verifier.Identify(context.Background(), token); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for foreign signature, got %v", err)
	}
}
