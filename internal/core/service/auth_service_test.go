package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/bookshelf/review-service/internal/core/domain"
)

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubCredentialRepo()
	svc := NewAuthService(repo, zerolog.Nop())

	id, err := svc.Register(context.Background(), "alice", "pass123")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if id != 1 {
		t.Fatalf("expected id 1, got %d", id)
	}
	if got := repo.users["alice"].Password; got != "pass123" {
		t.Fatalf("expected password stored verbatim, got %q", got)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := NewAuthService(newStubCredentialRepo(), zerolog.Nop())

	if _, err := svc.Register(context.Background(), "", "pass"); err != domain.ErrCredentialsRequired {
		t.Fatalf("expected ErrCredentialsRequired for empty username, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "bob", ""); err != domain.ErrCredentialsRequired {
		t.Fatalf("expected ErrCredentialsRequired for empty password, got %v", err)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	repo := newStubCredentialRepo()
	svc := NewAuthService(repo, zerolog.Nop())

	_, _ = svc.Register(context.Background(), "bob", "pass")
	if _, err := svc.Register(context.Background(), "bob", "pass2"); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if repo.users["bob"].Password != "pass" {
		t.Fatalf("duplicate registration must not overwrite the stored password")
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubCredentialRepo()
	svc := NewAuthService(repo, zerolog.Nop())

	if _, err := svc.Register(context.Background(), "carol", "s3cret"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := svc.Login(context.Background(), "carol", "s3cret"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	repo := newStubCredentialRepo()
	svc := NewAuthService(repo, zerolog.Nop())

	_, _ = svc.Register(context.Background(), "dave", "goodpass")
	if err := svc.Login(context.Background(), "dave", "badpass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if err := svc.Login(context.Background(), "dave", "GOODPASS"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected case-sensitive comparison, got %v", err)
	}
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	svc := NewAuthService(newStubCredentialRepo(), zerolog.Nop())

	if err := svc.Login(context.Background(), "ghost", "pass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_StorageFailure(t *testing.T) {
	repo := newStubCredentialRepo()
	repo.findErr = domain.ErrStorageFailure
	svc := NewAuthService(repo, zerolog.Nop())

	err := svc.Login(context.Background(), "erin", "pass")
	if !errors.Is(err, domain.ErrStorageFailure) {
		t.Fatalf("expected ErrStorageFailure, got %v", err)
	}
	if errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("storage failures must not look like bad credentials")
	}
}
