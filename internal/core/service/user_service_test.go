package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/insighthq/insight-api/internal/core/domain"
)

func seedUser(t *testing.T, repo *memoryUserRepo, name, email string) *domain.User {
	t.Helper()
	svc := NewAuthService(repo, "secret", time.Hour)
	user, err := svc.Register(context.Background(), name, email, "pass123")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestUserService_ListAndGet(t *testing.T) {
	repo := newMemoryUserRepo()
	alice := seedUser(t, repo, "Alice", "alice@example.com")
	seedUser(t, repo, "Bob", "bob@example.com")

	svc := NewUserService(repo)

	users, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}

	got, err := svc.Get(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Email != "alice@example.com" {
		t.Fatalf("unexpected email: %q", got.Email)
	}

	if _, err := svc.Get(context.Background(), "gone"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_Update_PartialFields(t *testing.T) {
	repo := newMemoryUserRepo()
	alice := seedUser(t, repo, "Alice", "alice@example.com")
	svc := NewUserService(repo)

	name := "Alicia"
	updated, err := svc.Update(context.Background(), alice.ID, domain.UserUpdate{Name: &name})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Name != "Alicia" {
		t.Fatalf("name not applied: %q", updated.Name)
	}
	if updated.Email != "alice@example.com" {
		t.Fatalf("email changed unexpectedly: %q", updated.Email)
	}
	if updated.Role != domain.RoleUser {
		t.Fatalf("role changed unexpectedly: %q", updated.Role)
	}
	if !updated.UpdatedAt.After(alice.UpdatedAt) && !updated.UpdatedAt.Equal(alice.UpdatedAt) {
		t.Fatalf("UpdatedAt not refreshed")
	}
}

func TestUserService_Update_RehashesPassword(t *testing.T) {
	repo := newMemoryUserRepo()
	alice := seedUser(t, repo, "Alice", "alice@example.com")
	svc := NewUserService(repo)

	password := "newpass"
	updated, err := svc.Update(context.Background(), alice.ID, domain.UserUpdate{Password: &password})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.PasswordHash == "newpass" {
		t.Fatalf("password stored in plaintext")
	}
	if updated.PasswordHash == alice.PasswordHash {
		t.Fatalf("password hash unchanged")
	}
	if bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("newpass")) != nil {
		t.Fatalf("new hash does not verify the new password")
	}
}

func TestUserService_Update_UnknownID(t *testing.T) {
	repo := newMemoryUserRepo()
	svc := NewUserService(repo)

	name := "Nobody"
	_, err := svc.Update(context.Background(), "gone", domain.UserUpdate{Name: &name})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_Delete(t *testing.T) {
	repo := newMemoryUserRepo()
	alice := seedUser(t, repo, "Alice", "alice@example.com")
	svc := NewUserService(repo)

	if err := svc.Delete(context.Background(), alice.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Deletes are not idempotent: a second delete reports the missing id.
	if err := svc.Delete(context.Background(), alice.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound on repeat delete, got %v", err)
	}
}
