package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/bounty-tracker/internal/apperror"
	"github.com/sakif/bounty-tracker/internal/model"
)

// TESTING WITH IN-MEMORY SQLITE:
// ":memory:" gives every test its own fresh database that disappears when
// the connection closes. No files to clean up, no state leaking between tests.
//
// t.Helper() makes failures point at the caller's line, not this function.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// createTestUser inserts a user. Every other table references users(id)
// with foreign keys on, so most tests start here.
func createTestUser(t *testing.T, db *DB, githubID int64, login string) *model.User {
	t.Helper()
	user := &model.User{
		GitHubID:  githubID,
		Login:     login,
		Email:     login + "@example.com",
		AvatarURL: "https://avatars.githubusercontent.com/u/123",
	}
	if err := db.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// =========================================================================
// CREATE TESTS
// =========================================================================

func TestUserCreate(t *testing.T) {
	db := newTestDB(t)

	user := &model.User{
		GitHubID:  12345,
		Login:     "testuser",
		Email:     "test@example.com",
		AvatarURL: "https://example.com/avatar.png",
	}

	if err := db.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if user.ID == "" {
		t.Error("Create() did not set user.ID")
	}
	if user.CreatedAt.IsZero() {
		t.Error("Create() did not set user.CreatedAt")
	}
}

func TestUserCreate_DuplicateGitHubID(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, 99999, "firstuser")

	duplicate := &model.User{GitHubID: 99999, Login: "seconduser"}
	if err := db.Users().Create(context.Background(), duplicate); err == nil {
		t.Fatal("Create() should have returned an error for duplicate github_id")
	}
}

// =========================================================================
// LOOKUP TESTS
// =========================================================================

func TestUserGetUserByID(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, 111, "getbyid_user")

	found, err := db.Users().GetUserByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if found.Login != "getbyid_user" {
		t.Errorf("Login = %q, want %q", found.Login, "getbyid_user")
	}
	if found.GitHubID != 111 {
		t.Errorf("GitHubID = %d, want %d", found.GitHubID, 111)
	}
}

func TestUserGetUserByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Users().GetUserByID(context.Background(), "nonexistent-id")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetUserByID() error = %v, want ErrNotFound", err)
	}
}

func TestUserGetByGitHubID(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, 778899, "github_lookup_user")

	found, err := db.Users().GetByGitHubID(context.Background(), 778899)
	if err != nil {
		t.Fatalf("GetByGitHubID() error = %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("ID = %q, want %q", found.ID, created.ID)
	}
}

// =========================================================================
// UPSERT TESTS
// =========================================================================

func TestUserUpsert_ExistingUser_KeepsIDAndCreatedAt(t *testing.T) {
	db := newTestDB(t)
	users := db.Users()

	first := &model.User{GitHubID: 66666, Login: "original_login", Email: "old@example.com"}
	if err := users.Upsert(context.Background(), first); err != nil {
		t.Fatalf("Upsert() first login: %v", err)
	}

	second := &model.User{GitHubID: 66666, Login: "updated_login", Email: "new@example.com"}
	if err := users.Upsert(context.Background(), second); err != nil {
		t.Fatalf("Upsert() second login: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("Upsert() changed user ID: got %q, want %q", second.ID, first.ID)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("Upsert() changed CreatedAt: got %v, want %v", second.CreatedAt, first.CreatedAt)
	}

	found, err := users.GetByGitHubID(context.Background(), 66666)
	if err != nil {
		t.Fatalf("GetByGitHubID() after second Upsert: %v", err)
	}
	if found.Login != "updated_login" {
		t.Errorf("Login after upsert = %q, want %q", found.Login, "updated_login")
	}
	if found.Email != "new@example.com" {
		t.Errorf("Email after upsert = %q, want %q", found.Email, "new@example.com")
	}
}

// =========================================================================
// LOCAL MODE TESTS
// =========================================================================

func TestUserEnsureLocal_Idempotent(t *testing.T) {
	db := newTestDB(t)
	users := db.Users()

	for i := 0; i < 2; i++ {
		if err := users.EnsureLocal(context.Background(), "local", "hunter"); err != nil {
			t.Fatalf("EnsureLocal() call %d error = %v", i+1, err)
		}
	}

	found, err := users.GetUserByID(context.Background(), "local")
	if err != nil {
		t.Fatalf("GetUserByID(local) error = %v", err)
	}
	if found.GitHubID != 0 {
		t.Errorf("GitHubID = %d, want 0 for the local user", found.GitHubID)
	}
	if found.Login != "hunter" {
		t.Errorf("Login = %q, want %q", found.Login, "hunter")
	}
}
