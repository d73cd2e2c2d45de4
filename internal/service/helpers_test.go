package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/sakif/bounty-tracker/internal/model"
	"github.com/sakif/bounty-tracker/internal/repository/sqlite"
)

// Most services are tested against a real in-memory database: the stores
// are small and already tested on their own, and exercising the real
// ownership checks catches more than a fake would.

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// createUser inserts a user and returns its ID.
func createUser(t *testing.T, db *sqlite.DB, githubID int64) string {
	t.Helper()
	u := &model.User{GitHubID: githubID, Login: "hunter"}
	if err := db.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return u.ID
}

func money(t *testing.T, s string) model.Money {
	t.Helper()
	m, err := model.ParseMoney(s)
	if err != nil {
		t.Fatalf("ParseMoney(%q): %v", s, err)
	}
	return m
}

func ptr[T any](v T) *T { return &v }
