package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/bounty-tracker/internal/apperror"
	"github.com/sakif/bounty-tracker/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialUpsert_ReplacesAndKeepsOnePerPlatform(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, 1, "alice")
	p := createTestPlatform(t, db, user.ID, "HackerOne")
	creds := db.Credentials()

	require.NoError(t, creds.Upsert(ctx, &model.Credential{
		UserID: user.ID, PlatformID: p.ID, Username: "old", SealedBlob: []byte("first"),
	}))
	require.NoError(t, creds.Upsert(ctx, &model.Credential{
		UserID: user.ID, PlatformID: p.ID, Username: "new", SealedBlob: []byte("second"),
	}))

	got, err := creds.Get(ctx, user.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Username)
	assert.Equal(t, []byte("second"), got.SealedBlob)

	var n int
	require.NoError(t, db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM platform_credentials`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestCredentialGet_Missing(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, 1, "alice")

	_, err := db.Credentials().Get(context.Background(), user.ID, "nope")
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestCredentialDelete(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, 1, "alice")
	p := createTestPlatform(t, db, user.ID, "HackerOne")

	require.NoError(t, db.Credentials().Upsert(ctx, &model.Credential{
		UserID: user.ID, PlatformID: p.ID, Username: "alice", SealedBlob: []byte("x"),
	}))
	require.NoError(t, db.Credentials().Delete(ctx, user.ID, p.ID))

	err := db.Credentials().Delete(ctx, user.ID, p.ID)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}
