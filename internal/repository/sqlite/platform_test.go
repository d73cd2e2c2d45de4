package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/bounty-tracker/internal/apperror"
	"github.com/sakif/bounty-tracker/internal/model"
	"github.com/sakif/bounty-tracker/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestPlatform(t *testing.T, db *DB, userID, name string) *model.Platform {
	t.Helper()
	p := &model.Platform{UserID: userID, Name: name, Kind: model.PlatformHackerOne}
	require.NoError(t, db.Platforms().Create(context.Background(), p))
	return p
}

func TestPlatformCRUD(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, 1, "alice")
	platforms := db.Platforms()

	p := &model.Platform{
		UserID: user.ID,
		Name:   "HackerOne",
		URL:    "https://hackerone.com",
		Kind:   model.PlatformHackerOne,
	}
	require.NoError(t, platforms.Create(ctx, p))
	assert.NotEmpty(t, p.ID)

	got, err := platforms.GetByID(ctx, user.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "HackerOne", got.Name)
	assert.Equal(t, model.PlatformHackerOne, got.Kind)

	got.Notes = "main platform"
	require.NoError(t, platforms.Update(ctx, got))

	again, err := platforms.GetByID(ctx, user.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "main platform", again.Notes)

	require.NoError(t, platforms.Delete(ctx, user.ID, p.ID))
	_, err = platforms.GetByID(ctx, user.ID, p.ID)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestPlatformList_SortedAndScopedToUser(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	alice := createTestUser(t, db, 1, "alice")
	bob := createTestUser(t, db, 2, "bob")

	createTestPlatform(t, db, alice.ID, "intigriti")
	createTestPlatform(t, db, alice.ID, "Bugcrowd")
	createTestPlatform(t, db, bob.ID, "HackerOne")

	list, err := db.Platforms().List(ctx, alice.ID, repository.ListOptions{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Bugcrowd", list[0].Name)
	assert.Equal(t, "intigriti", list[1].Name)
}

func TestPlatformGetByID_OtherUserIsNotFound(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, 1, "alice")
	bob := createTestUser(t, db, 2, "bob")
	p := createTestPlatform(t, db, alice.ID, "HackerOne")

	_, err := db.Platforms().GetByID(context.Background(), bob.ID, p.ID)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))

	err = db.Platforms().Delete(context.Background(), bob.ID, p.ID)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestPlatformDelete_CascadesCredentialAndDetachesReports(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, 1, "alice")
	p := createTestPlatform(t, db, user.ID, "HackerOne")

	require.NoError(t, db.Credentials().Upsert(ctx, &model.Credential{
		UserID: user.ID, PlatformID: p.ID, Username: "alice", SealedBlob: []byte{1, 2, 3},
	}))
	report := &model.Report{UserID: user.ID, PlatformID: &p.ID, Title: "XSS", Severity: model.SeverityLow, Status: model.StatusNew}
	require.NoError(t, db.Reports().Create(ctx, report))

	require.NoError(t, db.Platforms().Delete(ctx, user.ID, p.ID))

	_, err := db.Credentials().Get(ctx, user.ID, p.ID)
	assert.True(t, errors.Is(err, apperror.ErrNotFound), "credential should be deleted with its platform")

	got, err := db.Reports().GetByID(ctx, user.ID, report.ID)
	require.NoError(t, err)
	assert.Nil(t, got.PlatformID)
}
