package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sakif/bounty-tracker/internal/apperror"
	"github.com/sakif/bounty-tracker/internal/model"
	"github.com/sakif/bounty-tracker/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBountyCRUD(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, 1, "alice")
	bounties := db.Bounties()

	deadline := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	b := &model.Bounty{
		UserID:        user.ID,
		Title:         "Q4 target",
		TargetAmount:  mustMoney(t, "5000"),
		CurrentAmount: mustMoney(t, "1200.25"),
		Deadline:      &deadline,
	}
	require.NoError(t, bounties.Create(ctx, b))

	got, err := bounties.GetByID(ctx, user.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "5000", got.TargetAmount.String())
	assert.Equal(t, "1200.25", got.CurrentAmount.String())
	require.NotNil(t, got.Deadline)
	assert.True(t, got.Deadline.Equal(deadline))

	got.Deadline = nil
	require.NoError(t, bounties.Update(ctx, got))
	again, err := bounties.GetByID(ctx, user.ID, b.ID)
	require.NoError(t, err)
	assert.Nil(t, again.Deadline)

	require.NoError(t, bounties.Delete(ctx, user.ID, b.ID))
	err = bounties.Delete(ctx, user.ID, b.ID)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestBountyList_NearestDeadlineFirst(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, 1, "alice")

	late := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	soon := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	for _, b := range []*model.Bounty{
		{UserID: user.ID, Title: "open-ended", TargetAmount: mustMoney(t, "10")},
		{UserID: user.ID, Title: "late", TargetAmount: mustMoney(t, "10"), Deadline: &late},
		{UserID: user.ID, Title: "soon", TargetAmount: mustMoney(t, "10"), Deadline: &soon},
	} {
		require.NoError(t, db.Bounties().Create(ctx, b))
	}

	list, err := db.Bounties().List(ctx, user.ID, repository.ListOptions{})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "soon", list[0].Title)
	assert.Equal(t, "late", list[1].Title)
	assert.Equal(t, "open-ended", list[2].Title)
}
