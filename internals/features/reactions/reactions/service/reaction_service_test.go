package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ilmhub_backend/internals/constants"
	"ilmhub_backend/internals/features/reactions/reactions/model"
	"ilmhub_backend/internals/features/reactions/reactions/service"
	"ilmhub_backend/internals/testkit"
)

func TestToggle_TwiceRestoresOriginalState(t *testing.T) {
	db := testkit.NewDB(t, &model.ReactionModel{})
	svc := service.NewReactionService(db)
	ctx := context.Background()
	target := uuid.New()

	before, err := svc.IsActive(ctx, constants.ReactionLike, constants.TargetVideo, target, "user_1")
	require.NoError(t, err)
	assert.False(t, before)

	first, err := svc.Toggle(ctx, constants.ReactionLike, constants.TargetVideo, target, "user_1")
	require.NoError(t, err)
	assert.True(t, first.Active)
	assert.Equal(t, int64(1), first.Count)

	second, err := svc.Toggle(ctx, constants.ReactionLike, constants.TargetVideo, target, "user_1")
	require.NoError(t, err)
	assert.False(t, second.Active)
	assert.Equal(t, int64(0), second.Count)

	after, err := svc.IsActive(ctx, constants.ReactionLike, constants.TargetVideo, target, "user_1")
	require.NoError(t, err)
	assert.Equal(t, before, after)

	var rows int64
	require.NoError(t, db.Model(&model.ReactionModel{}).Count(&rows).Error)
	assert.Equal(t, int64(1), rows, "a toggle never duplicates the row")
}

func TestToggle_KindsAndUsersAreIndependent(t *testing.T) {
	db := testkit.NewDB(t, &model.ReactionModel{})
	svc := service.NewReactionService(db)
	ctx := context.Background()
	target := uuid.New()

	_, err := svc.Toggle(ctx, constants.ReactionLike, constants.TargetMasalah, target, "user_1")
	require.NoError(t, err)
	res, err := svc.Toggle(ctx, constants.ReactionLike, constants.TargetMasalah, target, "user_2")
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Count)

	bm, err := svc.Toggle(ctx, constants.ReactionBookmark, constants.TargetMasalah, target, "user_1")
	require.NoError(t, err)
	assert.True(t, bm.Active)
	assert.Equal(t, int64(1), bm.Count)

	ids, err := svc.ActiveTargetIDs(ctx, constants.ReactionBookmark, constants.TargetMasalah, "user_1")
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{target}, ids)

	users, err := svc.ActiveUserIDs(ctx, constants.ReactionLike, constants.TargetMasalah, target)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"user_1", "user_2"}, users)

	counts, err := svc.Counts(ctx, constants.ReactionLike, constants.TargetMasalah, []uuid.UUID{target, uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[target])
}
