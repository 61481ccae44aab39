package services

import (
	"testing"
	"tipstock/internal/db"
	"tipstock/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddCommentNumbering(t *testing.T) {
	setupTestDB(t)
	owner := testUser(t, "owner")
	commenter := testUser(t, "commenter")
	tip := testTip(t, owner, "discussed", models.TipPublic)

	first, err := AddComment(tip.ID, commenter, "first", nil, true)
	require.NoError(t, err)
	second, err := AddComment(tip.ID, commenter, "second", nil, true)
	require.NoError(t, err)
	assert.Equal(t, 1, first.No)
	assert.Equal(t, 2, second.No)

	// Deleting the latest comment frees its number; deleting an earlier
	// one must not renumber anything.
	require.NoError(t, DeleteComment(tip.ID, 1, commenter))
	third, err := AddComment(tip.ID, commenter, "third", nil, true)
	require.NoError(t, err)
	assert.Equal(t, 3, third.No, "numbering continues from the surviving maximum")
}

func TestAddCommentGates(t *testing.T) {
	setupTestDB(t)
	owner := testUser(t, "owner")
	commenter := testUser(t, "commenter")
	private := testTip(t, owner, "hidden", models.TipPrivate)
	public := testTip(t, owner, "open", models.TipPublic)

	_, err := AddComment(private.ID, commenter, "hello", nil, true)
	assert.True(t, IsPermission(err), "private tips take no comments")

	_, err = AddComment(public.ID, commenter, "   ", nil, true)
	assert.True(t, IsValidation(err), "blank text rejected")

	_, err = AddComment(public.ID, commenter, "ばか", nil, true)
	assert.True(t, IsValidation(err), "banned word rejected")

	// The banned list matches whole comments, not substrings.
	_, err = AddComment(public.ID, commenter, "ばかばかしい話ですが", nil, true)
	assert.NoError(t, err)

	_, err = AddComment(public.ID, commenter, "hello", nil, false)
	assert.True(t, IsValidation(err), "recipients required unless explicitly waived")

	_, err = AddComment(public.ID, commenter, "hello", []uint{99999}, false)
	assert.True(t, IsValidation(err), "unknown recipient rejected")
}

func TestAddCommentFanOut(t *testing.T) {
	setupTestDB(t)
	owner := testUser(t, "owner")
	commenter := testUser(t, "commenter")
	ghost := inactiveUser(t, "ghost")
	tip := testTip(t, owner, "busy tip", models.TipPublic)

	comment, err := AddComment(tip.ID, commenter, "hello everyone",
		[]uint{owner.ID, ghost.ID, commenter.ID}, false)
	require.NoError(t, err)

	var links int64
	db.DB.Table("comment_recipients").Where("comment_id = ?", comment.ID).Count(&links)
	assert.EqualValues(t, 3, links, "all recipients stay linked to the comment")

	var notifications []models.Notification
	db.DB.Where("tip_id = ?", tip.ID).Find(&notifications)
	require.Len(t, notifications, 1, "inactive users and the author get no notification")
	assert.Equal(t, owner.ID, notifications[0].ToUserID)
	assert.Equal(t, models.NotificationComment, notifications[0].Category)
	require.NotNil(t, notifications[0].CreatedByID)
	assert.Equal(t, commenter.ID, *notifications[0].CreatedByID)
}

func TestDeleteCommentPermissions(t *testing.T) {
	setupTestDB(t)
	owner := testUser(t, "owner")
	commenter := testUser(t, "commenter")
	tip := testTip(t, owner, "discussed", models.TipPublic)

	comment, err := AddComment(tip.ID, commenter, "mine", nil, true)
	require.NoError(t, err)

	assert.True(t, IsPermission(DeleteComment(tip.ID, comment.No, owner)),
		"even the tip owner cannot delete someone else's comment")
	assert.True(t, IsNotFound(DeleteComment(tip.ID, 42, commenter)))
	assert.NoError(t, DeleteComment(tip.ID, comment.No, commenter))
}

func TestAddLikeGates(t *testing.T) {
	setupTestDB(t)
	owner := testUser(t, "owner")
	fan := testUser(t, "fan")
	private := testTip(t, owner, "hidden", models.TipPrivate)
	public := testTip(t, owner, "open", models.TipPublic)

	_, err := AddLike(private.ID, fan)
	assert.True(t, IsPermission(err), "private tips take no likes")

	_, err = AddLike(public.ID, owner)
	assert.True(t, IsPermission(err), "own tips take no likes")

	_, err = AddLike(public.ID, fan)
	assert.True(t, IsBusinessRule(err), "liking needs two own tips first")

	withOwnTips(t, fan, 2)
	already, err := AddLike(public.ID, fan)
	require.NoError(t, err)
	assert.False(t, already)

	already, err = AddLike(public.ID, fan)
	require.NoError(t, err)
	assert.True(t, already, "second like is a no-op, not an error")
}

func TestRemoveLike(t *testing.T) {
	setupTestDB(t)
	owner := testUser(t, "owner")
	fan := testUser(t, "fan")
	withOwnTips(t, fan, 2)
	tip := testTip(t, owner, "open", models.TipPublic)

	already, err := RemoveLike(tip.ID, fan)
	require.NoError(t, err)
	assert.True(t, already, "removing an absent like is a no-op")

	_, err = AddLike(tip.ID, fan)
	require.NoError(t, err)

	already, err = RemoveLike(tip.ID, fan)
	require.NoError(t, err)
	assert.False(t, already)

	var n int64
	db.DB.Model(&models.Like{}).Where("tip_id = ?", tip.ID).Count(&n)
	assert.Zero(t, n)
}

func TestFollow(t *testing.T) {
	setupTestDB(t)
	actor := testUser(t, "actor")
	target := testUser(t, "target")

	_, err := Follow(actor, actor.ID)
	assert.True(t, IsValidation(err), "self-follow rejected")

	_, err = Follow(actor, 99999)
	assert.True(t, IsNotFound(err))

	already, err := Follow(actor, target.ID)
	require.NoError(t, err)
	assert.False(t, already)

	already, err = Follow(actor, target.ID)
	require.NoError(t, err)
	assert.True(t, already)

	var notifications []models.Notification
	db.DB.Where("to_user_id = ?", target.ID).Find(&notifications)
	require.Len(t, notifications, 1, "only the first follow notifies")
	assert.Equal(t, models.NotificationFollow, notifications[0].Category)

	assert.True(t, IsFollowing(actor.ID, target.ID))
	follows, followers := FollowCounts(actor.ID)
	assert.EqualValues(t, 1, follows)
	assert.EqualValues(t, 0, followers)
}

func TestUnfollow(t *testing.T) {
	setupTestDB(t)
	actor := testUser(t, "actor")
	target := testUser(t, "target")

	already, err := Unfollow(actor, target.ID)
	require.NoError(t, err)
	assert.True(t, already, "unfollowing a stranger is a no-op")

	_, err = Follow(actor, target.ID)
	require.NoError(t, err)

	already, err = Unfollow(actor, target.ID)
	require.NoError(t, err)
	assert.False(t, already)
	assert.False(t, IsFollowing(actor.ID, target.ID))
}
