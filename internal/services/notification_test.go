package services

import (
	"fmt"
	"testing"
	"tipstock/internal/db"
	"tipstock/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commentNotification(t *testing.T, tip *models.Tip, to *models.User, from *models.User) models.Notification {
	t.Helper()
	_, err := AddComment(tip.ID, from, "ping", []uint{to.ID}, false)
	require.NoError(t, err)

	var n models.Notification
	require.NoError(t, db.DB.Where("to_user_id = ?", to.ID).Order("id DESC").First(&n).Error)
	return n
}

func TestListNotificationsDisplay(t *testing.T) {
	setupTestDB(t)
	owner := testUser(t, "owner")
	commenter := testUser(t, "commenter")
	tip := testTip(t, owner, "busy", models.TipPublic)

	first := commentNotification(t, tip, owner, commenter)
	commentNotification(t, tip, owner, commenter)
	require.NoError(t, db.DB.Model(&first).Update("is_read", true).Error)

	unread, err := ListNotifications(owner, DisplayUnread)
	require.NoError(t, err)
	assert.Len(t, unread, 1, "default view hides read entries")

	all, err := ListNotifications(owner, DisplayAll)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.False(t, all[0].IsRead, "unread entries sort first")
	assert.True(t, all[1].IsRead)
}

func TestMarkAllRead(t *testing.T) {
	setupTestDB(t)
	owner := testUser(t, "owner")
	commenter := testUser(t, "commenter")
	tip := testTip(t, owner, "busy", models.TipPublic)

	for i := 0; i < 3; i++ {
		commentNotification(t, tip, owner, commenter)
	}
	require.EqualValues(t, 3, UnreadCount(owner.ID))

	require.NoError(t, MarkAllRead(owner))
	assert.Zero(t, UnreadCount(owner.ID))

	unread, err := ListNotifications(owner, DisplayUnread)
	require.NoError(t, err)
	assert.Empty(t, unread)
}

func TestOpenNotification(t *testing.T) {
	setupTestDB(t)
	owner := testUser(t, "owner")
	commenter := testUser(t, "commenter")
	stranger := testUser(t, "stranger")
	tip := testTip(t, owner, "busy", models.TipPublic)

	n := commentNotification(t, tip, owner, commenter)

	_, err := OpenNotification(stranger, n.ID)
	assert.True(t, IsPermission(err), "foreign notifications are off limits")

	_, err = OpenNotification(owner, 99999)
	assert.True(t, IsPermission(err), "unknown ids look the same as foreign ones")

	target, err := OpenNotification(owner, n.ID)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("/tips/%d", tip.ID), target)

	var reloaded models.Notification
	require.NoError(t, db.DB.First(&reloaded, n.ID).Error)
	assert.True(t, reloaded.IsRead)

	// Opening again is idempotent.
	_, err = OpenNotification(owner, n.ID)
	assert.NoError(t, err)
}

func TestOpenNotificationFollowHasNoDestination(t *testing.T) {
	setupTestDB(t)
	actor := testUser(t, "actor")
	target := testUser(t, "target")

	_, err := Follow(actor, target.ID)
	require.NoError(t, err)

	var n models.Notification
	require.NoError(t, db.DB.Where("to_user_id = ?", target.ID).First(&n).Error)

	_, err = OpenNotification(target, n.ID)
	assert.True(t, IsValidation(err))

	// It still counts as read after the failed jump.
	var reloaded models.Notification
	require.NoError(t, db.DB.First(&reloaded, n.ID).Error)
	assert.True(t, reloaded.IsRead)
}

func TestEventNotification(t *testing.T) {
	setupTestDB(t)
	user := testUser(t, "user")
	ghost := inactiveUser(t, "ghost")
	tip := testTip(t, user, "announced", models.TipPublic)

	require.NoError(t, CreateEventNotification(user, tip, "maintenance tonight"))
	require.NoError(t, CreateEventNotification(ghost, tip, "maintenance tonight"))

	assert.EqualValues(t, 1, UnreadCount(user.ID))
	assert.Zero(t, UnreadCount(ghost.ID), "inactive users receive nothing")

	var n models.Notification
	require.NoError(t, db.DB.Where("to_user_id = ?", user.ID).First(&n).Error)
	assert.Nil(t, n.CreatedByID, "system events carry no actor")

	target, err := OpenNotification(user, n.ID)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("/tips/%d", tip.ID), target)
}
