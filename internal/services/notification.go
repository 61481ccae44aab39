package services

import (
	"errors"
	"fmt"
	"tipstock/internal/db"
	"tipstock/internal/models"

	"gorm.io/gorm"
)

const (
	DisplayUnread = "unread"
	DisplayAll    = "all"
)

// createNotification writes one inbox entry inside the caller's
// transaction. Inactive recipients are skipped silently; system events
// carry no actor.
func createNotification(tx *gorm.DB, toUser *models.User, category models.NotificationCategory, tip *models.Tip, content string, actor *models.User) error {
	if !toUser.IsActive {
		return nil
	}

	n := models.Notification{
		ToUserID: toUser.ID,
		Category: category,
		Content:  content,
	}
	if tip != nil {
		n.TipID = &tip.ID
	}
	if category != models.NotificationEvent && actor != nil {
		n.CreatedByID = &actor.ID
	}
	return tx.Create(&n).Error
}

// CreateEventNotification records a system announcement for one user.
func CreateEventNotification(toUser *models.User, tip *models.Tip, content string) error {
	return createNotification(db.DB, toUser, models.NotificationEvent, tip, content, nil)
}

// ListNotifications returns the user's inbox, unread only by default,
// unread entries first and newest first within each group.
func ListNotifications(user *models.User, display string) ([]models.Notification, error) {
	qdb := db.DB.Preload("CreatedBy").Preload("Tip").
		Where("to_user_id = ?", user.ID)
	if display != DisplayAll {
		qdb = qdb.Where("is_read = ?", false)
	}

	var notifications []models.Notification
	err := qdb.Order("is_read ASC, created_at DESC").Find(&notifications).Error
	return notifications, err
}

// MarkAllRead flips every unread notification of the user. A combined
// "mark all, then list unread" request therefore returns nothing.
func MarkAllRead(user *models.User) error {
	return db.DB.Model(&models.Notification{}).
		Where("to_user_id = ? AND is_read = ?", user.ID, false).
		Update("is_read", true).Error
}

// OpenNotification marks one entry read and resolves where it links to.
// Foreign (or unknown) ids are a permission failure, matching the view it
// replaces.
func OpenNotification(user *models.User, notificationID uint) (string, error) {
	var n models.Notification
	err := db.DB.First(&n, notificationID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", &PermissionError{Message: "this notification is not yours"}
	}
	if err != nil {
		return "", err
	}
	if n.ToUserID != user.ID {
		return "", &PermissionError{Message: "this notification is not yours"}
	}

	if !n.IsRead {
		if err := db.DB.Model(&n).Update("is_read", true).Error; err != nil {
			return "", err
		}
	}

	switch n.Category {
	case models.NotificationComment, models.NotificationEvent:
		if n.TipID == nil {
			return "", &NotFoundError{Resource: "tip"}
		}
		return fmt.Sprintf("/tips/%d", *n.TipID), nil
	default:
		// follow (and anything unknown) has no destination view yet;
		// surface it instead of silently falling through.
		return "", &ValidationError{Field: "category", Message: fmt.Sprintf("notification category %q has no destination", n.Category)}
	}
}

// UnreadCount feeds the navigation badge.
func UnreadCount(userID uint) int64 {
	var count int64
	db.DB.Model(&models.Notification{}).
		Where("to_user_id = ? AND is_read = ?", userID, false).
		Count(&count)
	return count
}
