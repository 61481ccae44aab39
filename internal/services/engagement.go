package services

import (
	"errors"
	"strings"
	"tipstock/internal/config"
	"tipstock/internal/db"
	"tipstock/internal/models"

	"gorm.io/gorm"
)

// minTipsForLike is the anti-abuse gate: users must have registered at
// least this many tips of their own before liking others'.
const minTipsForLike = 2

// AddComment validates and persists a comment with its recipient links and
// the notification fan-out in one transaction. noRecipient means the
// author explicitly chose "no recipients"; an empty list without that flag
// is a mistake we reject.
func AddComment(tipID uint, author *models.User, text string, recipientIDs []uint, noRecipient bool) (*models.Comment, error) {
	tip, err := findTip(tipID)
	if err != nil {
		return nil, err
	}
	if !tip.IsPublic() {
		return nil, &PermissionError{Message: "this tip cannot be commented on"}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &ValidationError{Field: "text", Message: "comment text is required"}
	}
	for _, banned := range config.Get().BannedWords {
		if text == banned {
			return nil, &ValidationError{Field: "text", Message: "do not use abusive language in comments"}
		}
	}
	if len(recipientIDs) == 0 && !noRecipient {
		return nil, &ValidationError{Field: "to_users", Message: "no recipients specified"}
	}

	comment := models.Comment{
		TipID:       tip.ID,
		Text:        text,
		CreatedByID: author.ID,
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		var maxNo int
		if err := tx.Model(&models.Comment{}).Where("tip_id = ?", tip.ID).
			Select("COALESCE(MAX(no), 0)").Scan(&maxNo).Error; err != nil {
			return err
		}
		comment.No = maxNo + 1

		if err := tx.Create(&comment).Error; err != nil {
			return err
		}

		for _, id := range recipientIDs {
			var recipient models.User
			if err := tx.First(&recipient, id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &ValidationError{Field: "to_users", Message: "unknown recipient"}
				}
				return err
			}
			if err := tx.Model(&comment).Association("Recipients").Append(&recipient); err != nil {
				return err
			}
			// Self-addressed recipients keep the link but get no inbox entry.
			if recipient.ID == author.ID {
				continue
			}
			if err := createNotification(tx, &recipient, models.NotificationComment, tip, "", author); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// DeleteComment hard-deletes one comment by its per-tip number. Later
// comments keep their numbers; notifications already sent stay sent.
func DeleteComment(tipID uint, no int, requester *models.User) error {
	var comment models.Comment
	err := db.DB.Where("tip_id = ? AND no = ?", tipID, no).First(&comment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Resource: "comment"}
	}
	if err != nil {
		return err
	}
	if comment.CreatedByID != requester.ID {
		return &PermissionError{Message: "you cannot delete this comment"}
	}

	return db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM comment_recipients WHERE comment_id = ?", comment.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&comment).Error
	})
}

// AddLike records a like. Returns already=true (no error) when the like
// exists; the unique index decides duplicate races, not this check.
func AddLike(tipID uint, user *models.User) (already bool, err error) {
	tip, err := findTip(tipID)
	if err != nil {
		return false, err
	}
	if err := likeGate(tip, user); err != nil {
		return false, err
	}

	var existing models.Like
	if err := db.DB.Where("tip_id = ? AND user_id = ?", tip.ID, user.ID).First(&existing).Error; err == nil {
		return true, nil
	}

	var ownTips int64
	db.DB.Model(&models.Tip{}).Where("created_by_id = ?", user.ID).Count(&ownTips)
	if ownTips < minTipsForLike {
		return false, &BusinessRuleError{Message: "liking requires at least 2 registered tips"}
	}

	like := models.Like{TipID: tip.ID, UserID: user.ID}
	if err := db.DB.Create(&like).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return true, nil
		}
		return false, err
	}
	return false, nil
}

// RemoveLike deletes the single like row for (tip, user). Returns
// already=true when there was nothing to remove.
func RemoveLike(tipID uint, user *models.User) (already bool, err error) {
	tip, err := findTip(tipID)
	if err != nil {
		return false, err
	}
	if err := likeGate(tip, user); err != nil {
		return false, err
	}

	res := db.DB.Where("tip_id = ? AND user_id = ?", tip.ID, user.ID).Delete(&models.Like{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 0, nil
}

// likeGate applies the shared visibility/ownership rule of both like
// operations.
func likeGate(tip *models.Tip, user *models.User) error {
	if !tip.IsPublic() {
		return &PermissionError{Message: "this tip cannot be liked"}
	}
	if tip.CreatedByID == user.ID {
		return &PermissionError{Message: "you cannot like your own tip"}
	}
	return nil
}

// Follow makes actor follow target. The relation is asymmetric; only the
// first follow notifies.
func Follow(actor *models.User, targetID uint) (already bool, err error) {
	if actor.ID == targetID {
		return false, &ValidationError{Field: "user", Message: "you cannot follow yourself"}
	}
	var target models.User
	if err := db.DB.First(&target, targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, &NotFoundError{Resource: "user"}
		}
		return false, err
	}

	var n int64
	db.DB.Table("user_follows").Where("user_id = ? AND follow_id = ?", actor.ID, target.ID).Count(&n)
	if n > 0 {
		return true, nil
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(actor).Association("Follows").Append(&target); err != nil {
			return err
		}
		return createNotification(tx, &target, models.NotificationFollow, nil, actor.Username+" started following you", actor)
	})
	if err != nil {
		return false, err
	}
	return false, nil
}

// Unfollow removes the relation if present; removing an absent relation
// is a no-op.
func Unfollow(actor *models.User, targetID uint) (already bool, err error) {
	if actor.ID == targetID {
		return false, &ValidationError{Field: "user", Message: "you cannot unfollow yourself"}
	}
	var target models.User
	if err := db.DB.First(&target, targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, &NotFoundError{Resource: "user"}
		}
		return false, err
	}

	var n int64
	db.DB.Table("user_follows").Where("user_id = ? AND follow_id = ?", actor.ID, target.ID).Count(&n)
	if n == 0 {
		return true, nil
	}
	if err := db.DB.Model(actor).Association("Follows").Delete(&target); err != nil {
		return false, err
	}
	return false, nil
}
