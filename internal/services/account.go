package services

import (
	"errors"
	"strings"
	"tipstock/internal/db"
	"tipstock/internal/models"
	"tipstock/internal/utils"

	"gorm.io/gorm"
)

const verificationCodeLen = 6

// Signup creates an inactive user and its unverified email record. The
// returned code goes out by mail; the account activates on VerifyEmail.
func Signup(username, email, password string) (*models.User, string, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" {
		return nil, "", &ValidationError{Field: "username", Message: "username is required"}
	}
	if !strings.Contains(email, "@") {
		return nil, "", &ValidationError{Field: "email", Message: "enter a valid email address"}
	}
	if len(password) < 6 {
		return nil, "", &ValidationError{Field: "password", Message: "password must be at least 6 characters"}
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	user := models.User{
		Username: username,
		Email:    email,
		Password: hash,
		IsActive: false,
	}
	code := utils.GenerateRandomCode(verificationCodeLen)

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return &ValidationError{Field: "email", Message: "this username or email is already registered"}
			}
			return err
		}
		verification := models.EmailVerification{
			UserID: user.ID,
			Email:  email,
			Code:   code,
		}
		return tx.Create(&verification).Error
	})
	if err != nil {
		return nil, "", err
	}
	return &user, code, nil
}

// VerifyEmail completes the verification flow: the email record flips to
// verified and the account becomes active.
func VerifyEmail(email, code string) (*models.User, error) {
	var verification models.EmailVerification
	err := db.DB.Where("email = ?", email).First(&verification).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &ValidationError{Field: "email", Message: "verification failed"}
	}
	if err != nil {
		return nil, err
	}
	if verification.Code == "" || verification.Code != code {
		return nil, &ValidationError{Field: "code", Message: "the verification code is wrong or expired"}
	}

	var user models.User
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&verification).Updates(map[string]interface{}{
			"verified": true,
			"code":     "",
		}).Error; err != nil {
			return err
		}
		if err := tx.First(&user, verification.UserID).Error; err != nil {
			return err
		}
		return tx.Model(&user).Update("is_active", true).Error
	})
	if err != nil {
		return nil, err
	}
	user.IsActive = true
	return &user, nil
}

// Authenticate checks credentials for login. Inactive accounts (not yet
// verified, or withdrawn) cannot log in.
func Authenticate(email, password string) (*models.User, error) {
	var user models.User
	if err := db.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, &ValidationError{Message: "wrong email or password"}
	}
	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, &ValidationError{Message: "wrong email or password"}
	}
	if !user.IsActive {
		return nil, &PermissionError{Message: "this account is not active"}
	}
	return &user, nil
}

// UpdateProfile edits the mutable profile fields. An empty iconPath keeps
// the current icon.
func UpdateProfile(user *models.User, username, introduction, iconPath string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return &ValidationError{Field: "username", Message: "username is required"}
	}
	updates := map[string]interface{}{
		"username":     username,
		"introduction": introduction,
	}
	if iconPath != "" {
		updates["icon"] = iconPath
	}
	if err := db.DB.Model(user).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &ValidationError{Field: "username", Message: "this username is taken"}
		}
		return err
	}
	return nil
}

// Withdraw deactivates the account: notifications and email records go
// away, private tips optionally go with them, the icon is cleared and the
// active flag drops. Public tips always survive.
func Withdraw(user *models.User, keepPrivateTips bool) error {
	return db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("to_user_id = ?", user.ID).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.EmailVerification{}).Error; err != nil {
			return err
		}

		if !keepPrivateTips {
			var privateTipIDs []uint
			if err := tx.Model(&models.Tip{}).
				Where("created_by_id = ? AND visibility = ?", user.ID, models.TipPrivate).
				Pluck("id", &privateTipIDs).Error; err != nil {
				return err
			}
			if err := deleteTipsCascade(tx, privateTipIDs); err != nil {
				return err
			}
		}

		if err := tx.Model(user).Updates(map[string]interface{}{
			"icon":      "",
			"is_active": false,
		}).Error; err != nil {
			return err
		}
		user.Icon = ""
		user.IsActive = false
		return nil
	})
}

// Reregister restarts verification for a withdrawn account. Unknown and
// still-active emails get the same generic error so the endpoint cannot
// be used to probe for accounts.
func Reregister(email string) (*models.User, string, error) {
	genericErr := &ValidationError{Field: "email", Message: "re-registration could not be accepted for this email"}

	var user models.User
	if err := db.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, "", genericErr
	}
	if user.IsActive {
		return nil, "", genericErr
	}

	code := utils.GenerateRandomCode(verificationCodeLen)
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var verification models.EmailVerification
		err := tx.Where("user_id = ?", user.ID).First(&verification).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			verification = models.EmailVerification{UserID: user.ID, Email: user.Email, Code: code}
			return tx.Create(&verification).Error
		}
		if err != nil {
			return err
		}
		return tx.Model(&verification).Updates(map[string]interface{}{
			"verified": false,
			"code":     code,
		}).Error
	})
	if err != nil {
		return nil, "", err
	}
	return &user, code, nil
}

// IsFollowing reports whether actor follows target.
func IsFollowing(actorID, targetID uint) bool {
	var n int64
	db.DB.Table("user_follows").Where("user_id = ? AND follow_id = ?", actorID, targetID).Count(&n)
	return n > 0
}

// FollowCounts returns how many users the given user follows and is
// followed by.
func FollowCounts(userID uint) (follows int64, followers int64) {
	db.DB.Table("user_follows").Where("user_id = ?", userID).Count(&follows)
	db.DB.Table("user_follows").Where("follow_id = ?", userID).Count(&followers)
	return follows, followers
}
