package services

import (
	"errors"
	"strings"
	"tipstock/internal/config"
	"tipstock/internal/db"
	"tipstock/internal/models"

	"gorm.io/gorm"
)

type CodeInput struct {
	Filename string
	Content  string
}

type TipInput struct {
	Title       string
	Description string
	URL         string
	Visibility  string
	Tags        []string
	Codes       []CodeInput
	UploadFile  string
}

func (in *TipInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	if len([]rune(in.Title)) > 25 {
		return &ValidationError{Field: "title", Message: "title must be 25 characters or fewer"}
	}
	if strings.TrimSpace(in.Description) == "" {
		return &ValidationError{Field: "description", Message: "description is required"}
	}
	if in.Visibility != models.TipPrivate && in.Visibility != models.TipPublic {
		return &ValidationError{Field: "public_set", Message: "visibility must be private or public"}
	}
	c := config.Get()
	if len(in.Codes) < c.MinCodesPerTip || len(in.Codes) > c.MaxCodesPerTip {
		return &ValidationError{Field: "codes", Message: "a tip needs between 1 and 5 code snippets"}
	}
	for _, code := range in.Codes {
		if strings.TrimSpace(code.Content) == "" {
			return &ValidationError{Field: "codes", Message: "code content is required"}
		}
	}
	if len(in.Tags) > c.MaxTagsPerTip {
		return &ValidationError{Field: "tags", Message: "use 5 tags or fewer"}
	}
	return nil
}

// CreateTip persists a tip with its codes and tags. The private quota is
// checked here, at creation only; existing tips are never re-validated
// against a lowered quota.
func CreateTip(author *models.User, in TipInput) (*models.Tip, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	if in.Visibility == models.TipPrivate {
		var privateCount int64
		db.DB.Model(&models.Tip{}).
			Where("created_by_id = ? AND visibility = ?", author.ID, models.TipPrivate).
			Count(&privateCount)
		if privateCount >= int64(config.Get().PrivateTipsLimit) {
			return nil, &BusinessRuleError{Message: "you have reached the private tip limit"}
		}
	}

	tip := models.Tip{
		Title:       in.Title,
		Description: in.Description,
		URL:         in.URL,
		UploadFile:  in.UploadFile,
		Visibility:  in.Visibility,
		CreatedByID: author.ID,
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&tip).Error; err != nil {
			return err
		}
		for _, code := range in.Codes {
			c := models.Code{TipID: tip.ID, Filename: code.Filename, Content: code.Content}
			if err := tx.Create(&c).Error; err != nil {
				return err
			}
		}
		tags, err := findOrCreateTags(tx, in.Tags)
		if err != nil {
			return err
		}
		return tx.Model(&tip).Association("Tags").Replace(tags)
	})
	if err != nil {
		return nil, err
	}
	return &tip, nil
}

// UpdateTip replaces the editable fields of an owned tip. Codes are
// rewritten wholesale, matching the form's formset semantics.
func UpdateTip(requester *models.User, tipID uint, in TipInput) (*models.Tip, error) {
	tip, err := findTip(tipID)
	if err != nil {
		return nil, err
	}
	if tip.CreatedByID != requester.ID {
		return nil, &PermissionError{Message: "you cannot edit this tip"}
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		tip.Title = in.Title
		tip.Description = in.Description
		tip.URL = in.URL
		tip.Visibility = in.Visibility
		if in.UploadFile != "" {
			tip.UploadFile = in.UploadFile
		}
		if err := tx.Save(tip).Error; err != nil {
			return err
		}
		if err := tx.Where("tip_id = ?", tip.ID).Delete(&models.Code{}).Error; err != nil {
			return err
		}
		for _, code := range in.Codes {
			c := models.Code{TipID: tip.ID, Filename: code.Filename, Content: code.Content}
			if err := tx.Create(&c).Error; err != nil {
				return err
			}
		}
		tags, err := findOrCreateTags(tx, in.Tags)
		if err != nil {
			return err
		}
		return tx.Model(tip).Association("Tags").Replace(tags)
	})
	if err != nil {
		return nil, err
	}
	return tip, nil
}

// DeleteTip removes an owned tip and everything hanging off it.
func DeleteTip(requester *models.User, tipID uint) error {
	tip, err := findTip(tipID)
	if err != nil {
		return err
	}
	if tip.CreatedByID != requester.ID {
		return &PermissionError{Message: "you cannot delete this tip"}
	}
	return db.DB.Transaction(func(tx *gorm.DB) error {
		return deleteTipsCascade(tx, []uint{tip.ID})
	})
}

// GetTip loads a tip with its children, enforcing the visibility
// invariant: a non-owner may only see public tips.
func GetTip(viewer *models.User, tipID uint) (*models.Tip, error) {
	var tip models.Tip
	err := db.DB.Preload("Tags").Preload("CreatedBy").First(&tip, tipID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Resource: "tip"}
	}
	if err != nil {
		return nil, err
	}
	if !tip.IsPublic() && (viewer == nil || viewer.ID != tip.CreatedByID) {
		return nil, &PermissionError{Message: "this tip is private"}
	}
	return &tip, nil
}

// TipDetail is everything the detail view needs in one shot.
type TipDetail struct {
	Tip       *models.Tip
	Codes     []models.Code
	Comments  []models.Comment
	LikeCount int64
	IsLiked   bool
}

func GetTipDetail(viewer *models.User, tipID uint) (*TipDetail, error) {
	tip, err := GetTip(viewer, tipID)
	if err != nil {
		return nil, err
	}

	d := &TipDetail{Tip: tip}
	if err := db.DB.Where("tip_id = ?", tip.ID).Order("id ASC").Find(&d.Codes).Error; err != nil {
		return nil, err
	}
	if err := db.DB.Preload("CreatedBy").Preload("Recipients").
		Where("tip_id = ?", tip.ID).Order("no ASC").Find(&d.Comments).Error; err != nil {
		return nil, err
	}
	db.DB.Model(&models.Like{}).Where("tip_id = ?", tip.ID).Count(&d.LikeCount)
	if viewer != nil {
		var n int64
		db.DB.Model(&models.Like{}).Where("tip_id = ? AND user_id = ?", tip.ID, viewer.ID).Count(&n)
		d.IsLiked = n > 0
	}
	return d, nil
}

func findTip(tipID uint) (*models.Tip, error) {
	var tip models.Tip
	err := db.DB.First(&tip, tipID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Resource: "tip"}
	}
	if err != nil {
		return nil, err
	}
	return &tip, nil
}

func findOrCreateTags(tx *gorm.DB, names []string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		var tag models.Tag
		if err := tx.Where("name = ?", name).FirstOrCreate(&tag, models.Tag{Name: name}).Error; err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// deleteTipsCascade hard-deletes tips and all dependent rows inside the
// caller's transaction. Explicit so the cascade behaves identically on
// every driver regardless of FK enforcement.
func deleteTipsCascade(tx *gorm.DB, tipIDs []uint) error {
	if len(tipIDs) == 0 {
		return nil
	}
	var commentIDs []uint
	if err := tx.Model(&models.Comment{}).Where("tip_id IN ?", tipIDs).Pluck("id", &commentIDs).Error; err != nil {
		return err
	}
	if len(commentIDs) > 0 {
		if err := tx.Exec("DELETE FROM comment_recipients WHERE comment_id IN ?", commentIDs).Error; err != nil {
			return err
		}
	}
	if err := tx.Where("tip_id IN ?", tipIDs).Delete(&models.Comment{}).Error; err != nil {
		return err
	}
	if err := tx.Where("tip_id IN ?", tipIDs).Delete(&models.Like{}).Error; err != nil {
		return err
	}
	if err := tx.Where("tip_id IN ?", tipIDs).Delete(&models.Code{}).Error; err != nil {
		return err
	}
	if err := tx.Where("tip_id IN ?", tipIDs).Delete(&models.Notification{}).Error; err != nil {
		return err
	}
	if err := tx.Exec("DELETE FROM tip_tags WHERE tip_id IN ?", tipIDs).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", tipIDs).Delete(&models.Tip{}).Error
}
