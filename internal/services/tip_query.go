package services

import (
	"math"
	"strings"
	"tipstock/internal/config"
	"tipstock/internal/db"
	"tipstock/internal/models"

	"gorm.io/gorm"
)

const (
	ScopeMine   = "mine"   // owned-or-liked-by-viewer
	ScopePublic = "public" // visibility = public

	TargetAll   = "all"
	TargetMy    = "my"
	TargetOther = "other"

	OrderUpdated = "updated"
	OrderLiked   = "liked"
)

// TipQuery is the full filter surface of the tip list views.
type TipQuery struct {
	Scope        string
	Query        string // free-text over title/description/code filename/code content
	TagQuery     string // substring over tag names
	SearchTarget string // all | my | other
	Order        string // updated (default) | liked
	Page         int
}

type TipPage struct {
	Tips       []models.Tip
	Total      int64
	Page       int
	TotalPages int
	HasNext    bool
}

// ListTips builds the filtered, ordered, paginated tip listing. Pure
// query, no side effects.
func ListTips(viewer *models.User, q TipQuery) (*TipPage, error) {
	if q.Scope != ScopeMine && q.Scope != ScopePublic {
		return nil, &NotFoundError{Resource: "tip list"}
	}
	if q.Scope == ScopeMine && viewer == nil {
		return nil, &PermissionError{Message: "login required"}
	}
	// Anonymous viewers have no "my"/"other" distinction.
	if viewer == nil {
		q.SearchTarget = TargetAll
	}

	// The filter chain is rebuilt for the count and the fetch so neither
	// terminal call can leak limits or ordering into the other.
	base := func() *gorm.DB {
		qdb := db.DB.Model(&models.Tip{})

		if q.Scope == ScopeMine {
			liked := db.DB.Table("likes").Select("tip_id").Where("user_id = ?", viewer.ID)
			qdb = qdb.Where("created_by_id = ? OR id IN (?)", viewer.ID, liked)
		} else {
			qdb = qdb.Where("visibility = ?", models.TipPublic)
		}

		switch q.SearchTarget {
		case TargetMy:
			qdb = qdb.Where("created_by_id = ?", viewer.ID)
		case TargetOther:
			qdb = qdb.Where("created_by_id <> ?", viewer.ID)
		}

		if q.Query != "" {
			pat := "%" + strings.ToLower(q.Query) + "%"
			// Matching via IN keeps the result deduplicated when several
			// codes of one tip match.
			codeMatch := db.DB.Table("codes").Select("tip_id").
				Where("LOWER(filename) LIKE ? OR LOWER(content) LIKE ?", pat, pat)
			qdb = qdb.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR id IN (?)", pat, pat, codeMatch)
		}

		if q.TagQuery != "" {
			pat := "%" + strings.ToLower(q.TagQuery) + "%"
			tagMatch := db.DB.Table("tip_tags").Select("tip_tags.tip_id").
				Joins("JOIN tags ON tags.id = tip_tags.tag_id").
				Where("LOWER(tags.name) LIKE ?", pat)
			qdb = qdb.Where("id IN (?)", tagMatch)
		}

		return qdb
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, err
	}

	perPage := config.Get().TipsPerPage
	totalPages := int(math.Ceil(float64(total) / float64(perPage)))
	if totalPages == 0 {
		totalPages = 1
	}
	page := q.Page
	if page < 1 {
		page = 1
	}

	qdb := base().Preload("Tags").Preload("CreatedBy")
	if q.Order == OrderLiked {
		qdb = qdb.Order("(SELECT COUNT(*) FROM likes WHERE likes.tip_id = tips.id) DESC").
			Order("updated_at DESC")
	} else {
		qdb = qdb.Order("updated_at DESC")
	}

	var tips []models.Tip
	if err := qdb.Limit(perPage).Offset((page - 1) * perPage).Find(&tips).Error; err != nil {
		return nil, err
	}

	fillLikeCounts(tips)

	return &TipPage{
		Tips:       tips,
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}, nil
}

// fillLikeCounts annotates tips with their like counts in one aggregate
// query instead of one count per row.
func fillLikeCounts(tips []models.Tip) {
	if len(tips) == 0 {
		return
	}

	tipIDs := make([]uint, len(tips))
	for i, t := range tips {
		tipIDs[i] = t.ID
	}

	type countResult struct {
		TipID uint
		Count int
	}
	var results []countResult
	db.DB.Model(&models.Like{}).
		Select("tip_id, COUNT(*) as count").
		Where("tip_id IN ?", tipIDs).
		Group("tip_id").
		Scan(&results)

	countMap := make(map[uint]int, len(results))
	for _, r := range results {
		countMap[r.TipID] = r.Count
	}

	for i := range tips {
		tips[i].LikeCount = countMap[tips[i].ID]
	}
}
