package handlers

import (
	"fmt"
	"net/http"
	"tipstock/internal/metrics"
	"tipstock/internal/middleware"
	"tipstock/internal/services"
	"tipstock/internal/utils"

	"github.com/gin-gonic/gin"
)

// Engagement mutations change the like counts and comment lists the
// cached public first page renders, so every success path drops it.

type EngagementHandler struct{}

func NewEngagementHandler() *EngagementHandler {
	return &EngagementHandler{}
}

func (h *EngagementHandler) AddComment(c *gin.Context) {
	user := middleware.CurrentUser(c)
	tipID := uint(utils.StringToInt(c.Param("id")))

	var recipientIDs []uint
	for _, raw := range c.PostFormArray("to_users") {
		if id := utils.StringToInt(raw); id > 0 {
			recipientIDs = append(recipientIDs, uint(id))
		}
	}
	noRecipient := c.PostForm("no_recipient") != ""

	_, err := services.AddComment(tipID, user, c.PostForm("text"), recipientIDs, noRecipient)
	if err != nil {
		metrics.IncComment("error")
		if services.IsValidation(err) {
			detail, derr := services.GetTipDetail(user, tipID)
			if derr != nil {
				RenderError(c, derr)
				return
			}
			_, message := fieldError(err)
			Render(c, http.StatusBadRequest, "tip/detail.html", gin.H{
				"Title":        detail.Tip.Title,
				"Detail":       detail,
				"Description":  utils.RenderMarkdown(detail.Tip.Description),
				"IsOwner":      user.ID == detail.Tip.CreatedByID,
				"CommentError": message,
				"CommentText":  c.PostForm("text"),
			})
			return
		}
		RenderError(c, err)
		return
	}
	metrics.IncComment("ok")
	utils.GetCache().Delete(publicListCacheKey)

	c.Redirect(http.StatusFound, fmt.Sprintf("/tips/%d", tipID))
}

func (h *EngagementHandler) DeleteComment(c *gin.Context) {
	user := middleware.CurrentUser(c)
	tipID := uint(utils.StringToInt(c.Param("id")))
	no := utils.StringToInt(c.Param("no"))

	if err := services.DeleteComment(tipID, no, user); err != nil {
		RenderError(c, err)
		return
	}
	utils.GetCache().Delete(publicListCacheKey)
	c.Redirect(http.StatusFound, fmt.Sprintf("/tips/%d", tipID))
}

func (h *EngagementHandler) AddLike(c *gin.Context) {
	user := middleware.CurrentUser(c)
	tipID := uint(utils.StringToInt(c.Param("id")))

	already, err := services.AddLike(tipID, user)
	if err != nil {
		metrics.IncLike("like", "error")
		if services.IsBusinessRule(err) {
			redirectWithInfo(c, fmt.Sprintf("/tips/%d", tipID), err.Error())
			return
		}
		RenderError(c, err)
		return
	}
	metrics.IncLike("like", "ok")
	utils.GetCache().Delete(publicListCacheKey)
	if already {
		redirectWithInfo(c, fmt.Sprintf("/tips/%d", tipID), "you had already liked this tip")
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/tips/%d", tipID))
}

func (h *EngagementHandler) RemoveLike(c *gin.Context) {
	user := middleware.CurrentUser(c)
	tipID := uint(utils.StringToInt(c.Param("id")))

	already, err := services.RemoveLike(tipID, user)
	if err != nil {
		metrics.IncLike("unlike", "error")
		RenderError(c, err)
		return
	}
	metrics.IncLike("unlike", "ok")
	utils.GetCache().Delete(publicListCacheKey)
	if already {
		redirectWithInfo(c, fmt.Sprintf("/tips/%d", tipID), "this like was already removed")
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/tips/%d", tipID))
}

func (h *EngagementHandler) Follow(c *gin.Context) {
	user := middleware.CurrentUser(c)
	targetID := uint(utils.StringToInt(c.Param("id")))

	already, err := services.Follow(user, targetID)
	if err != nil {
		metrics.IncFollow("follow", "error")
		RenderError(c, err)
		return
	}
	metrics.IncFollow("follow", "ok")
	if already {
		redirectWithInfo(c, fmt.Sprintf("/users/%d", targetID), "you already follow this user")
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/users/%d", targetID))
}

func (h *EngagementHandler) Unfollow(c *gin.Context) {
	user := middleware.CurrentUser(c)
	targetID := uint(utils.StringToInt(c.Param("id")))

	already, err := services.Unfollow(user, targetID)
	if err != nil {
		metrics.IncFollow("unfollow", "error")
		RenderError(c, err)
		return
	}
	metrics.IncFollow("unfollow", "ok")
	if already {
		redirectWithInfo(c, fmt.Sprintf("/users/%d", targetID), "you were not following this user")
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/users/%d", targetID))
}
