package handlers

import (
	"errors"
	"net/http"
	"tipstock/internal/db"
	"tipstock/internal/metrics"
	"tipstock/internal/middleware"
	"tipstock/internal/models"
	"tipstock/internal/services"
	"tipstock/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type UserHandler struct {
	mailer *services.Mailer
}

func NewUserHandler() *UserHandler {
	return &UserHandler{mailer: services.NewMailer()}
}

func (h *UserHandler) Profile(c *gin.Context) {
	viewer := middleware.CurrentUser(c)
	userID := uint(utils.StringToInt(c.Param("id")))

	var user models.User
	err := db.DB.First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !user.IsActive) {
		RenderError(c, &services.NotFoundError{Resource: "user"})
		return
	}
	if err != nil {
		RenderError(c, err)
		return
	}

	follows, followers := services.FollowCounts(user.ID)
	isFollowing := false
	if viewer != nil && viewer.ID != user.ID {
		isFollowing = services.IsFollowing(viewer.ID, user.ID)
	}

	// The profile shows the user's public tips only, even to themselves.
	page, err := services.ListTips(viewer, services.TipQuery{
		Scope:        services.ScopePublic,
		SearchTarget: services.TargetAll,
		Order:        services.OrderUpdated,
		Page:         utils.StringToInt(c.DefaultQuery("page", "1")),
	})
	if err != nil {
		RenderError(c, err)
		return
	}

	Render(c, http.StatusOK, "user/profile.html", gin.H{
		"Title":       user.Username,
		"Profile":     &user,
		"Follows":     follows,
		"Followers":   followers,
		"IsFollowing": isFollowing,
		"IsSelf":      viewer != nil && viewer.ID == user.ID,
		"Page":        page,
		"Info":        c.Query("info"),
	})
}

func (h *UserHandler) ShowSettings(c *gin.Context) {
	Render(c, http.StatusOK, "user/settings.html", gin.H{"Title": "Settings"})
}

func (h *UserHandler) UpdateSettings(c *gin.Context) {
	user := middleware.CurrentUser(c)

	iconPath := ""
	if fh, err := c.FormFile("icon"); err == nil {
		path, err := services.SaveIcon(fh)
		if err != nil {
			_, message := fieldError(err)
			Render(c, http.StatusBadRequest, "user/settings.html", gin.H{"Title": "Settings", "Error": message})
			return
		}
		iconPath = path
	}

	err := services.UpdateProfile(user, c.PostForm("username"), c.PostForm("introduction"), iconPath)
	if err != nil {
		_, message := fieldError(err)
		Render(c, http.StatusBadRequest, "user/settings.html", gin.H{"Title": "Settings", "Error": message})
		return
	}

	c.Redirect(http.StatusFound, "/settings")
}

func (h *UserHandler) ShowWithdrawal(c *gin.Context) {
	Render(c, http.StatusOK, "user/withdrawal.html", gin.H{"Title": "Withdrawal"})
}

func (h *UserHandler) Withdraw(c *gin.Context) {
	user := middleware.CurrentUser(c)
	keepPrivateTips := c.PostForm("keep_private_tips") != ""

	if err := services.Withdraw(user, keepPrivateTips); err != nil {
		RenderError(c, err)
		return
	}

	session := sessions.Default(c)
	session.Clear()
	session.Save()

	// TODO: move the notice into a transactional outbox; a crash between
	// the commit above and this send loses the mail.
	if err := h.mailer.SendWithdrawalNotice(user.Email, user.Username); err != nil {
		zap.L().Error("withdrawal mail failed", zap.String("email", user.Email), zap.Error(err))
		metrics.IncMail("withdrawal", "error")
		// The deactivation is already committed and stays committed; the
		// user still has to hear that the confirmation mail went missing.
		Render(c, http.StatusOK, "user/withdrawal_done.html", gin.H{
			"Title": "Withdrawal Complete",
			"Error": "your withdrawal is complete, but the confirmation mail could not be sent",
		})
		return
	}
	metrics.IncMail("withdrawal", "ok")

	c.Redirect(http.StatusFound, "/withdrawal/done")
}

func (h *UserHandler) WithdrawalDone(c *gin.Context) {
	Render(c, http.StatusOK, "user/withdrawal_done.html", gin.H{"Title": "Withdrawal Complete"})
}
