package handlers

import (
	"net/http"
	"tipstock/internal/middleware"
	"tipstock/internal/services"
	"tipstock/internal/utils"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct{}

func NewNotificationHandler() *NotificationHandler {
	return &NotificationHandler{}
}

// List serves the inbox. One endpoint handles three request shapes:
// plain listing (display=unread|all), allRead=done to mark everything
// read before listing, and goto=<id> to open a single notification.
func (h *NotificationHandler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)

	if gotoID := c.Query("goto"); gotoID != "" {
		target, err := services.OpenNotification(user, uint(utils.StringToInt(gotoID)))
		if err != nil {
			RenderError(c, err)
			return
		}
		c.Redirect(http.StatusFound, target)
		return
	}

	if c.Query("allRead") == "done" {
		if err := services.MarkAllRead(user); err != nil {
			RenderError(c, err)
			return
		}
	}

	display := c.DefaultQuery("display", services.DisplayUnread)
	notifications, err := services.ListNotifications(user, display)
	if err != nil {
		RenderError(c, err)
		return
	}

	Render(c, http.StatusOK, "notification/list.html", gin.H{
		"Title":         "Notifications",
		"Notifications": notifications,
		"Display":       display,
	})
}
