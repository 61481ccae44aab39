package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"tipstock/internal/middleware"
	"tipstock/internal/services"

	"github.com/gin-gonic/gin"
)

// Render helper to inject common variables like 'current user'
func Render(c *gin.Context, code int, name string, obj gin.H) {
	if obj == nil {
		obj = gin.H{}
	}

	if user, exists := c.Get(middleware.CheckUserKey); exists {
		obj["CurrentUser"] = user
		if count, ok := c.Get(middleware.UnreadCountKey); ok {
			obj["UnreadCount"] = int(count.(int64))
		} else {
			obj["UnreadCount"] = 0
		}
	}

	obj["CurrentPath"] = c.Request.URL.Path

	c.HTML(code, name, obj)
}

// RenderError maps a service error onto the matching status code and the
// shared error page.
func RenderError(c *gin.Context, err error) {
	code := http.StatusInternalServerError
	switch {
	case services.IsPermission(err):
		code = http.StatusForbidden
	case services.IsNotFound(err):
		code = http.StatusNotFound
	case services.IsValidation(err), services.IsBusinessRule(err):
		code = http.StatusBadRequest
	case services.IsTransport(err):
		code = http.StatusBadGateway
	}
	Render(c, code, "error.html", gin.H{"Error": err.Error()})
}

// redirectWithInfo sends the user back with a non-blocking message. The
// destination page picks it up from the info query param and shows it as
// a flash, so idempotent no-ops and business-rule refusals never land on
// the error page.
func redirectWithInfo(c *gin.Context, path, info string) {
	c.Redirect(http.StatusFound, path+"?info="+url.QueryEscape(info))
}

// fieldError extracts a per-field message for form re-rendering; non-form
// errors come back under the empty key.
func fieldError(err error) (field, message string) {
	var v *services.ValidationError
	if errors.As(err, &v) {
		return v.Field, v.Message
	}
	return "", err.Error()
}
