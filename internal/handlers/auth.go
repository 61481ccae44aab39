package handlers

import (
	"net/http"
	"tipstock/internal/metrics"
	"tipstock/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	mailer *services.Mailer
}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{mailer: services.NewMailer()}
}

func (h *AuthHandler) ShowSignup(c *gin.Context) {
	Render(c, http.StatusOK, "auth/signup.html", nil)
}

func (h *AuthHandler) Signup(c *gin.Context) {
	username := c.PostForm("username")
	email := c.PostForm("email")
	password := c.PostForm("password")

	user, code, err := services.Signup(username, email, password)
	if err != nil {
		metrics.IncSignup("error")
		_, message := fieldError(err)
		Render(c, http.StatusBadRequest, "auth/signup.html", gin.H{
			"Error":    message,
			"Username": username,
			"Email":    email,
		})
		return
	}
	metrics.IncSignup("ok")

	if err := h.mailer.SendVerificationMail(user.Email, code); err != nil {
		zap.L().Error("verification mail failed", zap.String("email", user.Email), zap.Error(err))
		metrics.IncMail("verification", "error")
	} else {
		metrics.IncMail("verification", "ok")
	}

	Render(c, http.StatusOK, "auth/verify.html", gin.H{
		"Email":   user.Email,
		"Success": "We sent a verification code to your email.",
	})
}

func (h *AuthHandler) ShowVerify(c *gin.Context) {
	Render(c, http.StatusOK, "auth/verify.html", gin.H{"Email": c.Query("email")})
}

func (h *AuthHandler) Verify(c *gin.Context) {
	email := c.PostForm("email")
	code := c.PostForm("code")

	user, err := services.VerifyEmail(email, code)
	if err != nil {
		_, message := fieldError(err)
		Render(c, http.StatusBadRequest, "auth/verify.html", gin.H{"Error": message, "Email": email})
		return
	}

	// Verified accounts log in straight away.
	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Save()

	c.Redirect(http.StatusFound, "/tips")
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	Render(c, http.StatusOK, "auth/login.html", nil)
}

func (h *AuthHandler) Login(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	user, err := services.Authenticate(email, password)
	if err != nil {
		metrics.IncLogin("error")
		_, message := fieldError(err)
		Render(c, http.StatusUnauthorized, "auth/login.html", gin.H{"Error": message, "Email": email})
		return
	}
	metrics.IncLogin("ok")

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Save()

	c.Redirect(http.StatusFound, "/tips")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.Redirect(http.StatusFound, "/login")
}

func (h *AuthHandler) ShowReregistration(c *gin.Context) {
	Render(c, http.StatusOK, "auth/reregistration.html", nil)
}

// Reregister restarts verification for a withdrawn account. The response
// is the same whether the email matched or not.
func (h *AuthHandler) Reregister(c *gin.Context) {
	email := c.PostForm("email")

	user, code, err := services.Reregister(email)
	if err != nil {
		_, message := fieldError(err)
		Render(c, http.StatusBadRequest, "auth/reregistration.html", gin.H{"Error": message, "Email": email})
		return
	}

	if err := h.mailer.SendVerificationMail(user.Email, code); err != nil {
		zap.L().Error("reregistration mail failed", zap.String("email", user.Email), zap.Error(err))
		metrics.IncMail("verification", "error")
	} else {
		metrics.IncMail("verification", "ok")
	}

	Render(c, http.StatusOK, "auth/verify.html", gin.H{
		"Email":   user.Email,
		"Success": "We sent a new verification code to your email.",
	})
}
