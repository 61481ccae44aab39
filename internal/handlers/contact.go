package handlers

import (
	"net/http"
	"strings"
	"tipstock/internal/metrics"
	"tipstock/internal/services"

	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	mailer *services.Mailer
}

func NewContactHandler() *ContactHandler {
	return &ContactHandler{mailer: services.NewMailer()}
}

func (h *ContactHandler) Show(c *gin.Context) {
	Render(c, http.StatusOK, "contact/form.html", gin.H{"Title": "Contact"})
}

func (h *ContactHandler) Send(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("name"))
	email := strings.TrimSpace(c.PostForm("email"))
	body := strings.TrimSpace(c.PostForm("body"))

	if name == "" || email == "" || body == "" {
		Render(c, http.StatusBadRequest, "contact/form.html", gin.H{
			"Title": "Contact",
			"Error": "name, email and message are all required",
			"Name":  name, "Email": email, "Body": body,
		})
		return
	}

	if err := h.mailer.SendContactMail(name, email, body); err != nil {
		metrics.IncMail("contact", "error")
		// Header injection and SMTP failures both land here; the form is
		// shown again rather than a bare error page.
		Render(c, http.StatusBadRequest, "contact/form.html", gin.H{
			"Title": "Contact",
			"Error": "your message could not be sent",
			"Name":  name, "Email": email, "Body": body,
		})
		return
	}
	metrics.IncMail("contact", "ok")

	Render(c, http.StatusOK, "contact/done.html", gin.H{"Title": "Contact"})
}
