package services

import (
	"fmt"
	"net/smtp"
	"strings"
	"tipstock/internal/config"

	"go.uber.org/zap"
)

type Mailer struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	Enabled  bool
}

func NewMailer() *Mailer {
	c := config.Get()

	enabled := c.SMTPHost != "" && c.SMTPPort != "" && c.SMTPUser != "" && c.SMTPPass != "" && c.SMTPFrom != ""
	if !enabled {
		zap.L().Warn("Mailer disabled: missing SMTP environment variables")
	}

	return &Mailer{
		Host:     c.SMTPHost,
		Port:     c.SMTPPort,
		Username: c.SMTPUser,
		Password: c.SMTPPass,
		From:     c.SMTPFrom,
		Enabled:  enabled,
	}
}

// checkHeader rejects values that would inject extra mail headers. This is
// the one transport failure the callers distinguish; everything else is a
// generic send error.
func checkHeader(values ...string) error {
	for _, v := range values {
		if strings.ContainsAny(v, "\r\n") {
			return &TransportError{Message: "invalid header value"}
		}
	}
	return nil
}

// Send delivers synchronously so callers can surface the failure to the
// user. Disabled mailers log and report success.
func (m *Mailer) Send(to []string, subject, body string) error {
	if err := checkHeader(append([]string{subject}, to...)...); err != nil {
		return err
	}

	if !m.Enabled {
		zap.L().Info("Mailer disabled, skipping send", zap.Strings("to", to), zap.String("subject", subject))
		return nil
	}

	auth := smtp.PlainAuth("", m.Username, m.Password, m.Host)
	addr := fmt.Sprintf("%s:%s", m.Host, m.Port)

	mime := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n"
	msg := []byte(fmt.Sprintf("To: %s\r\n"+
		"From: TipStock <%s>\r\n"+
		"Subject: %s\r\n"+
		"%s\r\n%s", strings.Join(to, ","), m.From, subject, mime, body))

	if err := smtp.SendMail(addr, auth, m.From, to, msg); err != nil {
		zap.L().Error("Failed to send email", zap.Strings("to", to), zap.Error(err))
		return &TransportError{Message: "failed to send email", Err: err}
	}
	zap.L().Info("Email sent", zap.Strings("to", to), zap.String("subject", subject))
	return nil
}

func (m *Mailer) SendVerificationMail(email, code string) error {
	body := fmt.Sprintf("<p>Welcome to TipStock!</p><p>Your verification code is <b>%s</b>.</p>", code)
	return m.Send([]string{email}, "[TipStock] Please verify your email address", body)
}

func (m *Mailer) SendWithdrawalNotice(email, username string) error {
	body := fmt.Sprintf("<p>%s, your withdrawal from TipStock is complete.</p>"+
		"<p>You can re-register with the same email address at any time.</p>", username)
	return m.Send([]string{email}, "[TipStock] Your withdrawal is complete", body)
}

func (m *Mailer) SendContactMail(name, email, message string) error {
	body := fmt.Sprintf("<p>From: %s &lt;%s&gt;</p><p>%s</p>", name, email, message)
	return m.Send([]string{m.From}, "[TipStock] Contact form message from "+name, body)
}
