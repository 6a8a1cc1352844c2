package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"
)

const (
	TemplateConfirmRegistration = "confirm_registration"
	TemplateRecoverPassword     = "recover_password"
)

// Message is a templated email. It is also the JSON body of the email queue.
type Message struct {
	To       string            `json:"to"`
	Template string            `json:"template"`
	Vars     map[string]string `json:"vars"`
}

type Config struct {
	Host       string
	Port       int
	User       string
	Password   string
	SenderName string
}

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type mailTemplate struct {
	subject string
	body    *template.Template
}

// Mailer renders and sends emails over SMTP.
type Mailer struct {
	dialer    sender
	from      string
	templates map[string]mailTemplate
}

var templates = map[string]mailTemplate{
	TemplateConfirmRegistration: {
		subject: "Confirm your account",
		body: template.Must(template.New(TemplateConfirmRegistration).Parse(`
		<div style="font-family: Arial, sans-serif; padding: 20px;">
			<h2>Hello {{.name}}!</h2>
			<p>Please confirm your email address to activate your account.</p>
			<p><a href="{{.link}}">Confirm my account</a></p>
			<p>This link expires in 24 hours.</p>
		</div>`)),
	},
	TemplateRecoverPassword: {
		subject: "Reset your password",
		body: template.Must(template.New(TemplateRecoverPassword).Parse(`
		<div style="font-family: Arial, sans-serif; padding: 20px;">
			<h2>Hello {{.name}}!</h2>
			<p>We received a request to reset your password.</p>
			<p><a href="{{.link}}">Choose a new password</a></p>
			<p>This link expires in 1 hour. If you did not request this, please ignore this email.</p>
		</div>`)),
	},
}

func New(cfg Config) *Mailer {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	dialer.TLSConfig = &tls.Config{ServerName: cfg.Host}

	return &Mailer{
		dialer:    dialer,
		from:      fmt.Sprintf("%s <%s>", cfg.SenderName, cfg.User),
		templates: templates,
	}
}

// Render returns the subject and HTML body for msg.
func (m *Mailer) Render(msg Message) (string, string, error) {
	tmpl, ok := m.templates[msg.Template]
	if !ok {
		return "", "", fmt.Errorf("unknown email template %q", msg.Template)
	}
	var buf bytes.Buffer
	if err := tmpl.body.Execute(&buf, msg.Vars); err != nil {
		return "", "", fmt.Errorf("failed to render %s: %w", msg.Template, err)
	}
	return tmpl.subject, buf.String(), nil
}

// Dispatch sends msg synchronously.
func (m *Mailer) Dispatch(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	subject, body, err := m.Render(msg)
	if err != nil {
		return err
	}

	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", subject)
	gm.SetBody("text/html", body)

	if err := m.dialer.DialAndSend(gm); err != nil {
		return fmt.Errorf("failed to send %s email to %s: %w", msg.Template, msg.To, err)
	}
	return nil
}
