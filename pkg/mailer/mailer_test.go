package mailer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type fakeSender struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeSender) DialAndSend(m ...*gomail.Message) error {
	f.sent = append(f.sent, m...)
	return f.err
}

func newTestMailer(s sender) *Mailer {
	m := New(Config{Host: "smtp.test", Port: 465, User: "noreply@test.dev", SenderName: "Storefront"})
	m.dialer = s
	return m
}

func TestRender(t *testing.T) {
	m := newTestMailer(&fakeSender{})

	subject, body, err := m.Render(Message{
		Template: TemplateConfirmRegistration,
		Vars:     map[string]string{"name": "ana", "link": "http://localhost/confirm/abc"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Confirm your account", subject)
	assert.Contains(t, body, "Hello ana!")
	assert.Contains(t, body, "http://localhost/confirm/abc")

	_, _, err = m.Render(Message{Template: "unknown"})
	assert.Error(t, err)
}

func TestDispatch(t *testing.T) {
	fs := &fakeSender{}
	m := newTestMailer(fs)

	err := m.Dispatch(context.Background(), Message{
		To:       "ana@example.com",
		Template: TemplateRecoverPassword,
		Vars:     map[string]string{"name": "ana", "link": "http://localhost/reset/abc"},
	})
	require.NoError(t, err)
	require.Len(t, fs.sent, 1)
	assert.Equal(t, []string{"ana@example.com"}, fs.sent[0].GetHeader("To"))
	assert.Equal(t, []string{"Reset your password"}, fs.sent[0].GetHeader("Subject"))
	assert.Equal(t, []string{"Storefront <noreply@test.dev>"}, fs.sent[0].GetHeader("From"))
}

func TestDispatchSendError(t *testing.T) {
	m := newTestMailer(&fakeSender{err: errors.New("smtp down")})
	err := m.Dispatch(context.Background(), Message{To: "a@b.c", Template: TemplateRecoverPassword})
	assert.ErrorContains(t, err, "smtp down")
}
