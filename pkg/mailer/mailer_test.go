package mailer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewWithoutHostLogsMessages(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	sender := New(Config{}, zap.New(core))

	require.IsType(t, &LogSender{}, sender)
	require.NoError(t, sender.Send("a@x.com", "Password Reset Request", "link"))

	entries := logs.FilterMessage("Email not sent (no SMTP configured)").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "a@x.com", entries[0].ContextMap()["to"])
}

func TestNewWithHostUsesSMTP(t *testing.T) {
	sender := New(Config{Host: "smtp.example.com", Port: 587, From: "noreply@example.com"}, zap.NewNop())
	assert.IsType(t, &SMTPSender{}, sender)
}

func TestNewMessageHeaders(t *testing.T) {
	m := NewMessage("noreply@example.com", "a@x.com", "Password Reset Request", "hello")
	assert.Equal(t, []string{"a@x.com"}, m.GetHeader("To"))

	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Subject: Password Reset Request")
	assert.Contains(t, buf.String(), "hello")
}
