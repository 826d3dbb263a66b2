package services

import (
	"sync"
	"time"

	"fintrack/internal/config"
)

// fixedClock pins a service's notion of now.
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func testConfig() *config.Config {
	return &config.Config{
		AppBaseURL:       "http://app.test/",
		PasswordResetTTL: time.Hour,
		TopExpensesMax:   100,
	}
}

type sentReset struct {
	to, name, link string
	expiresAt      time.Time
}

// recordingMailer captures password reset emails instead of sending them.
type recordingMailer struct {
	mu   sync.Mutex
	sent []sentReset
	err  error
}

func (m *recordingMailer) SendPasswordReset(to, name, link string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentReset{to: to, name: name, link: link, expiresAt: expiresAt})
	return m.err
}
