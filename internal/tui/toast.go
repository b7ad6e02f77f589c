package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// toastMaxWidth bounds the rendered notification.
const toastMaxWidth = 60

// notificationMsg carries one message from the notification queue.
type notificationMsg struct {
	message string
}

// toastExpiredMsg dismisses the toast that was showing when the timer
// started. A newer toast has a higher sequence and survives.
type toastExpiredMsg struct {
	sequence int
}

// toast is the single notification line shown in the top-right corner.
// Only the latest message is kept.
type toast struct {
	message  string
	sequence int
}

// show replaces the message and returns the timer that dismisses it.
func (t *toast) show(message string, timeout time.Duration) tea.Cmd {
	t.message = message
	t.sequence++
	sequence := t.sequence
	return tea.Tick(timeout, func(time.Time) tea.Msg {
		return toastExpiredMsg{sequence: sequence}
	})
}

// expire clears the toast if the timer belongs to it.
func (t *toast) expire(sequence int) {
	if sequence == t.sequence {
		t.message = ""
	}
}

func (t toast) render(theme Theme) []string {
	if t.message == "" {
		return nil
	}
	style := lipgloss.NewStyle().
		Foreground(theme.PopupForeground).
		Background(theme.PopupBackground).
		Padding(0, 1)
	return []string{style.Render("⚠ " + ansi.Truncate(t.message, toastMaxWidth, "…"))}
}

// listenForNotification returns a tea.Cmd that blocks until a message
// arrives on the queue, then delivers it as a notificationMsg.
func listenForNotification(channel <-chan string) tea.Cmd {
	return func() tea.Msg {
		message, ok := <-channel
		if !ok {
			return nil
		}
		return notificationMsg{message: message}
	}
}
