package update

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/tickd/internal/notify"
	"github.com/sandeepkv93/tickd/internal/scheduler"
	"github.com/sandeepkv93/tickd/internal/views"
)

const (
	maxNotificationLog = 20
	maxMessages        = 40
)

func waitForNotificationCmd(ch <-chan scheduler.Notification) tea.Cmd {
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return NotificationFiredMsg{Notification: n}
	}
}

func (m *Model) onNotificationFired(n scheduler.Notification) {
	m.NotificationLog = append(m.NotificationLog, n)
	if len(m.NotificationLog) > maxNotificationLog {
		m.NotificationLog = m.NotificationLog[len(m.NotificationLog)-maxNotificationLog:]
	}
	m.Status = StatusBar{Text: fmt.Sprintf("%s %s", n.Title, n.Body)}
	msg := m.notify(n.Title, n.Body, "info")
	if m.DesktopEnabled && m.notifier != nil {
		if err := m.notifier.Send(msg); err != nil {
			m.log.Warn("desktop notification failed", "notification_id", n.ID, "error", err)
		}
	}
	m.log.Info("notification fired", "notification_id", n.ID, "fire_at", n.FireAt)
}

// notify records an in-app message; only fired notifications reach the
// desktop.
func (m *Model) notify(title, body, level string) notify.Message {
	msg := notify.Message{
		Title: title,
		Body:  body,
		Level: level,
		At:    time.Now().UTC(),
	}
	if strings.TrimSpace(body) == "" {
		return msg
	}
	m.Notifications = append(m.Notifications, msg)
	if len(m.Notifications) > maxMessages {
		m.Notifications = m.Notifications[len(m.Notifications)-maxMessages:]
	}
	return msg
}

func (m Model) renderNotificationsView() string {
	if len(m.Notifications) == 0 {
		return ""
	}
	n := m.Notifications[len(m.Notifications)-1]
	return views.RenderNotification(n.Level, n.Body)
}

func (m Model) renderNotificationLog() string {
	entries := make([]views.FiredNotificationData, 0, len(m.NotificationLog))
	for i := len(m.NotificationLog) - 1; i >= 0; i-- {
		n := m.NotificationLog[i]
		entries = append(entries, views.FiredNotificationData{
			Title: n.Title,
			At:    n.FireAt.Local().Format("15:04:05"),
		})
	}
	return views.RenderNotificationLog(entries)
}
