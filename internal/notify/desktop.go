package notify

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

type Message struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

// DesktopNotifier shows a message through the operating system.
type DesktopNotifier interface {
	Send(Message) error
}

type NoopDesktopNotifier struct{}

func (NoopDesktopNotifier) Send(Message) error { return nil }

type ExecDesktopNotifier struct{}

func (ExecDesktopNotifier) Send(n Message) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", n.Title, n.Body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

func escapeAppleScript(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}
