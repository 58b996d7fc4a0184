package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type ShoppingItemData struct {
	Name      string
	Completed bool
	Selected  bool
}

type ShoppingPanelData struct {
	Loading     bool
	SpinnerView string
	InputView   string
	CaptureMode bool
	EmptyText   string
	Items       []ShoppingItemData
	ConfirmName string
}

type CountdownPanelData struct {
	Loading       bool
	SpinnerView   string
	IsOverdue     bool
	Days          int
	Hours         int
	Minutes       int
	Seconds       int
	Completing    bool
	Warning       string
	Interval      string
	LastCompleted string
}

type HistoryPanelData struct {
	Count     int
	TableView string
	LastSaved string
}

type HelpPanelData struct {
	CurrentView  string
	Bindings     []string
	HelpView     string
	CommandsView string
}

type FiredNotificationData struct {
	Title string
	At    string
}

var (
	completedStyle = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("8"))
	segmentStyle   = lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Center)
	numberStyle    = lipgloss.NewStyle().Bold(true)
	overdueStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	buttonStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2)
	disabledStyle  = buttonStyle.Foreground(lipgloss.Color("8"))
	warningStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

func RenderShoppingPanel(data ShoppingPanelData) string {
	var b strings.Builder
	b.WriteString("shopping list:\n")
	if data.Loading {
		b.WriteString(data.SpinnerView + " loading...")
		return b.String()
	}
	b.WriteString(data.InputView + "\n")
	if data.CaptureMode {
		b.WriteString("actions: [enter]add [esc]done\n")
	} else {
		b.WriteString("actions: [a]add [j/k]move [space]check [d]delete\n")
	}
	if len(data.Items) == 0 {
		b.WriteString("\n" + data.EmptyText)
		return strings.TrimSpace(b.String())
	}
	b.WriteString("\n")
	for i, item := range data.Items {
		cursor := " "
		if item.Selected {
			cursor = ">"
		}
		check := "[ ]"
		name := item.Name
		if item.Completed {
			check = "[x]"
			name = completedStyle.Render(name)
		}
		b.WriteString(fmt.Sprintf("%s %2d. %s %s\n", cursor, i+1, check, name))
	}
	if data.ConfirmName != "" {
		b.WriteString(fmt.Sprintf("\nAre you sure you want to delete %s? [y]es [n]o", data.ConfirmName))
	}
	return strings.TrimSpace(b.String())
}

func RenderCountdownPanel(data CountdownPanelData) string {
	var b strings.Builder
	b.WriteString("countdown:\n")
	if data.Loading {
		b.WriteString(data.SpinnerView + " loading...")
		return b.String()
	}
	if data.IsOverdue {
		b.WriteString(overdueStyle.Render("Thing overdue by") + "\n")
	} else {
		b.WriteString("Thing due in\n")
	}
	segments := lipgloss.JoinHorizontal(lipgloss.Top,
		renderTimeSegment(data.Days, "Days", data.IsOverdue),
		renderTimeSegment(data.Hours, "Hours", data.IsOverdue),
		renderTimeSegment(data.Minutes, "Minutes", data.IsOverdue),
		renderTimeSegment(data.Seconds, "Seconds", data.IsOverdue),
	)
	b.WriteString(segments + "\n")

	if data.Completing {
		b.WriteString(disabledStyle.Render("I've done the thing!") + "\n")
	} else {
		b.WriteString(buttonStyle.Render("I've done the thing!") + "\n")
	}
	if data.LastCompleted != "" {
		b.WriteString(fmt.Sprintf("last done: %s\n", data.LastCompleted))
	}
	if data.Interval != "" {
		b.WriteString(fmt.Sprintf("interval: %s\n", data.Interval))
	}
	if data.Warning != "" {
		b.WriteString(warningStyle.Render(data.Warning))
	}
	return strings.TrimSpace(b.String())
}

func renderTimeSegment(n int, unit string, overdue bool) string {
	num := numberStyle.Render(fmt.Sprintf("%d", n))
	if overdue {
		num = overdueStyle.Render(fmt.Sprintf("%d", n))
	}
	return segmentStyle.Render(num + "\n" + unit)
}

func RenderHistoryPanel(data HistoryPanelData) string {
	var b strings.Builder
	b.WriteString("history:\n")
	if data.Count == 0 {
		b.WriteString("nothing done yet")
		return b.String()
	}
	plural := "s"
	if data.Count == 1 {
		plural = ""
	}
	b.WriteString(fmt.Sprintf("%d completion%s, newest first\n", data.Count, plural))
	if data.LastSaved != "" {
		b.WriteString("last saved " + data.LastSaved + "\n")
	}
	b.WriteString(data.TableView)
	return strings.TrimSpace(b.String())
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("notification: [%s] %s", strings.ToUpper(level), body)
}

func RenderNotificationLog(entries []FiredNotificationData) string {
	if len(entries) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("fired:\n")
	for _, e := range entries {
		b.WriteString(fmt.Sprintf("- %s %s\n", e.At, e.Title))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderHelpPanel(data HelpPanelData) string {
	out := fmt.Sprintf("help:\n%s view:\n%s\n%s",
		data.CurrentView,
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
	if strings.TrimSpace(data.CommandsView) != "" {
		out += "\n" + data.CommandsView
	}
	return out
}
