package update

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/tickd/internal/views"
)

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadSpinner.Tick}
	if m.machine != nil {
		cmds = append(cmds, loadCountdownCmd(m.ctx, m.machine))
	}
	if m.shopping != nil {
		cmds = append(cmds, loadShoppingCmd(m.ctx, m.shopping))
	}
	if m.engine != nil {
		cmds = append(cmds, waitForNotificationCmd(m.engine.C()))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if m.Palette.Active {
			return m.handlePaletteKey(typed)
		}
		if typed.String() == "ctrl+c" {
			return m.quit()
		}
		if m.CurrentView == ViewList && (m.List.CaptureMode || m.List.ConfirmDeleteID != "") {
			return m.handleListKey(typed), nil
		}

		switch typed.String() {
		case "/":
			m.Palette.Active = true
			m.Palette.Input = ""
			m.commandInput.SetValue("")
			m.commandInput.Focus()
			m.Status = StatusBar{Text: "command palette active"}
			return m, nil
		case m.Keys.List:
			return m.switchView(ViewList)
		case m.Keys.Countdown:
			return m.switchView(ViewCountdown)
		case m.Keys.History:
			return m.switchView(ViewHistory)
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			if m.HelpVisible {
				m.Status = StatusBar{Text: "help shown"}
			} else {
				m.Status = StatusBar{Text: "help hidden"}
			}
			return m, nil
		case m.Keys.Quit:
			return m.quit()
		}

		switch m.CurrentView {
		case ViewList:
			return m.handleListKey(typed), nil
		case ViewCountdown:
			return m.handleCountdownKey(typed)
		case ViewHistory:
			return m.handleHistoryKey(typed), nil
		}
	case spinner.TickMsg:
		if !m.anyLoading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.loadSpinner, cmd = m.loadSpinner.Update(typed)
		return m, cmd
	case SwitchViewMsg:
		if isKnownView(typed.View) {
			return m.switchView(typed.View)
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		m.notify("Status", typed.Text, levelFromError(typed.IsError))
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			m.notify("Error", typed.Err.Error(), "error")
		}
		return m, nil
	case ShoppingLoadedMsg:
		if typed.Err != nil {
			m.LastError = typed.Err
			m.Status = StatusBar{Text: "shopping list could not be read; starting empty", IsError: true}
		}
		m.clampListCursor()
		return m, nil
	case CountdownLoadedMsg:
		return m.onCountdownLoaded(typed)
	case CountdownTickMsg:
		if m.CurrentView == ViewCountdown {
			m.Countdown.Status = typed.Status
		}
		return m, waitForTickCmd(typed.source)
	case CountdownCompletedMsg:
		return m.onCountdownCompleted(typed), nil
	case NotificationFiredMsg:
		m.onNotificationFired(typed.Notification)
		if m.engine != nil {
			return m, waitForNotificationCmd(m.engine.C())
		}
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	leftPane := ""
	switch m.CurrentView {
	case ViewList:
		leftPane = m.renderListView()
	case ViewCountdown:
		leftPane = m.renderCountdownView()
	case ViewHistory:
		leftPane = m.renderHistoryView()
	}
	rightPane := joinNonEmpty(m.renderCommandPalette(), m.renderHelpIfVisible(), m.renderNotificationLog())

	return views.RenderApp(views.AppData{
		Header:       "tickd",
		Tabs:         []string{string(ViewList), string(ViewCountdown), string(ViewHistory)},
		ActiveTab:    string(m.CurrentView),
		LeftPane:     leftPane,
		RightPane:    rightPane,
		StatusLine:   status,
		Notification: m.renderNotificationsView(),
		Footer: fmt.Sprintf("keys: %s list | %s countdown | %s history | / cmd | %s help | %s quit",
			m.Keys.List, m.Keys.Countdown, m.Keys.History, m.Keys.Help, m.Keys.Quit),
	})
}

// switchView moves to v, releasing the countdown ticker when leaving the
// countdown screen and acquiring it when entering.
func (m Model) switchView(v View) (Model, tea.Cmd) {
	prev := m.CurrentView
	m.CurrentView = v
	if prev == ViewCountdown && v != ViewCountdown && m.ticker != nil {
		m.ticker.Stop()
	}
	switch v {
	case ViewCountdown:
		if m.machine != nil && !m.machine.IsLoading() {
			m.Countdown.Status = m.machine.Tick(time.Now())
		}
		if m.ticker != nil && !m.ticker.Running() {
			return m, waitForTickCmd(m.ticker.Start())
		}
	case ViewHistory:
		m.refreshHistory()
		m.historyTable.GotoTop()
	}
	return m, nil
}

func (m Model) quit() (Model, tea.Cmd) {
	if m.ticker != nil {
		m.ticker.Stop()
	}
	m.Quitting = true
	return m, tea.Quit
}

func (m Model) anyLoading() bool {
	if m.machine != nil && m.machine.IsLoading() {
		return true
	}
	return m.shopping != nil && m.shopping.IsLoading()
}

func isKnownView(v View) bool {
	switch v {
	case ViewList, ViewCountdown, ViewHistory:
		return true
	default:
		return false
	}
}
