package update

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/tickd/internal/countdown"
	"github.com/sandeepkv93/tickd/internal/model"
	"github.com/sandeepkv93/tickd/internal/shopping"
	"github.com/sandeepkv93/tickd/internal/views"
)

const permissionWarning = "Notifications are off: allow notifications to be reminded when the thing is due."

func (m Model) handleCountdownKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter", " ":
		return m.startComplete()
	}
	return m, nil
}

// startComplete launches the complete action unless one is already running
// or the record has not been loaded.
func (m Model) startComplete() (Model, tea.Cmd) {
	if m.machine == nil {
		return m, nil
	}
	if m.machine.IsLoading() {
		m.Status = StatusBar{Text: "countdown still loading"}
		return m, nil
	}
	if m.Countdown.Completing || m.machine.IsCompleting() {
		m.Status = StatusBar{Text: "already recording a completion"}
		return m, nil
	}
	m.Countdown.Completing = true
	m.Countdown.Warning = ""
	m.Status = StatusBar{Text: "recording completion..."}
	return m, completeCmd(m.ctx, m.machine)
}

func (m Model) onCountdownLoaded(msg CountdownLoadedMsg) (Model, tea.Cmd) {
	if msg.Err != nil {
		m.LastError = msg.Err
		m.log.Warn("countdown started from empty record", "error", msg.Err)
	}
	if m.machine != nil {
		m.Countdown.Status = m.machine.Status()
	}
	m.refreshHistory()
	return m, nil
}

func (m Model) onCountdownCompleted(msg CountdownCompletedMsg) Model {
	m.Countdown.Completing = false
	if msg.Err != nil {
		m.LastError = msg.Err
		text := msg.Err.Error()
		if errors.Is(msg.Err, countdown.ErrStorageWrite) {
			text = "could not save the completion: " + msg.Err.Error()
		}
		m.Status = StatusBar{Text: text, IsError: true}
		m.notify("Countdown", text, "error")
		return m
	}

	res := msg.Result
	if res.PermissionWarning {
		m.Countdown.Warning = permissionWarning
		m.notify("Countdown", permissionWarning, "warn")
	}
	if m.machine != nil {
		m.Countdown.Status = m.machine.Status()
	}
	m.refreshHistory()

	switch {
	case res.SchedulingErr != nil:
		m.Status = StatusBar{Text: "completion recorded; reminder could not be scheduled"}
	case res.NotificationID != "":
		m.Status = StatusBar{Text: fmt.Sprintf("completion recorded; reminder in %s", m.machine.Interval())}
	default:
		m.Status = StatusBar{Text: "completion recorded"}
	}
	return m
}

func (m Model) renderCountdownView() string {
	if m.machine == nil {
		return "countdown unavailable"
	}
	st := m.Countdown.Status
	data := views.CountdownPanelData{
		Loading:     m.machine.IsLoading(),
		SpinnerView: m.loadSpinner.View(),
		IsOverdue:   st.IsOverdue,
		Days:        st.Distance.Days,
		Hours:       st.Distance.Hours,
		Minutes:     st.Distance.Minutes,
		Seconds:     st.Distance.Seconds,
		Completing:  m.Countdown.Completing,
		Warning:     m.Countdown.Warning,
		Interval:    m.machine.Interval().String(),
	}
	if last, ok := m.machine.Record().LastCompleted(); ok {
		data.LastCompleted = last.Local().Format(historyLayout)
	}
	return views.RenderCountdownPanel(data)
}

func loadCountdownCmd(ctx context.Context, machine *countdown.Machine) tea.Cmd {
	return func() tea.Msg {
		return CountdownLoadedMsg{Err: machine.Load(ctx)}
	}
}

func loadShoppingCmd(ctx context.Context, list *shopping.List) tea.Cmd {
	return func() tea.Msg {
		return ShoppingLoadedMsg{Err: list.Load(ctx)}
	}
}

func completeCmd(ctx context.Context, machine *countdown.Machine) tea.Cmd {
	return func() tea.Msg {
		res, err := machine.Complete(ctx)
		return CountdownCompletedMsg{Result: res, Err: err}
	}
}

// waitForTickCmd reads the next status from a ticker run. A closed channel
// yields nil, which ends the wait loop for that run.
func waitForTickCmd(ch <-chan model.CountdownStatus) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		st, ok := <-ch
		if !ok {
			return nil
		}
		return CountdownTickMsg{Status: st, source: ch}
	}
}
