package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/tickd/internal/commands"
	"github.com/sandeepkv93/tickd/internal/model"
	"github.com/sandeepkv93/tickd/internal/views"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m = m.closePalette()
		m.Status = StatusBar{Text: "command palette closed"}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	case "ctrl+c":
		return m.quit()
	default:
		if msg.Type == tea.KeyRunes {
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
		} else if msg.Type == tea.KeySpace {
			m.commandInput.SetValue(m.commandInput.Value() + " ")
		} else {
			m.commandInput, _ = m.commandInput.Update(msg)
		}
		m.Palette.Input = m.commandInput.Value()
	}
	return m, nil
}

func (m Model) closePalette() Model {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
	return m
}

func (m Model) executePaletteCommand() (Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m = m.closePalette()

	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	var follow tea.Cmd
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			if m.shopping == nil {
				return commands.Result{}, unavailable("shopping list")
			}
			item, _, err := m.shopping.Add(m.ctx, a.Name)
			if err != nil {
				return commands.Result{}, err
			}
			m, follow = m.switchView(ViewList)
			m.List.Cursor = 0
			return commands.Result{Message: fmt.Sprintf("added: %s", item.Name)}, nil
		},
		Toggle: func(a commands.ItemArgs) (commands.Result, error) {
			item, err := m.itemByNumber(a.Index)
			if err != nil {
				return commands.Result{}, err
			}
			toggled, err := m.shopping.Toggle(m.ctx, item.ID)
			if err != nil {
				return commands.Result{}, err
			}
			state := "open"
			if toggled.IsCompleted {
				state = "done"
			}
			return commands.Result{Message: fmt.Sprintf("%s marked %s", toggled.Name, state)}, nil
		},
		Delete: func(a commands.ItemArgs) (commands.Result, error) {
			item, err := m.itemByNumber(a.Index)
			if err != nil {
				return commands.Result{}, err
			}
			if item.IsCompleted {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "completed items cannot be deleted"}
			}
			m, follow = m.switchView(ViewList)
			m.List.Cursor = a.Index - 1
			m.List.ConfirmDeleteID = item.ID
			return commands.Result{Message: fmt.Sprintf("delete %s? (y/n)", item.Name)}, nil
		},
		Complete: func() (commands.Result, error) {
			if m.machine == nil {
				return commands.Result{}, unavailable("countdown")
			}
			if m.machine.IsLoading() {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "countdown still loading"}
			}
			if m.Countdown.Completing || m.machine.IsCompleting() {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "already recording a completion"}
			}
			var startCmd tea.Cmd
			m, startCmd = m.startComplete()
			follow = startCmd
			return commands.Result{Message: "recording completion..."}, nil
		},
		Show: func(s commands.ShowArgs) (commands.Result, error) {
			var view View
			switch s.Screen {
			case "list":
				view = ViewList
			case "countdown":
				view = ViewCountdown
			case "history":
				view = ViewHistory
			}
			m, follow = m.switchView(view)
			return commands.Result{Message: fmt.Sprintf("showing %s", strings.ToLower(string(view)))}, nil
		},
	})
	if err != nil {
		m.LastError = err
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.notify("Command Failed", err.Error(), "error")
		return m, follow
	}
	m.Status = StatusBar{Text: res.Message}
	m.notify("Command", res.Message, "info")
	return m, follow
}

func (m Model) itemByNumber(n int) (model.ShoppingItem, error) {
	if m.shopping == nil {
		return model.ShoppingItem{}, unavailable("shopping list")
	}
	item, ok := m.shopping.At(n - 1)
	if !ok {
		return model.ShoppingItem{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("no item number %d", n)}
	}
	return item, nil
}

func unavailable(what string) error {
	return &commands.CommandError{Code: commands.ErrCodeHandlerMissing, Message: what + " unavailable"}
}

func (m Model) renderCommandPalette() string {
	return views.RenderCommandPalette(m.Palette.Active, m.Palette.Input)
}
