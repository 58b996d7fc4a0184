package update

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/tickd/internal/model"
	"github.com/sandeepkv93/tickd/internal/shopping"
	"github.com/sandeepkv93/tickd/internal/views"
)

func (m Model) handleListKey(msg tea.KeyMsg) Model {
	if m.shopping == nil {
		return m
	}
	if m.List.ConfirmDeleteID != "" {
		return m.handleDeleteConfirmKey(msg)
	}
	if m.List.CaptureMode {
		return m.handleCaptureKey(msg)
	}

	switch msg.String() {
	case "a", "i":
		m.List.CaptureMode = true
		m.addInput.Focus()
		m.Status = StatusBar{Text: "type an item and press enter"}
	case "up", "k":
		if m.List.Cursor > 0 {
			m.List.Cursor--
		}
	case "down", "j":
		if m.List.Cursor < m.shopping.Len()-1 {
			m.List.Cursor++
		}
	case " ", "enter", "x":
		m = m.toggleItemAt(m.List.Cursor)
	case "d", "delete":
		m = m.requestDeleteAt(m.List.Cursor)
	}
	return m
}

func (m Model) handleCaptureKey(msg tea.KeyMsg) Model {
	switch msg.Type {
	case tea.KeyEsc:
		m.List.CaptureMode = false
		m.addInput.Blur()
		m.Status = StatusBar{Text: "list mode"}
		return m
	case tea.KeyEnter:
		m = m.addItem(m.addInput.Value())
		m.addInput.SetValue("")
		m.List.Input = ""
		return m
	case tea.KeyRunes:
		m.addInput.SetValue(m.addInput.Value() + string(msg.Runes))
	case tea.KeySpace:
		m.addInput.SetValue(m.addInput.Value() + " ")
	default:
		m.addInput, _ = m.addInput.Update(msg)
	}
	m.List.Input = m.addInput.Value()
	return m
}

func (m Model) handleDeleteConfirmKey(msg tea.KeyMsg) Model {
	id := m.List.ConfirmDeleteID
	switch msg.String() {
	case "y", "Y":
		m.List.ConfirmDeleteID = ""
		removed, err := m.shopping.Delete(m.ctx, id)
		if err != nil {
			m.setError(err)
			return m
		}
		m.clampListCursor()
		m.Status = StatusBar{Text: fmt.Sprintf("deleted: %s", removed.Name)}
	case "n", "N", "esc":
		m.List.ConfirmDeleteID = ""
		m.Status = StatusBar{Text: "delete cancelled"}
	}
	return m
}

func (m Model) addItem(name string) Model {
	item, added, err := m.shopping.Add(m.ctx, name)
	if err != nil {
		m.setError(err)
		return m
	}
	if !added {
		m.Status = StatusBar{Text: "nothing to add"}
		return m
	}
	m.List.Cursor = 0
	m.Status = StatusBar{Text: fmt.Sprintf("added: %s", item.Name)}
	return m
}

func (m Model) toggleItemAt(idx int) Model {
	item, ok := m.shopping.At(idx)
	if !ok {
		return m
	}
	toggled, err := m.shopping.Toggle(m.ctx, item.ID)
	if err != nil {
		m.setError(err)
		return m
	}
	if toggled.IsCompleted {
		m.Status = StatusBar{Text: fmt.Sprintf("checked off: %s", toggled.Name)}
	} else {
		m.Status = StatusBar{Text: fmt.Sprintf("unchecked: %s", toggled.Name)}
	}
	return m
}

func (m Model) requestDeleteAt(idx int) Model {
	item, ok := m.shopping.At(idx)
	if !ok {
		return m
	}
	if item.IsCompleted {
		m.Status = StatusBar{Text: shopping.ErrDeleteCompleted.Error(), IsError: true}
		return m
	}
	m.List.Cursor = idx
	m.List.ConfirmDeleteID = item.ID
	m.Status = StatusBar{Text: fmt.Sprintf("delete %s? (y/n)", item.Name)}
	return m
}

func (m *Model) clampListCursor() {
	if m.shopping == nil {
		m.List.Cursor = 0
		return
	}
	if n := m.shopping.Len(); m.List.Cursor >= n {
		m.List.Cursor = n - 1
	}
	if m.List.Cursor < 0 {
		m.List.Cursor = 0
	}
}

func (m *Model) setError(err error) {
	m.LastError = err
	text := err.Error()
	if errors.Is(err, shopping.ErrStorageWrite) {
		text = "could not save the shopping list: " + err.Error()
	}
	m.Status = StatusBar{Text: text, IsError: true}
	m.log.Error("shopping list action failed", "error", err)
}

func (m Model) renderListView() string {
	if m.shopping == nil {
		return "shopping list unavailable"
	}
	data := views.ShoppingPanelData{
		Loading:     m.shopping.IsLoading(),
		SpinnerView: m.loadSpinner.View(),
		InputView:   m.addInput.View(),
		CaptureMode: m.List.CaptureMode,
		EmptyText:   shopping.EmptyListPlaceholder,
	}
	for idx, item := range m.shopping.Items() {
		data.Items = append(data.Items, shoppingItemData(item, idx == m.List.Cursor))
		if item.ID == m.List.ConfirmDeleteID {
			data.ConfirmName = item.Name
		}
	}
	return views.RenderShoppingPanel(data)
}

func shoppingItemData(item model.ShoppingItem, selected bool) views.ShoppingItemData {
	return views.ShoppingItemData{
		Name:      item.Name,
		Completed: item.IsCompleted,
		Selected:  selected,
	}
}
