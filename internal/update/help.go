package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/sandeepkv93/tickd/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

const paletteHelpMarkdown = `**Commands**

- ` + "`add <name>`" + ` add a shopping item
- ` + "`toggle <n>`" + ` / ` + "`delete <n>`" + ` by list number
- ` + "`complete`" + ` record that the thing was done
- ` + "`show list|countdown|history`" + `
`

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return m.renderHelpView()
}

func (m Model) renderHelpView() string {
	var plain []string
	for _, kb := range m.viewBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	bindings := m.helpBindings()
	return views.RenderHelpPanel(views.HelpPanelData{
		CurrentView: strings.ToLower(string(m.CurrentView)),
		Bindings:    plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: bindings,
			full:  [][]key.Binding{bindings},
		}),
		CommandsView: views.RenderMarkdown(paletteHelpMarkdown),
	})
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.List, Action: "switch to shopping list"},
		{Key: m.Keys.Countdown, Action: "switch to countdown"},
		{Key: m.Keys.History, Action: "switch to history"},
		{Key: "/", Action: "open command palette"},
		{Key: m.Keys.Help, Action: "toggle help panel"},
		{Key: m.Keys.Quit, Action: "quit app"},
	}
}

func (m Model) viewBindings() []KeyBinding {
	switch m.CurrentView {
	case ViewList:
		return []KeyBinding{
			{Key: "a", Action: "add item (enter saves, esc leaves)"},
			{Key: "j/k", Action: "move cursor"},
			{Key: "space", Action: "check/uncheck item"},
			{Key: "d", Action: "delete open item (y/n)"},
		}
	case ViewCountdown:
		return []KeyBinding{
			{Key: "enter", Action: "I've done the thing!"},
		}
	case ViewHistory:
		return []KeyBinding{
			{Key: "j/k", Action: "scroll completions"},
			{Key: "g/G", Action: "newest / oldest"},
		}
	default:
		return []KeyBinding{{Key: "-", Action: "no contextual bindings"}}
	}
}

func (m Model) helpBindings() []key.Binding {
	out := make([]key.Binding, 0, len(m.globalBindings())+len(m.viewBindings()))
	for _, kb := range m.globalBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	for _, kb := range m.viewBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
