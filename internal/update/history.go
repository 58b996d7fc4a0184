package update

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/tickd/internal/views"
)

const historyLayout = "Mon Jan 2 2006 15:04:05"

func (m Model) handleHistoryKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "g":
		m.historyTable.GotoTop()
	case "G":
		m.historyTable.GotoBottom()
	default:
		m.historyTable, _ = m.historyTable.Update(msg)
	}
	return m
}

func (m Model) historyRows() []table.Row {
	if m.machine == nil {
		return nil
	}
	stamps := m.machine.Record().CompletedAt
	rows := make([]table.Row, 0, len(stamps))
	for i, ms := range stamps {
		at := time.UnixMilli(ms).Local()
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", i+1),
			at.Format("Mon Jan 2 2006"),
			at.Format("15:04:05"),
		})
	}
	return rows
}

func (m *Model) refreshHistory() {
	m.historyTable.SetRows(m.historyRows())
}

func (m Model) renderHistoryView() string {
	data := views.HistoryPanelData{TableView: m.historyTable.View()}
	if m.machine != nil {
		data.Count = len(m.machine.Record().CompletedAt)
		if at, ok := m.machine.LastSaved(); ok {
			data.LastSaved = at.Local().Format(historyLayout)
		}
	}
	return views.RenderHistoryPanel(data)
}
