package update

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/sandeepkv93/tickd/internal/countdown"
	"github.com/sandeepkv93/tickd/internal/model"
	"github.com/sandeepkv93/tickd/internal/notify"
	"github.com/sandeepkv93/tickd/internal/scheduler"
	"github.com/sandeepkv93/tickd/internal/shopping"
)

type View string

const (
	ViewList      View = "List"
	ViewCountdown View = "Countdown"
	ViewHistory   View = "History"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	List      string
	Countdown string
	History   string
	Help      string
	Quit      string
}

type ListState struct {
	Cursor      int
	CaptureMode bool
	Input       string
	// ConfirmDeleteID is the item awaiting a y/n answer.
	ConfirmDeleteID string
}

type CountdownState struct {
	Status     model.CountdownStatus
	Completing bool
	Warning    string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

// Deps are the long-lived collaborators shared by every copy of the Model.
type Deps struct {
	Context  context.Context
	Machine  *countdown.Machine
	Ticker   *countdown.Ticker
	Shopping *shopping.List
	Engine   *scheduler.Engine
	Notifier notify.DesktopNotifier
	Logger   *slog.Logger
	Config   RuntimeConfig
}

type Model struct {
	CurrentView     View
	List            ListState
	Countdown       CountdownState
	Palette         CommandPaletteState
	HelpVisible     bool
	Notifications   []notify.Message
	NotificationLog []scheduler.Notification
	DesktopEnabled  bool
	Status          StatusBar
	Keys            GlobalKeyMap
	Quitting        bool
	LastError       error

	ctx      context.Context
	machine  *countdown.Machine
	ticker   *countdown.Ticker
	shopping *shopping.List
	engine   *scheduler.Engine
	notifier notify.DesktopNotifier
	log      *slog.Logger

	addInput     textinput.Model
	commandInput textinput.Model
	loadSpinner  spinner.Model
	historyTable table.Model
	helpModel    help.Model
}

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

type CountdownLoadedMsg struct {
	Err error
}

type ShoppingLoadedMsg struct {
	Err error
}

type CountdownTickMsg struct {
	Status model.CountdownStatus
	source <-chan model.CountdownStatus
}

type CountdownCompletedMsg struct {
	Result countdown.CompleteResult
	Err    error
}

type NotificationFiredMsg struct {
	Notification scheduler.Notification
}

func NewModel(deps Deps) Model {
	ctx := deps.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	notifier := deps.Notifier
	if notifier == nil {
		notifier = notify.NoopDesktopNotifier{}
	}
	ticker := deps.Ticker
	if ticker == nil && deps.Machine != nil {
		ticker = countdown.NewTicker(deps.Machine, 0)
	}
	m := Model{
		CurrentView:    ViewList,
		DesktopEnabled: deps.Config.DesktopNotifications,
		Keys: GlobalKeyMap{
			List:      "1",
			Countdown: "2",
			History:   "3",
			Help:      "?",
			Quit:      "q",
		},
		ctx:      ctx,
		machine:  deps.Machine,
		ticker:   ticker,
		shopping: deps.Shopping,
		engine:   deps.Engine,
		notifier: notifier,
		log:      logger.With("component", "tui"),
	}
	m.initBubbleComponents()
	return m
}

func (m *Model) initBubbleComponents() {
	m.addInput = textinput.New()
	m.addInput.Prompt = "add> "
	m.addInput.Placeholder = "Add an item"
	m.addInput.CharLimit = 256
	m.addInput.Width = 42

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.loadSpinner = spinner.New()
	m.loadSpinner.Spinner = spinner.Dot

	cols := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Date", Width: 16},
		{Title: "Time", Width: 10},
	}
	m.historyTable = table.New(table.WithColumns(cols), table.WithRows([]table.Row{}), table.WithFocused(true), table.WithHeight(10))

	m.helpModel = help.New()
}
