package update

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/sandeepkv93/taskbot/internal/chat"
	"github.com/sandeepkv93/taskbot/internal/model"
)

const (
	defaultTaskPaneWidth = 44
	defaultWidth         = 120
	defaultHeight        = 32
	chromeHeight         = 7
)

// TaskLister feeds the task pane.
type TaskLister interface {
	ListTasks(ctx context.Context) ([]model.Task, error)
}

type StatusBar struct {
	Text    string
	IsError bool
}

type KeyMap struct {
	Send     key.Binding
	Refresh  key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Quit     key.Binding
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Send, k.Refresh, k.PageUp, k.PageDown, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Send:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
		Refresh:  key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "refresh tasks")),
		PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "scroll down")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
	}
}

type Options struct {
	TaskPaneWidth int
	Markdown      bool
}

type Model struct {
	Status   StatusBar
	Keys     KeyMap
	Tasks    []model.Task
	Messages []model.Message
	// Pending is the text of the turn in flight, shown until the reply lands.
	Pending   string
	Awaiting  bool
	Quitting  bool
	LastError error

	session  *chat.Session
	lister   TaskLister
	effects  <-chan TaskEvent
	ctx      context.Context
	markdown bool
	width    int
	height   int
	paneW    int
	rendered string

	input      textinput.Model
	transcript viewport.Model
	taskTable  table.Model
	spin       spinner.Model
	helpModel  help.Model
}

type ReplyMsg struct {
	Reply    model.Message
	Accepted bool
}

type TasksLoadedMsg struct {
	Tasks []model.Task
	Err   error
}

type TaskEventMsg struct {
	Event TaskEvent
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

// NewModel wires a chat session to the TUI. effects may be nil when the
// session was built without task hooks; the task pane then refreshes only
// on ctrl+r.
func NewModel(session *chat.Session, lister TaskLister, effects <-chan TaskEvent, opts Options) Model {
	m := Model{
		Keys:     DefaultKeyMap(),
		Messages: session.Transcript(),
		session:  session,
		lister:   lister,
		effects:  effects,
		ctx:      context.Background(),
		markdown: opts.Markdown,
		width:    defaultWidth,
		height:   defaultHeight,
		paneW:    opts.TaskPaneWidth,
	}
	if m.paneW <= 0 {
		m.paneW = defaultTaskPaneWidth
	}
	m.initBubbleComponents()
	m.syncBubbleData()
	return m
}

func (m *Model) initBubbleComponents() {
	m.input = textinput.New()
	m.input.Prompt = "> "
	m.input.Placeholder = "add buy milk, show my tasks, delete laundry..."
	m.input.CharLimit = 512
	m.input.Focus()

	m.transcript = viewport.New(m.chatWidth(), m.bodyHeight())

	cols := taskColumns(m.paneW)
	m.taskTable = table.New(table.WithColumns(cols), table.WithRows([]table.Row{}), table.WithHeight(m.bodyHeight()))

	m.spin = spinner.New()
	m.spin.Spinner = spinner.Dot

	m.helpModel = help.New()
}

func (m *Model) syncBubbleData() {
	m.input.Width = m.chatWidth() - 4
	m.transcript.Width = m.chatWidth()
	m.transcript.Height = m.bodyHeight()
	if content := m.renderTranscript(); content != m.rendered {
		m.rendered = content
		m.transcript.SetContent(content)
		m.transcript.GotoBottom()
	}

	m.taskTable.SetColumns(taskColumns(m.paneW))
	m.taskTable.SetHeight(m.bodyHeight())
	m.taskTable.SetRows(taskRows(m.Tasks))
}

func (m Model) chatWidth() int {
	w := m.width - m.paneW - 6
	if w < 20 {
		return 20
	}
	return w
}

func (m Model) bodyHeight() int {
	h := m.height - chromeHeight
	if h < 5 {
		return 5
	}
	return h
}
