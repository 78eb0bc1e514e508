package cam

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ShikharGupta-75/Video-Call-translator/flow"
	"github.com/ShikharGupta-75/Video-Call-translator/pic"
)

// Term renders the call in the terminal: half-block video panes on
// top, a scrolling transcript of the peer's lines underneath. Frames
// are rasterized to ANSI on the caller's goroutine and handed to the
// bubbletea program, which never blocks the video loop.
type Term struct {
	prog   *tea.Program
	events *flow.Queue[Event]
	cols   int
	done   chan struct{}
}

// TermConfig sizes the terminal display. PreviewCols is the width of
// one video pane in terminal cells; defaults to 56.
type TermConfig struct {
	PreviewCols int
}

func NewTerm(cfg TermConfig) *Term {
	if cfg.PreviewCols <= 0 {
		cfg.PreviewCols = 56
	}
	events := flow.NewQueue[Event]()
	d := &Term{
		events: events,
		cols:   cfg.PreviewCols,
		done:   make(chan struct{}),
	}
	d.prog = tea.NewProgram(newTermModel(events), tea.WithAltScreen())
	go func() {
		defer close(d.done)
		d.prog.Run()
	}()
	return d
}

func (d *Term) ShowLocal(f *pic.Frame) {
	d.prog.Send(frameMsg{pane: paneLocal, ansi: pic.ANSI(f, d.cols)})
}

func (d *Term) ShowRemote(f *pic.Frame) {
	d.prog.Send(frameMsg{pane: paneRemote, ansi: pic.ANSI(f, d.cols)})
}

func (d *Term) ShowText(s string) {
	d.prog.Send(peerTextMsg(s))
}

func (d *Term) Events() []Event {
	var evs []Event
	for {
		ev, ok := d.events.Pop()
		if !ok {
			return evs
		}
		evs = append(evs, ev)
	}
}

func (d *Term) Close() error {
	d.prog.Quit()
	<-d.done
	return nil
}

const (
	paneLocal = iota
	paneRemote
)

type frameMsg struct {
	pane int
	ansi string
}

type peerTextMsg string

var (
	chromeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#25A065")).
			Padding(0, 1)
	paneTitleStyle = lipgloss.NewStyle().Bold(true)
	peerTextStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

type termModel struct {
	events     *flow.Queue[Event]
	viewport   viewport.Model
	transcript []string
	local      string
	remote     string
	width      int
	height     int
	ready      bool
}

func newTermModel(events *flow.Queue[Event]) termModel {
	return termModel{events: events}
}

func (m termModel) Init() tea.Cmd {
	return nil
}

func (m termModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.events.Push(EventQuit)
			return m, tea.Quit
		case "t":
			m.events.Push(EventToggleTranslate)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(m.width, 1)
			m.viewport.SetContent(m.transcriptView())
			m.ready = true
		}
		m.layout()

	case frameMsg:
		if msg.pane == paneLocal {
			m.local = msg.ansi
		} else {
			m.remote = msg.ansi
		}
		m.layout()

	case peerTextMsg:
		m.transcript = append(m.transcript, string(msg))
		m.viewport.SetContent(m.transcriptView())
		m.viewport.GotoBottom()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// layout gives the viewport whatever rows the chrome and the video
// panes leave over.
func (m *termModel) layout() {
	if !m.ready {
		return
	}
	chrome := lipgloss.Height(m.headerView()) +
		lipgloss.Height(m.panesView()) +
		lipgloss.Height(m.footerView())
	m.viewport.Width = m.width
	m.viewport.Height = max(1, m.height-chrome)
	m.viewport.YPosition = chrome - lipgloss.Height(m.footerView())
}

func (m termModel) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}
	return fmt.Sprintf(
		"%s\n%s\n%s\n%s",
		m.headerView(),
		m.panesView(),
		m.viewport.View(),
		m.footerView(),
	)
}

func (m termModel) panesView() string {
	local := m.local
	if local == "" {
		local = "waiting for camera..."
	}
	remote := m.remote
	if remote == "" {
		remote = "waiting for peer video..."
	}
	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		lipgloss.JoinVertical(lipgloss.Left, paneTitleStyle.Render("You"), local),
		"   ",
		lipgloss.JoinVertical(lipgloss.Left, paneTitleStyle.Render("Peer"), remote),
	)
}

func (m termModel) transcriptView() string {
	var b strings.Builder
	for _, line := range m.transcript {
		b.WriteString(peerTextStyle.Render(fmt.Sprintf("Peer: %s", line)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m termModel) headerView() string {
	title := chromeStyle.Render("Video Call Translator")
	line := strings.Repeat("─", max(0, m.width-lipgloss.Width(title)))
	return lipgloss.JoinHorizontal(lipgloss.Center, title, line)
}

func (m termModel) footerView() string {
	info := chromeStyle.Render("Press q to leave, t to toggle translation")
	line := strings.Repeat("─", max(0, m.width-lipgloss.Width(info)))
	return lipgloss.JoinHorizontal(lipgloss.Center, line, info)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
