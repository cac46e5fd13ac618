package main

import (
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/jwebster45206/worldsim/internal/turnengine"
	"github.com/jwebster45206/worldsim/pkg/parser"
	"github.com/jwebster45206/worldsim/pkg/world"
)

const placeHolderText = "Type your move here...\nExamples: look around. take the lantern. go north."

// ConsoleUI is the BubbleTea model driving a local play session: every
// submitted line runs straight through the turn engine, no network
// round trip.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	engine *turnengine.Engine

	chatViewport viewport.Model
	sideViewport viewport.Model
	textarea     textarea.Model
	transcript   strings.Builder

	ready         bool
	width, height int

	showQuitModal bool
	lastNarration string
}

var (
	chatPanelStyle = lipgloss.NewStyle().PaddingTop(1).PaddingLeft(2)
	sidePanelStyle = lipgloss.NewStyle().PaddingTop(1).PaddingLeft(0).PaddingRight(2)

	titleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	narratorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	promptStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	separatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2)
)

func NewConsoleUI(engine *turnengine.Engine) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = placeHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 500
	ta.SetWidth(50)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	chatVp := viewport.New(50, 20)
	sideVp := viewport.New(20, 20)

	ui := ConsoleUI{
		engine:       engine,
		textarea:     ta,
		chatViewport: chatVp,
		sideViewport: sideVp,
	}
	ui.writeNarration("", lookAround(engine))
	return ui
}

// lookAround renders the starting location for the transcript's first
// line, without spending a turn (no player action has happened yet).
func lookAround(engine *turnengine.Engine) string {
	acc := engine.Accessor()
	loc, ok := acc.GetCurrentLocation(world.PlayerID)
	if !ok {
		return "You are lost."
	}
	return titleStyle.Render(loc.Name) + "\n" + loc.Description
}

func (m *ConsoleUI) writeNarration(input, reply string) {
	if input != "" {
		m.transcript.WriteString(userStyle.Render("> "+input) + "\n\n")
	}
	m.transcript.WriteString(narratorStyle.Render(reply) + "\n\n")
	m.transcript.WriteString(separatorStyle.Render(strings.Repeat("-", 40)) + "\n\n")
}

func (m *ConsoleUI) parseContext() parser.Context {
	acc := m.engine.Accessor()
	loc, ok := acc.GetCurrentLocation(world.PlayerID)
	if !ok {
		return parser.Context{}
	}
	exits := make([]string, 0, len(loc.Exits))
	for dir := range loc.Exits {
		exits = append(exits, dir)
	}
	return parser.Context{Exits: exits}
}

func (m *ConsoleUI) renderSidebar() string {
	acc := m.engine.Accessor()
	var b strings.Builder
	if loc, ok := acc.GetCurrentLocation(world.PlayerID); ok {
		b.WriteString(titleStyle.Render("Location") + "\n" + loc.Name + "\n\n")
	}
	b.WriteString(titleStyle.Render("Inventory") + "\n")
	player, ok := acc.GetActor(world.PlayerID)
	if !ok || len(player.Inventory) == 0 {
		b.WriteString("(empty)\n")
	} else {
		for _, id := range player.Inventory {
			if it, ok := acc.GetItem(id); ok {
				b.WriteString("- " + it.Name + "\n")
			}
		}
	}
	return b.String()
}

func (m ConsoleUI) Init() tea.Cmd {
	return textarea.Blink
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		if key, ok := msg.(tea.KeyMsg); ok {
			switch key.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N", "esc":
				m.showQuitModal = false
			}
		}
		return m, nil
	}

	var tiCmd, vpCmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		chatWidth := int(float64(m.width)*0.75) - 4
		sideWidth := m.width - chatWidth - 6

		m.chatViewport.Width = chatWidth - 2
		m.chatViewport.Height = m.height - 7
		m.sideViewport.Width = sideWidth - 2
		m.sideViewport.Height = m.height - 4
		m.textarea.SetWidth(chatWidth - 4)

		m.ready = true
		m.refreshPanels()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			return m.submit()
		case tea.KeyCtrlY:
			m.copyLastNarration()
			return m, nil
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.chatViewport, vpCmd = m.chatViewport.Update(msg)
	return m, tea.Batch(tiCmd, vpCmd)
}

func (m ConsoleUI) submit() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.textarea.Value())
	if input == "" {
		return m, nil
	}
	m.textarea.Reset()

	result, err := m.engine.Turn(m.parseContext(), input)
	if err != nil {
		m.writeNarration(input, errorStyle.Render(err.Error()))
		m.refreshPanels()
		return m, nil
	}

	reply := result.Turn.Narration.Primary
	for _, beat := range result.Turn.Narration.SecondaryBeats {
		reply += "\n" + beat
	}
	for _, phase := range result.Phases {
		reply += "\n" + phase
	}
	m.lastNarration = reply
	m.writeNarration(input, reply)
	m.refreshPanels()
	return m, nil
}

// copyLastNarration puts the most recent turn's narration on the
// system clipboard, bound to ctrl+y so a player can paste a moment
// into notes or a bug report without retyping it.
func (m *ConsoleUI) copyLastNarration() {
	if m.lastNarration == "" {
		return
	}
	_ = clipboard.WriteAll(m.lastNarration)
}

func (m *ConsoleUI) refreshPanels() {
	m.chatViewport.SetContent(wordwrap.String(m.transcript.String(), maxWidth(m.chatViewport.Width, 20)))
	m.chatViewport.GotoBottom()
	m.sideViewport.SetContent(wordwrap.String(m.renderSidebar(), maxWidth(m.sideViewport.Width, 10)))
}

func maxWidth(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func (m ConsoleUI) View() string {
	if !m.ready {
		return "Loading world...\n"
	}
	if m.showQuitModal {
		return modalStyle.Render("Quit the session? (y/n)")
	}
	chat := chatPanelStyle.Render(m.chatViewport.View() + "\n" + m.textarea.View())
	side := sidePanelStyle.Render(m.sideViewport.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, chat, side)
}
