package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

// ConsoleUI is the BubbleTea model that runs the story player.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config        *ConsoleConfig
	client        *http.Client
	session       *playResponse
	storyViewport viewport.Model
	metaViewport  viewport.Model
	ready         bool
	width         int
	height        int
	err           error
	loading       bool

	// Choice navigation state
	selectedChoice int

	// Story selection state
	showStoryModal bool
	stories        []string
	selectedStory  int
	loadingStories bool

	// Quit confirmation state
	showQuitModal bool

	// Transient status line (clipboard feedback)
	statusLine string
}

type storiesLoadedMsg struct {
	stories []string
	err     error
}

type sessionStartedMsg struct {
	session *playResponse
	err     error
}

type steppedMsg struct {
	session *playResponse
	err     error
}

var (
	storyPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	nodeTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	contentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	choiceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	selectedChoiceStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("39")).
				Bold(true)

	endedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")). // yellow
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)

	modalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	modalSelectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)
)

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client) ConsoleUI {
	storyVp := viewport.New(50, 20)
	storyVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return ConsoleUI{
		config:         cfg,
		client:         client,
		storyViewport:  storyVp,
		metaViewport:   metaVp,
		showStoryModal: true,
		loadingStories: true,
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return m.loadStories()
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showStoryModal {
		return m.updateStoryModal(msg)
	}
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.storyViewport, vpCmd = m.storyViewport.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizePanels()
		m.writeStoryContent()
		m.writeMetadata()
		m.ready = true

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyUp:
			if m.selectedChoice > 0 {
				m.selectedChoice--
				m.writeStoryContent()
			}
			return m, nil
		case tea.KeyDown:
			if m.session != nil && m.selectedChoice < len(m.session.Node.Choices)-1 {
				m.selectedChoice++
				m.writeStoryContent()
			}
			return m, nil
		case tea.KeyEnter:
			return m.pickSelectedChoice()
		}

		switch msg.String() {
		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			idx := int(msg.String()[0] - '1')
			if m.session != nil && idx < len(m.session.Node.Choices) {
				m.selectedChoice = idx
				return m.pickSelectedChoice()
			}
			return m, nil
		case "r":
			// Re-fetch the session from the server
			if m.session != nil && !m.loading {
				m.loading = true
				m.writeStoryContent()
				return m, m.refreshSession()
			}
			return m, nil
		case "c":
			// Copy the session id so a save can be resumed later
			if m.session != nil && m.session.State != nil {
				if err := clipboard.WriteAll(m.session.State.ID.String()); err != nil {
					m.statusLine = "Clipboard unavailable"
				} else {
					m.statusLine = "Session id copied to clipboard"
				}
				m.writeMetadata()
			}
			return m, nil
		}

	case steppedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.err = nil
			m.session = msg.session
			m.selectedChoice = 0
		}
		m.writeStoryContent()
		m.writeMetadata()
		return m, nil
	}

	m.storyViewport, vpCmd = m.storyViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)
	return m, tea.Batch(vpCmd, mvCmd)
}

func (m ConsoleUI) pickSelectedChoice() (tea.Model, tea.Cmd) {
	if m.loading || m.session == nil {
		return m, nil
	}
	choices := m.session.Node.Choices
	if len(choices) == 0 || m.selectedChoice >= len(choices) {
		return m, nil
	}

	m.loading = true
	choiceID := choices[m.selectedChoice].ID
	return m, m.stepSession(choiceID)
}

func (m *ConsoleUI) resizePanels() {
	storyWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - storyWidth - 6

	m.storyViewport.Width = storyWidth - 2
	m.storyViewport.Height = m.height - 5
	m.metaViewport.Width = metaWidth - 2
	m.metaViewport.Height = m.height - 4
}

// writeStoryContent renders the current node and its choices into the
// story viewport for the current width.
func (m *ConsoleUI) writeStoryContent() {
	storyWidth := m.storyViewport.Width - 6
	if storyWidth < 10 {
		storyWidth = 10
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render("STORYFORGE") + "\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", storyWidth)) + "\n\n")

	if m.session != nil {
		node := m.session.Node
		if node.Title != "" {
			content.WriteString(nodeTitleStyle.Render(node.Title) + "\n\n")
		}
		content.WriteString(contentStyle.Render(wordwrap.String(node.Content, storyWidth)) + "\n\n")

		if m.session.State != nil && m.session.State.Ended {
			content.WriteString(endedStyle.Render("THE END") + "\n\n")
		}

		for i, c := range node.Choices {
			label := fmt.Sprintf("%d. %s", i+1, c.Text)
			if i == m.selectedChoice {
				content.WriteString(selectedChoiceStyle.Render("▶ "+label) + "\n")
			} else {
				content.WriteString(choiceStyle.Render("  "+label) + "\n")
			}
		}
		if len(node.Choices) == 0 {
			content.WriteString(promptStyle.Render("No choices remain.") + "\n")
		}
	}

	if m.loading {
		content.WriteString("\n" + loadingStyle.Render("..."))
	}
	if m.err != nil {
		content.WriteString("\n" + errorStyle.Render("Error: "+m.err.Error()))
	}

	m.storyViewport.SetContent(content.String())
	m.storyViewport.GotoTop()
}

func (m *ConsoleUI) writeMetadata() {
	var content strings.Builder
	content.WriteString(titleStyle.Render("SESSION") + "\n\n")

	if m.session != nil && m.session.State != nil {
		st := m.session.State

		content.WriteString("Session ID:\n")
		content.WriteString(st.ID.String()[:8] + "...\n\n")

		content.WriteString("Story:\n")
		content.WriteString(st.StoryID + "\n\n")

		content.WriteString("Nodes visited:\n")
		content.WriteString(fmt.Sprintf("%d\n\n", len(st.History)))

		if st.Ended {
			content.WriteString(endedStyle.Render("Ended") + "\n\n")
		}
	}

	content.WriteString("Commands:\n")
	content.WriteString("• ↑/↓: Select\n")
	content.WriteString("• Enter: Choose\n")
	content.WriteString("• 1-9: Quick pick\n")
	content.WriteString("• c: Copy session id\n")
	content.WriteString("• r: Refresh\n")
	content.WriteString("• Ctrl+C: Quit\n")

	if m.statusLine != "" {
		content.WriteString("\n" + loadingStyle.Render(m.statusLine) + "\n")
	}

	m.metaViewport.SetContent(content.String())
}

func (m ConsoleUI) loadStories() tea.Cmd {
	return func() tea.Msg {
		ids, err := listStories(m.client, m.config.APIBaseURL)
		return storiesLoadedMsg{ids, err}
	}
}

func (m ConsoleUI) startStorySession(storyID string) tea.Cmd {
	return func() tea.Msg {
		pr, err := startSession(m.client, m.config.APIBaseURL, storyID)
		return sessionStartedMsg{pr, err}
	}
}

func (m ConsoleUI) stepSession(choiceID string) tea.Cmd {
	return func() tea.Msg {
		pr, err := chooseOption(m.client, m.config.APIBaseURL, m.session.State.ID, choiceID)
		return steppedMsg{pr, err}
	}
}

func (m ConsoleUI) refreshSession() tea.Cmd {
	return func() tea.Msg {
		pr, err := getSession(m.client, m.config.APIBaseURL, m.session.State.ID)
		return steppedMsg{pr, err}
	}
}

func (m ConsoleUI) updateStoryModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case storiesLoadedMsg:
		m.loadingStories = false
		if msg.err != nil {
			m.err = msg.err
		} else if len(msg.stories) == 0 {
			m.err = fmt.Errorf("no stories available; publish one with PUT /v1/stories/{id}")
		} else {
			m.stories = msg.stories
		}

	case sessionStartedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.err = nil
			m.session = msg.session
			m.selectedChoice = 0
			m.showStoryModal = false
			if m.width > 0 && m.height > 0 {
				m.resizePanels()
			}
			m.writeStoryContent()
			m.writeMetadata()
			m.ready = true
		}

	case tea.KeyMsg:
		if m.loadingStories || m.err != nil {
			if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
				return m, tea.Quit
			}
			return m, nil
		}

		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyUp:
			if m.selectedStory > 0 {
				m.selectedStory--
			}
		case tea.KeyDown:
			if m.selectedStory < len(m.stories)-1 {
				m.selectedStory++
			}
		case tea.KeyEnter:
			if len(m.stories) > 0 {
				m.loading = true
				return m, m.startStorySession(m.stories[m.selectedStory])
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				return m, nil
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit?"))
	content.WriteString("\n\n")
	content.WriteString("Leave the story? Your session is saved on the server.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderStoryModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder

	if m.loadingStories {
		content.WriteString(modalTitleStyle.Render("Loading Stories..."))
		content.WriteString("\n\n")
		content.WriteString(loadingStyle.Render("Please wait while we fetch the story library..."))
	} else if m.err != nil {
		content.WriteString(modalTitleStyle.Render("Error"))
		content.WriteString("\n\n")
		content.WriteString(errorStyle.Render(fmt.Sprintf("Failed to load stories: %v", m.err)))
		content.WriteString("\n\n")
		content.WriteString("Press Ctrl+C to exit")
	} else if m.loading {
		content.WriteString(modalTitleStyle.Render("Starting Story..."))
		content.WriteString("\n\n")
		content.WriteString(loadingStyle.Render("Setting up your session..."))
	} else {
		content.WriteString(modalTitleStyle.Render("Select a Story"))
		content.WriteString("\n\n")

		for i, id := range m.stories {
			if i == m.selectedStory {
				content.WriteString(modalSelectedItemStyle.Render(fmt.Sprintf("▶ %s", id)))
			} else {
				content.WriteString(modalItemStyle.Render(fmt.Sprintf("  %s", id)))
			}
			content.WriteString("\n")
		}

		content.WriteString("\n")
		content.WriteString(promptStyle.Render("Use ↑/↓ to navigate, Enter to select, Ctrl+C to exit"))
	}

	modal := modalStyle.Width(60).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showStoryModal {
		return m.renderStoryModal()
	}
	if m.showQuitModal {
		return m.renderQuitModal()
	}
	if !m.ready {
		return "\n  Initializing..."
	}

	storyWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - storyWidth - 6

	storyPanel := storyPanelStyle.Width(storyWidth).Height(m.height - 3).Render(
		m.storyViewport.View(),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, storyPanel, metaPanel)
}
