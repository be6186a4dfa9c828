package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jwebster45206/realm-engine/internal/handlers"
	"github.com/jwebster45206/realm-engine/internal/session"
	"github.com/jwebster45206/realm-engine/pkg/chat"
	"github.com/jwebster45206/realm-engine/pkg/state"
	"github.com/muesli/reflow/wordwrap"
)

const (
	AgentName       = "Narrator"
	PlaceHolderText = "Type your action here..."
)

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config       *ConsoleConfig
	api          *apiClient
	view         *handlers.SessionView
	transcript   []chat.Message
	chatViewport viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	ready        bool
	width        int
	height       int
	err          error
	loading      bool
	status       string

	// World selection state
	showWorldModal bool
	worlds         []handlers.WorldSummary
	selectedWorld  int
	loadingWorlds  bool

	showQuitModal bool

	progressTick int
}

type turnMsg struct {
	outcome *session.TurnOutcome
	err     error
}

type sessionMsg struct {
	view *handlers.SessionView
	err  error
}

type rollbackMsg struct {
	view *handlers.SessionView
	page *handlers.PageView
	err  error
}

type pageMsg struct {
	page *handlers.PageView
	err  error
}

type worldsLoadedMsg struct {
	worlds []handlers.WorldSummary
	err    error
}

type sessionCreatedMsg struct {
	view *handlers.SessionView
	page *handlers.PageView
	err  error
}

type progressTickMsg struct{}

var (
	chatPanelStyle = lipgloss.NewStyle().
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

	speakerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	narratorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	noteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("178")).
			Italic(true)

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

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

func NewConsoleUI(cfg *ConsoleConfig, api *apiClient) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = chat.MaxInputLength
	ta.SetWidth(50)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	chatVp := viewport.New(50, 20)
	chatVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return ConsoleUI{
		config:         cfg,
		api:            api,
		textarea:       ta,
		chatViewport:   chatVp,
		metaViewport:   metaVp,
		showWorldModal: true,
		loadingWorlds:  true,
	}
}

func bar(cur, limit, width int) string {
	if limit <= 0 || width <= 0 {
		return ""
	}
	filled := min(max(cur, 0)*width/limit, width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func writeMetadata(v *handlers.SessionView) string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("TU TIÊN") + "\n\n")
	if v == nil || v.KnowledgeBase == nil {
		return content.String()
	}
	kb := v.KnowledgeBase
	ps := kb.PlayerStats

	if kb.WorldConfig.PlayerName != "" {
		content.WriteString(kb.WorldConfig.PlayerName + "\n")
	}
	content.WriteString(fmt.Sprintf("Cảnh giới: %s\n", ps.Realm))
	if ps.Plateau {
		content.WriteString(errorStyle.Render("Bình cảnh") + "\n")
	}
	content.WriteString(fmt.Sprintf("Lượt %d · Trang %d\n\n", ps.Turn, v.PageCount))

	content.WriteString(fmt.Sprintf("Sinh lực %d/%d\n%s\n", v.Stats.HP, v.Stats.MaxHP, bar(v.Stats.HP, v.Stats.MaxHP, 16)))
	content.WriteString(fmt.Sprintf("Linh lực %d/%d\n%s\n", v.Stats.MP, v.Stats.MaxMP, bar(v.Stats.MP, v.Stats.MaxMP, 16)))
	content.WriteString(fmt.Sprintf("Kinh nghiệm %d/%d\n%s\n", v.Stats.Exp, v.Stats.MaxExp, bar(v.Stats.Exp, v.Stats.MaxExp, 16)))
	content.WriteString(fmt.Sprintf("Sức tấn công %d\n", v.Stats.Attack))
	content.WriteString(fmt.Sprintf("Linh thạch %d\n\n", ps.Currency))

	if loc := kb.CurrentLocation(); loc != nil {
		content.WriteString("Vị trí:\n" + loc.Name + "\n\n")
	}

	if len(ps.ActiveStatusEffects) > 0 {
		content.WriteString("Hiệu ứng:\n")
		for _, e := range ps.ActiveStatusEffects {
			content.WriteString("• " + e.Name + "\n")
		}
		content.WriteString("\n")
	}

	content.WriteString("Commands:\n")
	content.WriteString("• Ctrl+C: Quit\n")
	content.WriteString("• Enter: Send\n")
	content.WriteString("• /help: Help\n")
	content.WriteString("• /undo: Rollback\n")

	return content.String()
}

// writeChatContent rebuilds the chat pane for the current viewport width.
func (m *ConsoleUI) writeChatContent() {
	chatWidth := m.chatViewport.Width - 6 // Account for left(3) + right(3) padding
	if chatWidth < 10 {
		chatWidth = 10
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render("REALM ENGINE") + "\n\n")
	content.WriteString("Type your actions below to continue the story.\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", max(chatWidth-6, 1))) + "\n\n")

	for _, msg := range m.transcript {
		switch msg.Role {
		case chat.RoleNarrator:
			content.WriteString(formatNarratorResponse(msg.Content, chatWidth) + "\n\n")
		case chat.RoleSystem:
			content.WriteString(noteStyle.Render(wordwrap.String(msg.Content, chatWidth)) + "\n\n")
		case chat.RoleSummary:
			content.WriteString(promptStyle.Render(wordwrap.String(msg.Content, chatWidth)) + "\n\n")
		case chat.RoleUser:
			content.WriteString(userStyle.Render("You: ") + wordwrap.String(msg.Content, chatWidth-6) + "\n\n")
		}
	}

	if m.status != "" {
		content.WriteString(m.status + "\n\n")
	}
	if m.loading {
		content.WriteString(m.renderProgressBar())
	}

	m.chatViewport.SetContent(content.String())
	m.chatViewport.GotoBottom()
}

func (m *ConsoleUI) layout() {
	chatWidth := int(float64(m.width)*0.72) - 4
	metaWidth := m.width - chatWidth - 6
	m.chatViewport.Width = chatWidth - 2
	m.chatViewport.Height = m.height - 7
	m.metaViewport.Width = metaWidth - 2
	m.metaViewport.Height = m.height - 4
	m.textarea.SetWidth(chatWidth - 4)
}

func (m ConsoleUI) Init() tea.Cmd {
	if m.showWorldModal {
		return m.loadWorlds()
	}
	return textarea.Blink
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}
	if m.showWorldModal {
		return m.updateWorldModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.chatViewport, vpCmd = m.chatViewport.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.ready = true
		m.writeChatContent()
		m.metaViewport.SetContent(writeMetadata(m.view))

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}

			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}
			m.textarea.Reset()

			if strings.HasPrefix(input, "/") {
				return m.handleCommand(input)
			}

			m.loading = true
			m.progressTick = 0
			m.status = ""
			m.transcript = append(m.transcript, chat.NewMessage(chat.RoleUser, input, m.view.KnowledgeBase.PlayerStats.Turn))
			m.writeChatContent()

			return m, tea.Batch(m.playTurn(input), progressTick())
		}

	case turnMsg:
		m.loading = false
		if msg.err != nil {
			// The server left the game untouched; drop the optimistic line.
			if n := len(m.transcript); n > 0 && m.transcript[n-1].Role == chat.RoleUser {
				m.transcript = m.transcript[:n-1]
			}
			m.status = errorStyle.Render("Error: " + msg.err.Error())
			m.writeChatContent()
			return m, nil
		}
		out := msg.outcome
		if out.Page != nil {
			// A page just closed; start the pane over with its summary.
			m.transcript = []chat.Message{chat.NewMessage(chat.RoleSummary, fmt.Sprintf("[Trang %d] %s", out.Page.Page, out.Page.Summary), out.Turn)}
			m.transcript = append(m.transcript, chat.NewMessage(chat.RoleNarrator, out.Narration, out.Turn-1))
		} else {
			m.transcript = append(m.transcript, chat.NewMessage(chat.RoleNarrator, out.Narration, out.Turn-1))
		}
		for _, n := range out.Notifications {
			m.transcript = append(m.transcript, chat.NewMessage(chat.RoleSystem, n.Text, out.Turn-1))
		}
		if out.AvatarsApplied > 0 {
			m.status = promptStyle.Render(fmt.Sprintf("%d portrait(s) arrived.", out.AvatarsApplied))
		}
		m.writeChatContent()
		return m, m.refreshSession()

	case sessionMsg:
		if msg.err == nil && msg.view != nil {
			m.view = msg.view
			m.metaViewport.SetContent(writeMetadata(m.view))
		}

	case rollbackMsg:
		m.loading = false
		if msg.err != nil {
			m.status = errorStyle.Render("Rollback failed: " + msg.err.Error())
		} else {
			m.view = msg.view
			m.transcript = msg.page.Messages
			m.status = promptStyle.Render(fmt.Sprintf("Rolled back to turn %d.", m.view.KnowledgeBase.PlayerStats.Turn))
			m.metaViewport.SetContent(writeMetadata(m.view))
		}
		m.writeChatContent()
		return m, nil

	case pageMsg:
		if msg.err != nil {
			m.status = errorStyle.Render("Error: " + msg.err.Error())
		} else {
			m.status = renderPage(msg.page, m.chatViewport.Width-6)
		}
		m.writeChatContent()
		return m, nil

	case progressTickMsg:
		if m.loading {
			m.progressTick++
			m.writeChatContent()
			return m, progressTick()
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.chatViewport, vpCmd = m.chatViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

func renderPage(p *handlers.PageView, width int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Trang %d", p.Page)) + "\n")
	if p.Summary != "" {
		b.WriteString(promptStyle.Render(wordwrap.String(p.Summary, width)) + "\n")
	}
	for _, msg := range p.Messages {
		if msg.Role == chat.RoleSystem {
			continue
		}
		b.WriteString(wordwrap.String(msg.Content, width) + "\n")
	}
	return b.String()
}

func formatNarratorResponse(response string, width int) string {
	// Check if response already has a speaker prefix
	hasPrefix := false
	if idx := strings.Index(response, ":"); idx > 0 && idx <= 20 {
		speaker := response[:idx]
		if len(strings.Fields(speaker)) <= 2 {
			hasPrefix = true
		}
	}

	wrapWidth := width
	if !hasPrefix {
		wrapWidth = width - len(AgentName+": ")
	}

	wrappedResponse := wordwrap.String(response, wrapWidth)
	lines := strings.Split(wrappedResponse, "\n")
	var formattedLines []string

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			formattedLines = append(formattedLines, "")
			continue
		}

		if idx := strings.Index(trimmed, ":"); idx > 0 && idx <= 20 {
			speaker := trimmed[:idx]
			rest := trimmed[idx+1:]
			if len(strings.Fields(speaker)) <= 2 {
				formattedLines = append(formattedLines, speakerStyle.Render(speaker+":")+rest)
				continue
			}
		}

		formattedLines = append(formattedLines, line)
	}

	result := strings.Join(formattedLines, "\n")
	if !hasPrefix {
		result = narratorStyle.Render(AgentName+": ") + result
	}
	return result
}

const helpText = `
Commands:
• /help - Show this help
• /undo - Roll back the last turn
• /page N - Show page N of the story
• /inv - Show inventory
• /quests - Show quests
• /npcs - Show known characters
• /copy - Copy the last narration
• Ctrl+C - Quit game
`

func (m ConsoleUI) handleCommand(input string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(strings.ToLower(input))
	kb := m.view.KnowledgeBase

	switch fields[0] {
	case "/help":
		m.status = titleStyle.Render("Help:") + helpText

	case "/undo", "/rollback":
		m.loading = true
		m.status = ""
		m.writeChatContent()
		return m, tea.Batch(m.rollback(), progressTick())

	case "/page":
		page := m.view.PageCount
		if len(fields) > 1 {
			n, err := strconv.Atoi(fields[1])
			if err != nil {
				m.status = errorStyle.Render("Usage: /page N")
				break
			}
			page = n
		}
		return m, m.loadPage(page)

	case "/inv", "/inventory":
		m.status = listInventory(kb)

	case "/quests":
		m.status = listQuests(kb)

	case "/npcs":
		m.status = listNPCs(kb)

	case "/copy":
		for i := len(m.transcript) - 1; i >= 0; i-- {
			if m.transcript[i].Role != chat.RoleNarrator {
				continue
			}
			if err := clipboard.WriteAll(m.transcript[i].Content); err != nil {
				m.status = errorStyle.Render("Copy failed: " + err.Error())
			} else {
				m.status = promptStyle.Render("Copied.")
			}
			break
		}

	default:
		m.status = errorStyle.Render("Unknown command " + fields[0] + "; try /help")
	}

	m.writeChatContent()
	return m, nil
}

func listInventory(kb *state.KnowledgeBase) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Túi đồ:") + "\n")
	if len(kb.Inventory) == 0 {
		b.WriteString("Trống.\n")
	}
	equipped := make(map[string]state.EquipmentSlot)
	for slot, id := range kb.EquippedItems {
		if id != "" {
			equipped[id] = slot
		}
	}
	for _, it := range kb.Inventory {
		line := fmt.Sprintf("• %s x%d (%s)", it.Name, it.Quantity, it.Rarity)
		if slot, ok := equipped[it.ID]; ok {
			line += fmt.Sprintf(" [%s]", slot)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func listQuests(kb *state.KnowledgeBase) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Nhiệm vụ:") + "\n")
	if len(kb.Quests) == 0 {
		b.WriteString("Chưa có nhiệm vụ.\n")
	}
	for _, q := range kb.Quests {
		b.WriteString(fmt.Sprintf("• %s (%s)\n", q.Title, q.Status))
		for _, o := range q.Objectives {
			mark := " "
			if o.Completed {
				mark = "x"
			}
			b.WriteString(fmt.Sprintf("   [%s] %s\n", mark, o.Text))
		}
	}
	return b.String()
}

func listNPCs(kb *state.KnowledgeBase) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Nhân vật:") + "\n")
	if len(kb.NPCs) == 0 {
		b.WriteString("Chưa gặp ai.\n")
	}
	for _, n := range kb.NPCs {
		line := fmt.Sprintf("• %s", n.Name)
		if n.Realm != "" {
			line += " · " + n.Realm
		}
		line += fmt.Sprintf(" · thiện cảm %d", n.Affinity)
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m ConsoleUI) playTurn(message string) tea.Cmd {
	id := m.view.ID
	return func() tea.Msg {
		out, err := m.api.playTurn(id, message)
		return turnMsg{out, err}
	}
}

func (m ConsoleUI) refreshSession() tea.Cmd {
	id := m.view.ID
	return func() tea.Msg {
		v, err := m.api.getSession(id)
		return sessionMsg{v, err}
	}
}

func (m ConsoleUI) rollback() tea.Cmd {
	id := m.view.ID
	return func() tea.Msg {
		v, err := m.api.rollback(id)
		if err != nil {
			return rollbackMsg{err: err}
		}
		p, err := m.api.getPage(id, v.PageCount)
		return rollbackMsg{view: v, page: p, err: err}
	}
}

func (m ConsoleUI) loadPage(page int) tea.Cmd {
	id := m.view.ID
	return func() tea.Msg {
		p, err := m.api.getPage(id, page)
		return pageMsg{p, err}
	}
}

func (m ConsoleUI) loadWorlds() tea.Cmd {
	return func() tea.Msg {
		worlds, err := m.api.listWorlds()
		return worldsLoadedMsg{worlds, err}
	}
}

func (m ConsoleUI) createSession(worldFile string) tea.Cmd {
	return func() tea.Msg {
		v, err := m.api.createSession(worldFile)
		if err != nil {
			return sessionCreatedMsg{err: err}
		}
		p, err := m.api.getPage(v.ID, v.PageCount)
		return sessionCreatedMsg{view: v, page: p, err: err}
	}
}

func (m ConsoleUI) updateWorldModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case worldsLoadedMsg:
		m.loadingWorlds = false
		if msg.err != nil {
			m.err = msg.err
		} else if len(msg.worlds) == 0 {
			m.err = fmt.Errorf("no world presets are installed")
		} else {
			m.worlds = msg.worlds
		}

	case sessionCreatedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.view = msg.view
		m.transcript = msg.page.Messages
		m.showWorldModal = false
		if m.width > 0 && m.height > 0 {
			m.layout()
		}
		m.writeChatContent()
		m.metaViewport.SetContent(writeMetadata(m.view))
		m.textarea.Focus()
		m.ready = true
		return m, textarea.Blink

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
			if m.loadingWorlds {
				return m, tea.Quit
			}
			m.showQuitModal = true
			return m, nil
		}
		if m.loadingWorlds || m.err != nil || m.loading {
			return m, nil
		}

		switch msg.Type {
		case tea.KeyUp:
			if m.selectedWorld > 0 {
				m.selectedWorld--
			}
		case tea.KeyDown:
			if m.selectedWorld < len(m.worlds)-1 {
				m.selectedWorld++
			}
		case tea.KeyEnter:
			if len(m.worlds) > 0 {
				m.loading = true
				return m, m.createSession(m.worlds[m.selectedWorld].Filename)
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
				if m.showWorldModal {
					return m, nil
				}
				m.textarea.Focus()
				return m, textarea.Blink
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
	content.WriteString(modalTitleStyle.Render("Quit Game?"))
	content.WriteString("\n\n")
	content.WriteString("Your progress is saved on the server.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderWorldModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder

	switch {
	case m.loadingWorlds:
		content.WriteString(modalTitleStyle.Render("Loading Worlds..."))
		content.WriteString("\n\n")
		content.WriteString(loadingStyle.Render("Please wait while we fetch available worlds..."))
	case m.err != nil:
		content.WriteString(modalTitleStyle.Render("Error"))
		content.WriteString("\n\n")
		content.WriteString(errorStyle.Render(fmt.Sprintf("%v", m.err)))
		content.WriteString("\n\n")
		content.WriteString("Press Ctrl+C to exit")
	case m.loading:
		content.WriteString(modalTitleStyle.Render("Creating Game..."))
		content.WriteString("\n\n")
		content.WriteString(loadingStyle.Render("Setting up your cultivation path..."))
	default:
		content.WriteString(modalTitleStyle.Render("Select a World"))
		content.WriteString("\n\n")
		for i, w := range m.worlds {
			if i == m.selectedWorld {
				content.WriteString(modalSelectedItemStyle.Render(fmt.Sprintf("▶ %s", w.Name)))
			} else {
				content.WriteString(modalItemStyle.Render(fmt.Sprintf("  %s", w.Name)))
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
	if m.showQuitModal {
		return m.renderQuitModal()
	}
	if m.showWorldModal {
		return m.renderWorldModal()
	}
	if !m.ready {
		return "\n  Initializing..."
	}

	chatWidth := int(float64(m.width)*0.72) - 4
	metaWidth := m.width - chatWidth - 6

	chatPanel := chatPanelStyle.Width(chatWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.chatViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", max(chatWidth-4, 1))),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, chatPanel, metaPanel)
}

// renderProgressBar creates an animated progress bar for loading states
func (m ConsoleUI) renderProgressBar() string {
	usable := m.chatViewport.Width - 6
	if usable <= 0 {
		usable = 30 // fallback before sizing
	}
	usable = min(max(usable, 10), 80)

	const totalFrames = 40
	frame := m.progressTick % totalFrames
	filled := (frame * usable) / totalFrames

	var b strings.Builder
	for i := 0; i < usable; i++ {
		switch {
		case i < filled:
			b.WriteString("█")
		case i == filled && frame%4 < 2:
			b.WriteString("▓") // Blinking effect at the progress point
		default:
			b.WriteString("░")
		}
	}
	return separatorStyle.Render(b.String())
}

func progressTick() tea.Cmd {
	return tea.Tick(time.Millisecond*200, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}
