package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/JuanNavarr0/labster-quiz-generator/internal/domain"
)

// RAGPort is the TUI-facing subset of the RAG service.
type RAGPort interface {
	RetrieveContext(ctx context.Context, query string, topK int, minScore float64) domain.RetrievedContext
	VerifyScientificContent(ctx context.Context, objective string) domain.VerificationResult
}

type mode int

const (
	modeQuery mode = iota
	modeVerify
)

// Model is the Bubble Tea model for the interactive session.
type Model struct {
	service  RAGPort
	input    textinput.Model
	viewport viewport.Model
	mode     mode
	context  domain.RetrievedContext
	verdict  *domain.VerificationResult
	status   string
	cursor   int
	ready    bool
}

// New creates a new TUI model instance.
func New(service RAGPort) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type a query and press Enter (Tab switches mode)"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{service: service, input: ti, viewport: vp, status: "Index loaded. Type to search."}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + 1 + qh + 1 // header + mode line, status, query box, spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = maxInt(20, msg.Width)
		m.viewport.Height = maxInt(3, vh-rh)
		m.viewport.SetContent(m.renderBody())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		switch msg.String() {
		case "tab":
			if m.mode == modeQuery {
				m.mode = modeVerify
				m.input.Placeholder = "Type a learning objective and press Enter"
				m.status = "Verify mode: checking reference coverage."
			} else {
				m.mode = modeQuery
				m.input.Placeholder = "Type a query and press Enter (Tab switches mode)"
				m.status = "Query mode: retrieving reference material."
			}
			m.viewport.SetContent(m.renderBody())
			return m, nil
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" {
				m.run(q)
				m.viewport.SetContent(m.renderBody())
				return m, nil
			}
		case "down":
			if len(m.context.Results) > 0 {
				m.cursor = (m.cursor + 1) % len(m.context.Results)
				m.viewport.SetContent(m.renderBody())
				return m, nil
			}
		case "up":
			if len(m.context.Results) > 0 {
				m.cursor = (m.cursor - 1 + len(m.context.Results)) % len(m.context.Results)
				m.viewport.SetContent(m.renderBody())
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) run(q string) {
	ctx := context.Background()
	switch m.mode {
	case modeQuery:
		m.verdict = nil
		m.context = m.service.RetrieveContext(ctx, q, 0, -1)
		m.cursor = 0
		m.status = fmt.Sprintf("Results for %q (confidence %.3f)", q, m.context.OverallConfidence)
	case modeVerify:
		v := m.service.VerifyScientificContent(ctx, q)
		m.verdict = &v
		m.context = domain.RetrievedContext{}
		m.status = fmt.Sprintf("Verified %q", q)
	}
}

// View renders the TUI layout and current result.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Labster Reference Search")
	modeLabel := "QUERY"
	if m.mode == modeVerify {
		modeLabel = "VERIFY"
	}
	modeLine := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render("mode: " + modeLabel)
	body := resultBoxStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	return header + "\n" + modeLine + "\n" + body + "\n" + input + "\n" + status
}

func (m Model) renderBody() string {
	if m.verdict != nil {
		return renderVerdict(*m.verdict)
	}
	if len(m.context.Results) == 0 {
		return "No results yet."
	}
	r := m.context.Results[m.cursor]
	title := fmt.Sprintf("Result %d/%d  score=%.3f  %s (%s)",
		m.cursor+1, len(m.context.Results), r.Score, r.Chunk.Source, r.Chunk.Subject)
	if r.Chunk.Heading != "" {
		title += "\nSection: " + r.Chunk.Heading
	}
	return title + "\n\n" + r.Chunk.Text
}

func renderVerdict(v domain.VerificationResult) string {
	var b strings.Builder
	if v.IsVerified {
		b.WriteString(verifiedStyle.Render("VERIFIED"))
	} else {
		b.WriteString(rejectedStyle.Render("NOT VERIFIED"))
	}
	b.WriteString(fmt.Sprintf("  confidence %.3f\n", v.ConfidenceScore))
	if v.WarningMessage != "" {
		b.WriteString("\n" + warningStyle.Render(v.WarningMessage) + "\n")
	}
	if len(v.RelevantSubjects) > 0 {
		b.WriteString("\nSubjects: " + strings.Join(v.RelevantSubjects, ", "))
	}
	return b.String()
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	verifiedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	rejectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warningStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
