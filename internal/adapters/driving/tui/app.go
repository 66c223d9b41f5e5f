package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/STiFLeR7/nanocortex/internal/adapters/driving/tui/components/list"
	"github.com/STiFLeR7/nanocortex/internal/adapters/driving/tui/components/status"
	"github.com/STiFLeR7/nanocortex/internal/adapters/driving/tui/keymap"
	"github.com/STiFLeR7/nanocortex/internal/adapters/driving/tui/messages"
	"github.com/STiFLeR7/nanocortex/internal/adapters/driving/tui/styles"
	"github.com/STiFLeR7/nanocortex/internal/core/domain"
)

// App is the review TUI following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	styles *styles.Styles
	keys   *keymap.KeyMap

	// decisionList is the pending decision list component.
	decisionList *list.DecisionList

	// statusBar is the bottom status line.
	statusBar *status.StatusBar

	// currentView tracks which view is active.
	currentView messages.ViewType

	// detail is the decision shown in the detail view.
	detail domain.Decision

	// trail holds the detail decision's audit events.
	trail []domain.AuditEvent

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates the first WindowSizeMsg has arrived.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates the review TUI with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	return &App{
		ports:        ports,
		styles:       s,
		keys:         keymap.DefaultKeyMap(),
		decisionList: list.NewDecisionList(s),
		statusBar:    status.NewStatusBar(s),
		currentView:  messages.ViewList,
	}, nil
}

// Init loads the pending decision list.
func (a *App) Init() tea.Cmd {
	return a.loadPending()
}

// Update handles messages and routes key presses per view.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.decisionList.SetWidth(msg.Width)
		a.statusBar.SetWidth(msg.Width)
		a.ready = true
		return a, nil

	case messages.PendingLoaded:
		a.decisionList.SetDecisions(msg.Decisions)
		a.statusBar.SetPending(len(msg.Decisions))
		return a, nil

	case messages.DecisionResolved:
		if !msg.Found {
			a.statusBar.SetMessage("decision no longer pending")
		} else if msg.Approved {
			a.statusBar.SetMessage("approved " + msg.Decision.ID)
		} else {
			a.statusBar.SetMessage("rejected " + msg.Decision.ID)
		}
		a.currentView = messages.ViewList
		return a, a.loadPending()

	case messages.TrailLoaded:
		if msg.DecisionID == a.detail.ID {
			a.trail = msg.Events
		}
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Help):
		if a.currentView == messages.ViewHelp {
			a.currentView = messages.ViewList
		} else {
			a.currentView = messages.ViewHelp
		}
		return a, nil

	case key.Matches(msg, a.keys.Back):
		a.currentView = messages.ViewList
		return a, nil

	case key.Matches(msg, a.keys.Refresh):
		return a, a.loadPending()

	case key.Matches(msg, a.keys.Approve):
		if decision, ok := a.reviewTarget(); ok {
			return a, a.approve(decision.ID)
		}
		return a, nil

	case key.Matches(msg, a.keys.Reject):
		if decision, ok := a.reviewTarget(); ok {
			return a, a.reject(decision.ID)
		}
		return a, nil

	case key.Matches(msg, a.keys.Select):
		if a.currentView == messages.ViewList {
			if decision, ok := a.decisionList.Selected(); ok {
				a.detail = decision
				a.trail = nil
				a.currentView = messages.ViewDetail
				return a, a.loadTrail(decision.ID)
			}
		}
		return a, nil
	}

	if a.currentView == messages.ViewList {
		var cmd tea.Cmd
		a.decisionList, cmd = a.decisionList.Update(msg)
		return a, cmd
	}
	return a, nil
}

// reviewTarget returns the decision an approve or reject applies to.
func (a *App) reviewTarget() (domain.Decision, bool) {
	if a.currentView == messages.ViewDetail {
		return a.detail, true
	}
	if a.currentView == messages.ViewList {
		return a.decisionList.Selected()
	}
	return domain.Decision{}, false
}

// View renders the active view with the status bar underneath.
func (a *App) View() string {
	if !a.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(a.styles.Title.Render("nanocortex review"))
	b.WriteString("\n\n")

	switch a.currentView {
	case messages.ViewDetail:
		b.WriteString(a.detailView())
	case messages.ViewHelp:
		b.WriteString(a.helpView())
	default:
		b.WriteString(a.decisionList.View())
	}

	b.WriteString("\n")
	b.WriteString(a.statusBar.View())
	b.WriteString("\n")
	b.WriteString(a.styles.Help.Render("enter open · a approve · r reject · R refresh · ? help · q quit"))
	return b.String()
}

func (a *App) detailView() string {
	var b strings.Builder
	b.WriteString(a.styles.Subtitle.Render("Decision " + a.detail.ID))
	b.WriteString("\n\n")
	b.WriteString(a.styles.Normal.Render("Q: " + a.detail.Query))
	b.WriteString("\n")
	answer := strings.TrimPrefix(a.detail.Answer, domain.PendingMarker)
	b.WriteString(a.styles.Pending.Render("A: " + answer))
	b.WriteString("\n\n")

	if len(a.detail.Evidence) > 0 {
		b.WriteString(a.styles.Subtitle.Render("Evidence"))
		b.WriteString("\n")
		for i, result := range a.detail.Evidence {
			b.WriteString(a.styles.Normal.Render(fmt.Sprintf("  [%d] %.4f %s", i+1, result.Score, snippet(result.Text))))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	matched := matchedRules(a.detail.PolicyEvaluations)
	if len(matched) > 0 {
		b.WriteString(a.styles.Subtitle.Render("Matched rules"))
		b.WriteString("\n")
		for _, ev := range matched {
			style := a.styles.Pending
			if ev.Verdict == domain.VerdictDeny {
				style = a.styles.Denied
			}
			b.WriteString(style.Render(fmt.Sprintf("  %s -> %s", ev.Rule.Name, ev.Verdict)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(a.trail) > 0 {
		b.WriteString(a.styles.Subtitle.Render("Audit trail"))
		b.WriteString("\n")
		for _, event := range a.trail {
			b.WriteString(a.styles.Muted.Render(fmt.Sprintf("  %s  %s/%s", event.Timestamp.Format("15:04:05"), event.Layer, event.EventType)))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (a *App) helpView() string {
	lines := []string{
		"↑/k      up",
		"↓/j      down",
		"enter    open decision",
		"a        approve",
		"r        reject",
		"R        refresh",
		"esc      back",
		"q        quit",
	}
	return a.styles.Help.Render(strings.Join(lines, "\n"))
}

func (a *App) loadPending() tea.Cmd {
	return func() tea.Msg {
		return messages.PendingLoaded{Decisions: a.ports.Pipeline.Pending()}
	}
}

func (a *App) loadTrail(decisionID string) tea.Cmd {
	return func() tea.Msg {
		return messages.TrailLoaded{
			DecisionID: decisionID,
			Events:     a.ports.Pipeline.AuditTrail(decisionID),
		}
	}
}

func (a *App) approve(decisionID string) tea.Cmd {
	return func() tea.Msg {
		decision, ok := a.ports.Pipeline.Approve(decisionID)
		return messages.DecisionResolved{Decision: decision, Approved: true, Found: ok}
	}
}

func (a *App) reject(decisionID string) tea.Cmd {
	return func() tea.Msg {
		decision, ok := a.ports.Pipeline.Reject(decisionID, "rejected in review")
		return messages.DecisionResolved{Decision: decision, Approved: false, Found: ok}
	}
}

func matchedRules(evaluations []domain.PolicyEvaluation) []domain.PolicyEvaluation {
	var matched []domain.PolicyEvaluation
	for _, ev := range evaluations {
		if ev.Matched {
			matched = append(matched, ev)
		}
	}
	return matched
}

func snippet(text string) string {
	const max = 100
	text = strings.ReplaceAll(text, "\n", " ")
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}
