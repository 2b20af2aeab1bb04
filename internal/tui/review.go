// internal/tui/review.go
//
// Review screen shown before the dataset is rewritten. The left pane lists
// every pending Primary Risks rewrite; the right pane shows the risks being
// folded and the body that replaces them. Nothing is written unless the user
// accepts.

package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/primary-risks/internal/standardize"
)

const (
	defaultWidth  = 100
	defaultHeight = 24
	chromeHeight  = 4
)

// changeItem implements list.Item for one pending rewrite.
type changeItem struct {
	change standardize.Change
}

func (i changeItem) Title() string { return i.change.Company }
func (i changeItem) Description() string {
	return fmt.Sprintf("bullet %d · %d risk(s)", i.change.Bullet, len(i.change.Risks))
}
func (i changeItem) FilterValue() string { return i.change.Company }

// Review is the bubbletea model for the review screen.
type Review struct {
	changes  []standardize.Change
	list     list.Model
	detail   viewport.Model
	decided  bool
	accepted bool
	width    int
	height   int
}

// NewReview builds the review model for the given changes.
func NewReview(changes []standardize.Change) *Review {
	items := make([]list.Item, 0, len(changes))
	for _, c := range changes {
		items = append(items, changeItem{change: c})
	}
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = fmt.Sprintf("Primary Risks · %d pending", len(changes))
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	r := &Review{
		changes: changes,
		list:    l,
		detail:  viewport.New(0, 0),
	}
	r.resize(defaultWidth, defaultHeight)
	return r
}

// Accepted reports whether the user approved the rewrite.
func (r *Review) Accepted() bool {
	return r.decided && r.accepted
}

// Init implements tea.Model.
func (r *Review) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (r *Review) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.resize(msg.Width, msg.Height)
		return r, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "y", "Y", "enter":
			r.decided = true
			r.accepted = true
			return r, tea.Quit
		case "n", "N", "q", "esc", "ctrl+c":
			r.decided = true
			r.accepted = false
			return r, tea.Quit
		case "pgdown", "pgup":
			var cmd tea.Cmd
			r.detail, cmd = r.detail.Update(msg)
			return r, cmd
		}
	}
	var cmd tea.Cmd
	r.list, cmd = r.list.Update(msg)
	r.syncDetail()
	return r, cmd
}

// View implements tea.Model.
func (r *Review) View() string {
	if r.decided {
		return ""
	}
	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF6B6B")).
		Render("⬡ STANDARDIZE PRIMARY RISKS")
	leftBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Render(r.list.View())
	rightBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Render(r.detail.View())
	body := lipgloss.JoinHorizontal(lipgloss.Top, leftBox, rightBox)
	footer := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		Render("↑/↓ select · pgup/pgdn scroll · y/enter write changes · n/q discard")
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (r *Review) resize(width, height int) {
	r.width = width
	r.height = height
	paneHeight := max(3, height-chromeHeight-2)
	listWidth := max(20, width/3)
	detailWidth := max(20, width-listWidth-6)
	r.list.SetSize(listWidth, paneHeight)
	r.detail.Width = detailWidth
	r.detail.Height = paneHeight
	r.syncDetail()
}

func (r *Review) syncDetail() {
	item, ok := r.list.SelectedItem().(changeItem)
	if !ok {
		r.detail.SetContent("No pending changes.")
		return
	}
	r.detail.SetContent(renderChange(item.change, r.detail.Width))
}

func renderChange(c standardize.Change, width int) string {
	label := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
	wrap := lipgloss.NewStyle().Width(max(20, width))

	var b strings.Builder
	b.WriteString(label.Render(fmt.Sprintf("%s · record %d · bullet %d", c.Company, c.Record, c.Bullet)))
	b.WriteString("\n\n")
	b.WriteString(label.Render("risks (removed)"))
	b.WriteString("\n")
	for _, risk := range c.Risks {
		b.WriteString(muted.Render(wrap.Render("- " + risk)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(label.Render("body (new)"))
	b.WriteString("\n")
	b.WriteString(wrap.Render(c.Body))
	return b.String()
}

// Confirmer runs the review screen as a full-screen program.
type Confirmer struct {
	opts []tea.ProgramOption
}

// NewConfirmer creates a Confirmer. Extra program options are passed through
// to bubbletea, e.g. to redirect input and output.
func NewConfirmer(opts ...tea.ProgramOption) *Confirmer {
	return &Confirmer{opts: opts}
}

// Confirm shows the pending changes and blocks until the user decides.
func (c *Confirmer) Confirm(ctx context.Context, changes []standardize.Change) (bool, error) {
	if len(changes) == 0 {
		return false, nil
	}
	opts := append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, c.opts...)
	p := tea.NewProgram(NewReview(changes), opts...)
	final, err := p.Run()
	if err != nil {
		return false, fmt.Errorf("tui: review: %w", err)
	}
	review, ok := final.(*Review)
	if !ok {
		return false, fmt.Errorf("tui: unexpected model %T", final)
	}
	return review.Accepted(), nil
}
