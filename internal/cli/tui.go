package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/chainlens/chainlens/pkg/exploration"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// ExplorationListModel - Interactive exploration selection
// =============================================================================

// ExplorationListModel is the bubbletea model for interactive exploration
// selection.
type ExplorationListModel struct {
	Items    []*exploration.Exploration
	Cursor   int
	Selected *exploration.Exploration
	Height   int
	Offset   int
}

// NewExplorationListModel creates a new exploration list model.
func NewExplorationListModel(items []*exploration.Exploration) ExplorationListModel {
	return ExplorationListModel{
		Items:  items,
		Height: 15,
	}
}

func (m ExplorationListModel) Init() tea.Cmd {
	return nil
}

func (m ExplorationListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Items)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Items) == 0 {
				return m, nil
			}
			m.Selected = m.Items[m.Cursor]
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m ExplorationListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Exploration"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Items) {
		end = len(m.Items)
	}
	b.WriteString(explorationTable(m.Items, m.Cursor, m.Offset, end))
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Items))))

	return b.String()
}

// explorationTable renders items[offset:end] as a table. The row at cursor
// is highlighted; pass -1 for a plain listing.
func explorationTable(items []*exploration.Exploration, cursor, offset, end int) string {
	rows := make([][]string, 0, end-offset)
	for i := offset; i < end; i++ {
		exp := items[i]
		marker := "  "
		if i == cursor {
			marker = "▸ "
		}
		name := exp.Name
		if name == "" {
			name = "—"
		}
		rows = append(rows, []string{
			marker,
			exp.ID,
			name,
			strconv.Itoa(len(exp.Graph.Nodes)),
			strconv.Itoa(len(exp.Positions)),
			formatRelativeTime(exp.UpdatedAt),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "ID", "Name", "Nodes", "Positioned", "Updated").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle()
			if col == 1 || col == 5 {
				base = base.Foreground(colorDim)
			}
			if offset+row == cursor {
				if col == 1 || col == 5 {
					return base.Foreground(colorGray).Bold(true)
				}
				return base.Foreground(colorGreen).Bold(true)
			}
			return base
		})

	return t.Render()
}

// =============================================================================
// Helpers
// =============================================================================

func formatRelativeTime(t time.Time) string {
	return relativeTime(t, time.Now())
}

func relativeTime(t, now time.Time) string {
	diff := now.Sub(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
