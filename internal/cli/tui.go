package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/treeline/pkg/document"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// PageListModel - Interactive page selection
// =============================================================================

// PageListModel is the bubbletea model for interactive page selection.
type PageListModel struct {
	Pages    []*document.Document
	Cursor   int
	Selected *document.Document
	Height   int
	Offset   int
}

// NewPageListModel creates a new page list model.
func NewPageListModel(pages []*document.Document) PageListModel {
	return PageListModel{
		Pages:  pages,
		Height: 15,
	}
}

func (m PageListModel) Init() tea.Cmd {
	return nil
}

func (m PageListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Pages)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Pages) == 0 {
				return m, tea.Quit
			}
			m.Selected = m.Pages[m.Cursor]
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

func (m PageListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Page"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Pages))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		p := m.Pages[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		layout := "—"
		if parent, err := p.ParentLayout(); err == nil {
			layout = parent.Label()
		}

		fragments := "—"
		if names := p.FragmentNames(); len(names) > 0 {
			fragments = strings.Join(names, ", ")
		}

		rows = append(rows, []string{cursor, p.Path(), layout, fragments})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Page", "Layout", "Fragments").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}

			idx := m.Offset + row
			if idx >= len(m.Pages) {
				return lipgloss.NewStyle()
			}
			extends := m.Pages[idx].HasParentLayout()

			base := lipgloss.NewStyle()
			if idx == m.Cursor {
				base = base.Bold(true)
			}
			if !extends {
				return base.Foreground(colorDim)
			}
			if col == 3 {
				return base.Foreground(colorGray)
			}
			return base.Foreground(colorGreen)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Pages))))

	return b.String()
}
