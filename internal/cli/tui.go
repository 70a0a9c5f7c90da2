package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/okislab/placemat/pkg/board"
	"github.com/okislab/placemat/pkg/graph"
	"github.com/okislab/placemat/pkg/render"
	"github.com/okislab/placemat/pkg/render/term"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// tuiCommand creates the tui command: an interactive board browser with
// collapse/expand keys, rendered through the terminal backend.
func (c *CLI) tuiCommand() *cobra.Command {
	var margin float64

	cmd := &cobra.Command{
		Use:   "tui [file]",
		Short: "Browse a board interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := graph.ReadBoardFile(args[0])
			if err != nil {
				return err
			}

			model := NewBoardModel(args[0], b, c.margin(margin))
			final, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return err
			}

			if m, ok := final.(BoardModel); ok && m.Dirty {
				if err := graph.WriteBoardFile(m.Board, args[0]); err != nil {
					return err
				}
				printSuccess("Saved %s", args[0])
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&margin, "margin", 0, "region interior margin (default from config or built-in)")
	return cmd
}

// =============================================================================
// BoardModel - Interactive board browser
// =============================================================================

// BoardModel is the bubbletea model for the board browser. The board canvas
// is rendered through the terminal render backend; the placemat list on the
// side drives collapse/expand.
type BoardModel struct {
	Path   string
	Board  *board.Board
	Margin float64
	Dirty  bool

	cursor int
	mats   []*board.Placemat
	canvas string
	status string
	width  int
	height int
}

// NewBoardModel creates a browser model for the given board.
func NewBoardModel(path string, b *board.Board, margin float64) BoardModel {
	m := BoardModel{
		Path:   path,
		Board:  b,
		Margin: margin,
		width:  80,
		height: 24,
	}
	m.refresh()
	return m
}

func (m BoardModel) Init() tea.Cmd {
	return nil
}

func (m BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.mats)-1 {
				m.cursor++
			}
		case "enter", " ":
			m.toggle()
		case "c":
			m.apply(m.Board.Collapse)
		case "x":
			m.apply(m.Board.Expand)
		case "f":
			if p := m.current(); p != nil {
				if err := m.Board.BringToFront(p.ID); err == nil {
					m.Dirty = true
					m.refresh()
				}
			}
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.refresh()
	}
	return m, nil
}

// toggle collapses an expanded placemat and expands a collapsed one.
func (m *BoardModel) toggle() {
	p := m.current()
	if p == nil {
		return
	}
	if p.Collapsed {
		m.apply(m.Board.Expand)
	} else {
		m.apply(m.Board.Collapse)
	}
}

// apply runs a board mutation against the placemat under the cursor and
// refreshes the canvas on success.
func (m *BoardModel) apply(fn func(board.ElementID) error) {
	p := m.current()
	if p == nil {
		return
	}
	if err := fn(p.ID); err != nil {
		m.status = err.Error()
		return
	}
	m.status = ""
	m.Dirty = true
	m.refresh()
}

func (m *BoardModel) current() *board.Placemat {
	if m.cursor < 0 || m.cursor >= len(m.mats) {
		return nil
	}
	return m.mats[m.cursor]
}

// refresh re-renders the board canvas and rebuilds the placemat list.
// Placemats are listed back to front so the list order matches stacking.
func (m *BoardModel) refresh() {
	m.mats = m.Board.Placemats()

	canvasWidth := m.width - 30
	if canvasWidth < 20 {
		canvasWidth = 20
	}
	canvasHeight := m.height - 6
	if canvasHeight < 8 {
		canvasHeight = 8
	}

	backend := term.New(term.WithSize(canvasWidth, canvasHeight))
	engine := render.NewEngine(backend)
	f, err := engine.Begin()
	if err != nil {
		m.canvas = err.Error()
		return
	}
	resolver := board.NewResolver(m.Board).WithMargin(m.Margin)
	if err := render.BuildScene(f, m.Board, resolver); err != nil {
		m.canvas = err.Error()
		return
	}
	out, err := f.End(context.Background())
	if err != nil {
		m.canvas = err.Error()
		return
	}
	m.canvas = string(out)
}

func (m BoardModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("Placemat %s %s", iconArrow, m.Path)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ toggle  c collapse  x expand  f front  q quit"))
	b.WriteString("\n\n")

	var list strings.Builder
	list.WriteString(listDimStyle.Render("Placemats"))
	list.WriteString("\n")
	if len(m.mats) == 0 {
		list.WriteString(listDimStyle.Render("  (none)"))
		list.WriteString("\n")
	}
	for i, p := range m.mats {
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		state := " "
		if p.Collapsed {
			state = StyleWarning.Render("▪")
		}
		line := fmt.Sprintf("%s%s %s", cursor, state, p.DisplayTitle())
		if i == m.cursor {
			list.WriteString(listSelectedStyle.Render(line))
		} else {
			list.WriteString(listNormalStyle.Render(line))
		}
		list.WriteString("\n")
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.canvas, "   ", list.String()))

	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(StyleWarning.Render(m.status))
	} else if m.Dirty {
		b.WriteString(listDimStyle.Render("modified - saved on quit"))
	}

	return b.String()
}
