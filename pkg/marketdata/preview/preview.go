package preview

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/rxtech-lab/index-history/internal/types"
)

// DefaultRows is the number of leading rows shown after a download.
const DefaultRows = 5

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	indexStyle  = lipgloss.NewStyle().Padding(0, 1)
	valueStyle  = lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
)

// Rows returns the first n records of t, rendered exactly as the writers render them.
func Rows(t *types.PriceTable, n int) [][]string {
	head := t.Head(n)

	rows := make([][]string, 0, len(head))
	for _, bar := range head {
		rows = append(rows, t.Record(bar))
	}

	return rows
}

// Render prints the header and the first n rows of t.
func Render(w io.Writer, t *types.PriceTable, n int) error {
	rendered := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(t.Header()...).
		Rows(Rows(t, n)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return indexStyle
			default:
				return valueStyle
			}
		}).
		Render()

	if _, err := fmt.Fprintln(w, rendered); err != nil {
		return fmt.Errorf("failed to write preview: %w", err)
	}

	return nil
}
