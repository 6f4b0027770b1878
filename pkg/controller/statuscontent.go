package controller

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/matt-steen/todo-tracker/pkg/listing"
	"github.com/rivo/tview"
)

// labelPalette is cycled by label id so todos sharing a label share a color.
var labelPalette = []string{"red", "green", "dodgerblue", "yellow", "fuchsia", "aqua", "orange", "lime"}

var columnHeaders = []string{"title", "details", "label", "due"}

// StatusContent implements tview.TableContent, which tview.Table uses to update data.
type StatusContent struct {
	tview.TableContentReadOnly
	group *listing.Group
}

// GetCell returns the cell at the given position or nil if no cell.
func (s *StatusContent) GetCell(row, col int) *tview.TableCell {
	if col < 0 || col >= len(columnHeaders) {
		return nil
	}

	if row == 0 {
		expansion := 1
		if col == 1 {
			expansion = descTitleRatio
		}

		return tview.NewTableCell(columnHeaders[col]).SetExpansion(expansion).
			SetTextColor(tcell.ColorYellow).SetSelectable(false)
	}

	if s.group == nil || row-1 >= len(s.group.Todos) {
		return nil
	}

	todo := s.group.Todos[row-1]

	switch col {
	case 0:
		return tview.NewTableCell(todo.Title).SetExpansion(1).SetReference(todo)
	case 1:
		return tview.NewTableCell(todo.Details).SetExpansion(descTitleRatio)
	case 2:
		if todo.Label == nil {
			return tview.NewTableCell("").SetExpansion(1)
		}

		color := labelPalette[todo.Label.ID%len(labelPalette)]

		return tview.NewTableCell(fmt.Sprintf("[%s]%s", color, todo.Label.Name)).
			SetExpansion(1)
	default:
		due := ""
		if todo.DueDate != nil {
			due = todo.DueDate.Local().Format("2006-01-02 15:04")
		}

		return tview.NewTableCell(due).SetExpansion(1)
	}
}

// GetRowCount returns the number of rows in the table.
func (s *StatusContent) GetRowCount() int {
	if s.group != nil {
		return len(s.group.Todos) + 1
	}

	return 1
}

// GetColumnCount returns the number of columns in the table.
func (s *StatusContent) GetColumnCount() int {
	return len(columnHeaders)
}
