package controller

import (
	"fmt"
	"sort"
	"strings"

	"github.com/matt-steen/todo-tracker/pkg/db"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"
)

func (c *Controller) getStatusGrid(status db.Status) *tview.Grid {
	header := c.getStatusHeader(status)
	c.statusTables[status] = c.getTable(status)

	grid := tview.NewGrid().SetBorders(true).SetRows(header.GetRowCount(), 0)

	grid.AddItem(header, 0, 0, 1, 1, 0, 0, false)
	grid.AddItem(c.statusTables[status], 1, 0, 1, 1, 0, 0, true)

	return grid
}

// getStatusHeader returns the header used for each list of todos.
// it shows the status at the top, followed by 2 columns listing keyboard shortcuts.
// the first column contains misc shortcuts and the second contains "Show <status>" shortcuts.
// Both columns are sorted alphabetically.
func (c *Controller) getStatusHeader(status db.Status) *tview.Table {
	table := tview.NewTable().SetBorders(false).SetSelectable(false, false)

	row := 0
	table.SetCell(row, 0, tview.NewTableCell(fmt.Sprintf("[yellow]%s", status)))
	row++

	shortcuts := shortcutColumns(c.events)

	for i := 0; i < len(shortcuts[0]) || i < len(shortcuts[1]); i++ {
		for col := 0; col < 2; col++ {
			if i < len(shortcuts[col]) {
				table.SetCell(row, col, tview.NewTableCell(shortcuts[col][i]).SetExpansion(1))
			}
		}

		row++
	}

	return table
}

func shortcutColumns(events map[rune]KeyEvent) [2][]string {
	shortcuts := [2][]string{}

	for key, event := range events {
		text := fmt.Sprintf("[orange]<%c>[white] %s", key, event.Description)

		if strings.HasPrefix(event.Description, "Show") {
			shortcuts[1] = append(shortcuts[1], text)
		} else {
			shortcuts[0] = append(shortcuts[0], text)
		}
	}

	sort.Strings(shortcuts[0])
	sort.Strings(shortcuts[1])

	return shortcuts
}

func (c *Controller) getTodoForRow(row int) *db.Todo {
	group := c.groups[c.selectedStatus]

	// adjust for the header row
	if idx := row - 1; idx < len(group.Todos) && idx >= 0 {
		return group.Todos[idx]
	}

	return nil
}

// when the row selection changes, update the selected Todo.
func (c *Controller) setCurrentRow(row, col int) {
	c.setSelectedTodo(row, c.getTodoForRow(row))
}

func (c *Controller) getTable(status db.Status) *tview.Table {
	table := tview.NewTable().SetBorders(false)

	table.SetContent(&StatusContent{group: c.groups[status]})

	table.SetSelectable(true, false)
	table.SetFixed(1, 0)

	table.SetSelectionChangedFunc(c.setCurrentRow)

	return table
}

func (c *Controller) setSelectedTodo(row int, todo *db.Todo) {
	c.selectedTodo = todo

	title := "nil"
	if todo != nil {
		title = todo.Title
	}

	log.Debug().
		Str("selectedStatus", string(c.selectedStatus)).
		Int("row", row).
		Int("len", len(c.groups[c.selectedStatus].Todos)).
		Msgf("setting selectedTodo to '%s'", title)
}

func (c *Controller) showStatus(status db.Status) {
	c.selectedStatus = status

	c.app.SetInputCapture(c.handleKeys)

	table := c.statusTables[status]
	todos := c.groups[status].Todos

	row, _ := table.GetSelection()

	// keep the selection on a real row after todos moved out of this status
	switch {
	case len(todos) == 0:
		c.setSelectedTodo(-1, nil)
	case row < 1:
		table.Select(1, 0)
	case row > len(todos):
		table.Select(len(todos), 0)
	}

	if len(todos) > 0 {
		row, _ = table.GetSelection()
		c.setSelectedTodo(row, c.getTodoForRow(row))
	}

	c.pages.SwitchToPage(pageName(status))
}
