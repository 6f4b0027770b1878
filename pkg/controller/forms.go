package controller

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matt-steen/todo-tracker/pkg/db"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"
)

const dueLayout = "2006-01-02"

func (c *Controller) switchToForm() {
	c.titleField.SetText("")
	c.detailsField.SetText("")
	c.dueField.SetText("")
	c.formMessage.SetText("")

	c.updateLabelOptions()

	c.todoForm.SetFocus(0)

	c.pages.SwitchToPage(formPage)

	c.app.SetInputCapture(c.handleFormKeys)
}

func (c *Controller) getFormGrid() *tview.Grid {
	grid := tview.NewGrid().SetBorders(true).SetRows(3, 0, 1)

	c.initForm()

	header := tview.NewTable().SetBorders(false).SetSelectable(false, false)
	header.SetCell(0, 0, tview.NewTableCell("[yellow]New Todo"))

	row := 1

	for key, event := range c.formEvents {
		text := fmt.Sprintf("[orange]<%s>[white] %s", tcell.KeyNames[key], event.Description)
		header.SetCell(row, 0, tview.NewTableCell(text))
		row++
	}

	grid.AddItem(header, 0, 0, 1, 1, 0, 0, false)
	grid.AddItem(c.todoForm, 1, 0, 1, 1, 0, 0, true)
	grid.AddItem(c.formMessage, 2, 0, 1, 1, 0, 0, false)

	return grid
}

func (c *Controller) initForm() {
	titleMax := 50
	detailsMax := 100
	dueMax := len(dueLayout) + 2

	c.formMessage = tview.NewTextView().SetDynamicColors(true)

	c.todoForm = tview.NewForm().
		AddInputField("Title", "", titleMax, nil, nil).
		AddInputField("Details", "", detailsMax, nil, nil).
		AddInputField("Due (YYYY-MM-DD)", "", dueMax, nil, nil).
		AddDropDown("Label", []string{}, -1, nil)

	c.titleField, _ = c.todoForm.GetFormItemByLabel("Title").(*tview.InputField)
	c.detailsField, _ = c.todoForm.GetFormItemByLabel("Details").(*tview.InputField)
	c.dueField, _ = c.todoForm.GetFormItemByLabel("Due (YYYY-MM-DD)").(*tview.InputField)
	c.labelDropDown, _ = c.todoForm.GetFormItemByLabel("Label").(*tview.DropDown)

	c.todoForm.AddButton("Save", func() {
		in, err := c.formInput()
		if err == nil {
			_, err = c.db.NewTodo(c.ctx, in)
		}

		if err != nil {
			log.Warn().Err(err).Msgf("error saving todo '%s'", in.Title)
			c.formMessage.SetText(fmt.Sprintf("[red]%s", formErrorText(err)))

			return
		}

		if err := c.refresh(); err != nil {
			log.Err(err).Msg("error refreshing todos")
		}

		c.showStatus(db.StatusPending)
	})
}

func (c *Controller) updateLabelOptions() {
	options := make([]string, 0, len(c.labels))

	for _, label := range c.labels {
		options = append(options, label.Name)
	}

	c.labelDropDown.SetOptions(options, nil)
	c.labelDropDown.SetCurrentOption(-1)
}

func (c *Controller) getSelectedLabel() *db.Label {
	_, name := c.labelDropDown.GetCurrentOption()

	for _, label := range c.labels {
		if label.Name == name {
			return label
		}
	}

	return nil
}

// formInput reads the form fields into a TodoInput.
func (c *Controller) formInput() (db.TodoInput, error) {
	in := db.TodoInput{
		Title:   c.titleField.GetText(),
		Details: c.detailsField.GetText(),
		Status:  db.StatusPending,
	}

	if due := strings.TrimSpace(c.dueField.GetText()); due != "" {
		t, err := time.ParseInLocation(dueLayout, due, time.Local)
		if err != nil {
			return in, &db.ValidationError{Field: "due_date", Msg: "Enter a valid date.", Err: db.ErrInvalid}
		}

		in.DueDate = &t
	}

	if label := c.getSelectedLabel(); label != nil {
		in.LabelID = label.ID
	}

	return in, nil
}

func formErrorText(err error) string {
	var verr *db.ValidationError
	if errors.As(err, &verr) {
		return fmt.Sprintf("%s: %s", verr.Field, verr.Msg)
	}

	return err.Error()
}
