package controller

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matt-steen/todo-tracker/pkg/db"
	"github.com/matt-steen/todo-tracker/pkg/listing"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"
)

const (
	descTitleRatio = 2
	formPage       = "form"
)

// Controller mediates between the model and the terminal view.
type Controller struct {
	ctx   context.Context
	db    *db.Database
	app   *tview.Application
	pages *tview.Pages
	now   func() time.Time

	filter listing.Filter
	// groups are shared with the StatusContent of each table, so a refresh updates the tables
	groups       map[db.Status]*listing.Group
	labels       []*db.Label
	statusTables map[db.Status]*tview.Table

	selectedTodo   *db.Todo
	selectedStatus db.Status

	events     map[rune]KeyEvent
	formEvents map[tcell.Key]KeyEvent

	todoForm      *tview.Form
	titleField    *tview.InputField
	detailsField  *tview.InputField
	dueField      *tview.InputField
	labelDropDown *tview.DropDown
	formMessage   *tview.TextView
}

// KeyEvent defines an event associated with a keypress.
type KeyEvent struct {
	Description string
	Action      func()
}

// NewController creates a new Controller to run the app.
func NewController(ctx context.Context, database *db.Database) (*Controller, error) {
	c := Controller{
		ctx:            ctx,
		db:             database,
		app:            tview.NewApplication(),
		now:            time.Now,
		groups:         map[db.Status]*listing.Group{},
		statusTables:   map[db.Status]*tview.Table{},
		selectedStatus: db.StatusPending,
	}

	for _, status := range db.Statuses() {
		c.groups[status] = &listing.Group{Status: status}
	}

	c.initEvents()

	if err := c.refresh(); err != nil {
		return nil, err
	}

	return &c, nil
}

// Go builds the pages and runs the app until the user quits.
func (c *Controller) Go() error {
	c.pages = tview.NewPages()

	for _, status := range db.Statuses() {
		c.pages.AddPage(pageName(status), c.getStatusGrid(status), true, false)
	}

	c.pages.AddPage(formPage, c.getFormGrid(), true, false)

	c.showStatus(db.StatusPending)

	return c.app.SetRoot(c.pages, true).Run()
}

func pageName(status db.Status) string {
	return fmt.Sprintf("status-%s", status)
}

// refresh reruns the listing, which also marks overdue todos missed.
func (c *Controller) refresh() error {
	result, err := listing.Run(c.ctx, c.db, c.now(), c.filter)
	if err != nil {
		return err
	}

	for _, group := range result.Groups {
		c.groups[group.Status].Todos = group.Todos
	}

	c.labels = result.Labels

	log.Debug().
		Int("pending", len(c.groups[db.StatusPending].Todos)).
		Int("completed", len(c.groups[db.StatusCompleted].Todos)).
		Int("missed", len(c.groups[db.StatusMissed].Todos)).
		Msg("refreshed todos")

	return nil
}

// completeSelected marks the selected todo completed.
func (c *Controller) completeSelected() error {
	if c.selectedTodo == nil {
		return nil
	}

	if err := c.db.CompleteTodo(c.ctx, c.selectedTodo.ID); err != nil {
		return err
	}

	log.Info().Int("id", c.selectedTodo.ID).Str("title", c.selectedTodo.Title).Msg("completed todo")

	c.selectedTodo = nil

	return c.refresh()
}

func (c *Controller) handleKeys(evt *tcell.EventKey) *tcell.EventKey {
	if evt.Key() != tcell.KeyRune {
		return evt
	}

	if k, ok := c.events[evt.Rune()]; ok {
		k.Action()

		return nil
	}

	return evt
}

func (c *Controller) handleFormKeys(evt *tcell.EventKey) *tcell.EventKey {
	if k, ok := c.formEvents[evt.Key()]; ok {
		k.Action()

		return nil
	}

	return evt
}
