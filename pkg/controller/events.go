package controller

import (
	"github.com/gdamore/tcell/v2"
	"github.com/matt-steen/todo-tracker/pkg/db"
	"github.com/rs/zerolog/log"
)

func (c *Controller) initEvents() {
	c.events = map[rune]KeyEvent{}
	c.formEvents = map[tcell.Key]KeyEvent{}

	c.initShowEvents()

	c.events['c'] = KeyEvent{
		Description: "Complete",
		Action:      c.getCompleteAction(),
	}

	c.events['r'] = KeyEvent{
		Description: "Refresh",
		Action:      c.getRefreshAction(),
	}

	c.events['n'] = KeyEvent{
		Description: "New Todo",
		Action:      c.switchToForm,
	}

	c.events['q'] = KeyEvent{
		Description: "Exit",
		Action:      c.getExitAction(),
	}

	c.formEvents[tcell.KeyEscape] = KeyEvent{
		Description: "Cancel",
		Action: func() {
			c.showStatus(c.selectedStatus)
		},
	}
}

func (c *Controller) getExitAction() func() {
	return func() {
		log.Info().Msg("terminating application")

		c.app.Stop()
	}
}

func (c *Controller) getShowAction(status db.Status) func() {
	return func() {
		c.showStatus(status)
	}
}

func (c *Controller) initShowEvents() {
	c.events['P'] = KeyEvent{
		Description: "Show Pending",
		Action:      c.getShowAction(db.StatusPending),
	}

	c.events['C'] = KeyEvent{
		Description: "Show Completed",
		Action:      c.getShowAction(db.StatusCompleted),
	}

	c.events['M'] = KeyEvent{
		Description: "Show Missed",
		Action:      c.getShowAction(db.StatusMissed),
	}
}

func (c *Controller) getCompleteAction() func() {
	return func() {
		if err := c.completeSelected(); err != nil {
			log.Warn().Err(err).Msg("error while trying to complete todo")
		}

		c.showStatus(c.selectedStatus)
	}
}

func (c *Controller) getRefreshAction() func() {
	return func() {
		if err := c.refresh(); err != nil {
			log.Warn().Err(err).Msg("error refreshing todos")
		}

		c.showStatus(c.selectedStatus)
	}
}
