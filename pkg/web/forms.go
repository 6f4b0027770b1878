package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/matt-steen/todo-tracker/pkg/db"
	"github.com/matt-steen/todo-tracker/pkg/listing"
)

// dueDateLayouts are the accepted due_date inputs: a date widget, a datetime-local widget,
// and a plain timestamp.
var dueDateLayouts = []string{
	dateLayout,
	dateTimeLayout,
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
}

// Layouts the form renders a stored due date in, matching the date and datetime-local widgets.
const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02T15:04"
)

// formatDate renders t in loc, with the time of day only when it is not midnight there.
func formatDate(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}

	local := t.In(loc)
	if hasTimeOfDay(local) {
		return local.Format(dateTimeLayout)
	}

	return local.Format(dateLayout)
}

func hasTimeOfDay(t time.Time) bool {
	return t.Hour() != 0 || t.Minute() != 0 || t.Second() != 0 || t.Nanosecond() != 0
}

// fieldErrors maps field name to message.
type fieldErrors map[string]string

// add records err against its field if it is a validation error and reports whether it was.
func (fe fieldErrors) add(err error) bool {
	var verr *db.ValidationError
	if !errors.As(err, &verr) {
		return false
	}

	fe[verr.Field] = verr.Msg

	return true
}

// todoFormData is the state of the todo create/edit form.
type todoFormData struct {
	ID       int
	Title    string
	Details  string
	DueDate  string
	LabelID  string
	Status   string
	Errors   fieldErrors
	Labels   []*db.Label
	Statuses []db.Status
}

// DueDateWidget is the input type able to show DueDate without losing its time of day.
func (f *todoFormData) DueDateWidget() string {
	if strings.Contains(f.DueDate, "T") {
		return "datetime-local"
	}

	return "date"
}

func todoFormFrom(todo *db.Todo, loc *time.Location) *todoFormData {
	return &todoFormData{
		ID:      todo.ID,
		Title:   todo.Title,
		Details: todo.Details,
		DueDate: formatDate(todo.DueDate, loc),
		LabelID: strconv.Itoa(todo.Label.ID),
		Status:  string(todo.Status),
		Errors:  fieldErrors{},
	}
}

func todoFormFromRequest(r *http.Request, id int) *todoFormData {
	return &todoFormData{
		ID:      id,
		Title:   r.PostFormValue("title"),
		Details: r.PostFormValue("details"),
		DueDate: strings.TrimSpace(r.PostFormValue("due_date")),
		LabelID: strings.TrimSpace(r.PostFormValue("label")),
		Status:  strings.TrimSpace(r.PostFormValue("status")),
		Errors:  fieldErrors{},
	}
}

// input converts the submitted strings; problems are recorded in f.Errors.
func (f *todoFormData) input(loc *time.Location) db.TodoInput {
	in := db.TodoInput{
		Title:   f.Title,
		Details: f.Details,
		Status:  db.Status(f.Status),
	}

	if f.DueDate != "" {
		due, err := parseDueDate(f.DueDate, loc)
		if err != nil {
			f.Errors["due_date"] = "Enter a valid date/time."
		} else {
			in.DueDate = &due
		}
	}

	if f.LabelID != "" {
		id, err := strconv.Atoi(f.LabelID)
		if err != nil || id <= 0 {
			f.Errors["label"] = "Select a valid choice. That choice is not one of the available choices."
		} else {
			in.LabelID = id
		}
	}

	return in
}

func parseDueDate(value string, loc *time.Location) (time.Time, error) {
	var err error

	for _, layout := range dueDateLayouts {
		var t time.Time

		if t, err = time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, err
}

// homeData is rendered by the list view.
type homeData struct {
	Groups     []listing.Group
	Labels     []*db.Label
	Label      string
	Query      string
	QueryError string
	LabelName  string
	LabelError string
}

// labelFormData is the state of the label rename form.
type labelFormData struct {
	ID    int
	Name  string
	Error string
}
