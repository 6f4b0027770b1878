// Package listing filters, groups and orders todos for display.
package listing

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/matt-steen/todo-tracker/pkg/db"
)

// MaxQueryLength bounds the free-text search.
const MaxQueryLength = 255

// Filter narrows the todos shown. Empty fields match everything.
type Filter struct {
	// Label is compared to the label name exactly, case included.
	Label string
	// Query is a case-insensitive substring of the title, details or label name.
	Query string
}

// Validate reports a too-long query as a validation error on the "q" field.
func (f Filter) Validate() error {
	if n := utf8.RuneCountInString(f.Query); n > MaxQueryLength {
		return &db.ValidationError{
			Field: "q",
			Msg:   fmt.Sprintf("Ensure this value has at most %d characters (it has %d).", MaxQueryLength, n),
			Err:   db.ErrTooLong,
		}
	}

	return nil
}

// Match reports whether todo passes the filter.
func Match(todo *db.Todo, f Filter) bool {
	labelName := ""
	if todo.Label != nil {
		labelName = todo.Label.Name
	}

	if f.Label != "" && labelName != f.Label {
		return false
	}

	if f.Query == "" {
		return true
	}

	q := strings.ToLower(f.Query)

	for _, field := range []string{todo.Title, todo.Details, labelName} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}

	return false
}

// Sort returns todos ordered for display: those with a due date first, earliest due first,
// followed by those without one, oldest first. Ties keep their input order. The input slice
// is left untouched.
func Sort(todos []*db.Todo) []*db.Todo {
	withDue := []*db.Todo{}
	withoutDue := []*db.Todo{}

	for _, todo := range todos {
		if todo.DueDate != nil {
			withDue = append(withDue, todo)
		} else {
			withoutDue = append(withoutDue, todo)
		}
	}

	sort.SliceStable(withDue, func(i, j int) bool {
		return withDue[i].DueDate.Before(*withDue[j].DueDate)
	})

	sort.SliceStable(withoutDue, func(i, j int) bool {
		return withoutDue[i].CreatedAt.Before(withoutDue[j].CreatedAt)
	})

	return append(withDue, withoutDue...)
}

// Group is the sorted todos sharing a status.
type Group struct {
	Status db.Status
	Todos  []*db.Todo
}

// Partition filters todos and splits them by status. The result always holds one group per
// status, in db.Statuses order, even when a group is empty.
func Partition(todos []*db.Todo, f Filter) []Group {
	byStatus := map[db.Status][]*db.Todo{}

	for _, todo := range todos {
		if Match(todo, f) {
			byStatus[todo.Status] = append(byStatus[todo.Status], todo)
		}
	}

	groups := make([]Group, 0, len(db.Statuses()))

	for _, status := range db.Statuses() {
		groups = append(groups, Group{Status: status, Todos: Sort(byStatus[status])})
	}

	return groups
}

// Store is the data the listing reads from.
type Store interface {
	MarkMissed(ctx context.Context, now time.Time) (int, error)
	Todos(ctx context.Context) ([]*db.Todo, error)
	Labels(ctx context.Context) ([]*db.Label, error)
}

// Result is everything a list view renders.
type Result struct {
	Filter Filter
	Groups []Group
	Labels []*db.Label
	// Err holds the filter's validation error, if any. The query is ignored in that case.
	Err error
}

// Run performs a listing: overdue pending todos are first marked missed, then the todos are
// loaded, filtered and partitioned.
func Run(ctx context.Context, store Store, now time.Time, f Filter) (*Result, error) {
	if _, err := store.MarkMissed(ctx, now); err != nil {
		return nil, err
	}

	result := &Result{Filter: f}

	if err := f.Validate(); err != nil {
		result.Err = err
		f.Query = ""
	}

	todos, err := store.Todos(ctx)
	if err != nil {
		return nil, err
	}

	if result.Labels, err = store.Labels(ctx); err != nil {
		return nil, err
	}

	result.Groups = Partition(todos, f)

	return result, nil
}
