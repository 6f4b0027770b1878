package db

import "time"

// Status is the state of a Todo.
type Status string

// These constants refer to the statuses supported by the app.
const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
	StatusMissed    Status = "Missed"
)

// Statuses returns every status in display order.
func Statuses() []Status {
	return []Status{StatusPending, StatusCompleted, StatusMissed}
}

// Valid reports whether s is one of the supported statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusMissed:
		return true
	}

	return false
}

// Label is a category that can be applied to todos. Slug is derived from Name and is unique.
type Label struct {
	ID   int
	Name string
	Slug string
}

// Todo contains an individual todo entry and the label it belongs to.
type Todo struct {
	ID      int
	Title   string
	Details string
	// DueDate is nil when the todo has no deadline.
	DueDate    *time.Time
	Label      *Label
	Status     Status
	CreatedAt  time.Time
	ModifiedAt time.Time
}

// Overdue reports whether a pending todo's deadline is strictly before now.
func (t *Todo) Overdue(now time.Time) bool {
	return t.Status == StatusPending && t.DueDate != nil && t.DueDate.Before(now)
}

// TodoInput holds the editable fields of a Todo.
type TodoInput struct {
	Title   string
	Details string
	DueDate *time.Time
	LabelID int
	Status  Status
}
