package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
)

const todoSelect = `SELECT t.id, t.title, t.details, t.due_date, t.status,
				t.created_datetime, t.updated_datetime, l.id, l.name, l.slug
			FROM todo t
			JOIN label l ON l.id = t.label_id`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTodo(row scanner, labels map[int]*Label) (*Todo, error) {
	var (
		todo             Todo
		label            Label
		due              sql.NullString
		created, updated string
		status           string
	)

	err := row.Scan(&todo.ID, &todo.Title, &todo.Details, &due, &status,
		&created, &updated, &label.ID, &label.Name, &label.Slug)
	if err != nil {
		return nil, err
	}

	todo.Status = Status(status)

	if due.Valid {
		t, err := parseTime(due.String)
		if err != nil {
			return nil, err
		}

		todo.DueDate = &t
	}

	if todo.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}

	if todo.ModifiedAt, err = parseTime(updated); err != nil {
		return nil, err
	}

	// todos sharing a label share the *Label
	if l, ok := labels[label.ID]; ok {
		todo.Label = l
	} else {
		labels[label.ID] = &label
		todo.Label = &label
	}

	return &todo, nil
}

// Todos returns every todo with its label, in creation order.
func (d *Database) Todos(ctx context.Context) ([]*Todo, error) {
	rows, err := d.conn.QueryContext(ctx, todoSelect+` ORDER BY t.id`)
	if err != nil {
		return nil, fmt.Errorf("error loading todos: %w", err)
	}
	defer rows.Close()

	todos := []*Todo{}
	labels := map[int]*Label{}

	for rows.Next() {
		todo, err := scanTodo(rows, labels)
		if err != nil {
			return nil, fmt.Errorf("error scanning todos: %w", err)
		}

		todos = append(todos, todo)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error scanning todos: %w", err)
	}

	return todos, nil
}

// Todo returns the todo with the given id or ErrNotFound.
func (d *Database) Todo(ctx context.Context, id int) (*Todo, error) {
	row := d.conn.QueryRowContext(ctx, todoSelect+` WHERE t.id = $1`, id)

	todo, err := scanTodo(row, map[int]*Label{})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("todo %d: %w", id, ErrNotFound)
	}

	if err != nil {
		return nil, fmt.Errorf("error loading todo %d: %w", id, err)
	}

	return todo, nil
}

func validateTodo(in *TodoInput) error {
	in.Title = strings.TrimSpace(in.Title)

	if in.Title == "" {
		return invalid("title", ErrRequired, "This field is required.")
	}

	if utf8.RuneCountInString(in.Title) > MaxTitleLength {
		return invalid("title", ErrTooLong,
			fmt.Sprintf("Ensure this value has at most %d characters.", MaxTitleLength))
	}

	if in.LabelID <= 0 {
		return invalid("label", ErrRequired, "This field is required.")
	}

	if in.Status == "" {
		in.Status = StatusPending
	}

	if !in.Status.Valid() {
		return invalid("status", ErrInvalid,
			fmt.Sprintf("Select a valid choice. %s is not one of the available choices.", in.Status))
	}

	return nil
}

// fieldError maps constraint failures on todo writes to field errors; other errors yield nil.
func fieldError(err error, in TodoInput) error {
	switch {
	case isUniqueViolation(err):
		return invalid("title", ErrDuplicate, "Todo with this title already exists.")
	case isForeignKeyViolation(err):
		return invalid("label", ErrInvalid,
			fmt.Sprintf("Select a valid choice. Label %d is not one of the available choices.", in.LabelID))
	}

	return nil
}

// NewTodo creates a todo from the given input. Status defaults to Pending.
func (d *Database) NewTodo(ctx context.Context, in TodoInput) (*Todo, error) {
	if err := validateTodo(&in); err != nil {
		return nil, err
	}

	now := formatTime(d.now())

	result, err := d.conn.ExecContext(ctx,
		`INSERT INTO todo (title, details, due_date, label_id, status, created_datetime, updated_datetime)
		     VALUES ($1, $2, $3, $4, $5, $6, $6)`,
		in.Title, in.Details, formatNullTime(in.DueDate), in.LabelID, string(in.Status), now,
	)
	if err != nil {
		if verr := fieldError(err, in); verr != nil {
			return nil, verr
		}

		return nil, fmt.Errorf("error adding todo %s: %w", in.Title, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("error getting id of new todo %s: %w", in.Title, err)
	}

	log.Debug().Int64("id", id).Str("title", in.Title).Msg("created todo")

	return d.Todo(ctx, int(id))
}

// UpdateTodo replaces the editable fields of the todo with the given id.
func (d *Database) UpdateTodo(ctx context.Context, id int, in TodoInput) error {
	if err := validateTodo(&in); err != nil {
		return err
	}

	result, err := d.conn.ExecContext(ctx,
		`UPDATE todo
		    SET title = $1, details = $2, due_date = $3, label_id = $4, status = $5, updated_datetime = $6
		  WHERE id = $7`,
		in.Title, in.Details, formatNullTime(in.DueDate), in.LabelID, string(in.Status), formatTime(d.now()), id,
	)
	if err != nil {
		if verr := fieldError(err, in); verr != nil {
			return verr
		}

		return fmt.Errorf("error updating todo %d: %w", id, err)
	}

	return expectOneRow(result, "todo", id)
}

// CompleteTodo marks the todo with the given id as Completed.
func (d *Database) CompleteTodo(ctx context.Context, id int) error {
	result, err := d.conn.ExecContext(ctx,
		`UPDATE todo SET status = $1, updated_datetime = $2 WHERE id = $3`,
		string(StatusCompleted), formatTime(d.now()), id,
	)
	if err != nil {
		return fmt.Errorf("error completing todo %d: %w", id, err)
	}

	return expectOneRow(result, "todo", id)
}

// DeleteTodo removes the todo with the given id.
func (d *Database) DeleteTodo(ctx context.Context, id int) error {
	result, err := d.conn.ExecContext(ctx, `DELETE FROM todo WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting todo %d: %w", id, err)
	}

	return expectOneRow(result, "todo", id)
}

// MarkMissed moves every pending todo whose due date is strictly before now to Missed and
// returns how many were moved. Todos without a due date are never touched. Running it again
// with the same now changes nothing.
func (d *Database) MarkMissed(ctx context.Context, now time.Time) (int, error) {
	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("error starting reclassification: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	overdue, err := overdueIDs(ctx, tx, now)
	if err != nil {
		return 0, err
	}

	modified := formatTime(d.now())

	for _, id := range overdue {
		// the status guard keeps the transition Pending -> Missed only
		_, err := tx.ExecContext(ctx,
			`UPDATE todo SET status = $1, updated_datetime = $2 WHERE id = $3 AND status = $4`,
			string(StatusMissed), modified, id, string(StatusPending),
		)
		if err != nil {
			return 0, fmt.Errorf("error marking todo %d missed: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("error committing reclassification: %w", err)
	}

	if len(overdue) > 0 {
		log.Info().Ints("ids", overdue).Msg("marked overdue todos missed")
	}

	return len(overdue), nil
}

func overdueIDs(ctx context.Context, tx *sql.Tx, now time.Time) ([]int, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT id, due_date FROM todo WHERE status = $1 AND due_date IS NOT NULL ORDER BY id`,
		string(StatusPending),
	)
	if err != nil {
		return nil, fmt.Errorf("error loading pending todos: %w", err)
	}
	defer rows.Close()

	ids := []int{}

	for rows.Next() {
		var (
			id  int
			due string
		)

		if err := rows.Scan(&id, &due); err != nil {
			return nil, fmt.Errorf("error scanning pending todos: %w", err)
		}

		dueDate, err := parseTime(due)
		if err != nil {
			return nil, err
		}

		todo := Todo{ID: id, Status: StatusPending, DueDate: &dueDate}
		if todo.Overdue(now) {
			ids = append(ids, id)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error scanning pending todos: %w", err)
	}

	return ids, nil
}
