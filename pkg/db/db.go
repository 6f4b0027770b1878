package db

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/matt-steen/todo-tracker/pkg/slug"
	"github.com/rs/zerolog/log"
)

//go:embed base.sql
var baseSQL string

// Field limits shared with the forms.
const (
	MaxNameLength  = 150
	MaxTitleLength = 150
)

// Database manages the db connection. It is safe for concurrent use; sqlite serialises writers
// and the schema's unique constraints guard label slugs and todo titles.
type Database struct {
	conn *sql.DB
	now  func() time.Time
}

// NewDatabase connects to the sqlite database at the given filename and initializes the
// structure if not present.
func NewDatabase(ctx context.Context, filename string) (*Database, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", filename)

	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("error connecting to sqlite db at %s: %w", filename, err)
	}

	// a single connection keeps writes ordered and avoids SQLITE_BUSY between our own handlers
	conn.SetMaxOpenConns(1)

	database := Database{
		conn: conn,
		now:  time.Now,
	}

	if err = database.initialize(ctx); err != nil {
		conn.Close()

		return nil, err
	}

	return &database, nil
}

func (d *Database) initialize(ctx context.Context) error {
	// run idempotent setup sql to create empty tables if they don't exist
	if _, err := d.conn.ExecContext(ctx, baseSQL); err != nil {
		return fmt.Errorf("error running base sql: %w", err)
	}

	return nil
}

// SetClock replaces the function used to timestamp writes.
func (d *Database) SetClock(now func() time.Time) {
	d.now = now
}

// Close closes the database connection.
func (d *Database) Close() error {
	return d.conn.Close()
}

// Labels returns all labels ordered by name.
func (d *Database) Labels(ctx context.Context) ([]*Label, error) {
	rows, err := d.conn.QueryContext(ctx, `SELECT id, name, slug FROM label ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("error loading labels: %w", err)
	}
	defer rows.Close()

	labels := []*Label{}

	for rows.Next() {
		var label Label

		if err := rows.Scan(&label.ID, &label.Name, &label.Slug); err != nil {
			return nil, fmt.Errorf("error scanning labels: %w", err)
		}

		labels = append(labels, &label)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error scanning labels: %w", err)
	}

	return labels, nil
}

// Label returns the label with the given id or ErrNotFound.
func (d *Database) Label(ctx context.Context, id int) (*Label, error) {
	label := Label{ID: id}

	err := d.conn.QueryRowContext(ctx, `SELECT name, slug FROM label WHERE id = $1`, id).
		Scan(&label.Name, &label.Slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("label %d: %w", id, ErrNotFound)
	}

	if err != nil {
		return nil, fmt.Errorf("error loading label %d: %w", id, err)
	}

	return &label, nil
}

func labelFields(name string) (string, string, error) {
	name = strings.TrimSpace(name)

	if name == "" {
		return "", "", invalid("name", ErrRequired, "This field is required.")
	}

	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", "", invalid("name", ErrTooLong,
			fmt.Sprintf("Ensure this value has at most %d characters.", MaxNameLength))
	}

	s := slug.Make(name)
	if s == "" {
		return "", "", invalid("name", ErrInvalid, "Enter a name containing letters or numbers.")
	}

	return name, s, nil
}

func duplicateLabel() *ValidationError {
	return invalid("name", ErrDuplicate, "This label already exists.")
}

// NewLabel creates a label with the given name. The slug check and the insert are a single
// constrained write, so concurrent creations of the same name cannot both succeed.
func (d *Database) NewLabel(ctx context.Context, name string) (*Label, error) {
	name, s, err := labelFields(name)
	if err != nil {
		return nil, err
	}

	result, err := d.conn.ExecContext(ctx, `INSERT INTO label (name, slug) VALUES ($1, $2)`, name, s)
	if isUniqueViolation(err) {
		return nil, duplicateLabel()
	}

	if err != nil {
		return nil, fmt.Errorf("error adding label %s: %w", name, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("error getting id of new label %s: %w", name, err)
	}

	log.Debug().Int64("id", id).Str("slug", s).Msg("created label")

	return &Label{ID: int(id), Name: name, Slug: s}, nil
}

// UpdateLabel renames label and re-derives its slug. The label's own row never collides with
// itself; any other label with the same slug makes this fail with ErrDuplicate.
// Todos reference labels by id, so they follow the rename.
func (d *Database) UpdateLabel(ctx context.Context, label *Label, name string) error {
	name, s, err := labelFields(name)
	if err != nil {
		return err
	}

	result, err := d.conn.ExecContext(ctx, `UPDATE label SET name = $1, slug = $2 WHERE id = $3`, name, s, label.ID)
	if isUniqueViolation(err) {
		return duplicateLabel()
	}

	if err != nil {
		return fmt.Errorf("error updating label %d: %w", label.ID, err)
	}

	if err := expectOneRow(result, "label", label.ID); err != nil {
		return err
	}

	label.Name = name
	label.Slug = s

	return nil
}

func expectOneRow(result sql.Result, kind string, id int) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking %s %d: %w", kind, id, err)
	}

	if n == 0 {
		return fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
	}

	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("error parsing time %q: %w", s, err)
	}

	return t, nil
}

func formatNullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}

	return sql.NullString{String: formatTime(*t), Valid: true}
}
