package web_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/matt-steen/todo-tracker/pkg/db"
	"github.com/matt-steen/todo-tracker/pkg/web"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)

	os.Exit(m.Run())
}

func itoa(i int) string {
	return strconv.Itoa(i)
}

var listedAt = time.Date(2012, 2, 15, 12, 0, 1, 0, time.UTC)

type fixture struct {
	db      *db.Database
	handler http.Handler
	work    *db.Label
	chore   *db.Label
}

func setup(t *testing.T) *fixture {
	t.Helper()

	return setupIn(t, time.UTC)
}

// setupIn builds a fixture whose app reads and renders due dates in loc.
func setupIn(t *testing.T, loc *time.Location) *fixture {
	t.Helper()

	ctx := context.Background()

	database, err := db.NewDatabase(ctx, t.TempDir()+"/web.sqlite")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	app, err := web.New(database)
	require.NoError(t, err)
	app.SetClock(func() time.Time { return listedAt })
	app.SetLocation(loc)

	work, err := database.NewLabel(ctx, "Work")
	require.NoError(t, err)
	chore, err := database.NewLabel(ctx, "Chore")
	require.NoError(t, err)

	return &fixture{db: database, handler: app.Handler(), work: work, chore: chore}
}

func (f *fixture) get(target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	return rec
}

func (f *fixture) post(target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	return rec
}

func (f *fixture) addTodo(t *testing.T, in db.TodoInput) *db.Todo {
	t.Helper()

	todo, err := f.db.NewTodo(context.Background(), in)
	require.NoError(t, err)

	return todo
}

func assertRedirectHome(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestHomePage(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	f := setup(t)
	f.addTodo(t, db.TodoInput{Title: "todo_one", Details: "first things", LabelID: f.work.ID})

	rec := f.get("/")
	assert.Equal(http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(body, "todo_one")
	assert.Contains(body, "first things")
	assert.Contains(body, "Chore")

	for _, status := range db.Statuses() {
		assert.Contains(body, "<h2>"+string(status)+"</h2>")
	}
}

func TestHomePageFilters(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	f := setup(t)
	f.addTodo(t, db.TodoInput{Title: "write report", LabelID: f.work.ID})
	f.addTodo(t, db.TodoInput{Title: "wash dishes", LabelID: f.chore.ID})

	body := f.get("/?label=Chore").Body.String()
	assert.Contains(body, "wash dishes")
	assert.NotContains(body, "write report")

	body = f.get("/?q=REPORT").Body.String()
	assert.Contains(body, "write report")
	assert.NotContains(body, "wash dishes")
}

func TestHomePageQueryTooLong(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	f := setup(t)
	f.addTodo(t, db.TodoInput{Title: "write report", LabelID: f.work.ID})

	rec := f.get("/?q=" + strings.Repeat("x", 256))
	assert.Equal(http.StatusOK, rec.Code)
	assert.Contains(rec.Body.String(), "Ensure this value has at most 255 characters")
	assert.Contains(rec.Body.String(), "write report")
}

func TestHomePageMarksOverdueMissed(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	f := setup(t)

	past := listedAt.Add(-time.Hour)
	future := listedAt.Add(time.Hour)
	late := f.addTodo(t, db.TodoInput{Title: "late", LabelID: f.work.ID, DueDate: &past})
	early := f.addTodo(t, db.TodoInput{Title: "early", LabelID: f.work.ID, DueDate: &future})

	assert.Equal(http.StatusOK, f.get("/").Code)

	todo, err := f.db.Todo(context.Background(), late.ID)
	assert.Nil(err)
	assert.Equal(db.StatusMissed, todo.Status)

	todo, err = f.db.Todo(context.Background(), early.ID)
	assert.Nil(err)
	assert.Equal(db.StatusPending, todo.Status)
}

func TestNewTodoForm(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	f := setup(t)

	rec := f.get("/new")
	assert.Equal(http.StatusOK, rec.Code)
	assert.Contains(rec.Body.String(), "New todo")
	assert.Contains(rec.Body.String(), "Work")
}

func TestCreateTodo(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	f := setup(t)

	rec := f.post("/new", url.Values{
		"title":    {"todo_one"},
		"details":  {"some details"},
		"due_date": {"2012-08-14"},
		"label":    {itoa(f.work.ID)},
		"status":   {"Pending"},
	})
	assertRedirectHome(t, rec)

	todos, err := f.db.Todos(context.Background())
	assert.Nil(err)
	assert.Equal(1, len(todos))
	assert.Equal("todo_one", todos[0].Title)
	assert.Equal("Work", todos[0].Label.Name)
	assert.True(time.Date(2012, 8, 14, 0, 0, 0, 0, time.UTC).Equal(*todos[0].DueDate))
}

func TestCreateTodoInvalid(t *testing.T) {
	t.Parallel()

	f := setup(t)
	f.addTodo(t, db.TodoInput{Title: "taken", LabelID: f.work.ID})

	cases := []struct {
		name string
		form url.Values
		msg  string
	}{
		{"missing title", url.Values{"label": {itoa(f.work.ID)}}, "This field is required."},
		{"missing label", url.Values{"title": {"x"}}, "This field is required."},
		{"bad label", url.Values{"title": {"x"}, "label": {"nope"}}, "Select a valid choice."},
		{"unknown label", url.Values{"title": {"x"}, "label": {"999"}}, "Select a valid choice."},
		{"bad date", url.Values{"title": {"x"}, "label": {itoa(f.work.ID)}, "due_date": {"tomorrow"}},
			"Enter a valid date/time."},
		{"duplicate title", url.Values{"title": {"taken"}, "label": {itoa(f.work.ID)}},
			"Todo with this title already exists."},
	}

	for _, tc := range cases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			rec := f.post("/new", tc.form)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.msg)
		})
	}
}

func TestEditTodo(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	f := setup(t)
	todo := f.addTodo(t, db.TodoInput{Title: "todo_one", LabelID: f.work.ID})

	rec := f.get("/" + itoa(todo.ID) + "/edit")
	assert.Equal(http.StatusOK, rec.Code)
	assert.Contains(rec.Body.String(), `value="todo_one"`)

	rec = f.post("/"+itoa(todo.ID)+"/edit", url.Values{
		"title":  {"todo_one edited"},
		"label":  {itoa(f.chore.ID)},
		"status": {"Completed"},
	})
	assertRedirectHome(t, rec)

	edited, err := f.db.Todo(context.Background(), todo.ID)
	assert.Nil(err)
	assert.Equal("todo_one edited", edited.Title)
	assert.Equal("Chore", edited.Label.Name)
	assert.Equal(db.StatusCompleted, edited.Status)
}

func TestEditTodoKeepsDueDate(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	loc := time.FixedZone("UTC+2", 2*60*60)
	f := setupIn(t, loc)

	rec := f.post("/new", url.Values{"title": {"dated"}, "label": {itoa(f.work.ID)}, "due_date": {"2030-10-20"}})
	assertRedirectHome(t, rec)

	todos, err := f.db.Todos(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, len(todos))

	target := "/" + itoa(todos[0].ID) + "/edit"

	// saving the form unchanged must not move the due date
	for i := 0; i < 3; i++ {
		rec = f.get(target)
		assert.Equal(http.StatusOK, rec.Code)
		assert.Contains(rec.Body.String(), `type="date" name="due_date" value="2030-10-20"`)

		rec = f.post(target, url.Values{"title": {"dated"}, "label": {itoa(f.work.ID)}, "due_date": {"2030-10-20"}})
		assertRedirectHome(t, rec)
	}

	todo, err := f.db.Todo(context.Background(), todos[0].ID)
	assert.Nil(err)
	assert.True(time.Date(2030, 10, 20, 0, 0, 0, 0, loc).Equal(*todo.DueDate), "got %v", todo.DueDate)

	rec = f.get("/")
	assert.Contains(rec.Body.String(), "due 2030-10-20")
}

func TestEditTodoKeepsDueTime(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	loc := time.FixedZone("UTC-5", -5*60*60)
	f := setupIn(t, loc)

	rec := f.post("/new", url.Values{"title": {"timed"}, "label": {itoa(f.work.ID)}, "due_date": {"2030-10-20T21:30"}})
	assertRedirectHome(t, rec)

	todos, err := f.db.Todos(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, len(todos))
	assert.True(time.Date(2030, 10, 21, 2, 30, 0, 0, time.UTC).Equal(*todos[0].DueDate))

	rec = f.get("/" + itoa(todos[0].ID) + "/edit")
	assert.Contains(rec.Body.String(), `type="datetime-local" name="due_date" value="2030-10-20T21:30"`)

	rec = f.get("/")
	assert.Contains(rec.Body.String(), "due 2030-10-20T21:30")
}

func TestCompleteAndDeleteTodo(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	f := setup(t)
	todo := f.addTodo(t, db.TodoInput{Title: "todo_one", LabelID: f.work.ID})

	assertRedirectHome(t, f.get("/"+itoa(todo.ID)+"/complete"))

	completed, err := f.db.Todo(context.Background(), todo.ID)
	assert.Nil(err)
	assert.Equal(db.StatusCompleted, completed.Status)

	assertRedirectHome(t, f.post("/"+itoa(todo.ID)+"/delete", nil))

	todos, err := f.db.Todos(context.Background())
	assert.Nil(err)
	assert.Empty(todos)
}

func TestNotFound(t *testing.T) {
	t.Parallel()

	f := setup(t)

	gets := []string{"/999/edit", "/999/complete", "/999/edit_label", "/abc/edit", "/999/unknown", "/unknown"}
	for _, target := range gets {
		assert.Equal(t, http.StatusNotFound, f.get(target).Code, target)
	}

	posts := []string{"/999/edit", "/999/delete", "/999/edit_label", "/0/delete", "/unknown"}
	for _, target := range posts {
		assert.Equal(t, http.StatusNotFound, f.post(target, url.Values{"title": {"x"}}).Code, target)
	}
}

func TestCreateLabel(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	f := setup(t)

	assertRedirectHome(t, f.post("/new_label", url.Values{"name": {"Travel"}}))

	rec := f.post("/new_label", url.Values{"name": {"chore"}})
	assert.Equal(http.StatusOK, rec.Code)
	assert.Contains(rec.Body.String(), "This label already exists.")

	labels, err := f.db.Labels(context.Background())
	assert.Nil(err)
	assert.Equal(3, len(labels))
}

func TestRenameLabel(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	f := setup(t)

	rec := f.get("/" + itoa(f.chore.ID) + "/edit_label")
	assert.Equal(http.StatusOK, rec.Code)
	assert.Contains(rec.Body.String(), `value="Chore"`)

	rec = f.post("/"+itoa(f.chore.ID)+"/edit_label", url.Values{"name": {"work"}})
	assert.Equal(http.StatusOK, rec.Code)
	assert.Contains(rec.Body.String(), "This label already exists.")

	assertRedirectHome(t, f.post("/"+itoa(f.chore.ID)+"/edit_label", url.Values{"name": {"Travel"}}))

	label, err := f.db.Label(context.Background(), f.chore.ID)
	assert.Nil(err)
	assert.Equal("travel", label.Slug)
}
