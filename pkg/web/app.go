// Package web serves the todo list over HTTP.
package web

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/matt-steen/todo-tracker/pkg/db"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
)

//go:embed templates/*.html
var templateFS embed.FS

// App holds the handlers' shared state.
type App struct {
	db        *db.Database
	templates *template.Template
	now       func() time.Time
	location  *time.Location
}

// New parses the templates and returns an App backed by database.
func New(database *db.Database) (*App, error) {
	app := &App{
		db:       database,
		now:      time.Now,
		location: time.Local,
	}

	templates, err := template.New("").Funcs(template.FuncMap{
		"date": func(t *time.Time) string { return formatDate(t, app.location) },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	app.templates = templates

	return app, nil
}

// SetClock replaces the time source used to decide which todos are overdue.
func (app *App) SetClock(now func() time.Time) {
	app.now = now
}

// SetLocation sets the zone due dates are read from forms and rendered in.
func (app *App) SetLocation(loc *time.Location) {
	app.location = loc
}

// Handler returns the router wrapped with request logging.
//
// httprouter cannot register "/new" next to "/:id", so the first path segment is a wildcard
// and the handlers dispatch on it.
func (app *App) Handler() http.Handler {
	router := httprouter.New()
	router.GET("/", app.list())
	router.GET("/:id", app.getSegment())
	router.POST("/:id", app.postSegment())
	router.GET("/:id/:action", app.getAction())
	router.POST("/:id/:action", app.postAction())

	h := hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("url", r.URL.String()).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("")
	})(router)

	return hlog.NewHandler(log.Logger)(h)
}

// Listen serves the app on addr until the server fails.
func (app *App) Listen(addr string) error {
	log.Info().Str("addr", addr).Msg("listening")

	return http.ListenAndServe(addr, app.Handler())
}

func (app *App) getSegment() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		if p.ByName("id") == "new" {
			app.todoForm(w, r, 0)

			return
		}

		http.NotFound(w, r)
	}
}

func (app *App) postSegment() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		switch p.ByName("id") {
		case "new":
			app.saveTodo(w, r, 0)
		case "new_label":
			app.createLabel(w, r)
		default:
			http.NotFound(w, r)
		}
	}
}

func (app *App) getAction() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		id, ok := parseID(p)
		if !ok {
			http.NotFound(w, r)

			return
		}

		switch p.ByName("action") {
		case "edit":
			app.todoForm(w, r, id)
		case "complete":
			app.completeTodo(w, r, id)
		case "edit_label":
			app.labelForm(w, r, id)
		default:
			http.NotFound(w, r)
		}
	}
}

func (app *App) postAction() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		id, ok := parseID(p)
		if !ok {
			http.NotFound(w, r)

			return
		}

		switch p.ByName("action") {
		case "edit":
			app.saveTodo(w, r, id)
		case "delete":
			app.deleteTodo(w, r, id)
		case "edit_label":
			app.renameLabel(w, r, id)
		default:
			http.NotFound(w, r)
		}
	}
}

func parseID(p httprouter.Params) (int, bool) {
	id, err := strconv.Atoi(p.ByName("id"))
	if err != nil || id <= 0 {
		return 0, false
	}

	return id, true
}

func (app *App) render(w http.ResponseWriter, r *http.Request, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err := app.templates.ExecuteTemplate(w, name, data); err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("template", name).Msg("error rendering template")
	}
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusFound)
}

// fail answers with 404 for missing records and 500 for everything else.
func (app *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, db.ErrNotFound) {
		http.NotFound(w, r)

		return
	}

	hlog.FromRequest(r).Error().Err(err).Msg("request failed")
	http.Error(w, "Internal server error.", http.StatusInternalServerError)
}
