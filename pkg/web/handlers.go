package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/matt-steen/todo-tracker/pkg/db"
	"github.com/matt-steen/todo-tracker/pkg/listing"
)

func (app *App) list() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		query := r.URL.Query()

		data, err := app.home(r, listing.Filter{
			Label: query.Get("label"),
			Query: strings.TrimSpace(query.Get("q")),
		})
		if err != nil {
			app.fail(w, r, err)

			return
		}

		app.render(w, r, "home", data)
	}
}

// home runs a listing, which also moves overdue todos to Missed.
func (app *App) home(r *http.Request, f listing.Filter) (*homeData, error) {
	result, err := listing.Run(r.Context(), app.db, app.now(), f)
	if err != nil {
		return nil, err
	}

	data := &homeData{
		Groups: result.Groups,
		Labels: result.Labels,
		Label:  f.Label,
		Query:  f.Query,
	}

	var verr *db.ValidationError
	if errors.As(result.Err, &verr) {
		data.QueryError = verr.Msg
	}

	return data, nil
}

func (app *App) createLabel(w http.ResponseWriter, r *http.Request) {
	name := r.PostFormValue("name")

	_, err := app.db.NewLabel(r.Context(), name)
	if err == nil {
		redirectHome(w, r)

		return
	}

	errs := fieldErrors{}
	if !errs.add(err) {
		app.fail(w, r, err)

		return
	}

	data, err := app.home(r, listing.Filter{})
	if err != nil {
		app.fail(w, r, err)

		return
	}

	data.LabelName = name
	data.LabelError = errs["name"]

	app.render(w, r, "home", data)
}

func (app *App) todoForm(w http.ResponseWriter, r *http.Request, id int) {
	form := &todoFormData{Status: string(db.StatusPending), Errors: fieldErrors{}}

	if id != 0 {
		todo, err := app.db.Todo(r.Context(), id)
		if err != nil {
			app.fail(w, r, err)

			return
		}

		form = todoFormFrom(todo, app.location)
	}

	app.renderTodoForm(w, r, form)
}

func (app *App) renderTodoForm(w http.ResponseWriter, r *http.Request, form *todoFormData) {
	labels, err := app.db.Labels(r.Context())
	if err != nil {
		app.fail(w, r, err)

		return
	}

	form.Labels = labels
	form.Statuses = db.Statuses()

	app.render(w, r, "form", form)
}

// saveTodo creates (id == 0) or updates a todo from the posted form.
func (app *App) saveTodo(w http.ResponseWriter, r *http.Request, id int) {
	ctx := r.Context()

	if id != 0 {
		if _, err := app.db.Todo(ctx, id); err != nil {
			app.fail(w, r, err)

			return
		}
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request.", http.StatusBadRequest)

		return
	}

	form := todoFormFromRequest(r, id)
	in := form.input(app.location)

	if len(form.Errors) == 0 {
		var err error

		if id == 0 {
			_, err = app.db.NewTodo(ctx, in)
		} else {
			err = app.db.UpdateTodo(ctx, id, in)
		}

		if err == nil {
			redirectHome(w, r)

			return
		}

		if !form.Errors.add(err) {
			app.fail(w, r, err)

			return
		}
	}

	app.renderTodoForm(w, r, form)
}

func (app *App) completeTodo(w http.ResponseWriter, r *http.Request, id int) {
	if err := app.db.CompleteTodo(r.Context(), id); err != nil {
		app.fail(w, r, err)

		return
	}

	redirectHome(w, r)
}

func (app *App) deleteTodo(w http.ResponseWriter, r *http.Request, id int) {
	if err := app.db.DeleteTodo(r.Context(), id); err != nil {
		app.fail(w, r, err)

		return
	}

	redirectHome(w, r)
}

func (app *App) labelForm(w http.ResponseWriter, r *http.Request, id int) {
	label, err := app.db.Label(r.Context(), id)
	if err != nil {
		app.fail(w, r, err)

		return
	}

	app.render(w, r, "label", &labelFormData{ID: label.ID, Name: label.Name})
}

func (app *App) renameLabel(w http.ResponseWriter, r *http.Request, id int) {
	label, err := app.db.Label(r.Context(), id)
	if err != nil {
		app.fail(w, r, err)

		return
	}

	name := r.PostFormValue("name")

	err = app.db.UpdateLabel(r.Context(), label, name)
	if err == nil {
		redirectHome(w, r)

		return
	}

	errs := fieldErrors{}
	if !errs.add(err) {
		app.fail(w, r, err)

		return
	}

	app.render(w, r, "label", &labelFormData{ID: id, Name: name, Error: errs["name"]})
}
