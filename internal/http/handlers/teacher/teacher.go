// Package teacher contains all HTTP handlers for the Teacher resource.
//
// Handlers are built with the closure/factory pattern: each exported
// function takes the Storage dependency once at route-registration time
// and returns the http.HandlerFunc the router needs. The inner function
// closes over `storage`, so handlers stay free of globals.
package teacher

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/campusdesk/academic-records-api/internal/storage"
	"github.com/campusdesk/academic-records-api/internal/types"
	"github.com/campusdesk/academic-records-api/internal/utils/response"
)

// New handles POST /api/teachers (admin only).
//
// Request body (JSON):
//
//	{ "name": "A. Lee", "email": "a@x.edu", "department": "CS" }
//
// Success response (201 Created) — the stored record:
//
//	{ "id": 1, "name": "A. Lee", "email": "a@x.edu", "department": "CS" }
//
// Error responses:
//
//	400 Bad Request — empty body, malformed JSON, or failed validation
//	500 Internal    — database error
func New(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a teacher")

		var teacher types.Teacher
		err := json.NewDecoder(r.Body).Decode(&teacher)
		if errors.Is(err, io.EOF) {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("request body is empty")))
			return
		}
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		if err := validator.New().Struct(teacher); err != nil {
			validateErrs := err.(validator.ValidationErrors)
			response.WriteJSON(w, http.StatusBadRequest,
				response.ValidationError(validateErrs))
			return
		}

		created, err := store.CreateTeacher(teacher.Name, teacher.Email, teacher.Department)
		if err != nil {
			slog.Error("error creating teacher", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		slog.Info("teacher created", slog.Int64("id", created.ID))
		response.WriteJSON(w, http.StatusCreated, created)
	}
}

// GetList handles GET /api/teachers.
// Returns a JSON array of all teachers, [] when there are none.
func GetList(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all teachers")

		teachers, err := store.GetTeachers()
		if err != nil {
			slog.Error("error getting teachers", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, teachers)
	}
}

// GetByID handles GET /api/teachers/{id}.
//
// Error responses:
//
//	400 Bad Request — id is not a valid integer
//	404 Not Found   — no teacher with that id
func GetByID(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		intID, err := parseID(chi.URLParam(r, "id"))
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		slog.Info("getting a teacher", slog.Int64("id", intID))

		teacher, err := store.GetTeacherByID(intID)
		if err != nil {
			writeStoreError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, teacher)
	}
}

// Update handles PUT /api/teachers/{id} (admin only).
// Full-record replace: all fields are required, same rules as creation.
func Update(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		intID, err := parseID(chi.URLParam(r, "id"))
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		slog.Info("updating a teacher", slog.Int64("id", intID))

		var teacher types.Teacher
		err = json.NewDecoder(r.Body).Decode(&teacher)
		if errors.Is(err, io.EOF) {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("request body is empty")))
			return
		}
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		if err := validator.New().Struct(teacher); err != nil {
			validateErrs := err.(validator.ValidationErrors)
			response.WriteJSON(w, http.StatusBadRequest,
				response.ValidationError(validateErrs))
			return
		}

		updated, err := store.UpdateTeacherByID(intID, teacher)
		if err != nil {
			writeStoreError(w, err)
			return
		}

		slog.Info("teacher updated", slog.Int64("id", intID))
		response.WriteJSON(w, http.StatusOK, updated)
	}
}

// Delete handles DELETE /api/teachers/{id} (admin only).
//
// Deleting a teacher cascades: every student and course owned by it is
// removed in the same store transaction. Success is 204 with an empty
// body; an unknown id is 404 and removes nothing.
func Delete(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		intID, err := parseID(chi.URLParam(r, "id"))
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		slog.Info("deleting a teacher", slog.Int64("id", intID))

		if err := store.DeleteTeacherByID(intID); err != nil {
			writeStoreError(w, err)
			return
		}

		slog.Info("teacher deleted", slog.Int64("id", intID))
		w.WriteHeader(http.StatusNoContent)
	}
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.New("invalid id: must be an integer")
	}
	return id, nil
}

// writeStoreError maps store outcomes 1:1 to response outcomes; the
// handler never retries.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		response.WriteJSON(w, http.StatusNotFound, response.GeneralError(err))
	default:
		slog.Error("storage error", slog.String("error", err.Error()))
		response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
	}
}
