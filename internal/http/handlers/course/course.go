// Package course contains all HTTP handlers for the Course resource.
// Same shape as the student handlers: creation is teacher-scoped, the
// owner comes from the URL.
package course

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

// createRequest is the creation/update payload. Credits must be a
// positive integer.
type createRequest struct {
	Title      string `json:"title"      validate:"required"`
	CourseCode string `json:"courseCode" validate:"required"`
	Credits    int    `json:"credits"    validate:"required,gt=0"`
}

// New handles POST /api/courses/teacher/{teacherId} (admin only).
//
// Request body (JSON):
//
//	{ "title": "Databases", "courseCode": "CS301", "credits": 4 }
//
// Success response (201 Created) — the stored record:
//
//	{ "id": 3, "title": "Databases", "courseCode": "CS301", "credits": 4, "teacherId": 1 }
//
// Error responses:
//
//	400 Bad Request — bad body, failed validation, or unknown teacherId
//	500 Internal    — database error
func New(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teacherID, err := parseID(chi.URLParam(r, "teacherId"))
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		slog.Info("creating a course", slog.Int64("teacherId", teacherID))

		var req createRequest
		err = json.NewDecoder(r.Body).Decode(&req)
		if errors.Is(err, io.EOF) {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("request body is empty")))
			return
		}
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		if err := validator.New().Struct(req); err != nil {
			validateErrs := err.(validator.ValidationErrors)
			response.WriteJSON(w, http.StatusBadRequest,
				response.ValidationError(validateErrs))
			return
		}

		created, err := store.CreateCourse(teacherID, req.Title, req.CourseCode, req.Credits)
		if err != nil {
			writeStoreError(w, err)
			return
		}

		slog.Info("course created",
			slog.Int64("id", created.ID),
			slog.Int64("teacherId", teacherID),
		)
		response.WriteJSON(w, http.StatusCreated, created)
	}
}

// GetList handles GET /api/courses.
// Returns a JSON array of all courses, [] when there are none.
func GetList(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all courses")

		courses, err := store.GetCourses()
		if err != nil {
			slog.Error("error getting courses", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, courses)
	}
}

// GetByID handles GET /api/courses/{id}.
func GetByID(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		intID, err := parseID(chi.URLParam(r, "id"))
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		slog.Info("getting a course", slog.Int64("id", intID))

		course, err := store.GetCourseByID(intID)
		if err != nil {
			writeStoreError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, course)
	}
}

// GetByTeacher handles GET /api/courses/teacher/{teacherId}.
func GetByTeacher(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teacherID, err := parseID(chi.URLParam(r, "teacherId"))
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		slog.Info("getting courses by teacher", slog.Int64("teacherId", teacherID))

		courses, err := store.GetCoursesByTeacher(teacherID)
		if err != nil {
			writeStoreError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, courses)
	}
}

// Update handles PUT /api/courses/{id} (admin only).
// Full-record replace of the course's own fields; the owning teacher is
// not changed by an update.
func Update(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		intID, err := parseID(chi.URLParam(r, "id"))
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		slog.Info("updating a course", slog.Int64("id", intID))

		var req createRequest
		err = json.NewDecoder(r.Body).Decode(&req)
		if errors.Is(err, io.EOF) {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("request body is empty")))
			return
		}
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		if err := validator.New().Struct(req); err != nil {
			validateErrs := err.(validator.ValidationErrors)
			response.WriteJSON(w, http.StatusBadRequest,
				response.ValidationError(validateErrs))
			return
		}

		updated, err := store.UpdateCourseByID(intID, types.Course{
			Title:      req.Title,
			CourseCode: req.CourseCode,
			Credits:    req.Credits,
		})
		if err != nil {
			writeStoreError(w, err)
			return
		}

		slog.Info("course updated", slog.Int64("id", intID))
		response.WriteJSON(w, http.StatusOK, updated)
	}
}

// Delete handles DELETE /api/courses/{id} (admin only).
// Success is 204 with an empty body; an unknown id is 404.
func Delete(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		intID, err := parseID(chi.URLParam(r, "id"))
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		slog.Info("deleting a course", slog.Int64("id", intID))

		if err := store.DeleteCourseByID(intID); err != nil {
			writeStoreError(w, err)
			return
		}

		slog.Info("course deleted", slog.Int64("id", intID))
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

func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		response.WriteJSON(w, http.StatusNotFound, response.GeneralError(err))
	case errors.Is(err, storage.ErrUnknownTeacher):
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
	default:
		slog.Error("storage error", slog.String("error", err.Error()))
		response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
	}
}
