// Package student contains all HTTP handlers for the Student resource.
//
// A student cannot exist without an owning teacher, so creation is
// scoped under the teacher path: POST /api/students/teacher/{teacherId}.
// The owner comes from the URL, never from the request body.
package student

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

// createRequest is the creation/update payload. TeacherID is absent on
// purpose — it is taken from the URL on create and immutable on update.
type createRequest struct {
	Name      string `json:"name"      validate:"required"`
	Email     string `json:"email"     validate:"required"`
	StudentID string `json:"studentId" validate:"required"`
}

// New handles POST /api/students/teacher/{teacherId} (admin only).
//
// Request body (JSON):
//
//	{ "name": "Sam", "email": "s@x.edu", "studentId": "S100" }
//
// Success response (201 Created) — the stored record:
//
//	{ "id": 2, "name": "Sam", "email": "s@x.edu", "studentId": "S100", "teacherId": 1 }
//
// Error responses:
//
//	400 Bad Request — bad body, failed validation, or unknown teacherId
//	500 Internal    — database error
//
// A failed create inserts nothing: the student collection is exactly as
// it was before the call.
func New(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teacherID, err := parseID(chi.URLParam(r, "teacherId"))
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		slog.Info("creating a student", slog.Int64("teacherId", teacherID))

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

		created, err := store.CreateStudent(teacherID, req.Name, req.Email, req.StudentID)
		if err != nil {
			writeStoreError(w, err)
			return
		}

		slog.Info("student created",
			slog.Int64("id", created.ID),
			slog.Int64("teacherId", teacherID),
		)
		response.WriteJSON(w, http.StatusCreated, created)
	}
}

// GetList handles GET /api/students.
// Returns a JSON array of all students, [] when there are none.
func GetList(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all students")

		students, err := store.GetStudents()
		if err != nil {
			slog.Error("error getting students", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, students)
	}
}

// GetByID handles GET /api/students/{id}.
func GetByID(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		intID, err := parseID(chi.URLParam(r, "id"))
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		slog.Info("getting a student", slog.Int64("id", intID))

		student, err := store.GetStudentByID(intID)
		if err != nil {
			writeStoreError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, student)
	}
}

// GetByTeacher handles GET /api/students/teacher/{teacherId}.
// Returns the students owned by one teacher; an unknown teacher simply
// owns no students, so the result is [].
func GetByTeacher(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teacherID, err := parseID(chi.URLParam(r, "teacherId"))
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		slog.Info("getting students by teacher", slog.Int64("teacherId", teacherID))

		students, err := store.GetStudentsByTeacher(teacherID)
		if err != nil {
			writeStoreError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, students)
	}
}

// Update handles PUT /api/students/{id} (admin only).
// Full-record replace of the student's own fields; the owning teacher
// is not changed by an update.
func Update(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		intID, err := parseID(chi.URLParam(r, "id"))
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		slog.Info("updating a student", slog.Int64("id", intID))

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

		updated, err := store.UpdateStudentByID(intID, types.Student{
			Name:      req.Name,
			Email:     req.Email,
			StudentID: req.StudentID,
		})
		if err != nil {
			writeStoreError(w, err)
			return
		}

		slog.Info("student updated", slog.Int64("id", intID))
		response.WriteJSON(w, http.StatusOK, updated)
	}
}

// Delete handles DELETE /api/students/{id} (admin only).
// Success is 204 with an empty body; an unknown id is 404.
func Delete(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		intID, err := parseID(chi.URLParam(r, "id"))
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		slog.Info("deleting a student", slog.Int64("id", intID))

		if err := store.DeleteStudentByID(intID); err != nil {
			writeStoreError(w, err)
			return
		}

		slog.Info("student deleted", slog.Int64("id", intID))
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

// writeStoreError maps store outcomes 1:1 to response outcomes.
// An unknown owning teacher is the caller's mistake (400), not ours.
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
