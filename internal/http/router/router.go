// Package router assembles the full route table. It lives outside
// main so the end-to-end tests can mount the exact same routes against
// an httptest server.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/campusdesk/academic-records-api/internal/auth"
	"github.com/campusdesk/academic-records-api/internal/http/handlers/course"
	"github.com/campusdesk/academic-records-api/internal/http/handlers/login"
	"github.com/campusdesk/academic-records-api/internal/http/handlers/student"
	"github.com/campusdesk/academic-records-api/internal/http/handlers/teacher"
	"github.com/campusdesk/academic-records-api/internal/http/middleware"
	"github.com/campusdesk/academic-records-api/internal/storage"
)

// New wires every route. The pipeline for each request is fixed:
// authenticate → (writes only) authorize → execute.
//
// Route table:
//
//	POST   /api/login                             trade credentials for a token
//	GET    /api/teachers                          list teachers
//	GET    /api/teachers/{id}                     get one teacher
//	POST   /api/teachers                          create teacher            (admin)
//	PUT    /api/teachers/{id}                     update teacher            (admin)
//	DELETE /api/teachers/{id}                     delete teacher + cascade  (admin)
//	GET    /api/students                          list students
//	GET    /api/students/{id}                     get one student
//	GET    /api/students/teacher/{teacherId}      list students of teacher
//	POST   /api/students/teacher/{teacherId}      create student            (admin)
//	PUT    /api/students/{id}                     update student            (admin)
//	DELETE /api/students/{id}                     delete student            (admin)
//	GET    /api/courses                           list courses
//	GET    /api/courses/{id}                      get one course
//	GET    /api/courses/teacher/{teacherId}       list courses of teacher
//	POST   /api/courses/teacher/{teacherId}       create course             (admin)
//	PUT    /api/courses/{id}                      update course             (admin)
//	DELETE /api/courses/{id}                      delete course             (admin)
func New(store storage.Storage, authSvc *auth.Service) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", login.New(authSvc))

		// Everything below requires valid credentials.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(authSvc))

			// Reads: any authenticated identity.
			r.Get("/teachers", teacher.GetList(store))
			r.Get("/teachers/{id}", teacher.GetByID(store))
			r.Get("/students", student.GetList(store))
			r.Get("/students/{id}", student.GetByID(store))
			r.Get("/students/teacher/{teacherId}", student.GetByTeacher(store))
			r.Get("/courses", course.GetList(store))
			r.Get("/courses/{id}", course.GetByID(store))
			r.Get("/courses/teacher/{teacherId}", course.GetByTeacher(store))

			// Writes: admin role only.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin(authSvc))

				r.Post("/teachers", teacher.New(store))
				r.Put("/teachers/{id}", teacher.Update(store))
				r.Delete("/teachers/{id}", teacher.Delete(store))

				r.Post("/students/teacher/{teacherId}", student.New(store))
				r.Put("/students/{id}", student.Update(store))
				r.Delete("/students/{id}", student.Delete(store))

				r.Post("/courses/teacher/{teacherId}", course.New(store))
				r.Put("/courses/{id}", course.Update(store))
				r.Delete("/courses/{id}", course.Delete(store))
			})
		})
	})

	return r
}
