// Package storage defines the Storage interface — a contract that any
// database backend must satisfy to work with this application.
//
// Handlers (HTTP layer) should not know or care which database they are
// talking to. By depending only on this interface:
//
//   - Switching databases = implement the interface for the new DB,
//     change one line in main.go. Zero handler changes.
//
//   - Writing tests = pass a fake that satisfies the interface.
//     No real database needed for unit tests.
package storage

import (
	"errors"

	"github.com/campusdesk/academic-records-api/internal/types"
)

// Sentinel errors returned by Storage implementations. Handlers check
// them with errors.Is and map them to HTTP statuses; any other error is
// treated as a server fault.
var (
	// ErrNotFound indicates the requested id does not resolve to a record.
	ErrNotFound = errors.New("record not found")

	// ErrUnknownTeacher indicates the owning teacher id given on a
	// student/course create does not resolve to an existing teacher.
	ErrUnknownTeacher = errors.New("unknown teacher")
)

// Storage is the database contract. The store is the sole owner of the
// teacher, student and course collections.
//
// Mutations are serialized by the implementation: a delete cascade
// completes before any other mutation or read observes it, so a reader
// never sees a teacher gone but its students still present.
type Storage interface {
	// CreateTeacher inserts a new teacher and returns the stored record
	// with its server-assigned id.
	CreateTeacher(name, email, department string) (types.Teacher, error)

	// GetTeachers returns every teacher in insertion order.
	// Returns an empty slice (not nil) if there are none.
	GetTeachers() ([]types.Teacher, error)

	// GetTeacherByID fetches a single teacher, or ErrNotFound.
	GetTeacherByID(id int64) (types.Teacher, error)

	// UpdateTeacherByID replaces all fields of an existing teacher and
	// returns the updated record, or ErrNotFound.
	UpdateTeacherByID(id int64, t types.Teacher) (types.Teacher, error)

	// DeleteTeacherByID removes a teacher AND every student and course
	// owned by it, in a single transaction. Returns ErrNotFound if the
	// teacher does not exist; in that case nothing is removed.
	DeleteTeacherByID(id int64) error

	// CreateStudent inserts a student owned by teacherID. Returns
	// ErrUnknownTeacher (and inserts nothing) if the teacher does not
	// exist.
	CreateStudent(teacherID int64, name, email, studentID string) (types.Student, error)
	GetStudents() ([]types.Student, error)
	GetStudentByID(id int64) (types.Student, error)
	GetStudentsByTeacher(teacherID int64) ([]types.Student, error)
	UpdateStudentByID(id int64, s types.Student) (types.Student, error)
	DeleteStudentByID(id int64) error

	// CreateCourse inserts a course owned by teacherID. Returns
	// ErrUnknownTeacher (and inserts nothing) if the teacher does not
	// exist.
	CreateCourse(teacherID int64, title, courseCode string, credits int) (types.Course, error)
	GetCourses() ([]types.Course, error)
	GetCourseByID(id int64) (types.Course, error)
	GetCoursesByTeacher(teacherID int64) ([]types.Course, error)
	UpdateCourseByID(id int64, c types.Course) (types.Course, error)
	DeleteCourseByID(id int64) error
}
