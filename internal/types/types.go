// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles —
// handlers, storage, and auth can all import types without depending
// on each other.
package types

// Teacher represents a teacher record. A teacher owns zero or more
// students and zero or more courses; deleting a teacher removes them
// all (see storage.Storage.DeleteTeacherByID).
//
// Struct tags:
//
//  1. json:"..."  — controls the field name on the wire (the browser
//     client expects lowercase / camelCase keys).
//
//  2. validate:"..." — rules checked by go-playground/validator.
//     "required" means the field must be non-zero / non-empty.
type Teacher struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"       validate:"required"`
	Email      string `json:"email"      validate:"required"`
	Department string `json:"department" validate:"required"`
}

// Student belongs to exactly one teacher; TeacherID is assigned from
// the URL on creation, never from the request body.
//
// StudentID is the external enrolment identifier (e.g. "S100"). It is
// an opaque attribute — the system does not enforce uniqueness on it.
type Student struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"      validate:"required"`
	Email     string `json:"email"     validate:"required"`
	StudentID string `json:"studentId" validate:"required"`
	TeacherID int64  `json:"teacherId"`
}

// Course belongs to exactly one teacher. Credits must be a positive
// integer ("gt=0" — "required" alone would not reject negatives).
type Course struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"      validate:"required"`
	CourseCode string `json:"courseCode" validate:"required"`
	Credits    int    `json:"credits"    validate:"required,gt=0"`
	TeacherID  int64  `json:"teacherId"`
}
