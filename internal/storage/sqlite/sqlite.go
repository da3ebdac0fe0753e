// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// SQLite stores everything in a single file on disk. There is no
// network, no separate server process, and no installation beyond the
// driver — and it serializes writers, which is exactly the mutation
// model the entity store requires.
//
// The blank import below registers the sqlite3 driver with database/sql.
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/campusdesk/academic-records-api/internal/config"
	"github.com/campusdesk/academic-records-api/internal/storage"
	"github.com/campusdesk/academic-records-api/internal/types"

	// Blank import: side-effect only (registers the "sqlite3" driver).
	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the concrete implementation of storage.Storage.
// A single *sql.DB is safe for concurrent use by multiple goroutines.
type SQLite struct {
	Db *sql.DB
}

// New opens the SQLite database at cfg.StoragePath, creates the three
// tables if they do not already exist, and returns a ready-to-use
// *SQLite.
//
// The DSN options matter:
//   - _foreign_keys=on makes SQLite enforce the teacher_id references
//     (it is off by default for historical reasons).
//   - _busy_timeout makes concurrent writers wait instead of failing
//     immediately with SQLITE_BUSY.
func New(cfg *config.Config) (*SQLite, error) {
	db, err := sql.Open("sqlite3", cfg.StoragePath+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// CREATE TABLE IF NOT EXISTS is idempotent — safe to run on every
	// startup.
	//
	// AUTOINCREMENT guarantees ids of deleted rows are never handed out
	// again for the lifetime of the database file.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS teachers (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			name       TEXT    NOT NULL,
			email      TEXT    NOT NULL,
			department TEXT    NOT NULL
		);
		CREATE TABLE IF NOT EXISTS students (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			name       TEXT    NOT NULL,
			email      TEXT    NOT NULL,
			student_id TEXT    NOT NULL,
			teacher_id INTEGER NOT NULL REFERENCES teachers (id)
		);
		CREATE TABLE IF NOT EXISTS courses (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			title       TEXT    NOT NULL,
			course_code TEXT    NOT NULL,
			credits     INTEGER NOT NULL,
			teacher_id  INTEGER NOT NULL REFERENCES teachers (id)
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: create tables: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// teacherExists reports whether the given teacher id resolves, using
// the queryer q so it can run inside or outside a transaction.
func teacherExists(q interface {
	QueryRow(query string, args ...any) *sql.Row
}, id int64) (bool, error) {
	var one int
	err := q.QueryRow("SELECT 1 FROM teachers WHERE id = ?", id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ── Teachers ─────────────────────────────────────────────────────────

// CreateTeacher inserts a new row and returns the stored record with
// its auto-generated primary key.
func (s *SQLite) CreateTeacher(name, email, department string) (types.Teacher, error) {
	stmt, err := s.Db.Prepare(
		"INSERT INTO teachers (name, email, department) VALUES (?, ?, ?)",
	)
	if err != nil {
		return types.Teacher{}, fmt.Errorf("CreateTeacher: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.Exec(name, email, department)
	if err != nil {
		return types.Teacher{}, fmt.Errorf("CreateTeacher: exec: %w", err)
	}

	lastID, err := result.LastInsertId()
	if err != nil {
		return types.Teacher{}, fmt.Errorf("CreateTeacher: last insert id: %w", err)
	}

	return types.Teacher{ID: lastID, Name: name, Email: email, Department: department}, nil
}

// GetTeachers returns all teacher rows in insertion order.
func (s *SQLite) GetTeachers() ([]types.Teacher, error) {
	rows, err := s.Db.Query(
		// Explicitly list columns — if a column is added later,
		// SELECT * would break Scan's ordering.
		"SELECT id, name, email, department FROM teachers ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("GetTeachers: query: %w", err)
	}
	defer rows.Close()

	// Pre-allocate an empty (non-nil) slice so an empty table encodes
	// to [] instead of null in JSON.
	teachers := make([]types.Teacher, 0)

	for rows.Next() {
		var t types.Teacher
		if err := rows.Scan(&t.ID, &t.Name, &t.Email, &t.Department); err != nil {
			return nil, fmt.Errorf("GetTeachers: scan row: %w", err)
		}
		teachers = append(teachers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetTeachers: rows iteration: %w", err)
	}

	return teachers, nil
}

// GetTeacherByID fetches exactly one teacher row matched by primary key.
func (s *SQLite) GetTeacherByID(id int64) (types.Teacher, error) {
	var t types.Teacher
	err := s.Db.QueryRow(
		"SELECT id, name, email, department FROM teachers WHERE id = ? LIMIT 1", id,
	).Scan(&t.ID, &t.Name, &t.Email, &t.Department)
	if err != nil {
		if err == sql.ErrNoRows {
			return types.Teacher{}, storage.ErrNotFound
		}
		return types.Teacher{}, fmt.Errorf("GetTeacherByID: scan: %w", err)
	}
	return t, nil
}

// UpdateTeacherByID replaces all fields of a teacher (full-record
// replace) and returns the stored result.
func (s *SQLite) UpdateTeacherByID(id int64, t types.Teacher) (types.Teacher, error) {
	result, err := s.Db.Exec(
		"UPDATE teachers SET name = ?, email = ?, department = ? WHERE id = ?",
		t.Name, t.Email, t.Department, id,
	)
	if err != nil {
		return types.Teacher{}, fmt.Errorf("UpdateTeacherByID: exec: %w", err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return types.Teacher{}, fmt.Errorf("UpdateTeacherByID: rows affected: %w", err)
	} else if n == 0 {
		return types.Teacher{}, storage.ErrNotFound
	}

	// Re-fetch so we return exactly what is stored.
	return s.GetTeacherByID(id)
}

// DeleteTeacherByID removes a teacher and cascades to every student and
// course owned by it.
//
// The whole cascade runs in one transaction: either the teacher and all
// its dependents disappear together, or (on any failure) nothing does.
// SQLite holds a write lock for the duration, so no reader can observe
// a half-applied cascade.
func (s *SQLite) DeleteTeacherByID(id int64) error {
	tx, err := s.Db.Begin()
	if err != nil {
		return fmt.Errorf("DeleteTeacherByID: begin: %w", err)
	}
	// Rollback is a no-op after a successful Commit.
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM students WHERE teacher_id = ?", id); err != nil {
		return fmt.Errorf("DeleteTeacherByID: delete students: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM courses WHERE teacher_id = ?", id); err != nil {
		return fmt.Errorf("DeleteTeacherByID: delete courses: %w", err)
	}

	result, err := tx.Exec("DELETE FROM teachers WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("DeleteTeacherByID: delete teacher: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("DeleteTeacherByID: rows affected: %w", err)
	}
	if n == 0 {
		// Unknown teacher: the rollback undoes the (empty) dependent
		// deletes and the caller gets a clean not-found.
		return storage.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("DeleteTeacherByID: commit: %w", err)
	}
	return nil
}

// ── Students ─────────────────────────────────────────────────────────

// CreateStudent inserts a student owned by teacherID.
//
// The owner check and the insert run in the same transaction, so the
// teacher cannot be deleted between the check and the insert. On an
// unknown teacher nothing is written and ErrUnknownTeacher is returned.
func (s *SQLite) CreateStudent(teacherID int64, name, email, studentID string) (types.Student, error) {
	tx, err := s.Db.Begin()
	if err != nil {
		return types.Student{}, fmt.Errorf("CreateStudent: begin: %w", err)
	}
	defer tx.Rollback()

	ok, err := teacherExists(tx, teacherID)
	if err != nil {
		return types.Student{}, fmt.Errorf("CreateStudent: check teacher: %w", err)
	}
	if !ok {
		return types.Student{}, storage.ErrUnknownTeacher
	}

	result, err := tx.Exec(
		"INSERT INTO students (name, email, student_id, teacher_id) VALUES (?, ?, ?, ?)",
		name, email, studentID, teacherID,
	)
	if err != nil {
		return types.Student{}, fmt.Errorf("CreateStudent: exec: %w", err)
	}
	lastID, err := result.LastInsertId()
	if err != nil {
		return types.Student{}, fmt.Errorf("CreateStudent: last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return types.Student{}, fmt.Errorf("CreateStudent: commit: %w", err)
	}

	return types.Student{
		ID:        lastID,
		Name:      name,
		Email:     email,
		StudentID: studentID,
		TeacherID: teacherID,
	}, nil
}

// GetStudents returns all student rows in insertion order.
func (s *SQLite) GetStudents() ([]types.Student, error) {
	return s.queryStudents("SELECT id, name, email, student_id, teacher_id FROM students ORDER BY id")
}

// GetStudentsByTeacher returns the students owned by one teacher.
func (s *SQLite) GetStudentsByTeacher(teacherID int64) ([]types.Student, error) {
	return s.queryStudents(
		"SELECT id, name, email, student_id, teacher_id FROM students WHERE teacher_id = ? ORDER BY id",
		teacherID,
	)
}

func (s *SQLite) queryStudents(query string, args ...any) ([]types.Student, error) {
	rows, err := s.Db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("GetStudents: query: %w", err)
	}
	defer rows.Close()

	students := make([]types.Student, 0)
	for rows.Next() {
		var st types.Student
		if err := rows.Scan(&st.ID, &st.Name, &st.Email, &st.StudentID, &st.TeacherID); err != nil {
			return nil, fmt.Errorf("GetStudents: scan row: %w", err)
		}
		students = append(students, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetStudents: rows iteration: %w", err)
	}
	return students, nil
}

// GetStudentByID fetches exactly one student row matched by primary key.
func (s *SQLite) GetStudentByID(id int64) (types.Student, error) {
	var st types.Student
	err := s.Db.QueryRow(
		"SELECT id, name, email, student_id, teacher_id FROM students WHERE id = ? LIMIT 1", id,
	).Scan(&st.ID, &st.Name, &st.Email, &st.StudentID, &st.TeacherID)
	if err != nil {
		if err == sql.ErrNoRows {
			return types.Student{}, storage.ErrNotFound
		}
		return types.Student{}, fmt.Errorf("GetStudentByID: scan: %w", err)
	}
	return st, nil
}

// UpdateStudentByID replaces a student's own fields. The owning teacher
// is not changed by an update.
func (s *SQLite) UpdateStudentByID(id int64, st types.Student) (types.Student, error) {
	result, err := s.Db.Exec(
		"UPDATE students SET name = ?, email = ?, student_id = ? WHERE id = ?",
		st.Name, st.Email, st.StudentID, id,
	)
	if err != nil {
		return types.Student{}, fmt.Errorf("UpdateStudentByID: exec: %w", err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return types.Student{}, fmt.Errorf("UpdateStudentByID: rows affected: %w", err)
	} else if n == 0 {
		return types.Student{}, storage.ErrNotFound
	}

	return s.GetStudentByID(id)
}

// DeleteStudentByID removes a student row by primary key.
func (s *SQLite) DeleteStudentByID(id int64) error {
	return s.deleteByID("DeleteStudentByID", "DELETE FROM students WHERE id = ?", id)
}

// ── Courses ──────────────────────────────────────────────────────────

// CreateCourse inserts a course owned by teacherID. Same owner-check
// transaction as CreateStudent.
func (s *SQLite) CreateCourse(teacherID int64, title, courseCode string, credits int) (types.Course, error) {
	tx, err := s.Db.Begin()
	if err != nil {
		return types.Course{}, fmt.Errorf("CreateCourse: begin: %w", err)
	}
	defer tx.Rollback()

	ok, err := teacherExists(tx, teacherID)
	if err != nil {
		return types.Course{}, fmt.Errorf("CreateCourse: check teacher: %w", err)
	}
	if !ok {
		return types.Course{}, storage.ErrUnknownTeacher
	}

	result, err := tx.Exec(
		"INSERT INTO courses (title, course_code, credits, teacher_id) VALUES (?, ?, ?, ?)",
		title, courseCode, credits, teacherID,
	)
	if err != nil {
		return types.Course{}, fmt.Errorf("CreateCourse: exec: %w", err)
	}
	lastID, err := result.LastInsertId()
	if err != nil {
		return types.Course{}, fmt.Errorf("CreateCourse: last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return types.Course{}, fmt.Errorf("CreateCourse: commit: %w", err)
	}

	return types.Course{
		ID:         lastID,
		Title:      title,
		CourseCode: courseCode,
		Credits:    credits,
		TeacherID:  teacherID,
	}, nil
}

// GetCourses returns all course rows in insertion order.
func (s *SQLite) GetCourses() ([]types.Course, error) {
	return s.queryCourses("SELECT id, title, course_code, credits, teacher_id FROM courses ORDER BY id")
}

// GetCoursesByTeacher returns the courses owned by one teacher.
func (s *SQLite) GetCoursesByTeacher(teacherID int64) ([]types.Course, error) {
	return s.queryCourses(
		"SELECT id, title, course_code, credits, teacher_id FROM courses WHERE teacher_id = ? ORDER BY id",
		teacherID,
	)
}

func (s *SQLite) queryCourses(query string, args ...any) ([]types.Course, error) {
	rows, err := s.Db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("GetCourses: query: %w", err)
	}
	defer rows.Close()

	courses := make([]types.Course, 0)
	for rows.Next() {
		var c types.Course
		if err := rows.Scan(&c.ID, &c.Title, &c.CourseCode, &c.Credits, &c.TeacherID); err != nil {
			return nil, fmt.Errorf("GetCourses: scan row: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetCourses: rows iteration: %w", err)
	}
	return courses, nil
}

// GetCourseByID fetches exactly one course row matched by primary key.
func (s *SQLite) GetCourseByID(id int64) (types.Course, error) {
	var c types.Course
	err := s.Db.QueryRow(
		"SELECT id, title, course_code, credits, teacher_id FROM courses WHERE id = ? LIMIT 1", id,
	).Scan(&c.ID, &c.Title, &c.CourseCode, &c.Credits, &c.TeacherID)
	if err != nil {
		if err == sql.ErrNoRows {
			return types.Course{}, storage.ErrNotFound
		}
		return types.Course{}, fmt.Errorf("GetCourseByID: scan: %w", err)
	}
	return c, nil
}

// UpdateCourseByID replaces a course's own fields. The owning teacher
// is not changed by an update.
func (s *SQLite) UpdateCourseByID(id int64, c types.Course) (types.Course, error) {
	result, err := s.Db.Exec(
		"UPDATE courses SET title = ?, course_code = ?, credits = ? WHERE id = ?",
		c.Title, c.CourseCode, c.Credits, id,
	)
	if err != nil {
		return types.Course{}, fmt.Errorf("UpdateCourseByID: exec: %w", err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return types.Course{}, fmt.Errorf("UpdateCourseByID: rows affected: %w", err)
	} else if n == 0 {
		return types.Course{}, storage.ErrNotFound
	}

	return s.GetCourseByID(id)
}

// DeleteCourseByID removes a course row by primary key.
func (s *SQLite) DeleteCourseByID(id int64) error {
	return s.deleteByID("DeleteCourseByID", "DELETE FROM courses WHERE id = ?", id)
}

// deleteByID runs a single-row delete and converts "zero rows affected"
// into ErrNotFound.
func (s *SQLite) deleteByID(op, query string, id int64) error {
	result, err := s.Db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("%s: exec: %w", op, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}
