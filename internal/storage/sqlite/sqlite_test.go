package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusdesk/academic-records-api/internal/config"
	"github.com/campusdesk/academic-records-api/internal/storage"
	"github.com/campusdesk/academic-records-api/internal/types"
)

func newTestStore(t *testing.T) *SQLite {
	t.Helper()

	store, err := New(&config.Config{
		StoragePath: filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { store.Db.Close() })

	return store
}

func TestTeacherCRUD(t *testing.T) {
	store := newTestStore(t)

	created, err := store.CreateTeacher("A. Lee", "a@x.edu", "CS")
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	got, err := store.GetTeacherByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	list, err := store.GetTeachers()
	require.NoError(t, err)
	assert.Equal(t, []types.Teacher{created}, list)

	updated, err := store.UpdateTeacherByID(created.ID, types.Teacher{
		Name: "A. Lee", Email: "lee@x.edu", Department: "Math",
	})
	require.NoError(t, err)
	assert.Equal(t, "lee@x.edu", updated.Email)
	assert.Equal(t, "Math", updated.Department)

	require.NoError(t, store.DeleteTeacherByID(created.ID))

	_, err = store.GetTeacherByID(created.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestTeacherNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetTeacherByID(99)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = store.UpdateTeacherByID(99, types.Teacher{Name: "x", Email: "x", Department: "x"})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	assert.ErrorIs(t, store.DeleteTeacherByID(99), storage.ErrNotFound)
}

func TestListsAreEmptyNotNil(t *testing.T) {
	store := newTestStore(t)

	teachers, err := store.GetTeachers()
	require.NoError(t, err)
	assert.NotNil(t, teachers)
	assert.Empty(t, teachers)

	students, err := store.GetStudents()
	require.NoError(t, err)
	assert.NotNil(t, students)

	courses, err := store.GetCourses()
	require.NoError(t, err)
	assert.NotNil(t, courses)
}

func TestStudentCRUD(t *testing.T) {
	store := newTestStore(t)

	teacher, err := store.CreateTeacher("A. Lee", "a@x.edu", "CS")
	require.NoError(t, err)

	created, err := store.CreateStudent(teacher.ID, "Sam", "s@x.edu", "S100")
	require.NoError(t, err)
	assert.Equal(t, teacher.ID, created.TeacherID)
	assert.Equal(t, "S100", created.StudentID)

	got, err := store.GetStudentByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	byTeacher, err := store.GetStudentsByTeacher(teacher.ID)
	require.NoError(t, err)
	assert.Equal(t, []types.Student{created}, byTeacher)

	updated, err := store.UpdateStudentByID(created.ID, types.Student{
		Name: "Samuel", Email: "s@x.edu", StudentID: "S100",
	})
	require.NoError(t, err)
	assert.Equal(t, "Samuel", updated.Name)
	// Ownership survives a full-record update.
	assert.Equal(t, teacher.ID, updated.TeacherID)

	require.NoError(t, store.DeleteStudentByID(created.ID))
	assert.ErrorIs(t, store.DeleteStudentByID(created.ID), storage.ErrNotFound)
}

func TestCourseCRUD(t *testing.T) {
	store := newTestStore(t)

	teacher, err := store.CreateTeacher("A. Lee", "a@x.edu", "CS")
	require.NoError(t, err)

	created, err := store.CreateCourse(teacher.ID, "Databases", "CS301", 4)
	require.NoError(t, err)
	assert.Equal(t, 4, created.Credits)
	assert.Equal(t, teacher.ID, created.TeacherID)

	got, err := store.GetCourseByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	byTeacher, err := store.GetCoursesByTeacher(teacher.ID)
	require.NoError(t, err)
	assert.Equal(t, []types.Course{created}, byTeacher)

	updated, err := store.UpdateCourseByID(created.ID, types.Course{
		Title: "Advanced Databases", CourseCode: "CS401", Credits: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, "CS401", updated.CourseCode)
	assert.Equal(t, teacher.ID, updated.TeacherID)

	require.NoError(t, store.DeleteCourseByID(created.ID))
	assert.ErrorIs(t, store.DeleteCourseByID(created.ID), storage.ErrNotFound)
}

func TestCreateWithUnknownTeacherInsertsNothing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.CreateStudent(42, "Sam", "s@x.edu", "S100")
	assert.ErrorIs(t, err, storage.ErrUnknownTeacher)

	_, err = store.CreateCourse(42, "Databases", "CS301", 4)
	assert.ErrorIs(t, err, storage.ErrUnknownTeacher)

	students, err := store.GetStudents()
	require.NoError(t, err)
	assert.Empty(t, students)

	courses, err := store.GetCourses()
	require.NoError(t, err)
	assert.Empty(t, courses)
}

func TestDeleteTeacherCascades(t *testing.T) {
	store := newTestStore(t)

	// Two teachers so the cascade can prove it only removes records
	// owned by the deleted one.
	lee, err := store.CreateTeacher("A. Lee", "a@x.edu", "CS")
	require.NoError(t, err)
	kim, err := store.CreateTeacher("B. Kim", "b@x.edu", "Math")
	require.NoError(t, err)

	_, err = store.CreateStudent(lee.ID, "Sam", "s@x.edu", "S100")
	require.NoError(t, err)
	keptStudent, err := store.CreateStudent(kim.ID, "Ada", "ada@x.edu", "S200")
	require.NoError(t, err)

	_, err = store.CreateCourse(lee.ID, "Databases", "CS301", 4)
	require.NoError(t, err)
	keptCourse, err := store.CreateCourse(kim.ID, "Algebra", "MA101", 3)
	require.NoError(t, err)

	require.NoError(t, store.DeleteTeacherByID(lee.ID))

	teachers, err := store.GetTeachers()
	require.NoError(t, err)
	assert.Equal(t, []types.Teacher{kim}, teachers)

	students, err := store.GetStudents()
	require.NoError(t, err)
	assert.Equal(t, []types.Student{keptStudent}, students)

	courses, err := store.GetCourses()
	require.NoError(t, err)
	assert.Equal(t, []types.Course{keptCourse}, courses)

	// No orphans: every remaining student and course still points at a
	// live teacher.
	for _, s := range students {
		_, err := store.GetTeacherByID(s.TeacherID)
		assert.NoError(t, err)
	}
	for _, c := range courses {
		_, err := store.GetTeacherByID(c.TeacherID)
		assert.NoError(t, err)
	}
}

func TestIDsAreNeverReused(t *testing.T) {
	store := newTestStore(t)

	first, err := store.CreateTeacher("A. Lee", "a@x.edu", "CS")
	require.NoError(t, err)
	require.NoError(t, store.DeleteTeacherByID(first.ID))

	second, err := store.CreateTeacher("B. Kim", "b@x.edu", "Math")
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)
}
