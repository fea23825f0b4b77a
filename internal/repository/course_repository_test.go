package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DATA-DOG/go-sqlmock"
)

func courseRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"ID", "NAME", "CODE", "DESCRIPTION", "SEMESTER", "TOPICS",
		"CREATED_AT", "DELETED_AT",
	})
}

func TestCourseRepositoryFindBySemester(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSQLXCourseRepository(db)
	now := time.Now()

	rows := courseRows().
		AddRow("course-1", "Algorithms 101", "CS301", "desc", 3,
			`["Sorting","Graph Traversal"]`, now, nil).
		AddRow("course-2", "Database Systems", "CS302", "desc", 3,
			`["SQL"]`, now, nil)
	mock.ExpectPrepare("SELECT(.|\n)*FROM courses(.|\n)*WHERE semester").
		ExpectQuery().WithArgs(3).WillReturnRows(rows)

	courses, err := repo.FindBySemester(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, "Algorithms 101", courses[0].Name)
	assert.Equal(t, []string{"Sorting", "Graph Traversal"}, courses[0].Topics)
	assert.Equal(t, 3, courses[1].Semester)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryGetByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSQLXCourseRepository(db)

	mock.ExpectPrepare("SELECT(.|\n)*FROM courses(.|\n)*WHERE id").
		ExpectQuery().WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	course, err := repo.GetByID(context.Background(), "ghost")
	require.NoError(t, err, "a missing course is not an error")
	assert.Nil(t, course)
	assert.NoError(t, mock.ExpectationsWereMet())
}
