package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studymate/internal/domain"
)

func TestResolveCourse(t *testing.T) {
	records := []*domain.Progress{
		{ID: "p1", CourseName: "Algorithms 101"},
		{ID: "p2", CourseName: "Database Systems"},
		{ID: "p3", CourseName: "Advanced Algorithms"},
	}

	t.Run("substring match is case insensitive", func(t *testing.T) {
		got := ResolveCourse(records, "database")
		require.NotNil(t, got)
		assert.Equal(t, "p2", got.ID)
	})

	t.Run("first match wins", func(t *testing.T) {
		got := ResolveCourse(records, "algorithms")
		require.NotNil(t, got)
		assert.Equal(t, "p1", got.ID)
	})

	t.Run("partial course name matches", func(t *testing.T) {
		got := ResolveCourse(records, "Algorithms")
		require.NotNil(t, got)
		assert.Equal(t, "Algorithms 101", got.CourseName)
	})

	t.Run("no match falls back to first record", func(t *testing.T) {
		got := ResolveCourse(records, "Quantum Computing")
		require.NotNil(t, got)
		assert.Equal(t, "p1", got.ID)
	})

	t.Run("empty hint falls back to first record", func(t *testing.T) {
		got := ResolveCourse(records, "  ")
		require.NotNil(t, got)
		assert.Equal(t, "p1", got.ID)
	})

	t.Run("no records yields nil", func(t *testing.T) {
		assert.Nil(t, ResolveCourse(nil, "anything"))
	})
}
