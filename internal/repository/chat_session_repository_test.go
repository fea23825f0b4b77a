package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studymate/internal/domain"
)

// fakeCache is a map-backed domain.Cache for repository tests.
type fakeCache struct {
	data map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]string)}
}

func (f *fakeCache) Get(_ context.Context, key string) (string, error) {
	val, ok := f.data[key]
	if !ok {
		return "", domain.ErrCacheMiss
	}
	return val, nil
}

func (f *fakeCache) Set(_ context.Context, key string, value string, _ time.Duration) error {
	f.data[key] = value
	return nil
}

func (f *fakeCache) Delete(_ context.Context, key string) error {
	delete(f.data, key)
	return nil
}

func (f *fakeCache) Ping(_ context.Context) error { return nil }

func TestChatSessionRepositoryRoundTrip(t *testing.T) {
	store := newFakeCache()
	repo := NewChatSessionRepository(store)
	ctx := context.Background()

	session, err := repo.GetOrCreate(ctx, "student-1")
	require.NoError(t, err)
	assert.Equal(t, "student-1", session.StudentID)
	assert.Empty(t, session.Turns)

	session.Append(domain.RoleUser, "hello")
	session.Append(domain.RoleModel, "hi, how can I help?")
	require.NoError(t, repo.Save(ctx, session))

	loaded, err := repo.GetOrCreate(ctx, "student-1")
	require.NoError(t, err)
	require.Len(t, loaded.Turns, 2)
	assert.Equal(t, domain.RoleUser, loaded.Turns[0].Role)
	assert.Equal(t, "hello", loaded.Turns[0].Content)
	assert.Equal(t, "hi, how can I help?", loaded.Turns[1].Content)
}

func TestChatSessionRepositoryIsolatedByStudent(t *testing.T) {
	store := newFakeCache()
	repo := NewChatSessionRepository(store)
	ctx := context.Background()

	first := &domain.ChatSession{StudentID: "student-1"}
	first.Append(domain.RoleUser, "question from student one")
	require.NoError(t, repo.Save(ctx, first))

	other, err := repo.GetOrCreate(ctx, "student-2")
	require.NoError(t, err)
	assert.Empty(t, other.Turns)
}
