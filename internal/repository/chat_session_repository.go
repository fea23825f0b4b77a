package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"studymate/internal/cache"
	"studymate/internal/domain"
)

// chatSessionRepository stores chat sessions as JSON documents in the cache
// store (Redis). Conversation history is a hot, append-only document; keeping
// it out of the relational store matches how the rest of the system treats
// per-request working data.
type chatSessionRepository struct {
	store domain.Cache
}

// NewChatSessionRepository creates a cache-backed session repository.
func NewChatSessionRepository(store domain.Cache) domain.ChatSessionRepository {
	return &chatSessionRepository{store: store}
}

func sessionKey(studentID string) string {
	return cache.GenerateCacheKey("chat", "session", studentID)
}

// GetOrCreate loads the student's session, creating an empty one when none
// exists yet.
func (r *chatSessionRepository) GetOrCreate(ctx context.Context, studentID string) (*domain.ChatSession, error) {
	raw, err := r.store.Get(ctx, sessionKey(studentID))
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return &domain.ChatSession{StudentID: studentID}, nil
		}
		return nil, fmt.Errorf("failed to load chat session: %w", err)
	}

	var session domain.ChatSession
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, fmt.Errorf("failed to decode chat session: %w", err)
	}
	return &session, nil
}

// Save stores the session. Sessions do not expire.
func (r *chatSessionRepository) Save(ctx context.Context, session *domain.ChatSession) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode chat session: %w", err)
	}
	if err := r.store.Set(ctx, sessionKey(session.StudentID), string(raw), 0); err != nil {
		return fmt.Errorf("failed to store chat session: %w", err)
	}
	return nil
}
