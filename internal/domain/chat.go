package domain

import "time"

// Chat turn roles.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// ChatTurn is one message of a conversation.
type ChatTurn struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatSession is the append-only conversation history for one student. Each
// exchange appends exactly two turns: the user message and the model reply.
type ChatSession struct {
	StudentID string     `json:"student_id"`
	Turns     []ChatTurn `json:"turns"`
}

// Append adds a turn stamped with the current time.
func (s *ChatSession) Append(role, content string) {
	s.Turns = append(s.Turns, ChatTurn{Role: role, Content: content, Timestamp: time.Now()})
}

// Recent returns the last n turns in order.
func (s *ChatSession) Recent(n int) []ChatTurn {
	if len(s.Turns) <= n {
		return s.Turns
	}
	return s.Turns[len(s.Turns)-n:]
}
