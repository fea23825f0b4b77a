package dto

// ChatRequest is the request body for a chat turn.
type ChatRequest struct {
	StudentID string `json:"student_id"`
	Message   string `json:"message"`
}

// ChatResponse carries the visible model reply. TaskCreated is set when the
// exchange triggered the create_task tool.
type ChatResponse struct {
	Response    string        `json:"response"`
	TaskCreated *TaskResponse `json:"task_created,omitempty"`
}
