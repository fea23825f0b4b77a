package dto

// TaskResponse is the external view of a task.
type TaskResponse struct {
	ID          string `json:"id"`
	StudentID   string `json:"student_id"`
	CourseID    string `json:"course_id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
	TaskType    string `json:"task_type"`
	Difficulty  string `json:"difficulty"`
	Status      string `json:"status"`
	Score       int    `json:"score"`
	AIFeedback  string `json:"ai_feedback,omitempty"`
}

// CourseResponse is the external view of a catalog course.
type CourseResponse struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Code     string   `json:"code,omitempty"`
	Semester int      `json:"semester"`
	Topics   []string `json:"topics"`
}

// EnrollRequest lists the courses a student wants to enroll in.
type EnrollRequest struct {
	CourseIDs []string `json:"course_ids"`
}

// EnrollResponse reports the outcome of an enrollment run.
type EnrollResponse struct {
	Status         string `json:"status"`
	EnrolledCount  int    `json:"enrolled_count"`
	TasksGenerated int    `json:"tasks_generated"`
	Message        string `json:"message"`
}

// SubmitTaskRequest carries a student's work for a task.
type SubmitTaskRequest struct {
	Submission string `json:"submission"`
}

// SubmitTaskResponse acknowledges a stored submission.
type SubmitTaskResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// VerifyTaskResponse reports the evaluation outcome of a submission.
type VerifyTaskResponse struct {
	Status   string `json:"status"`
	Verified bool   `json:"verified"`
	Score    int    `json:"score"`
	Feedback string `json:"feedback,omitempty"`
	Message  string `json:"message"`
}

// GenerateTaskRequest asks for a new task on a topic within a course.
type GenerateTaskRequest struct {
	CourseID string `json:"course_id"`
	Topic    string `json:"topic"`
}
