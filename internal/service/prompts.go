package service

import (
	"fmt"
	"strings"

	"studymate/internal/domain"
)

const (
	tutorSystemPreamble = "You are StudyMate, a friendly and encouraging academic tutor. " +
		"Answer the student's questions using the context below. Keep replies short and practical."

	jsonAssistantSystem = "You are a JSON generator. Respond with a single JSON object and nothing else."

	evaluatorSystem = "You are a strict but fair academic evaluator. " +
		"Respond with a single JSON object and nothing else."

	toolInstruction = "TOOL USE:\n" +
		"When the student asks you to create, add, or assign a practice task, do not answer in prose. " +
		"Instead respond with only this JSON in a fenced code block:\n" +
		"```json\n" +
		"{\"tool\": \"create_task\", \"topic\": \"<topic>\", \"course\": \"<course name>\", \"reason\": \"<one short sentence>\"}\n" +
		"```\n" +
		"For every other question, answer normally in plain text."
)

// buildChatContext assembles the system context for a tutoring turn from the
// student's profile, enrollment progress, recent tasks, and active roadmap.
func buildChatContext(student *domain.StudentProfile, records []*domain.Progress, tasks []*domain.Task, roadmap *domain.StudentRoadmap) string {
	var b strings.Builder
	b.WriteString(tutorSystemPreamble)
	b.WriteString("\n\nSTUDENT PROFILE:\n")
	fmt.Fprintf(&b, "- Name: %s\n- Semester: %d\n", student.Name, student.CurrentSemester)
	if len(student.Interests) > 0 {
		fmt.Fprintf(&b, "- Interests: %s\n", strings.Join(student.Interests, ", "))
	}
	if len(student.WeakSubjects) > 0 {
		fmt.Fprintf(&b, "- Weak subjects: %s\n", strings.Join(student.WeakSubjects, ", "))
	}
	if student.StudyPace != "" {
		fmt.Fprintf(&b, "- Study pace: %s\n", student.StudyPace)
	}
	if student.LearningStyle != "" {
		fmt.Fprintf(&b, "- Learning style: %s\n", student.LearningStyle)
	}

	if len(records) > 0 {
		b.WriteString("\nENROLLED COURSES:\n")
		for _, p := range records {
			grade := "n/a"
			if p.Grade != nil {
				grade = fmt.Sprintf("%.0f", *p.Grade)
			}
			fmt.Fprintf(&b, "- %s: %d/%d tasks done, accuracy %.0f%%, grade %s\n",
				p.CourseName, p.TasksCompleted, p.TotalTasks, p.Accuracy*100, grade)
		}
	}

	if len(tasks) > 0 {
		b.WriteString("\nRECENT TASKS:\n")
		for _, t := range tasks {
			fmt.Fprintf(&b, "- [%s] %s\n", t.Status, t.Title)
		}
	}

	if roadmap != nil {
		fmt.Fprintf(&b, "\nACTIVE ROADMAP (%s):\n", roadmap.Interest)
		for _, topic := range roadmap.PendingTopics() {
			fmt.Fprintf(&b, "- %s\n", topic)
		}
	}

	b.WriteString("\n")
	b.WriteString(toolInstruction)
	return b.String()
}

// buildChatPrompt renders the running conversation plus the new message.
func buildChatPrompt(history []domain.ChatTurn, message string) string {
	var b strings.Builder
	for _, turn := range history {
		speaker := "User"
		if turn.Role == domain.RoleModel {
			speaker = "Assistant"
		}
		fmt.Fprintf(&b, "%s: %s\n", speaker, turn.Content)
	}
	fmt.Fprintf(&b, "User: %s\nAssistant:", message)
	return b.String()
}

func buildTaskPrompt(student *domain.StudentProfile, courseName, topic string) string {
	style := student.LearningStyle
	if style == "" {
		style = domain.StyleReading
	}
	return fmt.Sprintf(
		"Generate one practice task for a student.\n"+
			"Course: %s\nTopic: %s\nLearning style: %s\nStudy pace: %s\n\n"+
			"Return JSON with exactly these keys:\n"+
			"{\"title\": \"...\", \"description\": \"...\", \"task_type\": \"theory|coding|mcq\"}",
		courseName, topic, style, student.StudyPace)
}

func buildVerifyPrompt(task *domain.Task, submission string) string {
	return fmt.Sprintf(
		"Verify the following student submission against the task.\n\n"+
			"TASK: %s\n%s\n\nSUBMISSION:\n%s\n\n"+
			"Return JSON with exactly these keys:\n"+
			"{\"verified\": true|false, \"score\": 0-100, \"feedback\": \"two sentences at most\"}",
		task.Title, task.Description, submission)
}

func buildStudyPlanPrompt(student *domain.StudentProfile, records []*domain.Progress) string {
	var b strings.Builder
	b.WriteString("Create a one-week study plan for this student. Use short bullet points per day.\n\n")
	fmt.Fprintf(&b, "Student: %s, semester %d, pace %s.\n", student.Name, student.CurrentSemester, student.StudyPace)
	if len(student.WeakSubjects) > 0 {
		fmt.Fprintf(&b, "Weak subjects: %s.\n", strings.Join(student.WeakSubjects, ", "))
	}
	for _, p := range records {
		fmt.Fprintf(&b, "Course %s: %d of %d tasks completed.\n", p.CourseName, p.TasksCompleted, p.TotalTasks)
	}
	return b.String()
}

func buildSummaryPrompt(student *domain.StudentProfile, records []*domain.Progress, completed []*domain.Task) string {
	var b strings.Builder
	b.WriteString("Summarize this student's academic progress in an encouraging tone, under 120 words.\n\n")
	fmt.Fprintf(&b, "Student: %s, semester %d.\n", student.Name, student.CurrentSemester)
	for _, p := range records {
		fmt.Fprintf(&b, "Course %s: accuracy %.0f%%.\n", p.CourseName, p.Accuracy*100)
	}
	if len(completed) > 0 {
		b.WriteString("Recently completed tasks:\n")
		for _, t := range completed {
			fmt.Fprintf(&b, "- %s (score %d)\n", t.Title, t.Score)
		}
	}
	return b.String()
}

func buildRoadmapPrompt(student *domain.StudentProfile, interest string) string {
	return fmt.Sprintf(
		"Create a learning roadmap for a semester %d student who wants to get into %s.\n"+
			"Return JSON with exactly these keys:\n"+
			"{\"interest\": \"%s\", \"phases\": [{\"title\": \"Beginner\", \"duration\": \"...\", \"project\": \"...\", "+
			"\"topics\": [{\"title\": \"...\", \"status\": \"pending\"}]}], \"resources\": [\"...\"]}",
		student.CurrentSemester, interest, interest)
}

func buildRationalePrompt(payload string) string {
	return fmt.Sprintf(
		"Rewrite the rationale of each project suggestion below into one warm, personal sentence.\n"+
			"Do not change any other field. Return JSON of the form {\"suggestions\": [...]} "+
			"with the same ids and the same order.\n\n%s",
		payload)
}
