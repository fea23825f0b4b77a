package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"studymate/internal/domain"
)

func newTaskServiceForTest() (*taskService, *MockStudentRepository, *MockCourseRepository, *MockTaskRepository, *MockProgressRepository, *MockTextGenerator) {
	studentRepo := new(MockStudentRepository)
	courseRepo := new(MockCourseRepository)
	taskRepo := new(MockTaskRepository)
	progressRepo := new(MockProgressRepository)
	generator := new(MockTextGenerator)
	svc := NewTaskService(studentRepo, courseRepo, taskRepo, progressRepo, generator).(*taskService)
	return svc, studentRepo, courseRepo, taskRepo, progressRepo, generator
}

func testStudent() *domain.StudentProfile {
	return &domain.StudentProfile{
		ID:              "student-1",
		Name:            "Ayesha",
		CurrentSemester: 5,
		Interests:       []string{"AI"},
		StudyPace:       domain.PaceModerate,
		LearningStyle:   domain.StylePractice,
	}
}

func TestSubmitTaskStoresWithoutCompleting(t *testing.T) {
	svc, _, _, taskRepo, _, _ := newTaskServiceForTest()
	ctx := context.Background()

	task := domain.NewTask("task-1", "student-1", "course-1", "Learn Sorting", "desc", domain.TaskTypeTheory, domain.DifficultyMedium)
	taskRepo.On("GetByID", ctx, "task-1").Return(task, nil)
	taskRepo.On("Save", ctx, task).Return(nil)

	resp, err := svc.SubmitTask(ctx, "task-1", "my answer")
	require.NoError(t, err)
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, domain.TaskStatusPending, task.Status)
	assert.Equal(t, "my answer", task.Submission)
	taskRepo.AssertExpectations(t)
}

func TestSubmitTaskNotFound(t *testing.T) {
	svc, _, _, taskRepo, _, _ := newTaskServiceForTest()
	ctx := context.Background()

	taskRepo.On("GetByID", ctx, "missing").Return(nil, nil)

	_, err := svc.SubmitTask(ctx, "missing", "work")
	require.Error(t, err)
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrTaskNotFound, domainErr.Code)
}

func TestVerifyTaskAlreadyCompletedIsIdempotent(t *testing.T) {
	svc, _, _, taskRepo, _, generator := newTaskServiceForTest()
	ctx := context.Background()

	task := domain.NewTask("task-1", "student-1", "course-1", "Learn Sorting", "desc", domain.TaskTypeTheory, domain.DifficultyMedium)
	task.Status = domain.TaskStatusCompleted
	task.Score = 88
	taskRepo.On("GetByID", ctx, "task-1").Return(task, nil)

	resp, err := svc.VerifyTask(ctx, "task-1", "second attempt")
	require.NoError(t, err)
	assert.True(t, resp.Verified)
	assert.Equal(t, 88, resp.Score)
	generator.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
	taskRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestVerifyTaskCompletesAndRecountsProgress(t *testing.T) {
	svc, _, _, taskRepo, progressRepo, generator := newTaskServiceForTest()
	ctx := context.Background()

	task := domain.NewTask("task-2", "student-1", "course-1", "Learn Graphs", "desc", domain.TaskTypeTheory, domain.DifficultyMedium)
	other := domain.NewTask("task-1", "student-1", "course-1", "Learn Sorting", "desc", domain.TaskTypeTheory, domain.DifficultyMedium)
	other.Status = domain.TaskStatusCompleted
	other.Score = 80

	progress := domain.NewProgress("prog-1", "student-1", "course-1", "Algorithms 101", 2)
	progress.TasksCompleted = 1
	progress.Accuracy = 0.5

	taskRepo.On("GetByID", ctx, "task-2").Return(task, nil)
	taskRepo.On("Save", ctx, task).Return(nil)
	generator.On("Generate", ctx, mock.Anything, evaluatorSystem).
		Return("```json\n{\"verified\": true, \"score\": 92, \"feedback\": \"Solid work\"}\n```")
	progressRepo.On("GetByStudentAndCourse", ctx, "student-1", "course-1").Return(progress, nil)
	taskRepo.On("FindByStudentAndCourse", ctx, "student-1", "course-1").Return([]*domain.Task{other, task}, nil)
	progressRepo.On("Save", ctx, progress).Return(nil)
	taskRepo.On("CountPending", ctx, "student-1").Return(1, nil)

	resp, err := svc.VerifyTask(ctx, "task-2", "my solution")
	require.NoError(t, err)

	assert.True(t, resp.Verified)
	assert.Equal(t, 92, resp.Score)
	assert.Equal(t, domain.TaskStatusCompleted, task.Status)
	require.NotNil(t, task.CompletedAt)

	assert.Equal(t, 2, progress.TasksCompleted)
	assert.Equal(t, 2, progress.TotalTasks)
	assert.InDelta(t, 1.0, progress.Accuracy, 1e-9)
	require.NotNil(t, progress.Grade)
	assert.InDelta(t, 86.0, *progress.Grade, 1e-9)
	assert.Equal(t, domain.ProgressCompleted, progress.Status)
}

func TestVerifyTaskRejectedKeepsPending(t *testing.T) {
	svc, _, _, taskRepo, _, generator := newTaskServiceForTest()
	ctx := context.Background()

	task := domain.NewTask("task-1", "student-1", "course-1", "Learn Sorting", "desc", domain.TaskTypeTheory, domain.DifficultyMedium)
	taskRepo.On("GetByID", ctx, "task-1").Return(task, nil)
	taskRepo.On("Save", ctx, task).Return(nil)
	generator.On("Generate", ctx, mock.Anything, evaluatorSystem).
		Return(`{"verified": false, "score": 35, "feedback": "Incomplete"}`)

	resp, err := svc.VerifyTask(ctx, "task-1", "weak answer")
	require.NoError(t, err)
	assert.False(t, resp.Verified)
	assert.Equal(t, 35, resp.Score)
	assert.Equal(t, domain.TaskStatusPending, task.Status)
	assert.Equal(t, "Incomplete", task.AIFeedback)
}

func TestVerifyTaskUnparsableVerdictSavesWork(t *testing.T) {
	svc, _, _, taskRepo, progressRepo, generator := newTaskServiceForTest()
	ctx := context.Background()

	task := domain.NewTask("task-1", "student-1", "course-1", "Learn Sorting", "desc", domain.TaskTypeTheory, domain.DifficultyMedium)
	taskRepo.On("GetByID", ctx, "task-1").Return(task, nil)
	taskRepo.On("Save", ctx, task).Return(nil)
	generator.On("Generate", ctx, mock.Anything, evaluatorSystem).
		Return("I had trouble evaluating your submission, sorry.")

	resp, err := svc.VerifyTask(ctx, "task-1", "my answer")
	require.NoError(t, err)
	assert.Equal(t, "unavailable", resp.Status)
	assert.False(t, resp.Verified)
	assert.Contains(t, resp.Message, "work is saved")
	assert.Equal(t, domain.TaskStatusPending, task.Status)
	assert.Equal(t, "my answer", task.Submission)
	progressRepo.AssertNotCalled(t, "GetByStudentAndCourse", mock.Anything, mock.Anything, mock.Anything)
}

func TestVerifyTaskTriggersRemedialForWeakestCourse(t *testing.T) {
	svc, studentRepo, _, taskRepo, progressRepo, generator := newTaskServiceForTest()
	ctx := context.Background()

	task := domain.NewTask("task-9", "student-1", "course-1", "Learn Indexing", "desc", domain.TaskTypeTheory, domain.DifficultyMedium)
	strong := domain.NewProgress("prog-1", "student-1", "course-1", "Database Systems", 1)
	weak := domain.NewProgress("prog-2", "student-1", "course-2", "Operating Systems", 4)
	weak.TasksCompleted = 2
	weak.Accuracy = 0.5

	taskRepo.On("GetByID", ctx, "task-9").Return(task, nil)
	taskRepo.On("Save", ctx, task).Return(nil)
	generator.On("Generate", ctx, mock.Anything, evaluatorSystem).
		Return(`{"verified": true, "score": 90, "feedback": "Good"}`)
	progressRepo.On("GetByStudentAndCourse", ctx, "student-1", "course-1").Return(strong, nil)
	taskRepo.On("FindByStudentAndCourse", ctx, "student-1", "course-1").Return([]*domain.Task{task}, nil)
	progressRepo.On("Save", ctx, strong).Return(nil)

	taskRepo.On("CountPending", ctx, "student-1").Return(0, nil)
	progressRepo.On("FindByStudent", ctx, "student-1").Return([]*domain.Progress{strong, weak}, nil)
	studentRepo.On("GetByID", ctx, "student-1").Return(testStudent(), nil)
	generator.On("Generate", ctx, mock.Anything, jsonAssistantSystem).
		Return(`{"title": "Revise Scheduling", "description": "Practice CPU scheduling problems.", "task_type": "theory"}`)

	var remedial *domain.Task
	taskRepo.On("Insert", ctx, mock.AnythingOfType("*domain.Task")).
		Run(func(args mock.Arguments) { remedial = args.Get(1).(*domain.Task) }).
		Return(nil)
	progressRepo.On("Save", ctx, weak).Return(nil)

	_, err := svc.VerifyTask(ctx, "task-9", "solution")
	require.NoError(t, err)

	require.NotNil(t, remedial, "a remedial task must be created")
	assert.Equal(t, "course-2", remedial.CourseID)
	assert.Equal(t, "Revise Scheduling", remedial.Title)
	assert.Equal(t, domain.TaskStatusPending, remedial.Status)
	assert.Equal(t, 5, weak.TotalTasks)
	assert.Equal(t, domain.ProgressOngoing, weak.Status)
}

func TestVerifyTaskNoRemedialWhenPendingRemain(t *testing.T) {
	svc, _, _, taskRepo, progressRepo, generator := newTaskServiceForTest()
	ctx := context.Background()

	task := domain.NewTask("task-1", "student-1", "", "Free Task", "desc", domain.TaskTypeTheory, domain.DifficultyMedium)
	taskRepo.On("GetByID", ctx, "task-1").Return(task, nil)
	taskRepo.On("Save", ctx, task).Return(nil)
	generator.On("Generate", ctx, mock.Anything, evaluatorSystem).
		Return(`{"verified": true, "score": 75, "feedback": "Fine"}`)
	taskRepo.On("CountPending", ctx, "student-1").Return(3, nil)

	_, err := svc.VerifyTask(ctx, "task-1", "answer")
	require.NoError(t, err)
	progressRepo.AssertNotCalled(t, "FindByStudent", mock.Anything, mock.Anything)
	taskRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestCreateTopicTaskFallsBackOnGarbage(t *testing.T) {
	svc, _, _, taskRepo, progressRepo, generator := newTaskServiceForTest()
	ctx := context.Background()
	student := testStudent()
	progress := domain.NewProgress("prog-1", "student-1", "course-1", "Algorithms 101", 3)

	generator.On("Generate", ctx, mock.Anything, jsonAssistantSystem).Return("no json at all")
	var inserted *domain.Task
	taskRepo.On("Insert", ctx, mock.AnythingOfType("*domain.Task")).
		Run(func(args mock.Arguments) { inserted = args.Get(1).(*domain.Task) }).
		Return(nil)
	progressRepo.On("Save", ctx, progress).Return(nil)

	task, err := svc.CreateTopicTask(ctx, student, progress, "Recursion")
	require.NoError(t, err)
	require.NotNil(t, inserted)
	assert.Equal(t, "Study Recursion", task.Title)
	assert.Contains(t, task.Description, "Algorithms 101")
	assert.Equal(t, domain.TaskTypeTheory, task.Type)
	assert.Equal(t, 4, progress.TotalTasks)
}

func TestEnrollCoursesSeedsTasksPerTopic(t *testing.T) {
	svc, studentRepo, courseRepo, taskRepo, progressRepo, _ := newTaskServiceForTest()
	ctx := context.Background()

	studentRepo.On("GetByID", ctx, "student-1").Return(testStudent(), nil)
	courseRepo.On("GetByID", ctx, "course-1").Return(&domain.CourseRef{
		ID: "course-1", Name: "Algorithms 101",
		Topics: []string{"Sorting", "Graph Traversal"},
	}, nil)
	progressRepo.On("GetByStudentAndCourse", ctx, "student-1", "course-1").Return(nil, nil)
	taskRepo.On("FindByStudentAndCourse", ctx, "student-1", "course-1").Return([]*domain.Task{}, nil)

	var insertedTasks []*domain.Task
	taskRepo.On("Insert", ctx, mock.AnythingOfType("*domain.Task")).
		Run(func(args mock.Arguments) { insertedTasks = append(insertedTasks, args.Get(1).(*domain.Task)) }).
		Return(nil)
	var insertedProgress *domain.Progress
	progressRepo.On("Insert", ctx, mock.AnythingOfType("*domain.Progress")).
		Run(func(args mock.Arguments) { insertedProgress = args.Get(1).(*domain.Progress) }).
		Return(nil)

	resp, err := svc.EnrollCourses(ctx, "student-1", []string{"course-1"})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.EnrolledCount)
	assert.Equal(t, 2, resp.TasksGenerated)
	require.Len(t, insertedTasks, 2)
	assert.Equal(t, "Learn Sorting", insertedTasks[0].Title)
	assert.Equal(t, "Learn Graph Traversal", insertedTasks[1].Title)
	require.NotNil(t, insertedProgress)
	assert.Equal(t, 2, insertedProgress.TotalTasks)
	assert.Equal(t, 0, insertedProgress.TasksCompleted)
	assert.Equal(t, domain.ProgressOngoing, insertedProgress.Status)
}

func TestEnrollCoursesSkipsUnknownAmongKnown(t *testing.T) {
	svc, studentRepo, courseRepo, taskRepo, progressRepo, _ := newTaskServiceForTest()
	ctx := context.Background()

	studentRepo.On("GetByID", ctx, "student-1").Return(testStudent(), nil)
	courseRepo.On("GetByID", ctx, "ghost-1").Return(nil, nil)
	courseRepo.On("GetByID", ctx, "course-1").Return(&domain.CourseRef{
		ID: "course-1", Name: "Algorithms 101", Topics: []string{"Sorting"},
	}, nil)
	progressRepo.On("GetByStudentAndCourse", ctx, "student-1", "course-1").Return(nil, nil)
	taskRepo.On("FindByStudentAndCourse", ctx, "student-1", "course-1").Return([]*domain.Task{}, nil)
	taskRepo.On("Insert", ctx, mock.AnythingOfType("*domain.Task")).Return(nil)
	progressRepo.On("Insert", ctx, mock.AnythingOfType("*domain.Progress")).Return(nil)

	resp, err := svc.EnrollCourses(ctx, "student-1", []string{"ghost-1", "course-1"})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.EnrolledCount)
	assert.Equal(t, 1, resp.TasksGenerated)
}

func TestEnrollCoursesAllUnknownCourses(t *testing.T) {
	svc, studentRepo, courseRepo, taskRepo, progressRepo, _ := newTaskServiceForTest()
	ctx := context.Background()

	studentRepo.On("GetByID", ctx, "student-1").Return(testStudent(), nil)
	courseRepo.On("GetByID", ctx, "ghost-1").Return(nil, nil)
	courseRepo.On("GetByID", ctx, "ghost-2").Return(nil, nil)

	_, err := svc.EnrollCourses(ctx, "student-1", []string{"ghost-1", "ghost-2"})
	require.Error(t, err)
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCourseNotFound, domainErr.Code)
	assert.Contains(t, domainErr.Message, "ghost-1")
	taskRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	progressRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestListCourseCatalog(t *testing.T) {
	svc, _, courseRepo, _, _, _ := newTaskServiceForTest()
	ctx := context.Background()

	courseRepo.On("FindBySemester", ctx, 3).Return([]*domain.CourseRef{
		{ID: "course-1", Name: "Algorithms 101", Code: "CS301", Semester: 3,
			Topics: []string{"Sorting", "Graph Traversal"}},
		{ID: "course-2", Name: "Database Systems", Code: "CS302", Semester: 3,
			Topics: []string{"SQL"}},
	}, nil)

	courses, err := svc.ListCourseCatalog(ctx, 3)
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, "Algorithms 101", courses[0].Name)
	assert.Equal(t, []string{"Sorting", "Graph Traversal"}, courses[0].Topics)
	assert.Equal(t, 3, courses[1].Semester)
}

func TestListCourseCatalogRequiresSemester(t *testing.T) {
	svc, _, courseRepo, _, _, _ := newTaskServiceForTest()

	_, err := svc.ListCourseCatalog(context.Background(), 0)
	require.Error(t, err)
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrInvalidInput, domainErr.Code)
	courseRepo.AssertNotCalled(t, "FindBySemester", mock.Anything, mock.Anything)
}

func TestEnrollCoursesSkipsExistingEnrollment(t *testing.T) {
	svc, studentRepo, courseRepo, taskRepo, progressRepo, _ := newTaskServiceForTest()
	ctx := context.Background()

	studentRepo.On("GetByID", ctx, "student-1").Return(testStudent(), nil)
	courseRepo.On("GetByID", ctx, "course-1").Return(&domain.CourseRef{ID: "course-1", Name: "Algorithms 101"}, nil)
	progressRepo.On("GetByStudentAndCourse", ctx, "student-1", "course-1").
		Return(domain.NewProgress("prog-1", "student-1", "course-1", "Algorithms 101", 2), nil)

	resp, err := svc.EnrollCourses(ctx, "student-1", []string{"course-1"})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.EnrolledCount)
	taskRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	progressRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}
