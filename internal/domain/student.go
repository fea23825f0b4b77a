package domain

// Study pace values for a student profile.
const (
	PaceSlow     = "Slow"
	PaceModerate = "Moderate"
	PaceFast     = "Fast"
)

// Learning style values for a student profile.
const (
	StyleVisual   = "Visual"
	StyleReading  = "Reading"
	StylePractice = "Practice"
)

// StudentProfile describes a student as maintained by the student store.
// The orchestration engine only ever reads it; interests are ordered with
// the primary interest first.
type StudentProfile struct {
	ID              string
	RollNumber      string
	Name            string
	UniName         string
	CurrentSemester int
	Interests       []string
	WeakSubjects    []string
	StudyPace       string
	LearningStyle   string
}

// CourseRef is a read-only reference to a catalog course. Topics are ordered
// as authored; enrollment creates one task per topic in this order.
type CourseRef struct {
	ID       string
	Name     string
	Code     string
	Semester int
	Topics   []string
}
