package models

// ScoreStatus is the lifecycle state of a score record.
type ScoreStatus string

const (
	// StatusEditable marks a freshly seeded or admin-unlocked row.
	StatusEditable ScoreStatus = "Editable"
	// StatusPending marks a row a lecturer has submitted for review.
	StatusPending ScoreStatus = "Pending"
	// StatusApproved marks a row locked by explicit admin action.
	StatusApproved ScoreStatus = "Approved"
)

// Locked reports whether lecturer submissions are refused for this state.
func (s ScoreStatus) Locked() bool {
	return s == StatusApproved
}

// Score component bounds. CA and exam scores carry one decimal digit and
// must sum to at most MaxTotal.
const (
	MaxCA    = 40.0
	MaxExam  = 60.0
	MaxTotal = 100.0
)

// ScoreRecord is one (student, course) row of the scores sheet. Rows are
// seeded externally; this system only updates CA, exam score and status.
type ScoreRecord struct {
	IndexNumber  string      `json:"index_number"`
	StudentName  string      `json:"student_name"`
	Course       string      `json:"course"`
	CourseTitle  string      `json:"course_title"`
	AcademicYear string      `json:"academic_year"`
	Lecturer     string      `json:"lecturer"`
	CA           float64     `json:"ca"`
	Score        float64     `json:"score"`
	Status       ScoreStatus `json:"status"`
}
