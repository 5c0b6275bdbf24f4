package models

// UserRole represents the two roles of the results system. The stored
// role values come straight from the Lecturers sheet.
type UserRole string

const (
	// RoleLecturer may view and submit scores for its own assigned rows.
	RoleLecturer UserRole = "User"
	// RoleAdmin has global read/write plus approval and notifications.
	RoleAdmin UserRole = "Admin"
)

// Lecturer is one row of the Lecturers sheet. The sheet is externally
// managed and read-only from this system's perspective.
type Lecturer struct {
	Username string   `json:"username"`
	Password string   `json:"-"`
	Role     UserRole `json:"role"`
	Email    string   `json:"email,omitempty"`
}

// LecturerSummary describes one lecturer on the notification console.
type LecturerSummary struct {
	Lecturer     string `json:"lecturer"`
	Email        string `json:"email,omitempty"`
	RecordCount  int    `json:"record_count"`
	PendingCount int    `json:"pending_count"`
}
