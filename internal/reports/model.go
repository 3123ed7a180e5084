package reports

import (
	"time"
)

// Report types
const (
	ReportTypeAttendance = "attendance"
	ReportTypeFeedback   = "feedback"
)

// Export formats
const (
	FormatCSV   = "csv"
	FormatExcel = "excel"
	FormatPDF   = "pdf"
)

// AttendanceReportRow is one participant line in the attendance roster.
type AttendanceReportRow struct {
	RSVPID        uint       `json:"rsvp_id"`
	UserID        uint       `json:"user_id"`
	FullName      string     `json:"full_name"`
	Email         string     `json:"email"`
	Status        string     `json:"status"`
	QueuePosition *int       `json:"queue_position,omitempty"`
	CheckedInAt   *time.Time `json:"checked_in_at,omitempty"`
	RSVPCreatedAt time.Time  `json:"rsvp_created_at"`
}

// FeedbackReportRow is one feedback line with the submitter's identity.
type FeedbackReportRow struct {
	UserID      uint      `json:"user_id"`
	FullName    string    `json:"full_name"`
	Email       string    `json:"email"`
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// ReportData carries whichever dataset the requested report needs.
type ReportData struct {
	EventTitle string
	Attendance []AttendanceReportRow
	Feedback   []FeedbackReportRow
}
