package reports

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleData() ReportData {
	pos := 2
	checkedIn := time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return ReportData{
		EventTitle: "Spring Hackathon",
		Attendance: []AttendanceReportRow{
			{RSVPID: 1, UserID: 10, FullName: "Asha Rao", Email: "asha@example.com", Status: "CHECKED_IN", CheckedInAt: &checkedIn, RSVPCreatedAt: created},
			{RSVPID: 2, UserID: 11, FullName: "Ben Oduya", Email: "ben@example.com", Status: "WAITLISTED", QueuePosition: &pos, RSVPCreatedAt: created},
		},
		Feedback: []FeedbackReportRow{
			{UserID: 10, FullName: "Asha Rao", Email: "asha@example.com", Rating: 5, Comment: "Great venue", SubmittedAt: created},
		},
	}
}

func TestExportAttendanceCSV(t *testing.T) {
	out, filename, contentType, err := NewReportExporter().Export(ReportTypeAttendance, FormatCSV, sampleData())
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)
	assert.True(t, strings.HasPrefix(filename, "attendance_report_"))
	assert.True(t, strings.HasSuffix(filename, ".csv"))

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "Status", records[0][4])
	assert.Equal(t, "Asha Rao", records[1][2])
	assert.Equal(t, "CHECKED_IN", records[1][4])
	// waitlisted rows show queue position, no check-in time
	assert.Equal(t, "2", records[2][5])
	assert.Equal(t, "", records[2][6])
}

func TestExportFeedbackExcel(t *testing.T) {
	out, filename, contentType, err := NewReportExporter().Export(ReportTypeFeedback, FormatExcel, sampleData())
	require.NoError(t, err)
	assert.Contains(t, contentType, "spreadsheetml")
	assert.True(t, strings.HasSuffix(filename, ".xlsx"))

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Feedback")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Rating", rows[0][3])
	assert.Equal(t, "5", rows[1][3])
	assert.Equal(t, "Great venue", rows[1][4])
}

func TestExportAttendancePDF(t *testing.T) {
	out, filename, contentType, err := NewReportExporter().Export(ReportTypeAttendance, FormatPDF, sampleData())
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", contentType)
	assert.True(t, strings.HasSuffix(filename, ".pdf"))
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestExportRejectsUnknownTypeAndFormat(t *testing.T) {
	exp := NewReportExporter()

	_, _, _, err := exp.Export("roster", FormatCSV, sampleData())
	assert.ErrorContains(t, err, "unsupported report type")

	_, _, _, err = exp.Export(ReportTypeAttendance, "xml", sampleData())
	assert.ErrorContains(t, err, "unsupported format")
}
