package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// ReportExporter renders a report in the requested format. Returns the
// file bytes, a filename and a content type.
type ReportExporter interface {
	Export(reportType, format string, data ReportData) ([]byte, string, string, error)
}

type reportExporter struct{}

func NewReportExporter() ReportExporter {
	return &reportExporter{}
}

func (e *reportExporter) Export(reportType, format string, data ReportData) ([]byte, string, string, error) {
	timestamp := time.Now().Format("20060102_150405")

	switch reportType {
	case ReportTypeAttendance:
		return e.exportAttendanceByFormat(format, timestamp, data)
	case ReportTypeFeedback:
		return e.exportFeedbackByFormat(format, timestamp, data)
	default:
		return nil, "", "", fmt.Errorf("unsupported report type: %s", reportType)
	}
}

//// ============================
/// ATTENDANCE ROSTER EXPORTS
//// ============================

func (e *reportExporter) exportAttendanceByFormat(format, timestamp string, data ReportData) ([]byte, string, string, error) {
	switch format {
	case FormatCSV:
		out, err := e.exportAttendanceCSV(data.Attendance)
		if err != nil {
			return nil, "", "", err
		}
		return out, fmt.Sprintf("attendance_report_%s.csv", timestamp), "text/csv", nil

	case FormatExcel:
		out, err := e.exportAttendanceExcel(data.Attendance)
		if err != nil {
			return nil, "", "", err
		}
		return out, fmt.Sprintf("attendance_report_%s.xlsx", timestamp),
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil

	case FormatPDF:
		out, err := e.exportAttendancePDF(data.EventTitle, data.Attendance)
		if err != nil {
			return nil, "", "", err
		}
		return out, fmt.Sprintf("attendance_report_%s.pdf", timestamp), "application/pdf", nil

	default:
		return nil, "", "", fmt.Errorf("unsupported format for attendance report: %s", format)
	}
}

func (e *reportExporter) exportAttendanceCSV(rows []AttendanceReportRow) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"RSVP ID", "User ID", "Full Name", "Email", "Status", "Queue Position", "Checked In At", "RSVP Created At"}
	if err := writer.Write(headers); err != nil {
		return nil, err
	}

	for _, r := range rows {
		queuePos := ""
		if r.QueuePosition != nil {
			queuePos = strconv.Itoa(*r.QueuePosition)
		}
		checkedIn := ""
		if r.CheckedInAt != nil {
			checkedIn = r.CheckedInAt.Format("2006-01-02 15:04:05")
		}

		record := []string{
			strconv.FormatUint(uint64(r.RSVPID), 10),
			strconv.FormatUint(uint64(r.UserID), 10),
			r.FullName,
			r.Email,
			r.Status,
			queuePos,
			checkedIn,
			r.RSVPCreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (e *reportExporter) exportAttendanceExcel(rows []AttendanceReportRow) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "Attendance"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headers := []string{"RSVP ID", "User ID", "Full Name", "Email", "Status", "Queue Position", "Checked In At", "RSVP Created At"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		f.SetCellValue(sheet, cell, h)
	}

	for rIdx, r := range rows {
		row := rIdx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), r.RSVPID)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), r.UserID)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), r.FullName)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), r.Email)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), r.Status)
		if r.QueuePosition != nil {
			f.SetCellValue(sheet, fmt.Sprintf("F%d", row), *r.QueuePosition)
		}
		if r.CheckedInAt != nil {
			f.SetCellValue(sheet, fmt.Sprintf("G%d", row), r.CheckedInAt.Format("2006-01-02 15:04:05"))
		}
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), r.RSVPCreatedAt.Format("2006-01-02 15:04:05"))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *reportExporter) exportAttendancePDF(eventTitle string, rows []AttendanceReportRow) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 10, fmt.Sprintf("Attendance Report - %s", eventTitle))
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 10)
	headers := []string{"User ID", "Full Name", "Email", "Status", "Queue Pos", "Checked In At"}
	widths := []float64{20, 60, 70, 35, 25, 45}

	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, r := range rows {
		queuePos := ""
		if r.QueuePosition != nil {
			queuePos = strconv.Itoa(*r.QueuePosition)
		}
		checkedIn := ""
		if r.CheckedInAt != nil {
			checkedIn = r.CheckedInAt.Format("2006-01-02 15:04")
		}

		pdf.CellFormat(widths[0], 6, fmt.Sprint(r.UserID), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[1], 6, r.FullName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 6, r.Email, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 6, r.Status, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[4], 6, queuePos, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[5], 6, checkedIn, "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

//// ============================
/// FEEDBACK EXPORTS
//// ============================

func (e *reportExporter) exportFeedbackByFormat(format, timestamp string, data ReportData) ([]byte, string, string, error) {
	switch format {
	case FormatCSV:
		out, err := e.exportFeedbackCSV(data.Feedback)
		if err != nil {
			return nil, "", "", err
		}
		return out, fmt.Sprintf("feedback_report_%s.csv", timestamp), "text/csv", nil

	case FormatExcel:
		out, err := e.exportFeedbackExcel(data.Feedback)
		if err != nil {
			return nil, "", "", err
		}
		return out, fmt.Sprintf("feedback_report_%s.xlsx", timestamp),
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil

	case FormatPDF:
		out, err := e.exportFeedbackPDF(data.EventTitle, data.Feedback)
		if err != nil {
			return nil, "", "", err
		}
		return out, fmt.Sprintf("feedback_report_%s.pdf", timestamp), "application/pdf", nil

	default:
		return nil, "", "", fmt.Errorf("unsupported format for feedback report: %s", format)
	}
}

func (e *reportExporter) exportFeedbackCSV(rows []FeedbackReportRow) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"User ID", "Full Name", "Email", "Rating", "Comment", "Submitted At"}
	if err := writer.Write(headers); err != nil {
		return nil, err
	}

	for _, r := range rows {
		record := []string{
			strconv.FormatUint(uint64(r.UserID), 10),
			r.FullName,
			r.Email,
			strconv.Itoa(r.Rating),
			r.Comment,
			r.SubmittedAt.Format("2006-01-02 15:04:05"),
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (e *reportExporter) exportFeedbackExcel(rows []FeedbackReportRow) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "Feedback"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headers := []string{"User ID", "Full Name", "Email", "Rating", "Comment", "Submitted At"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		f.SetCellValue(sheet, cell, h)
	}

	for rIdx, r := range rows {
		row := rIdx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), r.UserID)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), r.FullName)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), r.Email)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), r.Rating)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), r.Comment)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), r.SubmittedAt.Format("2006-01-02 15:04:05"))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *reportExporter) exportFeedbackPDF(eventTitle string, rows []FeedbackReportRow) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 10, fmt.Sprintf("Feedback Report - %s", eventTitle))
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 10)
	headers := []string{"User ID", "Full Name", "Rating", "Comment", "Submitted At"}
	widths := []float64{20, 50, 20, 60, 40}

	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, r := range rows {
		pdf.CellFormat(widths[0], 6, fmt.Sprint(r.UserID), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[1], 6, r.FullName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 6, strconv.Itoa(r.Rating), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[3], 6, r.Comment, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[4], 6, r.SubmittedAt.Format("2006-01-02 15:04"), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
