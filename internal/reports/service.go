package reports

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/rahulpatwa/community-events-backend/internal/event"
)

var (
	ErrEventNotFound = errors.New("event not found")
	ErrNotOrganizer  = errors.New("caller is not an organizer of this event")
)

type Service interface {
	ExportEventReport(ctx context.Context, eventID, callerID uint, reportType, format string) ([]byte, string, string, error)
}

type service struct {
	repo     Repository
	eventSvc *event.Service
	exporter ReportExporter
}

func NewService(repo Repository, eventSvc *event.Service, exporter ReportExporter) Service {
	return &service{repo: repo, eventSvc: eventSvc, exporter: exporter}
}

// ExportEventReport builds and renders one report for an event.
// Organizer-only.
func (s *service) ExportEventReport(ctx context.Context, eventID, callerID uint, reportType, format string) ([]byte, string, string, error) {
	ev, err := s.eventSvc.GetEventByID(eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", "", ErrEventNotFound
		}
		return nil, "", "", err
	}

	allowed, err := s.eventSvc.IsOrganizer(eventID, callerID)
	if err != nil {
		return nil, "", "", err
	}
	if !allowed {
		return nil, "", "", ErrNotOrganizer
	}

	data := ReportData{EventTitle: ev.Title}
	switch reportType {
	case ReportTypeAttendance:
		data.Attendance, err = s.repo.GetAttendanceRows(ctx, eventID)
	case ReportTypeFeedback:
		data.Feedback, err = s.repo.GetFeedbackRows(ctx, eventID)
	default:
		return nil, "", "", fmt.Errorf("unsupported report type: %s", reportType)
	}
	if err != nil {
		return nil, "", "", err
	}

	return s.exporter.Export(reportType, format, data)
}
