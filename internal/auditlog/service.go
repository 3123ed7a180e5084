package auditlog

import (
	"context"
	"encoding/json"
	"math"

	"gorm.io/gorm"
)

type Service interface {
	LogAction(ctx context.Context, actorID, targetID, eventID *uint, action string, details map[string]interface{}, ip string, status string) error
	LogActionTx(tx *gorm.DB, actorID, targetID, eventID *uint, action string, details map[string]interface{}, ip string) error
	GetAuditLogs(ctx context.Context, filter AuditLogFilter) (*PaginatedAuditLogs, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func buildEntry(actorID, targetID, eventID *uint, action string, details map[string]interface{}, ip, status string) *AuditLog {
	if details == nil {
		details = make(map[string]interface{})
	}
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		detailsJSON = []byte("{}")
	}

	return &AuditLog{
		UserID:       actorID,
		TargetUserID: targetID,
		EventID:      eventID,
		Action:       action,
		Details:      detailsJSON,
		IPAddress:    ip,
		Status:       status,
	}
}

// LogAction creates a new audit log entry (best-effort, own transaction).
func (s *service) LogAction(ctx context.Context, actorID, targetID, eventID *uint, action string, details map[string]interface{}, ip string, status string) error {
	return s.repo.Create(ctx, buildEntry(actorID, targetID, eventID, action, details, ip, status))
}

// LogActionTx writes a success entry inside the caller's transaction.
// The RSVP state machine uses this so a transition and its audit entry
// commit atomically.
func (s *service) LogActionTx(tx *gorm.DB, actorID, targetID, eventID *uint, action string, details map[string]interface{}, ip string) error {
	return s.repo.CreateTx(tx, buildEntry(actorID, targetID, eventID, action, details, ip, "success"))
}

// GetAuditLogs retrieves paginated audit logs with filters
func (s *service) GetAuditLogs(ctx context.Context, filter AuditLogFilter) (*PaginatedAuditLogs, error) {
	logs, total, err := s.repo.GetByFilter(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	if filter.Limit == 0 {
		totalPages = 0
	}

	return &PaginatedAuditLogs{
		Data:       logs,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}
