package service

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mehrbod2002/fxmobile/internal/models"
	"github.com/mehrbod2002/fxmobile/internal/sandbox/repository"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	defaultLogLimit = 50
	maxLogLimit     = 200
)

var auditActions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "fxmobile_sandbox_audit_actions_total",
	Help: "Audit trail entries recorded, by action.",
}, []string{"action"})

// redactedKeys never reach the audit trail in clear text.
var redactedKeys = []string{"password", "otp", "token", "secret"}

type LogService interface {
	LogAction(userID, action, description, ipAddress string, metadata map[string]interface{}) error
	GetAllLogs(page, limit int) ([]*models.LogEntry, error)
	GetLogsByUserID(userID string, page, limit int) ([]*models.LogEntry, error)
}

type logService struct {
	logRepo repository.LogRepository
	now     func() time.Time
}

func NewLogService(logRepo repository.LogRepository) LogService {
	return &logService{logRepo: logRepo, now: time.Now}
}

func (s *logService) LogAction(userID, action, description, ipAddress string, metadata map[string]interface{}) error {
	entry := &models.LogEntry{
		ID:          uuid.NewString(),
		UserID:      userID,
		Action:      action,
		Description: strings.TrimSpace(description),
		IPAddress:   ipAddress,
		Timestamp:   s.now().UTC(),
		Metadata:    redact(metadata),
	}
	if err := s.logRepo.SaveLog(entry); err != nil {
		return err
	}
	auditActions.WithLabelValues(action).Inc()
	return nil
}

func (s *logService) GetAllLogs(page, limit int) ([]*models.LogEntry, error) {
	page, limit = clampPage(page, limit)
	return s.logRepo.GetAllLogs(page, limit)
}

func (s *logService) GetLogsByUserID(userID string, page, limit int) ([]*models.LogEntry, error) {
	page, limit = clampPage(page, limit)
	return s.logRepo.GetLogsByUserID(userID, page, limit)
}

func clampPage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	switch {
	case limit <= 0:
		limit = defaultLogLimit
	case limit > maxLogLimit:
		limit = maxLogLimit
	}
	return page, limit
}

func redact(metadata map[string]interface{}) map[string]interface{} {
	if len(metadata) == 0 {
		return nil
	}
	out := make(map[string]interface{}, len(metadata))
	for k, v := range metadata {
		out[k] = v
		lower := strings.ToLower(k)
		for _, key := range redactedKeys {
			if strings.Contains(lower, key) {
				out[k] = "[redacted]"
				break
			}
		}
	}
	return out
}
