package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/profitpilotai/controlplane/internal/models"
	"github.com/profitpilotai/controlplane/internal/repository"
)

type AuditService interface {
	Record(loginID, action, detail, ip string, metadata map[string]interface{}) error
	List(limit int64) ([]*models.AuditEntry, error)
	ListByLogin(loginID string, limit int64) ([]*models.AuditEntry, error)
}

type auditService struct {
	repo repository.AuditRepository
	log  *zap.Logger
}

func NewAuditService(repo repository.AuditRepository, log *zap.Logger) AuditService {
	return &auditService{repo: repo, log: log}
}

func (s *auditService) Record(loginID, action, detail, ip string, metadata map[string]interface{}) error {
	entry := &models.AuditEntry{
		LoginID:   loginID,
		Action:    action,
		Detail:    detail,
		IP:        ip,
		Metadata:  metadata,
		Timestamp: time.Now(),
	}
	if err := s.repo.Insert(entry); err != nil {
		s.log.Warn("failed to record audit entry",
			zap.String("action", action),
			zap.Error(err))
		return err
	}
	return nil
}

func (s *auditService) List(limit int64) ([]*models.AuditEntry, error) {
	return s.repo.List(limit)
}

func (s *auditService) ListByLogin(loginID string, limit int64) ([]*models.AuditEntry, error) {
	return s.repo.ListByLogin(loginID, limit)
}
