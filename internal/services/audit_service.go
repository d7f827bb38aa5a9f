package services

import (
	"encoding/json"

	"pocketledger/internal/logger"
	"pocketledger/internal/models"
	"pocketledger/internal/storage"
)

// auditService handles audit log recording.
type auditService struct {
	store *storage.Store
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(store *storage.Store) AuditServicer {
	return &auditService{store: store}
}

// Log records a ledger mutation. Failures are logged and never returned;
// the audit trail is the one best-effort path in the engine.
func (s *auditService) Log(action, resourceType, resourceID string, changes map[string]any) {
	var changesJSON string
	if changes != nil {
		data, err := json.Marshal(changes)
		if err != nil {
			logger.Get().Errorw("failed to marshal audit log changes", "error", err, "action", action)
			changesJSON = "{}"
		} else {
			changesJSON = string(data)
		}
	}

	entry := &models.AuditLog{
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Changes:      changesJSON,
	}

	err := s.store.Atomic(func(tx *storage.Store) error {
		return tx.CreateAuditLog(entry)
	})
	if err != nil {
		logger.Get().Errorw("failed to create audit log entry",
			"error", err,
			"action", action,
			"resource_type", resourceType,
			"resource_id", resourceID,
		)
	}
}

// Recent returns up to limit entries, newest first.
func (s *auditService) Recent(limit int) ([]models.AuditLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.store.ListAuditLogs(limit)
}
