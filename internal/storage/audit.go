package storage

import "pocketledger/internal/models"

// CreateAuditLog appends one audit entry.
func (s *Store) CreateAuditLog(entry *models.AuditLog) error {
	if err := s.db.Create(entry).Error; err != nil {
		return storageError("create audit log", err)
	}
	return nil
}

// ListAuditLogs returns the most recent entries first.
func (s *Store) ListAuditLogs(limit int) ([]models.AuditLog, error) {
	var out []models.AuditLog
	if err := s.db.Order("id DESC").Limit(limit).Find(&out).Error; err != nil {
		return nil, storageError("list audit logs", err)
	}
	return out, nil
}
