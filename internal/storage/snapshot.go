package storage

import (
	"fmt"

	"gorm.io/gorm"

	"pocketledger/internal/models"
)

// Snapshot is the full ledger state: the four persisted relations.
type Snapshot struct {
	Categories   []models.Category    `json:"categories"`
	Transactions []models.Transaction `json:"transactions"`
	Budgets      []models.Budget      `json:"budgets"`
	Goals        []models.Goal        `json:"goals"`
}

// Snapshot reads every relation ordered by key.
func (s *Store) Snapshot() (*Snapshot, error) {
	snap := &Snapshot{
		Categories:   []models.Category{},
		Transactions: []models.Transaction{},
		Budgets:      []models.Budget{},
		Goals:        []models.Goal{},
	}
	if err := s.db.Order("name").Find(&snap.Categories).Error; err != nil {
		return nil, storageError("snapshot categories", err)
	}
	if err := s.db.Order("id").Find(&snap.Transactions).Error; err != nil {
		return nil, storageError("snapshot transactions", err)
	}
	if err := s.db.Order("id").Find(&snap.Budgets).Error; err != nil {
		return nil, storageError("snapshot budgets", err)
	}
	if err := s.db.Order("id").Find(&snap.Goals).Error; err != nil {
		return nil, storageError("snapshot goals", err)
	}
	return snap, nil
}

// Restore replaces the whole ledger with snap in one transaction, keeping
// the ids it carries. On any failure the previous state is left untouched.
func (s *Store) Restore(snap *Snapshot) error {
	return s.Atomic(func(tx *Store) error {
		all := tx.db.Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, model := range []any{&models.Transaction{}, &models.Budget{}, &models.Goal{}, &models.Category{}} {
			if err := all.Delete(model).Error; err != nil {
				return storageError("restore clear", err)
			}
		}

		if len(snap.Categories) > 0 {
			if err := tx.db.Create(&snap.Categories).Error; err != nil {
				return storageError("restore categories", err)
			}
		}
		if len(snap.Transactions) > 0 {
			if err := tx.db.CreateInBatches(&snap.Transactions, 200).Error; err != nil {
				return storageError("restore transactions", err)
			}
		}
		if len(snap.Budgets) > 0 {
			if err := tx.db.Create(&snap.Budgets).Error; err != nil {
				return storageError("restore budgets", err)
			}
		}
		if len(snap.Goals) > 0 {
			if err := tx.db.Create(&snap.Goals).Error; err != nil {
				return storageError("restore goals", err)
			}
		}

		if tx.isPostgres() {
			return tx.resetSequences("transactions", "budgets", "goals", "audit_logs")
		}
		return nil
	})
}

// resetSequences moves postgres id sequences past the restored rows.
// sqlite AUTOINCREMENT tracks explicit ids on its own.
func (s *Store) resetSequences(tables ...string) error {
	for _, table := range tables {
		stmt := fmt.Sprintf(
			"SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), COALESCE((SELECT MAX(id) FROM %[1]s), 0) + 1, false)",
			table)
		if err := s.db.Exec(stmt).Error; err != nil {
			return storageError("reset sequence "+table, err)
		}
	}
	return nil
}
