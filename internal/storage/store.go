// Package storage persists ledger entities and answers range queries over
// them. Every write that reads before it writes runs through Atomic, which
// serializes writers and wraps the work in one database transaction.
package storage

import (
	"errors"
	"sync"

	"gorm.io/gorm"

	apperrors "pocketledger/internal/errors"
	"pocketledger/internal/logger"
)

// Store is the storage handle threaded through every service.
type Store struct {
	db   *gorm.DB
	mu   *sync.Mutex
	inTx bool
}

// New wraps an open database.
func New(db *gorm.DB) *Store {
	return &Store{db: db, mu: &sync.Mutex{}}
}

// DB returns the underlying GORM handle.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Atomic runs fn in a single database transaction while holding the write
// lock. fn must only use the Store it is given. Nested calls join the outer
// transaction.
func (s *Store) Atomic(fn func(tx *Store) error) error {
	if s.inTx {
		return fn(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx, mu: s.mu, inTx: true})
	})
	if err == nil {
		return nil
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return storageError("atomic", err)
}

// storageError maps a driver failure to STORAGE_ERROR, keeping the cause.
func storageError(op string, err error) error {
	logger.Named("storage").Errorw("storage operation failed", "op", op, "error", err)
	return apperrors.Wrap(apperrors.ErrStorage, err)
}

// lookupError maps a failed single-row read to notFound or STORAGE_ERROR.
func lookupError(op string, err error, notFound *apperrors.AppError) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return storageError(op, err)
}

func (s *Store) isPostgres() bool {
	return s.db.Dialector.Name() == "postgres"
}
