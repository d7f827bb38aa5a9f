package storage

import (
	"time"

	apperrors "pocketledger/internal/errors"
	"pocketledger/internal/models"
)

// CreateGoal inserts g and sets its id.
func (s *Store) CreateGoal(g *models.Goal) error {
	if err := s.db.Create(g).Error; err != nil {
		return storageError("create goal", err)
	}
	return nil
}

// GetGoal loads one goal by id.
func (s *Store) GetGoal(id uint) (*models.Goal, error) {
	var g models.Goal
	if err := s.db.First(&g, id).Error; err != nil {
		return nil, lookupError("get goal", err, apperrors.ErrGoalNotFound)
	}
	return &g, nil
}

// ListGoals returns goals by priority, then nearest deadline with goals
// without one last, then id.
func (s *Store) ListGoals() ([]models.Goal, error) {
	var out []models.Goal
	err := s.db.Model(&models.Goal{}).
		Order("priority").
		Order("CASE WHEN deadline IS NULL THEN 1 ELSE 0 END").
		Order("deadline").
		Order("id").
		Find(&out).Error
	if err != nil {
		return nil, storageError("list goals", err)
	}
	return out, nil
}

// UpdateGoal overwrites every mutable column of an existing goal.
func (s *Store) UpdateGoal(g *models.Goal) error {
	g.UpdatedAt = time.Now()
	res := s.db.Model(&models.Goal{}).
		Where("id = ?", g.ID).
		Select("name", "description", "priority", "target", "current", "deadline", "status", "updated_at").
		Updates(g)
	if res.Error != nil {
		return storageError("update goal", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrGoalNotFound
	}
	return nil
}

// DeleteGoal removes one goal.
func (s *Store) DeleteGoal(id uint) error {
	res := s.db.Delete(&models.Goal{}, id)
	if res.Error != nil {
		return storageError("delete goal", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrGoalNotFound
	}
	return nil
}
