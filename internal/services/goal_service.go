package services

import (
	"fmt"
	"strings"

	apperrors "pocketledger/internal/errors"
	"pocketledger/internal/models"
	"pocketledger/internal/storage"
)

// goalService tracks savings goals. A goal moves from in progress to
// completed once its current amount reaches the target, and never back.
type goalService struct {
	store *storage.Store
}

// NewGoalService creates a new GoalServicer.
func NewGoalService(store *storage.Store) GoalServicer {
	return &goalService{store: store}
}

// CreateGoal validates and stores a goal. A starting amount at the target
// creates it completed.
func (s *goalService) CreateGoal(input GoalInput) (*models.Goal, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.Invalid("name", input.Name, "goal name is required")
	}
	if input.Target <= 0 {
		return nil, apperrors.Invalid("target", input.Target, "target must be positive")
	}
	if input.Current < 0 {
		return nil, apperrors.Invalid("current", input.Current, "current must not be negative")
	}
	if input.Current > input.Target {
		return nil, apperrors.Invalid("current", input.Current, "current must not exceed target")
	}
	if input.Priority == 0 {
		input.Priority = models.DefaultGoalPriority
	}
	if input.Priority < 0 {
		return nil, apperrors.Invalid("priority", input.Priority, "priority must be at least 1")
	}
	description := strings.TrimSpace(input.Description)
	if len(description) > MaxNoteLength {
		return nil, apperrors.Invalid("description", len(description), fmt.Sprintf("description must be at most %d characters", MaxNoteLength))
	}
	if input.Deadline != nil && input.Deadline.IsZero() {
		input.Deadline = nil
	}

	goal := &models.Goal{
		Name:        name,
		Description: description,
		Priority:    input.Priority,
		Target:      input.Target,
		Current:     input.Current,
		Deadline:    input.Deadline,
	}
	goal.Status = goal.DeriveStatus()

	err := s.store.Atomic(func(tx *storage.Store) error {
		return tx.CreateGoal(goal)
	})
	if err != nil {
		return nil, err
	}
	return goal, nil
}

// GetGoal loads one goal.
func (s *goalService) GetGoal(id uint) (*models.Goal, error) {
	return s.store.GetGoal(id)
}

// ListGoals returns goals by priority, then nearest deadline with those
// without one last.
func (s *goalService) ListGoals() ([]models.Goal, error) {
	return s.store.ListGoals()
}

// DeleteGoal removes a goal.
func (s *goalService) DeleteGoal(id uint) error {
	return s.store.Atomic(func(tx *storage.Store) error {
		return tx.DeleteGoal(id)
	})
}

// Contribute adds amount to a goal, clamping at the target. Contributing to
// a completed goal fails with GOAL_COMPLETED and changes nothing.
func (s *goalService) Contribute(id uint, amount int64) (*models.Goal, error) {
	if amount <= 0 {
		return nil, apperrors.Invalid("amount", amount, "contribution must be positive")
	}

	var goal *models.Goal
	err := s.store.Atomic(func(tx *storage.Store) error {
		var err error
		goal, err = tx.GetGoal(id)
		if err != nil {
			return err
		}
		if goal.IsCompleted() {
			return apperrors.WithField(apperrors.ErrGoalCompleted, "id", id,
				fmt.Sprintf("goal %q is already completed", goal.Name))
		}

		if amount >= goal.Target-goal.Current {
			goal.Current = goal.Target
		} else {
			goal.Current += amount
		}
		goal.Status = goal.DeriveStatus()
		return tx.UpdateGoal(goal)
	})
	if err != nil {
		return nil, err
	}
	return goal, nil
}

// Progress returns current/target in [0, 1].
func (s *goalService) Progress(goal *models.Goal) float64 {
	return goal.Progress()
}
