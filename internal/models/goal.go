package models

// GoalStatus represents where a goal is in its lifecycle
type GoalStatus string

const (
	GoalStatusInProgress GoalStatus = "in_progress"
	GoalStatusCompleted  GoalStatus = "completed"
)

// DefaultGoalPriority is the priority of a goal created without one.
const DefaultGoalPriority = 1

// Goal is a savings or debt-payoff target. Current never exceeds Target and
// Completed is terminal. Priority 1 is the most urgent.
type Goal struct {
	Base
	Name        string     `gorm:"not null" json:"name"`
	Description string     `gorm:"not null" json:"description,omitempty"`
	Priority    int        `gorm:"not null;default:1" json:"priority"`
	Target      int64      `gorm:"type:bigint;not null" json:"target"`
	Current     int64      `gorm:"type:bigint;not null" json:"current"`
	Deadline    *Date      `json:"deadline,omitempty"`
	Status      GoalStatus `gorm:"not null" json:"status"`
}

// DeriveStatus computes the status implied by the amounts.
func (g *Goal) DeriveStatus() GoalStatus {
	if g.Target > 0 && g.Current >= g.Target {
		return GoalStatusCompleted
	}
	return GoalStatusInProgress
}

// IsCompleted reports whether the goal reached its target.
func (g *Goal) IsCompleted() bool {
	return g.Status == GoalStatusCompleted
}

// Progress returns Current/Target in [0, 1].
func (g *Goal) Progress() float64 {
	if g.Target <= 0 || g.Current <= 0 {
		return 0
	}
	if g.Current >= g.Target {
		return 1
	}
	return float64(g.Current) / float64(g.Target)
}
