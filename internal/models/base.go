package models

import "time"

// Base contains common columns for tables keyed by a generated id.
// IDs are assigned by the database in increasing order and never reused.
type Base struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
