// models/gorm_models.go
package models

import (
	"gorm.io/gorm"
)

// GormCommandLog is the persisted form of a command journal entry. State
// columns are nullable so an unplaced snapshot round-trips as-is.
type GormCommandLog struct {
	gorm.Model
	Command  string `gorm:"not null"`
	Outcome  string `gorm:"index;not null"`
	X        *int
	Y        *int
	Facing   *string
	IsPlaced bool
}

// TableName keeps the table name identical across both store implementations.
func (GormCommandLog) TableName() string {
	return "command_log"
}
