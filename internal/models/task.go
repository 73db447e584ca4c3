package models

import (
	"time"

	"github.com/google/uuid"
)

// Status is a closed enumeration for task state.
type Status string

const (
	StatusOpen     Status = "open"
	StatusComplete Status = "complete"
)

func (s Status) Valid() bool {
	return s == StatusOpen || s == StatusComplete
}

// Task priority bounds; lower means more urgent.
const (
	PriorityMin = 1
	PriorityMax = 10
)

// Task belongs to exactly one user. OwnerID is stamped from the acting
// session at creation and never reassigned.
type Task struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name       string    `gorm:"not null;size:255" json:"name"`
	DueDate    time.Time `gorm:"not null" json:"due_date"`
	Priority   int       `gorm:"not null;index" json:"priority"`
	PostedDate time.Time `gorm:"not null" json:"posted_date"`
	Status     Status    `gorm:"size:20;not null;default:'open'" json:"status"`
	OwnerID    uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Owner      User      `gorm:"foreignKey:OwnerID" json:"-"`
}
