// Package authz is the single decision point for task mutations. Both the
// listing path (which affordances to render) and the mutation handlers call
// the same rule, so what the client sees and what the server enforces cannot
// drift apart.
package authz

import (
	"errors"

	"github.com/google/uuid"
	"github.com/taskrhq/taskr-backend/internal/models"
)

// Action identifies what the actor is trying to do with a task.
type Action int

const (
	ActionComplete Action = iota
	ActionDelete
	// ActionViewModifyControls gates whether complete/delete affordances are
	// exposed to the client. Purely presentational; the mutation actions are
	// re-checked server-side regardless.
	ActionViewModifyControls
)

// Denial messages are user-facing and action-specific.
var (
	ErrCannotUpdate = errors.New("You can only update tasks that belong to you.")
	ErrCannotDelete = errors.New("You can only delete tasks that belong to you.")
)

// Actor is the authenticated user evaluated by the gate.
type Actor struct {
	ID   uuid.UUID
	Role models.Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// CanModify reports whether the actor may mutate a task with the given owner:
// admins may mutate any task, everyone else only their own.
func CanModify(actor Actor, ownerID uuid.UUID) bool {
	return actor.Role == models.RoleAdmin || actor.ID == ownerID
}

// Check evaluates the gate for a concrete action against a resolved task.
// It is a pure function of (actor, task, action); resolving the task id is
// the caller's job, so "not found" can never be conflated with a denial.
func Check(actor Actor, task *models.Task, action Action) error {
	if CanModify(actor, task.OwnerID) {
		return nil
	}
	if action == ActionDelete {
		return ErrCannotDelete
	}
	return ErrCannotUpdate
}
