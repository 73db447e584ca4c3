package services

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/taskrhq/taskr-backend/internal/authz"
	"github.com/taskrhq/taskr-backend/internal/dto"
	"github.com/taskrhq/taskr-backend/internal/models"
	"gorm.io/gorm"
)

var ErrTaskNotFound = errors.New("task not found")

type TaskService struct {
	db *gorm.DB
}

func NewTaskService(db *gorm.DB) *TaskService {
	return &TaskService{db: db}
}

// Create stamps the task with the acting user as owner. The actor must still
// resolve to an existing user; a stale token does not get to create orphaned
// tasks.
func (s *TaskService) Create(actor authz.Actor, req *dto.CreateTaskRequest) (*models.Task, error) {
	var owner models.User
	if err := s.db.First(&owner, "id = ?", actor.ID).Error; err != nil {
		return nil, fmt.Errorf("owner lookup failed: %w", err)
	}

	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		return nil, fmt.Errorf("invalid due date: %w", err)
	}

	status := models.Status(req.Status)
	if req.Status == "" {
		status = models.StatusOpen
	}
	if !status.Valid() {
		return nil, fmt.Errorf("invalid status %q", req.Status)
	}
	if req.Priority < models.PriorityMin || req.Priority > models.PriorityMax {
		return nil, fmt.Errorf("priority %d out of range", req.Priority)
	}

	task := models.Task{
		ID:         uuid.New(),
		Name:       req.Name,
		DueDate:    dueDate,
		Priority:   req.Priority,
		PostedDate: time.Now(),
		Status:     status,
		OwnerID:    owner.ID,
	}

	if err := s.db.Create(&task).Error; err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	task.Owner = owner
	return &task, nil
}

// List returns every user's tasks, split into open and completed groups and
// ordered by priority ascending. Each entry carries the acting user's
// modify permission so clients render exactly what the server would permit.
func (s *TaskService) List(actor authz.Actor) (*dto.TaskListResponse, error) {
	var tasks []models.Task
	if err := s.db.Preload("Owner").Order("priority asc").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	resp := &dto.TaskListResponse{
		OpenTasks:      []dto.TaskResponse{},
		CompletedTasks: []dto.TaskResponse{},
	}
	for i := range tasks {
		t := toTaskResponse(&tasks[i], actor)
		if tasks[i].Status == models.StatusComplete {
			resp.CompletedTasks = append(resp.CompletedTasks, t)
		} else {
			resp.OpenTasks = append(resp.OpenTasks, t)
		}
	}
	return resp, nil
}

// Complete resolves the task, runs the authorization gate, and marks it
// complete, all inside one transaction so a concurrent delete cannot slip
// between the check and the mutation.
func (s *TaskService) Complete(taskID uuid.UUID, actor authz.Actor) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.First(&task, "id = ?", taskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return fmt.Errorf("failed to resolve task: %w", err)
		}

		if err := authz.Check(actor, &task, authz.ActionComplete); err != nil {
			slog.Warn("task mutation denied",
				"action", "complete", "task_id", taskID.String(), "user_id", actor.ID.String())
			return err
		}

		result := tx.Model(&models.Task{}).
			Where("id = ?", taskID).
			Update("status", models.StatusComplete)
		if result.Error != nil {
			return fmt.Errorf("failed to complete task: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrTaskNotFound
		}
		return nil
	})
}

// Delete follows the same resolve→authorize→mutate shape as Complete. When
// two deletes race on one id, the loser's guarded delete affects zero rows
// and reports NotFound.
func (s *TaskService) Delete(taskID uuid.UUID, actor authz.Actor) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.First(&task, "id = ?", taskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return fmt.Errorf("failed to resolve task: %w", err)
		}

		if err := authz.Check(actor, &task, authz.ActionDelete); err != nil {
			slog.Warn("task mutation denied",
				"action", "delete", "task_id", taskID.String(), "user_id", actor.ID.String())
			return err
		}

		result := tx.Delete(&models.Task{}, "id = ?", taskID)
		if result.Error != nil {
			return fmt.Errorf("failed to delete task: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrTaskNotFound
		}
		return nil
	})
}

func toTaskResponse(task *models.Task, actor authz.Actor) dto.TaskResponse {
	return dto.TaskResponse{
		ID:         task.ID,
		Name:       task.Name,
		DueDate:    task.DueDate,
		Priority:   task.Priority,
		PostedDate: task.PostedDate,
		Status:     task.Status,
		OwnerID:    task.OwnerID,
		OwnerName:  task.Owner.Name,
		CanModify:  authz.Check(actor, task, authz.ActionViewModifyControls) == nil,
	}
}
