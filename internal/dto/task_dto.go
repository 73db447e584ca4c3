package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/taskrhq/taskr-backend/internal/models"
)

type CreateTaskRequest struct {
	Name     string `json:"name" validate:"required"`
	DueDate  string `json:"due_date" validate:"required,datetime=2006-01-02"`
	Priority int    `json:"priority" validate:"required,min=1,max=10"`
	Status   string `json:"status" validate:"omitempty,oneof=open complete"`
}

type TaskResponse struct {
	ID         uuid.UUID     `json:"id"`
	Name       string        `json:"name"`
	DueDate    time.Time     `json:"due_date"`
	Priority   int           `json:"priority"`
	PostedDate time.Time     `json:"posted_date"`
	Status     models.Status `json:"status"`
	OwnerID    uuid.UUID     `json:"owner_id"`
	OwnerName  string        `json:"owner_name"`
	// CanModify mirrors the server-side ownership rule so clients know
	// whether to render complete/delete controls.
	CanModify bool `json:"can_modify"`
}

type TaskListResponse struct {
	OpenTasks      []TaskResponse `json:"open_tasks"`
	CompletedTasks []TaskResponse `json:"completed_tasks"`
}

type CreateTaskResponse struct {
	Message string       `json:"message"`
	Task    TaskResponse `json:"task"`
}

type AdminUserResponse struct {
	ID        uuid.UUID   `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
	OpenTasks int64       `json:"open_tasks"`
	CreatedAt time.Time   `json:"created_at"`
}
