package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/taskrhq/taskr-backend/internal/authz"
	"github.com/taskrhq/taskr-backend/internal/dto"
	"github.com/taskrhq/taskr-backend/internal/services"
	"github.com/taskrhq/taskr-backend/internal/session"
	"github.com/taskrhq/taskr-backend/internal/validation"
)

const (
	MsgTaskPosted    = "New entry was successfully posted. Thanks."
	MsgTaskCompleted = "The task was marked as complete. Nice."
	MsgTaskDeleted   = "The task was deleted. Why not add another one?"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

func (h *TaskHandler) List(c *fiber.Ctx) error {
	actor, err := session.CurrentActor(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	resp, err := h.taskService.List(actor)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
	return c.JSON(resp)
}

func (h *TaskHandler) Create(c *fiber.Ctx) error {
	actor, err := session.CurrentActor(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if fields := validation.Struct(&req); fields != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Validation failed", Fields: fields,
		})
	}

	task, err := h.taskService.Create(actor, &req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.CreateTaskResponse{
		Message: MsgTaskPosted,
		Task: dto.TaskResponse{
			ID:         task.ID,
			Name:       task.Name,
			DueDate:    task.DueDate,
			Priority:   task.Priority,
			PostedDate: task.PostedDate,
			Status:     task.Status,
			OwnerID:    task.OwnerID,
			OwnerName:  task.Owner.Name,
			CanModify:  authz.CanModify(actor, task.OwnerID),
		},
	})
}

func (h *TaskHandler) Complete(c *fiber.Ctx) error {
	actor, err := session.CurrentActor(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid task id",
		})
	}

	if err := h.taskService.Complete(taskID, actor); err != nil {
		return taskMutationError(c, err)
	}

	return c.JSON(dto.MessageResponse{Message: MsgTaskCompleted})
}

func (h *TaskHandler) Delete(c *fiber.Ctx) error {
	actor, err := session.CurrentActor(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid task id",
		})
	}

	if err := h.taskService.Delete(taskID, actor); err != nil {
		return taskMutationError(c, err)
	}

	return c.JSON(dto.MessageResponse{Message: MsgTaskDeleted})
}

// taskMutationError keeps the NotFound/Forbidden distinction: an id that does
// not resolve is 404 regardless of who asked, a denial is 403 with its
// action-specific message.
func taskMutationError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, authz.ErrCannotUpdate), errors.Is(err, authz.ErrCannotDelete):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
}
