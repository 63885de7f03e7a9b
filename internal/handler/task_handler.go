package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"todoapp/internal/apperr"
	"todoapp/internal/service/todo"
	"todoapp/pkg/metrics"
)

type TaskHandler struct {
	todoService *todo.Service
	logger      *zap.Logger
}

func NewTaskHandler(todoService *todo.Service, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{todoService: todoService, logger: logger}
}

const taskNotFoundMsg = "Task not found or not authorized."

func taskIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("task_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": taskNotFoundMsg})
		return 0, false
	}
	return id, true
}

// GetTasksForList handles GET /get-tasks-for-list/:list_id.
func (h *TaskHandler) GetTasksForList(c *gin.Context) {
	userID, _ := currentUserID(c)

	listID, err := strconv.Atoi(c.Param("list_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "List not found or not authorized."})
		return
	}

	l, tasks, err := h.todoService.TasksForList(c.Request.Context(), userID, listID)
	if errors.Is(err, apperr.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "List not found or not authorized."})
		return
	}
	if err != nil {
		h.logger.Error("Failed to fetch tasks",
			zap.Error(err),
			zap.Int("list_id", listID),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch tasks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks":     tasksJSON(tasks),
		"list_name": l.Name,
	})
}

// AddTask handles POST /add-task.
func (h *TaskHandler) AddTask(c *gin.Context) {
	userID, _ := currentUserID(c)

	var req struct {
		Text     string `json:"text"`
		DueDate  string `json:"due_date"`
		ListID   int    `json:"list_id"`
		Priority string `json:"priority"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	t, err := h.todoService.AddTask(c.Request.Context(), userID, todo.AddTaskInput{
		ListID:   req.ListID,
		Text:     req.Text,
		DueDate:  req.DueDate,
		Priority: req.Priority,
	})
	if apperr.IsValidation(err) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if errors.Is(err, apperr.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "List not found or not authorized."})
		return
	}
	if err != nil {
		h.logger.Error("Failed to add task",
			zap.Error(err),
			zap.Int("user_id", userID),
			zap.Int("list_id", req.ListID),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add task"})
		return
	}

	metrics.IncrementTaskOperation("create")
	c.JSON(http.StatusCreated, taskJSON(*t))
}

// ToggleTask handles POST /toggle-task/:task_id.
func (h *TaskHandler) ToggleTask(c *gin.Context) {
	userID, _ := currentUserID(c)

	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	newStatus, err := h.todoService.ToggleTask(c.Request.Context(), userID, taskID)
	if errors.Is(err, apperr.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": taskNotFoundMsg})
		return
	}
	if err != nil {
		h.logger.Error("Failed to toggle task",
			zap.Error(err),
			zap.Int("task_id", taskID),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to toggle task"})
		return
	}

	metrics.IncrementTaskOperation("toggle")
	c.JSON(http.StatusOK, gin.H{"success": true, "new_status": newStatus})
}

// DeleteTask handles POST /delete-task/:task_id.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, _ := currentUserID(c)

	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	err := h.todoService.DeleteTask(c.Request.Context(), userID, taskID)
	if errors.Is(err, apperr.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": taskNotFoundMsg})
		return
	}
	if err != nil {
		h.logger.Error("Failed to delete task",
			zap.Error(err),
			zap.Int("task_id", taskID),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete task"})
		return
	}

	metrics.IncrementTaskOperation("delete")
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// UpdateTaskText handles POST /update-task-text/:task_id.
func (h *TaskHandler) UpdateTaskText(c *gin.Context) {
	userID, _ := currentUserID(c)

	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Task text cannot be empty."})
		return
	}

	newText, err := h.todoService.UpdateTaskText(c.Request.Context(), userID, taskID, req.Text)
	if apperr.IsValidation(err) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if errors.Is(err, apperr.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": taskNotFoundMsg})
		return
	}
	if err != nil {
		h.logger.Error("Failed to update task text",
			zap.Error(err),
			zap.Int("task_id", taskID),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update task"})
		return
	}

	metrics.IncrementTaskOperation("update_text")
	c.JSON(http.StatusOK, gin.H{"success": true, "new_text": newText})
}
