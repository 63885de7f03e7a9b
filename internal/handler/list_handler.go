package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"todoapp/internal/apperr"
	"todoapp/internal/service/todo"
)

type ListHandler struct {
	todoService *todo.Service
	logger      *zap.Logger
}

func NewListHandler(todoService *todo.Service, logger *zap.Logger) *ListHandler {
	return &ListHandler{todoService: todoService, logger: logger}
}

// CreateList handles POST /create-list.
func (h *ListHandler) CreateList(c *gin.Context) {
	userID, _ := currentUserID(c)

	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "List name cannot be empty."})
		return
	}

	l, err := h.todoService.CreateList(c.Request.Context(), userID, req.Name)
	if apperr.IsValidation(err) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.logger.Error("Failed to create list",
			zap.Error(err),
			zap.Int("user_id", userID),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create list"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": l.ID, "name": l.Name})
}

// DeleteList handles POST /delete-list/:list_id. The cascade removes
// the list's tasks as well.
func (h *ListHandler) DeleteList(c *gin.Context) {
	userID, _ := currentUserID(c)

	listID, err := strconv.Atoi(c.Param("list_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "List not found or not authorized."})
		return
	}

	err = h.todoService.DeleteList(c.Request.Context(), userID, listID)
	if errors.Is(err, apperr.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "List not found or not authorized."})
		return
	}
	if err != nil {
		h.logger.Error("Failed to delete list",
			zap.Error(err),
			zap.Int("list_id", listID),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete list"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
