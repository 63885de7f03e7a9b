package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"todoapp/internal/service/todo"
)

type HomeHandler struct {
	todoService *todo.Service
	logger      *zap.Logger
}

func NewHomeHandler(todoService *todo.Service, logger *zap.Logger) *HomeHandler {
	return &HomeHandler{todoService: todoService, logger: logger}
}

// Home handles GET /. It returns the view model for the external
// renderer: the user's lists plus the tasks of the first list, creating
// the default list on a first visit.
func (h *HomeHandler) Home(c *gin.Context) {
	flash := popFlash(c)

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{
			"logged_in": false,
			"lists":     []gin.H{},
			"tasks":     []gin.H{},
			"flash":     flash,
		})
		return
	}

	lists, err := h.todoService.EnsureDefaultList(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to load lists",
			zap.Error(err),
			zap.Int("user_id", userID),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load lists"})
		return
	}

	current := lists[0]
	_, tasks, err := h.todoService.TasksForList(c.Request.Context(), userID, current.ID)
	if err != nil {
		h.logger.Error("Failed to load tasks",
			zap.Error(err),
			zap.Int("list_id", current.ID),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load tasks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logged_in":         true,
		"lists":             listsJSON(lists),
		"current_list_id":   current.ID,
		"current_list_name": current.Name,
		"tasks":             tasksJSON(tasks),
		"flash":             flash,
	})
}
