package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"todoapp/internal/model"
)

// userIDKey is where the session middleware stores the resolved identity.
const userIDKey = "user_id"

const flashCookieName = "flash"

// currentUserID returns the authenticated user id, if any.
func currentUserID(c *gin.Context) (int, bool) {
	v, exists := c.Get(userIDKey)
	if !exists {
		return 0, false
	}
	uid, ok := v.(int)
	return uid, ok
}

// setFlash stores a one-shot message for the next page view.
func setFlash(c *gin.Context, msg string) {
	c.SetCookie(flashCookieName, msg, 60, "/", "", false, true)
}

// popFlash reads and clears the pending flash message.
func popFlash(c *gin.Context) string {
	msg, err := c.Cookie(flashCookieName)
	if err != nil || msg == "" {
		return ""
	}
	c.SetCookie(flashCookieName, "", -1, "/", "", false, true)
	return msg
}

// taskJSON renders a task in the wire shape: due_date as a date-only
// ISO string or null, priority as string or null.
func taskJSON(t model.Task) gin.H {
	var dueDate *string
	if t.DueDate != nil {
		s := t.DueDate.Format(time.DateOnly)
		dueDate = &s
	}
	return gin.H{
		"id":       t.ID,
		"text":     t.Text,
		"complete": t.Complete,
		"due_date": dueDate,
		"priority": t.Priority,
	}
}

func tasksJSON(tasks []model.Task) []gin.H {
	out := make([]gin.H, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskJSON(t))
	}
	return out
}

func listJSON(l model.List) gin.H {
	return gin.H{"id": l.ID, "name": l.Name}
}

func listsJSON(lists []model.List) []gin.H {
	out := make([]gin.H, 0, len(lists))
	for _, l := range lists {
		out = append(out, listJSON(l))
	}
	return out
}
