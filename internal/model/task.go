package model

import "time"

type Task struct {
	ID       int        `json:"id"`
	Text     string     `json:"text"`
	Complete bool       `json:"complete"`
	DueDate  *time.Time `json:"-"` // date-only, serialized by the handler layer
	Priority *string    `json:"priority"`
	ListID   int        `json:"-"`
}
