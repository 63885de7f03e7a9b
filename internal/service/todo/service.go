package todo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"todoapp/internal/apperr"
	"todoapp/internal/model"
)

// DefaultListName is created lazily for users with no lists yet.
const DefaultListName = "My Tasks"

const dueDateLayout = "2006-01-02"

// ListStore is the slice of the list repository the service needs.
type ListStore interface {
	Create(ctx context.Context, l *model.List) error
	ByUser(ctx context.Context, userID int) ([]model.List, error)
	ByIDForUser(ctx context.Context, listID, userID int) (*model.List, error)
	DeleteOwned(ctx context.Context, listID, userID int) error
}

// TaskStore is the slice of the task repository the service needs.
type TaskStore interface {
	Create(ctx context.Context, t *model.Task) error
	ByList(ctx context.Context, listID int) ([]model.Task, error)
	ToggleOwned(ctx context.Context, taskID, userID int) (bool, error)
	DeleteOwned(ctx context.Context, taskID, userID int) error
	UpdateTextOwned(ctx context.Context, taskID, userID int, text string) error
}

type Service struct {
	lists ListStore
	tasks TaskStore
}

func NewService(lists ListStore, tasks TaskStore) *Service {
	return &Service{lists: lists, tasks: tasks}
}

// Lists returns all lists owned by the user.
func (s *Service) Lists(ctx context.Context, userID int) ([]model.List, error) {
	return s.lists.ByUser(ctx, userID)
}

// EnsureDefaultList returns the user's lists, creating the default
// "My Tasks" list first when they have none. Every user therefore
// always sees at least one list.
func (s *Service) EnsureDefaultList(ctx context.Context, userID int) ([]model.List, error) {
	lists, err := s.lists.ByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(lists) > 0 {
		return lists, nil
	}

	def := &model.List{Name: DefaultListName, UserID: userID}
	if err := s.lists.Create(ctx, def); err != nil {
		return nil, err
	}
	return []model.List{*def}, nil
}

// CreateList creates a list named name owned by the user.
func (s *Service) CreateList(ctx context.Context, userID int, name string) (*model.List, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("List name cannot be empty.")
	}

	l := &model.List{Name: name, UserID: userID}
	if err := s.lists.Create(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// DeleteList removes the list and, through the cascade, all its tasks.
func (s *Service) DeleteList(ctx context.Context, userID, listID int) error {
	err := s.lists.DeleteOwned(ctx, listID, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.ErrNotFound
	}
	return err
}

// TasksForList returns the list and its tasks, newest first. The
// ownership check runs before the task query; a list owned by someone
// else yields the same error as a nonexistent id.
func (s *Service) TasksForList(ctx context.Context, userID, listID int) (*model.List, []model.Task, error) {
	l, err := s.lists.ByIDForUser(ctx, listID, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	tasks, err := s.tasks.ByList(ctx, l.ID)
	if err != nil {
		return nil, nil, err
	}
	return l, tasks, nil
}

// AddTaskInput carries the add-task request fields. DueDate and
// Priority are optional; DueDate must be YYYY-MM-DD when present.
type AddTaskInput struct {
	ListID   int
	Text     string
	DueDate  string
	Priority string
}

// AddTask creates an incomplete task in the given list.
func (s *Service) AddTask(ctx context.Context, userID int, in AddTaskInput) (*model.Task, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, apperr.Validation("Task text is missing.")
	}
	if in.ListID == 0 {
		return nil, apperr.Validation("List ID is missing.")
	}

	var dueDate *time.Time
	if in.DueDate != "" {
		d, err := time.Parse(dueDateLayout, in.DueDate)
		if err != nil {
			return nil, apperr.Validation("Invalid date format. Use YYYY-MM-DD.")
		}
		dueDate = &d
	}

	var priority *string
	if p := strings.TrimSpace(in.Priority); p != "" {
		priority = &p
	}

	if _, err := s.lists.ByIDForUser(ctx, in.ListID, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}

	t := &model.Task{
		Text:     text,
		Complete: false,
		DueDate:  dueDate,
		Priority: priority,
		ListID:   in.ListID,
	}
	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// ToggleTask flips the completion flag and returns the new value.
func (s *Service) ToggleTask(ctx context.Context, userID, taskID int) (bool, error) {
	complete, err := s.tasks.ToggleOwned(ctx, taskID, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, apperr.ErrNotFound
	}
	return complete, err
}

// DeleteTask removes the task permanently.
func (s *Service) DeleteTask(ctx context.Context, userID, taskID int) error {
	err := s.tasks.DeleteOwned(ctx, taskID, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.ErrNotFound
	}
	return err
}

// UpdateTaskText replaces the task text, returning the stored value.
func (s *Service) UpdateTaskText(ctx context.Context, userID, taskID int, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", apperr.Validation("Task text cannot be empty.")
	}

	err := s.tasks.UpdateTextOwned(ctx, taskID, userID, text)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", apperr.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return text, nil
}
