package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"todoapp/internal/model"
)

type TaskRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTaskRepository(db *pgxpool.Pool, logger *zap.Logger) *TaskRepository {
	return &TaskRepository{db: db, logger: logger}
}

func (r *TaskRepository) Create(ctx context.Context, t *model.Task) error {
	query := `
        INSERT INTO tasks (text, complete, due_date, priority, list_id)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `
	err := r.db.QueryRow(ctx, query,
		t.Text,
		t.Complete,
		t.DueDate,
		t.Priority,
		t.ListID,
	).Scan(&t.ID)
	if err != nil {
		r.logger.Error("Failed to insert task",
			zap.Error(err),
			zap.Int("list_id", t.ListID),
		)
		return err
	}
	r.logger.Info("Task inserted",
		zap.Int("task_id", t.ID),
		zap.Int("list_id", t.ListID),
	)
	return nil
}

// ByList returns all tasks of a list, newest first.
func (r *TaskRepository) ByList(ctx context.Context, listID int) ([]model.Task, error) {
	query := `
        SELECT id, text, complete, due_date, priority, list_id
        FROM tasks
        WHERE list_id = $1
        ORDER BY id DESC
    `
	rows, err := r.db.Query(ctx, query, listID)
	if err != nil {
		r.logger.Error("Failed to query tasks",
			zap.Error(err),
			zap.Int("list_id", listID),
		)
		return nil, err
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(
			&t.ID,
			&t.Text,
			&t.Complete,
			&t.DueDate,
			&t.Priority,
			&t.ListID,
		); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// ToggleOwned flips the completion flag of the task when its parent list
// is owned by userID, returning the new value. pgx.ErrNoRows means the
// task is missing or not the caller's; the two are indistinguishable.
func (r *TaskRepository) ToggleOwned(ctx context.Context, taskID, userID int) (bool, error) {
	query := `
        UPDATE tasks
        SET complete = NOT complete
        FROM lists
        WHERE tasks.id = $1
          AND tasks.list_id = lists.id
          AND lists.user_id = $2
        RETURNING tasks.complete
    `
	var complete bool
	if err := r.db.QueryRow(ctx, query, taskID, userID).Scan(&complete); err != nil {
		return false, err
	}
	r.logger.Info("Task toggled",
		zap.Int("task_id", taskID),
		zap.Bool("complete", complete),
	)
	return complete, nil
}

// DeleteOwned removes the task when its parent list is owned by userID.
func (r *TaskRepository) DeleteOwned(ctx context.Context, taskID, userID int) error {
	query := `
        DELETE FROM tasks
        USING lists
        WHERE tasks.id = $1
          AND tasks.list_id = lists.id
          AND lists.user_id = $2
    `
	tag, err := r.db.Exec(ctx, query, taskID, userID)
	if err != nil {
		r.logger.Error("Failed to delete task",
			zap.Error(err),
			zap.Int("task_id", taskID),
		)
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	r.logger.Info("Task deleted", zap.Int("task_id", taskID))
	return nil
}

// UpdateTextOwned replaces the task text under the same ownership join.
func (r *TaskRepository) UpdateTextOwned(ctx context.Context, taskID, userID int, text string) error {
	query := `
        UPDATE tasks
        SET text = $3
        FROM lists
        WHERE tasks.id = $1
          AND tasks.list_id = lists.id
          AND lists.user_id = $2
    `
	tag, err := r.db.Exec(ctx, query, taskID, userID, text)
	if err != nil {
		r.logger.Error("Failed to update task text",
			zap.Error(err),
			zap.Int("task_id", taskID),
		)
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	r.logger.Info("Task text updated", zap.Int("task_id", taskID))
	return nil
}
