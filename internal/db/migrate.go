package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Deleting a list must take its tasks with it, hence ON DELETE CASCADE
// on tasks.list_id. Users are never deleted, so lists carry no cascade.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS lists (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		user_id INT NOT NULL REFERENCES users(id)
	)`,
	`CREATE TABLE IF NOT EXISTS tasks (
		id SERIAL PRIMARY KEY,
		text TEXT NOT NULL,
		complete BOOLEAN NOT NULL DEFAULT FALSE,
		due_date DATE,
		priority TEXT,
		list_id INT NOT NULL REFERENCES lists(id) ON DELETE CASCADE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_lists_user_id ON lists(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_list_id ON tasks(list_id)`,
}

// Migrate creates the three tables if they do not exist yet.
func Migrate(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			logger.Error("Schema migration failed", zap.Error(err))
			return err
		}
	}
	logger.Info("Schema migration complete")
	return nil
}
