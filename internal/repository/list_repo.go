package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"todoapp/internal/model"
)

type ListRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewListRepository(db *pgxpool.Pool, logger *zap.Logger) *ListRepository {
	return &ListRepository{db: db, logger: logger}
}

func (r *ListRepository) Create(ctx context.Context, l *model.List) error {
	query := `
        INSERT INTO lists (name, user_id)
        VALUES ($1, $2)
        RETURNING id
    `
	if err := r.db.QueryRow(ctx, query, l.Name, l.UserID).Scan(&l.ID); err != nil {
		r.logger.Error("Failed to insert list",
			zap.Error(err),
			zap.Int("user_id", l.UserID),
		)
		return err
	}
	r.logger.Info("List created",
		zap.Int("list_id", l.ID),
		zap.Int("user_id", l.UserID),
	)
	return nil
}

// ByUser returns all lists owned by userID in insertion order.
func (r *ListRepository) ByUser(ctx context.Context, userID int) ([]model.List, error) {
	query := `
        SELECT id, name, user_id
        FROM lists
        WHERE user_id = $1
        ORDER BY id
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to query lists",
			zap.Error(err),
			zap.Int("user_id", userID),
		)
		return nil, err
	}
	defer rows.Close()

	lists := []model.List{}
	for rows.Next() {
		var l model.List
		if err := rows.Scan(&l.ID, &l.Name, &l.UserID); err != nil {
			return nil, err
		}
		lists = append(lists, l)
	}
	return lists, rows.Err()
}

// ByIDForUser returns the list only when it is owned by userID.
// pgx.ErrNoRows covers both a missing id and someone else's list.
func (r *ListRepository) ByIDForUser(ctx context.Context, listID, userID int) (*model.List, error) {
	query := `
        SELECT id, name, user_id
        FROM lists
        WHERE id = $1 AND user_id = $2
    `
	var l model.List
	err := r.db.QueryRow(ctx, query, listID, userID).Scan(&l.ID, &l.Name, &l.UserID)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// DeleteOwned removes the list when owned by userID; tasks go with it
// via the ON DELETE CASCADE on tasks.list_id.
func (r *ListRepository) DeleteOwned(ctx context.Context, listID, userID int) error {
	query := `
        DELETE FROM lists
        WHERE id = $1 AND user_id = $2
    `
	tag, err := r.db.Exec(ctx, query, listID, userID)
	if err != nil {
		r.logger.Error("Failed to delete list",
			zap.Error(err),
			zap.Int("list_id", listID),
		)
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	r.logger.Info("List deleted",
		zap.Int("list_id", listID),
		zap.Int("user_id", userID),
	)
	return nil
}
