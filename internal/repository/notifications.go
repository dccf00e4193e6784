package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mmeshcher/inventory-console/internal/model"
)

const notificationColumns = `id, title, message, link, created_at, read_at`

func scanNotification(row pgx.Row) (model.Notification, error) {
	var n model.Notification
	err := row.Scan(&n.ID, &n.Title, &n.Message, &n.Link, &n.CreatedAt, &n.ReadAt)
	return n, err
}

// CreateNotifications создаёт копию уведомления для каждого получателя одним пакетом.
func (r *PostgresRepository) CreateNotifications(ctx context.Context, userIDs []string, n model.Notification) error {
	if len(userIDs) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, userID := range userIDs {
		batch.Queue(
			`INSERT INTO notifications (id, user_id, title, message, link) VALUES ($1, $2, $3, $4, $5)`,
			uuid.NewString(), userID, n.Title, n.Message, n.Link,
		)
	}

	if err := r.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert notifications: %w", err)
	}
	return nil
}

// ListNotifications возвращает уведомления пользователя, новые первыми.
func (r *PostgresRepository) ListNotifications(ctx context.Context, userID string) ([]model.Notification, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+notificationColumns+` FROM notifications WHERE user_id = $1 ORDER BY created_at DESC, id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("select notifications: %w", err)
	}
	defer rows.Close()

	res := make([]model.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		res = append(res, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// MarkNotificationRead отмечает уведомление прочитанным. Повторная отметка
// не меняет время прочтения.
func (r *PostgresRepository) MarkNotificationRead(ctx context.Context, userID, id string, at time.Time) (model.Notification, error) {
	n, err := scanNotification(r.pool.QueryRow(ctx,
		`UPDATE notifications SET read_at = COALESCE(read_at, $3)
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+notificationColumns,
		id, userID, at,
	))
	if err != nil {
		if notFound(err) {
			return model.Notification{}, fmt.Errorf("%w: notification %s", ErrNotFound, id)
		}
		return model.Notification{}, fmt.Errorf("mark notification: %w", err)
	}
	return n, nil
}

// DeleteNotification удаляет уведомление пользователя.
func (r *PostgresRepository) DeleteNotification(ctx context.Context, userID, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM notifications WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: notification %s", ErrNotFound, id)
	}
	return nil
}
