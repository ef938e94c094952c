package repository

import (
	"context"
	"database/sql"
	"time"
)

// NotificationLogRepo appends broker notifications to the
// notification_log table. It is only used when the archive consumer runs
// with a MySQL connection.
type NotificationLogRepo struct {
	db *sql.DB
}

func NewNotificationLogRepo(db *sql.DB) *NotificationLogRepo {
	return &NotificationLogRepo{db: db}
}

// EnsureSchema creates the table when it does not exist yet.
func (r *NotificationLogRepo) EnsureSchema(ctx context.Context) error {
	const q = `CREATE TABLE IF NOT EXISTS notification_log (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		event VARCHAR(64) NOT NULL,
		payload JSON NOT NULL,
		published_at DATETIME(3) NOT NULL,
		archived_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
		KEY idx_notification_log_event (event, published_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`
	_, err := r.db.ExecContext(ctx, q)
	return err
}

// Insert stores one notification and returns its row id.
func (r *NotificationLogRepo) Insert(ctx context.Context, event string, payload []byte, publishedAt time.Time) (int64, error) {
	const q = "INSERT INTO notification_log (event, payload, published_at) VALUES (?, ?, ?)"
	res, err := r.db.ExecContext(ctx, q, event, string(payload), publishedAt.UTC())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
