package notification

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var ErrNotificationNotFound = errors.New("notification not found")

type Repository interface {
	Create(ctx context.Context, notification Notification) (int, error)
	ListForUser(ctx context.Context, userId int, unreadOnly bool) ([]Notification, error)
	Get(ctx context.Context, id int) (Notification, error)
	MarkRead(ctx context.Context, id int, readAt time.Time) error
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Create(ctx context.Context, n Notification) (int, error) {
	query := `INSERT INTO notifications (user_id, timesheet_id, message, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	var id int
	err := r.db.QueryRow(ctx, query, n.UserId, n.TimesheetId, n.Message, n.CreatedAt).Scan(&id)
	if err != nil {
		log.Errorf("could not create notification for user %d: %v", n.UserId, err)
		return 0, err
	}
	return id, nil
}

func (r *RepositoryImpl) ListForUser(ctx context.Context, userId int, unreadOnly bool) ([]Notification, error) {
	query := `SELECT id, user_id, timesheet_id, message, created_at, read_at
		FROM notifications
		WHERE user_id = $1`
	if unreadOnly {
		query += ` AND read_at IS NULL`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, userId)
	if err != nil {
		log.Errorf("could not list notifications for user %d: %v", userId, err)
		return nil, err
	}
	defer rows.Close()

	var notifications []Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			log.Errorf("could not scan notification: %v", err)
			return nil, err
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *RepositoryImpl) Get(ctx context.Context, id int) (Notification, error) {
	query := `SELECT id, user_id, timesheet_id, message, created_at, read_at
		FROM notifications WHERE id = $1`
	n, err := scanNotification(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Notification{}, ErrNotificationNotFound
	} else if err != nil {
		log.Errorf("could not get notification %d: %v", id, err)
		return Notification{}, err
	}
	return n, nil
}

func (r *RepositoryImpl) MarkRead(ctx context.Context, id int, readAt time.Time) error {
	query := `UPDATE notifications SET read_at = $2 WHERE id = $1 AND read_at IS NULL`
	if _, err := r.db.Exec(ctx, query, id, readAt); err != nil {
		log.Errorf("could not mark notification %d as read: %v", id, err)
		return err
	}
	return nil
}

func scanNotification(row pgx.Row) (Notification, error) {
	var n Notification
	var readAt sql.NullTime
	err := row.Scan(&n.Id, &n.UserId, &n.TimesheetId, &n.Message, &n.CreatedAt, &readAt)
	if err != nil {
		return Notification{}, err
	}
	if readAt.Valid {
		n.ReadAt = readAt.Time
	}
	return n, nil
}
