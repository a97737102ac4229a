package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/svce/alumniconnect/internal/app/models"
	"github.com/svce/alumniconnect/internal/pkg/apperrors"
	"github.com/svce/alumniconnect/internal/pkg/dberrors"
	"github.com/svce/alumniconnect/internal/pkg/helpers"
	"github.com/svce/alumniconnect/internal/pkg/logger"
)

var notificationColumns = []string{"id", "user_id", "title", "message", "type", "is_read", "created_at"}

// PostgresNotificationRepository handles notification database operations
type PostgresNotificationRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewNotificationRepository creates a new PostgresNotificationRepository
func NewNotificationRepository(db *pgxpool.Pool) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateMany inserts notifications in one batch
func (r *PostgresNotificationRepository) CreateMany(ctx context.Context, notifications []*models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	q := r.sb.Insert("notifications").Columns(notificationColumns...)
	for _, n := range notifications {
		q = q.Values(n.ID, n.UserID, n.Title, n.Message, n.Type, n.IsRead, n.CreatedAt)
	}
	sql, args, err := q.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create notifications SQL")
		return fmt.Errorf("failed to build create notifications query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			// A recipient was deleted between lookup and insert
			return apperrors.ErrProfileNotFound
		}
		logger.Error().Err(err).Int("count", len(notifications)).Msg("Error executing create notifications query")
		return fmt.Errorf("error creating notifications: %w", err)
	}
	return nil
}

// ListByUser returns a page of the user's notifications, newest first, and the total count
func (r *PostgresNotificationRepository) ListByUser(ctx context.Context, userID string, offset uint64, limit int) ([]*models.Notification, int64, error) {
	var total int64
	countSQL, countArgs, err := r.sb.Select("COUNT(*)").
		From("notifications").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count notifications SQL")
		return nil, 0, fmt.Errorf("failed to build count notifications query: %w", err)
	}
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Str("userID", userID).Msg("Error counting notifications")
		return nil, 0, fmt.Errorf("error counting notifications: %w", err)
	}

	sql, args, err := r.sb.Select(notificationColumns...).
		From("notifications").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(offset).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list notifications SQL")
		return nil, 0, fmt.Errorf("failed to build list notifications query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("userID", userID).Msg("Error executing list notifications query")
		return nil, 0, fmt.Errorf("error querying notifications: %w", err)
	}
	defer rows.Close()

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.Notification, error) {
		n := &models.Notification{}
		err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.IsRead, &n.CreatedAt)
		return n, err
	})
	if err != nil {
		logger.Error().Err(err).Msg("Error scanning notification rows")
		return nil, 0, fmt.Errorf("error scanning notification rows: %w", err)
	}
	return items, total, nil
}

// CountUnread returns the number of unread notifications of a user
func (r *PostgresNotificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	sql, args, err := r.sb.Select("COUNT(*)").
		From("notifications").
		Where(squirrel.Eq{"user_id": userID, "is_read": false}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building unread count SQL")
		return 0, fmt.Errorf("failed to build unread count query: %w", err)
	}

	var count int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		logger.Error().Err(err).Str("userID", userID).Msg("Error counting unread notifications")
		return 0, fmt.Errorf("error counting unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead marks one of the user's notifications as read.
// A notification owned by someone else is reported as not found.
func (r *PostgresNotificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	if !helpers.IsUUID(id) {
		return apperrors.ErrNotificationNotFound
	}

	sql, args, err := r.sb.Update("notifications").
		Set("is_read", true).
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building mark read SQL")
		return fmt.Errorf("failed to build mark read query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("notificationID", id).Msg("Error executing mark read query")
		return fmt.Errorf("error marking notification read: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead marks every unread notification of the user as read and returns how many changed
func (r *PostgresNotificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	sql, args, err := r.sb.Update("notifications").
		Set("is_read", true).
		Where(squirrel.Eq{"user_id": userID, "is_read": false}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building mark all read SQL")
		return 0, fmt.Errorf("failed to build mark all read query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("userID", userID).Msg("Error executing mark all read query")
		return 0, fmt.Errorf("error marking notifications read: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}
