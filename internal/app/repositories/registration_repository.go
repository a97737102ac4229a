package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/svce/alumniconnect/internal/app/models"
	"github.com/svce/alumniconnect/internal/db"
	"github.com/svce/alumniconnect/internal/pkg/apperrors"
	"github.com/svce/alumniconnect/internal/pkg/dberrors"
	"github.com/svce/alumniconnect/internal/pkg/logger"
)

const registrationUniqueConstraint = "uq_meeting_registrations_meeting_user"

// PostgresRegistrationRepository stores meeting capacity slots and registrations.
// Meetings themselves live in the document store, so meeting ids are opaque strings here.
type PostgresRegistrationRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewRegistrationRepository creates a new PostgresRegistrationRepository
func NewRegistrationRepository(pg *db.PostgresDB) *PostgresRegistrationRepository {
	return &PostgresRegistrationRepository{
		db: pg,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// UpsertSlot opens or resizes a meeting's capacity slot
func (r *PostgresRegistrationRepository) UpsertSlot(ctx context.Context, meetingID string, maxParticipants int) error {
	sql, args, err := r.sb.Insert("meeting_slots").
		Columns("meeting_id", "max_participants").
		Values(meetingID, maxParticipants).
		Suffix("ON CONFLICT (meeting_id) DO UPDATE SET max_participants = EXCLUDED.max_participants, updated_at = NOW() " +
			"WHERE meeting_slots.registered_count <= EXCLUDED.max_participants").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building upsert meeting slot SQL")
		return fmt.Errorf("failed to build upsert meeting slot query: %w", err)
	}

	cmdTag, err := r.db.Pool.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("meetingID", meetingID).Msg("Error executing upsert meeting slot query")
		return fmt.Errorf("error saving meeting slot: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewValidationError("Max participants cannot be lower than the current number of registrations")
	}
	return nil
}

// GetSlot returns the capacity counter of a meeting
func (r *PostgresRegistrationRepository) GetSlot(ctx context.Context, meetingID string) (*models.MeetingSlot, error) {
	sql, args, err := r.sb.Select("meeting_id", "max_participants", "registered_count").
		From("meeting_slots").
		Where(squirrel.Eq{"meeting_id": meetingID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get meeting slot SQL")
		return nil, fmt.Errorf("failed to build get meeting slot query: %w", err)
	}

	slot := &models.MeetingSlot{}
	err = r.db.Pool.QueryRow(ctx, sql, args...).Scan(&slot.MeetingID, &slot.MaxParticipants, &slot.RegisteredCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrMeetingNotFound
		}
		logger.Error().Err(err).Str("meetingID", meetingID).Msg("Error scanning meeting slot row")
		return nil, fmt.Errorf("error getting meeting slot: %w", err)
	}
	return slot, nil
}

// Register inserts a registration and claims one seat in the same transaction.
// The conditional increment is what keeps the count at or below capacity under concurrency.
func (r *PostgresRegistrationRepository) Register(ctx context.Context, reg *models.MeetingRegistration) error {
	insertSQL, insertArgs, err := r.sb.Insert("meeting_registrations").
		Columns("id", "meeting_id", "user_id", "registered_at").
		Values(reg.ID, reg.MeetingID, reg.UserID, reg.RegisteredAt).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building insert registration SQL")
		return fmt.Errorf("failed to build insert registration query: %w", err)
	}

	claimSQL, claimArgs, err := r.sb.Update("meeting_slots").
		Set("registered_count", squirrel.Expr("registered_count + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"meeting_id": reg.MeetingID}).
		Where("registered_count < max_participants").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building claim seat SQL")
		return fmt.Errorf("failed to build claim seat query: %w", err)
	}

	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, insertSQL, insertArgs...); err != nil {
			if dberrors.IsDuplicateConstraintError(err, registrationUniqueConstraint) {
				return apperrors.ErrAlreadyRegistered
			}
			if dberrors.IsForeignKeyViolation(err) {
				return apperrors.ErrProfileNotFound
			}
			logger.Error().Err(err).Str("meetingID", reg.MeetingID).Str("userID", reg.UserID).Msg("Error inserting registration")
			return fmt.Errorf("error creating registration: %w", err)
		}

		cmdTag, err := tx.Exec(ctx, claimSQL, claimArgs...)
		if err != nil {
			logger.Error().Err(err).Str("meetingID", reg.MeetingID).Msg("Error claiming meeting seat")
			return fmt.Errorf("error claiming meeting seat: %w", err)
		}
		if cmdTag.RowsAffected() > 0 {
			return nil
		}

		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM meeting_slots WHERE meeting_id = $1)`, reg.MeetingID).Scan(&exists); err != nil {
			return fmt.Errorf("error checking meeting slot: %w", err)
		}
		if !exists {
			return apperrors.ErrMeetingNotFound
		}
		return apperrors.ErrMeetingFull
	})
}

// Cancel deletes a registration and releases its seat
func (r *PostgresRegistrationRepository) Cancel(ctx context.Context, meetingID, userID string) error {
	deleteSQL, deleteArgs, err := r.sb.Delete("meeting_registrations").
		Where(squirrel.Eq{"meeting_id": meetingID, "user_id": userID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete registration SQL")
		return fmt.Errorf("failed to build delete registration query: %w", err)
	}

	releaseSQL, releaseArgs, err := r.sb.Update("meeting_slots").
		Set("registered_count", squirrel.Expr("registered_count - 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"meeting_id": meetingID}).
		Where("registered_count > 0").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building release seat SQL")
		return fmt.Errorf("failed to build release seat query: %w", err)
	}

	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		cmdTag, err := tx.Exec(ctx, deleteSQL, deleteArgs...)
		if err != nil {
			logger.Error().Err(err).Str("meetingID", meetingID).Str("userID", userID).Msg("Error deleting registration")
			return fmt.Errorf("error deleting registration: %w", err)
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.ErrRegistrationNotFound
		}
		if _, err := tx.Exec(ctx, releaseSQL, releaseArgs...); err != nil {
			logger.Error().Err(err).Str("meetingID", meetingID).Msg("Error releasing meeting seat")
			return fmt.Errorf("error releasing meeting seat: %w", err)
		}
		return nil
	})
}

// IsRegistered reports whether userID holds a registration for meetingID
func (r *PostgresRegistrationRepository) IsRegistered(ctx context.Context, meetingID, userID string) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("meeting_registrations").
		Where(squirrel.Eq{"meeting_id": meetingID, "user_id": userID}).
		Prefix("SELECT EXISTS (").Suffix(")").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building registration exists SQL")
		return false, fmt.Errorf("failed to build registration existence query: %w", err)
	}

	var exists bool
	if err := r.db.Pool.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		logger.Error().Err(err).Str("meetingID", meetingID).Msg("Error checking registration existence")
		return false, fmt.Errorf("error checking registration: %w", err)
	}
	return exists, nil
}

// Counts returns the registered count per meeting id
func (r *PostgresRegistrationRepository) Counts(ctx context.Context, meetingIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(meetingIDs))
	if len(meetingIDs) == 0 {
		return counts, nil
	}

	sql, args, err := r.sb.Select("meeting_id", "registered_count").
		From("meeting_slots").
		Where(squirrel.Eq{"meeting_id": meetingIDs}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building registration counts SQL")
		return nil, fmt.Errorf("failed to build registration counts query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing registration counts query")
		return nil, fmt.Errorf("error querying registration counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var count int
		if err := rows.Scan(&id, &count); err != nil {
			return nil, fmt.Errorf("error scanning registration count: %w", err)
		}
		counts[id] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating registration counts: %w", err)
	}
	return counts, nil
}

// MeetingIDsForUser lists the meetings userID is registered for, most recent registration first
func (r *PostgresRegistrationRepository) MeetingIDsForUser(ctx context.Context, userID string) ([]string, error) {
	sql, args, err := r.sb.Select("meeting_id").
		From("meeting_registrations").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("registered_at DESC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building user registrations SQL")
		return nil, fmt.Errorf("failed to build user registrations query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("userID", userID).Msg("Error executing user registrations query")
		return nil, fmt.Errorf("error querying user registrations: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning meeting id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListByMeeting returns the attendees of a meeting with their names and emails
func (r *PostgresRegistrationRepository) ListByMeeting(ctx context.Context, meetingID string) ([]*models.MeetingRegistration, error) {
	sql, args, err := r.sb.Select("mr.id", "mr.meeting_id", "mr.user_id", "mr.registered_at", "p.full_name", "p.email").
		From("meeting_registrations mr").
		Join("profiles p ON p.id = mr.user_id").
		Where(squirrel.Eq{"mr.meeting_id": meetingID}).
		OrderBy("mr.registered_at ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list registrations SQL")
		return nil, fmt.Errorf("failed to build list registrations query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("meetingID", meetingID).Msg("Error executing list registrations query")
		return nil, fmt.Errorf("error querying registrations: %w", err)
	}
	defer rows.Close()

	regs := []*models.MeetingRegistration{}
	for rows.Next() {
		reg := &models.MeetingRegistration{}
		if err := rows.Scan(&reg.ID, &reg.MeetingID, &reg.UserID, &reg.RegisteredAt, &reg.UserName, &reg.UserEmail); err != nil {
			logger.Error().Err(err).Msg("Error scanning registration row")
			return nil, fmt.Errorf("error scanning registration row: %w", err)
		}
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}

// CountAll returns the total number of registrations
func (r *PostgresRegistrationRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM meeting_registrations`).Scan(&count); err != nil {
		logger.Error().Err(err).Msg("Error counting registrations")
		return 0, fmt.Errorf("error counting registrations: %w", err)
	}
	return count, nil
}
