package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/svce/alumniconnect/internal/app/models"
	"github.com/svce/alumniconnect/internal/pkg/apperrors"
	"github.com/svce/alumniconnect/internal/pkg/dberrors"
	"github.com/svce/alumniconnect/internal/pkg/helpers"
	"github.com/svce/alumniconnect/internal/pkg/logger"
)

const profileEmailConstraint = "profiles_email_key"

var profileColumns = []string{
	"id", "email", "password_hash", "full_name", "role", "is_approved", "department", "graduation_year",
	"current_company", "current_position", "phone", "linkedin_url", "bio", "profile_image_url",
	"created_at", "updated_at",
}

// PostgresProfileRepository handles profile database operations
type PostgresProfileRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewProfileRepository creates a new PostgresProfileRepository
func NewProfileRepository(db *pgxpool.Pool) *PostgresProfileRepository {
	return &PostgresProfileRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanProfile(row pgx.Row) (*models.Profile, error) {
	p := &models.Profile{}
	err := row.Scan(
		&p.ID, &p.Email, &p.PasswordHash, &p.FullName, &p.Role, &p.IsApproved, &p.Department, &p.GraduationYear,
		&p.CurrentCompany, &p.CurrentPosition, &p.Phone, &p.LinkedInURL, &p.Bio, &p.ProfileImageURL,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Create inserts a new profile
func (r *PostgresProfileRepository) Create(ctx context.Context, p *models.Profile) error {
	sql, args, err := r.sb.Insert("profiles").
		Columns(profileColumns...).
		Values(
			p.ID, p.Email, p.PasswordHash, p.FullName, p.Role, p.IsApproved, p.Department, p.GraduationYear,
			p.CurrentCompany, p.CurrentPosition, p.Phone, p.LinkedInURL, p.Bio, p.ProfileImageURL,
			p.CreatedAt, p.UpdatedAt,
		).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create profile SQL")
		return fmt.Errorf("failed to build create profile query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsDuplicateConstraintError(err, profileEmailConstraint) {
			return apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Str("email", p.Email).Msg("Error executing create profile query")
		return fmt.Errorf("error creating profile: %w", err)
	}

	return nil
}

func (r *PostgresProfileRepository) getOne(ctx context.Context, where squirrel.Sqlizer, logField, logValue string) (*models.Profile, error) {
	sql, args, err := r.sb.Select(profileColumns...).
		From("profiles").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get profile SQL")
		return nil, fmt.Errorf("failed to build get profile query: %w", err)
	}

	p, err := scanProfile(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProfileNotFound
		}
		logger.Error().Err(err).Str(logField, logValue).Msg("Error scanning profile row")
		return nil, fmt.Errorf("error getting profile: %w", err)
	}
	return p, nil
}

// GetByID retrieves a profile by ID
func (r *PostgresProfileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	if !helpers.IsUUID(id) {
		return nil, apperrors.ErrProfileNotFound
	}
	return r.getOne(ctx, squirrel.Eq{"id": id}, "profileID", id)
}

// GetByEmail retrieves a profile by its lower-cased email
func (r *PostgresProfileRepository) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	return r.getOne(ctx, squirrel.Eq{"email": strings.ToLower(email)}, "email", email)
}

// EmailExists checks whether an account already uses email
func (r *PostgresProfileRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("profiles").
		Where(squirrel.Eq{"email": strings.ToLower(email)}).
		Prefix("SELECT EXISTS (").Suffix(")").
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building email exists SQL")
		return false, fmt.Errorf("failed to build email existence query: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		logger.Error().Err(err).Str("email", email).Msg("Error checking email existence")
		return false, fmt.Errorf("error checking email existence: %w", err)
	}
	return exists, nil
}

// Update writes the self-editable fields
func (r *PostgresProfileRepository) Update(ctx context.Context, p *models.Profile) error {
	sql, args, err := r.sb.Update("profiles").
		SetMap(map[string]interface{}{
			"full_name":         p.FullName,
			"department":        p.Department,
			"graduation_year":   p.GraduationYear,
			"current_company":   p.CurrentCompany,
			"current_position":  p.CurrentPosition,
			"phone":             p.Phone,
			"linkedin_url":      p.LinkedInURL,
			"bio":               p.Bio,
			"profile_image_url": p.ProfileImageURL,
			"updated_at":        p.UpdatedAt,
		}).
		Where(squirrel.Eq{"id": p.ID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update profile SQL")
		return fmt.Errorf("failed to build update profile query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("profileID", p.ID).Msg("Error executing update profile query")
		return fmt.Errorf("error updating profile: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrProfileNotFound
	}
	return nil
}

// SetApproved flips the approval flag
func (r *PostgresProfileRepository) SetApproved(ctx context.Context, id string, approved bool) error {
	if !helpers.IsUUID(id) {
		return apperrors.ErrProfileNotFound
	}

	sql, args, err := r.sb.Update("profiles").
		Set("is_approved", approved).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building approve profile SQL")
		return fmt.Errorf("failed to build approve profile query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("profileID", id).Msg("Error executing approve profile query")
		return fmt.Errorf("error approving profile: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrProfileNotFound
	}
	return nil
}

// DeletePending hard-deletes a profile that is still awaiting approval
func (r *PostgresProfileRepository) DeletePending(ctx context.Context, id string) error {
	if !helpers.IsUUID(id) {
		return apperrors.ErrProfileNotFound
	}

	sql, args, err := r.sb.Delete("profiles").
		Where(squirrel.Eq{"id": id, "is_approved": false}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete profile SQL")
		return fmt.Errorf("failed to build delete profile query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("profileID", id).Msg("Error executing delete profile query")
		return fmt.Errorf("error deleting profile: %w", err)
	}
	if cmdTag.RowsAffected() > 0 {
		return nil
	}

	// Nothing deleted: either unknown or already approved
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return apperrors.ErrProfileAlreadyActive
}

// applyProfileFilter adds WHERE clauses for filter
func applyProfileFilter(q squirrel.SelectBuilder, f models.ProfileFilter) squirrel.SelectBuilder {
	if f.Role != "" {
		q = q.Where(squirrel.Eq{"role": f.Role})
	}
	if f.Approved != nil {
		q = q.Where(squirrel.Eq{"is_approved": *f.Approved})
	}
	if f.ExcludeID != "" {
		q = q.Where(squirrel.NotEq{"id": f.ExcludeID})
	}
	if term := strings.TrimSpace(f.Query); term != "" {
		pattern := "%" + helpers.EscapeLike(term) + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"full_name": pattern},
			squirrel.ILike{"current_company": pattern},
			squirrel.ILike{"current_position": pattern},
			squirrel.ILike{"department": pattern},
		})
	}
	return q
}

// buildListProfilesQuery is split out from List so it can be checked without a database
func (r *PostgresProfileRepository) buildListProfilesQuery(f models.ProfileFilter) (string, []interface{}, error) {
	q := applyProfileFilter(r.sb.Select(profileColumns...).From("profiles"), f).
		OrderBy("created_at DESC")
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit)).Offset(f.Offset)
	}
	return q.ToSql()
}

// List returns profiles matching filter, newest first
func (r *PostgresProfileRepository) List(ctx context.Context, f models.ProfileFilter) ([]*models.Profile, error) {
	sql, args, err := r.buildListProfilesQuery(f)
	if err != nil {
		logger.Error().Err(err).Msg("Error building list profiles SQL")
		return nil, fmt.Errorf("failed to build list profiles query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list profiles query")
		return nil, fmt.Errorf("error querying profiles: %w", err)
	}
	defer rows.Close()

	profiles := []*models.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning profile row during list")
			return nil, fmt.Errorf("error scanning profile row: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating profile rows")
		return nil, fmt.Errorf("error iterating profile rows: %w", err)
	}

	return profiles, nil
}

// Count returns the number of profiles matching filter, ignoring paging
func (r *PostgresProfileRepository) Count(ctx context.Context, f models.ProfileFilter) (int64, error) {
	sql, args, err := applyProfileFilter(r.sb.Select("COUNT(*)").From("profiles"), f).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count profiles SQL")
		return 0, fmt.Errorf("failed to build count profiles query: %w", err)
	}

	var count int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		logger.Error().Err(err).Msg("Error executing count profiles query")
		return 0, fmt.Errorf("error counting profiles: %w", err)
	}
	return count, nil
}
