package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/svce/alumniconnect/internal/app/models"
	"github.com/svce/alumniconnect/internal/app/models/dto"
	"github.com/svce/alumniconnect/internal/app/repositories"
	"github.com/svce/alumniconnect/internal/pkg/apperrors"
	"github.com/svce/alumniconnect/internal/pkg/helpers"
)

// NotificationService stores polled notifications and exposes the workflow hooks.
// Hook failures are logged and never fail the triggering request.
type NotificationService interface {
	Notify(ctx context.Context, userIDs []string, kind models.NotificationType, title, message string)
	NotifyAdmins(ctx context.Context, kind models.NotificationType, title, message string)
	NotifyMembers(ctx context.Context, excludeID string, kind models.NotificationType, title, message string)

	List(ctx context.Context, caller *models.Profile, page, size int) (*dto.NotificationListResponse, error)
	UnreadCount(ctx context.Context, caller *models.Profile) (int64, error)
	MarkRead(ctx context.Context, caller *models.Profile, id string) error
	MarkAllRead(ctx context.Context, caller *models.Profile) (int64, error)
}

type notificationServiceImpl struct {
	notificationRepo repositories.NotificationRepository
	profileRepo      repositories.ProfileRepository
	now              helpers.Clock
	logger           zerolog.Logger
}

// NewNotificationService creates a new notification service instance
func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	profileRepo repositories.ProfileRepository,
	opts Options,
	logger zerolog.Logger,
) NotificationService {
	return &notificationServiceImpl{
		notificationRepo: notificationRepo,
		profileRepo:      profileRepo,
		now:              opts.now(),
		logger:           logger,
	}
}

func (s *notificationServiceImpl) Notify(ctx context.Context, userIDs []string, kind models.NotificationType, title, message string) {
	if len(userIDs) == 0 {
		return
	}

	now := s.now()
	batch := make([]*models.Notification, 0, len(userIDs))
	for _, id := range userIDs {
		batch = append(batch, &models.Notification{
			ID:        uuid.NewString(),
			UserID:    id,
			Title:     title,
			Message:   message,
			Type:      kind,
			CreatedAt: now,
		})
	}

	if err := s.notificationRepo.CreateMany(ctx, batch); err != nil {
		s.logger.Error().Err(err).Str("type", string(kind)).Int("recipients", len(userIDs)).Msg("Failed to store notifications")
	}
}

func (s *notificationServiceImpl) recipients(ctx context.Context, filter models.ProfileFilter) []string {
	profiles, err := s.profileRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to resolve notification recipients")
		return nil
	}
	ids := make([]string, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.ID)
	}
	return ids
}

func (s *notificationServiceImpl) NotifyAdmins(ctx context.Context, kind models.NotificationType, title, message string) {
	s.Notify(ctx, s.recipients(ctx, models.ProfileFilter{Role: models.RoleAdmin}), kind, title, message)
}

// NotifyMembers notifies every approved profile except excludeID
func (s *notificationServiceImpl) NotifyMembers(ctx context.Context, excludeID string, kind models.NotificationType, title, message string) {
	approved := true
	s.Notify(ctx, s.recipients(ctx, models.ProfileFilter{Approved: &approved, ExcludeID: excludeID}), kind, title, message)
}

func (s *notificationServiceImpl) List(ctx context.Context, caller *models.Profile, page, size int) (*dto.NotificationListResponse, error) {
	if caller == nil {
		return nil, apperrors.NewUnauthenticatedError("You must be logged in to view notifications")
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)
	items, total, err := s.notificationRepo.ListByUser(ctx, caller.ID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing notifications: %w", err)
	}
	unread, err := s.notificationRepo.CountUnread(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("error counting unread notifications: %w", err)
	}

	return &dto.NotificationListResponse{
		Items:       items,
		UnreadCount: unread,
		Pagination:  helpers.NewPaginationInfo(total, page, limit),
	}, nil
}

func (s *notificationServiceImpl) UnreadCount(ctx context.Context, caller *models.Profile) (int64, error) {
	if caller == nil {
		return 0, apperrors.NewUnauthenticatedError("You must be logged in to view notifications")
	}
	n, err := s.notificationRepo.CountUnread(ctx, caller.ID)
	if err != nil {
		return 0, fmt.Errorf("error counting unread notifications: %w", err)
	}
	return n, nil
}

func (s *notificationServiceImpl) MarkRead(ctx context.Context, caller *models.Profile, id string) error {
	if caller == nil {
		return apperrors.NewUnauthenticatedError("You must be logged in to update notifications")
	}
	if err := s.notificationRepo.MarkRead(ctx, id, caller.ID); err != nil {
		return fmt.Errorf("error marking notification read: %w", err)
	}
	return nil
}

func (s *notificationServiceImpl) MarkAllRead(ctx context.Context, caller *models.Profile) (int64, error) {
	if caller == nil {
		return 0, apperrors.NewUnauthenticatedError("You must be logged in to update notifications")
	}
	n, err := s.notificationRepo.MarkAllRead(ctx, caller.ID)
	if err != nil {
		return 0, fmt.Errorf("error marking notifications read: %w", err)
	}
	return n, nil
}
