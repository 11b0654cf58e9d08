package service

import (
	"context"
	"encoding/json"
	"time"

	"halisaha-backend/internal/database/models"
	apperrors "halisaha-backend/internal/errors"
	"halisaha-backend/internal/logger"
	"halisaha-backend/internal/notify"
	"halisaha-backend/internal/repository"
	"halisaha-backend/internal/telemetry"

	"github.com/google/uuid"
)

const (
	defaultNotificationLimit = 20
	maxNotificationLimit     = 100
)

// NotificationService stores notifications and pushes them to connected clients
type NotificationService struct {
	repo      repository.NotificationRepositoryInterface
	publisher notify.Publisher
	templates *notify.Templates
}

// NewNotificationService creates a new notification service. publisher may be nil.
func NewNotificationService(repo repository.NotificationRepositoryInterface, publisher notify.Publisher, templates *notify.Templates) *NotificationService {
	if templates == nil {
		templates = notify.DefaultTemplates()
	}
	return &NotificationService{
		repo:      repo,
		publisher: publisher,
		templates: templates,
	}
}

// DispatchRequest describes a notification to send
type DispatchRequest struct {
	UserID    uuid.UUID
	Type      models.NotificationType
	Event     notify.Event
	Vars      notify.Vars
	RelatedID *uuid.UUID
}

// NotificationResponse represents the response data for a notification
type NotificationResponse struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	Title     string     `json:"title" example:"New join request"`
	Message   string     `json:"message" example:"Emre wants to join Moda FC."`
	Type      string     `json:"type" example:"team_join_request"`
	RelatedID *uuid.UUID `json:"related_id,omitempty"`
	IsRead    bool       `json:"is_read"`
	CreatedAt string     `json:"created_at"`
}

// NotificationListResponse represents a page of a user's notifications
type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Total         int64                  `json:"total"`
	Limit         int                    `json:"limit"`
	Offset        int                    `json:"offset"`
}

// Dispatch renders and stores a notification, then pushes it to the user's open connections.
// Only the store failing is an error; the push is best-effort.
func (s *NotificationService) Dispatch(ctx context.Context, req *DispatchRequest) (*models.Notification, error) {
	title, message, err := s.templates.Render(req.Event, req.Vars)
	if err != nil {
		return nil, err
	}

	notification := &models.Notification{
		UserID:    req.UserID,
		Title:     title,
		Message:   message,
		Type:      req.Type,
		RelatedID: req.RelatedID,
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		return nil, apperrors.NewPersistenceError("insert notification", err)
	}
	telemetry.NotificationsCreatedTotal.WithLabelValues(string(req.Type)).Inc()

	s.push(ctx, notification)
	return notification, nil
}

func (s *NotificationService) push(ctx context.Context, notification *models.Notification) {
	if s.publisher == nil {
		return
	}
	payload, err := json.Marshal(toNotificationResponse(notification))
	if err != nil {
		logger.WithContext(ctx).WithError(err).Warn("failed to encode notification for push")
		return
	}
	if delivered := s.publisher.Publish(notification.UserID, payload); delivered > 0 {
		telemetry.WebsocketDeliveriesTotal.Add(float64(delivered))
	}
}

// ListForUser returns the caller's notifications, newest first
func (s *NotificationService) ListForUser(ctx context.Context, caller *Caller, unreadOnly bool, limit, offset int) (*NotificationListResponse, error) {
	userID, err := requireCaller(caller)
	if err != nil {
		return nil, err
	}

	if limit == 0 {
		limit = defaultNotificationLimit
	}
	if limit < 0 || limit > maxNotificationLimit || offset < 0 {
		return nil, apperrors.NewValidationError("limit", apperrors.ErrInvalidPaginationParams.Error())
	}

	notifications, total, err := s.repo.GetByUserID(ctx, userID, unreadOnly, limit, offset)
	if err != nil {
		return nil, apperrors.NewPersistenceError("list notifications", err)
	}

	responses := make([]NotificationResponse, len(notifications))
	for i := range notifications {
		responses[i] = *toNotificationResponse(&notifications[i])
	}

	return &NotificationListResponse{
		Notifications: responses,
		Total:         total,
		Limit:         limit,
		Offset:        offset,
	}, nil
}

func toNotificationResponse(n *models.Notification) *NotificationResponse {
	return &NotificationResponse{
		ID:        n.ID,
		UserID:    n.UserID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      string(n.Type),
		RelatedID: n.RelatedID,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
}
