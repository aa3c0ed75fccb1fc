// ABOUTME: Notification and activity feed services over the global store lists
// ABOUTME: Notifications are addressed by unique ID; activities are append-only

package feed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/anglershub/hub/internal/store"
)

// activityDisplayCap limits how many activities a read returns. Storage
// itself is unbounded.
const activityDisplayCap = 50

// Service manages the two global newest-first event lists: per-recipient
// notifications and the shared activity feed.
type Service struct {
	store  *store.Collections
	logger *slog.Logger
}

// NewService creates a feed service over the given collections.
func NewService(c *store.Collections) *Service {
	return &Service{
		store:  c,
		logger: slog.Default().With("component", "feed"),
	}
}

// Notify prepends a notification for the recipient. A unique ID is assigned
// at creation; it is the only handle for marking read or deleting.
func (s *Service) Notify(ctx context.Context, to, text, from, kind string) (*store.Notification, error) {
	if kind == "" {
		kind = store.NotifyInfo
	}

	notifications, rev, err := s.store.Notifications(ctx)
	if err != nil {
		return nil, err
	}

	n := store.Notification{
		ID:        uuid.New().String(),
		To:        to,
		From:      from,
		Text:      text,
		Type:      kind,
		Timestamp: store.NowMillis(),
	}
	notifications = append([]store.Notification{n}, notifications...)

	if _, err := s.store.SaveNotifications(ctx, notifications, rev); err != nil {
		return nil, err
	}

	s.logger.Debug("notification created", "to", to, "type", kind)
	return &n, nil
}

// For returns all notifications addressed to email, newest first.
func (s *Service) For(ctx context.Context, email string) ([]store.Notification, error) {
	notifications, _, err := s.store.Notifications(ctx)
	if err != nil {
		return nil, err
	}

	var out []store.Notification
	for _, n := range notifications {
		if n.To == email {
			out = append(out, n)
		}
	}
	return out, nil
}

// MarkRead flips the read flag on one notification.
func (s *Service) MarkRead(ctx context.Context, id string) error {
	notifications, rev, err := s.store.Notifications(ctx)
	if err != nil {
		return err
	}

	for i := range notifications {
		if notifications[i].ID == id {
			if notifications[i].Read {
				return nil
			}
			notifications[i].Read = true
			_, err := s.store.SaveNotifications(ctx, notifications, rev)
			return err
		}
	}
	return fmt.Errorf("notification %q: %w", id, store.ErrNotFound)
}

// Delete removes one notification, e.g. when its friend request is declined.
func (s *Service) Delete(ctx context.Context, id string) error {
	notifications, rev, err := s.store.Notifications(ctx)
	if err != nil {
		return err
	}

	for i := range notifications {
		if notifications[i].ID == id {
			notifications = append(notifications[:i], notifications[i+1:]...)
			_, err := s.store.SaveNotifications(ctx, notifications, rev)
			return err
		}
	}
	return fmt.Errorf("notification %q: %w", id, store.ErrNotFound)
}

// ClearFor removes every notification addressed to email.
func (s *Service) ClearFor(ctx context.Context, email string) error {
	notifications, rev, err := s.store.Notifications(ctx)
	if err != nil {
		return err
	}

	remaining := notifications[:0]
	for _, n := range notifications {
		if n.To != email {
			remaining = append(remaining, n)
		}
	}
	if len(remaining) == len(notifications) {
		return nil
	}

	_, err = s.store.SaveNotifications(ctx, remaining, rev)
	return err
}

// RecordActivity prepends an event to the global activity feed.
func (s *Service) RecordActivity(ctx context.Context, activity store.Activity) error {
	if activity.Timestamp == 0 {
		activity.Timestamp = store.NowMillis()
	}

	activities, rev, err := s.store.Activities(ctx)
	if err != nil {
		return err
	}
	activities = append([]store.Activity{activity}, activities...)

	_, err = s.store.SaveActivities(ctx, activities, rev)
	return err
}

// RecentActivities returns the newest activities, capped for display.
func (s *Service) RecentActivities(ctx context.Context) ([]store.Activity, error) {
	activities, _, err := s.store.Activities(ctx)
	if err != nil {
		return nil, err
	}
	if len(activities) > activityDisplayCap {
		activities = activities[:activityDisplayCap]
	}
	return activities, nil
}
