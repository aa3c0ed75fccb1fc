// ABOUTME: Typed whole-collection accessors over the KV substrate
// ABOUTME: Load returns the revision that a later Save must present

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Collections provides typed load/save for the named store keys. Every
// mutation in the system is load-whole-collection, modify, save-whole-
// collection; the revision returned by a load guards the matching save.
//
// A missing key loads as an empty collection with revision 0. A present but
// malformed value loads as ErrCorruptData and is never masked as empty.
type Collections struct {
	kv KV
}

// NewCollections wraps a KV substrate.
func NewCollections(kv KV) *Collections {
	return &Collections{kv: kv}
}

// KV exposes the underlying substrate, for operator tooling only.
func (c *Collections) KV() KV {
	return c.kv
}

func (c *Collections) load(ctx context.Context, key string, out any) (int64, error) {
	value, rev, err := c.kv.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if err := json.Unmarshal([]byte(value), out); err != nil {
		return 0, fmt.Errorf("decoding %q: %w: %v", key, ErrCorruptData, err)
	}
	return rev, nil
}

func (c *Collections) save(ctx context.Context, key string, in any, rev int64) (int64, error) {
	data, err := json.Marshal(in)
	if err != nil {
		return 0, fmt.Errorf("encoding %q: %w", key, err)
	}
	return c.kv.Put(ctx, key, string(data), rev)
}

// Users loads the full user collection.
func (c *Collections) Users(ctx context.Context) ([]User, int64, error) {
	var users []User
	rev, err := c.load(ctx, KeyUsers, &users)
	return users, rev, err
}

// SaveUsers overwrites the user collection.
func (c *Collections) SaveUsers(ctx context.Context, users []User, rev int64) (int64, error) {
	return c.save(ctx, KeyUsers, users, rev)
}

// Notifications loads the global notification list, newest first.
func (c *Collections) Notifications(ctx context.Context) ([]Notification, int64, error) {
	var notifications []Notification
	rev, err := c.load(ctx, KeyNotifications, &notifications)
	return notifications, rev, err
}

// SaveNotifications overwrites the notification list.
func (c *Collections) SaveNotifications(ctx context.Context, notifications []Notification, rev int64) (int64, error) {
	return c.save(ctx, KeyNotifications, notifications, rev)
}

// Activities loads the global activity feed, newest first.
func (c *Collections) Activities(ctx context.Context) ([]Activity, int64, error) {
	var activities []Activity
	rev, err := c.load(ctx, KeyActivities, &activities)
	return activities, rev, err
}

// SaveActivities overwrites the activity feed.
func (c *Collections) SaveActivities(ctx context.Context, activities []Activity, rev int64) (int64, error) {
	return c.save(ctx, KeyActivities, activities, rev)
}

// Conversations loads the pair-key to message-list mapping.
func (c *Collections) Conversations(ctx context.Context) (map[string][]Message, int64, error) {
	conversations := make(map[string][]Message)
	rev, err := c.load(ctx, KeyConversations, &conversations)
	return conversations, rev, err
}

// SaveConversations overwrites the conversation mapping.
func (c *Collections) SaveConversations(ctx context.Context, conversations map[string][]Message, rev int64) (int64, error) {
	return c.save(ctx, KeyConversations, conversations, rev)
}

// Session loads the session projection, or nil when none is stored.
func (c *Collections) Session(ctx context.Context) (*Session, error) {
	var session Session
	value, _, err := c.kv.Get(ctx, KeyCurrentUser)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(value), &session); err != nil {
		return nil, fmt.Errorf("decoding %q: %w: %v", KeyCurrentUser, ErrCorruptData, err)
	}
	return &session, nil
}

// SaveSession stores the session projection. Session writes are deliberate
// last-wins; there is no meaningful concurrent editor of the current user.
func (c *Collections) SaveSession(ctx context.Context, session Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encoding %q: %w", KeyCurrentUser, err)
	}
	_, err = c.kv.Put(ctx, KeyCurrentUser, string(data), RevAny)
	return err
}

// ClearSession removes any stored session projection.
func (c *Collections) ClearSession(ctx context.Context) error {
	err := c.kv.Delete(ctx, KeyCurrentUser)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}
