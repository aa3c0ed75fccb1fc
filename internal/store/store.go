// ABOUTME: KV substrate contract and the persisted aggregates for Anglers Hub
// ABOUTME: Defines User, Post, Notification, Activity, Message and store keys

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested key or entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrUserNotFound is returned when an operation references an unknown user.
var ErrUserNotFound = errors.New("user not found")

// ErrConflict is returned when a save loses an optimistic revision check.
var ErrConflict = errors.New("revision conflict")

// ErrCorruptData is returned when a stored value exists but cannot be decoded.
// A missing key is an empty collection; malformed JSON never silently is.
var ErrCorruptData = errors.New("corrupt store data")

// Store keys. The namespace is flat; every collection lives whole under one key.
const (
	KeyUsers         = "users"
	KeyCurrentUser   = "currentUser"
	KeyNotifications = "notifications"
	KeyActivities    = "activities"
	KeyConversations = "conversations"
)

// RevAny skips the revision check on Put, making the write last-wins.
const RevAny int64 = -1

// KV is the flat key-value substrate backing all collections. Values are JSON
// text. Every key carries a revision that increments on each successful Put.
type KV interface {
	// Get returns the value and current revision for key, or ErrNotFound.
	Get(ctx context.Context, key string) (value string, rev int64, err error)

	// Put writes value under key. expectRev must match the current revision
	// (0 for a key that must not exist yet, RevAny to skip the check) or
	// ErrConflict is returned. The new revision is returned on success.
	Put(ctx context.Context, key, value string, expectRev int64) (int64, error)

	// Delete removes key. Deleting a missing key returns ErrNotFound.
	Delete(ctx context.Context, key string) error

	// Keys lists all keys currently present.
	Keys(ctx context.Context) ([]string, error)

	// Close releases any resources held by the substrate.
	Close() error
}

// User is the full per-user aggregate. Friends and friend requests are stored
// inline; friendship is two independent back-references kept symmetric by the
// social service. Field names match the persisted JSON exactly so browser
// profile exports import cleanly.
type User struct {
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	PasswordHash   string          `json:"passwordHash"`
	Friends        []string        `json:"friends"`
	FriendRequests []FriendRequest `json:"friendRequests"`
	Posts          []Post          `json:"posts"`
	ProfilePic     string          `json:"profilePic,omitempty"`
}

// FriendRequest is a pending directional edge, materialized only on the
// recipient's record. At most one entry per sender.
type FriendRequest struct {
	From      string `json:"from"`
	Timestamp int64  `json:"timestamp"`
}

// Post is a media post embedded in its owner's record. Img holds the media
// inline as a data URL; there are no external asset references.
type Post struct {
	Img       string `json:"img"`
	Caption   string `json:"caption"`
	Timestamp int64  `json:"timestamp"`
	MediaType string `json:"mediaType"` // "image" or "video"
}

// Notification kinds.
const (
	NotifyInfo          = "info"
	NotifyFriendRequest = "friend_request"
	NotifyFriendAccept  = "friend_accept"
	NotifyMessage       = "message"
)

// Notification is one entry in the global newest-first notification list.
// Immutable except for Read. The ID is assigned at creation and is the only
// way a notification is addressed.
type Notification struct {
	ID        string `json:"id"`
	To        string `json:"to"`
	From      string `json:"from,omitempty"`
	Text      string `json:"text"`
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
	Read      bool   `json:"read"`
}

// Activity kinds.
const (
	ActivityPost       = "post"
	ActivityProfilePic = "profile_pic"
)

// Activity is one entry in the global newest-first activity feed.
type Activity struct {
	Type      string `json:"type"`
	User      string `json:"user"`
	Img       string `json:"img,omitempty"`
	Caption   string `json:"caption,omitempty"`
	MediaType string `json:"mediaType,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// Message is one chat message within a pairwise conversation.
type Message struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// Session is the lightweight projection of the logged-in user.
type Session struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NowMillis returns the current time as epoch milliseconds, the timestamp
// representation used throughout the persisted aggregates.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}

// EnsureFields backfills the slice fields of a user record so older or
// imported records behave like freshly created ones.
func (u *User) EnsureFields() {
	if u.Friends == nil {
		u.Friends = []string{}
	}
	if u.FriendRequests == nil {
		u.FriendRequests = []FriendRequest{}
	}
	if u.Posts == nil {
		u.Posts = []Post{}
	}
}

// FindUser returns a pointer to the user with the given email, or nil.
// Email matching is exact and case-sensitive everywhere.
func FindUser(users []User, email string) *User {
	for i := range users {
		if users[i].Email == email {
			return &users[i]
		}
	}
	return nil
}

// UpsertUser replaces the record matching user.Email, or appends it.
func UpsertUser(users []User, user User) []User {
	for i := range users {
		if users[i].Email == user.Email {
			users[i] = user
			return users
		}
	}
	return append(users, user)
}
