// ABOUTME: Posts and profile media embedded in the owner's user record
// ABOUTME: Every content write records an activity feed event

package content

import (
	"context"
	"log/slog"
	"sort"

	"github.com/anglershub/hub/internal/feed"
	"github.com/anglershub/hub/internal/store"
)

// GalleryTile is one image post flattened out of its owner's record for the
// shared gallery view.
type GalleryTile struct {
	Img       string `json:"img"`
	UserEmail string `json:"userEmail"`
	UserName  string `json:"userName"`
	Caption   string `json:"caption,omitempty"`
}

// Service manages posts and profile pictures.
type Service struct {
	store  *store.Collections
	feed   *feed.Service
	logger *slog.Logger
}

// NewService creates a content service.
func NewService(c *store.Collections, f *feed.Service) *Service {
	return &Service{
		store:  c,
		feed:   f,
		logger: slog.Default().With("component", "content"),
	}
}

// AddPost prepends a post to the owner's embedded list and records a post
// activity. Media is stored inline as a data URL. mediaType defaults to
// "image" when empty.
func (s *Service) AddPost(ctx context.Context, owner, media, caption, mediaType string) (*store.Post, error) {
	if mediaType != "video" {
		mediaType = "image"
	}

	users, rev, err := s.store.Users(ctx)
	if err != nil {
		return nil, err
	}
	user := store.FindUser(users, owner)
	if user == nil {
		return nil, store.ErrUserNotFound
	}
	user.EnsureFields()

	post := store.Post{
		Img:       media,
		Caption:   caption,
		Timestamp: store.NowMillis(),
		MediaType: mediaType,
	}
	user.Posts = append([]store.Post{post}, user.Posts...)

	if _, err := s.store.SaveUsers(ctx, users, rev); err != nil {
		return nil, err
	}

	activity := store.Activity{
		Type:      store.ActivityPost,
		User:      owner,
		Img:       media,
		Caption:   caption,
		MediaType: mediaType,
		Timestamp: post.Timestamp,
	}
	if err := s.feed.RecordActivity(ctx, activity); err != nil {
		return nil, err
	}

	s.logger.Info("post added", "owner", owner, "mediaType", mediaType)
	return &post, nil
}

// Posts returns the owner's posts, newest first.
func (s *Service) Posts(ctx context.Context, owner string) ([]store.Post, error) {
	users, _, err := s.store.Users(ctx)
	if err != nil {
		return nil, err
	}
	user := store.FindUser(users, owner)
	if user == nil {
		return nil, store.ErrUserNotFound
	}

	posts := append([]store.Post(nil), user.Posts...)
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Timestamp > posts[j].Timestamp
	})
	return posts, nil
}

// SetProfilePic replaces the owner's profile picture and records a
// profile_pic activity.
func (s *Service) SetProfilePic(ctx context.Context, owner, dataURL string) error {
	users, rev, err := s.store.Users(ctx)
	if err != nil {
		return err
	}
	user := store.FindUser(users, owner)
	if user == nil {
		return store.ErrUserNotFound
	}
	user.ProfilePic = dataURL

	if _, err := s.store.SaveUsers(ctx, users, rev); err != nil {
		return err
	}

	return s.feed.RecordActivity(ctx, store.Activity{
		Type: store.ActivityProfilePic,
		User: owner,
		Img:  dataURL,
	})
}

// Gallery flattens every user's image posts into tiles. Video posts are
// excluded; an empty mediaType counts as image for records predating the
// field.
func (s *Service) Gallery(ctx context.Context) ([]GalleryTile, error) {
	users, _, err := s.store.Users(ctx)
	if err != nil {
		return nil, err
	}

	var tiles []GalleryTile
	for _, u := range users {
		name := u.Name
		if name == "" {
			name = u.Email
		}
		for _, p := range u.Posts {
			if p.Img == "" || (p.MediaType != "" && p.MediaType != "image") {
				continue
			}
			tiles = append(tiles, GalleryTile{
				Img:       p.Img,
				UserEmail: u.Email,
				UserName:  name,
				Caption:   p.Caption,
			})
		}
	}
	return tiles, nil
}

// Unlocked returns the species keys unlocked by the user's post captions
// against the default catalog.
func (s *Service) Unlocked(ctx context.Context, email string) (map[string]bool, error) {
	users, _, err := s.store.Users(ctx)
	if err != nil {
		return nil, err
	}
	user := store.FindUser(users, email)
	if user == nil {
		return nil, store.ErrUserNotFound
	}
	return UnlockedSpecies(user.Posts, DefaultSpecies), nil
}
