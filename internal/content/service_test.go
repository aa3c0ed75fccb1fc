// ABOUTME: Tests for posts, profile pictures, the gallery, and activity events.

package content

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anglershub/hub/internal/feed"
	"github.com/anglershub/hub/internal/identity"
	"github.com/anglershub/hub/internal/store"
)

func newContentFixture(t *testing.T, emails ...string) (*Service, *feed.Service) {
	t.Helper()
	c := store.NewCollections(store.NewMemoryKV())
	f := feed.NewService(c)
	ids := identity.NewService(c, identity.NewSessions(c, store.NewCollections(store.NewMemoryKV())))

	ctx := context.Background()
	for _, email := range emails {
		_, err := ids.SignUp(ctx, "", email, "pw")
		require.NoError(t, err)
	}
	return NewService(c, f), f
}

func TestAddPost(t *testing.T) {
	svc, f := newContentFixture(t, "juan@example.com")
	ctx := context.Background()

	post, err := svc.AddPost(ctx, "juan@example.com", "data:image/png;base64,aaa", "first catch", "image")
	require.NoError(t, err)
	assert.NotZero(t, post.Timestamp)

	_, err = svc.AddPost(ctx, "juan@example.com", "data:video/mp4;base64,bbb", "on video", "video")
	require.NoError(t, err)

	posts, err := svc.Posts(ctx, "juan@example.com")
	require.NoError(t, err)
	require.Len(t, posts, 2)
	// Newest first.
	assert.Equal(t, "on video", posts[0].Caption)
	assert.Equal(t, "video", posts[0].MediaType)
	assert.Equal(t, "first catch", posts[1].Caption)

	activities, err := f.RecentActivities(ctx)
	require.NoError(t, err)
	require.Len(t, activities, 2)
	assert.Equal(t, store.ActivityPost, activities[0].Type)
	assert.Equal(t, "juan@example.com", activities[0].User)
}

func TestAddPostDefaultsToImage(t *testing.T) {
	svc, _ := newContentFixture(t, "juan@example.com")

	post, err := svc.AddPost(context.Background(), "juan@example.com", "data:image/png;base64,aaa", "", "")
	require.NoError(t, err)
	assert.Equal(t, "image", post.MediaType)
}

func TestAddPostUnknownOwner(t *testing.T) {
	svc, _ := newContentFixture(t)

	_, err := svc.AddPost(context.Background(), "ghost@example.com", "x", "", "image")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestSetProfilePic(t *testing.T) {
	svc, f := newContentFixture(t, "juan@example.com")
	ctx := context.Background()

	require.NoError(t, svc.SetProfilePic(ctx, "juan@example.com", "data:image/png;base64,pic"))

	activities, err := f.RecentActivities(ctx)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, store.ActivityProfilePic, activities[0].Type)

	assert.ErrorIs(t, svc.SetProfilePic(ctx, "ghost@example.com", "x"), store.ErrUserNotFound)
}

func TestGallery(t *testing.T) {
	svc, _ := newContentFixture(t, "juan@example.com", "maria@example.com")
	ctx := context.Background()

	_, err := svc.AddPost(ctx, "juan@example.com", "data:image/png;base64,one", "tuna", "image")
	require.NoError(t, err)
	_, err = svc.AddPost(ctx, "maria@example.com", "data:image/png;base64,two", "", "image")
	require.NoError(t, err)
	// Videos stay out of the gallery.
	_, err = svc.AddPost(ctx, "maria@example.com", "data:video/mp4;base64,vid", "clip", "video")
	require.NoError(t, err)

	tiles, err := svc.Gallery(ctx)
	require.NoError(t, err)
	require.Len(t, tiles, 2)
	for _, tile := range tiles {
		assert.NotEmpty(t, tile.Img)
		assert.NotEmpty(t, tile.UserName)
	}
}

func TestUnlocked(t *testing.T) {
	svc, _ := newContentFixture(t, "juan@example.com")
	ctx := context.Background()

	unlocked, err := svc.Unlocked(ctx, "juan@example.com")
	require.NoError(t, err)
	assert.Empty(t, unlocked)

	_, err = svc.AddPost(ctx, "juan@example.com", "data:image/png;base64,x", "Caught one! UNLOCKED (Tuna)", "image")
	require.NoError(t, err)

	unlocked, err = svc.Unlocked(ctx, "juan@example.com")
	require.NoError(t, err)
	assert.True(t, unlocked["tuna"])
	assert.Len(t, unlocked, 1)
}
