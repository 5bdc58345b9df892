package reactions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buzzline/internal/models"
	"buzzline/internal/store"
)

func seedPost(t *testing.T, st *store.Memory, id, handle string) {
	t.Helper()
	err := st.Set(context.Background(), store.Posts, id, store.Document{
		"body":          "hello world",
		"user_handle":   handle,
		"user_image":    "https://img.example/" + handle + ".png",
		"like_count":    0,
		"comment_count": 0,
		"created_at":    time.Now().UTC(),
	})
	require.NoError(t, err)
}

func likeEvent(id, postID, handle string) Event {
	return Event{
		Collection: store.Likes,
		Kind:       EventCreate,
		ID:         id,
		Doc:        store.Document{"post_id": postID, "user_handle": handle},
	}
}

func TestNotifyOnLike(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("notifies the post author", func(t *testing.T) {
		t.Parallel()
		st := store.NewMemory()
		seedPost(t, st, "p1", "alice")

		require.NoError(t, NotifyOnLike(ctx, st, likeEvent("l1", "p1", "bob")))

		snap, err := st.Get(ctx, store.Notifications, "l1")
		require.NoError(t, err)
		require.True(t, snap.Exists, "notification should share the like's id")

		var n models.Notification
		require.NoError(t, snap.Data.Decode(&n))
		assert.Equal(t, "alice", n.Recipient)
		assert.Equal(t, "bob", n.Sender)
		assert.Equal(t, models.NotificationTypeLike, n.Type)
		assert.Equal(t, "p1", n.PostID)
		assert.False(t, n.Read)
		assert.False(t, n.CreatedAt.IsZero())
	})

	t.Run("suppresses self-likes", func(t *testing.T) {
		t.Parallel()
		st := store.NewMemory()
		seedPost(t, st, "p1", "alice")

		require.NoError(t, NotifyOnLike(ctx, st, likeEvent("l1", "p1", "alice")))

		snap, err := st.Get(ctx, store.Notifications, "l1")
		require.NoError(t, err)
		assert.False(t, snap.Exists)
	})

	t.Run("no-op when the post is gone", func(t *testing.T) {
		t.Parallel()
		st := store.NewMemory()

		require.NoError(t, NotifyOnLike(ctx, st, likeEvent("l1", "missing", "bob")))

		snap, err := st.Get(ctx, store.Notifications, "l1")
		require.NoError(t, err)
		assert.False(t, snap.Exists)
	})

	t.Run("idempotent under redelivery", func(t *testing.T) {
		t.Parallel()
		st := store.NewMemory()
		seedPost(t, st, "p1", "alice")
		ev := likeEvent("l1", "p1", "bob")

		require.NoError(t, NotifyOnLike(ctx, st, ev))
		require.NoError(t, NotifyOnLike(ctx, st, ev))

		snaps, err := st.Query(ctx, store.Notifications, nil, "")
		require.NoError(t, err)
		assert.Len(t, snaps, 1)
	})
}

func TestRemoveLikeNotification(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("removes the matching notification", func(t *testing.T) {
		t.Parallel()
		st := store.NewMemory()
		seedPost(t, st, "p1", "alice")
		require.NoError(t, NotifyOnLike(ctx, st, likeEvent("l1", "p1", "bob")))

		ev := Event{Collection: store.Likes, Kind: EventDelete, ID: "l1"}
		require.NoError(t, RemoveLikeNotification(ctx, st, ev))

		snap, err := st.Get(ctx, store.Notifications, "l1")
		require.NoError(t, err)
		assert.False(t, snap.Exists)
	})

	t.Run("missing notification is not an error", func(t *testing.T) {
		t.Parallel()
		st := store.NewMemory()
		ev := Event{Collection: store.Likes, Kind: EventDelete, ID: "never-existed"}
		assert.NoError(t, RemoveLikeNotification(ctx, st, ev))
	})
}

func TestNotifyOnComment(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	commentEvent := func(id, postID, handle string) Event {
		return Event{
			Collection: store.Comments,
			Kind:       EventCreate,
			ID:         id,
			Doc: store.Document{
				"post_id":     postID,
				"user_handle": handle,
				"body":        "nice post",
			},
		}
	}

	t.Run("notifies the post author", func(t *testing.T) {
		t.Parallel()
		st := store.NewMemory()
		seedPost(t, st, "p1", "alice")

		require.NoError(t, NotifyOnComment(ctx, st, commentEvent("c1", "p1", "bob")))

		snap, err := st.Get(ctx, store.Notifications, "c1")
		require.NoError(t, err)
		require.True(t, snap.Exists)

		var n models.Notification
		require.NoError(t, snap.Data.Decode(&n))
		assert.Equal(t, models.NotificationTypeComment, n.Type)
		assert.Equal(t, "alice", n.Recipient)
		assert.Equal(t, "bob", n.Sender)
	})

	t.Run("suppresses self-comments", func(t *testing.T) {
		t.Parallel()
		st := store.NewMemory()
		seedPost(t, st, "p1", "alice")

		require.NoError(t, NotifyOnComment(ctx, st, commentEvent("c1", "p1", "alice")))

		snap, err := st.Get(ctx, store.Notifications, "c1")
		require.NoError(t, err)
		assert.False(t, snap.Exists)
	})
}

func TestPropagateUserImage(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	userEvent := func(handle, before, after string) Event {
		return Event{
			Collection: store.Users,
			Kind:       EventUpdate,
			ID:         handle,
			Doc:        store.Document{"image_url": after},
			Before:     store.Document{"image_url": before},
		}
	}

	t.Run("updates every post by the user", func(t *testing.T) {
		t.Parallel()
		st := store.NewMemory()
		seedPost(t, st, "p1", "alice")
		seedPost(t, st, "p2", "alice")
		seedPost(t, st, "p3", "bob")

		ev := userEvent("alice", "https://img.example/old.png", "https://img.example/new.png")
		require.NoError(t, PropagateUserImage(ctx, st, ev))

		for _, id := range []string{"p1", "p2"} {
			snap, err := st.Get(ctx, store.Posts, id)
			require.NoError(t, err)
			assert.Equal(t, "https://img.example/new.png", snap.Data.String("user_image"))
		}
		snap, err := st.Get(ctx, store.Posts, "p3")
		require.NoError(t, err)
		assert.Equal(t, "https://img.example/bob.png", snap.Data.String("user_image"))
	})

	t.Run("no batch write when the image is unchanged", func(t *testing.T) {
		t.Parallel()
		st := store.NewMemory()
		seedPost(t, st, "p1", "alice")

		ev := userEvent("alice", "https://img.example/same.png", "https://img.example/same.png")
		require.NoError(t, PropagateUserImage(ctx, st, ev))
		assert.Zero(t, st.Commits())
	})

	t.Run("no commit for a user with no posts", func(t *testing.T) {
		t.Parallel()
		st := store.NewMemory()

		ev := userEvent("alice", "old", "new")
		require.NoError(t, PropagateUserImage(ctx, st, ev))
		assert.Zero(t, st.Commits())
	})

	t.Run("missing before image is reported", func(t *testing.T) {
		t.Parallel()
		st := store.NewMemory()
		ev := Event{
			Collection: store.Users,
			Kind:       EventUpdate,
			ID:         "alice",
			Doc:        store.Document{"image_url": "new"},
		}
		assert.Error(t, PropagateUserImage(ctx, st, ev))
	})
}

func TestCascadePostDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("removes all dependents in one commit", func(t *testing.T) {
		t.Parallel()
		st := store.NewMemory()
		seedPost(t, st, "p1", "alice")
		seedPost(t, st, "p2", "alice")

		for _, doc := range []store.Document{
			{"body": "one", "post_id": "p1", "user_handle": "bob", "created_at": time.Now().UTC()},
			{"body": "two", "post_id": "p1", "user_handle": "carol", "created_at": time.Now().UTC()},
			{"body": "other", "post_id": "p2", "user_handle": "bob", "created_at": time.Now().UTC()},
		} {
			_, err := st.Add(ctx, store.Comments, doc)
			require.NoError(t, err)
		}
		require.NoError(t, st.Set(ctx, store.Likes, "l1",
			store.Document{"post_id": "p1", "user_handle": "bob"}))
		require.NoError(t, NotifyOnLike(ctx, st, likeEvent("l1", "p1", "bob")))

		require.NoError(t, st.Delete(ctx, store.Posts, "p1"))
		ev := Event{Collection: store.Posts, Kind: EventDelete, ID: "p1"}
		require.NoError(t, CascadePostDelete(ctx, st, ev))

		filter := []store.Filter{{Field: "post_id", Value: "p1"}}
		for _, collection := range []string{store.Comments, store.Likes, store.Notifications} {
			snaps, err := st.Query(ctx, collection, filter, "")
			require.NoError(t, err)
			assert.Emptyf(t, snaps, "%s referencing the deleted post should be gone", collection)
		}

		// Dependents of other posts are untouched.
		others, err := st.Query(ctx, store.Comments,
			[]store.Filter{{Field: "post_id", Value: "p2"}}, "")
		require.NoError(t, err)
		assert.Len(t, others, 1)
		assert.Equal(t, 1, st.Commits())
	})

	t.Run("empty categories are skipped, not errors", func(t *testing.T) {
		t.Parallel()
		st := store.NewMemory()
		ev := Event{Collection: store.Posts, Kind: EventDelete, ID: "p1"}
		require.NoError(t, CascadePostDelete(ctx, st, ev))
		assert.Zero(t, st.Commits())
	})
}
