package reactions

import (
	"context"
	"fmt"
	"time"

	"buzzline/internal/models"
	"buzzline/internal/store"
)

const (
	cascadeCommitAttempts = 3
	cascadeCommitBackoff  = 250 * time.Millisecond
)

// NotifyOnLike creates a notification for the post author when someone else
// likes their post. The notification shares the like's id.
func NotifyOnLike(ctx context.Context, st store.Store, ev Event) error {
	return notifyPostAuthor(ctx, st, ev, models.NotificationTypeLike)
}

// NotifyOnComment does the same for comments.
func NotifyOnComment(ctx context.Context, st store.Store, ev Event) error {
	return notifyPostAuthor(ctx, st, ev, models.NotificationTypeComment)
}

func notifyPostAuthor(ctx context.Context, st store.Store, ev Event, typ string) error {
	postID := ev.Doc.String("post_id")
	sender := ev.Doc.String("user_handle")

	post, err := st.Get(ctx, store.Posts, postID)
	if err != nil {
		return err
	}
	if !post.Exists {
		// The post is already gone; nothing to notify.
		return nil
	}

	recipient := post.Data.String("user_handle")
	if recipient == sender {
		// No self-notifications.
		return nil
	}

	return st.Set(ctx, store.Notifications, ev.ID, store.Document{
		"recipient":  recipient,
		"sender":     sender,
		"type":       typ,
		"post_id":    postID,
		"read":       false,
		"created_at": time.Now().UTC(),
	})
}

// RemoveLikeNotification deletes the notification sharing the removed
// like's id. Absence is fine: self-likes never created one.
func RemoveLikeNotification(ctx context.Context, st store.Store, ev Event) error {
	return st.Delete(ctx, store.Notifications, ev.ID)
}

// PropagateUserImage copies a changed profile image onto every post by that
// user in one atomic batch. Fires only when the image actually changed; a
// user update without a before image is reported rather than guessed at.
func PropagateUserImage(ctx context.Context, st store.Store, ev Event) error {
	if ev.Before == nil {
		return fmt.Errorf("user update for %q delivered no before image", ev.ID)
	}

	after := ev.Doc.String("image_url")
	if ev.Before.String("image_url") == after {
		return nil
	}

	posts, err := st.Query(ctx, store.Posts, []store.Filter{{Field: "user_handle", Value: ev.ID}}, "")
	if err != nil {
		return err
	}

	batch := st.Batch()
	for _, p := range posts {
		batch.Update(store.Posts, p.ID, store.Document{"user_image": after})
	}
	return batch.Commit(ctx)
}

// CascadePostDelete removes every comment, like and notification that
// references a deleted post. All three queries run first; every match is
// staged into one batch committed once, so no category is half-applied.
func CascadePostDelete(ctx context.Context, st store.Store, ev Event) error {
	batch := st.Batch()
	for _, collection := range []string{store.Comments, store.Likes, store.Notifications} {
		snaps, err := st.Query(ctx, collection, []store.Filter{{Field: "post_id", Value: ev.ID}}, "")
		if err != nil {
			return err
		}
		for _, s := range snaps {
			batch.Delete(collection, s.ID)
		}
	}

	// Unlike notifications, an incomplete cascade leaves orphans behind, so
	// the commit gets a bounded retry before giving up.
	var err error
	for attempt := 0; attempt < cascadeCommitAttempts; attempt++ {
		if err = batch.Commit(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(cascadeCommitBackoff):
		}
	}
	return fmt.Errorf("cascade for post %s: %w", ev.ID, err)
}
