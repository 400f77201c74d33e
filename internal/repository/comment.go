package repository

import (
	"context"
	"fmt"

	"alumniconnect/internal/events"
	"alumniconnect/internal/model"
	"alumniconnect/internal/store"
)

// AddComment appends to the post's thread. Unknown posts are ignored.
func (r *kvRepository) AddComment(ctx context.Context, postID string, comment model.Comment) error {
	if comment.ID == "" {
		comment.ID = r.newID()
	}
	if comment.Timestamp == 0 {
		comment.Timestamp = r.nowMillis()
	}

	var authorID string
	rev, changed, err := r.store.Posts.Update(ctx, func(posts []model.Post) ([]model.Post, bool) {
		i := indexOfPost(posts, postID)
		if i < 0 {
			return posts, false
		}
		posts[i].Comments = append(posts[i].Comments, comment)
		authorID = posts[i].AuthorID
		return posts, true
	})
	if err != nil {
		return fmt.Errorf("failed to add comment: %w", err)
	}
	if changed {
		r.publish(ctx, events.PostCommented, store.CollectionPosts, rev, authorID, comment.AuthorID)
	}
	return nil
}
