package repository

import (
	"context"
	"fmt"
	"sort"

	"alumniconnect/internal/events"
	"alumniconnect/internal/model"
	"alumniconnect/internal/store"
)

func (r *kvRepository) ListPosts(ctx context.Context) ([]model.Post, error) {
	posts, _, err := r.store.Posts.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Timestamp > posts[j].Timestamp
	})
	return posts, nil
}

// CreatePost stores a caller-built post at the head of the feed. A missing id
// or timestamp is filled in.
func (r *kvRepository) CreatePost(ctx context.Context, post model.Post) (model.Post, error) {
	if post.ID == "" {
		post.ID = r.newID()
	}
	if post.Timestamp == 0 {
		post.Timestamp = r.nowMillis()
	}
	post.Normalize()

	rev, _, err := r.store.Posts.Update(ctx, func(posts []model.Post) ([]model.Post, bool) {
		return append([]model.Post{post}, posts...), true
	})
	if err != nil {
		return model.Post{}, fmt.Errorf("failed to create post: %w", err)
	}

	r.publish(ctx, events.PostCreated, store.CollectionPosts, rev)
	return post, nil
}

func (r *kvRepository) ToggleLikePost(ctx context.Context, postID, userID string) error {
	var authorID string
	rev, changed, err := r.store.Posts.Update(ctx, func(posts []model.Post) ([]model.Post, bool) {
		i := indexOfPost(posts, postID)
		if i < 0 {
			return posts, false
		}
		p := &posts[i]
		if p.LikedBy(userID) {
			p.Likes = removeID(p.Likes, userID)
		} else {
			p.Likes = append(p.Likes, userID)
		}
		authorID = p.AuthorID
		return posts, true
	})
	if err != nil {
		return fmt.Errorf("failed to toggle like: %w", err)
	}
	if changed {
		r.publish(ctx, events.PostLiked, store.CollectionPosts, rev, authorID, userID)
	}
	return nil
}

func indexOfPost(posts []model.Post, id string) int {
	for i := range posts {
		if posts[i].ID == id {
			return i
		}
	}
	return -1
}
