package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	dErrors "glimpse/pkg/domain-errors"
)

// Post is the read-through projection used to render feed entries. The
// backend owns the authoritative state; this is never written back.
type Post struct {
	ID         string
	AuthorID   string
	AuthorName string
	ImageKey   string
	Caption    string
	LikeCount  int
	Liked      bool
}

// Comment is the read-through projection of a post comment.
type Comment struct {
	ID         string
	AuthorID   string
	AuthorName string
	Text       string
}

type postPayload struct {
	ID         json.Number `json:"id"`
	AuthorID   json.Number `json:"author_id"`
	AuthorName string      `json:"author_name"`
	ImageKey   string      `json:"image_key"`
	Caption    string      `json:"caption"`
	LikeCount  int         `json:"like_count"`
	Liked      bool        `json:"liked"`
}

type commentPayload struct {
	ID         json.Number `json:"id"`
	AuthorID   json.Number `json:"author_id"`
	AuthorName string      `json:"author_name"`
	Text       string      `json:"text"`
}

// HomeFeed fetches the caller's home feed. Failures degrade to an empty
// feed; rendering never sees a transport error.
func (c *Client) HomeFeed(ctx context.Context, from *http.Request) []Post {
	var payload []postPayload
	err := c.GetJSON(ctx, "/api/v1/feed/home", Options{From: from, Route: "/api/v1/feed/home"}, &payload)
	if err != nil {
		c.logger.WarnContext(ctx, "home feed fetch degraded to empty", "error", err)
		return nil
	}
	return mapPosts(ctx, c, payload)
}

// Post fetches a single post, degrading to nil when unavailable.
func (c *Client) Post(ctx context.Context, from *http.Request, id string) *Post {
	var payload postPayload
	path := fmt.Sprintf("/api/v1/posts/%s", id)
	err := c.GetJSON(ctx, path, Options{From: from, Route: "/api/v1/posts/{id}"}, &payload)
	if err != nil {
		c.logger.WarnContext(ctx, "post fetch degraded to nil", "post_id", id, "error", err)
		return nil
	}
	post, err := mapPost(payload)
	if err != nil {
		c.logger.WarnContext(ctx, "post payload rejected", "post_id", id, "error", err)
		return nil
	}
	return &post
}

// PostComments fetches a post's comments, degrading to an empty list.
func (c *Client) PostComments(ctx context.Context, from *http.Request, id string) []Comment {
	var payload []commentPayload
	path := fmt.Sprintf("/api/v1/posts/%s/comments", id)
	err := c.GetJSON(ctx, path, Options{From: from, Route: "/api/v1/posts/{id}/comments"}, &payload)
	if err != nil {
		c.logger.WarnContext(ctx, "comments fetch degraded to empty", "post_id", id, "error", err)
		return nil
	}

	comments := make([]Comment, 0, len(payload))
	for _, p := range payload {
		comment, err := mapComment(p)
		if err != nil {
			c.logger.WarnContext(ctx, "comment payload skipped", "post_id", id, "error", err)
			continue
		}
		comments = append(comments, comment)
	}
	return comments
}

func mapPosts(ctx context.Context, c *Client, payload []postPayload) []Post {
	posts := make([]Post, 0, len(payload))
	for _, p := range payload {
		post, err := mapPost(p)
		if err != nil {
			c.logger.WarnContext(ctx, "feed entry skipped", "error", err)
			continue
		}
		posts = append(posts, post)
	}
	return posts
}

// mapPost converts the snake_case wire payload, asserting required fields
// instead of letting zero values leak into rendering.
func mapPost(p postPayload) (Post, error) {
	if p.ID.String() == "" || p.ImageKey == "" {
		return Post{}, dErrors.New(dErrors.CodeValidation, "post payload missing required fields")
	}
	return Post{
		ID:         p.ID.String(),
		AuthorID:   p.AuthorID.String(),
		AuthorName: p.AuthorName,
		ImageKey:   p.ImageKey,
		Caption:    p.Caption,
		LikeCount:  p.LikeCount,
		Liked:      p.Liked,
	}, nil
}

func mapComment(p commentPayload) (Comment, error) {
	if p.ID.String() == "" || p.Text == "" {
		return Comment{}, dErrors.New(dErrors.CodeValidation, "comment payload missing required fields")
	}
	return Comment{
		ID:         p.ID.String(),
		AuthorID:   p.AuthorID.String(),
		AuthorName: p.AuthorName,
		Text:       p.Text,
	}, nil
}
