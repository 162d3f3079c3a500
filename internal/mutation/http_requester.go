package mutation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	dErrors "glimpse/pkg/domain-errors"
)

// LikeRequester is the thin HTTP facade for one post's like resource,
// targeting the local API mirror. It requires a session token and refuses to
// issue anonymous calls.
type LikeRequester struct {
	baseURL      string
	postID       string
	sessionToken string
	httpClient   *http.Client
}

// NewLikeRequester builds the facade for a single post.
func NewLikeRequester(baseURL, postID, sessionToken string) *LikeRequester {
	return &LikeRequester{
		baseURL:      baseURL,
		postID:       postID,
		sessionToken: sessionToken,
		httpClient:   &http.Client{Timeout: 15 * time.Second},
	}
}

// Activate likes the post via POST.
func (r *LikeRequester) Activate(ctx context.Context) (*int, error) {
	return r.send(ctx, http.MethodPost)
}

// Deactivate unlikes the post via DELETE.
func (r *LikeRequester) Deactivate(ctx context.Context) (*int, error) {
	return r.send(ctx, http.MethodDelete)
}

func (r *LikeRequester) send(ctx context.Context, method string) (*int, error) {
	// The contract requires a session; without one the call is refused
	// before any network activity.
	if r.sessionToken == "" {
		return nil, dErrors.New(dErrors.CodeSessionInvalid, "no session")
	}

	url := fmt.Sprintf("%s/api/posts/%s/likes", r.baseURL, r.postID)
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	req.AddCookie(&http.Cookie{Name: "session", Value: r.sessionToken})

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUpstream, "like request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, dErrors.New(dErrors.CodeUpstream, fmt.Sprintf("like request returned status %d", resp.StatusCode))
	}

	var payload struct {
		Detail    string `json:"detail"`
		LikeCount *int   `json:"like_count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		// A confirmed toggle without a readable count keeps the
		// optimistic value.
		return nil, nil
	}
	return payload.LikeCount, nil
}

// CommentRequester is the thin HTTP facade for one post's comments.
type CommentRequester struct {
	baseURL      string
	postID       string
	sessionToken string
	httpClient   *http.Client
}

// NewCommentRequester builds the facade for a single post.
func NewCommentRequester(baseURL, postID, sessionToken string) *CommentRequester {
	return &CommentRequester{
		baseURL:      baseURL,
		postID:       postID,
		sessionToken: sessionToken,
		httpClient:   &http.Client{Timeout: 15 * time.Second},
	}
}

// Append posts a new comment.
func (r *CommentRequester) Append(ctx context.Context, text string) error {
	if r.sessionToken == "" {
		return dErrors.New(dErrors.CodeSessionInvalid, "no session")
	}

	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/api/posts/%s/comments", r.baseURL, r.postID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: "session", Value: r.sessionToken})

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUpstream, "comment request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return dErrors.New(dErrors.CodeUpstream, fmt.Sprintf("comment request returned status %d", resp.StatusCode))
	}
	return nil
}
