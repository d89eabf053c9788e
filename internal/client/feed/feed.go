// Package feed holds the in-memory post list and reconciles it with
// the backend: a successful call mutates local state from the server's
// response without re-fetching the authoritative value.
package feed

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/feedbird/feedbird/internal/client/api"
	"github.com/feedbird/feedbird/internal/models"
)

// IdentitySource exposes the current user for local ownership checks.
// The session store satisfies it.
type IdentitySource interface {
	CurrentUser() *models.Identity
}

// postsResponse is the shape of the post list endpoint.
type postsResponse struct {
	Posts []models.Post `json:"posts"`
}

// postResponse is the shape of the post creation endpoint.
type postResponse struct {
	Post models.Post `json:"post"`
}

// commentResponse is the shape of the comment creation endpoint.
type commentResponse struct {
	Comment models.Comment `json:"comment"`
}

// Store owns the ordered post sequence, newest first. Posts are only
// mutated through the store's operations, never by consumers.
type Store struct {
	api     *api.Client
	session IdentitySource
	log     *zap.Logger

	mu      sync.Mutex
	posts   []models.Post
	subs    map[int]func()
	nextSub int
}

// New constructs a feed Store with an empty post list.
func New(apiClient *api.Client, session IdentitySource, log *zap.Logger) *Store {
	return &Store{
		api:     apiClient,
		session: session,
		log:     log,
		subs:    make(map[int]func()),
	}
}

// Subscribe registers fn to run after every state change and returns a
// function that removes the subscription.
func (s *Store) Subscribe(fn func()) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) notify() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Posts returns a copy of the feed, newest first. Comment slices are
// copied too so callers cannot reach store state.
func (s *Store) Posts() []models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Post, len(s.posts))
	copy(out, s.posts)
	for i := range out {
		comments := make([]models.Comment, len(out[i].Comments))
		copy(comments, out[i].Comments)
		out[i].Comments = comments
	}
	return out
}

// CanDelete reports whether the current user owns the post. This gates
// the delete action in the UI; the server remains the actual authority.
func (s *Store) CanDelete(post models.Post) bool {
	user := s.session.CurrentUser()
	return user != nil && user.ID == post.AuthorID
}

// FetchPosts retrieves the full post list and replaces the local
// sequence wholesale. A missing posts field yields an empty feed.
func (s *Store) FetchPosts(ctx context.Context) error {
	var resp postsResponse
	if err := s.api.DoJSON(ctx, http.MethodGet, "/posts", nil, &resp); err != nil {
		return err
	}
	s.mu.Lock()
	s.posts = resp.Posts
	s.mu.Unlock()
	s.notify()
	return nil
}

// CreatePost publishes content and prepends the server's canonical
// record to the feed. On failure nothing is mutated and the error
// propagates for display.
func (s *Store) CreatePost(ctx context.Context, content string) error {
	body := map[string]string{"content": content}
	var resp postResponse
	if err := s.api.DoJSON(ctx, http.MethodPost, "/posts", body, &resp); err != nil {
		return err
	}
	s.mu.Lock()
	s.posts = append([]models.Post{resp.Post}, s.posts...)
	s.mu.Unlock()
	s.notify()
	return nil
}

// LikePost sends a like and, on success, bumps that post's counter by
// one locally, trusting the server to have done the same. Failure is
// logged and swallowed: liking is best effort and never blocks the
// feed.
func (s *Store) LikePost(ctx context.Context, postID int) {
	path := fmt.Sprintf("/posts/%d/like", postID)
	if err := s.api.DoJSON(ctx, http.MethodPost, path, nil, nil); err != nil {
		s.log.Warn("like failed", zap.Int("post", postID), zap.Error(err))
		return
	}
	s.mu.Lock()
	for i := range s.posts {
		if s.posts[i].ID == postID {
			s.posts[i].Likes++
			break
		}
	}
	s.mu.Unlock()
	s.notify()
}

// DeletePost removes the post on the server and then from the local
// sequence, preserving the order of the rest. Failure is logged and
// swallowed.
func (s *Store) DeletePost(ctx context.Context, postID int) {
	path := fmt.Sprintf("/posts/%d", postID)
	if err := s.api.DoJSON(ctx, http.MethodDelete, path, nil, nil); err != nil {
		s.log.Warn("delete failed", zap.Int("post", postID), zap.Error(err))
		return
	}
	s.mu.Lock()
	kept := s.posts[:0]
	for _, p := range s.posts {
		if p.ID != postID {
			kept = append(kept, p)
		}
	}
	s.posts = kept
	s.mu.Unlock()
	s.notify()
}

// AddComment posts a comment and appends the server's record to that
// post's comment list, after any existing comments. Failure is logged
// and swallowed.
func (s *Store) AddComment(ctx context.Context, postID int, text string) {
	path := fmt.Sprintf("/posts/%d/comments", postID)
	body := map[string]string{"text": text}
	var resp commentResponse
	if err := s.api.DoJSON(ctx, http.MethodPost, path, body, &resp); err != nil {
		s.log.Warn("comment failed", zap.Int("post", postID), zap.Error(err))
		return
	}
	s.mu.Lock()
	for i := range s.posts {
		if s.posts[i].ID == postID {
			s.posts[i].Comments = append(s.posts[i].Comments, resp.Comment)
			break
		}
	}
	s.mu.Unlock()
	s.notify()
}
