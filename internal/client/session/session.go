// Package session holds the client's authenticated identity and drives
// the credential lifecycle: startup validation, login, registration,
// logout, and profile updates.
package session

import (
	"context"
	"io"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/feedbird/feedbird/internal/client/api"
	"github.com/feedbird/feedbird/internal/models"
)

// CredentialStore persists the bearer credential between runs.
type CredentialStore interface {
	// Save stores the token, replacing any previous one.
	Save(token string) error
	// Load returns the stored token and true, or "" and false.
	Load() (string, bool)
	// Clear removes the stored token.
	Clear()
}

// authResponse is the shape of login and register responses.
type authResponse struct {
	Token string          `json:"token"`
	User  models.Identity `json:"user"`
}

// profileResponse is the shape of profile fetch and update responses.
type profileResponse struct {
	User models.Identity `json:"user"`
}

// registerPayload matches the backend's registration contract, which
// nests the fields and names the display name "username".
type registerPayload struct {
	User registerUser `json:"user"`
}

type registerUser struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Img      string `json:"img"`
	Bio      string `json:"bio"`
}

// Store is the session state container. There is exactly one identity
// (or none) live at a time; every mutation replaces it wholesale and
// notifies subscribers.
type Store struct {
	api   *api.Client
	creds CredentialStore
	log   *zap.Logger

	mu      sync.Mutex
	user    *models.Identity
	loading bool
	subs    map[int]func()
	nextSub int
}

// New constructs a session Store. The store starts in the loading state
// until Init runs.
func New(apiClient *api.Client, creds CredentialStore, log *zap.Logger) *Store {
	return &Store{
		api:     apiClient,
		creds:   creds,
		log:     log,
		loading: true,
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

// notify runs the subscriber callbacks outside the lock.
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

// CurrentUser returns a copy of the authenticated identity, or nil when
// anonymous.
func (s *Store) CurrentUser() *models.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// IsAuthenticated reports whether an identity is live. It is derived
// from the identity's presence and cannot diverge from it.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil
}

// Loading reports whether startup validation is still in progress.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Init runs the one-time startup check. With no stored credential it
// settles into the anonymous state without touching the network. With
// one, it fetches the profile; any failure means the credential is
// stale, so it is removed and the client stays anonymous. Init never
// surfaces an error to the caller.
func (s *Store) Init(ctx context.Context) {
	if _, ok := s.creds.Load(); !ok {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
		s.notify()
		return
	}

	var resp profileResponse
	err := s.api.DoJSON(ctx, http.MethodGet, "/users/profile", nil, &resp)

	s.mu.Lock()
	if err != nil {
		s.creds.Clear()
		s.user = nil
		s.log.Info("stored credential rejected, starting anonymous", zap.Error(err))
	} else {
		u := resp.User
		s.user = &u
	}
	s.loading = false
	s.mu.Unlock()
	s.notify()
}

// Login authenticates with email and password. On success the returned
// credential is persisted and the identity replaced. On failure the
// server's error is returned unchanged and no state is touched.
func (s *Store) Login(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	var resp authResponse
	if err := s.api.DoJSON(ctx, http.MethodPost, "/users/login", body, &resp); err != nil {
		return err
	}
	return s.establish(resp)
}

// Register creates an account and signs in with it. Success and failure
// behave exactly like Login.
func (s *Store) Register(ctx context.Context, name, email, password string) error {
	body := registerPayload{User: registerUser{
		Username: name,
		Email:    email,
		Password: password,
	}}
	var resp authResponse
	if err := s.api.DoJSON(ctx, http.MethodPost, "/users", body, &resp); err != nil {
		return err
	}
	return s.establish(resp)
}

// establish persists the credential and installs the identity after a
// successful login or registration.
func (s *Store) establish(resp authResponse) error {
	if err := s.creds.Save(resp.Token); err != nil {
		return err
	}
	s.mu.Lock()
	u := resp.User
	s.user = &u
	s.mu.Unlock()
	s.notify()
	return nil
}

// Logout removes the credential and clears the identity. It cannot
// fail; navigation back to the login view is the caller's job.
func (s *Store) Logout() {
	s.creds.Clear()
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
	s.notify()
}

// UpdateProfile changes the display name and, when avatar is non-nil,
// uploads a new avatar image via a multipart request. On success the
// identity is replaced with the server's record, so a changed avatar
// URL is visible immediately. On failure state is unchanged and the
// error propagates for display.
func (s *Store) UpdateProfile(ctx context.Context, name string, avatar io.Reader, avatarName string) error {
	var resp profileResponse
	if avatar != nil {
		form, err := api.NewForm(map[string]string{"name": name}, "avatar", avatarName, avatar)
		if err != nil {
			return err
		}
		if err := s.api.DoJSON(ctx, http.MethodPut, "/users/profile", form, &resp); err != nil {
			return err
		}
	} else {
		body := map[string]string{"name": name}
		if err := s.api.DoJSON(ctx, http.MethodPut, "/users/profile", body, &resp); err != nil {
			return err
		}
	}

	s.mu.Lock()
	u := resp.User
	s.user = &u
	s.mu.Unlock()
	s.notify()
	return nil
}
