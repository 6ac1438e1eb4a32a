// Package client is the session-guard SDK for the auth service. A Session
// mirrors the server's authorization decisions on the client side: it holds
// the bearer token in a TokenStore, attaches it to outgoing requests, and
// clears local state the moment the server stops accepting it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Kind selects which principal surface the session talks to.
type Kind string

const (
	KindRider  Kind = "rider"
	KindDriver Kind = "driver"
)

// ErrLoginRequired is the redirect signal: the caller holds no usable
// session and should send the user to the kind's login view. It is returned
// without contacting the server when no token is held, and after clearing
// local state when the server rejects one.
var ErrLoginRequired = errors.New("login required")

// Principal is the client-side view of an account. Driver-only fields are
// zero for riders. The secret hash never appears on the wire.
type Principal struct {
	ID           uint64    `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName,omitempty"`
	Email        string    `json:"email"`
	Availability string    `json:"availability,omitempty"`
	Vehicle      *Vehicle  `json:"vehicle,omitempty"`
	Position     *Position `json:"position,omitempty"`
}

type Vehicle struct {
	Color    string `json:"color"`
	Plate    string `json:"plate"`
	Capacity int    `json:"capacity"`
	Type     string `json:"vehicleType"`
}

type Position struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// RegisterInput carries the registration form. ConfirmPassword is required
// for riders; Vehicle is required for drivers.
type RegisterInput struct {
	FirstName       string   `json:"firstName"`
	LastName        string   `json:"lastName,omitempty"`
	Email           string   `json:"email"`
	Password        string   `json:"password"`
	ConfirmPassword string   `json:"confirmPassword,omitempty"`
	Vehicle         *Vehicle `json:"vehicle,omitempty"`
}

// APIError is a non-2xx server response with its stable message.
type APIError struct {
	Status  int
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// Session is one principal's client-side session. Not safe for concurrent
// use; each actor owns one Session.
type Session struct {
	base      string
	kind      Kind
	http      *http.Client
	store     TokenStore
	principal *Principal
}

// NewSession builds a session against baseURL for the given kind. A nil
// store defaults to an in-memory one.
func NewSession(baseURL string, kind Kind, store TokenStore) *Session {
	if store == nil {
		store = &MemoryStore{}
	}
	return &Session{
		base:  baseURL,
		kind:  kind,
		http:  &http.Client{Timeout: 10 * time.Second},
		store: store,
	}
}

// Principal returns the locally cached principal from the last successful
// Login, Register or Profile call.
func (s *Session) Principal() *Principal { return s.principal }

func (s *Session) path(op string) string {
	return fmt.Sprintf("%s/%ss/%s", s.base, s.kind, op)
}

type authPayload struct {
	Principal *Principal `json:"principal"`
	Token     string     `json:"token"`
}

// Register creates the account and stores the returned token, so a fresh
// registration is immediately logged in.
func (s *Session) Register(ctx context.Context, in RegisterInput) (*Principal, error) {
	var out authPayload
	if err := s.postJSON(ctx, s.path("register"), in, &out); err != nil {
		return nil, err
	}
	if err := s.store.Save(out.Token); err != nil {
		return nil, fmt.Errorf("save token: %w", err)
	}
	s.principal = out.Principal
	return out.Principal, nil
}

// Login authenticates and stores the returned token.
func (s *Session) Login(ctx context.Context, email, password string) (*Principal, error) {
	var out authPayload
	in := map[string]string{"email": email, "password": password}
	if err := s.postJSON(ctx, s.path("login"), in, &out); err != nil {
		return nil, err
	}
	if err := s.store.Save(out.Token); err != nil {
		return nil, fmt.Errorf("save token: %w", err)
	}
	s.principal = out.Principal
	return out.Principal, nil
}

// Profile fetches the server-side view of the session. Absent a token it
// short-circuits to ErrLoginRequired without a request. Any rejection or
// transport failure clears the held token and principal: the session ends
// locally the moment it is no longer provably valid.
func (s *Session) Profile(ctx context.Context) (*Principal, error) {
	token, err := s.store.Load()
	if err != nil {
		return nil, fmt.Errorf("load token: %w", err)
	}
	if token == "" {
		return nil, ErrLoginRequired
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.path("profile"), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.http.Do(req)
	if err != nil {
		s.clear()
		return nil, ErrLoginRequired
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.clear()
		return nil, ErrLoginRequired
	}

	var p Principal
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		s.clear()
		return nil, ErrLoginRequired
	}
	s.principal = &p
	return &p, nil
}

// Logout tells the server to revoke the token, then unconditionally clears
// local state. Server-side revocation is best effort; the local session
// ends regardless of the request's outcome.
func (s *Session) Logout(ctx context.Context) error {
	token, err := s.store.Load()
	if err == nil && token != "" {
		if req, rerr := http.NewRequestWithContext(ctx, http.MethodGet, s.path("logout"), nil); rerr == nil {
			req.Header.Set("Authorization", "Bearer "+token)
			if resp, derr := s.http.Do(req); derr == nil {
				io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
			}
		}
	}
	s.clear()
	return nil
}

func (s *Session) clear() {
	_ = s.store.Clear()
	s.principal = nil
}

func (s *Session) postJSON(ctx context.Context, url string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		return apiErr
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
