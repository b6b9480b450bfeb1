// Package rest implements the backend contracts over the dev backend's HTTP
// API. Auth-state events are synthesized locally from the client's own
// sign-in and sign-out calls; the server keeps no session state beyond the
// bearer token.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/schoolspace/schoolspace/internal/backend"
	"github.com/schoolspace/schoolspace/internal/models"
)

type Client struct {
	base string
	http *http.Client

	mu      sync.Mutex
	token   string
	current *backend.Identity
	nextSub int
	subs    map[int]func(*backend.Identity)
}

// New creates a client for the backend at baseURL, e.g. "http://localhost:8080".
func New(baseURL string) *Client {
	return &Client{
		base: baseURL,
		http: &http.Client{Timeout: 15 * time.Second},
		subs: make(map[int]func(*backend.Identity)),
	}
}

// apiError is a non-2xx response carrying the server's error code.
type apiError struct {
	status int
	code   string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("backend returned %d (%s)", e.status, e.code)
}

// do sends a JSON request and decodes a JSON response into out, when non-nil.
// Transport failures come back as AuthError with kind network_failure so the
// caller can present the offline message.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, payload)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return backend.NewAuthError(backend.KindNetworkFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return &apiError{status: resp.StatusCode, code: e.Error}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// authError converts an API failure into the AuthError taxonomy. Unrecognized
// codes collapse to unknown.
func authError(err error) error {
	if e, ok := err.(*apiError); ok {
		return backend.NewAuthError(backend.ParseKind(e.code), e)
	}
	return err
}

type sessionResponse struct {
	Token   string         `json:"token"`
	Profile models.Profile `json:"profile"`
}

func (c *Client) Authenticate(ctx context.Context, email, password string) (backend.Identity, error) {
	var resp sessionResponse
	err := c.do(ctx, http.MethodPost, "/v1/sessions", map[string]string{
		"email": email, "password": password,
	}, &resp)
	if err != nil {
		return backend.Identity{}, authError(err)
	}

	ident := backend.Identity{ID: resp.Profile.ID, Email: email}
	c.setSession(resp.Token, &ident)
	return ident, nil
}

func (c *Client) Register(ctx context.Context, email, password string) (backend.Identity, error) {
	var resp sessionResponse
	err := c.do(ctx, http.MethodPost, "/v1/accounts", map[string]string{
		"email": email, "password": password,
	}, &resp)
	if err != nil {
		return backend.Identity{}, authError(err)
	}

	ident := backend.Identity{ID: resp.Profile.ID, Email: email}
	c.setSession(resp.Token, &ident)
	return ident, nil
}

// Deauthenticate drops the local session even if the server call fails; a
// dead token is not worth keeping.
func (c *Client) Deauthenticate(ctx context.Context) error {
	err := c.do(ctx, http.MethodDelete, "/v1/sessions", nil, nil)
	c.setSession("", nil)
	if err != nil {
		return authError(err)
	}
	return nil
}

func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	if err := c.do(ctx, http.MethodPost, "/v1/password-resets", map[string]string{"email": email}, nil); err != nil {
		return authError(err)
	}
	return nil
}

// SubscribeAuthState registers fn and delivers the current identity
// immediately, then once per sign-in or sign-out.
func (c *Client) SubscribeAuthState(fn func(*backend.Identity)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	cur := c.current
	c.mu.Unlock()

	fn(cur)
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

// setSession swaps the token and identity and fans out the transition.
// Callbacks run outside the lock.
func (c *Client) setSession(token string, ident *backend.Identity) {
	c.mu.Lock()
	c.token = token
	c.current = ident
	fns := make([]func(*backend.Identity), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(ident)
	}
}

func (c *Client) GetProfile(ctx context.Context, id string) (models.Profile, error) {
	var p models.Profile
	if err := c.do(ctx, http.MethodGet, "/v1/profiles/"+id, nil, &p); err != nil {
		if e, ok := err.(*apiError); ok && e.status == http.StatusNotFound {
			return models.Profile{}, backend.ErrProfileNotFound
		}
		return models.Profile{}, fmt.Errorf("get profile %s: %w", id, err)
	}
	return p, nil
}

func (c *Client) SetProfile(ctx context.Context, profile models.Profile) error {
	if err := c.do(ctx, http.MethodPut, "/v1/profiles/"+profile.ID, profile, nil); err != nil {
		return fmt.Errorf("set profile %s: %w", profile.ID, err)
	}
	return nil
}

func (c *Client) SearchProfiles(ctx context.Context, query string) ([]models.Profile, error) {
	path := "/v1/profiles"
	if query != "" {
		path += "?q=" + url.QueryEscape(query)
	}
	var profiles []models.Profile
	if err := c.do(ctx, http.MethodGet, path, nil, &profiles); err != nil {
		return nil, fmt.Errorf("search profiles: %w", err)
	}
	return profiles, nil
}

func (c *Client) CreatePost(ctx context.Context, post models.Post) (models.Post, error) {
	var created models.Post
	err := c.do(ctx, http.MethodPost, "/v1/posts", map[string]string{
		"text": post.Text, "image": post.ImageURL,
	}, &created)
	if err != nil {
		return models.Post{}, fmt.Errorf("create post: %w", err)
	}
	return created, nil
}

func (c *Client) ListPosts(ctx context.Context, limit int) ([]models.Post, error) {
	path := "/v1/posts"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var posts []models.Post
	if err := c.do(ctx, http.MethodGet, path, nil, &posts); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func (c *Client) DeletePost(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/v1/posts/"+id, nil, nil); err != nil {
		return fmt.Errorf("delete post %s: %w", id, err)
	}
	return nil
}
