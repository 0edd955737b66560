package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/safedocs/internal/client/models"
	"github.com/dmitrijs2005/safedocs/internal/common"
	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type fakeTokens struct {
	mu      sync.Mutex
	token   string
	cleared int
}

func (f *fakeTokens) Token() (*oauth2.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.token == "" {
		return nil, common.ErrNoSession
	}
	return &oauth2.Token{AccessToken: f.token, TokenType: "Bearer"}, nil
}

func (f *fakeTokens) Clear(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = ""
	f.cleared++
	return nil
}

type backend struct {
	mu       sync.Mutex
	router   *httprouter.Router
	requests []*http.Request
	bodies   []map[string]any
}

func newBackend() *backend {
	return &backend{router: httprouter.New()}
}

func (b *backend) handle(method, path string, h httprouter.Handle) {
	b.router.Handle(method, path, func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		b.mu.Lock()
		b.requests = append(b.requests, r)
		b.bodies = append(b.bodies, body)
		b.mu.Unlock()
		h(w, r, ps)
	})
}

func (b *backend) last() (*http.Request, map[string]any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.requests) == 0 {
		return nil, nil
	}
	return b.requests[len(b.requests)-1], b.bodies[len(b.bodies)-1]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, b *backend, tokens *fakeTokens, onUnauth func(context.Context)) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(b.router)
	t.Cleanup(srv.Close)

	c, err := NewHTTPClient(Options{
		BaseURL:        srv.URL + "/",
		Timeout:        5 * time.Second,
		Tokens:         tokens,
		OnUnauthorized: onUnauth,
	})
	require.NoError(t, err)
	return c
}

func TestNewHTTPClient_Validation(t *testing.T) {
	_, err := NewHTTPClient(Options{BaseURL: "not a url", Tokens: &fakeTokens{}})
	require.Error(t, err)

	_, err = NewHTTPClient(Options{BaseURL: "http://localhost:3000"})
	require.Error(t, err)
}

func TestLogin_SendsCredentialsWithoutBearer(t *testing.T) {
	b := newBackend()
	b.handle(http.MethodPost, "/auth/login", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		writeJSON(w, http.StatusOK, map[string]any{
			"accessToken": "tok",
			"user":        map[string]any{"id": 7, "name": "Ana", "email": "ana@example.com", "role": "user"},
		})
	})
	c := newTestClient(t, b, &fakeTokens{token: "stale"}, nil)

	resp, err := c.Login(context.Background(), models.LoginRequest{Email: "ana@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "tok", resp.AccessToken)
	assert.Equal(t, models.ID("7"), resp.User.ID)

	req, body := b.last()
	assert.Empty(t, req.Header.Get("Authorization"))
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.Equal(t, "ana@example.com", body["email"])
	assert.Equal(t, "pw", body["password"])
}

func TestLogin_BadCredentialsKeepsMessageAndSession(t *testing.T) {
	b := newBackend()
	b.handle(http.MethodPost, "/auth/login", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Invalid credentials"})
	})
	tokens := &fakeTokens{}
	called := false
	c := newTestClient(t, b, tokens, func(context.Context) { called = true })

	_, err := c.Login(context.Background(), models.LoginRequest{Email: "x", Password: "y"})
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", err.Error())
	assert.True(t, errors.Is(err, ErrUnauthorized))
	assert.False(t, called)
	assert.Zero(t, tokens.cleared)
}

func TestRegister_ValidationMessageArray(t *testing.T) {
	b := newBackend()
	b.handle(http.MethodPost, "/auth/register", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"message": []string{"email must be an email", "password too short"},
			"error":   "Bad Request",
		})
	})
	c := newTestClient(t, b, &fakeTokens{}, nil)

	err := c.Register(context.Background(), models.RegisterRequest{Name: "n", Email: "e", Password: "p"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "email must be an email; password too short", apiErr.Message)

	_, body := b.last()
	assert.Len(t, body, 3)
}

func TestListDocuments_AttachesBearer(t *testing.T) {
	b := newBackend()
	b.handle(http.MethodGet, "/documents", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		writeJSON(w, http.StatusOK, []map[string]any{
			{"id": 1, "originalName": "a.pdf", "fileType": "application/pdf", "fileSize": 10,
				"uploadDate": "2025-01-02T03:04:05Z", "s3Key": "k", "s3Bucket": "bkt", "filename": "f"},
		})
	})
	c := newTestClient(t, b, &fakeTokens{token: "secret"}, nil)

	docs, err := c.ListDocuments(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "a.pdf", docs[0].OriginalName)
	assert.Equal(t, "k", docs[0].StorageKey)

	req, _ := b.last()
	assert.Equal(t, "Bearer secret", req.Header.Get("Authorization"))
}

func TestListDocuments_NoSessionSkipsNetwork(t *testing.T) {
	b := newBackend()
	b.handle(http.MethodGet, "/documents", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		writeJSON(w, http.StatusOK, []any{})
	})
	c := newTestClient(t, b, &fakeTokens{}, nil)

	_, err := c.ListDocuments(context.Background())
	require.ErrorIs(t, err, ErrNoSession)

	req, _ := b.last()
	assert.Nil(t, req)
}

func TestUnauthorized_TearsDownSession(t *testing.T) {
	b := newBackend()
	b.handle(http.MethodDelete, "/documents/:id", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Unauthorized"})
	})
	tokens := &fakeTokens{token: "expired"}
	hooked := 0
	c := newTestClient(t, b, tokens, func(context.Context) { hooked++ })

	err := c.DeleteDocument(context.Background(), 42)
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 1, tokens.cleared)
	assert.Equal(t, 1, hooked)

	// the next call fails fast without reaching the backend
	err = c.DeleteDocument(context.Background(), 42)
	require.ErrorIs(t, err, ErrNoSession)
	b.mu.Lock()
	assert.Len(t, b.requests, 1)
	b.mu.Unlock()
}

func TestUnauthorized_EveryEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		path     string
		call     func(ctx context.Context, c *HTTPClient) error
		teardown bool
	}{
		{"login", http.MethodPost, "/auth/login", func(ctx context.Context, c *HTTPClient) error {
			_, err := c.Login(ctx, models.LoginRequest{Email: "a@b.c", Password: "x"})
			return err
		}, false},
		{"register", http.MethodPost, "/auth/register", func(ctx context.Context, c *HTTPClient) error {
			return c.Register(ctx, models.RegisterRequest{Name: "a", Email: "a@b.c", Password: "x"})
		}, true},
		{"list", http.MethodGet, "/documents", func(ctx context.Context, c *HTTPClient) error {
			_, err := c.ListDocuments(ctx)
			return err
		}, true},
		{"delete", http.MethodDelete, "/documents/:id", func(ctx context.Context, c *HTTPClient) error {
			return c.DeleteDocument(ctx, 1)
		}, true},
		{"upload url", http.MethodPost, "/documents/upload", func(ctx context.Context, c *HTTPClient) error {
			_, err := c.RequestUploadURL(ctx, models.UploadRequest{OriginalName: "a.pdf"})
			return err
		}, true},
		{"create link", http.MethodPost, "/shared-links", func(ctx context.Context, c *HTTPClient) error {
			_, err := c.CreateSharedLink(ctx, 1)
			return err
		}, true},
		{"shared document", http.MethodGet, "/shared-links/:token", func(ctx context.Context, c *HTTPClient) error {
			_, err := c.GetSharedDocument(ctx, "tok")
			return err
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBackend()
			b.handle(tt.method, tt.path, func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
				writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Invalid credentials"})
			})
			tokens := &fakeTokens{token: "t"}
			hooked := 0
			c := newTestClient(t, b, tokens, func(context.Context) { hooked++ })

			err := tt.call(context.Background(), c)
			require.ErrorIs(t, err, ErrUnauthorized)

			if tt.teardown {
				assert.Equal(t, 1, tokens.cleared)
				assert.Equal(t, 1, hooked)
				return
			}
			assert.Zero(t, tokens.cleared)
			assert.Zero(t, hooked)
			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, "Invalid credentials", apiErr.Message)
		})
	}
}

func TestDeleteDocument_PathAndStatus(t *testing.T) {
	b := newBackend()
	var gotID string
	b.handle(http.MethodDelete, "/documents/:id", func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		gotID = ps.ByName("id")
		w.WriteHeader(http.StatusNoContent)
	})
	c := newTestClient(t, b, &fakeTokens{token: "t"}, nil)

	require.NoError(t, c.DeleteDocument(context.Background(), 42))
	assert.Equal(t, "42", gotID)
}

func TestRequestUploadURL(t *testing.T) {
	b := newBackend()
	b.handle(http.MethodPost, "/documents/upload", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		writeJSON(w, http.StatusCreated, map[string]any{"signedUrl": "https://storage.example/put?sig=1"})
	})
	c := newTestClient(t, b, &fakeTokens{token: "t"}, nil)

	ticket, err := c.RequestUploadURL(context.Background(), models.UploadRequest{
		OriginalName: "a.pdf", FileType: "application/pdf", FileSize: 123,
	})
	require.NoError(t, err)
	assert.Equal(t, "https://storage.example/put?sig=1", ticket.SignedURL)

	_, body := b.last()
	assert.Equal(t, "a.pdf", body["originalName"])
	assert.Equal(t, "application/pdf", body["fileType"])
	assert.EqualValues(t, 123, body["fileSize"])
}

func TestRequestUploadURL_MissingURL(t *testing.T) {
	b := newBackend()
	b.handle(http.MethodPost, "/documents/upload", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		writeJSON(w, http.StatusOK, map[string]any{})
	})
	c := newTestClient(t, b, &fakeTokens{token: "t"}, nil)

	_, err := c.RequestUploadURL(context.Background(), models.UploadRequest{OriginalName: "a"})
	require.Error(t, err)
}

func TestCreateSharedLink(t *testing.T) {
	b := newBackend()
	b.handle(http.MethodPost, "/shared-links", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		writeJSON(w, http.StatusCreated, map[string]any{
			"id": 3, "token": "abc", "expiresAt": "2030-01-01T00:00:00Z",
			"accessCount": 0, "createdAt": "2029-12-25T00:00:00Z",
		})
	})
	c := newTestClient(t, b, &fakeTokens{token: "t"}, nil)

	link, err := c.CreateSharedLink(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, "abc", link.Token)
	assert.Equal(t, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), link.ExpiresAt.UTC())

	_, body := b.last()
	assert.EqualValues(t, 9, body["documentId"])
}

func TestGetSharedDocument_PublicAndStatuses(t *testing.T) {
	b := newBackend()
	b.handle(http.MethodGet, "/shared-links/:token", func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		switch ps.ByName("token") {
		case "ok":
			writeJSON(w, http.StatusOK, map[string]any{
				"downloadUrl": "https://storage.example/get",
				"document":    map[string]any{"originalName": "r.pdf", "fileType": "application/pdf", "fileSize": 5},
			})
		case "gone":
			writeJSON(w, http.StatusGone, map[string]any{"message": "Link expired"})
		default:
			writeJSON(w, http.StatusNotFound, map[string]any{"message": "Not found"})
		}
	})
	c := newTestClient(t, b, &fakeTokens{token: "t"}, nil)
	ctx := context.Background()

	doc, err := c.GetSharedDocument(ctx, "ok")
	require.NoError(t, err)
	assert.Equal(t, "r.pdf", doc.FileName())
	req, _ := b.last()
	assert.Empty(t, req.Header.Get("Authorization"))

	_, err = c.GetSharedDocument(ctx, "gone")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusGone, apiErr.StatusCode)

	_, err = c.GetSharedDocument(ctx, "missing")
	require.ErrorIs(t, err, common.ErrorNotFound)

	_, err = c.GetSharedDocument(ctx, "  ")
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestTransportFailure_IsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c, err := NewHTTPClient(Options{BaseURL: base, Tokens: &fakeTokens{token: "t"}, Timeout: time.Second})
	require.NoError(t, err)

	_, err = c.ListDocuments(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestMessageOr(t *testing.T) {
	assert.Equal(t, "boom", MessageOr(&APIError{StatusCode: 500, Message: "boom"}, "fallback"))
	assert.Equal(t, "fallback", MessageOr(&APIError{StatusCode: 500}, "fallback"))
	assert.Equal(t, "fallback", MessageOr(errors.New("x"), "fallback"))
}

func TestExtractMessage(t *testing.T) {
	cases := map[string]string{
		`{"message":"one"}`:                 "one",
		`{"message":["a","b"]}`:             "a; b",
		`{"error":"Bad Request"}`:           "Bad Request",
		`{"message":[],"error":"Conflict"}`: "Conflict",
		`not json`:                          "",
	}
	for in, want := range cases {
		assert.Equal(t, want, extractMessage([]byte(in)), in)
	}
}
