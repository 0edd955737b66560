package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/safedocs/internal/client/models"
	"github.com/dmitrijs2005/safedocs/internal/common"
	"github.com/dmitrijs2005/safedocs/internal/logging"
	"golang.org/x/oauth2"
)

const (
	pathLogin       = "/auth/login"
	pathRegister    = "/auth/register"
	pathDocuments   = "/documents"
	pathUpload      = "/documents/upload"
	pathSharedLinks = "/shared-links"
)

// maxErrorBody caps how much of an error response is read for its message.
const maxErrorBody = 64 << 10

// TokenStore is the session side the gateway needs: a bearer token source
// and the ability to drop the session when the backend rejects it.
type TokenStore interface {
	oauth2.TokenSource
	Clear(ctx context.Context) error
}

type Options struct {
	BaseURL string
	Timeout time.Duration
	Tokens  TokenStore
	Logger  logging.Logger

	// OnUnauthorized runs after the session was cleared because of a 401.
	OnUnauthorized func(ctx context.Context)

	// Transport is the base round tripper; http.DefaultTransport when nil.
	Transport http.RoundTripper
}

// HTTPClient talks JSON to the SafeDocs REST backend. Public endpoints go
// through a plain client; authenticated ones through an oauth2 transport that
// attaches the session token as a bearer header.
type HTTPClient struct {
	baseURL        string
	public         *http.Client
	authed         *http.Client
	tokens         TokenStore
	onUnauthorized func(ctx context.Context)
	log            logging.Logger
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(opts Options) (*HTTPClient, error) {
	u, err := url.Parse(opts.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid api base url %q", opts.BaseURL)
	}
	if opts.Tokens == nil {
		return nil, errors.New("token store is required")
	}

	base := opts.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}

	return &HTTPClient{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		public:  &http.Client{Timeout: opts.Timeout, Transport: base},
		authed: &http.Client{
			Timeout:   opts.Timeout,
			Transport: &oauth2.Transport{Source: opts.Tokens, Base: base},
		},
		tokens:         opts.Tokens,
		onUnauthorized: opts.OnUnauthorized,
		log:            log.With("component", "api"),
	}, nil
}

func (c *HTTPClient) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	if err := c.do(ctx, c.public, http.MethodPost, pathLogin, req, &resp); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("login response without access token: %w", common.ErrInvalidToken)
	}
	return &resp, nil
}

func (c *HTTPClient) Register(ctx context.Context, req models.RegisterRequest) error {
	return c.do(ctx, c.public, http.MethodPost, pathRegister, req, nil)
}

func (c *HTTPClient) ListDocuments(ctx context.Context) ([]models.Document, error) {
	var docs []models.Document
	if err := c.do(ctx, c.authed, http.MethodGet, pathDocuments, nil, &docs); err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []models.Document{}
	}
	return docs, nil
}

func (c *HTTPClient) DeleteDocument(ctx context.Context, id int64) error {
	return c.do(ctx, c.authed, http.MethodDelete, pathDocuments+"/"+strconv.FormatInt(id, 10), nil, nil)
}

func (c *HTTPClient) RequestUploadURL(ctx context.Context, req models.UploadRequest) (*models.UploadTicket, error) {
	var ticket models.UploadTicket
	if err := c.do(ctx, c.authed, http.MethodPost, pathUpload, req, &ticket); err != nil {
		return nil, err
	}
	if ticket.SignedURL == "" {
		return nil, errors.New("upload response without signed url")
	}
	return &ticket, nil
}

func (c *HTTPClient) CreateSharedLink(ctx context.Context, documentID int64) (*models.SharedLink, error) {
	var link models.SharedLink
	req := models.CreateSharedLinkRequest{DocumentID: documentID}
	if err := c.do(ctx, c.authed, http.MethodPost, pathSharedLinks, req, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

// GetSharedDocument resolves a share token. It never sends credentials.
func (c *HTTPClient) GetSharedDocument(ctx context.Context, token string) (*models.SharedDocument, error) {
	if strings.TrimSpace(token) == "" {
		return nil, common.ErrInvalidToken
	}
	var doc models.SharedDocument
	if err := c.do(ctx, c.public, http.MethodGet, pathSharedLinks+"/"+url.PathEscape(token), nil, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c *HTTPClient) do(ctx context.Context, hc *http.Client, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", common.ContentTypeJSON)
	if in != nil {
		req.Header.Set("Content-Type", common.ContentTypeJSON)
	}

	resp, err := hc.Do(req)
	if err != nil {
		return c.mapTransportError(ctx, err)
	}
	defer resp.Body.Close()

	c.log.Debug(ctx, "api call", "method", method, "path", path, "status", resp.StatusCode)

	if resp.StatusCode == http.StatusUnauthorized && path != pathLogin {
		c.teardown(ctx)
		return ErrUnauthorized
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{StatusCode: resp.StatusCode, Message: extractMessage(b)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *HTTPClient) mapTransportError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, ErrNoSession):
		return ErrNoSession
	case ctx.Err() != nil:
		return ctx.Err()
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

func (c *HTTPClient) teardown(ctx context.Context) {
	c.log.Warn(ctx, "session rejected by backend, signing out")
	if err := c.tokens.Clear(ctx); err != nil {
		c.log.Error(ctx, "failed to clear session", "error", err)
	}
	if c.onUnauthorized != nil {
		c.onUnauthorized(ctx)
	}
}
