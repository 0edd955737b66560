package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/safedocs/internal/client/client"
	"github.com/dmitrijs2005/safedocs/internal/client/models"
	"github.com/dmitrijs2005/safedocs/internal/common"
	"github.com/dmitrijs2005/safedocs/internal/filex"
	"github.com/dmitrijs2005/safedocs/internal/logging"
	"github.com/dmitrijs2005/safedocs/internal/netx"
)

var (
	ErrInvalidToken = common.ErrInvalidToken
	ErrLinkNotFound = errors.New("share link not found or invalid")
	ErrLinkExpired  = errors.New("this share link has expired")
	ErrLinkAccess   = errors.New("could not access the shared document")
	ErrDownloadLink = errors.New("failed to generate download link")
)

// ShareViewer is the unauthenticated side of a share link.
type ShareViewer interface {
	Resolve(ctx context.Context, token string) (*models.SharedDocument, error)
	// Download saves the shared file into dir and returns the written path.
	Download(ctx context.Context, doc *models.SharedDocument, dir string) (string, error)
	// Fetch downloads one of the signed-in user's documents by minting a
	// share link for it and following that link.
	Fetch(ctx context.Context, id int64, dir string) (string, error)
}

type shareViewer struct {
	client  client.Client
	storage *http.Client
	log     logging.Logger
}

// NewShareViewer uses storage for the file transfer itself; the signed
// download URL needs no API credentials.
func NewShareViewer(c client.Client, storage *http.Client, log logging.Logger) ShareViewer {
	if storage == nil {
		storage = http.DefaultClient
	}
	if log == nil {
		log = logging.Nop()
	}
	return &shareViewer{client: c, storage: storage, log: log.With("service", "viewer")}
}

func (v *shareViewer) Resolve(ctx context.Context, token string) (*models.SharedDocument, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}

	doc, err := v.client.GetSharedDocument(ctx, token)
	if err != nil {
		v.log.Warn(ctx, "share link lookup failed", "error", err)
		return nil, mapShareError(err)
	}
	return doc, nil
}

func mapShareError(err error) error {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusNotFound:
			return ErrLinkNotFound
		case http.StatusGone:
			return ErrLinkExpired
		}
	}
	if errors.Is(err, common.ErrInvalidToken) {
		return ErrInvalidToken
	}
	return fmt.Errorf("%w: %w", ErrLinkAccess, err)
}

func (v *shareViewer) Download(ctx context.Context, doc *models.SharedDocument, dir string) (string, error) {
	if doc == nil || doc.DownloadURL == "" {
		return "", ErrLinkAccess
	}

	if dir == "" {
		dir = "."
	}
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return "", err
	}
	path := filepath.Join(abs, filex.SafeFileName(doc.FileName(), models.DefaultSharedFileName))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}

	n, err := netx.DownloadFromPresignedURL(ctx, v.storage, doc.DownloadURL, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("download: %w", err)
	}

	v.log.Info(ctx, "shared document saved", "path", path, "bytes", n)
	return path, nil
}

func (v *shareViewer) Fetch(ctx context.Context, id int64, dir string) (string, error) {
	link, err := v.client.CreateSharedLink(ctx, id)
	if err != nil {
		v.log.Warn(ctx, "download link not created", "document", id, "error", err)
		return "", fmt.Errorf("%w: %w", ErrDownloadLink, err)
	}

	doc, err := v.Resolve(ctx, link.Token)
	if err != nil {
		return "", err
	}
	return v.Download(ctx, doc, dir)
}
