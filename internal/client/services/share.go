package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/safedocs/internal/client/client"
	"github.com/dmitrijs2005/safedocs/internal/client/models"
	"github.com/dmitrijs2005/safedocs/internal/logging"
)

var (
	ErrShareFailed   = errors.New("failed to generate share link")
	ErrNoDocument    = errors.New("no document selected")
	ErrNoLink        = errors.New("no share link generated")
	ErrClipboardCopy = errors.New("failed to copy link")
)

// Copier puts text on the clipboard.
type Copier interface {
	Copy(text string) error
}

// ShareDialog is the lifecycle of sharing one document: open it for a
// document, mint a fresh link, show and copy it, close. Links are never
// cached; every Generate asks the backend for a new one.
type ShareDialog interface {
	Open(doc models.Document)
	Document() (models.Document, bool)
	Generate(ctx context.Context) (*models.SharedLink, error)
	Link() (*models.SharedLink, bool)
	URL() (string, error)
	Status() (models.LinkStatus, int, error)
	Copy(ctx context.Context) error
	Copied() bool
	Err() error
	Close()
}

type shareDialog struct {
	client client.Client
	copier Copier
	origin string
	log    logging.Logger
	now    func() time.Time

	mu     sync.Mutex
	doc    *models.Document
	link   *models.SharedLink
	err    error
	copied bool
}

// NewShareDialog builds a dialog rendering links under origin.
func NewShareDialog(c client.Client, copier Copier, origin string, log logging.Logger) ShareDialog {
	if log == nil {
		log = logging.Nop()
	}
	return &shareDialog{
		client: c,
		copier: copier,
		origin: origin,
		log:    log.With("service", "share"),
		now:    time.Now,
	}
}

func (s *shareDialog) Open(doc models.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = &doc
	s.link, s.err, s.copied = nil, nil, false
}

func (s *shareDialog) Document() (models.Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return models.Document{}, false
	}
	return *s.doc, true
}

func (s *shareDialog) Generate(ctx context.Context) (*models.SharedLink, error) {
	doc, ok := s.Document()
	if !ok {
		return nil, ErrNoDocument
	}

	s.mu.Lock()
	s.err, s.copied = nil, false
	s.mu.Unlock()

	link, err := s.client.CreateSharedLink(ctx, doc.ID)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrShareFailed, err)
		s.log.Warn(ctx, "share link not created", "document", doc.ID, "error", err)

		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		return nil, err
	}

	s.mu.Lock()
	s.link = link
	s.mu.Unlock()

	s.log.Info(ctx, "share link created", "document", doc.ID, "expires", link.ExpiresAt)
	cp := *link
	return &cp, nil
}

func (s *shareDialog) Link() (*models.SharedLink, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.link == nil {
		return nil, false
	}
	cp := *s.link
	return &cp, true
}

func (s *shareDialog) URL() (string, error) {
	link, ok := s.Link()
	if !ok {
		return "", ErrNoLink
	}
	return link.URL(s.origin), nil
}

// Status reports the link state and whole days left.
func (s *shareDialog) Status() (models.LinkStatus, int, error) {
	link, ok := s.Link()
	if !ok {
		return "", 0, ErrNoLink
	}
	now := s.now()
	return link.Status(now), link.DaysRemaining(now), nil
}

func (s *shareDialog) Copy(ctx context.Context) error {
	url, err := s.URL()
	if err != nil {
		return err
	}

	if err := s.copier.Copy(url); err != nil {
		s.log.Warn(ctx, "copy failed", "error", err)
		return fmt.Errorf("%w: %w", ErrClipboardCopy, err)
	}

	s.mu.Lock()
	s.copied = true
	s.mu.Unlock()
	return nil
}

func (s *shareDialog) Copied() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copied
}

func (s *shareDialog) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *shareDialog) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc, s.link, s.err, s.copied = nil, nil, nil, false
}
