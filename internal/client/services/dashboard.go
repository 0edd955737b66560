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

var ErrDeleteFailed = errors.New("failed to delete document")

// Dashboard holds the user's document list. The list is a snapshot that is
// replaced wholesale on every fetch; nothing is patched locally.
type Dashboard interface {
	Refresh(ctx context.Context) error
	Documents() []models.Document
	Stats() models.Stats
	FetchedAt() time.Time
	Search(query string) []models.Document
	Find(id int64) (models.Document, bool)
	// Delete asks confirm first and does nothing when it declines. On
	// success the list is fetched again.
	Delete(ctx context.Context, id int64, confirm func() bool) (bool, error)
}

type dashboard struct {
	client client.Client
	log    logging.Logger
	now    func() time.Time

	mu        sync.RWMutex
	docs      []models.Document
	stats     models.Stats
	fetchedAt time.Time
}

func NewDashboard(c client.Client, log logging.Logger) Dashboard {
	if log == nil {
		log = logging.Nop()
	}
	return &dashboard{client: c, log: log.With("service", "dashboard"), now: time.Now}
}

func (d *dashboard) Refresh(ctx context.Context) error {
	docs, err := d.client.ListDocuments(ctx)
	if err != nil {
		return fmt.Errorf("fetch documents: %w", err)
	}

	now := d.now()
	stats := models.ComputeStats(docs, now)

	d.mu.Lock()
	d.docs, d.stats, d.fetchedAt = docs, stats, now
	d.mu.Unlock()

	d.log.Debug(ctx, "documents fetched", "count", len(docs))
	return nil
}

func (d *dashboard) Documents() []models.Document {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]models.Document(nil), d.docs...)
}

func (d *dashboard) Stats() models.Stats {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.stats
}

func (d *dashboard) FetchedAt() time.Time {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.fetchedAt
}

func (d *dashboard) Search(query string) []models.Document {
	return models.FilterByName(d.Documents(), query)
}

func (d *dashboard) Find(id int64) (models.Document, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, doc := range d.docs {
		if doc.ID == id {
			return doc, true
		}
	}
	return models.Document{}, false
}

func (d *dashboard) Delete(ctx context.Context, id int64, confirm func() bool) (bool, error) {
	if confirm != nil && !confirm() {
		return false, nil
	}

	if err := d.client.DeleteDocument(ctx, id); err != nil {
		d.log.Warn(ctx, "delete failed", "id", id, "error", err)
		return false, fmt.Errorf("%w: %w", ErrDeleteFailed, err)
	}
	d.log.Info(ctx, "document deleted", "id", id)

	if err := d.Refresh(ctx); err != nil {
		return true, err
	}
	return true, nil
}
