package upload

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/dmitrijs2005/safedocs/internal/client/client"
	"github.com/dmitrijs2005/safedocs/internal/client/models"
	"github.com/dmitrijs2005/safedocs/internal/logging"
	"github.com/dmitrijs2005/safedocs/internal/netx"
	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/errgroup"
)

const defaultRetryBase = 500 * time.Millisecond

// Backend issues pre-signed upload URLs.
type Backend interface {
	RequestUploadURL(ctx context.Context, req models.UploadRequest) (*models.UploadTicket, error)
}

// Observer receives a snapshot of a task after each state change. With more
// than one worker it is called from several goroutines.
type Observer func(task models.UploadTask)

type Options struct {
	// Workers bounds how many files are in flight. Values below 1 mean 1,
	// which uploads strictly one after another.
	Workers int
	// Retries is the number of extra storage PUT attempts after a transport
	// error or a 5xx. Zero disables retrying.
	Retries   int
	RetryBase time.Duration

	Storage  *http.Client
	Logger   logging.Logger
	Observer Observer
}

type Uploader struct {
	backend   Backend
	storage   *http.Client
	workers   int
	retries   int
	retryBase time.Duration
	observe   Observer
	log       logging.Logger
}

// Summary counts the outcome of one Run.
type Summary struct {
	Completed int
	Failed    int
}

func NewUploader(b Backend, opts Options) *Uploader {
	u := &Uploader{
		backend:   b,
		storage:   opts.Storage,
		workers:   opts.Workers,
		retries:   opts.Retries,
		retryBase: opts.RetryBase,
		observe:   opts.Observer,
		log:       opts.Logger,
	}
	if u.storage == nil {
		u.storage = http.DefaultClient
	}
	if u.workers < 1 {
		u.workers = 1
	}
	if u.retries < 0 {
		u.retries = 0
	}
	if u.retryBase <= 0 {
		u.retryBase = defaultRetryBase
	}
	if u.log == nil {
		u.log = logging.Nop()
	}
	u.log = u.log.With("component", "uploader")
	return u
}

// Run uploads every pending task of q. Per-file failures are recorded on the
// task and do not stop the run; the returned error is only the context's.
func (u *Uploader) Run(ctx context.Context, q *Queue) (Summary, error) {
	pending := q.Pending()

	var g errgroup.Group
	g.SetLimit(u.workers)

	results := make([]bool, len(pending))
	for i, task := range pending {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			results[i] = u.process(ctx, q, task)
			return nil
		})
	}
	_ = g.Wait()

	var s Summary
	for i := range pending {
		t, ok := q.Get(pending[i].ID)
		if !ok || !t.Settled() {
			continue
		}
		if results[i] {
			s.Completed++
		} else {
			s.Failed++
		}
	}

	u.log.Info(ctx, "upload run finished", "completed", s.Completed, "failed", s.Failed)
	return s, ctx.Err()
}

func (u *Uploader) process(ctx context.Context, q *Queue, task models.UploadTask) bool {
	log := u.log.With("task", task.ID, "file", task.Name)

	u.set(q, task.ID, func(t *models.UploadTask) {
		t.Status = models.UploadUploading
		t.Progress = models.ProgressRequesting
		t.ErrorMessage = ""
	})

	ticket, err := u.backend.RequestUploadURL(ctx, models.UploadRequest{
		OriginalName: task.Name,
		FileType:     task.MimeType,
		FileSize:     task.Size,
	})
	if err != nil {
		log.Warn(ctx, "upload url request failed", "error", err)
		u.fail(q, task.ID, client.MessageOr(err, err.Error()))
		return false
	}

	u.set(q, task.ID, func(t *models.UploadTask) { t.Progress = models.ProgressSending })

	if err := u.put(ctx, ticket.SignedURL, task); err != nil {
		log.Warn(ctx, "storage upload failed", "error", err)
		u.fail(q, task.ID, fmt.Sprintf("upload to storage failed: %v", err))
		return false
	}

	u.set(q, task.ID, func(t *models.UploadTask) {
		t.Status = models.UploadCompleted
		t.Progress = models.ProgressStored
	})
	log.Info(ctx, "upload completed", "bytes", task.Size)
	return true
}

// put sends the file, reopening it for every attempt.
func (u *Uploader) put(ctx context.Context, url string, task models.UploadTask) error {
	backoff := retry.WithMaxRetries(uint64(u.retries), retry.NewExponential(u.retryBase))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		f, err := os.Open(task.Path)
		if err != nil {
			return err
		}
		defer f.Close()

		err = netx.UploadToPresignedURL(ctx, u.storage, url, task.MimeType, f, task.Size)
		if err != nil && retryable(ctx, err) {
			u.log.Debug(ctx, "storage upload attempt failed", "task", task.ID, "error", err)
			return retry.RetryableError(err)
		}
		return err
	})
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var se *netx.StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	return true
}

func (u *Uploader) fail(q *Queue, id, msg string) {
	u.set(q, id, func(t *models.UploadTask) {
		t.Status = models.UploadError
		t.ErrorMessage = msg
	})
}

func (u *Uploader) set(q *Queue, id string, fn func(*models.UploadTask)) {
	t, ok := q.update(id, fn)
	if ok && u.observe != nil {
		u.observe(t)
	}
}
