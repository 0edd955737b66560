package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"sync/atomic"

	"github.com/dmitrijs2005/safedocs/internal/client/client"
	"github.com/dmitrijs2005/safedocs/internal/client/clipboard"
	"github.com/dmitrijs2005/safedocs/internal/client/config"
	"github.com/dmitrijs2005/safedocs/internal/client/models"
	"github.com/dmitrijs2005/safedocs/internal/client/services"
	"github.com/dmitrijs2005/safedocs/internal/client/session"
	"github.com/dmitrijs2005/safedocs/internal/client/upload"
	"github.com/dmitrijs2005/safedocs/internal/filex"
	"github.com/dmitrijs2005/safedocs/internal/logging"
)

type sessionLoader interface {
	Load(ctx context.Context) (*models.Session, error)
}

type uploadRunner interface {
	Run(ctx context.Context, q *upload.Queue) (upload.Summary, error)
}

type App struct {
	config *config.Config
	log    logging.Logger

	sessions  sessionLoader
	auth      services.AuthService
	dashboard services.Dashboard
	share     services.ShareDialog
	viewer    services.ShareViewer
	queue     *upload.Queue
	uploader  uploadRunner

	reader *bufio.Reader
	out    io.Writer
	closer io.Closer

	// expired is raised by the API gateway when the backend rejected the
	// session; the REPL then sends the user back to the login prompt.
	expired atomic.Bool
}

// NewApp opens the state DB and wires the services for cfg.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger, in io.Reader, out io.Writer) (*App, error) {
	if _, err := filex.EnsureDir(filepath.Dir(cfg.StateDBPath)); err != nil {
		return nil, err
	}

	db, err := client.InitDatabase(ctx, cfg.StateDBPath)
	if err != nil {
		return nil, fmt.Errorf("error initializing state database: %w", err)
	}

	sessions := session.NewStore(db, log)

	a := &App{
		config:   cfg,
		log:      log,
		sessions: sessions,
		queue:    upload.NewQueue(),
		reader:   bufio.NewReader(in),
		out:      out,
		closer:   db,
	}

	api, err := client.NewHTTPClient(client.Options{
		BaseURL:        cfg.APIBaseURL,
		Timeout:        cfg.RequestTimeout,
		Tokens:         sessions,
		Logger:         log,
		OnUnauthorized: func(context.Context) { a.expired.Store(true) },
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	storage := &http.Client{Timeout: cfg.StorageTimeout}

	a.auth = services.NewAuthService(api, sessions, log)
	a.dashboard = services.NewDashboard(api, log)
	a.share = services.NewShareDialog(api, clipboard.New(out), cfg.ShareOrigin, log)
	a.viewer = services.NewShareViewer(api, storage, log)
	a.uploader = upload.NewUploader(api, upload.Options{
		Workers:  cfg.UploadWorkers,
		Retries:  cfg.StorageRetries,
		Storage:  storage,
		Logger:   log,
		Observer: a.printProgress,
	})

	return a, nil
}

// Run restores the saved session (or asks for credentials) and blocks in the
// REPL until the user exits.
func (a *App) Run(ctx context.Context) error {
	defer a.close()

	printlnFn("Welcome to SafeDocs CLI (type 'help' for commands)")

	sess, err := a.sessions.Load(ctx)
	if err != nil {
		a.log.Error(ctx, "failed to restore session", "error", err)
	}

	if sess != nil {
		printlnFn(fmt.Sprintf("Signed in as %s", sess.User.Email))
		if err := a.dashboard.Refresh(ctx); err != nil {
			printlnFn("Could not load documents:", userMessage(err))
		}
	} else {
		_ = a.Login(ctx)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
	return nil
}

func (a *App) close() {
	if a.closer != nil {
		_ = a.closer.Close()
	}
}

func (a *App) isLoggedIn() bool {
	_, ok := a.auth.CurrentUser()
	return ok
}

// sessionExpired reports, once, that the backend rejected the session.
func (a *App) sessionExpired() bool {
	return a.expired.Swap(false)
}

func (a *App) getStatus() string {
	user, ok := a.auth.CurrentUser()
	if !ok {
		return ""
	}
	return fmt.Sprintf("(%s)", user.Email)
}

// userMessage is the text shown for err: the backend's message when there is
// one, the error itself otherwise.
func userMessage(err error) string {
	return client.MessageOr(err, err.Error())
}
