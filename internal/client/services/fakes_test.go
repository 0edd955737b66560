package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/safedocs/internal/client/client"
	"github.com/dmitrijs2005/safedocs/internal/client/models"
)

// fakeClient implements client.Client for service tests.
type fakeClient struct {
	mu sync.Mutex

	LoginResp *models.LoginResponse
	LoginErr  error
	LastLogin models.LoginRequest
	Logins    int

	RegisterErr  error
	LastRegister *models.RegisterRequest

	Docs     []models.Document
	ListErr  error
	Listings int

	DeleteErr error
	Deleted   []int64

	Link      *models.SharedLink
	LinkErr   error
	LinkCalls []int64

	Shared     *models.SharedDocument
	SharedErr  error
	SharedReqs []string
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) Login(_ context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastLogin = req
	f.Logins++
	return f.LoginResp, f.LoginErr
}

func (f *fakeClient) Register(_ context.Context, req models.RegisterRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastRegister = &req
	return f.RegisterErr
}

func (f *fakeClient) ListDocuments(context.Context) ([]models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Listings++
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return append([]models.Document(nil), f.Docs...), nil
}

func (f *fakeClient) DeleteDocument(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	f.Deleted = append(f.Deleted, id)
	kept := f.Docs[:0]
	for _, d := range f.Docs {
		if d.ID != id {
			kept = append(kept, d)
		}
	}
	f.Docs = kept
	return nil
}

func (f *fakeClient) RequestUploadURL(context.Context, models.UploadRequest) (*models.UploadTicket, error) {
	return &models.UploadTicket{SignedURL: "http://storage.invalid/put"}, nil
}

func (f *fakeClient) CreateSharedLink(_ context.Context, documentID int64) (*models.SharedLink, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LinkCalls = append(f.LinkCalls, documentID)
	if f.LinkErr != nil {
		return nil, f.LinkErr
	}
	cp := *f.Link
	return &cp, nil
}

func (f *fakeClient) GetSharedDocument(_ context.Context, token string) (*models.SharedDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SharedReqs = append(f.SharedReqs, token)
	return f.Shared, f.SharedErr
}

type fakeSessions struct {
	mu      sync.Mutex
	current *models.Session
	SaveErr error
	cleared int
}

func (f *fakeSessions) Save(_ context.Context, sess models.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SaveErr != nil {
		return f.SaveErr
	}
	f.current = &sess
	return nil
}

func (f *fakeSessions) Clear(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = nil
	f.cleared++
	return nil
}

func (f *fakeSessions) Current() (models.Session, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.current == nil {
		return models.Session{}, false
	}
	return *f.current, true
}

type fakeCopier struct {
	text string
	err  error
}

func (f *fakeCopier) Copy(text string) error {
	if f.err != nil {
		return f.err
	}
	f.text = text
	return nil
}
