package client

import (
	"context"

	"github.com/dmitrijs2005/safedocs/internal/client/models"
)

// Client is the SafeDocs backend contract used by the services.
type Client interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) error

	ListDocuments(ctx context.Context) ([]models.Document, error)
	DeleteDocument(ctx context.Context, id int64) error
	RequestUploadURL(ctx context.Context, req models.UploadRequest) (*models.UploadTicket, error)

	CreateSharedLink(ctx context.Context, documentID int64) (*models.SharedLink, error)
	GetSharedDocument(ctx context.Context, token string) (*models.SharedDocument, error)
}
