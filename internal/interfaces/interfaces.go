package interfaces

import (
	"context"
	"io"

	"campusmate/client/internal/client"
	"campusmate/client/internal/model"
)

// This file defines the gateway interfaces the controllers depend on.
// Depending on these interfaces, instead of the concrete HTTP client, keeps
// the controllers decoupled from the transport and makes them easy to test
// with stubs. Each controller sees only the operations it actually uses.

// ChatGateway is the backend surface consumed by the chat session controller.
type ChatGateway interface {
	SendQuery(ctx context.Context, schoolID, query, sessionID string) (*model.ChatResponse, error)
	GetHistory(ctx context.Context, sessionID string) (*model.HistoryResponse, error)
	SubmitFeedback(ctx context.Context, req *client.FeedbackRequest) error
}

// UploadGateway is the backend surface consumed by the upload coordinator.
type UploadGateway interface {
	RequestPresignedURL(ctx context.Context, req *client.PresignedURLRequest) (*model.PresignedURL, error)
	DirectPut(ctx context.Context, uploadURL string, contents io.Reader) error
	UploadDocumentMultipart(ctx context.Context, fileName string, contents io.Reader, meta *client.DocumentMeta) (*model.UploadReceipt, error)
}

// AdminGateway is the backend surface consumed by the dashboard service.
type AdminGateway interface {
	CreateDocument(ctx context.Context, fileName string, contents io.Reader, req *client.CreateDocumentRequest) error
	ListDocuments(ctx context.Context, schoolID string, category model.Category, skip, limit int) (*model.DocumentList, error)
	DeleteDocument(ctx context.Context, documentID int64, schoolID string) error
	AddRSSFeed(ctx context.Context, req *client.AddRSSFeedRequest) error
	ListRSSFeeds(ctx context.Context, schoolID string) (*model.RSSFeedList, error)
}
