package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/go-resty/resty/v2"

	apperrors "campusmate/client/internal/errors"
	"campusmate/client/internal/model"
)

// defaultTimeout is the uniform transport timeout applied to every request
// against the CampusMate backend.
const defaultTimeout = 30 * time.Second

// Client is the single point of HTTP configuration for the CampusMate
// backend. All other components talk to the backend only through this façade.
//
// Presigned PUTs to the object store go through a second, bare resty client:
// the presigned URL must be used exactly as received, with none of the API
// client's base URL, default headers, or future auth attached.
type Client struct {
	api *resty.Client
	put *resty.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithTimeout overrides the default 30 s transport timeout on both the API
// client and the object-store client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.api.SetTimeout(d)
		c.put.SetTimeout(d)
	}
}

// New creates a Client bound to the given backend base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		api: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(defaultTimeout).
			SetHeader("Content-Type", "application/json"),
		put: resty.New().
			SetTimeout(defaultTimeout),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// queryPayload is the wire shape of POST /api/chat/query.
type queryPayload struct {
	SchoolID  string `json:"school_id"`
	Query     string `json:"query"`
	SessionID string `json:"session_id"`
}

// SendQuery posts a user question and returns the backend's answer verbatim.
func (c *Client) SendQuery(ctx context.Context, schoolID, query, sessionID string) (*model.ChatResponse, error) {
	var out model.ChatResponse
	resp, err := c.api.R().
		SetContext(ctx).
		SetBody(&queryPayload{SchoolID: schoolID, Query: query, SessionID: sessionID}).
		SetResult(&out).
		Post("/api/chat/query")
	if err := c.check(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetHistory fetches the stored conversation history for a session.
func (c *Client) GetHistory(ctx context.Context, sessionID string) (*model.HistoryResponse, error) {
	var out model.HistoryResponse
	resp, err := c.api.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/api/chat/history/" + sessionID)
	if err := c.check(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// FeedbackRequest rates a single assistant message within a session.
type FeedbackRequest struct {
	SessionID string `json:"session_id" validate:"required"`
	MessageID string `json:"message_id" validate:"required"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment,omitempty"`
}

// SubmitFeedback records a rating for an assistant message.
func (c *Client) SubmitFeedback(ctx context.Context, req *FeedbackRequest) error {
	if err := validateRequest(req); err != nil {
		return err
	}
	resp, err := c.api.R().
		SetContext(ctx).
		SetBody(req).
		Post("/api/chat/feedback")
	return c.check(resp, err)
}

// PresignedURLRequest asks the backend to issue an object-store upload URL.
// The original filename is sent so the backend can derive the object key.
type PresignedURLRequest struct {
	SchoolID   string         `json:"school_id" validate:"required"`
	Category   model.Category `json:"category" validate:"required,oneof=academic scholarship facilities career general"`
	FileName   string         `json:"file_name" validate:"required"`
	Department string         `json:"department,omitempty"`
}

// RequestPresignedURL obtains a short-lived URL authorizing a direct PUT.
func (c *Client) RequestPresignedURL(ctx context.Context, req *PresignedURLRequest) (*model.PresignedURL, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	var out model.PresignedURL
	resp, err := c.api.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		Post("/api/documents/presigned-url")
	if err := c.check(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// DirectPut streams raw file bytes to the object store. The URL is used
// exactly as received and the request carries only the PDF content type.
func (c *Client) DirectPut(ctx context.Context, uploadURL string, contents io.Reader) error {
	resp, err := c.put.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/pdf").
		SetBody(contents).
		Put(uploadURL)
	return c.check(resp, err)
}

// DocumentMeta accompanies a multipart document upload.
type DocumentMeta struct {
	SchoolID   string         `validate:"required"`
	Category   model.Category `validate:"required,oneof=academic scholarship facilities career general"`
	Department string
}

// UploadDocumentMultipart posts the file as multipart form data to the
// backend. This is the fallback path for environments without object-store
// access; the backend stores and vectorizes the document synchronously.
func (c *Client) UploadDocumentMultipart(ctx context.Context, fileName string, contents io.Reader, meta *DocumentMeta) (*model.UploadReceipt, error) {
	if err := validateRequest(meta); err != nil {
		return nil, err
	}
	form := map[string]string{
		"school_id": meta.SchoolID,
		"category":  string(meta.Category),
	}
	if meta.Department != "" {
		form["department"] = meta.Department
	}
	var out model.UploadReceipt
	resp, err := c.api.R().
		SetContext(ctx).
		SetFileReader("file", fileName, contents).
		SetFormData(form).
		SetResult(&out).
		Post("/api/admin/upload-document")
	if err := c.check(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// check normalizes a resty outcome into the shared error taxonomy: timeout,
// transport failure without a response, or a non-2xx response with body.
func (c *Client) check(resp *resty.Response, err error) error {
	if err != nil {
		var netErr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			return fmt.Errorf("%w: %v", apperrors.ErrTimeout, err)
		}
		return fmt.Errorf("%w: %v", apperrors.ErrTransport, err)
	}
	if resp.IsError() {
		return &apperrors.APIError{
			StatusCode: resp.StatusCode(),
			Detail:     detailFromBody(resp.Body()),
		}
	}
	return nil
}

// detailFromBody pulls the `detail` field out of an error response body, the
// convention the backend uses for human-readable failure messages.
func detailFromBody(body []byte) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Detail
}
