package client

import (
	"context"
	"io"
	"strconv"

	"campusmate/client/internal/model"
)

// Administrative document and feed operations. These back the dashboard
// surface and mirror the backend's /api/admin endpoints.

// CreateDocumentRequest registers a document with full curation metadata.
type CreateDocumentRequest struct {
	Title      string         `validate:"required"`
	Category   model.Category `validate:"required,oneof=academic scholarship facilities career general"`
	Department string         `validate:"required"`
	Contact    string         `validate:"required"`
	SchoolID   string         `validate:"required"`
}

// CreateDocument posts a document with curation metadata as multipart form
// data to /api/admin/document.
func (c *Client) CreateDocument(ctx context.Context, fileName string, contents io.Reader, req *CreateDocumentRequest) error {
	if err := validateRequest(req); err != nil {
		return err
	}
	resp, err := c.api.R().
		SetContext(ctx).
		SetFileReader("file", fileName, contents).
		SetFormData(map[string]string{
			"title":      req.Title,
			"category":   string(req.Category),
			"department": req.Department,
			"contact":    req.Contact,
			"school_id":  req.SchoolID,
		}).
		Post("/api/admin/document")
	return c.check(resp, err)
}

// ListDocuments fetches a page of stored documents. Pass an empty category to
// list across all categories.
func (c *Client) ListDocuments(ctx context.Context, schoolID string, category model.Category, skip, limit int) (*model.DocumentList, error) {
	params := map[string]string{
		"school_id": schoolID,
		"skip":      strconv.Itoa(skip),
		"limit":     strconv.Itoa(limit),
	}
	if category != "" {
		params["category"] = string(category)
	}
	var out model.DocumentList
	resp, err := c.api.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&out).
		Get("/api/admin/documents")
	if err := c.check(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteDocument removes a stored document and its vectors.
func (c *Client) DeleteDocument(ctx context.Context, documentID int64, schoolID string) error {
	resp, err := c.api.R().
		SetContext(ctx).
		SetQueryParam("school_id", schoolID).
		Delete("/api/admin/document/" + strconv.FormatInt(documentID, 10))
	return c.check(resp, err)
}

// AddRSSFeedRequest registers an announcement feed for periodic ingestion.
type AddRSSFeedRequest struct {
	SchoolID   string         `validate:"required"`
	FeedURL    string         `validate:"required,url"`
	Category   model.Category `validate:"required,oneof=academic scholarship facilities career general"`
	Department string         `validate:"required"`
	Contact    string         `validate:"required"`
}

// AddRSSFeed registers a feed via multipart form data, matching the backend's
// form-encoded admin endpoint.
func (c *Client) AddRSSFeed(ctx context.Context, req *AddRSSFeedRequest) error {
	if err := validateRequest(req); err != nil {
		return err
	}
	resp, err := c.api.R().
		SetContext(ctx).
		SetMultipartFormData(map[string]string{
			"school_id":  req.SchoolID,
			"feed_url":   req.FeedURL,
			"category":   string(req.Category),
			"department": req.Department,
			"contact":    req.Contact,
		}).
		Post("/api/admin/rss")
	return c.check(resp, err)
}

// ListRSSFeeds fetches the feeds registered for a school.
func (c *Client) ListRSSFeeds(ctx context.Context, schoolID string) (*model.RSSFeedList, error) {
	var out model.RSSFeedList
	resp, err := c.api.R().
		SetContext(ctx).
		SetQueryParam("school_id", schoolID).
		SetResult(&out).
		Get("/api/admin/rss")
	if err := c.check(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}
