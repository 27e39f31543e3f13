package admin

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/patrickmn/go-cache"

	"campusmate/client/internal/client"
	"campusmate/client/internal/interfaces"
	"campusmate/client/internal/model"
)

// Service backs the administrative dashboard: document listing and removal
// plus RSS feed management. Listings are cached briefly so redrawing the
// dashboard does not hammer the backend; any mutation drops the cache.
type Service struct {
	gw       interfaces.AdminGateway
	schoolID string
	listings *cache.Cache
}

// NewService creates a dashboard service for one school.
func NewService(gw interfaces.AdminGateway, schoolID string) *Service {
	return &Service{
		gw:       gw,
		schoolID: schoolID,
		// Listings go stale quickly once other admins upload, so keep the
		// TTL short.
		listings: cache.New(time.Minute, 5*time.Minute),
	}
}

// Documents returns a page of stored documents, served from cache when the
// same page was fetched within the TTL. An empty category lists everything.
func (s *Service) Documents(ctx context.Context, category model.Category, skip, limit int) (*model.DocumentList, error) {
	key := fmt.Sprintf("documents:%s:%d:%d", category, skip, limit)
	if hit, found := s.listings.Get(key); found {
		return hit.(*model.DocumentList), nil
	}

	list, err := s.gw.ListDocuments(ctx, s.schoolID, category, skip, limit)
	if err != nil {
		return nil, err
	}
	s.listings.Set(key, list, cache.DefaultExpiration)
	return list, nil
}

// DeleteDocument removes a document and invalidates cached listings.
func (s *Service) DeleteDocument(ctx context.Context, documentID int64) error {
	if err := s.gw.DeleteDocument(ctx, documentID, s.schoolID); err != nil {
		return err
	}
	s.listings.Flush()
	return nil
}

// CreateDocument registers a fully curated document and invalidates cached
// listings.
func (s *Service) CreateDocument(ctx context.Context, fileName string, contents io.Reader, title string, category model.Category, department, contact string) error {
	err := s.gw.CreateDocument(ctx, fileName, contents, &client.CreateDocumentRequest{
		Title:      title,
		Category:   category,
		Department: department,
		Contact:    contact,
		SchoolID:   s.schoolID,
	})
	if err != nil {
		return err
	}
	s.listings.Flush()
	return nil
}

// Feeds returns the registered RSS feeds, cached like document listings.
func (s *Service) Feeds(ctx context.Context) (*model.RSSFeedList, error) {
	const key = "rss"
	if hit, found := s.listings.Get(key); found {
		return hit.(*model.RSSFeedList), nil
	}

	feeds, err := s.gw.ListRSSFeeds(ctx, s.schoolID)
	if err != nil {
		return nil, err
	}
	s.listings.Set(key, feeds, cache.DefaultExpiration)
	return feeds, nil
}

// AddFeed registers an announcement feed and invalidates the feed cache.
func (s *Service) AddFeed(ctx context.Context, feedURL string, category model.Category, department, contact string) error {
	err := s.gw.AddRSSFeed(ctx, &client.AddRSSFeedRequest{
		SchoolID:   s.schoolID,
		FeedURL:    feedURL,
		Category:   category,
		Department: department,
		Contact:    contact,
	})
	if err != nil {
		return err
	}
	s.listings.Delete("rss")
	return nil
}
