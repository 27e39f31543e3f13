package admin_test

import (
	"context"
	"io"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusmate/client/internal/admin"
	"campusmate/client/internal/client"
	"campusmate/client/internal/model"
)

type stubGateway struct {
	listCalls  atomic.Int64
	feedCalls  atomic.Int64
	deleted    []int64
	addedFeeds []*client.AddRSSFeedRequest
	created    []*client.CreateDocumentRequest
}

func (s *stubGateway) CreateDocument(ctx context.Context, fileName string, contents io.Reader, req *client.CreateDocumentRequest) error {
	s.created = append(s.created, req)
	return nil
}

func (s *stubGateway) ListDocuments(ctx context.Context, schoolID string, category model.Category, skip, limit int) (*model.DocumentList, error) {
	s.listCalls.Add(1)
	return &model.DocumentList{
		Documents: []model.Document{{ID: 1, Title: "학사규정", Category: model.CategoryAcademic, SchoolID: schoolID}},
		Total:     1,
	}, nil
}

func (s *stubGateway) DeleteDocument(ctx context.Context, documentID int64, schoolID string) error {
	s.deleted = append(s.deleted, documentID)
	return nil
}

func (s *stubGateway) AddRSSFeed(ctx context.Context, req *client.AddRSSFeedRequest) error {
	s.addedFeeds = append(s.addedFeeds, req)
	return nil
}

func (s *stubGateway) ListRSSFeeds(ctx context.Context, schoolID string) (*model.RSSFeedList, error) {
	s.feedCalls.Add(1)
	return &model.RSSFeedList{Feeds: []model.RSSFeed{{ID: 3, FeedURL: "https://www.example.ac.kr/rss", SchoolID: schoolID}}}, nil
}

func TestDocumentsAreCached(t *testing.T) {
	gw := &stubGateway{}
	svc := admin.NewService(gw, "demo_school")
	ctx := context.Background()

	first, err := svc.Documents(ctx, "", 0, 20)
	require.NoError(t, err)
	second, err := svc.Documents(ctx, "", 0, 20)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, gw.listCalls.Load(), "second page load served from cache")

	// A different page misses the cache.
	_, err = svc.Documents(ctx, model.CategoryAcademic, 0, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, gw.listCalls.Load())
}

func TestDeleteInvalidatesListingCache(t *testing.T) {
	gw := &stubGateway{}
	svc := admin.NewService(gw, "demo_school")
	ctx := context.Background()

	_, err := svc.Documents(ctx, "", 0, 20)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteDocument(ctx, 1))
	assert.Equal(t, []int64{1}, gw.deleted)

	_, err = svc.Documents(ctx, "", 0, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, gw.listCalls.Load(), "deletion flushes the cache")
}

func TestCreateDocumentInvalidatesListingCache(t *testing.T) {
	gw := &stubGateway{}
	svc := admin.NewService(gw, "demo_school")
	ctx := context.Background()

	_, err := svc.Documents(ctx, "", 0, 20)
	require.NoError(t, err)

	err = svc.CreateDocument(ctx, "규정.pdf", strings.NewReader("%PDF"), "학사규정", model.CategoryAcademic, "학사지원팀", "031-123-4567")
	require.NoError(t, err)
	require.Len(t, gw.created, 1)
	assert.Equal(t, "demo_school", gw.created[0].SchoolID)
	assert.Equal(t, "학사규정", gw.created[0].Title)

	_, err = svc.Documents(ctx, "", 0, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, gw.listCalls.Load(), "registration flushes cached listings")
}

func TestAddFeedInvalidatesFeedCache(t *testing.T) {
	gw := &stubGateway{}
	svc := admin.NewService(gw, "demo_school")
	ctx := context.Background()

	_, err := svc.Feeds(ctx)
	require.NoError(t, err)
	_, err = svc.Feeds(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, gw.feedCalls.Load())

	require.NoError(t, svc.AddFeed(ctx, "https://www.example.ac.kr/rss2", model.CategoryGeneral, "홍보팀", "031-123-0000"))
	require.Len(t, gw.addedFeeds, 1)
	assert.Equal(t, "demo_school", gw.addedFeeds[0].SchoolID)

	_, err = svc.Feeds(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, gw.feedCalls.Load(), "registration drops the cached feed list")
}
