package client_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusmate/client/internal/client"
	apperrors "campusmate/client/internal/errors"
	"campusmate/client/internal/model"
)

// The backend is stood in for by an httptest server routed with chi, so the
// client's request construction and response parsing are tested in isolation,
// without real network dependencies.

func TestSendQuery(t *testing.T) {
	var capturedBody map[string]any
	var capturedContentType string

	router := chi.NewRouter()
	router.Post("/api/chat/query", func(w http.ResponseWriter, r *http.Request) {
		capturedContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&capturedBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"answer": "휴학 신청은 포털에서 가능합니다.",
			"response_type": "rag",
			"source_documents": [{"source": "학사규정.pdf", "content": "제12조..."}],
			"metadata": {"department": "학사지원팀", "contact": "031-123-4567"}
		}`))
	})
	server := httptest.NewServer(router)
	defer server.Close()

	c := client.New(server.URL)
	resp, err := c.SendQuery(context.Background(), "demo_school", "휴학 신청은 어떻게 하나요?", "session_abc")

	require.NoError(t, err)
	assert.Equal(t, "application/json", capturedContentType)
	assert.Equal(t, "demo_school", capturedBody["school_id"])
	assert.Equal(t, "휴학 신청은 어떻게 하나요?", capturedBody["query"])
	assert.Equal(t, "session_abc", capturedBody["session_id"])

	assert.Equal(t, "휴학 신청은 포털에서 가능합니다.", resp.Answer)
	assert.Equal(t, model.ResponseTypeRAG, resp.ResponseType)
	require.Len(t, resp.SourceDocuments, 1)
	assert.Equal(t, "학사규정.pdf", resp.SourceDocuments[0].Source)
	require.NotNil(t, resp.Metadata)
	assert.Equal(t, "031-123-4567", resp.Metadata.Contact)
}

func TestSendQueryServerError(t *testing.T) {
	t.Run("with detail", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"detail": "school not found"}`))
		}))
		defer server.Close()

		c := client.New(server.URL)
		_, err := c.SendQuery(context.Background(), "demo_school", "q", "session_abc")

		var apiErr *apperrors.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
		assert.Equal(t, "school not found", apiErr.Detail)
	})

	t.Run("without detail", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("upstream broke"))
		}))
		defer server.Close()

		c := client.New(server.URL)
		_, err := c.SendQuery(context.Background(), "demo_school", "q", "session_abc")

		var apiErr *apperrors.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
		assert.Empty(t, apiErr.Detail)

		_, ok := apperrors.Detail(err)
		assert.False(t, ok)
	})
}

func TestSendQueryTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	c := client.New(server.URL)
	_, err := c.SendQuery(context.Background(), "demo_school", "q", "session_abc")

	assert.ErrorIs(t, err, apperrors.ErrTransport)
}

func TestSendQueryTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	c := client.New(server.URL, client.WithTimeout(20*time.Millisecond))
	_, err := c.SendQuery(context.Background(), "demo_school", "q", "session_abc")

	assert.ErrorIs(t, err, apperrors.ErrTimeout)
}

func TestGetHistory(t *testing.T) {
	var capturedPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"session_id": "session_abc", "messages": [{"id": "0", "role": "assistant", "content": "hi"}]}`))
	}))
	defer server.Close()

	c := client.New(server.URL)
	history, err := c.GetHistory(context.Background(), "session_abc")

	require.NoError(t, err)
	assert.Equal(t, "/api/chat/history/session_abc", capturedPath)
	assert.Equal(t, "session_abc", history.SessionID)
	require.Len(t, history.Messages, 1)
}

func TestSubmitFeedback(t *testing.T) {
	var capturedBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&capturedBody))
		_, _ = w.Write([]byte(`{"status": "ok"}`))
	}))
	defer server.Close()

	c := client.New(server.URL)

	t.Run("valid", func(t *testing.T) {
		err := c.SubmitFeedback(context.Background(), &client.FeedbackRequest{
			SessionID: "session_abc",
			MessageID: "assistant_1",
			Rating:    5,
		})
		require.NoError(t, err)
		assert.Equal(t, "session_abc", capturedBody["session_id"])
		assert.Equal(t, float64(5), capturedBody["rating"])
		// Empty comments stay off the wire.
		assert.NotContains(t, capturedBody, "comment")
	})

	t.Run("rating out of range is rejected client-side", func(t *testing.T) {
		capturedBody = nil
		err := c.SubmitFeedback(context.Background(), &client.FeedbackRequest{
			SessionID: "session_abc",
			MessageID: "assistant_1",
			Rating:    6,
		})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
		assert.Nil(t, capturedBody)
	})
}

func TestRequestPresignedURL(t *testing.T) {
	var capturedBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&capturedBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"upload_url": "https://s3.example/bucket/key?sig=abc", "s3_key": "documents/regulations.pdf"}`))
	}))
	defer server.Close()

	c := client.New(server.URL)

	t.Run("valid", func(t *testing.T) {
		presigned, err := c.RequestPresignedURL(context.Background(), &client.PresignedURLRequest{
			SchoolID:   "demo_school",
			Category:   model.CategoryAcademic,
			FileName:   "regulations.pdf",
			Department: "학사지원팀",
		})
		require.NoError(t, err)
		assert.Equal(t, "demo_school", capturedBody["school_id"])
		assert.Equal(t, "academic", capturedBody["category"])
		assert.Equal(t, "regulations.pdf", capturedBody["file_name"])
		assert.Equal(t, "학사지원팀", capturedBody["department"])
		assert.Equal(t, "https://s3.example/bucket/key?sig=abc", presigned.UploadURL)
		assert.Equal(t, "documents/regulations.pdf", presigned.S3Key)
	})

	t.Run("unknown category is rejected client-side", func(t *testing.T) {
		capturedBody = nil
		_, err := c.RequestPresignedURL(context.Background(), &client.PresignedURLRequest{
			SchoolID: "demo_school",
			Category: "memes",
			FileName: "regulations.pdf",
		})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
		assert.Nil(t, capturedBody)
	})
}

// TestDirectPut verifies the object-store carve-out: the presigned URL is
// used exactly as received, the body carries the PDF content type, and none
// of the API client's defaults leak onto the request.
func TestDirectPut(t *testing.T) {
	var capturedMethod, capturedURI, capturedContentType, capturedAuth string
	var capturedBody []byte
	store := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedMethod = r.Method
		capturedURI = r.URL.RequestURI()
		capturedContentType = r.Header.Get("Content-Type")
		capturedAuth = r.Header.Get("Authorization")
		capturedBody, _ = io.ReadAll(r.Body)
	}))
	defer store.Close()

	c := client.New("http://api.invalid") // base URL must not be consulted
	err := c.DirectPut(context.Background(), store.URL+"/bucket/documents/regulations.pdf?sig=abc", strings.NewReader("%PDF-1.7 fake"))

	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, capturedMethod)
	assert.Equal(t, "/bucket/documents/regulations.pdf?sig=abc", capturedURI)
	assert.Equal(t, "application/pdf", capturedContentType)
	assert.Empty(t, capturedAuth)
	assert.Equal(t, "%PDF-1.7 fake", string(capturedBody))
}

func TestDirectPutRejected(t *testing.T) {
	store := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer store.Close()

	c := client.New("http://api.invalid")
	err := c.DirectPut(context.Background(), store.URL+"/bucket/key", strings.NewReader("data"))

	var apiErr *apperrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
}

func TestUploadDocumentMultipart(t *testing.T) {
	var capturedForm map[string]string
	var capturedFile string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		capturedForm = map[string]string{}
		for key := range r.MultipartForm.Value {
			capturedForm[key] = r.FormValue(key)
		}
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		capturedFile = header.Filename

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"document_id": 42, "chunk_count": 7}`))
	}))
	defer server.Close()

	c := client.New(server.URL)
	receipt, err := c.UploadDocumentMultipart(context.Background(), "regulations.pdf", strings.NewReader("%PDF"), &client.DocumentMeta{
		SchoolID: "demo_school",
		Category: model.CategoryAcademic,
	})

	require.NoError(t, err)
	assert.Equal(t, "regulations.pdf", capturedFile)
	assert.Equal(t, "demo_school", capturedForm["school_id"])
	assert.Equal(t, "academic", capturedForm["category"])
	// Empty departments stay off the form.
	assert.NotContains(t, capturedForm, "department")
	assert.Equal(t, int64(42), receipt.DocumentID)
	assert.Equal(t, 7, receipt.ChunkCount)
}

func TestAdminDocumentOperations(t *testing.T) {
	var capturedQuery map[string]string
	var capturedPath string

	router := chi.NewRouter()
	router.Get("/api/admin/documents", func(w http.ResponseWriter, r *http.Request) {
		capturedQuery = flattenQuery(r)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"documents": [{"id": 1, "title": "학사규정", "category": "academic", "school_id": "demo_school"}], "total": 1}`))
	})
	router.Delete("/api/admin/document/{documentID}", func(w http.ResponseWriter, r *http.Request) {
		capturedPath = r.URL.Path
		capturedQuery = flattenQuery(r)
		_, _ = w.Write([]byte(`{"status": "ok"}`))
	})
	server := httptest.NewServer(router)
	defer server.Close()

	c := client.New(server.URL)

	t.Run("list", func(t *testing.T) {
		list, err := c.ListDocuments(context.Background(), "demo_school", model.CategoryAcademic, 0, 20)
		require.NoError(t, err)
		assert.Equal(t, "demo_school", capturedQuery["school_id"])
		assert.Equal(t, "academic", capturedQuery["category"])
		assert.Equal(t, "0", capturedQuery["skip"])
		assert.Equal(t, "20", capturedQuery["limit"])
		assert.Equal(t, 1, list.Total)
		require.Len(t, list.Documents, 1)
		assert.Equal(t, "학사규정", list.Documents[0].Title)
	})

	t.Run("list without category filter", func(t *testing.T) {
		_, err := c.ListDocuments(context.Background(), "demo_school", "", 0, 20)
		require.NoError(t, err)
		assert.NotContains(t, capturedQuery, "category")
	})

	t.Run("delete", func(t *testing.T) {
		err := c.DeleteDocument(context.Background(), 7, "demo_school")
		require.NoError(t, err)
		assert.Equal(t, "/api/admin/document/7", capturedPath)
		assert.Equal(t, "demo_school", capturedQuery["school_id"])
	})
}

func TestCreateDocument(t *testing.T) {
	var capturedForm map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		capturedForm = map[string]string{}
		for key := range r.MultipartForm.Value {
			capturedForm[key] = r.FormValue(key)
		}
		_, _ = w.Write([]byte(`{"status": "ok"}`))
	}))
	defer server.Close()

	c := client.New(server.URL)
	err := c.CreateDocument(context.Background(), "regulations.pdf", strings.NewReader("%PDF"), &client.CreateDocumentRequest{
		Title:      "학사규정",
		Category:   model.CategoryAcademic,
		Department: "학사지원팀",
		Contact:    "031-123-4567",
		SchoolID:   "demo_school",
	})

	require.NoError(t, err)
	assert.Equal(t, "학사규정", capturedForm["title"])
	assert.Equal(t, "academic", capturedForm["category"])
	assert.Equal(t, "031-123-4567", capturedForm["contact"])
	assert.Equal(t, "demo_school", capturedForm["school_id"])
}

func TestRSSFeedOperations(t *testing.T) {
	var capturedForm map[string]string
	var capturedQuery map[string]string

	router := chi.NewRouter()
	router.Post("/api/admin/rss", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		capturedForm = map[string]string{}
		for key := range r.MultipartForm.Value {
			capturedForm[key] = r.FormValue(key)
		}
		_, _ = w.Write([]byte(`{"status": "ok"}`))
	})
	router.Get("/api/admin/rss", func(w http.ResponseWriter, r *http.Request) {
		capturedQuery = flattenQuery(r)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"feeds": [{"id": 3, "feed_url": "https://www.example.ac.kr/rss", "category": "general", "school_id": "demo_school"}]}`))
	})
	server := httptest.NewServer(router)
	defer server.Close()

	c := client.New(server.URL)

	t.Run("add", func(t *testing.T) {
		err := c.AddRSSFeed(context.Background(), &client.AddRSSFeedRequest{
			SchoolID:   "demo_school",
			FeedURL:    "https://www.example.ac.kr/rss",
			Category:   model.CategoryGeneral,
			Department: "홍보팀",
			Contact:    "031-123-0000",
		})
		require.NoError(t, err)
		assert.Equal(t, "https://www.example.ac.kr/rss", capturedForm["feed_url"])
		assert.Equal(t, "general", capturedForm["category"])
	})

	t.Run("add with invalid url is rejected client-side", func(t *testing.T) {
		capturedForm = nil
		err := c.AddRSSFeed(context.Background(), &client.AddRSSFeedRequest{
			SchoolID:   "demo_school",
			FeedURL:    "not a url",
			Category:   model.CategoryGeneral,
			Department: "홍보팀",
			Contact:    "031-123-0000",
		})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
		assert.Nil(t, capturedForm)
	})

	t.Run("list", func(t *testing.T) {
		feeds, err := c.ListRSSFeeds(context.Background(), "demo_school")
		require.NoError(t, err)
		assert.Equal(t, "demo_school", capturedQuery["school_id"])
		require.Len(t, feeds.Feeds, 1)
		assert.Equal(t, int64(3), feeds.Feeds[0].ID)
	})
}

func flattenQuery(r *http.Request) map[string]string {
	out := map[string]string{}
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			out[key] = values[0]
		}
	}
	return out
}
