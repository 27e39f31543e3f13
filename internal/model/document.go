package model

import "time"

// Category classifies an uploaded document or RSS feed.
type Category string

const (
	CategoryAcademic    Category = "academic"
	CategoryScholarship Category = "scholarship"
	CategoryFacilities  Category = "facilities"
	CategoryCareer      Category = "career"
	CategoryGeneral     Category = "general"
)

// CategoryLabels maps category values to their human-readable labels.
var CategoryLabels = map[Category]string{
	CategoryAcademic:    "학사",
	CategoryScholarship: "장학",
	CategoryFacilities:  "시설",
	CategoryCareer:      "진로/취업",
	CategoryGeneral:     "일반",
}

// Label returns the localized display name for the category, falling back to
// the raw value for unknown categories.
func (c Category) Label() string {
	if label, ok := CategoryLabels[c]; ok {
		return label
	}
	return string(c)
}

// Valid reports whether the category is one of the enumerated values.
func (c Category) Valid() bool {
	_, ok := CategoryLabels[c]
	return ok
}

// PresignedURL authorizes a direct object-store PUT for a single upload.
type PresignedURL struct {
	UploadURL string `json:"upload_url"`
	S3Key     string `json:"s3_key"`
}

// UploadReceipt is returned by the multipart fallback path once the backend
// has stored and vectorized the document.
type UploadReceipt struct {
	DocumentID int64 `json:"document_id"`
	ChunkCount int   `json:"chunk_count"`
}

// Document is a stored document as listed by the admin API.
type Document struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	FileName   string    `json:"file_name"`
	Category   Category  `json:"category"`
	Department string    `json:"department,omitempty"`
	Contact    string    `json:"contact,omitempty"`
	SchoolID   string    `json:"school_id"`
	ChunkCount int       `json:"chunk_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// DocumentList is a page of documents.
type DocumentList struct {
	Documents []Document `json:"documents"`
	Total     int        `json:"total"`
}

// RSSFeed is a registered announcement feed.
type RSSFeed struct {
	ID         int64    `json:"id"`
	FeedURL    string   `json:"feed_url"`
	Category   Category `json:"category"`
	Department string   `json:"department,omitempty"`
	Contact    string   `json:"contact,omitempty"`
	SchoolID   string   `json:"school_id"`
}

// RSSFeedList is the set of feeds registered for a school.
type RSSFeedList struct {
	Feeds []RSSFeed `json:"feeds"`
}
