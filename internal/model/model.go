package model

import "time"

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Response types returned by the backend for assistant answers.
const (
	// ResponseTypeRAG marks an answer grounded in retrieved documents.
	ResponseTypeRAG = "rag"
	// ResponseTypeFallback marks a department-referral answer with no
	// supporting documents.
	ResponseTypeFallback = "fallback"
)

// Message is a single entry in a conversation transcript. Messages are
// immutable once appended.
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`

	// IsError marks a locally synthesized failure message. Only ever set on
	// assistant messages.
	IsError bool `json:"is_error,omitempty"`

	ResponseType    string            `json:"response_type,omitempty"`
	SourceDocuments []SourceDocument  `json:"source_documents,omitempty"`
	Metadata        *ResponseMetadata `json:"metadata,omitempty"`
}

// SourceDocument is one retrieved passage supporting a RAG answer.
type SourceDocument struct {
	Source  string `json:"source"`
	Content string `json:"content"`
}

// ResponseMetadata carries the department referral attached to an answer.
type ResponseMetadata struct {
	Department string `json:"department,omitempty"`
	Contact    string `json:"contact,omitempty"`
}

// ChatResponse is the backend's answer to a chat query, returned verbatim.
type ChatResponse struct {
	Answer          string            `json:"answer"`
	ResponseType    string            `json:"response_type"`
	SourceDocuments []SourceDocument  `json:"source_documents"`
	Metadata        *ResponseMetadata `json:"metadata"`
}

// HistoryResponse is the stored conversation history for a session.
type HistoryResponse struct {
	SessionID string    `json:"session_id"`
	Messages  []Message `json:"messages"`
}
