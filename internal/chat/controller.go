package chat

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"campusmate/client/internal/client"
	"campusmate/client/internal/interfaces"
	"campusmate/client/internal/model"
)

// Greeting is the pre-seeded assistant message opening every transcript.
const Greeting = "안녕하세요! 캠퍼스메이트입니다. 학사 행정과 관련된 궁금한 점을 편하게 물어보세요."

// ErrorReply is the fixed apology appended to the transcript when a send
// fails. Chat failures become transcript entries, never out-of-band banners.
const ErrorReply = "죄송합니다. 일시적인 오류가 발생했습니다. 잠시 후 다시 시도해주세요."

// Controller owns a single conversation transcript and drives the
// request/response cycle against the backend.
//
// The transcript is append-only with unique message ids; exactly one greeting
// precedes any user message. At most one request is in flight at a time, so
// responses apply in dispatch order without a correlation scheme. After
// Close(), late resolutions of in-flight requests are discarded.
type Controller struct {
	gw        interfaces.ChatGateway
	schoolID  string
	sessionID string

	mu        sync.Mutex
	messages  []model.Message
	loading   bool
	closed    bool
	lastStamp int64

	notify func()
	now    func() time.Time
}

// NewController creates a controller for one chat view mount. The session
// identifier is generated once and kept stable for the controller's lifetime;
// the `session_` prefix is what the backend keys history on.
func NewController(gw interfaces.ChatGateway, schoolID string) *Controller {
	c := &Controller{
		gw:        gw,
		schoolID:  schoolID,
		sessionID: "session_" + uuid.NewString(),
		now:       time.Now,
	}
	c.messages = append(c.messages, model.Message{
		ID:        "0",
		Role:      model.RoleAssistant,
		Content:   Greeting,
		Timestamp: c.now(),
	})
	return c
}

// SetNotify registers an advisory callback fired after every transcript
// mutation. Views use it to scroll to the tail; it is never load-bearing.
func (c *Controller) SetNotify(fn func()) {
	c.mu.Lock()
	c.notify = fn
	c.mu.Unlock()
}

// SessionID returns the stable session identifier.
func (c *Controller) SessionID() string { return c.sessionID }

// Messages returns a snapshot of the transcript.
func (c *Controller) Messages() []model.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Loading reports whether a request is in flight.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Send submits a user question. Empty or whitespace-only input is ignored, as
// is any submission while a request is already in flight. The user message is
// appended before the backend acknowledges; on failure a locally synthesized
// error message takes the place of the answer.
func (c *Controller) Send(ctx context.Context, input string) {
	trimmed := strings.TrimSpace(input)

	c.mu.Lock()
	if trimmed == "" || c.loading || c.closed {
		c.mu.Unlock()
		return
	}
	c.append(model.Message{
		ID:      c.stampID("user_"),
		Role:    model.RoleUser,
		Content: trimmed,
	})
	c.loading = true
	notify := c.notify
	c.mu.Unlock()
	fire(notify)

	resp, err := c.gw.SendQuery(ctx, c.schoolID, trimmed, c.sessionID)

	c.mu.Lock()
	if c.closed {
		// The view is gone; applying the late resolution would mutate
		// state nobody owns anymore.
		c.mu.Unlock()
		return
	}
	if err != nil {
		slog.Warn("Chat query failed", "session_id", c.sessionID, "error", err)
		c.append(model.Message{
			ID:      c.stampID("error_"),
			Role:    model.RoleAssistant,
			Content: ErrorReply,
			IsError: true,
		})
	} else {
		c.append(model.Message{
			ID:              c.stampID("assistant_"),
			Role:            model.RoleAssistant,
			Content:         resp.Answer,
			ResponseType:    resp.ResponseType,
			SourceDocuments: resp.SourceDocuments,
			Metadata:        resp.Metadata,
		})
	}
	c.loading = false
	notify = c.notify
	c.mu.Unlock()
	fire(notify)
}

// SubmitFeedback rates an assistant message in this session.
func (c *Controller) SubmitFeedback(ctx context.Context, messageID string, rating int, comment string) error {
	return c.gw.SubmitFeedback(ctx, &client.FeedbackRequest{
		SessionID: c.sessionID,
		MessageID: messageID,
		Rating:    rating,
		Comment:   comment,
	})
}

// History fetches the server-side history for this session.
func (c *Controller) History(ctx context.Context) (*model.HistoryResponse, error) {
	return c.gw.GetHistory(ctx, c.sessionID)
}

// Close marks the controller as torn down. In-flight requests are abandoned;
// their resolutions become no-ops.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

// append adds a message to the transcript, filling in the timestamp.
// Callers must hold c.mu.
func (c *Controller) append(msg model.Message) {
	msg.Timestamp = c.now()
	c.messages = append(c.messages, msg)
}

// stampID builds a millisecond-stamped id with the given prefix. Appends
// within the same millisecond bump the stamp so ids stay unique within the
// session. Callers must hold c.mu.
func (c *Controller) stampID(prefix string) string {
	ms := c.now().UnixMilli()
	if ms <= c.lastStamp {
		ms = c.lastStamp + 1
	}
	c.lastStamp = ms
	return prefix + strconv.FormatInt(ms, 10)
}

func fire(notify func()) {
	if notify != nil {
		notify()
	}
}
