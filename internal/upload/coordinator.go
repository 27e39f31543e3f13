package upload

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"campusmate/client/internal/client"
	apperrors "campusmate/client/internal/errors"
	"campusmate/client/internal/interfaces"
	"campusmate/client/internal/model"
)

// State is the coordinator's position in the upload flow.
type State string

const (
	StateIdle          State = "idle"
	StateValidating    State = "validating"
	StateRequestingURL State = "requestingUrl"
	StateUploading     State = "uploading"
	StateSuccess       State = "success"
	StateError         State = "error"
)

// maxFileSize is the largest accepted upload, 50 MiB.
const maxFileSize = 50 * 1024 * 1024

// defaultDismissDelay is how long a success result stays visible before the
// form returns to idle.
const defaultDismissDelay = 3 * time.Second

// User-facing messages. Validation failures never reach the network.
const (
	msgOnlyPDF        = "PDF 파일만 업로드 가능합니다."
	msgTooLarge       = "파일 크기는 50MB를 초과할 수 없습니다."
	msgNoFile         = "업로드할 파일을 선택해주세요."
	msgGenericFailure = "업로드 중 오류가 발생했습니다."
	msgDirectSuccess  = "문서가 업로드되었습니다. 자동 벡터화 처리 중입니다..."
	msgBackendSuccess = "문서가 성공적으로 업로드되고 벡터화되었습니다!"
)

// FileInfo describes the currently selected file.
type FileInfo struct {
	Name string
	Size int64
}

// Result reports a completed upload to the user.
type Result struct {
	Message    string
	S3Key      string
	DocumentID int64
	ChunkCount int
}

// Coordinator drives the document upload flow: file validation, metadata
// collection, presigned URL acquisition, the direct object-store PUT, result
// reporting, and form reset. One upload is in flight at a time.
//
// Success is assumed once the PUT resolves with a 2xx status; vectorization
// continues asynchronously server-side and is not polled for.
type Coordinator struct {
	gw       interfaces.UploadGateway
	schoolID string

	mu         sync.Mutex
	state      State
	file       *FileInfo
	category   model.Category
	department string
	errMsg     string
	result     *Result

	dismiss      *time.Timer
	dismissDelay time.Duration
}

// Option customizes a Coordinator.
type Option func(*Coordinator)

// WithDismissDelay overrides the success auto-dismiss delay.
func WithDismissDelay(d time.Duration) Option {
	return func(c *Coordinator) { c.dismissDelay = d }
}

// NewCoordinator creates an idle coordinator with the default category.
func NewCoordinator(gw interfaces.UploadGateway, schoolID string, opts ...Option) *Coordinator {
	c := &Coordinator{
		gw:           gw,
		schoolID:     schoolID,
		state:        StateIdle,
		category:     model.CategoryAcademic,
		dismissDelay: defaultDismissDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SelectFile validates a file selection entirely client-side. Rejections
// clear the file slot and set the error message; acceptance clears any prior
// result. Either way the coordinator returns to idle. The category selection
// is untouched, so it persists across file changes.
func (c *Coordinator) SelectFile(name string, size int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = StateValidating
	c.result = nil

	if !strings.HasSuffix(strings.ToLower(name), ".pdf") {
		c.file = nil
		c.errMsg = msgOnlyPDF
		c.state = StateIdle
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, msgOnlyPDF)
	}
	if size > maxFileSize {
		c.file = nil
		c.errMsg = msgTooLarge
		c.state = StateIdle
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, msgTooLarge)
	}

	c.file = &FileInfo{Name: name, Size: size}
	c.errMsg = ""
	c.state = StateIdle
	return nil
}

// SetCategory changes the document category. Invalid values are rejected and
// the previous selection stands.
func (c *Coordinator) SetCategory(cat model.Category) error {
	if !cat.Valid() {
		return fmt.Errorf("%w: unknown category %q", apperrors.ErrValidation, cat)
	}
	c.mu.Lock()
	c.category = cat
	c.mu.Unlock()
	return nil
}

// SetDepartment records the optional owning department.
func (c *Coordinator) SetDepartment(department string) {
	c.mu.Lock()
	c.department = strings.TrimSpace(department)
	c.mu.Unlock()
}

// Upload runs the two-phase direct upload: request a presigned URL from the
// backend, then PUT the raw bytes to the object store. Any failure in either
// phase lands in the error state with the form retained; no retry is
// attempted.
func (c *Coordinator) Upload(ctx context.Context, contents io.Reader) {
	form, ok := c.begin()
	if !ok {
		return
	}

	presigned, err := c.gw.RequestPresignedURL(ctx, &client.PresignedURLRequest{
		SchoolID:   c.schoolID,
		Category:   form.category,
		FileName:   form.file.Name,
		Department: form.department,
	})
	if err != nil {
		c.fail(err)
		return
	}

	c.mu.Lock()
	c.state = StateUploading
	c.mu.Unlock()

	if err := c.gw.DirectPut(ctx, presigned.UploadURL, contents); err != nil {
		c.fail(err)
		return
	}

	c.succeed(&Result{Message: msgDirectSuccess, S3Key: presigned.S3Key})
}

// UploadViaBackend posts the file as multipart form data to the backend
// instead of the object store. Fallback path for environments without
// object-store access.
func (c *Coordinator) UploadViaBackend(ctx context.Context, contents io.Reader) {
	form, ok := c.begin()
	if !ok {
		return
	}

	c.mu.Lock()
	c.state = StateUploading
	c.mu.Unlock()

	receipt, err := c.gw.UploadDocumentMultipart(ctx, form.file.Name, contents, &client.DocumentMeta{
		SchoolID:   c.schoolID,
		Category:   form.category,
		Department: form.department,
	})
	if err != nil {
		c.fail(err)
		return
	}

	c.succeed(&Result{
		Message:    msgBackendSuccess,
		DocumentID: receipt.DocumentID,
		ChunkCount: receipt.ChunkCount,
	})
}

// formValues is the snapshot of the form taken when an upload starts, so the
// request sees one consistent set of values.
type formValues struct {
	file       FileInfo
	category   model.Category
	department string
}

// begin gates the upload: a valid file must be selected and no upload may be
// in flight. Returns a snapshot of the form on success.
func (c *Coordinator) begin() (formValues, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateRequestingURL || c.state == StateUploading {
		return formValues{}, false
	}
	if c.file == nil {
		c.errMsg = msgNoFile
		c.state = StateError
		return formValues{}, false
	}
	c.stopDismissLocked()
	c.errMsg = ""
	c.result = nil
	c.state = StateRequestingURL
	return formValues{file: *c.file, category: c.category, department: c.department}, true
}

// fail enters the error state with the server's detail message when one is
// available, otherwise the generic localized message. The form keeps its
// values so the user can re-initiate.
func (c *Coordinator) fail(err error) {
	msg := msgGenericFailure
	if detail, ok := apperrors.Detail(err); ok {
		msg = detail
	}
	slog.Warn("Document upload failed", "school_id", c.schoolID, "error", err)

	c.mu.Lock()
	c.state = StateError
	c.errMsg = msg
	c.mu.Unlock()
}

// succeed records the result, clears the form (the category selection is
// kept), and arms the auto-dismiss timer.
func (c *Coordinator) succeed(result *Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = StateSuccess
	c.result = result
	c.file = nil
	c.department = ""
	c.errMsg = ""
	c.dismiss = time.AfterFunc(c.dismissDelay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.state == StateSuccess {
			c.state = StateIdle
			c.result = nil
		}
	})
}

// CloseModal handles the user closing the upload surface. The auto-dismiss
// timer is cancelled; a displayed success result is cleared immediately. An
// in-flight PUT is left untouched.
func (c *Coordinator) CloseModal() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopDismissLocked()
	if c.state == StateSuccess {
		c.state = StateIdle
		c.result = nil
	}
}

// Dismiss acknowledges an error and returns to idle. The form is retained.
func (c *Coordinator) Dismiss() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateError {
		c.state = StateIdle
		c.errMsg = ""
	}
}

func (c *Coordinator) stopDismissLocked() {
	if c.dismiss != nil {
		c.dismiss.Stop()
		c.dismiss = nil
	}
}

// State returns the current machine state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// File returns the currently selected file, or nil.
func (c *Coordinator) File() *FileInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.file == nil {
		return nil
	}
	f := *c.file
	return &f
}

// Category returns the current category selection.
func (c *Coordinator) Category() model.Category {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.category
}

// Department returns the optional department value.
func (c *Coordinator) Department() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.department
}

// ErrorMessage returns the user-facing error text, empty when there is none.
func (c *Coordinator) ErrorMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// Result returns the last upload result while it is displayed, or nil.
func (c *Coordinator) Result() *Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.result == nil {
		return nil
	}
	r := *c.result
	return &r
}
