package view

import (
	"errors"

	apperrors "campusmate/client/internal/errors"
)

// userMessage maps an error from the client or controllers to the localized
// text shown to the user. Server-supplied detail is shown verbatim; transport
// failures collapse into a generic "temporary error, retry" message so
// implementation details never leak into the terminal.
func userMessage(err error) string {
	if detail, ok := apperrors.Detail(err); ok {
		return detail
	}
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return err.Error()
	case errors.Is(err, apperrors.ErrTimeout), errors.Is(err, apperrors.ErrTransport):
		return "일시적인 오류가 발생했습니다. 잠시 후 다시 시도해주세요."
	default:
		return "요청을 처리하지 못했습니다."
	}
}
