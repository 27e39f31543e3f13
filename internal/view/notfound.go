package view

import (
	"fmt"
	"io"
)

// NotFound is shown for any surface the router does not know, pointing the
// user back at the chat and admin surfaces.
func NotFound(out io.Writer, surface string) {
	errorText.Fprintf(out, "알 수 없는 화면입니다: %s\n\n", surface)
	fmt.Fprintln(out, "사용 가능한 화면:")
	fmt.Fprintln(out, "  campusmate chat    챗봇과 대화하기")
	fmt.Fprintln(out, "  campusmate upload  문서 업로드 (관리자)")
	fmt.Fprintln(out, "  campusmate admin   관리자 대시보드")
}
