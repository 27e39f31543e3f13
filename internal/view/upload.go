package view

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"campusmate/client/internal/config"
	"campusmate/client/internal/model"
	"campusmate/client/internal/upload"
)

// UploadView is the administrator upload surface: it collects a file and its
// metadata, runs the coordinator, and reports the outcome.
type UploadView struct {
	coord *upload.Coordinator
	mode  string
	in    io.Reader
	out   io.Writer
}

func NewUploadView(coord *upload.Coordinator, mode string, in io.Reader, out io.Writer) *UploadView {
	return &UploadView{coord: coord, mode: mode, in: in, out: out}
}

// Run walks through one upload: file selection (repeated until a valid PDF is
// chosen or the user aborts with an empty line), category and department
// collection, then the upload itself.
func (v *UploadView) Run(ctx context.Context) error {
	defer v.coord.CloseModal()

	fmt.Fprintln(v.out, "📄 문서 업로드")
	scanner := bufio.NewScanner(v.in)

	path, ok := v.selectFile(scanner)
	if !ok {
		return nil
	}
	v.selectCategory(scanner)
	v.readDepartment(scanner)

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("could not open %s: %w", path, err)
	}
	defer file.Close()

	if v.mode == config.UploadModeBackend {
		v.coord.UploadViaBackend(ctx, file)
	} else {
		v.coord.Upload(ctx, file)
	}

	v.report()
	return nil
}

// selectFile prompts for a PDF path until validation passes. An empty line
// aborts. Returns the chosen path.
func (v *UploadView) selectFile(scanner *bufio.Scanner) (string, bool) {
	for {
		fmt.Fprint(v.out, "PDF 파일 경로 (빈 줄 입력 시 취소): ")
		if !scanner.Scan() {
			return "", false
		}
		path := strings.TrimSpace(scanner.Text())
		if path == "" {
			return "", false
		}

		info, err := os.Stat(path)
		if err != nil {
			errorText.Fprintf(v.out, "파일을 찾을 수 없습니다: %s\n", path)
			continue
		}
		if err := v.coord.SelectFile(filepath.Base(path), info.Size()); err != nil {
			errorText.Fprintln(v.out, v.coord.ErrorMessage())
			continue
		}

		fmt.Fprintf(v.out, "선택된 파일: %s (%.2f MB)\n", filepath.Base(path), float64(info.Size())/1024/1024)
		return path, true
	}
}

// selectCategory prompts for one of the enumerated categories; an empty line
// keeps the current (default) selection.
func (v *UploadView) selectCategory(scanner *bufio.Scanner) {
	order := []model.Category{
		model.CategoryAcademic,
		model.CategoryScholarship,
		model.CategoryFacilities,
		model.CategoryCareer,
		model.CategoryGeneral,
	}
	fmt.Fprintln(v.out, "카테고리:")
	for _, cat := range order {
		fmt.Fprintf(v.out, "  %s — %s\n", cat, cat.Label())
	}
	for {
		fmt.Fprintf(v.out, "카테고리 선택 [%s]: ", v.coord.Category())
		if !scanner.Scan() {
			return
		}
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			return
		}
		if err := v.coord.SetCategory(model.Category(raw)); err != nil {
			errorText.Fprintf(v.out, "알 수 없는 카테고리입니다: %s\n", raw)
			continue
		}
		return
	}
}

func (v *UploadView) readDepartment(scanner *bufio.Scanner) {
	fmt.Fprint(v.out, "담당 부서 (선택, 예: 학사지원팀): ")
	if scanner.Scan() {
		v.coord.SetDepartment(scanner.Text())
	}
}

// report prints the outcome of the upload.
func (v *UploadView) report() {
	switch v.coord.State() {
	case upload.StateSuccess:
		result := v.coord.Result()
		successText.Fprintf(v.out, "✅ %s\n", result.Message)
		if result.S3Key != "" {
			dimText.Fprintf(v.out, "   객체 키: %s\n", result.S3Key)
		}
		if result.DocumentID != 0 {
			dimText.Fprintf(v.out, "   문서 ID: %d, 청크 수: %d\n", result.DocumentID, result.ChunkCount)
		}
	default:
		errorText.Fprintf(v.out, "❌ %s\n", v.coord.ErrorMessage())
	}
}
