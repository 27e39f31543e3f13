package view

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"campusmate/client/internal/admin"
	"campusmate/client/internal/model"
)

// defaultPageSize matches the dashboard's document page length.
const defaultPageSize = 20

// AdminView is the administrative dashboard surface: document and feed
// listings plus the destructive operations behind them.
type AdminView struct {
	svc *admin.Service
	out io.Writer
}

func NewAdminView(svc *admin.Service, out io.Writer) *AdminView {
	return &AdminView{svc: svc, out: out}
}

// Run dispatches a dashboard action. With no arguments it renders the
// document and feed listings; `delete <id>` removes a document,
// `add-doc <path> <title> <category> <department> <contact>` registers a
// curated document, and `add-rss <url> <category> <department> <contact>`
// registers a feed.
func (v *AdminView) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return v.renderDashboard(ctx)
	}

	switch args[0] {
	case "delete":
		if len(args) != 2 {
			return fmt.Errorf("usage: admin delete <document-id>")
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid document id %q", args[1])
		}
		if err := v.svc.DeleteDocument(ctx, id); err != nil {
			errorText.Fprintln(v.out, userMessage(err))
			return err
		}
		successText.Fprintf(v.out, "문서 %d 이(가) 삭제되었습니다.\n", id)
		return nil
	case "add-doc":
		if len(args) != 6 {
			return fmt.Errorf("usage: admin add-doc <file> <title> <category> <department> <contact>")
		}
		file, err := os.Open(args[1])
		if err != nil {
			return fmt.Errorf("could not open %s: %w", args[1], err)
		}
		defer file.Close()
		err = v.svc.CreateDocument(ctx, filepath.Base(args[1]), file, args[2], model.Category(args[3]), args[4], args[5])
		if err != nil {
			errorText.Fprintln(v.out, userMessage(err))
			return err
		}
		successText.Fprintln(v.out, "문서가 등록되었습니다.")
		return nil
	case "add-rss":
		if len(args) != 5 {
			return fmt.Errorf("usage: admin add-rss <feed-url> <category> <department> <contact>")
		}
		err := v.svc.AddFeed(ctx, args[1], model.Category(args[2]), args[3], args[4])
		if err != nil {
			errorText.Fprintln(v.out, userMessage(err))
			return err
		}
		successText.Fprintln(v.out, "RSS 피드가 등록되었습니다.")
		return nil
	default:
		return fmt.Errorf("unknown admin action %q", args[0])
	}
}

func (v *AdminView) renderDashboard(ctx context.Context) error {
	fmt.Fprintln(v.out, "🛠 관리자 대시보드")

	documents, err := v.svc.Documents(ctx, "", 0, defaultPageSize)
	if err != nil {
		errorText.Fprintln(v.out, userMessage(err))
		return err
	}
	fmt.Fprintf(v.out, "\n문서 (%d건)\n", documents.Total)
	for _, doc := range documents.Documents {
		fmt.Fprintf(v.out, "  #%d  %-30s  %-8s  %s\n", doc.ID, doc.Title, doc.Category.Label(), doc.Department)
	}
	if len(documents.Documents) == 0 {
		dimText.Fprintln(v.out, "  등록된 문서가 없습니다.")
	}

	feeds, err := v.svc.Feeds(ctx)
	if err != nil {
		errorText.Fprintln(v.out, userMessage(err))
		return err
	}
	fmt.Fprintln(v.out, "\nRSS 피드")
	for _, feed := range feeds.Feeds {
		fmt.Fprintf(v.out, "  #%d  %-40s  %s\n", feed.ID, feed.FeedURL, feed.Category.Label())
	}
	if len(feeds.Feeds) == 0 {
		dimText.Fprintln(v.out, "  등록된 피드가 없습니다.")
	}
	return nil
}
