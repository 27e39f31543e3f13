package view

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"campusmate/client/internal/chat"
	"campusmate/client/internal/model"
)

var (
	userLabel      = color.New(color.FgCyan, color.Bold)
	assistantLabel = color.New(color.FgGreen, color.Bold)
	errorText      = color.New(color.FgRed)
	successText    = color.New(color.FgGreen)
	ragBadge       = color.New(color.FgGreen)
	fallbackBadge  = color.New(color.FgYellow)
	dimText        = color.New(color.Faint)
)

// ChatView is the conversational surface: a line-oriented REPL over the chat
// session controller. Each submitted line becomes a user message; blank lines
// are ignored.
type ChatView struct {
	ctrl     *chat.Controller
	in       io.Reader
	out      io.Writer
	rendered int
}

func NewChatView(ctrl *chat.Controller, in io.Reader, out io.Writer) *ChatView {
	return &ChatView{ctrl: ctrl, in: in, out: out}
}

// Run drives the REPL until the input closes or the user quits. The
// controller's mutation notifications trigger rendering of the transcript
// tail, the terminal analog of scrolling to the newest message.
func (v *ChatView) Run(ctx context.Context) error {
	defer v.ctrl.Close()

	v.ctrl.SetNotify(v.renderTail)

	fmt.Fprintln(v.out, "🎓 캠퍼스메이트 — 대학 행정 AI 도우미")
	dimText.Fprintln(v.out, "질문을 입력하세요. /rate <1-5> 로 마지막 답변을 평가하고, /quit 로 종료합니다.")
	fmt.Fprintln(v.out)
	v.renderTail()

	scanner := bufio.NewScanner(v.in)
	for {
		fmt.Fprint(v.out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := scanner.Text()

		switch {
		case strings.HasPrefix(strings.TrimSpace(line), "/"):
			if quit := v.handleCommand(ctx, strings.TrimSpace(line)); quit {
				return nil
			}
		default:
			v.ctrl.Send(ctx, line)
		}
	}
}

// handleCommand processes slash commands. Returns true when the view should
// exit.
func (v *ChatView) handleCommand(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit", "/exit":
		return true
	case "/rate":
		v.rate(ctx, fields[1:])
	default:
		errorText.Fprintf(v.out, "알 수 없는 명령입니다: %s\n", fields[0])
	}
	return false
}

// rate submits feedback for the most recent assistant answer.
func (v *ChatView) rate(ctx context.Context, args []string) {
	if len(args) == 0 {
		errorText.Fprintln(v.out, "사용법: /rate <1-5> [의견]")
		return
	}
	rating, err := strconv.Atoi(args[0])
	if err != nil {
		errorText.Fprintln(v.out, "사용법: /rate <1-5> [의견]")
		return
	}
	target := lastAnswerID(v.ctrl.Messages())
	if target == "" {
		errorText.Fprintln(v.out, "평가할 답변이 없습니다.")
		return
	}
	comment := strings.Join(args[1:], " ")
	if err := v.ctrl.SubmitFeedback(ctx, target, rating, comment); err != nil {
		errorText.Fprintln(v.out, userMessage(err))
		return
	}
	fmt.Fprintln(v.out, "피드백이 등록되었습니다. 감사합니다.")
}

// lastAnswerID finds the newest assistant message that is a real answer, not
// a synthesized error and not the greeting.
func lastAnswerID(messages []model.Message) string {
	for i := len(messages) - 1; i > 0; i-- {
		msg := messages[i]
		if msg.Role == model.RoleAssistant && !msg.IsError {
			return msg.ID
		}
	}
	return ""
}

// renderTail prints every not-yet-rendered message, then the in-flight
// indicator when a request is pending.
func (v *ChatView) renderTail() {
	messages := v.ctrl.Messages()
	for ; v.rendered < len(messages); v.rendered++ {
		v.renderMessage(messages[v.rendered])
	}
	if v.ctrl.Loading() {
		dimText.Fprintln(v.out, "답변을 생성하고 있습니다...")
	}
}

func (v *ChatView) renderMessage(msg model.Message) {
	if msg.Role == model.RoleUser {
		userLabel.Fprint(v.out, "나")
		fmt.Fprintf(v.out, "  %s\n", msg.Content)
		return
	}

	assistantLabel.Fprint(v.out, "캠퍼스메이트")
	switch msg.ResponseType {
	case model.ResponseTypeRAG:
		ragBadge.Fprint(v.out, " [rag]")
	case model.ResponseTypeFallback:
		fallbackBadge.Fprint(v.out, " [fallback]")
	}
	fmt.Fprintln(v.out)

	if msg.IsError {
		errorText.Fprintf(v.out, "  %s\n", msg.Content)
		return
	}
	fmt.Fprintf(v.out, "  %s\n", msg.Content)

	if len(msg.SourceDocuments) > 0 {
		dimText.Fprintln(v.out, "  출처:")
		for _, doc := range msg.SourceDocuments {
			dimText.Fprintf(v.out, "   - %s\n", doc.Source)
		}
	}
	if msg.Metadata != nil && (msg.Metadata.Department != "" || msg.Metadata.Contact != "") {
		contact := msg.Metadata.Department
		if msg.Metadata.Contact != "" {
			contact = fmt.Sprintf("%s (tel:%s)", contact, msg.Metadata.Contact)
		}
		dimText.Fprintf(v.out, "  문의: %s\n", contact)
	}
}
