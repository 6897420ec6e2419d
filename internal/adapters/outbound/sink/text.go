package sink

import (
	"fmt"
	"io"

	"github.com/openkraft/autograder/internal/domain"
)

// CompletionLine is printed once every unit has been graded.
const CompletionLine = "Grading process complete."

// TextSink prints progress lines as they arrive.
type TextSink struct {
	w io.Writer
}

func NewText(w io.Writer) *TextSink {
	return &TextSink{w: w}
}

func (s *TextSink) Publish(ev domain.Event) error {
	switch ev.Type {
	case domain.EventProgress:
		_, err := fmt.Fprintln(s.w, ev.Line)
		return err
	case domain.EventBatchCompleted:
		_, err := fmt.Fprintln(s.w, CompletionLine)
		return err
	}
	return nil
}
