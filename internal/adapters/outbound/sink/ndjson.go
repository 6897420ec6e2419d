package sink

import (
	"encoding/json"
	"io"

	"github.com/openkraft/autograder/internal/domain"
)

// NDJSONSink writes every event as one JSON object per line.
type NDJSONSink struct {
	enc *json.Encoder
}

func NewNDJSON(w io.Writer) *NDJSONSink {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &NDJSONSink{enc: enc}
}

func (s *NDJSONSink) Publish(ev domain.Event) error {
	return s.enc.Encode(ev)
}
