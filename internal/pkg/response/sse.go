package response

import (
	"encoding/json"
	"fmt"
	"net/http"
)

const doneMarker = "[DONE]"

// EventStream writes server-sent events, flushing after each one
type EventStream struct {
	w  http.ResponseWriter
	rc *http.ResponseController
}

// NewEventStream sends the stream headers and a 200 status
func NewEventStream(w http.ResponseWriter) *EventStream {
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	return &EventStream{w: w, rc: http.NewResponseController(w)}
}

// Send writes v as one "data:" event
func (s *EventStream) Send(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return s.write(data)
}

// Done writes the terminal event
func (s *EventStream) Done() error {
	return s.write([]byte(doneMarker))
}

func (s *EventStream) write(data []byte) error {
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", data); err != nil {
		return err
	}
	return s.rc.Flush()
}
