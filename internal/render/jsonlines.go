package render

import (
	"fmt"
	"io"
	"sync"
	"time"

	json "github.com/json-iterator/go"

	"github.com/xkilldash9x/typewriter/internal/typing"
)

// FrameRecord is the JSON form of one frame.
type FrameRecord struct {
	Seq       int    `json:"seq"`
	Text      string `json:"text"`
	Cursor    bool   `json:"cursor"`
	Final     bool   `json:"final"`
	ElapsedMS int64  `json:"elapsed_ms"`
}

// JSONLines writes one JSON object per frame, newline separated.
type JSONLines struct {
	now func() time.Time

	mu    sync.Mutex
	enc   *json.Encoder
	start time.Time
}

// NewJSONLines returns a renderer writing to w. A nil now uses time.Now.
func NewJSONLines(w io.Writer, now func() time.Time) *JSONLines {
	if now == nil {
		now = time.Now
	}
	return &JSONLines{now: now, enc: json.NewEncoder(w)}
}

// Render implements typing.Renderer. Elapsed time is measured from the first frame.
func (j *JSONLines) Render(frame typing.Frame) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	ts := j.now()
	if j.start.IsZero() {
		j.start = ts
	}
	record := FrameRecord{
		Seq:       frame.Seq,
		Text:      frame.Text,
		Cursor:    frame.CursorVisible,
		Final:     frame.Final,
		ElapsedMS: ts.Sub(j.start).Milliseconds(),
	}
	if err := j.enc.Encode(record); err != nil {
		return fmt.Errorf("render: encode frame %d: %w", frame.Seq, err)
	}
	return nil
}
