package render

import (
	"bufio"
	"bytes"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	json "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/typewriter/internal/typing"
)

func TestJSONLines(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	offsets := []time.Duration{0, 80 * time.Millisecond, 1250 * time.Millisecond}
	calls := 0
	now := func() time.Time {
		ts := base.Add(offsets[calls])
		calls++
		return ts
	}

	var out bytes.Buffer
	r := NewJSONLines(&out, now)
	renderAll(t, r,
		typing.Frame{Seq: 0, Text: "H", CursorVisible: true},
		typing.Frame{Seq: 1, Text: "Hé", CursorVisible: false},
		typing.Frame{Seq: 2, Text: "Hé\"", Final: true},
	)

	var got []FrameRecord
	scanner := bufio.NewScanner(&out)
	for scanner.Scan() {
		var rec FrameRecord
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		got = append(got, rec)
	}
	require.NoError(t, scanner.Err())

	want := []FrameRecord{
		{Seq: 0, Text: "H", Cursor: true, ElapsedMS: 0},
		{Seq: 1, Text: "Hé", Cursor: false, ElapsedMS: 80},
		{Seq: 2, Text: "Hé\"", Final: true, ElapsedMS: 1250},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONLines_FieldNames(t *testing.T) {
	var out bytes.Buffer
	r := NewJSONLines(&out, nil)
	require.NoError(t, r.Render(typing.Frame{Seq: 7, Text: "ok", CursorVisible: true}))

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &raw))
	assert.Equal(t, map[string]interface{}{
		"seq":        float64(7),
		"text":       "ok",
		"cursor":     true,
		"final":      false,
		"elapsed_ms": float64(0),
	}, raw)
}

func TestJSONLines_WriteError(t *testing.T) {
	r := NewJSONLines(failingWriter{}, nil)
	err := r.Render(typing.Frame{Seq: 1, Text: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "frame 1")
}
