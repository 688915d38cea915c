// Package render turns typing frames into output on a writer.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"

	"github.com/xkilldash9x/typewriter/internal/typing"
)

// DefaultCursorGlyph is drawn after the text while the cursor is visible.
const DefaultCursorGlyph = "▌"

const eraseRune = "\b \b"

// TerminalOption configures a Terminal renderer.
type TerminalOption func(*Terminal)

// WithInteractive overrides terminal detection.
func WithInteractive(interactive bool) TerminalOption {
	return func(t *Terminal) { t.interactive = interactive }
}

// WithCursorGlyph replaces the cursor glyph. It must occupy a single column.
func WithCursorGlyph(glyph string) TerminalOption {
	return func(t *Terminal) { t.cursor = glyph }
}

// Terminal redraws frames in place by writing only the difference from the
// previous frame. When the writer is not a terminal only the final frame is written.
// A Terminal tracks one session's output; use a new one per session.
type Terminal struct {
	w           io.Writer
	interactive bool
	cursor      string

	mu          sync.Mutex
	shown       []rune
	cursorShown bool
}

// NewTerminal returns a renderer writing to w.
func NewTerminal(w io.Writer, opts ...TerminalOption) *Terminal {
	t := &Terminal{
		w:           w,
		interactive: IsTerminal(w),
		cursor:      DefaultCursorGlyph,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Render implements typing.Renderer.
func (t *Terminal) Render(frame typing.Frame) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.interactive {
		if !frame.Final {
			return nil
		}
		_, err := io.WriteString(t.w, frame.Text+"\n")
		return err
	}

	next := []rune(frame.Text)
	var b strings.Builder

	if t.cursorShown {
		b.WriteString(eraseRune)
	}
	keep := commonPrefix(t.shown, next)
	writeErase(&b, t.shown, keep)
	b.WriteString(string(next[keep:]))

	showCursor := frame.CursorVisible && !frame.Final
	if showCursor {
		b.WriteString(t.cursor)
	}
	if frame.Final {
		b.WriteString("\n")
	}

	if _, err := io.WriteString(t.w, b.String()); err != nil {
		return fmt.Errorf("render: write terminal frame %d: %w", frame.Seq, err)
	}
	t.shown = next
	t.cursorShown = showCursor
	if frame.Final {
		t.shown = nil
	}
	return nil
}

// writeErase removes shown[keep:] from the screen. Within a line each rune is
// backspaced over; once a newline has to go, the cursor jumps back to the
// kept position and the rest of the screen is cleared.
func writeErase(b *strings.Builder, shown []rune, keep int) {
	removed := shown[keep:]
	lines := 0
	for _, r := range removed {
		if r == '\n' {
			lines++
		}
	}
	if lines == 0 {
		b.WriteString(strings.Repeat(eraseRune, len(removed)))
		return
	}

	column := keep
	for i := keep - 1; i >= 0; i-- {
		if shown[i] == '\n' {
			column = keep - i - 1
			break
		}
	}
	fmt.Fprintf(b, "\x1b[%dA\r", lines)
	if column > 0 {
		fmt.Fprintf(b, "\x1b[%dC", column)
	}
	b.WriteString("\x1b[J")
}

func commonPrefix(a, b []rune) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}
