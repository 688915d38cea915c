// Package typing replays a finished chat response the way a person would type it:
// uneven keystroke pacing, pauses after punctuation and between words, and the
// occasional typo that is shown, noticed and erased.
//
// A Session walks the target text with a Pacer, emitting Frames to a Renderer
// until the text is complete or the session is cancelled.
package typing
