package generator

import "io"

type EscapeWriter struct {
	w io.Writer
}

func NewEscapeWriter(w io.Writer) *EscapeWriter {
	return &EscapeWriter{w: w}
}

// Write escapes backslashes and double quotes so the output can sit inside
// a C string literal. Backslash is handled as its own case so the escape's
// own backslash is never re-escaped.
func (w *EscapeWriter) Write(p []byte) (n int, err error) {
	var processed []byte
	for i := 0; i < len(p); i++ {
		switch p[i] {
		case '\\':
			processed = append(processed, '\\', '\\')
		case '"':
			processed = append(processed, '\\', '"')
		default:
			processed = append(processed, p[i])
		}
	}

	return w.w.Write(processed)
}
