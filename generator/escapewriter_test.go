package generator

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEscapeWriter(t *testing.T) {
	t.Run("writes unescaped characters unchanged", func(t *testing.T) {
		w := new(bytes.Buffer)
		ew := NewEscapeWriter(w)

		input := []byte("<p>hello world</p>")
		expected := "<p>hello world</p>"

		n, err := ew.Write(input)
		if err != nil {
			t.Fatalf("failed to write: %v", err)
		}
		if n != len(expected) {
			t.Errorf("expected to write %d bytes, wrote %d", len(expected), n)
		}
		if diff := cmp.Diff(expected, w.String()); diff != "" {
			t.Errorf("unexpected output (-want +got):\n%s", diff)
		}
	})

	t.Run("escapes double quotes", func(t *testing.T) {
		w := new(bytes.Buffer)
		ew := NewEscapeWriter(w)

		input := []byte(`<a href="/">home</a>`)
		expected := `<a href=\"/\">home</a>`

		n, err := ew.Write(input)
		if err != nil {
			t.Fatalf("failed to write: %v", err)
		}
		if n != len(expected) {
			t.Errorf("expected to write %d bytes, wrote %d", len(expected), n)
		}
		if diff := cmp.Diff(expected, w.String()); diff != "" {
			t.Errorf("unexpected output (-want +got):\n%s", diff)
		}
	})

	t.Run("escapes backslashes", func(t *testing.T) {
		w := new(bytes.Buffer)
		ew := NewEscapeWriter(w)

		input := []byte(`Back\slash`)
		expected := `Back\\slash`

		n, err := ew.Write(input)
		if err != nil {
			t.Fatalf("failed to write: %v", err)
		}
		if n != len(expected) {
			t.Errorf("expected to write %d bytes, wrote %d", len(expected), n)
		}
		if diff := cmp.Diff(expected, w.String()); diff != "" {
			t.Errorf("unexpected output (-want +got):\n%s", diff)
		}
	})

	t.Run("handles adjacent backslash and quote", func(t *testing.T) {
		w := new(bytes.Buffer)
		ew := NewEscapeWriter(w)

		input := []byte(`\"`)
		expected := `\\\"`

		n, err := ew.Write(input)
		if err != nil {
			t.Fatalf("failed to write: %v", err)
		}
		if n != len(expected) {
			t.Errorf("expected to write %d bytes, wrote %d", len(expected), n)
		}
		if diff := cmp.Diff(expected, w.String()); diff != "" {
			t.Errorf("unexpected output (-want +got):\n%s", diff)
		}
	})

	t.Run("leaves escape sequences already in the input alone", func(t *testing.T) {
		w := new(bytes.Buffer)
		ew := NewEscapeWriter(w)

		// Each escaping pass doubles the backslashes, never collapses them.
		input := []byte(`\\`)
		expected := `\\\\`

		n, err := ew.Write(input)
		if err != nil {
			t.Fatalf("failed to write: %v", err)
		}
		if n != len(expected) {
			t.Errorf("expected to write %d bytes, wrote %d", len(expected), n)
		}
		if diff := cmp.Diff(expected, w.String()); diff != "" {
			t.Errorf("unexpected output (-want +got):\n%s", diff)
		}
	})

	t.Run("handles empty input", func(t *testing.T) {
		w := new(bytes.Buffer)
		ew := NewEscapeWriter(w)

		n, err := ew.Write([]byte(""))
		if err != nil {
			t.Fatalf("failed to write: %v", err)
		}
		if n != 0 {
			t.Errorf("expected to write 0 bytes, wrote %d", n)
		}
		if diff := cmp.Diff("", w.String()); diff != "" {
			t.Errorf("unexpected output (-want +got):\n%s", diff)
		}
	})
}
