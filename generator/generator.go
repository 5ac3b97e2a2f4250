package generator

import (
	"bufio"
	"fmt"
	"io"
)

type GenerateOpt func(g *generator) error

// WithContent sets the text to embed.
func WithContent(content string) GenerateOpt {
	return func(g *generator) error {
		g.content = content
		return nil
	}
}

// WithHeaderName sets the file name used in the marker comment.
func WithHeaderName(name string) GenerateOpt {
	return func(g *generator) error {
		if name == "" {
			return fmt.Errorf("header name must not be empty")
		}
		g.headerName = name
		return nil
	}
}

func WithGuardName(name string) GenerateOpt {
	return func(g *generator) error {
		if !validIdentifier(name) {
			return fmt.Errorf("invalid guard name %q", name)
		}
		g.guardName = name
		return nil
	}
}

func WithConstName(name string) GenerateOpt {
	return func(g *generator) error {
		if !validIdentifier(name) {
			return fmt.Errorf("invalid constant name %q", name)
		}
		g.constName = name
		return nil
	}
}

type generator struct {
	content    string
	headerName string
	guardName  string
	constName  string
}

// Generate writes a C header declaring the content as a string literal
// constant. The declaration carries one quoted segment per input line, each
// ending in an escaped newline, so decoding the segments in order
// reproduces the content with a newline after every line regardless of the
// input's line-ending style. An empty content produces a declaration with
// no quoted segments.
func Generate(w io.Writer, opts ...GenerateOpt) error {
	g := generator{
		headerName: "web_bundle.h",
		guardName:  "WEB_BUNDLE_H",
		constName:  "index_html",
	}
	for _, opt := range opts {
		if err := opt(&g); err != nil {
			return err
		}
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "/* %s — auto-generated, do not edit */\n", g.headerName)
	fmt.Fprintf(bw, "#ifndef %s\n", g.guardName)
	fmt.Fprintf(bw, "#define %s\n\n", g.guardName)
	fmt.Fprintf(bw, "static const char %s[] =\n", g.constName)
	ew := NewEscapeWriter(bw)
	for _, line := range SplitLines(g.content) {
		bw.WriteString(`    "`)
		if _, err := io.WriteString(ew, line); err != nil {
			return err
		}
		bw.WriteString("\\n\"\n")
	}
	bw.WriteString(";\n\n")
	fmt.Fprintf(bw, "#endif /* %s */\n", g.guardName)
	return bw.Flush()
}

func validIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
