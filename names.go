package embedh

import (
	"path/filepath"
	"strings"
)

// GuardName derives a header guard identifier from the destination path,
// e.g. "src/web_bundle.h" becomes "WEB_BUNDLE_H".
func GuardName(dest string) string {
	return strings.ToUpper(identifier(filepath.Base(dest)))
}

// ConstName derives a constant identifier from the source path,
// e.g. "web/index.html" becomes "index_html".
func ConstName(src string) string {
	return strings.ToLower(identifier(filepath.Base(src)))
}

func identifier(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	s := b.String()
	if s == "" {
		return "_"
	}
	// C identifiers cannot start with a digit.
	if s[0] >= '0' && s[0] <= '9' {
		s = "_" + s
	}
	return s
}
