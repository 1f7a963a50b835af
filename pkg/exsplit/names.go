package exsplit

import (
	"path"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	xlsxExt = ".xlsx"
	zipExt  = ".zip"
)

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// asciiFold decomposes and drops everything outside ASCII.
// Chained transformers keep state, so each call builds its own.
func asciiFold() transform.Transformer {
	return transform.Chain(
		norm.NFKD,
		runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
	)
}

// SecureFileName reduces an uploaded file name to a safe ASCII base name:
// accents are folded, path separators and whitespace become underscores,
// anything outside [A-Za-z0-9_.-] is dropped and leading or trailing dots
// and underscores are trimmed. The result may be empty.
func SecureFileName(name string) string {
	folded, _, err := transform.String(asciiFold(), name)
	if err != nil {
		folded = name
	}
	folded = strings.NewReplacer("/", " ", "\\", " ").Replace(folded)
	folded = strings.Join(strings.Fields(folded), "_")
	folded = unsafeFileChars.ReplaceAllString(folded, "")
	return strings.Trim(folded, "._")
}

// safeLabel keeps a label's characters, Unicode included, except those that
// would escape the archive directory or break a file name.
func safeLabel(label string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\' || r == ':':
			return '_'
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, label)
	clean = strings.TrimSpace(clean)
	if clean == "" || strings.Trim(clean, ".") == "" {
		return "_"
	}
	return clean
}

// nameSet hands out names that are unique within one bundle.
type nameSet map[string]struct{}

func newNameSet() nameSet { return make(nameSet) }

func (s nameSet) reserve(name string) { s[name] = struct{}{} }

// unique returns name, or name with "_2", "_3", ... inserted before the
// extension when it is already taken.
func (s nameSet) unique(name string) string {
	candidate := name
	ext := path.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for n := 2; ; n++ {
		if _, taken := s[candidate]; !taken {
			break
		}
		candidate = base + "_" + strconv.Itoa(n) + ext
	}
	s.reserve(candidate)
	return candidate
}
