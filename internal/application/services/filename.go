package services

import (
	"path"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

const (
	maxBaseNameLen = 100
	maxExtLen      = 16
)

var windowsReserved = map[string]struct{}{
	"con": {}, "prn": {}, "aux": {}, "nul": {},
	"com1": {}, "com2": {}, "com3": {}, "com4": {}, "com5": {}, "com6": {}, "com7": {}, "com8": {}, "com9": {},
	"lpt1": {}, "lpt2": {}, "lpt3": {}, "lpt4": {}, "lpt5": {}, "lpt6": {}, "lpt7": {}, "lpt8": {}, "lpt9": {},
}

// SanitizeFileName reduces a client-supplied name to a single safe path
// segment: letters, digits, '_', '-' and '.' survive, whitespace becomes '_',
// everything else is dropped. Non-ASCII letters are kept in NFC form.
func SanitizeFileName(original string) string {
	s := strings.ReplaceAll(strings.TrimSpace(original), "\\", "/")
	s = norm.NFC.String(path.Base(s))

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), isMn(r), r == '_', r == '-', r == '.':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune('_')
		}
	}
	s = strings.TrimLeft(b.String(), ".")
	if s == "" {
		return "file"
	}

	ext := path.Ext(s)
	if utf8.RuneCountInString(ext) > maxExtLen {
		ext = ""
	}
	base := strings.TrimSuffix(s, ext)
	if base == "" {
		base = "file"
	}
	if _, bad := windowsReserved[strings.ToLower(base)]; bad {
		base = "_" + base
	}

	for utf8.RuneCountInString(base)+utf8.RuneCountInString(ext) > maxBaseNameLen {
		_, size := utf8.DecodeLastRuneInString(base)
		if size <= 0 || size >= len(base) {
			break
		}
		base = base[:len(base)-size]
	}

	return base + ext
}

func isMn(r rune) bool { return unicode.Is(unicode.Mn, r) }
