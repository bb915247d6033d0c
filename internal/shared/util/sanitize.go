package util

import (
	"errors"
	"path"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxFileNameRunes bounds cleaned file names; object keys and temp paths embed them.
const MaxFileNameRunes = 120

// ErrInvalidFileName is returned for names that are empty after cleaning or try to traverse.
var ErrInvalidFileName = errors.New("invalid file name")

// CleanFileName turns an uploaded file name into one safe path segment. Path
// separators and whitespace runs become "_", control characters and leading dots
// are dropped, and long names are shortened with the extension kept.
func CleanFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", ErrInvalidFileName
	}
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r == '/' || r == '\\' || unicode.IsSpace(r):
			pendingSep = true
			continue
		case unicode.IsControl(r) || r == utf8.RuneError:
			continue
		}
		if pendingSep && b.Len() > 0 {
			b.WriteByte('_')
		}
		pendingSep = false
		b.WriteRune(r)
	}
	s := strings.TrimLeft(b.String(), ".")
	if s == "" {
		return "", ErrInvalidFileName
	}
	return shorten(s, MaxFileNameRunes), nil
}

// Namespace cleans a tender id for use as an object key prefix, falling back to
// "unassigned" when nothing usable is left.
func Namespace(id string) string {
	ns, err := CleanFileName(id)
	if err != nil {
		return "unassigned"
	}
	return ns
}

func shorten(s string, maxRunes int) string {
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	ext := path.Ext(s)
	if utf8.RuneCountInString(ext) >= maxRunes/2 {
		ext = ""
	}
	stem := []rune(strings.TrimSuffix(s, ext))
	keep := maxRunes - utf8.RuneCountInString(ext)
	return string(stem[:keep]) + ext
}
