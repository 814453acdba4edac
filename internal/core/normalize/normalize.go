// Package normalize cleans and folds free text coming from the incident
// spreadsheet so labels can be compared regardless of case, accents or
// stray whitespace.
//
// Clean keeps the text displayable: control characters and invalid UTF-8 are
// dropped, whitespace runs become one space, edges are trimmed.
//
// Fold produces a comparison key on top of Clean:
//  1. NFKD decomposition
//  2. Unicode case folding
//  3. removal of combining marks (accents) and format characters
//  4. fullwidth to ASCII width folding
//  5. NFC recomposition
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// transform chains carry state, so each call borrows its own
var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKD,
			cases.Fold(),
			runes.Remove(runes.In(unicode.Mn)),
			runes.Remove(runes.In(unicode.Cf)),
			width.Fold,
			norm.NFC,
		)
	},
}

// Clean sanitizes s and collapses whitespace
func Clean(s string) string {
	if s == "" {
		return ""
	}
	return strings.Join(strings.Fields(Sanitize(s)), " ")
}

// Fold returns the comparison key of s
func Fold(s string) string {
	s = Clean(s)
	if s == "" {
		return ""
	}
	tr := chainPool.Get().(transform.Transformer)
	out, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}

// Equal reports whether a and b fold to the same key
func Equal(a, b string) bool { return Fold(a) == Fold(b) }

// Contains reports whether the folded s contains the folded sub. An empty
// sub never matches.
func Contains(s, sub string) bool {
	fs := Fold(sub)
	return fs != "" && strings.Contains(Fold(s), fs)
}
