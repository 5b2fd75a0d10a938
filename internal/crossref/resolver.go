package crossref

import (
	"regexp"
	"unicode"
	"unicode/utf8"

	"github.com/heartmarshall/lexigraph/internal/domain"
)

// DefaultMinLength is the default minimum token length: only tokens strictly
// longer than this are linked.
const DefaultMinLength = 2

var wordPattern = regexp.MustCompile(`\b[a-zA-Z]+\b`)

// Resolver extracts cross-references from free text. It holds no mutable
// state and may be shared between goroutines.
type Resolver struct {
	cache     *LemmaCache
	minLength int
}

// NewResolver creates a Resolver over cache. A non-positive minLength
// selects DefaultMinLength.
func NewResolver(cache *LemmaCache, minLength int) *Resolver {
	if minLength <= 0 {
		minLength = DefaultMinLength
	}
	return &Resolver{cache: cache, minLength: minLength}
}

// MinLength returns the effective minimum token length.
func (r *Resolver) MinLength() int {
	return r.minLength
}

// CleanText collapses whitespace runs to a single space and trims both ends.
// Offsets produced by Extract refer to the cleaned text.
func CleanText(text string) string {
	return domain.CollapseSpace(text)
}

// Extract tokenizes the cleaned form of text and returns one reference per
// occurrence of a known lemma, in offset order. Offsets count characters,
// not bytes. Short, unknown and partial-word tokens are dropped silently.
func (r *Resolver) Extract(ownerID int64, text string, kind domain.ReferenceKind) []domain.CrossReference {
	text = CleanText(text)
	if text == "" {
		return nil
	}

	var (
		refs      []domain.CrossReference
		runeCount int
		lastByte  int
	)
	for _, loc := range wordPattern.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		runeCount += utf8.RuneCountInString(text[lastByte:start])
		lastByte = start

		token := text[start:end]
		if len(token) <= r.minLength {
			continue
		}
		if !isWholeWord(text, start, end) {
			continue
		}
		id, ok := r.cache.Resolve(token)
		if !ok {
			continue
		}
		refs = append(refs, domain.CrossReference{
			OwnerID:       ownerID,
			TargetLemmaID: id,
			Offset:        runeCount,
			Text:          token,
			Kind:          kind,
		})
	}
	return refs
}

// isWholeWord rejects ASCII runs glued to non-ASCII letters or digits,
// e.g. the "caf" of "café".
func isWholeWord(text string, start, end int) bool {
	if start > 0 {
		prev, _ := utf8.DecodeLastRuneInString(text[:start])
		if isWordRune(prev) {
			return false
		}
	}
	if end < len(text) {
		next, _ := utf8.DecodeRuneInString(text[end:])
		if isWordRune(next) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
