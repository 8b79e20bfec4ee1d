package extract

import (
	"bytes"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/abadojack/whatlanggo"
)

// Devanagari block boundaries. The block already contains the danda and
// double danda sentence terminators, which a script range table keyed on
// the Devanagari script property would miss.
const (
	devanagariLo = 0x0900
	devanagariHi = 0x097F
)

// TextExtractor pulls Nepali paragraph text out of page HTML.
//
// The pipeline mirrors how the corpus is meant to read: paragraph
// elements are taken in document order, each paragraph is kept only if
// the language detector calls it Nepali, and kept paragraphs are
// stripped down to Devanagari plus sentence punctuation and joined one
// per line.
type TextExtractor struct {
	// detect decides whether a paragraph is in the target language.
	detect func(text string) bool
}

// TextOption configures a TextExtractor.
type TextOption func(*TextExtractor)

// WithLanguagePredicate replaces the built-in Nepali detector.
// Tests use this to make extraction deterministic.
func WithLanguagePredicate(detect func(text string) bool) TextOption {
	return func(e *TextExtractor) {
		e.detect = detect
	}
}

// NewTextExtractor returns a text extractor using whatlanggo for
// language detection.
func NewTextExtractor(opts ...TextOption) *TextExtractor {
	e := &TextExtractor{detect: isNepali}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// ExtractText returns the filtered body text of a page, one line per
// accepted paragraph. ok is false when no paragraph survives filtering,
// including when the HTML cannot be parsed at all.
func (e *TextExtractor) ExtractText(pageHTML []byte) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(pageHTML))
	if err != nil {
		return "", false
	}

	doc.Find("script, style, noscript").Remove()

	var paragraphs []string
	doc.Find("p").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if text == "" || !e.detect(text) {
			return
		}
		cleaned := cleanDevanagari(text)
		if strings.TrimSpace(cleaned) == "" {
			return
		}
		paragraphs = append(paragraphs, cleaned)
	})

	if len(paragraphs) == 0 {
		return "", false
	}
	return strings.Join(paragraphs, "\n"), true
}

// isNepali reports whether whatlanggo identifies text as Nepali.
// Detection failure counts as "not Nepali": a bad paragraph is dropped,
// never turned into a page-level error.
func isNepali(text string) bool {
	return whatlanggo.Detect(text).Lang == whatlanggo.Nep
}

// cleanDevanagari keeps Devanagari runes, whitespace, and the ? and !
// sentence marks; everything else (Latin text, Arabic digits, symbols)
// is removed.
func cleanDevanagari(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= devanagariLo && r <= devanagariHi:
			b.WriteRune(r)
		case r == '?' || r == '!':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(r)
		}
	}
	return b.String()
}
