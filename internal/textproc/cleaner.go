package textproc

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultPunctuation is the set of punctuation preserved by cleaning, in
// addition to word characters and whitespace. Sentence-terminal marks stay
// so downstream chunking can prefer sentence boundaries.
const DefaultPunctuation = `.,!?():;-`

var (
	urlPattern   = regexp.MustCompile(`https?://\S+|www\.\S+`)
	emailPattern = regexp.MustCompile(`\S+@\S+`)
	spacePattern = regexp.MustCompile(`\s+`)
)

// Cleaner normalizes extracted page text before chunking.
type Cleaner struct {
	special *regexp.Regexp
}

// NewCleaner creates a Cleaner preserving the default punctuation set.
func NewCleaner() *Cleaner {
	c, _ := NewCleanerWithPunctuation(DefaultPunctuation)
	return c
}

// NewCleanerWithPunctuation creates a Cleaner preserving a custom set of
// punctuation characters. Everything outside word characters, whitespace
// and the given set is stripped.
func NewCleanerWithPunctuation(keep string) (*Cleaner, error) {
	special, err := regexp.Compile(`[^\w\s` + regexp.QuoteMeta(keep) + `]`)
	if err != nil {
		return nil, fmt.Errorf("failed to compile special character pattern: %w", err)
	}
	return &Cleaner{special: special}, nil
}

// Clean removes URLs, email addresses and stray symbols, collapses runs of
// whitespace to single spaces and trims the result.
func (c *Cleaner) Clean(text string) string {
	text = urlPattern.ReplaceAllString(text, "")
	text = emailPattern.ReplaceAllString(text, "")
	text = c.special.ReplaceAllString(text, "")
	text = spacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

var defaultCleaner = NewCleaner()

// Clean normalizes text with the default punctuation set.
func Clean(text string) string {
	return defaultCleaner.Clean(text)
}
