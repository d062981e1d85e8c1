package cleaner

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
	"time"

	"github.com/yxzhu/newsflash/app/parser"
)

// Characters outside this set are stripped from text fields: CJK ideographs,
// ASCII letters and digits, whitespace, and basic punctuation.
var disallowedChars = regexp.MustCompile(`[^\x{4e00}-\x{9fa5}a-zA-Z0-9\s.,!?;:"()\-]`)

// Publish time patterns, tried in order. The first successful parse wins and
// the value is re-emitted in canonical form.
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"2006/01/02",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
}

const canonicalTimeLayout = "2006-01-02 15:04:05"

type Cleaner struct {
	registry *Registry
}

func NewCleaner(registry *Registry) *Cleaner {
	return &Cleaner{registry: registry}
}

// Run cleans the article's text fields, normalizes its publish time, and
// performs the deduplication decision against the fingerprint registry.
// It does not fail: unparseable values become absent fields.
func (c *Cleaner) Run(article parser.Article) Result {
	cleaned := parser.Article{
		Title:    CleanText(article.Title),
		Content:  CleanText(article.Content),
		Author:   CleanText(article.Author),
		Source:   article.Source,
		URL:      article.URL,
		Language: article.Language,
	}

	if normalized, ok := NormalizeTime(article.PublishTime); ok {
		cleaned.PublishTime = normalized
	}

	// An empty body produces no fingerprint and is never a duplicate.
	if cleaned.Content == "" {
		return Result{CleanedItem: &cleaned}
	}

	fingerprint := Fingerprint(cleaned.Content)
	if firstSeen, duplicate := c.registry.Register(fingerprint, article.URL); duplicate {
		return Result{IsDuplicate: true, DuplicateOf: firstSeen}
	}

	return Result{CleanedItem: &cleaned}
}

// CleanText strips characters outside the allow-set, collapses whitespace
// runs to a single space, and trims the result. The operation is idempotent:
// cleaning already-cleaned text is a no-op.
func CleanText(text string) string {
	if text == "" {
		return ""
	}
	text = disallowedChars.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(text), " ")
}

// NormalizeTime parses a publish time string against the fixed pattern list
// and re-emits it in canonical "2006-01-02 15:04:05" form. The second return
// value is false when no pattern matches.
func NormalizeTime(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}

	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.Format(canonicalTimeLayout), true
		}
	}

	return "", false
}

// Fingerprint returns the deterministic content hash used as a dedup key.
// Collisions are accepted; the digest does not need cryptographic strength.
func Fingerprint(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
