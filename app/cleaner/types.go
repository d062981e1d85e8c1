package cleaner

import (
	"github.com/yxzhu/newsflash/app/parser"
)

// Result is the outcome of cleaning a normalized article. For duplicates
// CleanedItem is nil and DuplicateOf carries the URL of the first article
// seen with the same content fingerprint.
type Result struct {
	CleanedItem *parser.Article `json:"cleaned_item,omitempty"`
	IsDuplicate bool            `json:"is_duplicate"`
	DuplicateOf string          `json:"duplicate_of,omitempty"`
}
