package cleaner

import (
	"strings"
	"testing"

	"github.com/yxzhu/newsflash/app/parser"
)

func TestCleanText_CollapsesWhitespace(t *testing.T) {
	input := "  multiple   spaces\t and\n newlines  "
	expected := "multiple spaces and newlines"

	if got := CleanText(input); got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}
}

func TestCleanText_StripsDisallowedCharacters(t *testing.T) {
	input := `Stocks up 5% — "big" gains! <b>今日新闻</b>`
	got := CleanText(input)

	for _, forbidden := range []string{"%", "—", "<", ">"} {
		if containsString(got, forbidden) {
			t.Errorf("Cleaned text still contains %q: %s", forbidden, got)
		}
	}
	if !containsString(got, "今日新闻") {
		t.Errorf("CJK characters must survive cleaning, got: %s", got)
	}
	if !containsString(got, `"big"`) {
		t.Errorf("Basic punctuation must survive cleaning, got: %s", got)
	}
}

func TestCleanText_Idempotent(t *testing.T) {
	inputs := []string{
		"  a £ b  ",
		"plain text already clean",
		"符号 © 测试   多个  空格",
		"",
	}

	for _, input := range inputs {
		once := CleanText(input)
		twice := CleanText(once)
		if once != twice {
			t.Errorf("CleanText not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}

func TestNormalizeTime(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		ok       bool
	}{
		{"2024-01-15 10:30:45", "2024-01-15 10:30:45", true},
		{"2024-01-15 10:30", "2024-01-15 10:30:00", true},
		{"2024-01-15", "2024-01-15 00:00:00", true},
		{"2024/01/15 10:30:45", "2024-01-15 10:30:45", true},
		{"2024/01/15", "2024-01-15 00:00:00", true},
		{"15/01/2024 10:30", "2024-01-15 10:30:00", true},
		{"15/01/2024", "2024-01-15 00:00:00", true},
		{"  2024-01-15  ", "2024-01-15 00:00:00", true},
		{"not-a-date", "", false},
		{"", "", false},
		{"January 15, 2024", "", false},
	}

	for _, tt := range tests {
		got, ok := NormalizeTime(tt.input)
		if ok != tt.ok {
			t.Errorf("NormalizeTime(%q): expected ok=%v, got %v", tt.input, tt.ok, ok)
			continue
		}
		if got != tt.expected {
			t.Errorf("NormalizeTime(%q): expected %q, got %q", tt.input, tt.expected, got)
		}
	}
}

func TestRun_CleansAllTextFields(t *testing.T) {
	c := NewCleaner(NewRegistry())

	result := c.Run(parser.Article{
		Title:       "  Big   News® ",
		Content:     "Body  text © here",
		Author:      " John   Smith ",
		PublishTime: "2024-01-15",
		Source:      "example.com",
		URL:         "https://example.com/1",
	})

	if result.IsDuplicate {
		t.Fatal("First occurrence must not be a duplicate")
	}
	item := result.CleanedItem
	if item == nil {
		t.Fatal("Expected cleaned item")
	}
	if item.Title != "Big News" {
		t.Errorf("Expected title 'Big News', got %q", item.Title)
	}
	if item.Content != "Body text here" {
		t.Errorf("Expected content 'Body text here', got %q", item.Content)
	}
	if item.Author != "John Smith" {
		t.Errorf("Expected author 'John Smith', got %q", item.Author)
	}
	if item.PublishTime != "2024-01-15 00:00:00" {
		t.Errorf("Expected canonical publish time, got %q", item.PublishTime)
	}
}

func TestRun_UnparseableTimeBecomesAbsent(t *testing.T) {
	c := NewCleaner(NewRegistry())

	result := c.Run(parser.Article{
		Content:     "some body",
		PublishTime: "yesterday afternoon",
		Source:      "example.com",
		URL:         "https://example.com/2",
	})

	if result.CleanedItem.PublishTime != "" {
		t.Errorf("Expected absent publish time, got %q", result.CleanedItem.PublishTime)
	}
}

func TestRun_DuplicateDetection(t *testing.T) {
	c := NewCleaner(NewRegistry())

	first := c.Run(parser.Article{
		Content: "identical body text",
		Source:  "a.com",
		URL:     "https://a.com/1",
	})
	if first.IsDuplicate {
		t.Fatal("First occurrence flagged duplicate")
	}

	second := c.Run(parser.Article{
		Content: "identical body text",
		Source:  "b.com",
		URL:     "https://b.com/9",
	})
	if !second.IsDuplicate {
		t.Fatal("Second occurrence not flagged duplicate")
	}
	if second.DuplicateOf != "https://a.com/1" {
		t.Errorf("Expected duplicate_of to be first URL, got %q", second.DuplicateOf)
	}
	if second.CleanedItem != nil {
		t.Error("Duplicate result must not carry a cleaned item")
	}
}

func TestRun_EmptyBodyNeverDuplicate(t *testing.T) {
	c := NewCleaner(NewRegistry())

	for i := 0; i < 3; i++ {
		result := c.Run(parser.Article{
			Title:  "headline only",
			Source: "example.com",
			URL:    "https://example.com/empty",
		})
		if result.IsDuplicate {
			t.Fatalf("Empty body flagged duplicate on attempt %d", i+1)
		}
		if result.CleanedItem == nil {
			t.Fatalf("Empty body must still yield a cleaned item on attempt %d", i+1)
		}
	}
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	r := NewRegistry()

	if _, dup := r.Register("fp-1", "https://a.com/1"); dup {
		t.Fatal("First registration reported duplicate")
	}

	firstSeen, dup := r.Register("fp-1", "https://b.com/2")
	if !dup {
		t.Fatal("Second registration not reported duplicate")
	}
	if firstSeen != "https://a.com/1" {
		t.Errorf("Expected first-seen URL, got %q", firstSeen)
	}

	// The losing registration must not overwrite the winner.
	if url, ok := r.Lookup("fp-1"); !ok || url != "https://a.com/1" {
		t.Errorf("Registry modified on duplicate hit: %q", url)
	}

	if r.Size() != 1 {
		t.Errorf("Expected 1 registered fingerprint, got %d", r.Size())
	}
}

func containsString(haystack, needle string) bool {
	return strings.Contains(haystack, needle)
}
