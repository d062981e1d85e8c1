package classifier

import (
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		title    string
		expected Category
	}{
		{"Local team wins football championship", CategorySports},
		{"New movie breaks box office records", CategoryEntertainment},
		{"Quantum chip unveiled by researchers", CategoryTechnology},
		{"Startup announces merger with rival", CategoryBusiness},
		{"Government unveils new policy", CategoryPolitics},
		{"International summit opens in Geneva", CategoryWorld},
		{"Stock market rallies after rate cut", CategoryFinance},
		{"奥运会开幕式举行", CategorySports},
		{"人工智能芯片发布", CategoryTechnology},
		{"Nothing matches here whatsoever", CategoryUncategorized},
		{"", CategoryUncategorized},
	}

	for _, tt := range tests {
		if got := Classify(tt.title); got != tt.expected {
			t.Errorf("Classify(%q): expected %s, got %s", tt.title, tt.expected, got)
		}
	}
}

func TestClassify_CaseInsensitive(t *testing.T) {
	lower := Classify("football season begins")
	upper := Classify("FOOTBALL SEASON BEGINS")
	mixed := Classify("FootBall Season Begins")

	if lower != CategorySports || upper != lower || mixed != lower {
		t.Errorf("Classification must be case-insensitive: %s / %s / %s", lower, upper, mixed)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	title := "Stock market and football news"
	first := Classify(title)
	for i := 0; i < 5; i++ {
		if got := Classify(title); got != first {
			t.Fatalf("Classification not deterministic: %s vs %s", first, got)
		}
	}
}

func TestClassify_TableOrder(t *testing.T) {
	// Title matches both sports and finance keywords; sports is earlier in
	// the table and must win.
	if got := Classify("Football club stock offering announced"); got != CategorySports {
		t.Errorf("Expected first table match to win, got %s", got)
	}
}

func TestFilter_DefaultExcludes(t *testing.T) {
	f := NewFilter(nil, nil)

	if f.Allows(CategoryEntertainment) {
		t.Error("Default filter must exclude entertainment")
	}
	if f.Allows(CategorySports) {
		t.Error("Default filter must exclude sports")
	}
	if !f.Allows(CategoryTechnology) {
		t.Error("Default filter must retain technology")
	}
	if !f.Allows(CategoryUncategorized) {
		t.Error("Default filter must retain uncategorized")
	}
}

func TestFilter_IncludeNarrowsFirst(t *testing.T) {
	f := NewFilter([]Category{CategoryTechnology}, []Category{CategorySports})

	// An item classified technology is retained even if its title also
	// matches a sports keyword: only the classified category matters.
	if !f.Allows(CategoryTechnology) {
		t.Error("Included category must be retained")
	}
	if f.Allows(CategorySports) {
		t.Error("Category outside the include set must be rejected")
	}
	if f.Allows(CategoryFinance) {
		t.Error("Non-included category must be rejected even when not excluded")
	}
}

func TestFilter_ExplicitSetsDisableDefault(t *testing.T) {
	f := NewFilter(nil, []Category{CategoryFinance})

	if !f.Allows(CategorySports) {
		t.Error("Explicit exclude set must replace the default exclusions")
	}
	if f.Allows(CategoryFinance) {
		t.Error("Explicitly excluded category must be rejected")
	}
}

func TestFilter_IncludeOverlapsExclude(t *testing.T) {
	// Exclude is evaluated after include, so a category present in both
	// sets is rejected.
	f := NewFilter([]Category{CategorySports}, []Category{CategorySports})
	if f.Allows(CategorySports) {
		t.Error("Exclude must apply after include")
	}
}
