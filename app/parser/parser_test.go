package parser

import (
	"testing"
)

func TestParseHTML(t *testing.T) {
	htmlData := `<!DOCTYPE html>
<html>
<head><title>Breaking: Chip Factory Opens</title></head>
<body>
  <time>2024-01-15 10:00:00</time>
  <article>The new factory will produce advanced semiconductors.</article>
</body>
</html>`

	p := NewParser()
	article := p.Run([]byte(htmlData), FormatHTML, "https://example.com/news/1")

	if article.Title != "Breaking: Chip Factory Opens" {
		t.Errorf("Expected title 'Breaking: Chip Factory Opens', got: %s", article.Title)
	}
	if article.Content != "The new factory will produce advanced semiconductors." {
		t.Errorf("Unexpected content: %s", article.Content)
	}
	if article.PublishTime != "2024-01-15 10:00:00" {
		t.Errorf("Expected publish time '2024-01-15 10:00:00', got: %s", article.PublishTime)
	}
	if article.Source != "https://example.com/news/1" {
		t.Errorf("Expected source to equal source URL, got: %s", article.Source)
	}
	if article.URL != "https://example.com/news/1" {
		t.Errorf("Expected URL to equal source URL, got: %s", article.URL)
	}
}

func TestParseHTML_SelectorOrder(t *testing.T) {
	// Both <article> and .content are present; <article> is earlier in the
	// selector table and must win.
	htmlData := `<html><body>
<article>primary body</article>
<div class="content">secondary body</div>
<span class="publish-time">2024-02-01</span>
</body></html>`

	p := NewParser()
	article := p.Run([]byte(htmlData), FormatHTML, "https://example.com/2")

	if article.Content != "primary body" {
		t.Errorf("Expected first matching selector to win, got: %s", article.Content)
	}
	if article.PublishTime != "2024-02-01" {
		t.Errorf("Expected publish time from .publish-time, got: %s", article.PublishTime)
	}
}

func TestParseHTML_NoMatches(t *testing.T) {
	htmlData := `<html><body><p>plain paragraph</p></body></html>`

	p := NewParser()
	article := p.Run([]byte(htmlData), FormatHTML, "https://example.com/3")

	if article.Title != "" {
		t.Errorf("Expected empty title, got: %s", article.Title)
	}
	if article.Content != "" {
		t.Errorf("Expected empty content, got: %s", article.Content)
	}
	if article.PublishTime != "" {
		t.Errorf("Expected empty publish time, got: %s", article.PublishTime)
	}
}

func TestParseJSON(t *testing.T) {
	jsonData := `{
		"title": "Market Update",
		"content": "Stocks rose sharply today.",
		"publish_time": "2024-01-15 09:30:00",
		"author": "Jane Doe"
	}`

	p := NewParser()
	article := p.Run([]byte(jsonData), FormatJSON, "https://example.com/api/1")

	if article.Title != "Market Update" {
		t.Errorf("Expected title 'Market Update', got: %s", article.Title)
	}
	if article.Content != "Stocks rose sharply today." {
		t.Errorf("Unexpected content: %s", article.Content)
	}
	if article.PublishTime != "2024-01-15 09:30:00" {
		t.Errorf("Unexpected publish time: %s", article.PublishTime)
	}
	if article.Author != "Jane Doe" {
		t.Errorf("Expected author 'Jane Doe', got: %s", article.Author)
	}
}

func TestParseJSON_Malformed(t *testing.T) {
	p := NewParser()
	article := p.Run([]byte(`{"title": "broken`), FormatJSON, "https://example.com/bad")

	if article.Title != "" || article.Content != "" {
		t.Errorf("Expected minimal article for malformed JSON, got: %+v", article)
	}
	if article.Source != "https://example.com/bad" || article.URL != "https://example.com/bad" {
		t.Errorf("Minimal article must carry the source URL, got: %+v", article)
	}
}

func TestParseXML(t *testing.T) {
	xmlData := `<?xml version="1.0"?>
<news>
  <title>Policy Announcement</title>
  <content>The new regulation takes effect next month.</content>
  <pubDate>2024-01-10 08:00:00</pubDate>
  <creator>Wire Service</creator>
</news>`

	p := NewParser()
	article := p.Run([]byte(xmlData), FormatXML, "https://example.com/xml/1")

	if article.Title != "Policy Announcement" {
		t.Errorf("Expected title 'Policy Announcement', got: %s", article.Title)
	}
	if article.Content != "The new regulation takes effect next month." {
		t.Errorf("Unexpected content: %s", article.Content)
	}
	if article.PublishTime != "2024-01-10 08:00:00" {
		t.Errorf("Unexpected publish time: %s", article.PublishTime)
	}
	if article.Author != "Wire Service" {
		t.Errorf("Expected author from creator alias, got: %s", article.Author)
	}
}

func TestParseXML_TagAliasOrder(t *testing.T) {
	// content beats body, pubDate beats date, author beats creator.
	xmlData := `<news>
  <body>fallback body</body>
  <content>primary body</content>
  <date>2024-03-01</date>
  <pubDate>2024-02-01</pubDate>
  <creator>Fallback Author</creator>
  <author>Primary Author</author>
</news>`

	p := NewParser()
	article := p.Run([]byte(xmlData), FormatXML, "https://example.com/xml/2")

	if article.Content != "primary body" {
		t.Errorf("Expected content tag to win over body, got: %s", article.Content)
	}
	if article.PublishTime != "2024-02-01" {
		t.Errorf("Expected pubDate to win over date, got: %s", article.PublishTime)
	}
	if article.Author != "Primary Author" {
		t.Errorf("Expected author tag to win over creator, got: %s", article.Author)
	}
}

func TestParseUnknownFormat(t *testing.T) {
	p := NewParser()
	article := p.Run([]byte("anything at all"), FormatUnknown, "https://example.com/raw")

	if article.Title != "" || article.Content != "" || article.Author != "" {
		t.Errorf("Expected minimal article for unknown format, got: %+v", article)
	}
	if article.Source != "https://example.com/raw" {
		t.Errorf("Expected source to carry the URL, got: %s", article.Source)
	}
}
