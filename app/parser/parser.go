package parser

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Selector tables for HTML extraction. Order matters: the first matching
// element wins, no match leaves the field empty.
var (
	htmlContentSelectors = []string{"article", ".content", ".article-content", "#content", ".news-content"}
	htmlTimeSelectors    = []string{"time", ".publish-time", ".date", ".pub-time"}
)

// Tag aliases for XML extraction, tried in order per field.
var (
	xmlContentTags = []string{"content", "body"}
	xmlTimeTags    = []string{"pubDate", "publish_time", "date"}
	xmlAuthorTags  = []string{"author", "creator"}
)

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Run extracts a normalized article from raw document content. It never
// returns an error: any parse failure or unsupported format yields a minimal
// article carrying only the source URL.
func (p *Parser) Run(content []byte, format Format, sourceURL string) Article {
	switch format {
	case FormatHTML:
		return p.parseHTML(content, sourceURL)
	case FormatJSON:
		return p.parseJSON(content, sourceURL)
	case FormatXML:
		return p.parseXML(content, sourceURL)
	default:
		return minimalArticle(sourceURL)
	}
}

func (p *Parser) parseHTML(content []byte, sourceURL string) Article {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return minimalArticle(sourceURL)
	}

	article := minimalArticle(sourceURL)
	article.Title = strings.TrimSpace(doc.Find("title").First().Text())

	for _, selector := range htmlContentSelectors {
		sel := doc.Find(selector).First()
		if sel.Length() > 0 {
			article.Content = strings.TrimSpace(sel.Text())
			break
		}
	}

	for _, selector := range htmlTimeSelectors {
		sel := doc.Find(selector).First()
		if sel.Length() > 0 {
			article.PublishTime = strings.TrimSpace(sel.Text())
			break
		}
	}

	return article
}

func (p *Parser) parseJSON(content []byte, sourceURL string) Article {
	var payload struct {
		Title       string `json:"title"`
		Content     string `json:"content"`
		PublishTime string `json:"publish_time"`
		Author      string `json:"author"`
	}

	if err := json.Unmarshal(content, &payload); err != nil {
		return minimalArticle(sourceURL)
	}

	article := minimalArticle(sourceURL)
	article.Title = payload.Title
	article.Content = payload.Content
	article.PublishTime = payload.PublishTime
	article.Author = payload.Author
	return article
}

func (p *Parser) parseXML(content []byte, sourceURL string) Article {
	elements, err := collectXMLElements(content)
	if err != nil {
		return minimalArticle(sourceURL)
	}

	article := minimalArticle(sourceURL)
	article.Title = elements["title"]
	article.Content = firstPresent(elements, xmlContentTags)
	article.PublishTime = firstPresent(elements, xmlTimeTags)
	article.Author = firstPresent(elements, xmlAuthorTags)
	return article
}

// collectXMLElements records the character data of the first occurrence of
// every element in the document, keyed by local tag name.
func collectXMLElements(content []byte) (map[string]string, error) {
	decoder := xml.NewDecoder(bytes.NewReader(content))
	decoder.Strict = false

	elements := make(map[string]string)
	var stack []string
	var buffers []*strings.Builder

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			stack = append(stack, t.Name.Local)
			buffers = append(buffers, &strings.Builder{})
		case xml.CharData:
			for _, buf := range buffers {
				buf.Write(t)
			}
		case xml.EndElement:
			if len(stack) == 0 {
				continue
			}
			name := stack[len(stack)-1]
			text := strings.TrimSpace(buffers[len(buffers)-1].String())
			stack = stack[:len(stack)-1]
			buffers = buffers[:len(buffers)-1]

			if _, seen := elements[name]; !seen {
				elements[name] = text
			}
		}
	}

	return elements, nil
}

func firstPresent(elements map[string]string, tags []string) string {
	for _, tag := range tags {
		if value, ok := elements[tag]; ok {
			return value
		}
	}
	return ""
}

func minimalArticle(sourceURL string) Article {
	return Article{
		Source: sourceURL,
		URL:    sourceURL,
	}
}
