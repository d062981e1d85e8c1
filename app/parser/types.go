package parser

// Format is the declared format of a fetched raw document.
type Format string

const (
	FormatHTML    Format = "html"
	FormatXML     Format = "xml"
	FormatJSON    Format = "json"
	FormatUnknown Format = "unknown"
)

// Article is a normalized article extracted from a raw document. Every field
// except Source and URL is optional; an empty string means the field could
// not be extracted, which is a valid terminal state rather than an error.
type Article struct {
	Title       string `json:"title,omitempty"`
	Content     string `json:"content,omitempty"`
	PublishTime string `json:"publish_time,omitempty"`
	Author      string `json:"author,omitempty"`
	Source      string `json:"source"`
	URL         string `json:"url"`
	Language    string `json:"language,omitempty"`
}
