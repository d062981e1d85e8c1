package pipeline

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
	"golang.org/x/time/rate"

	"github.com/yxzhu/newsflash/app/parser"
)

const fetchMaxBytes = 10 << 20

// FetchResult is the raw document handed to the parser.
type FetchResult struct {
	Body     []byte
	Format   parser.Format
	FinalURL string
}

type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*FetchResult, error)
}

// HTTPFetcher performs a single GET per call, with per-host rate limiting.
// It never retries.
type HTTPFetcher struct {
	httpClient *http.Client
	userAgent  string

	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	rateRPS  rate.Limit
	burst    int
}

func NewHTTPFetcher(timeout time.Duration, userAgent string, requestsPerSecond float64) *HTTPFetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	burst := 5
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}

	return &HTTPFetcher{
		httpClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: userAgent,
		limiters:  make(map[string]*rate.Limiter),
		rateRPS:   rate.Limit(requestsPerSecond),
		burst:     burst,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	if err := f.waitForHost(ctx, rawURL); err != nil {
		return nil, &UnavailableError{Stage: "fetch", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,application/json;q=0.9,*/*;q=0.8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, &UnavailableError{Stage: "fetch", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RejectedError{Stage: "fetch", Status: resp.StatusCode, Message: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, fetchMaxBytes))
	if err != nil {
		return nil, &UnavailableError{Stage: "fetch", Err: err}
	}

	contentType := resp.Header.Get("Content-Type")
	body = decodeCharset(body, contentType)

	return &FetchResult{
		Body:     body,
		Format:   formatFromContentType(contentType),
		FinalURL: resp.Request.URL.String(),
	}, nil
}

func (f *HTTPFetcher) waitForHost(ctx context.Context, rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return err
	}

	f.mu.RLock()
	limiter, ok := f.limiters[parsed.Host]
	f.mu.RUnlock()

	if !ok {
		f.mu.Lock()
		limiter, ok = f.limiters[parsed.Host]
		if !ok {
			limiter = rate.NewLimiter(f.rateRPS, f.burst)
			f.limiters[parsed.Host] = limiter
		}
		f.mu.Unlock()
	}

	return limiter.Wait(ctx)
}

// formatFromContentType maps a Content-Type header to a declared document
// format. Anything unrecognized is treated as HTML so the selector-based
// extraction still gets a chance.
func formatFromContentType(contentType string) parser.Format {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return parser.FormatHTML
	}

	switch {
	case strings.Contains(mediaType, "json"):
		return parser.FormatJSON
	case strings.Contains(mediaType, "xml"), strings.Contains(mediaType, "rss"),
		strings.Contains(mediaType, "atom"):
		return parser.FormatXML
	default:
		return parser.FormatHTML
	}
}

// decodeCharset converts the body to UTF-8 when the Content-Type declares a
// non-UTF-8 charset. Decoding failures leave the body as-is.
func decodeCharset(body []byte, contentType string) []byte {
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return body
	}

	name := strings.ToLower(params["charset"])
	if name == "" || name == "utf-8" || name == "utf8" {
		return body
	}

	encoding, err := htmlindex.Get(name)
	if err != nil {
		return body
	}

	decoded, _, err := transform.Bytes(encoding.NewDecoder(), body)
	if err != nil {
		return body
	}
	return decoded
}
