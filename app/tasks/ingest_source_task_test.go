package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yxzhu/newsflash/app/config"
	"github.com/yxzhu/newsflash/app/parser"
	"github.com/yxzhu/newsflash/app/pipeline"
)

type staticFetcher struct {
	body string
}

func (f *staticFetcher) Fetch(_ context.Context, rawURL string) (*pipeline.FetchResult, error) {
	return &pipeline.FetchResult{Body: []byte(f.body), Format: parser.FormatXML, FinalURL: rawURL}, nil
}

// deadlineFetcher records the deadline of the context it is called with.
type deadlineFetcher struct {
	deadline time.Time
	ok       bool
}

func (f *deadlineFetcher) Fetch(ctx context.Context, _ string) (*pipeline.FetchResult, error) {
	f.deadline, f.ok = ctx.Deadline()
	return nil, errors.New("unreachable")
}

func TestIngestSourceTaskFeedEntryURLs(t *testing.T) {
	feedXML := `<?xml version="1.0"?>
<rss version="2.0"><channel><title>Wire</title>
<item><title>One</title><link>https://example.com/1</link></item>
<item><title>Two</title><link>https://example.com/2</link></item>
<item><title>No link</title><link></link></item>
<item><title>Three</title><link>https://example.com/3</link></item>
</channel></rss>`

	source := &config.Source{
		Name: "wire",
		URL:  "https://example.com/rss.xml",
		Type: config.SourceTypeFeed,
		Settings: config.SourceSettings{
			Enabled:  true,
			MaxItems: 2,
			Timeout:  5,
		},
	}

	task := NewIngestSourceTask(source, &staticFetcher{body: feedXML}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	urls, err := task.feedEntryURLs(ctx)
	if err != nil {
		t.Fatalf("feedEntryURLs() error: %v", err)
	}

	if len(urls) != 2 {
		t.Fatalf("got %d URLs, want max_items bound of 2", len(urls))
	}
	if urls[0] != "https://example.com/1" || urls[1] != "https://example.com/2" {
		t.Errorf("urls = %v", urls)
	}
}

func TestIngestSourceTaskAppliesSourceTimeout(t *testing.T) {
	source := &config.Source{
		Name: "slow-site",
		URL:  "https://example.com/news",
		Type: config.SourceTypePage,
		Settings: config.SourceSettings{
			Enabled: true,
			Timeout: 1,
		},
	}

	fetcher := &deadlineFetcher{}
	orch := pipeline.NewOrchestrator(fetcher, nil, nil, nil, nil, nil, nil)
	task := NewIngestSourceTask(source, fetcher, orch)

	start := time.Now()
	if err := task.Execute(context.Background()); err == nil {
		t.Fatal("Expected error when every ingestion fails")
	}

	if !fetcher.ok {
		t.Fatal("Expected the fetch context to carry a deadline")
	}
	if remaining := fetcher.deadline.Sub(start); remaining > 2*time.Second {
		t.Errorf("Deadline %v away, want the 1s source timeout applied", remaining)
	}
}
