package scorer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	openai "github.com/sashabaranov/go-openai"
)

// ErrEngineUnavailable marks connection, timeout, and malformed-response
// failures against the rating engine. Callers may retry. An application-level
// rejection from the engine is not wrapped with it.
var ErrEngineUnavailable = errors.New("rating engine unavailable")

const remotePrompt = `You rate the significance of a news article. Respond with a single JSON object and nothing else, using exactly these keys, each a number from 0 to 10:
{"scale": 0, "impact": 0, "novelty": 0, "potential": 0, "legacy": 0, "positivity": 0, "credibility": 0}

scale: breadth of the affected population or market.
impact: severity of consequences.
novelty: how new or unprecedented the development is.
potential: likelihood of significant follow-on developments.
legacy: long-term historical relevance.
positivity: overall sentiment, 0 negative to 10 positive.
credibility: trustworthiness of the reporting.`

// Article bodies are truncated before submission to keep requests bounded.
const remoteMaxContentLen = 4000

var factorNames = []string{"scale", "impact", "novelty", "potential", "legacy", "positivity", "credibility"}

// RemoteConfig configures the remote-inference strategy.
type RemoteConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Remote submits articles to an OpenAI-compatible rating engine and parses
// its strict JSON factor response. The composite score is never taken from
// the engine; it is recomputed locally from the sanitized factors.
type Remote struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

func NewRemote(cfg RemoteConfig) (*Remote, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("remote scoring requires an API key")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Remote{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   model,
		timeout: timeout,
	}, nil
}

func (r *Remote) Name() string {
	return "remote"
}

// Score submits the article and sanitizes the response. Network and parse
// failures surface to the caller as retryable errors; they are never
// converted into fabricated factors.
func (r *Remote) Score(ctx context.Context, title, content, language string) (Factors, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	content = truncateAtRuneBoundary(content, remoteMaxContentLen)

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: r.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: remotePrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildArticlePayload(title, content, language)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return Factors{}, fmt.Errorf("rating engine rejected request: %w", err)
		}
		return Factors{}, fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return Factors{}, fmt.Errorf("%w: no choices returned", ErrEngineUnavailable)
	}

	factors, err := parseFactorResponse(resp.Choices[0].Message.Content)
	if err != nil {
		return Factors{}, fmt.Errorf("%w: invalid response: %v", ErrEngineUnavailable, err)
	}

	factors.Score = Composite(factors)
	return factors, nil
}

// IsAvailable probes the engine with a lightweight model listing call.
func (r *Remote) IsAvailable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.client.ListModels(ctx)
	return err == nil
}

func buildArticlePayload(title, content, language string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", title)
	if language != "" {
		fmt.Fprintf(&b, "Language: %s\n", language)
	}
	fmt.Fprintf(&b, "Content: %s\n", content)
	return b.String()
}

// parseFactorResponse decodes the strict JSON factor object. A factor that
// is missing, non-numeric, or outside [0,10] contributes 0.0.
func parseFactorResponse(raw string) (Factors, error) {
	raw = stripCodeFence(raw)

	var payload map[string]any
	decoder := json.NewDecoder(strings.NewReader(raw))
	decoder.UseNumber()
	if err := decoder.Decode(&payload); err != nil {
		return Factors{}, err
	}

	values := make(map[string]float64, len(factorNames))
	for _, name := range factorNames {
		values[name] = sanitizeFactor(payload[name])
	}

	return Factors{
		Scale:       values["scale"],
		Impact:      values["impact"],
		Novelty:     values["novelty"],
		Potential:   values["potential"],
		Legacy:      values["legacy"],
		Positivity:  values["positivity"],
		Credibility: values["credibility"],
	}, nil
}

// sanitizeFactor accepts only numeric values inside [0,10]; anything else
// (missing, string, out-of-range) contributes 0.0.
func sanitizeFactor(value any) float64 {
	number, ok := value.(json.Number)
	if !ok {
		return 0.0
	}
	f, err := number.Float64()
	if err != nil || f < 0 || f > 10 {
		return 0.0
	}
	return f
}

// stripCodeFence removes a markdown code fence some engines wrap around
// JSON output despite instructions.
func stripCodeFence(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "```") {
		return raw
	}
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(strings.TrimSpace(raw), "```")
	return strings.TrimSpace(raw)
}

func truncateAtRuneBoundary(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
