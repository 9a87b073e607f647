package anthropic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultAPIURL = "https://api.anthropic.com/v1/messages"
	apiVersion    = "2023-06-01"
	model         = "claude-3-haiku-20240307"
	maxTokens     = 64
)

const systemPrompt = `You translate messages from the staff of a cat litter shop into bot commands.
Today is %s. Available commands:
/consumo [desde] [hasta]  bag consumption report, dates as YYYY-MM-DD, both optional
/inventario               bags currently in stock
/skus                     sold SKUs that have no bag mapping
/ayuda                    help
Reply with exactly one command line and nothing else. If the message does not ask for any of these, reply /ayuda.`

// Client defines the interface for AI text processing.
type Client interface {
	TranslateToCommand(ctx context.Context, input string) (string, error)
}

type anthropicClient struct {
	httpClient *resty.Client
	apiURL     string
	loc        *time.Location
	now        func() time.Time
}

// NewClient creates a configured Anthropic client. loc is the zone "today"
// is resolved in when the model reads relative dates.
func NewClient(apiKey string, loc *time.Location) Client {
	c := newClient(apiKey, defaultAPIURL)
	if loc != nil {
		c.loc = loc
	}
	return c
}

func newClient(apiKey, apiURL string) *anthropicClient {
	client := resty.New().
		SetHeader("x-api-key", apiKey).
		SetHeader("anthropic-version", apiVersion).
		SetHeader("content-type", "application/json").
		SetTimeout(15 * time.Second)

	return &anthropicClient{httpClient: client, apiURL: apiURL, loc: time.UTC, now: time.Now}
}

type messageRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system"`
	Messages  []Message `json:"messages"`
}

// Message is a single conversation turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messageResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

// TranslateToCommand maps a free-form request onto one slash command.
func (c *anthropicClient) TranslateToCommand(ctx context.Context, input string) (string, error) {
	reqBody := messageRequest{
		Model:     model,
		MaxTokens: maxTokens,
		System:    fmt.Sprintf(systemPrompt, c.now().In(c.loc).Format("2006-01-02")),
		Messages: []Message{
			{Role: "user", Content: input},
			// prefill so the reply starts as a command
			{Role: "assistant", Content: "/"},
		},
	}

	var respBody messageResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(reqBody).
		SetResult(&respBody).
		Post(c.apiURL)
	if err != nil {
		return "", fmt.Errorf("anthropic api call: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("anthropic api error: %s", resp.String())
	}
	if len(respBody.Content) == 0 {
		return "", fmt.Errorf("empty response from ai")
	}

	text := strings.TrimSpace(respBody.Content[0].Text)
	if line, _, found := strings.Cut(text, "\n"); found {
		text = strings.TrimSpace(line)
	}
	text = strings.Trim(text, "`")
	if text == "" {
		return "", fmt.Errorf("blank command from ai")
	}

	return "/" + strings.TrimPrefix(text, "/"), nil
}
