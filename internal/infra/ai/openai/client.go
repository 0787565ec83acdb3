package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	domai "github.com/callsight/callsight/internal/domain/ai"
	"github.com/callsight/callsight/internal/domain/calls"
	"github.com/callsight/callsight/internal/domain/comparisons"
	"github.com/callsight/callsight/internal/infra/ai/prompt"
)

const maxTokens = 4000

// Temperatures per call kind; comparison output should be more repeatable
// than per-call scoring.
const (
	scoreTemperature   = 0.3
	compareTemperature = 0.2
)

type Client struct {
	api    *openai.Client
	apiKey string
	Model  string
}

func NewClient(apiKey, model string) *Client {
	return &Client{api: openai.NewClient(apiKey), apiKey: apiKey, Model: model}
}

func (c *Client) Configured() bool {
	return strings.TrimSpace(c.apiKey) != ""
}

func (c *Client) model() string {
	if c.Model == "" {
		return "gpt-4o-mini"
	}
	return c.Model
}

func (c *Client) complete(ctx context.Context, content string, temperature float32) (string, error) {
	if !c.Configured() {
		return "", domai.ErrNotConfigured
	}
	model := c.model()
	req := openai.ChatCompletionRequest{
		Model:       model,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: content},
		},
	}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5") {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices", domai.ErrBadReply)
	}
	return resp.Choices[0].Message.Content, nil
}

// Score asks the model for a per-call scorecard and strict-parses the first
// JSON object found in its free-text reply.
func (c *Client) Score(ctx context.Context, transcript string) (*calls.Scorecard, error) {
	content, err := c.complete(ctx, prompt.ScorecardPrompt(transcript), scoreTemperature)
	if err != nil {
		return nil, err
	}
	obj := ExtractJSONObject(content)
	if obj == "" {
		return nil, fmt.Errorf("%w: no json object in reply", domai.ErrBadReply)
	}
	var sc calls.Scorecard
	if err := json.Unmarshal([]byte(obj), &sc); err != nil {
		return nil, fmt.Errorf("%w: %v", domai.ErrBadReply, err)
	}
	return &sc, nil
}

// Compare asks the model for the cohort comparison object.
func (c *Client) Compare(ctx context.Context, setA, setB domai.Cohort) (*comparisons.Analysis, error) {
	p := prompt.ComparisonPrompt(setA.Stats, setB.Stats, setA.Calls, setB.Calls)
	content, err := c.complete(ctx, p, compareTemperature)
	if err != nil {
		return nil, err
	}
	obj := ExtractJSONObject(content)
	if obj == "" {
		return nil, fmt.Errorf("%w: no json object in reply", domai.ErrBadReply)
	}
	var out comparisons.Analysis
	if err := json.Unmarshal([]byte(obj), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", domai.ErrBadReply, err)
	}
	return &out, nil
}
