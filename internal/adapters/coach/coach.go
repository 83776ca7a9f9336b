// Package coach is a thin client for the generative-language API that
// produces coaching text. Prompt content mirrors the product copy; no
// prompt engineering beyond that lives here.
package coach

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/vapeless/vapeless/internal/domain/model"
	"github.com/vapeless/vapeless/pkg/metrics"
)

// Default client configuration constants.
const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	defaultModel   = "gemini-3-flash-preview"
	defaultTimeout = 30 * time.Second

	insightSystem = "You are a health data analyst. Provide a single, punchy motivational sentence based on the user's progress."
	chatSystem    = "You are an empathetic, supportive, and data-driven addiction recovery coach named \"VapeLess AI\". " +
		"Your goal is to help users quit vaping. Use the provided user data to give personalized advice. " +
		"Be concise, positive, and non-judgmental. If they report a craving, suggest a 2-minute distraction. " +
		"Focus on health benefits and money saved."

	// Served when no API key is configured so the product degrades to a
	// static coach instead of erroring.
	fallbackInsight = "Every puff you skip is a win. Keep the streak alive."
	fallbackReply   = "I'm offline right now, but you've got this. Try a two-minute walk when a craving hits."
)

// Client generates coaching text.
type Client interface {
	// DailyInsight produces the one-line dashboard motivation.
	DailyInsight(ctx context.Context, todayCount int, plan model.PlanConfig) (string, error)

	// Reply answers a chat message with the user's recent data as
	// context.
	Reply(ctx context.Context, message string, plan model.PlanConfig, recentEvents int) (string, error)
}

// Option applies a configuration option to the HTTP client.
type Option func(*httpClient)

// WithBaseURL overrides the API endpoint, mainly for tests.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithModel overrides the generation model.
func WithModel(m string) Option {
	return func(c *httpClient) {
		if m != "" {
			c.model = m
		}
	}
}

// WithHTTPClient substitutes the underlying transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		if hc != nil {
			c.hc = hc
		}
	}
}

// httpClient implements Client against the REST API. An empty API key
// turns every call into its deterministic fallback.
type httpClient struct {
	baseURL string
	apiKey  string
	model   string
	hc      *http.Client
}

// New creates a coach client. apiKey may be empty; the client then
// serves fallback text and never touches the network.
func New(apiKey string, opts ...Option) Client {
	c := &httpClient{
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		model:   defaultModel,
		hc:      &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// generateContent request/response shapes, trimmed to the fields used.
type genRequest struct {
	SystemInstruction *genContent  `json:"systemInstruction,omitempty"`
	Contents          []genContent `json:"contents"`
}

type genContent struct {
	Role  string    `json:"role,omitempty"`
	Parts []genPart `json:"parts"`
}

type genPart struct {
	Text string `json:"text"`
}

type genResponse struct {
	Candidates []struct {
		Content genContent `json:"content"`
	} `json:"candidates"`
}

func (c *httpClient) DailyInsight(ctx context.Context, todayCount int, plan model.PlanConfig) (string, error) {
	metrics.RecordCoachRequest("insight")
	prompt := fmt.Sprintf(
		"Analyze this: The user had %d puffs today. Their daily goal is to stay under %d puffs. Give a one-sentence motivation.",
		todayCount, plan.DailyBudgetStart,
	)
	return c.generate(ctx, insightSystem, prompt, fallbackInsight)
}

func (c *httpClient) Reply(ctx context.Context, message string, plan model.PlanConfig, recentEvents int) (string, error) {
	metrics.RecordCoachRequest("chat")
	prompt := fmt.Sprintf(
		"The user wants help quitting vaping.\nSettings: Cost per pod $%.2f, Puffs per pod: %d.\nTotal puffs logged recently: %d.\nUser message: %s",
		plan.UnitCost, plan.UnitsPerPackage, recentEvents, message,
	)
	return c.generate(ctx, chatSystem, prompt, fallbackReply)
}

func (c *httpClient) generate(ctx context.Context, system, prompt, fallback string) (string, error) {
	if c.apiKey == "" {
		return fallback, nil
	}

	reqBody := genRequest{
		SystemInstruction: &genContent{Parts: []genPart{{Text: system}}},
		Contents:          []genContent{{Role: "user", Parts: []genPart{{Text: prompt}}}},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		metrics.RecordCoachError()
		return "", fmt.Errorf("encode request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		metrics.RecordCoachError()
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.hc.Do(req)
	if err != nil {
		metrics.RecordCoachError()
		return "", fmt.Errorf("call coach api: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		metrics.RecordCoachError()
		return "", fmt.Errorf("%w: status %d", ErrGenerate, resp.StatusCode)
	}

	var out genResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		metrics.RecordCoachError()
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		metrics.RecordCoachError()
		return "", ErrEmptyResponse
	}
	return strings.TrimSpace(out.Candidates[0].Content.Parts[0].Text), nil
}
