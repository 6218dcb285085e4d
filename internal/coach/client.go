// Package coach wraps the generative-AI service behind the three operations
// the app needs: conversational coaching, structured training-summary
// extraction, and image generation. All intelligence lives on the remote
// side; this client only shapes requests and parses responses.
package coach

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL    = "https://generativelanguage.googleapis.com"
	defaultChatModel  = "gemini-3-flash-preview"
	defaultImageModel = "gemini-2.5-flash-image"
)

// Turn is one prior exchange in a chat history.
type Turn struct {
	Role string // "user" or "model"
	Text string
}

// Biometrics are the opaque user-entered strings embedded into the summary
// prompt. No unit parsing happens on this side.
type Biometrics struct {
	Age    string
	Weight string
	Height string
}

// Summary is the structured post-workout analysis returned by the service.
// The service is instructed to always return this shape; fields are parsed
// as-is without bounds checking.
type Summary struct {
	Calories     float64 `json:"calories"`
	WeightLoss   float64 `json:"weightLoss"`
	Intensity    float64 `json:"intensity"`
	RecoveryTip  string  `json:"recoveryTip"`
	FatigueIndex float64 `json:"fatigueIndex"`
}

// Service is the capability surface the session depends on. *Client is the
// production implementation; tests substitute a stub.
type Service interface {
	CoachReply(ctx context.Context, instruction string, history []Turn, message string) (string, error)
	TrainingSummary(ctx context.Context, b Biometrics, description, sportName string) (*Summary, error)
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// Client calls the Gemini REST API.
type Client struct {
	baseURL    string
	apiKey     string
	chatModel  string
	imageModel string
	httpClient *http.Client
}

// Compile-time check: Client satisfies Service.
var _ Service = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint (used by tests and proxies).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithChatModel overrides the text model.
func WithChatModel(m string) Option {
	return func(c *Client) {
		if m != "" {
			c.chatModel = m
		}
	}
}

// WithImageModel overrides the image model.
func WithImageModel(m string) Option {
	return func(c *Client) {
		if m != "" {
			c.imageModel = m
		}
	}
}

// NewClient creates a coach client with the platform-default timeout.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		chatModel:  defaultChatModel,
		imageModel: defaultImageModel,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// --- wire types ---

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type imageConfig struct {
	AspectRatio string `json:"aspectRatio"`
}

type generationConfig struct {
	Temperature      *float64        `json:"temperature,omitempty"`
	TopP             *float64        `json:"topP,omitempty"`
	ResponseMimeType string          `json:"responseMimeType,omitempty"`
	ResponseSchema   json.RawMessage `json:"responseSchema,omitempty"`
	ImageConfig      *imageConfig    `json:"imageConfig,omitempty"`
}

type generateRequest struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *Client) generate(ctx context.Context, model string, req *generateRequest) (*generateResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("coach: encode request: %w", err)
	}

	u := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("coach: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("coach: %s: %w", model, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("coach: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("coach: %s returned %d: %s", model, resp.StatusCode, body)
	}

	var out generateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("coach: decode response: %w", err)
	}
	if out.Error != nil {
		return nil, fmt.Errorf("coach: service error %d: %s", out.Error.Code, out.Error.Message)
	}
	if len(out.Candidates) == 0 {
		return nil, fmt.Errorf("coach: empty response from %s", model)
	}
	return &out, nil
}

// firstText returns the first text part of the first candidate.
func (r *generateResponse) firstText() string {
	for _, p := range r.Candidates[0].Content.Parts {
		if p.Text != "" {
			return p.Text
		}
	}
	return ""
}

// CoachReply sends the persona instruction, prior history, and a new user
// message, and returns the coach's free-text reply.
func (c *Client) CoachReply(ctx context.Context, instruction string, history []Turn, message string) (string, error) {
	contents := make([]content, 0, len(history)+1)
	for _, t := range history {
		contents = append(contents, content{Role: t.Role, Parts: []part{{Text: t.Text}}})
	}
	contents = append(contents, content{Role: "user", Parts: []part{{Text: message}}})

	temp, topP := 0.7, 0.9
	resp, err := c.generate(ctx, c.chatModel, &generateRequest{
		Contents:          contents,
		SystemInstruction: &content{Parts: []part{{Text: instruction}}},
		GenerationConfig:  &generationConfig{Temperature: &temp, TopP: &topP},
	})
	if err != nil {
		return "", err
	}
	return resp.firstText(), nil
}

// summarySchema constrains the summary response to the five required fields.
var summarySchema = json.RawMessage(`{
	"type": "OBJECT",
	"properties": {
		"calories": {"type": "NUMBER"},
		"weightLoss": {"type": "NUMBER"},
		"intensity": {"type": "NUMBER"},
		"recoveryTip": {"type": "STRING"},
		"fatigueIndex": {"type": "NUMBER"}
	},
	"required": ["calories", "weightLoss", "intensity", "recoveryTip", "fatigueIndex"]
}`)

// TrainingSummary asks the service to analyze a free-text workout description
// against the user's biometrics and returns the structured result.
func (c *Client) TrainingSummary(ctx context.Context, b Biometrics, description, sportName string) (*Summary, error) {
	temp := 0.2
	resp, err := c.generate(ctx, c.chatModel, &generateRequest{
		Contents:          []content{{Role: "user", Parts: []part{{Text: description}}}},
		SystemInstruction: &content{Parts: []part{{Text: summaryInstruction(b, sportName)}}},
		GenerationConfig: &generationConfig{
			Temperature:      &temp,
			ResponseMimeType: "application/json",
			ResponseSchema:   summarySchema,
		},
	})
	if err != nil {
		return nil, err
	}

	var summary Summary
	if err := json.Unmarshal([]byte(resp.firstText()), &summary); err != nil {
		return nil, fmt.Errorf("coach: decode summary: %w", err)
	}
	return &summary, nil
}

// GenerateImage asks the image model for a 1:1 illustration and returns it as
// a PNG data URI. Returns "" (no error) when the response carries no image.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	resp, err := c.generate(ctx, c.imageModel, &generateRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{ImageConfig: &imageConfig{AspectRatio: "1:1"}},
	})
	if err != nil {
		return "", err
	}

	for _, p := range resp.Candidates[0].Content.Parts {
		if p.InlineData != nil {
			return "data:image/png;base64," + p.InlineData.Data, nil
		}
	}
	return "", nil
}
