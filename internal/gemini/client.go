package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

const (
	DefaultModel = "gemini-1.5-flash"

	identifyPrompt = "Identify this plant and provide important information about it, including its name, scientific name, family, description, care instructions, sunlight needs, plant health, and watering needs."
)

// ErrMissingAPIKey is returned before any request is made when no key is configured.
var ErrMissingAPIKey = errors.New("gemini API key is missing")

// ProviderError is a non-success answer from the provider.
type ProviderError struct {
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("gemini API request failed with status %d: %s", e.StatusCode, e.Body)
}

// TransportError wraps anything that kept the request from completing.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return e.Err.Error() }

func (e *TransportError) Unwrap() error { return e.Err }

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	// HTTPClient is used for outbound calls; http.DefaultClient when nil.
	HTTPClient *http.Client
}

type Client struct {
	cfg Config
}

func NewClient(cfg Config) *Client {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	return &Client{cfg: cfg}
}

// GenerationConfig is the fixed generation setup sent with every identification.
func GenerationConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.4),
		TopP:            genai.Ptr[float32](1),
		TopK:            genai.Ptr[float32](32),
		MaxOutputTokens: 2048,
		SafetySettings: []*genai.SafetySetting{
			{
				Category:  genai.HarmCategoryDangerousContent,
				Threshold: genai.HarmBlockThresholdBlockNone,
			},
		},
	}
}

// IdentifyPlant sends the image with the identification prompt. It makes a
// single attempt.
func (c *Client) IdentifyPlant(ctx context.Context, image []byte, mimeType string) (*genai.GenerateContentResponse, error) {
	if c.cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	clientConfig := &genai.ClientConfig{
		APIKey:     c.cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: c.cfg.HTTPClient,
	}
	if c.cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: c.cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("failed to create GenAI client: %w", err)}
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(identifyPrompt),
			genai.NewPartFromBytes(image, mimeType),
		}, genai.RoleUser),
	}

	resp, err := client.Models.GenerateContent(ctx, c.cfg.Model, contents, GenerationConfig())
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return nil, &ProviderError{StatusCode: apiErr.Code, Body: providerBody(apiErr)}
		}
		return nil, &TransportError{Err: err}
	}

	return resp, nil
}

// providerBody rebuilds the provider's JSON error document from the SDK error.
func providerBody(apiErr genai.APIError) string {
	body, err := json.Marshal(struct {
		Error genai.APIError `json:"error"`
	}{Error: apiErr})
	if err != nil {
		return apiErr.Message
	}
	return string(body)
}
