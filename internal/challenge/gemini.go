package challenge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// ErrInvalidResponse is returned when generated output lacks a challenge.
var ErrInvalidResponse = errors.New("invalid response format from AI")

// GenerateRequest is one structured generation call.
type GenerateRequest struct {
	SystemInstruction string
	Prompt            string
	// Description documents the single "challenge" field of the response schema
	Description string
}

// Generator produces the raw JSON body for a GenerateRequest.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// GeminiProvider generates challenges with a language model.
type GeminiProvider struct {
	gen     Generator
	setting Setting
	timeout time.Duration
	logger  *zap.Logger
}

// NewGeminiProvider wraps gen. A zero timeout leaves the caller's deadline in charge.
func NewGeminiProvider(gen Generator, setting Setting, timeout time.Duration, logger *zap.Logger) *GeminiProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeminiProvider{gen: gen, setting: setting, timeout: timeout, logger: logger}
}

// Lookup implements Provider.
func (p *GeminiProvider) Lookup(ctx context.Context, req Request) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	start := time.Now()
	raw, err := p.gen.Generate(ctx, GenerateRequest{
		SystemInstruction: SystemInstruction(req.Language),
		Prompt:            Prompt(req, p.setting),
		Description:       fmt.Sprintf("The %s text in %s.", strings.ToUpper(string(req.Type)), req.Language.DisplayName()),
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate challenge: %w", err)
	}
	text, err := parseChallenge(raw)
	if err != nil {
		return "", err
	}
	p.logger.Debug("generated challenge",
		zap.String("type", string(req.Type)),
		zap.String("language", string(req.Language)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return text, nil
}

func parseChallenge(raw string) (string, error) {
	var body struct {
		Challenge string `json:"challenge"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &body); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if strings.TrimSpace(body.Challenge) == "" {
		return "", fmt.Errorf("%w: missing challenge field", ErrInvalidResponse)
	}
	return body.Challenge, nil
}

// GeminiClient is a Generator backed by the Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// DialGemini connects to the Gemini API.
func DialGemini(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create generative client: %w", err)
	}
	return &GeminiClient{client: client, model: model}, nil
}

// Generate implements Generator.
func (c *GeminiClient) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	model := c.client.GenerativeModel(c.model)
	model.SystemInstruction = genai.NewUserContent(genai.Text(req.SystemInstruction))
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"challenge": {
				Type:        genai.TypeString,
				Description: req.Description,
			},
		},
	}
	model.SetTemperature(1)
	model.SetTopP(0.95)

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return "", err
	}
	return responseText(resp), nil
}

// Close releases the underlying client.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}

func responseText(resp *genai.GenerateContentResponse) string {
	var text string
	if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				text += string(txt)
			}
		}
	}
	return text
}

var _ Provider = (*GeminiProvider)(nil)
var _ Generator = (*GeminiClient)(nil)
