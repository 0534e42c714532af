package research

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	openai "github.com/openai/openai-go"
	openaiopt "github.com/openai/openai-go/option"
	"google.golang.org/api/option"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderStatic = "static"

	DefaultGeminiModel = "gemini-2.5-flash"
	DefaultOpenAIModel = "gpt-4o-mini"
)

// ErrNotConfigured is returned by generators built without credentials.
var ErrNotConfigured = errors.New("research: text service is not configured")

// Settings selects and configures a TextGenerator.
type Settings struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
	// Canned reply for the static provider.
	StaticReply string
}

// NewGenerator builds the generator named by s.Provider. Missing
// credentials produce a generator that always fails, so research degrades
// to placeholders instead of blocking startup.
func NewGenerator(ctx context.Context, s Settings) (TextGenerator, error) {
	switch strings.ToLower(s.Provider) {
	case "", ProviderGemini:
		if s.APIKey == "" {
			return unconfigured{}, nil
		}
		return NewGeminiGenerator(ctx, s)
	case ProviderOpenAI:
		if s.APIKey == "" {
			return unconfigured{}, nil
		}
		return NewOpenAIGenerator(s)
	case ProviderStatic:
		return StaticGenerator{Reply: s.StaticReply}, nil
	}
	return nil, fmt.Errorf("research: unknown provider %q", s.Provider)
}

type unconfigured struct{}

func (unconfigured) GenerateText(context.Context, string) (string, error) {
	return "", ErrNotConfigured
}

// GeminiGenerator calls Gemini through the generative-ai-go client.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

func NewGeminiGenerator(ctx context.Context, s Settings) (*GeminiGenerator, error) {
	opts := []option.ClientOption{option.WithAPIKey(s.APIKey)}
	if s.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(s.BaseURL))
	}
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gemini client init: %w", err)
	}
	model := s.Model
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

func (g *GeminiGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	m := g.client.GenerativeModel(g.model)
	m.ResponseMIMEType = "application/json"

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("gemini: empty candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String(), nil
}

func (g *GeminiGenerator) Close() error {
	return g.client.Close()
}

// OpenAIGenerator calls an OpenAI-compatible chat completions endpoint.
type OpenAIGenerator struct {
	Model string
	Opts  []openaiopt.RequestOption
}

func NewOpenAIGenerator(s Settings) (*OpenAIGenerator, error) {
	if s.APIKey == "" {
		return nil, ErrNotConfigured
	}
	opts := []openaiopt.RequestOption{openaiopt.WithAPIKey(s.APIKey)}
	if s.BaseURL != "" {
		opts = append(opts, openaiopt.WithBaseURL(s.BaseURL))
	}
	model := s.Model
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAIGenerator{Model: model, Opts: opts}, nil
}

func (o *OpenAIGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	client := openai.NewClient(o.Opts...)

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage("Reply with a single JSON object only."),
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// StaticGenerator replies with fixed text. Useful offline and in tests.
type StaticGenerator struct {
	Reply string
	Err   error
}

func (s StaticGenerator) GenerateText(context.Context, string) (string, error) {
	return s.Reply, s.Err
}

var (
	_ TextGenerator = (*GeminiGenerator)(nil)
	_ TextGenerator = (*OpenAIGenerator)(nil)
	_ TextGenerator = StaticGenerator{}
)
