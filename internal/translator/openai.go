package translator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/vitln/modlate/internal/postprocess"
)

const defaultOpenAIModel = openai.GPT4oMini

// OpenAIService translates via an OpenAI chat-completion prompt. Responses
// are scrubbed with postprocess.Clean because chat models occasionally echo
// instructions or wrap output in quotes.
type OpenAIService struct {
	apiKey string
	model  string
}

func NewOpenAIService(apiKey, model string) *OpenAIService {
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAIService{apiKey: apiKey, model: model}
}

func (s *OpenAIService) Name() string {
	return "openai"
}

func (s *OpenAIService) Translate(ctx context.Context, cfg ServiceConfig, req TranslateRequest) (*ServiceResult, error) {
	result := &ServiceResult{ServiceName: s.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	apiKey := s.apiKey
	if cfg.APIKey != "" {
		apiKey = cfg.APIKey
	}
	if apiKey == "" {
		result.Error = "OpenAI API key not configured"
		return result, fmt.Errorf("OpenAI API key not configured")
	}

	clientCfg := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	client := openai.NewClientWithConfig(clientCfg)

	model := s.model
	if cfg.Model != "" {
		model = cfg.Model
	}

	prompt := fmt.Sprintf(
		"Translate the following text to %s. It is display text from a game mod; "+
			"keep any %%s, %%d, [PH n] and §-style codes exactly as they appear. "+
			"Respond with only the translation, nothing else.\n\n%s",
		req.TargetLang, req.Text)

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.3,
	})
	if err != nil {
		result.Error = fmt.Sprintf("OpenAI API error: %v", err)
		return result, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		result.Error = "no translation returned"
		return result, fmt.Errorf("no translation returned")
	}

	result.TranslatedText = postprocess.Clean(strings.TrimSpace(resp.Choices[0].Message.Content))
	return result, nil
}

func (s *OpenAIService) IsAvailable(ctx context.Context) error {
	if s.apiKey == "" {
		return fmt.Errorf("OpenAI API key not configured")
	}
	return nil
}

func (s *OpenAIService) SupportedLanguages(ctx context.Context) ([]string, error) {
	return nil, nil
}
