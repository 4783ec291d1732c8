package openai

import (
	"context"
	"fmt"
	"time"

	"github.com/mynaparrot/speech-translate/pkg/config"
	"github.com/mynaparrot/speech-translate/pkg/insights"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/sirupsen/logrus"
)

// OpenAITranslator translates with any OpenAI compatible chat completions endpoint.
type OpenAITranslator struct {
	client openai.Client
	model  string
	logger *logrus.Entry
}

// NewTranslator constructs the OpenAI compatible translator. baseURL may be
// empty to use api.openai.com.
func NewTranslator(creds config.CredentialsConfig, baseURL, model string, timeout time.Duration, logger *logrus.Entry) (*OpenAITranslator, error) {
	if creds.APIKey == "" {
		return nil, fmt.Errorf("%w: openai translator requires api_key", config.ErrConfiguration)
	}
	if model == "" {
		model = config.DefaultOpenAIModel
	}

	opts := []option.RequestOption{
		option.WithAPIKey(creds.APIKey),
		option.WithRequestTimeout(timeout),
		option.WithMaxRetries(2),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &OpenAITranslator{
		client: openai.NewClient(opts...),
		model:  model,
		logger: logger.WithField("translator", config.ProviderOpenAI),
	}, nil
}

func (t *OpenAITranslator) TranslateText(ctx context.Context, text, sourceLang string, targetLangs []string) (*insights.TextTranslationResult, error) {
	if len(targetLangs) == 0 {
		return nil, fmt.Errorf("at least one target language is required")
	}

	resp, err := t.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(t.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(insights.TranslationInstruction(sourceLang, targetLangs)),
			openai.UserMessage(text),
		},
		Temperature: openai.Float(0),
	})
	if err != nil {
		return nil, fmt.Errorf("openai: request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai: no choices in response")
	}

	translations, err := insights.ParseTranslationReply(resp.Choices[0].Message.Content, targetLangs)
	if err != nil {
		return nil, err
	}

	return &insights.TextTranslationResult{
		Text:         text,
		SourceLang:   sourceLang,
		Translations: translations,
	}, nil
}
