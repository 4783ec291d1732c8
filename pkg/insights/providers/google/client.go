package google

import (
	"context"
	"fmt"

	"github.com/mynaparrot/speech-translate/pkg/config"
	"github.com/mynaparrot/speech-translate/pkg/insights"
	"github.com/sirupsen/logrus"
	"google.golang.org/genai"
)

// GoogleTranslator translates recognized utterances with Gemini.
type GoogleTranslator struct {
	client *genai.Client
	model  string
	logger *logrus.Entry
}

// NewTranslator creates a new Gemini backed translator. baseURL is only set
// when talking to a proxy.
func NewTranslator(ctx context.Context, creds config.CredentialsConfig, baseURL, model string, logger *logrus.Entry) (*GoogleTranslator, error) {
	if creds.APIKey == "" {
		return nil, fmt.Errorf("%w: google translator requires api_key", config.ErrConfiguration)
	}
	if model == "" {
		model = config.DefaultGoogleModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      creds.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GoogleTranslator{
		client: client,
		model:  model,
		logger: logger.WithField("translator", config.ProviderGoogle),
	}, nil
}

func (t *GoogleTranslator) TranslateText(ctx context.Context, text, sourceLang string, targetLangs []string) (*insights.TextTranslationResult, error) {
	if len(targetLangs) == 0 {
		return nil, fmt.Errorf("at least one target language is required")
	}

	cnf := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(insights.TranslationInstruction(sourceLang, targetLangs), genai.RoleUser),
		Temperature:       genai.Ptr[float32](0),
		ResponseMIMEType:  "application/json",
	}

	resp, err := t.client.Models.GenerateContent(ctx, t.model, genai.Text(text), cnf)
	if err != nil {
		return nil, fmt.Errorf("failed to generate translation: %w", err)
	}

	translations, err := insights.ParseTranslationReply(resp.Text(), targetLangs)
	if err != nil {
		return nil, err
	}

	return &insights.TextTranslationResult{
		Text:         text,
		SourceLang:   sourceLang,
		Translations: translations,
	}, nil
}
