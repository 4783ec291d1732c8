package insightsservice

import (
	"context"
	"fmt"

	"github.com/mynaparrot/speech-translate/pkg/config"
	"github.com/mynaparrot/speech-translate/pkg/insights"
	"github.com/mynaparrot/speech-translate/pkg/insights/providers/azure"
	"github.com/mynaparrot/speech-translate/pkg/insights/providers/google"
	"github.com/mynaparrot/speech-translate/pkg/insights/providers/openai"
	"github.com/sirupsen/logrus"
)

// ProviderFactory creates the speech translation provider once credentials are loaded.
type ProviderFactory func(ctx context.Context, app *config.AppConfig, logger *logrus.Entry) (insights.Provider, error)

// NewProviderFactory returns the factory used outside of tests.
func NewProviderFactory() ProviderFactory {
	return NewProvider
}

// NewProvider is a factory function that creates the configured provider.
// Speech always goes to Azure, the text translator is configurable.
func NewProvider(ctx context.Context, app *config.AppConfig, logger *logrus.Entry) (insights.Provider, error) {
	translator, err := NewTextTranslator(ctx, app, logger)
	if err != nil {
		return nil, err
	}

	return azure.NewProvider(app.Speech.Credentials, translator, app.Translator.Workers, logger)
}

// NewTextTranslator returns the translator selected by `translator.provider`.
func NewTextTranslator(ctx context.Context, app *config.AppConfig, logger *logrus.Entry) (insights.TextTranslator, error) {
	log := logger.WithFields(logrus.Fields{
		"translator": app.Translator.Provider,
	})
	creds := app.Translator.Credentials

	switch app.Translator.Provider {
	case config.ProviderAzure:
		t, err := azure.NewTextTranslator(creds, app.TranslatorOption("endpoint", config.DefaultTranslatorEndpoint), app.Translator.RequestTimeout, log)
		if err != nil {
			return nil, err
		}
		return t, nil
	case config.ProviderGoogle:
		t, err := google.NewTranslator(ctx, creds, app.TranslatorOption("base_url", ""), app.TranslatorOption("model", config.DefaultGoogleModel), log)
		if err != nil {
			return nil, err
		}
		return t, nil
	case config.ProviderOpenAI:
		t, err := openai.NewTranslator(creds, app.TranslatorOption("base_url", ""), app.TranslatorOption("model", config.DefaultOpenAIModel), app.Translator.RequestTimeout, log)
		if err != nil {
			return nil, err
		}
		return t, nil
	default:
		return nil, fmt.Errorf("%w: %s %q", config.ErrConfiguration, config.UnknownTranslator, app.Translator.Provider)
	}
}
