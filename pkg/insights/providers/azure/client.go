package azure

import (
	"context"
	"fmt"

	"github.com/mynaparrot/speech-translate/pkg/config"
	"github.com/mynaparrot/speech-translate/pkg/insights"
	"github.com/sirupsen/logrus"
)

// AzureProvider implements insights.Provider on top of the Azure Speech SDK.
// The Go SDK only offers a SpeechRecognizer, so every recognized utterance is
// handed to a separate text translator.
type AzureProvider struct {
	creds      config.CredentialsConfig
	translator insights.TextTranslator
	workers    int
	log        *logrus.Entry
}

// NewProvider creates a new, fully configured Azure provider.
func NewProvider(creds config.CredentialsConfig, translator insights.TextTranslator, workers int, log *logrus.Entry) (*AzureProvider, error) {
	if creds.APIKey == "" || creds.Region == "" {
		return nil, fmt.Errorf("%w: azure provider requires api_key (subscription key) and region", config.ErrConfiguration)
	}
	if translator == nil {
		return nil, fmt.Errorf("%w: azure provider requires a text translator", config.ErrConfiguration)
	}

	return &AzureProvider{
		creds:      creds,
		translator: translator,
		workers:    workers,
		log:        log.WithField("provider", config.ProviderAzure),
	}, nil
}

// CreateFileTranslation starts continuous recognition over the WAV file and
// returns a stream of translated segments.
func (p *AzureProvider) CreateFileTranslation(ctx context.Context, opts *insights.FileTranslationOptions) (insights.EventStream, error) {
	log := p.log.WithFields(logrus.Fields{
		"sessionId":  opts.SessionId,
		"targetLang": opts.TargetLang,
	})

	rec, err := newRecognitionStream(p.creds, opts, log)
	if err != nil {
		return nil, err
	}

	return insights.NewTranslatingStream(ctx, rec, p.translator, opts.TargetLang, p.workers, log), nil
}
