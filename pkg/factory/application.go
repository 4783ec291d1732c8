package factory

import (
	"context"

	"github.com/mynaparrot/speech-translate/pkg/config"
	insightsservice "github.com/mynaparrot/speech-translate/pkg/services/insights"
)

// Application is the root struct holding all dependencies.
type Application struct {
	AppConfig *config.AppConfig
	Session   *insightsservice.TranslationSession
}

// Translate runs one translation session.
func (a *Application) Translate(ctx context.Context, opts *config.TranslateOptions) (*insightsservice.Result, error) {
	return a.Session.Run(ctx, opts)
}
