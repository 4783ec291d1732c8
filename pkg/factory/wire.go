//go:build wireinject
// +build wireinject

package factory

import (
	"github.com/google/wire"
	"github.com/mynaparrot/speech-translate/pkg/config"
	insightsservice "github.com/mynaparrot/speech-translate/pkg/services/insights"
)

// build the dependency set for services
var serviceSet = wire.NewSet(
	insightsservice.NewProviderFactory,
	insightsservice.NewTranslationSession,
)

// NewAppFactory is the injector function that wire will implement.
func NewAppFactory(appConfig *config.AppConfig) (*Application, error) {
	wire.Build(
		serviceSet,
		wire.FieldsOf(new(*config.AppConfig), "Logger"),
		wire.Struct(new(Application), "*"),
	)
	return nil, nil // This return value is ignored.
}
