package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

type AppConfig struct {
	Logger *logrus.Logger `yaml:"-"`

	RootWorkingDir string           `yaml:"-"`
	LogSettings    LogSettings      `yaml:"log_settings"`
	Speech         SpeechSettings   `yaml:"speech"`
	Translator     TranslatorConfig `yaml:"translator"`
	Download       DownloadSettings `yaml:"download"`
}

type LogSettings struct {
	LogLevel   *string `yaml:"log_level"`
	LogFile    string  `yaml:"logfile"`
	MaxSize    int     `yaml:"max_size"`
	MaxBackups int     `yaml:"max_backups"`
	MaxAge     int     `yaml:"max_age"`
}

type SpeechSettings struct {
	// Credentials are only ever read from the environment.
	Credentials         CredentialsConfig `yaml:"-"`
	AutoDetectLanguages []string          `yaml:"auto_detect_languages"`
}

// TranslatorConfig selects the text translation provider used for every
// recognized utterance.
type TranslatorConfig struct {
	Provider       string                 `yaml:"provider"`
	Workers        int                    `yaml:"workers"`
	RequestTimeout time.Duration          `yaml:"request_timeout"`
	Credentials    CredentialsConfig      `yaml:"-"`
	Options        map[string]interface{} `yaml:"options"` // endpoint, model, base_url
}

type DownloadSettings struct {
	Dir     string        `yaml:"dir"`
	Timeout time.Duration `yaml:"timeout"`
}

// CredentialsConfig only contains the most common credential fields.
type CredentialsConfig struct {
	APIKey string `yaml:"api_key"`
	Region string `yaml:"region"`
}

// TranslateOptions is the input of a single run. It is not changed once the session starts.
type TranslateOptions struct {
	AudioPath  string
	TargetLang string
	SourceLang string
	OutputPath string
}

// NewAppConfig returns a config with every default applied.
func NewAppConfig() *AppConfig {
	a := new(AppConfig)
	a.SetDefaults()
	return a
}

// SetDefaults fills every unset value. It is safe to call more than once.
func (a *AppConfig) SetDefaults() {
	if len(a.Speech.AutoDetectLanguages) == 0 {
		a.Speech.AutoDetectLanguages = append([]string(nil), DefaultAutoDetectLanguages...)
	}
	if a.Translator.Provider == "" {
		a.Translator.Provider = ProviderAzure
	}
	a.Translator.Provider = strings.ToLower(a.Translator.Provider)
	if a.Translator.Workers <= 0 {
		a.Translator.Workers = DefaultTranslationWorkers
	}
	if a.Translator.RequestTimeout <= 0 {
		a.Translator.RequestTimeout = DefaultRequestTimeout
	}
	if a.Translator.Options == nil {
		a.Translator.Options = make(map[string]interface{})
	}
	if a.Download.Timeout <= 0 {
		a.Download.Timeout = DefaultDownloadTimeout
	}
}

// LoadCredentials reads every secret from the environment. The speech key and
// region are always required; the translator key depends on the provider.
func (a *AppConfig) LoadCredentials(getenv func(string) string) error {
	if getenv == nil {
		getenv = os.Getenv
	}

	key, region := getenv(EnvSpeechKey), getenv(EnvSpeechRegion)
	if key == "" || region == "" {
		return fmt.Errorf("%w: %s", ErrConfiguration, MissingSpeechCredentials)
	}
	a.Speech.Credentials = CredentialsConfig{APIKey: key, Region: region}

	switch a.Translator.Provider {
	case ProviderAzure:
		// a multi-service key works for both speech & translator
		a.Translator.Credentials = a.Speech.Credentials
		if k := getenv(EnvTranslatorKey); k != "" {
			a.Translator.Credentials = CredentialsConfig{
				APIKey: k,
				Region: getenv(EnvTranslatorRegion),
			}
		}
	case ProviderGoogle:
		a.Translator.Credentials = CredentialsConfig{APIKey: getenv(EnvGeminiKey)}
	case ProviderOpenAI:
		a.Translator.Credentials = CredentialsConfig{APIKey: getenv(EnvOpenAIKey)}
	default:
		return fmt.Errorf("%w: %s %q", ErrConfiguration, UnknownTranslator, a.Translator.Provider)
	}

	if a.Translator.Credentials.APIKey == "" {
		return fmt.Errorf("%w: %s %q", ErrConfiguration, MissingTranslatorKey, a.Translator.Provider)
	}
	return nil
}

// Validate checks settings that don't depend on the environment.
func (a *AppConfig) Validate() error {
	if len(a.Speech.AutoDetectLanguages) > MaxAutoDetectLanguages {
		return fmt.Errorf("%w: %s, allowed %d got %d", ErrConfiguration, TooManyAutoDetectLangs, MaxAutoDetectLanguages, len(a.Speech.AutoDetectLanguages))
	}
	return nil
}

// TranslatorOption returns a string option of the translator block or def.
func (a *AppConfig) TranslatorOption(key, def string) string {
	if v, ok := a.Translator.Options[key].(string); ok && v != "" {
		return v
	}
	return def
}
