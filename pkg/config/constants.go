package config

import "time"

const (
	EnvSpeechKey        = "AZURE_SPEECH_KEY"
	EnvSpeechRegion     = "AZURE_SPEECH_REGION"
	EnvTranslatorKey    = "AZURE_TRANSLATOR_KEY"
	EnvTranslatorRegion = "AZURE_TRANSLATOR_REGION"
	EnvGeminiKey        = "GEMINI_API_KEY"
	EnvOpenAIKey        = "OPENAI_API_KEY"

	ProviderAzure  = "azure"
	ProviderGoogle = "google"
	ProviderOpenAI = "openai"

	DefaultTranslatorEndpoint = "https://api.cognitive.microsofttranslator.com"
	DefaultGoogleModel        = "gemini-2.5-flash"
	DefaultOpenAIModel        = "gpt-4o-mini"
	DefaultTranslationWorkers = 4
	DefaultRequestTimeout     = 15 * time.Second
	DefaultDownloadTimeout    = 2 * time.Minute

	// azure allows at most 4 candidates for at-start language identification
	MaxAutoDetectLanguages = 4
)

// DefaultAutoDetectLanguages are offered to the recognizer when no source language is given.
var DefaultAutoDetectLanguages = []string{"en-US", "hi-IN", "mr-IN", "gu-IN"}
