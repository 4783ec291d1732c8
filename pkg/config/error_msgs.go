package config

import "errors"

var (
	// ErrConfiguration is returned when credentials or settings required to
	// start a session are missing or invalid.
	ErrConfiguration = errors.New("configuration error")
	// ErrNotFound is returned when the input audio does not exist or can't be fetched.
	ErrNotFound = errors.New("audio file not found")
	// ErrUnsupportedAudio is returned when the input isn't a readable WAV file.
	ErrUnsupportedAudio = errors.New("unsupported audio file")
	// ErrSessionCanceled is returned when the speech service ended the session with an error.
	ErrSessionCanceled = errors.New("speech session canceled")
	// ErrTranslationFailed is returned when speech was recognized but no segment
	// could be translated, usually because the translator rejected the key.
	ErrTranslationFailed = errors.New("text translation failed")
)

const (
	MissingSpeechCredentials = "please set " + EnvSpeechKey + " and " + EnvSpeechRegion
	MissingTranslatorKey     = "translator provider requires an api key"
	UnknownTranslator        = "unknown translator provider"
	TooManyAutoDetectLangs   = "too many auto detect languages"
	EmptyTargetLanguage      = "target language is required"
)
