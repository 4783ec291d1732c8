package insights

import (
	"context"
	"io"
)

// EventKind is the closed set of events a session stream can deliver.
type EventKind int

const (
	// EventRecognized carries source-language text of one utterance.
	EventRecognized EventKind = iota + 1
	// EventTranslated carries target-language text of one utterance.
	EventTranslated
	// EventSessionEnded is always the last event of a stream.
	EventSessionEnded
)

func (k EventKind) String() string {
	switch k {
	case EventRecognized:
		return "recognized"
	case EventTranslated:
		return "translated"
	case EventSessionEnded:
		return "session_ended"
	}
	return "unknown"
}

// EndReason tells why a session ended.
type EndReason string

const (
	EndReasonStopped  EndReason = "stopped"
	EndReasonCanceled EndReason = "canceled"
	EndReasonError    EndReason = "error"
)

// SessionEnd describes the terminal state of a session. For cancellations the
// service error code and details are kept so the caller can inspect them.
type SessionEnd struct {
	Reason          EndReason `json:"reason"`
	ErrorCode       string    `json:"error_code,omitempty"`
	ErrorDetails    string    `json:"error_details,omitempty"`
	DroppedSegments int       `json:"dropped_segments,omitempty"`
	// RecognizedSegments counts the utterances handed to the text translator.
	RecognizedSegments int `json:"recognized_segments,omitempty"`
	// TranslationError is the last error returned by the text translator.
	TranslationError string `json:"translation_error,omitempty"`
}

// Failed reports whether the service ended the session because of an error.
func (e *SessionEnd) Failed() bool {
	return e != nil && e.Reason == EndReasonError
}

// TranslationFailed reports whether speech was recognized but not a single
// segment could be translated.
func (e *SessionEnd) TranslationFailed() bool {
	return e != nil && e.DroppedSegments > 0 && e.DroppedSegments >= e.RecognizedSegments
}

// Event is a single message of an EventStream.
type Event struct {
	Kind EventKind
	// Text is the source text for EventRecognized and the translated text for EventTranslated.
	Text string
	// SourceText is only set for EventTranslated.
	SourceText string
	// Language is the recognized (or detected) source language, if known.
	Language string
	// End is only set for EventSessionEnded.
	End *SessionEnd
}

// EventStream delivers the events of one running session. The channel yields
// exactly one EventSessionEnded as its last value and is then closed.
type EventStream interface {
	Events() <-chan *Event

	// Closer stops the session. It is safe to call more than once.
	io.Closer
}

// FileTranslationOptions binds a session to one audio file. Exactly one of
// SourceLang and AutoDetectLangs is set.
type FileTranslationOptions struct {
	SessionId       string
	AudioPath       string
	TargetLang      string
	SourceLang      string
	AutoDetectLangs []string
}

// Provider is the speech translation capability: it accepts an audio file and
// session options and produces a stream of translation events.
type Provider interface {
	CreateFileTranslation(ctx context.Context, opts *FileTranslationOptions) (EventStream, error)
}

// TextTranslationResult holds the translation of one text block into every requested language.
type TextTranslationResult struct {
	Text         string            `json:"text"`
	SourceLang   string            `json:"source_lang"`
	Translations map[string]string `json:"translations"`
}

// TextTranslator translates a block of text. sourceLang may be empty to let the
// service detect it.
type TextTranslator interface {
	TranslateText(ctx context.Context, text, sourceLang string, targetLangs []string) (*TextTranslationResult, error)
}
