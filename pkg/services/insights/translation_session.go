package insightsservice

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/mynaparrot/speech-translate/pkg/config"
	"github.com/mynaparrot/speech-translate/pkg/insights"
	"github.com/mynaparrot/speech-translate/pkg/insights/media"
	"github.com/sirupsen/logrus"
)

// Result is what a finished session collected.
type Result struct {
	SessionId string
	// Segments are the translated texts in recognition order.
	Segments []string
	// DetectedLanguages lists every source language seen, in order of first appearance.
	DetectedLanguages []string
	End               *insights.SessionEnd
	OutputPath        string
	Audio             *media.AudioInfo
}

func (r *Result) addLanguage(lang string) {
	if lang == "" {
		return
	}
	for _, l := range r.DetectedLanguages {
		if l == lang {
			return
		}
	}
	r.DetectedLanguages = append(r.DetectedLanguages, lang)
}

// TranslationSession runs one audio file through the speech translation
// provider and collects the translated segments.
type TranslationSession struct {
	app         *config.AppConfig
	newProvider ProviderFactory
	logger      *logrus.Logger

	// console output, separate from the logs
	stdout io.Writer
	getenv func(string) string
}

func NewTranslationSession(app *config.AppConfig, newProvider ProviderFactory, logger *logrus.Logger) *TranslationSession {
	return &TranslationSession{
		app:         app,
		newProvider: newProvider,
		logger:      logger,
		stdout:      os.Stdout,
		getenv:      os.Getenv,
	}
}

// Run validates the input, starts continuous recognition and blocks until the
// session ends or ctx is done. Missing credentials return ErrConfiguration and
// missing audio ErrNotFound, both before any service is contacted. The
// segments collected so far are returned and written even when the session
// was cut short. A session whose every recognized segment failed translation
// returns ErrTranslationFailed.
func (s *TranslationSession) Run(ctx context.Context, opts *config.TranslateOptions) (*Result, error) {
	if err := s.app.LoadCredentials(s.getenv); err != nil {
		return nil, err
	}
	if err := s.app.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(opts.TargetLang) == "" {
		return nil, fmt.Errorf("%w: %s", config.ErrConfiguration, config.EmptyTargetLanguage)
	}

	res := &Result{
		SessionId:  uuid.NewString(),
		OutputPath: opts.OutputPath,
	}
	log := s.logger.WithFields(logrus.Fields{
		"sessionId":  res.SessionId,
		"targetLang": opts.TargetLang,
	})

	audio, err := media.PrepareAudio(ctx, opts.AudioPath, s.app.Download, log)
	if err != nil {
		return nil, err
	}
	defer audio.Close()
	res.Audio = audio.Info

	provider, err := s.newProvider(ctx, s.app, log)
	if err != nil {
		return nil, err
	}

	fileOpts := buildFileOptions(res.SessionId, audio.Path, opts, s.app.Speech.AutoDetectLanguages)
	log.WithFields(logrus.Fields{
		"sourceLang": fileOpts.SourceLang,
		"autoDetect": fileOpts.AutoDetectLangs,
		"duration":   audio.Info.Duration,
		"sampleRate": audio.Info.SampleRate,
	}).Debugln("configured session")

	fmt.Fprintln(s.stdout, "Starting translation...")
	stream, err := provider.CreateFileTranslation(ctx, fileOpts)
	if err != nil {
		return nil, err
	}

	runErr := s.consume(ctx, stream, opts.TargetLang, res)

	// the stream may already be finished, close is idempotent
	if err := stream.Close(); err != nil {
		log.WithError(err).Warnln("error stopping recognition")
	}

	log.WithFields(logrus.Fields{
		"segments":   len(res.Segments),
		"reason":     res.End.Reason,
		"recognized": res.End.RecognizedSegments,
		"dropped":    res.End.DroppedSegments,
	}).Infoln("session ended")
	if res.End.DroppedSegments > 0 {
		log.WithFields(logrus.Fields{
			"recognized":       res.End.RecognizedSegments,
			"dropped":          res.End.DroppedSegments,
			"translationError": res.End.TranslationError,
		}).Warnln("some segments could not be translated")
	}

	if opts.OutputPath != "" {
		if err := WriteSegments(opts.OutputPath, res.Segments); err != nil {
			return res, fmt.Errorf("failed to write %s: %w", opts.OutputPath, err)
		}
		fmt.Fprintf(s.stdout, "Saved translated text → %s\n", opts.OutputPath)
	}

	if runErr != nil {
		return res, runErr
	}
	if res.End.Failed() {
		log.WithFields(logrus.Fields{
			"errorCode":    res.End.ErrorCode,
			"errorDetails": res.End.ErrorDetails,
		}).Warnln("speech service canceled the session")
		return res, fmt.Errorf("%w: code=%s details=%s", config.ErrSessionCanceled, res.End.ErrorCode, res.End.ErrorDetails)
	}
	if res.End.TranslationFailed() {
		return res, fmt.Errorf("%w: all %d recognized segments were dropped, last error: %s", config.ErrTranslationFailed, res.End.RecognizedSegments, res.End.TranslationError)
	}

	return res, nil
}

// consume reads events until the terminal one. It never spins: it blocks on
// the stream or on ctx.
func (s *TranslationSession) consume(ctx context.Context, stream insights.EventStream, targetLang string, res *Result) error {
	tag := strings.ToUpper(targetLang)
	events := stream.Events()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				if res.End == nil {
					res.End = &insights.SessionEnd{Reason: insights.EndReasonStopped}
				}
				return nil
			}

			switch ev.Kind {
			case insights.EventTranslated:
				if ev.Text == "" {
					continue
				}
				fmt.Fprintf(s.stdout, "[%s] %s\n", tag, ev.Text)
				res.Segments = append(res.Segments, ev.Text)
				res.addLanguage(ev.Language)
			case insights.EventSessionEnded:
				res.End = ev.End
				if res.End == nil {
					res.End = &insights.SessionEnd{Reason: insights.EndReasonStopped}
				}
				return nil
			}
		case <-ctx.Done():
			res.End = &insights.SessionEnd{
				Reason:       insights.EndReasonCanceled,
				ErrorDetails: ctx.Err().Error(),
			}
			return ctx.Err()
		}
	}
}

// buildFileOptions enables exactly one of the fixed source language and the
// auto detect candidates.
func buildFileOptions(sessionId, audioPath string, opts *config.TranslateOptions, candidates []string) *insights.FileTranslationOptions {
	fo := &insights.FileTranslationOptions{
		SessionId:  sessionId,
		AudioPath:  audioPath,
		TargetLang: opts.TargetLang,
	}
	if opts.SourceLang != "" {
		fo.SourceLang = opts.SourceLang
	} else {
		if len(candidates) == 0 {
			candidates = config.DefaultAutoDetectLanguages
		}
		fo.AutoDetectLangs = append([]string(nil), candidates...)
	}
	return fo
}
