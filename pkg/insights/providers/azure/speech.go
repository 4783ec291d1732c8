package azure

// This file contains the logic for interacting with the Azure Speech SDK: it
// creates the recognizer, manages its lifecycle and forwards the SDK events.

import (
	"fmt"
	"strings"
	"sync"

	"github.com/Microsoft/cognitive-services-speech-sdk-go/audio"
	"github.com/Microsoft/cognitive-services-speech-sdk-go/common"
	"github.com/Microsoft/cognitive-services-speech-sdk-go/speech"
	"github.com/mynaparrot/speech-translate/pkg/config"
	"github.com/mynaparrot/speech-translate/pkg/insights"
	"github.com/sirupsen/logrus"
)

const eventBufferSize = 64

// recognitionStream is an insights.EventStream of recognized, not yet
// translated, utterances.
type recognitionStream struct {
	*insights.Emitter

	recognizer *speech.SpeechRecognizer
	// released in reverse order on close
	releases  []func()
	log       *logrus.Entry
	closeOnce sync.Once
	closeErr  error
}

func newRecognitionStream(creds config.CredentialsConfig, opts *insights.FileTranslationOptions, log *logrus.Entry) (*recognitionStream, error) {
	if (opts.SourceLang == "") == (len(opts.AutoDetectLangs) == 0) {
		return nil, fmt.Errorf("%w: exactly one of source language or auto detect languages must be set", config.ErrConfiguration)
	}

	s := &recognitionStream{
		Emitter: insights.NewEmitter(eventBufferSize),
		log:     log,
	}

	cnf, err := speech.NewSpeechConfigFromSubscription(creds.APIKey, creds.Region)
	if err != nil {
		return nil, err
	}
	s.releases = append(s.releases, func() { cnf.Close() })

	audioConfig, err := audio.NewAudioConfigFromWavFileInput(opts.AudioPath)
	if err != nil {
		s.release()
		return nil, fmt.Errorf("could not create audio config from %s: %w", opts.AudioPath, err)
	}
	s.releases = append(s.releases, func() { audioConfig.Close() })

	var recognizer *speech.SpeechRecognizer
	if opts.SourceLang != "" {
		if err = cnf.SetSpeechRecognitionLanguage(opts.SourceLang); err != nil {
			s.release()
			return nil, err
		}
		recognizer, err = speech.NewSpeechRecognizerFromConfig(cnf, audioConfig)
	} else {
		var autoCnf *speech.AutoDetectSourceLanguageConfig
		autoCnf, err = speech.NewAutoDetectSourceLanguageConfigFromLanguages(opts.AutoDetectLangs)
		if err != nil {
			s.release()
			return nil, err
		}
		s.releases = append(s.releases, func() { autoCnf.Close() })
		recognizer, err = speech.NewSpeechRecognizerFomAutoDetectSourceLangConfig(cnf, autoCnf, audioConfig)
	}
	if err != nil {
		s.release()
		return nil, err
	}
	s.recognizer = recognizer
	s.releases = append(s.releases, func() { recognizer.Close() })

	s.register(opts)

	go func() {
		// StartContinuousRecognitionAsync returns a channel that provides the result of the async operation.
		if err := <-recognizer.StartContinuousRecognitionAsync(); err != nil {
			log.WithError(err).Errorln("error starting azure recognition")
			s.End(&insights.SessionEnd{
				Reason:       insights.EndReasonError,
				ErrorDetails: err.Error(),
			})
		}
	}()

	return s, nil
}

func (s *recognitionStream) register(opts *insights.FileTranslationOptions) {
	s.recognizer.SessionStarted(func(e speech.SessionEventArgs) {
		defer e.Close()
		s.log.WithField("azureSessionId", e.SessionID).Infoln("azure recognition started")
	})

	s.recognizer.Recognized(func(e speech.SpeechRecognitionEventArgs) {
		defer e.Close()
		if e.Result.Reason != common.RecognizedSpeech {
			return
		}
		text := strings.TrimSpace(e.Result.Text)
		if text == "" {
			return
		}

		lang := opts.SourceLang
		if lang == "" {
			if res, err := speech.NewAutoDetectSourceLanguageResult(&e.Result); err == nil {
				lang = res.Language
			}
		}
		s.Emit(&insights.Event{
			Kind:     insights.EventRecognized,
			Text:     text,
			Language: lang,
		})
	})

	s.recognizer.SessionStopped(func(e speech.SessionEventArgs) {
		defer e.Close()
		s.log.Infoln("azure recognition stopped")
		s.End(&insights.SessionEnd{Reason: insights.EndReasonStopped})
	})

	s.recognizer.Canceled(func(e speech.SpeechRecognitionCanceledEventArgs) {
		defer e.Close()
		end := cancellationToEnd(e.Reason, int(e.ErrorCode), e.ErrorDetails)
		s.log.WithFields(logrus.Fields{
			"reason":    end.Reason,
			"errorCode": end.ErrorCode,
		}).Infof("azure recognition canceled: %s", e.ErrorDetails)
		s.End(end)
	})
}

// Close stops recognition and releases the SDK handles.
func (s *recognitionStream) Close() error {
	s.closeOnce.Do(func() {
		s.Abandon()
		s.closeErr = <-s.recognizer.StopContinuousRecognitionAsync()
		s.End(&insights.SessionEnd{Reason: insights.EndReasonStopped})
		s.release()
	})
	return s.closeErr
}

func (s *recognitionStream) release() {
	for i := len(s.releases) - 1; i >= 0; i-- {
		s.releases[i]()
	}
	s.releases = nil
}

// cancellationToEnd maps an SDK cancellation. Reaching the end of the file is
// a normal stop, everything but a user cancel is an error.
func cancellationToEnd(reason common.CancellationReason, code int, details string) *insights.SessionEnd {
	switch reason {
	case common.EndOfStream:
		return &insights.SessionEnd{Reason: insights.EndReasonStopped}
	case common.Error:
		return &insights.SessionEnd{
			Reason:       insights.EndReasonError,
			ErrorCode:    fmt.Sprintf("%d", code),
			ErrorDetails: details,
		}
	}
	return &insights.SessionEnd{Reason: insights.EndReasonCanceled, ErrorDetails: details}
}
