package insights

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/gammazero/workerpool"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// translatingStream turns the recognized events of a source stream into
// translated events. Utterances are translated concurrently but emitted in
// the order they were recognized.
type translatingStream struct {
	src        EventStream
	translator TextTranslator
	targetLang string
	logger     *logrus.Entry

	ctx       context.Context
	cancel    context.CancelFunc
	out       chan *Event
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// NewTranslatingStream wraps src. The returned stream owns src and closes it on Close.
func NewTranslatingStream(ctx context.Context, src EventStream, translator TextTranslator, targetLang string, workers int, logger *logrus.Entry) EventStream {
	if workers < 1 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(ctx)

	s := &translatingStream{
		src:        src,
		translator: translator,
		targetLang: targetLang,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
		out:        make(chan *Event, workers),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	go s.run(workers)

	return s
}

func (s *translatingStream) Events() <-chan *Event {
	return s.out
}

// Close stops the source stream and waits until every worker has returned.
func (s *translatingStream) Close() error {
	s.closeOnce.Do(func() {
		close(s.quit)
		s.cancel()
		s.closeErr = s.src.Close()
		<-s.done
	})
	return s.closeErr
}

// slotResult is the outcome of one queued event. err is only set for failed
// translations.
type slotResult struct {
	ev         *Event
	err        error
	recognized bool
}

func (s *translatingStream) run(workers int) {
	// every entry is a single value slot, queued in recognition order
	slots := make(chan chan slotResult, workers*4)
	pool := workerpool.New(workers)

	g := new(errgroup.Group)
	g.Go(func() error {
		defer close(slots)
		defer pool.StopWait()

		for ev := range s.src.Events() {
			select {
			case <-s.quit:
				continue
			default:
			}

			slot := make(chan slotResult, 1)
			if ev.Kind == EventRecognized {
				ev := ev
				pool.Submit(func() {
					out, err := s.translate(ev)
					slot <- slotResult{ev: out, err: err, recognized: true}
				})
			} else {
				slot <- slotResult{ev: ev}
			}

			select {
			case slots <- slot:
			case <-s.quit:
			}
		}
		return nil
	})

	g.Go(func() error {
		c := new(segmentCounts)
		ended := false
		for slot := range slots {
			r := <-slot
			if r.err != nil {
				// stopped while in flight, neither translated nor dropped
				if errors.Is(r.err, context.Canceled) {
					continue
				}
				c.recognized++
				c.dropped++
				c.lastErr = r.err
				continue
			}
			if r.recognized {
				c.recognized++
			}
			if r.ev.Kind == EventSessionEnded {
				ended = true
				r.ev = c.annotate(r.ev.End)
			}
			s.send(r.ev)
		}
		if !ended {
			s.send(c.annotate(nil))
		}
		return nil
	})

	_ = g.Wait()
	close(s.out)
	close(s.done)
	s.cancel()
}

func (s *translatingStream) translate(ev *Event) (*Event, error) {
	res, err := s.translator.TranslateText(s.ctx, ev.Text, ev.Language, []string{s.targetLang})
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			s.logger.WithError(err).WithField("text", ev.Text).Errorln("failed to translate segment")
		}
		return nil, err
	}

	lang := ev.Language
	if lang == "" {
		lang = res.SourceLang
	}
	return &Event{
		Kind:       EventTranslated,
		Text:       strings.TrimSpace(res.Translations[s.targetLang]),
		SourceText: ev.Text,
		Language:   lang,
	}, nil
}

func (s *translatingStream) send(ev *Event) {
	select {
	case s.out <- ev:
	case <-s.quit:
	}
}

type segmentCounts struct {
	recognized int
	dropped    int
	lastErr    error
}

// annotate copies end, stopped if nil, and adds the translation counts.
func (c *segmentCounts) annotate(end *SessionEnd) *Event {
	e := SessionEnd{Reason: EndReasonStopped}
	if end != nil {
		e = *end
	}
	e.RecognizedSegments += c.recognized
	e.DroppedSegments += c.dropped
	if c.lastErr != nil {
		e.TranslationError = c.lastErr.Error()
	}
	return &Event{Kind: EventSessionEnded, End: &e}
}
