package insights

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	*Emitter
	closed atomic.Int32
}

func newFakeSource() *fakeSource {
	return &fakeSource{Emitter: NewEmitter(16)}
}

func (f *fakeSource) Close() error {
	f.closed.Add(1)
	f.Abandon()
	f.End(&SessionEnd{Reason: EndReasonStopped})
	return nil
}

type fakeTranslator struct {
	calls atomic.Int32
}

func (f *fakeTranslator) TranslateText(ctx context.Context, text, sourceLang string, targetLangs []string) (*TextTranslationResult, error) {
	f.calls.Add(1)
	// random latency so that later utterances often finish first
	select {
	case <-time.After(time.Duration(rand.Intn(20)) * time.Millisecond):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if text == "bad" {
		return nil, errors.New("translation failed")
	}

	res := &TextTranslationResult{Text: text, SourceLang: "en", Translations: map[string]string{}}
	for _, l := range targetLangs {
		res.Translations[l] = fmt.Sprintf("%s:%s", l, text)
	}
	return res, nil
}

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(l)
}

func TestTranslatingStream_KeepsOrder(t *testing.T) {
	src := newFakeSource()
	tr := new(fakeTranslator)
	stream := NewTranslatingStream(context.Background(), src, tr, "hi", 8, testLogger())

	go func() {
		for i := 0; i < 50; i++ {
			src.Emit(&Event{Kind: EventRecognized, Text: fmt.Sprintf("u%02d", i), Language: "en-US"})
		}
		src.End(&SessionEnd{Reason: EndReasonStopped})
	}()

	events := drain(t, stream.Events())
	require.Len(t, events, 51)
	for i := 0; i < 50; i++ {
		assert.Equal(t, EventTranslated, events[i].Kind)
		assert.Equal(t, fmt.Sprintf("hi:u%02d", i), events[i].Text)
		assert.Equal(t, fmt.Sprintf("u%02d", i), events[i].SourceText)
		assert.Equal(t, "en-US", events[i].Language)
	}
	assert.Equal(t, EventSessionEnded, events[50].Kind)
	assert.Equal(t, 0, events[50].End.DroppedSegments)
	assert.Equal(t, 50, events[50].End.RecognizedSegments)
	assert.False(t, events[50].End.TranslationFailed())
	assert.EqualValues(t, 50, tr.calls.Load())

	require.NoError(t, stream.Close())
	require.NoError(t, stream.Close())
	assert.EqualValues(t, 1, src.closed.Load())
}

func TestTranslatingStream_DropsFailedSegments(t *testing.T) {
	src := newFakeSource()
	stream := NewTranslatingStream(context.Background(), src, new(fakeTranslator), "gu", 2, testLogger())

	go func() {
		src.Emit(&Event{Kind: EventRecognized, Text: "hello"})
		src.Emit(&Event{Kind: EventRecognized, Text: "bad"})
		src.Emit(&Event{Kind: EventRecognized, Text: "world"})
		src.End(&SessionEnd{Reason: EndReasonCanceled, ErrorCode: "4", ErrorDetails: "network"})
	}()

	events := drain(t, stream.Events())
	require.Len(t, events, 3)
	assert.Equal(t, "gu:hello", events[0].Text)
	assert.Equal(t, "en", events[0].Language)
	assert.Equal(t, "gu:world", events[1].Text)

	end := events[2].End
	require.NotNil(t, end)
	assert.Equal(t, EndReasonCanceled, end.Reason)
	assert.Equal(t, "network", end.ErrorDetails)
	assert.Equal(t, 1, end.DroppedSegments)
	assert.Equal(t, 3, end.RecognizedSegments)
	assert.Equal(t, "translation failed", end.TranslationError)
	assert.False(t, end.TranslationFailed())
}

func TestTranslatingStream_AllSegmentsFailed(t *testing.T) {
	src := newFakeSource()
	stream := NewTranslatingStream(context.Background(), src, new(fakeTranslator), "hi", 2, testLogger())

	go func() {
		for i := 0; i < 3; i++ {
			src.Emit(&Event{Kind: EventRecognized, Text: "bad"})
		}
		src.End(&SessionEnd{Reason: EndReasonStopped})
	}()

	events := drain(t, stream.Events())
	require.Len(t, events, 1)

	end := events[0].End
	require.NotNil(t, end)
	assert.Equal(t, EndReasonStopped, end.Reason)
	assert.Equal(t, 3, end.DroppedSegments)
	assert.Equal(t, 3, end.RecognizedSegments)
	assert.Equal(t, "translation failed", end.TranslationError)
	assert.False(t, end.Failed())
	assert.True(t, end.TranslationFailed())
}

// blockingTranslator waits for its context, like a request that is still in flight.
type blockingTranslator struct {
	started chan struct{}
}

func (b *blockingTranslator) TranslateText(ctx context.Context, text, sourceLang string, targetLangs []string) (*TextTranslationResult, error) {
	close(b.started)
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestTranslatingStream_CanceledIsNotDropped(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	src := newFakeSource()
	tr := &blockingTranslator{started: make(chan struct{})}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stream := NewTranslatingStream(ctx, src, tr, "hi", 1, logrus.NewEntry(logger))

	src.Emit(&Event{Kind: EventRecognized, Text: "in flight"})
	select {
	case <-tr.started:
	case <-time.After(5 * time.Second):
		t.Fatal("translation did not start")
	}
	cancel()
	src.End(&SessionEnd{Reason: EndReasonCanceled})

	events := drain(t, stream.Events())
	require.Len(t, events, 1)

	end := events[0].End
	require.NotNil(t, end)
	assert.Equal(t, EndReasonCanceled, end.Reason)
	assert.Zero(t, end.DroppedSegments)
	assert.Zero(t, end.RecognizedSegments)
	assert.Empty(t, end.TranslationError)
	assert.False(t, end.TranslationFailed())

	for _, e := range hook.AllEntries() {
		assert.NotEqual(t, logrus.ErrorLevel, e.Level, e.Message)
	}
}

func TestSessionEnd_TranslationFailed(t *testing.T) {
	var end *SessionEnd
	assert.False(t, end.TranslationFailed())
	assert.False(t, (&SessionEnd{}).TranslationFailed())
	assert.False(t, (&SessionEnd{RecognizedSegments: 2, DroppedSegments: 1}).TranslationFailed())
	assert.True(t, (&SessionEnd{RecognizedSegments: 2, DroppedSegments: 2}).TranslationFailed())
}

func TestTranslatingStream_CloseBeforeEnd(t *testing.T) {
	src := newFakeSource()
	stream := NewTranslatingStream(context.Background(), src, new(fakeTranslator), "hi", 1, testLogger())

	src.Emit(&Event{Kind: EventRecognized, Text: "first"})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = stream.Close()
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("close did not return")
	}
	assert.EqualValues(t, 1, src.closed.Load())

	// the output channel must be closed once close returns
	drain(t, stream.Events())
}
