package azure

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Microsoft/cognitive-services-speech-sdk-go/common"
	"github.com/mynaparrot/speech-translate/pkg/config"
	"github.com/mynaparrot/speech-translate/pkg/insights"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(l)
}

func TestToTranslatorLang(t *testing.T) {
	tests := map[string]string{
		"en-US":   "en",
		"hi-IN":   "hi",
		"gu":      "gu",
		"HI":      "hi",
		"zh-CN":   "zh-Hans",
		"zh-TW":   "zh-Hant",
		"sr-Latn": "sr-Latn",
		" mr-IN ": "mr",
		"":        "",
	}
	for in, want := range tests {
		assert.Equal(t, want, toTranslatorLang(in), in)
	}
}

func TestTextTranslator_TranslateText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/translate", r.URL.Path)
		assert.Equal(t, "3.0", r.URL.Query().Get("api-version"))
		assert.Equal(t, []string{"gu", "zh-Hans"}, r.URL.Query()["to"])
		assert.Equal(t, "en", r.URL.Query().Get("from"))
		assert.Equal(t, "secret", r.Header.Get("Ocp-Apim-Subscription-Key"))
		assert.Equal(t, "eastus", r.Header.Get("Ocp-Apim-Subscription-Region"))

		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `[{"Text":"hello"}]`, string(body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"translations":[{"text":"નમસ્તે","to":"gu"},{"text":"你好","to":"zh-Hans"}]}]`))
	}))
	defer srv.Close()

	tr, err := NewTextTranslator(config.CredentialsConfig{APIKey: "secret", Region: "eastus"}, srv.URL+"/", time.Second, testLogger())
	require.NoError(t, err)

	res, err := tr.TranslateText(context.Background(), "hello", "en-US", []string{"gu", "zh-CN"})
	require.NoError(t, err)
	assert.Equal(t, "en-US", res.SourceLang)
	assert.Equal(t, "નમસ્તે", res.Translations["gu"])
	assert.Equal(t, "你好", res.Translations["zh-CN"])
}

func TestTextTranslator_DetectedLanguage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.Query().Get("from"))
		assert.Empty(t, r.Header.Get("Ocp-Apim-Subscription-Region"))
		_, _ = w.Write([]byte(`[{"detectedLanguage":{"language":"en","score":1.0},"translations":[{"text":"विश्व","to":"hi"}]}]`))
	}))
	defer srv.Close()

	tr, err := NewTextTranslator(config.CredentialsConfig{APIKey: "secret"}, srv.URL, time.Second, testLogger())
	require.NoError(t, err)

	res, err := tr.TranslateText(context.Background(), "world", "", []string{"hi"})
	require.NoError(t, err)
	assert.Equal(t, "en", res.SourceLang)
	assert.Equal(t, "विश्व", res.Translations["hi"])
}

func TestTextTranslator_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"code":401000,"message":"invalid key"}}`))
	}))
	defer srv.Close()

	_, err := NewTextTranslator(config.CredentialsConfig{}, srv.URL, time.Second, testLogger())
	assert.ErrorIs(t, err, config.ErrConfiguration)

	tr, err := NewTextTranslator(config.CredentialsConfig{APIKey: "bad"}, srv.URL, time.Second, testLogger())
	require.NoError(t, err)

	_, err = tr.TranslateText(context.Background(), "hello", "", []string{"hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid key")

	_, err = tr.TranslateText(context.Background(), "hello", "", nil)
	assert.Error(t, err)
}

func TestCancellationToEnd(t *testing.T) {
	end := cancellationToEnd(common.EndOfStream, 0, "")
	assert.Equal(t, insights.EndReasonStopped, end.Reason)

	end = cancellationToEnd(common.Error, 1, "authentication failed")
	assert.Equal(t, insights.EndReasonError, end.Reason)
	assert.Equal(t, "1", end.ErrorCode)
	assert.Equal(t, "authentication failed", end.ErrorDetails)
	assert.True(t, end.Failed())

	end = cancellationToEnd(common.CancelledByUser, 0, "")
	assert.Equal(t, insights.EndReasonCanceled, end.Reason)
}

func TestNewProvider(t *testing.T) {
	tr, err := NewTextTranslator(config.CredentialsConfig{APIKey: "k"}, "", time.Second, testLogger())
	require.NoError(t, err)
	assert.Equal(t, config.DefaultTranslatorEndpoint, tr.endpoint)

	_, err = NewProvider(config.CredentialsConfig{APIKey: "k"}, tr, 1, testLogger())
	assert.ErrorIs(t, err, config.ErrConfiguration)

	_, err = NewProvider(config.CredentialsConfig{APIKey: "k", Region: "eastus"}, nil, 1, testLogger())
	assert.ErrorIs(t, err, config.ErrConfiguration)

	p, err := NewProvider(config.CredentialsConfig{APIKey: "k", Region: "eastus"}, tr, 1, testLogger())
	require.NoError(t, err)

	// exclusivity is checked before any sdk handle is created
	_, err = p.CreateFileTranslation(context.Background(), &insights.FileTranslationOptions{
		AudioPath:       "sample.wav",
		TargetLang:      "hi",
		SourceLang:      "en-US",
		AutoDetectLangs: []string{"en-US"},
	})
	assert.ErrorIs(t, err, config.ErrConfiguration)

	_, err = p.CreateFileTranslation(context.Background(), &insights.FileTranslationOptions{
		AudioPath:  "sample.wav",
		TargetLang: "hi",
	})
	assert.ErrorIs(t, err, config.ErrConfiguration)
}
