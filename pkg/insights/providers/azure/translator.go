package azure

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/mynaparrot/speech-translate/pkg/config"
	"github.com/mynaparrot/speech-translate/pkg/insights"
	"github.com/sirupsen/logrus"
)

const translatorApiVersion = "3.0"

// TextTranslator calls the Azure Translator v3 REST api.
type TextTranslator struct {
	creds    config.CredentialsConfig
	endpoint string
	client   *retryablehttp.Client
	log      *logrus.Entry
}

type translateReqItem struct {
	Text string `json:"Text"`
}

type translateResItem struct {
	DetectedLanguage *struct {
		Language string  `json:"language"`
		Score    float64 `json:"score"`
	} `json:"detectedLanguage"`
	Translations []struct {
		Text string `json:"text"`
		To   string `json:"to"`
	} `json:"translations"`
}

type translateErrRes struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func NewTextTranslator(creds config.CredentialsConfig, endpoint string, timeout time.Duration, log *logrus.Entry) (*TextTranslator, error) {
	if creds.APIKey == "" {
		return nil, fmt.Errorf("%w: azure translator requires api_key", config.ErrConfiguration)
	}
	if endpoint == "" {
		endpoint = config.DefaultTranslatorEndpoint
	}

	client := retryablehttp.NewClient()
	client.Logger = nil
	client.RetryMax = 3
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.HTTPClient.Timeout = timeout

	return &TextTranslator{
		creds:    creds,
		endpoint: strings.TrimRight(endpoint, "/"),
		client:   client,
		log:      log.WithField("translator", config.ProviderAzure),
	}, nil
}

// TranslateText translates text into every target language. The keys of the
// returned map are the codes exactly as requested.
func (t *TextTranslator) TranslateText(ctx context.Context, text, sourceLang string, targetLangs []string) (*insights.TextTranslationResult, error) {
	if len(targetLangs) == 0 {
		return nil, fmt.Errorf("at least one target language is required")
	}

	q := url.Values{}
	q.Set("api-version", translatorApiVersion)
	for _, l := range targetLangs {
		q.Add("to", toTranslatorLang(l))
	}
	if sourceLang != "" {
		q.Set("from", toTranslatorLang(sourceLang))
	}

	body, err := json.Marshal([]translateReqItem{{Text: text}})
	if err != nil {
		return nil, err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, t.endpoint+"/translate?"+q.Encode(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Ocp-Apim-Subscription-Key", t.creds.APIKey)
	if t.creds.Region != "" {
		req.Header.Set("Ocp-Apim-Subscription-Region", t.creds.Region)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("azure translator: request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errRes := new(translateErrRes)
		if json.Unmarshal(data, errRes) == nil && errRes.Error.Message != "" {
			return nil, fmt.Errorf("azure translator: %d %s (code %d)", resp.StatusCode, errRes.Error.Message, errRes.Error.Code)
		}
		return nil, fmt.Errorf("azure translator: non-2xx response %d: %s", resp.StatusCode, string(data))
	}

	var items []translateResItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("azure translator: failed to decode response: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("azure translator: empty response")
	}

	item := items[0]
	result := &insights.TextTranslationResult{
		Text:         text,
		SourceLang:   sourceLang,
		Translations: make(map[string]string, len(targetLangs)),
	}
	if result.SourceLang == "" && item.DetectedLanguage != nil {
		result.SourceLang = item.DetectedLanguage.Language
	}
	// translations come back in the order of the `to` parameters
	for i, tr := range item.Translations {
		if i < len(targetLangs) {
			result.Translations[targetLangs[i]] = tr.Text
		}
	}

	return result, nil
}
