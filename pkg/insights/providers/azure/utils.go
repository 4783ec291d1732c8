package azure

import "strings"

// translator codes that keep their script or region part
var translatorCodes = map[string]string{
	"zh-cn":   "zh-Hans",
	"zh-sg":   "zh-Hans",
	"zh-hans": "zh-Hans",
	"zh-tw":   "zh-Hant",
	"zh-hk":   "zh-Hant",
	"zh-hant": "zh-Hant",
	"pt-pt":   "pt-pt",
	"fr-ca":   "fr-ca",
	"sr-cyrl": "sr-Cyrl",
	"sr-latn": "sr-Latn",
	"mn-cyrl": "mn-Cyrl",
	"mn-mong": "mn-Mong",
}

// toTranslatorLang converts a speech locale (en-US, hi-IN) to the language code
// the Translator service expects (en, hi).
func toTranslatorLang(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}
	if c, ok := translatorCodes[strings.ToLower(code)]; ok {
		return c
	}
	if i := strings.IndexByte(code, '-'); i > 0 {
		return strings.ToLower(code[:i])
	}
	return strings.ToLower(code)
}
