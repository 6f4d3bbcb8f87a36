package domain

// SupportedLanguages lists the accepted request language tags in the order
// they are reported back to clients.
var SupportedLanguages = []string{"fr-FR", "en-US", "en-GB"}

var simplifiedLanguages = map[string]string{
	"fr-FR": "fr",
	"en-US": "en",
	"en-GB": "en",
}

// IsSupportedLanguage reports whether tag is one of SupportedLanguages.
func IsSupportedLanguage(tag string) bool {
	_, ok := simplifiedLanguages[tag]
	return ok
}

// SimplifiedLanguage maps a supported tag to its two-letter code, which is
// what the dialog service, the data services and the message table use.
func SimplifiedLanguage(tag string) string {
	if code, ok := simplifiedLanguages[tag]; ok {
		return code
	}
	return defaultMessageLanguage
}
