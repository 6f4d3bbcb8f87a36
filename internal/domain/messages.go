package domain

// MessageKey names a localized fallback message.
type MessageKey string

const (
	MessageNotUnderstand    MessageKey = "not-understand"
	MessageNotHeard         MessageKey = "not-heard"
	MessageResourceNotFound MessageKey = "resource-not-found"
	MessageNoWeather        MessageKey = "no-weather"
)

const defaultMessageLanguage = "en"

var customMessages = map[string]map[MessageKey]string{
	"fr": {
		MessageNotUnderstand:    "Pardonnez-moi, je n'ai pas compris ce que vous avez dit.",
		MessageNotHeard:         "Pardonnez-moi, je n'ai pas entendu ce que vous avez dit.",
		MessageResourceNotFound: "Désolé, je n'ai trouvé aucune information à ce sujet.",
		MessageNoWeather:        "Désolé, je ne peux pas donner la météo pour cet endroit.",
	},
	"en": {
		MessageNotUnderstand:    "Sorry I didn't understand what you said.",
		MessageNotHeard:         "Sorry I didn't hear what you said.",
		MessageResourceNotFound: "Sorry, I couldn't find any information about it.",
		MessageNoWeather:        "Sorry, I can't give you the weather for this place.",
	},
}

// LocalizedMessage returns the fallback message for a simplified language
// code, falling back to English for unknown languages.
func LocalizedMessage(language string, key MessageKey) string {
	if messages, ok := customMessages[language]; ok {
		if msg, ok := messages[key]; ok {
			return msg
		}
	}
	return customMessages[defaultMessageLanguage][key]
}
