package translate

// DefaultLangs is the corporate set of target locales used when a request does
// not name its own.
var DefaultLangs = []string{
	"sv-SE", "nb-NO", "da-DK", "de-DE", "fr-FR",
	"it-IT", "es-ES", "nl-NL", "zh-Hans", "zh-Hant",
	"ja-JP", "ko-KR",
}

var langNames = map[string]string{
	"sv-SE":   "Swedish",
	"nb-NO":   "Norwegian Bokmål",
	"da-DK":   "Danish",
	"de-DE":   "German",
	"fr-FR":   "French",
	"it-IT":   "Italian",
	"es-ES":   "Spanish",
	"nl-NL":   "Dutch",
	"zh-Hans": "Simplified Chinese",
	"zh-Hant": "Traditional Chinese",
	"zh-CN":   "Simplified Chinese",
	"zh-TW":   "Traditional Chinese",
	"ja-JP":   "Japanese",
	"ko-KR":   "Korean",
	"en-US":   "English",
	"en-GB":   "British English",
	"pt-BR":   "Brazilian Portuguese",
	"pt-PT":   "European Portuguese",
	"ru-RU":   "Russian",
	"pl-PL":   "Polish",
	"fi-FI":   "Finnish",
}

// LangName returns a human-readable name for a locale tag, falling back to the
// tag itself for unknown locales (the model understands tags directly).
func LangName(tag string) string {
	if name, ok := langNames[tag]; ok {
		return name
	}
	return tag
}
