// Package languages holds the translation targets offered to the user
// when the translation API cannot list its own.
package languages

import (
	"sort"
	"strings"

	"github.com/vlatan/video-notes/internal/models"
	"golang.org/x/text/language"
)

// Default target, the natural language of most transcripts
const Default = "en"

var english, _ = language.English.Base()

// Codes and English names of the built-in translation targets
var builtin = map[string]string{
	"af": "afrikaans", "sq": "albanian", "am": "amharic", "ar": "arabic",
	"hy": "armenian", "az": "azerbaijani", "eu": "basque", "be": "belarusian",
	"bn": "bengali", "bs": "bosnian", "bg": "bulgarian", "ca": "catalan",
	"ceb": "cebuano", "ny": "chichewa", "zh-cn": "chinese (simplified)",
	"zh-tw": "chinese (traditional)", "co": "corsican", "hr": "croatian",
	"cs": "czech", "da": "danish", "nl": "dutch", "en": "english",
	"eo": "esperanto", "et": "estonian", "tl": "filipino", "fi": "finnish",
	"fr": "french", "fy": "frisian", "gl": "galician", "ka": "georgian",
	"de": "german", "el": "greek", "gu": "gujarati", "ht": "haitian creole",
	"ha": "hausa", "haw": "hawaiian", "iw": "hebrew", "he": "hebrew",
	"hi": "hindi", "hmn": "hmong", "hu": "hungarian", "is": "icelandic",
	"ig": "igbo", "id": "indonesian", "ga": "irish", "it": "italian",
	"ja": "japanese", "jw": "javanese", "kn": "kannada", "kk": "kazakh",
	"km": "khmer", "ko": "korean", "ku": "kurdish (kurmanji)", "ky": "kyrgyz",
	"lo": "lao", "la": "latin", "lv": "latvian", "lt": "lithuanian",
	"lb": "luxembourgish", "mk": "macedonian", "mg": "malagasy", "ms": "malay",
	"ml": "malayalam", "mt": "maltese", "mi": "maori", "mr": "marathi",
	"mn": "mongolian", "my": "myanmar (burmese)", "ne": "nepali",
	"no": "norwegian", "or": "odia", "ps": "pashto", "fa": "persian",
	"pl": "polish", "pt": "portuguese", "pa": "punjabi", "ro": "romanian",
	"ru": "russian", "sm": "samoan", "gd": "scots gaelic", "sr": "serbian",
	"st": "sesotho", "sn": "shona", "sd": "sindhi", "si": "sinhala",
	"sk": "slovak", "sl": "slovenian", "so": "somali", "es": "spanish",
	"su": "sundanese", "sw": "swahili", "sv": "swedish", "tg": "tajik",
	"ta": "tamil", "te": "telugu", "th": "thai", "tr": "turkish",
	"uk": "ukrainian", "ur": "urdu", "ug": "uyghur", "uz": "uzbek",
	"vi": "vietnamese", "cy": "welsh", "xh": "xhosa", "yi": "yiddish",
	"yo": "yoruba", "zu": "zulu",
}

// Builtin returns the built-in targets sorted by name
func Builtin() models.Languages {
	langs := make(models.Languages, 0, len(builtin))
	for code, name := range builtin {
		// Hebrew is listed under both its legacy and current code
		if code == "iw" {
			continue
		}
		langs = append(langs, models.Language{Code: code, Name: capitalize(name)})
	}

	Sort(langs)
	return langs
}

// Sort orders languages by name, then by code
func Sort(langs models.Languages) {
	sort.Slice(langs, func(i, j int) bool {
		if langs[i].Name == langs[j].Name {
			return langs[i].Code < langs[j].Code
		}
		return langs[i].Name < langs[j].Name
	})
}

// Find looks up a language by code, case insensitive
func Find(langs models.Languages, code string) (models.Language, bool) {
	for _, lang := range langs {
		if strings.EqualFold(lang.Code, code) {
			return lang, true
		}
	}
	return models.Language{}, false
}

// IsSource reports whether the code denotes English,
// the language the summary is produced in.
func IsSource(code string) bool {
	code = strings.TrimSpace(code)
	if code == "" {
		return false
	}

	tag, err := language.Parse(code)
	if err != nil {
		return strings.EqualFold(code, Default)
	}

	base, _ := tag.Base()
	return base == english
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
