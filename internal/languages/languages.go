package languages

// Code is one of the languages the widget speaks. The set is closed:
// adding a language means adding its entry to table below, which carries
// the display label plus the locale tags the speech input (stt) and
// speech output (tts) subsystems use. All three must stay in lockstep.
type Code string

const (
	English Code = "en"
	Hindi   Code = "hi"
	Tamil   Code = "ta"
)

// Default is the language a widget starts in when the page doesn't say.
const Default = English

type Locale struct {
	Label string // display label shown in the language dropdown
	STT   string // locale tag for speech recognition
	TTS   string // locale tag for speech synthesis
}

var table = map[Code]Locale{
	English: {Label: "English", STT: "en-IN", TTS: "en-IN"},
	Hindi:   {Label: "हिंदी", STT: "hi-IN", TTS: "hi-IN"},
	Tamil:   {Label: "தமிழ்", STT: "ta-IN", TTS: "ta-IN"},
}

// All lists the supported codes in a stable order.
func All() []Code {
	return []Code{English, Hindi, Tamil}
}

// IsSupported reports whether c names a language the widget knows.
func IsSupported(c Code) bool {
	_, ok := table[c]
	return ok
}

// LocaleFor returns the locale entry for c, falling back to the default
// language for unknown codes so callers never dereference a zero Locale.
func LocaleFor(c Code) Locale {
	if l, ok := table[c]; ok {
		return l
	}
	return table[Default]
}

// Normalize maps unknown codes onto the default language.
func Normalize(c Code) Code {
	if IsSupported(c) {
		return c
	}
	return Default
}
