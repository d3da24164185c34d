package sarvam

// The vendor's response shape has drifted across API revisions, so replies
// are sniffed from a small, ordered list of known field paths instead of one
// schema. This is a compatibility shim over an unversioned contract; keep
// the list short.

type replyExtractor struct {
	name string
	fn   func(map[string]any) string
}

var replyExtractors = []replyExtractor{
	{"choices[0].message.content", func(m map[string]any) string {
		choices, _ := m["choices"].([]any)
		if len(choices) == 0 {
			return ""
		}
		first, _ := choices[0].(map[string]any)
		msg, _ := first["message"].(map[string]any)
		s, _ := msg["content"].(string)
		return s
	}},
	{"message.content", func(m map[string]any) string {
		msg, _ := m["message"].(map[string]any)
		s, _ := msg["content"].(string)
		return s
	}},
	{"response", stringField("response")},
	{"translated_text", stringField("translated_text")},
	{"text", stringField("text")},
}

// audio payload field candidates, same drift story as replies
var audioExtractors = []replyExtractor{
	{"audios[0]", func(m map[string]any) string {
		audios, _ := m["audios"].([]any)
		if len(audios) == 0 {
			return ""
		}
		s, _ := audios[0].(string)
		return s
	}},
	{"audioContent", stringField("audioContent")},
	{"audio_content", stringField("audio_content")},
	{"audio", stringField("audio")},
	{"data", stringField("data")},
}

var transcriptExtractors = []replyExtractor{
	{"transcript", stringField("transcript")},
	{"text", stringField("text")},
	{"transcription", stringField("transcription")},
	{"result", stringField("result")},
	{"data", stringField("data")},
}

func stringField(key string) func(map[string]any) string {
	return func(m map[string]any) string {
		s, _ := m[key].(string)
		return s
	}
}

// firstMatch runs the extractors in priority order and returns the first
// non-empty hit.
func firstMatch(extractors []replyExtractor, payload map[string]any) (string, string) {
	for _, ex := range extractors {
		if v := ex.fn(payload); v != "" {
			return v, ex.name
		}
	}
	return "", ""
}
