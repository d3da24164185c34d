package sarvam

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Sweta1G/chat-widget/internal/languages"
)

// Offline behavior. Without a credential the widget answers with a clearly
// labeled demo string; with a credential but no reachable backend it answers
// from a small rule table so the conversation never dead-ends on a raw error.

var demoReplies = map[languages.Code]string{
	languages.English: `Thank you for your message: "%s". This is a mock response. To enable real AI responses, please add your Sarvam API key.`,
	languages.Hindi:   `आपके संदेश के लिए धन्यवाद: "%s"। यह एक नमूना प्रतिक्रिया है। वास्तविक AI प्रतिक्रियाओं को सक्षम करने के लिए, कृपया अपनी Sarvam API key जोड़ें।`,
	languages.Tamil:   `உங்கள் செய்திக்கு நன்றி: "%s". இது ஒரு மாதிரி பதில். உண்மையான AI பதில்களை இயக்க, தயவுசெய்து உங்கள் Sarvam API விசையைச் சேர்க்கவும்.`,
}

// DemoReply is the no-credential response. It embeds the prompt verbatim so
// the degraded mode is obvious to whoever is testing the page.
func DemoReply(prompt string, lang languages.Code) string {
	tmpl, ok := demoReplies[lang]
	if !ok {
		tmpl = demoReplies[languages.English]
	}
	return fmt.Sprintf(tmpl, prompt)
}

type fallbackRule struct {
	name    string
	pattern *regexp.Regexp
	reply   func(lang languages.Code, now time.Time) string
}

func canned(byLang map[languages.Code]string) func(languages.Code, time.Time) string {
	return func(lang languages.Code, _ time.Time) string {
		if s, ok := byLang[lang]; ok {
			return s
		}
		return byLang[languages.English]
	}
}

var fallbackRules = []fallbackRule{
	{
		name:    "greeting",
		pattern: regexp.MustCompile(`^(hi|hello|hey|namaste|வணக்கம்|नमस्ते)`),
		reply: canned(map[languages.Code]string{
			languages.English: "Hello! I'm SarvamBot. I'm currently in offline mode, but I can still help with basic questions. How can I assist you?",
			languages.Hindi:   "नमस्ते! मैं SarvamBot हूं। मैं वर्तमान में ऑफ़लाइन मोड में हूं, लेकिन फिर भी बुनियादी सवालों में मदद कर सकता हूं। मैं आपकी कैसे मदद कर सकता हूं?",
			languages.Tamil:   "வணக்கம்! நான் SarvamBot. நான் தற்போது ஆஃப்லைன் பயன்முறையில் இருக்கிறேன், ஆனால் அடிப்படை கேள்விகளுக்கு இன்னும் உதவ முடியும். நான் உங்களுக்கு எப்படி உதவ முடியும்?",
		}),
	},
	{
		name:    "identity",
		pattern: regexp.MustCompile(`(who|what|naam|பெயர்|नाम).*(you|are|तुम|நீ)`),
		reply: canned(map[languages.Code]string{
			languages.English: "I'm SarvamBot, an AI assistant created by Sarvam AI. I can communicate in English, Hindi, and Tamil. I'm designed to help answer questions and have conversations.",
			languages.Hindi:   "मैं SarvamBot हूं, Sarvam AI द्वारा बनाया गया एक AI सहायक। मैं अंग्रेजी, हिंदी और तमिल में संवाद कर सकता हूं। मैं सवालों के जवाब देने और बातचीत करने में मदद के लिए डिज़ाइन किया गया हूं।",
			languages.Tamil:   "நான் SarvamBot, Sarvam AI ஆல் உருவாக்கப்பட்ட ஒரு AI உதவியாளர். நான் ஆங்கிலம், இந்தி மற்றும் தமிழில் தொடர்பு கொள்ள முடியும்.",
		}),
	},
	{
		name:    "capability",
		pattern: regexp.MustCompile(`(can you|help|capability|क्या.*सकते|திறன்|உதவி)`),
		reply: canned(map[languages.Code]string{
			languages.English: "I can help you with answering questions, having conversations in multiple languages, providing information on various topics, and translating between English, Hindi, and Tamil. Note: I'm currently in offline mode. For full AI capabilities, please ensure the Sarvam API is properly configured.",
			languages.Hindi:   "मैं सवालों के जवाब देने, कई भाषाओं में बातचीत करने, विभिन्न विषयों पर जानकारी प्रदान करने और अंग्रेजी, हिंदी और तमिल के बीच अनुवाद करने में आपकी मदद कर सकता हूं। नोट: मैं वर्तमान में ऑफ़लाइन मोड में हूं।",
			languages.Tamil:   "கேள்விகளுக்கு பதிலளித்தல், பல மொழிகளில் உரையாடல்கள், பல்வேறு தலைப்புகளில் தகவல் வழங்குதல் ஆகியவற்றில் நான் உதவ முடியும். குறிப்பு: நான் தற்போது ஆஃப்லைன் பயன்முறையில் இருக்கிறேன்.",
		}),
	},
	{
		name:    "weather",
		pattern: regexp.MustCompile(`(weather|मौसम|வானிலை)`),
		reply: canned(map[languages.Code]string{
			languages.English: "I apologize, but I don't have access to real-time weather data in offline mode. For accurate weather information, please check a weather service or wait until the API connection is restored.",
			languages.Hindi:   "मुझे खेद है, लेकिन ऑफ़लाइन मोड में मेरे पास वास्तविक समय के मौसम डेटा तक पहुंच नहीं है। सटीक मौसम की जानकारी के लिए, कृपया किसी मौसम सेवा की जांच करें।",
			languages.Tamil:   "மன்னிக்கவும், ஆஃப்லைன் பயன்முறையில் எனக்கு நேரடி வானிலை தரவு அணுகல் இல்லை. துல்லியமான வானிலை தகவலுக்கு, தயவுசெய்து வானிலை சேவையை சரிபார்க்கவும்.",
		}),
	},
	{
		name:    "time",
		pattern: regexp.MustCompile(`(time|date|समय|तारीख|நேரம்|தேதி)`),
		reply: func(lang languages.Code, now time.Time) string {
			clock := now.Format("3:04 PM")
			date := now.Format("2 January 2006")
			switch lang {
			case languages.Hindi:
				return fmt.Sprintf("वर्तमान समय %s है। तारीख %s है।", clock, date)
			case languages.Tamil:
				return fmt.Sprintf("தற்போதைய நேரம் %s. தேதி %s.", clock, date)
			default:
				return fmt.Sprintf("The current time is %s. The date is %s.", clock, date)
			}
		},
	},
	{
		name:    "thanks",
		pattern: regexp.MustCompile(`(thank|धन्यवाद|நன்றி)`),
		reply: canned(map[languages.Code]string{
			languages.English: "You're welcome! Is there anything else I can help you with?",
			languages.Hindi:   "आपका स्वागत है! क्या कुछ और है जिसमें मैं आपकी मदद कर सकता हूं?",
			languages.Tamil:   "வரவேற்கிறோம்! வேறு ஏதாவது நான் உதவ முடியுமா?",
		}),
	},
}

var offlineDefaults = map[languages.Code]string{
	languages.English: `I understand you asked: "%s". I'm currently in offline mode and cannot access the full AI capabilities. However, I can help with basic conversations, language information, and time and date. For complex questions, please verify your Sarvam API configuration.`,
	languages.Hindi:   `मैं समझता हूं कि आपने पूछा: "%s"। मैं वर्तमान में ऑफ़लाइन मोड में हूं और पूर्ण AI क्षमताओं तक पहुंच नहीं सकता। हालांकि, मैं बुनियादी बातचीत, भाषा जानकारी, और समय और तारीख में मदद कर सकता हूं। कृपया अपने Sarvam API कॉन्फ़िगरेशन को सत्यापित करें।`,
	languages.Tamil:   `நீங்கள் கேட்டது எனக்குப் புரிகிறது: "%s". நான் தற்போது ஆஃப்லைன் பயன்முறையில் இருக்கிறேன் மற்றும் முழு AI திறன்களை அணுக முடியாது. உங்கள் Sarvam API உள்ளமைவை சரிபார்க்கவும்.`,
}

// OfflineReply pattern-matches the prompt against the rule table and returns
// the canned answer for the first hit; with no hit it returns a generic
// offline explanation in the requested language embedding the prompt.
func OfflineReply(prompt string, lang languages.Code, now time.Time) string {
	lower := strings.ToLower(prompt)
	for _, rule := range fallbackRules {
		if rule.pattern.MatchString(lower) {
			return rule.reply(lang, now)
		}
	}
	tmpl, ok := offlineDefaults[lang]
	if !ok {
		tmpl = offlineDefaults[languages.English]
	}
	return fmt.Sprintf(tmpl, prompt)
}
