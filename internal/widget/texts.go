package widget

import (
	"fmt"

	"github.com/Sweta1G/chat-widget/internal/languages"
	"github.com/Sweta1G/chat-widget/pkg/voice/input"
)

// Every user-visible notice is a bot-authored chat message in the current
// language; raw errors never reach the transcript.

var welcomeTemplates = map[languages.Code]string{
	languages.English: "Hi! I'm %s. How can I help you today?",
	languages.Hindi:   "नमस्ते! मैं %s हूं। आज मैं आपकी कैसे मदद कर सकता हूं?",
	languages.Tamil:   "வணக்கம்! நான் %s. இன்று நான் உங்களுக்கு எப்படி உதவ முடியும்?",
}

func welcomeText(agentName string, lang languages.Code) string {
	tmpl, ok := welcomeTemplates[lang]
	if !ok {
		tmpl = welcomeTemplates[languages.English]
	}
	return fmt.Sprintf(tmpl, agentName)
}

var thinkingTexts = map[languages.Code]string{
	languages.English: "Thinking...",
	languages.Hindi:   "सोच रहा हूं...",
	languages.Tamil:   "யோசிக்கிறேன்...",
}

func thinkingText(lang languages.Code) string {
	if s, ok := thinkingTexts[lang]; ok {
		return s
	}
	return thinkingTexts[languages.English]
}

var switchedTemplates = map[languages.Code]string{
	languages.English: "Language switched to %s",
	languages.Hindi:   "भाषा बदलकर %s कर दी गई है",
	languages.Tamil:   "மொழி %s ஆக மாற்றப்பட்டது",
}

func languageSwitchedText(lang languages.Code) string {
	tmpl, ok := switchedTemplates[lang]
	if !ok {
		tmpl = switchedTemplates[languages.English]
	}
	return fmt.Sprintf(tmpl, languages.LocaleFor(lang).Label)
}

var sendFailureTexts = map[languages.Code]string{
	languages.English: "Sorry, something went wrong. Please try again.",
	languages.Hindi:   "क्षमा करें, कुछ गलत हो गया। कृपया फिर से प्रयास करें।",
	languages.Tamil:   "மன்னிக்கவும், ஏதோ தவறு நடந்தது. மீண்டும் முயற்சிக்கவும்.",
}

func sendFailureText(lang languages.Code) string {
	if s, ok := sendFailureTexts[lang]; ok {
		return s
	}
	return sendFailureTexts[languages.English]
}

var voiceUnsupportedTexts = map[languages.Code]string{
	languages.English: "Voice input is not available right now. Please type your message instead.",
	languages.Hindi:   "वॉयस इनपुट अभी उपलब्ध नहीं है। कृपया अपना संदेश टाइप करें।",
	languages.Tamil:   "குரல் உள்ளீடு தற்போது கிடைக்கவில்லை. உங்கள் செய்தியை தட்டச்சு செய்யவும்.",
}

func voiceUnsupportedText(lang languages.Code) string {
	if s, ok := voiceUnsupportedTexts[lang]; ok {
		return s
	}
	return voiceUnsupportedTexts[languages.English]
}

var captureErrorTexts = map[input.ErrorKind]map[languages.Code]string{
	input.KindPermissionDenied: {
		languages.English: "Microphone access denied. Please allow microphone permission in browser settings.",
		languages.Hindi:   "माइक्रोफ़ोन की अनुमति नहीं दी गई। कृपया ब्राउज़र सेटिंग्स में माइक्रोफ़ोन को अनुमति दें।",
		languages.Tamil:   "மைக்ரோஃபோன் அனுமதி மறுக்கப்பட்டது. உலாவி அமைப்புகளில் மைக்ரோஃபோன் அனுமதியை வழங்கவும்.",
	},
	input.KindNoSpeech: {
		languages.English: "No speech detected. Please try again.",
		languages.Hindi:   "कोई आवाज़ नहीं सुनाई दी। कृपया फिर से प्रयास करें।",
		languages.Tamil:   "குரல் கேட்கவில்லை. மீண்டும் முயற்சிக்கவும்.",
	},
	input.KindNetwork: {
		languages.English: "Network error. Please check your internet connection.",
		languages.Hindi:   "नेटवर्क त्रुटि। कृपया अपना इंटरनेट कनेक्शन जांचें।",
		languages.Tamil:   "நெட்வொர்க் பிழை. உங்கள் இணைய இணைப்பை சரிபார்க்கவும்.",
	},
	input.KindOther: {
		languages.English: "Voice recognition error. Please try again.",
		languages.Hindi:   "वॉयस पहचान त्रुटि। कृपया फिर से प्रयास करें।",
		languages.Tamil:   "குரல் அடையாள பிழை. மீண்டும் முயற்சிக்கவும்.",
	},
}

func captureErrorText(kind input.ErrorKind, lang languages.Code) string {
	byLang, ok := captureErrorTexts[kind]
	if !ok {
		byLang = captureErrorTexts[input.KindOther]
	}
	if s, ok := byLang[lang]; ok {
		return s
	}
	return byLang[languages.English]
}
