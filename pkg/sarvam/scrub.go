package sarvam

import (
	"regexp"
	"strings"
)

// Model replies arrive with LaTeX and markdown residue that reads poorly as
// plain chat text and worse when spoken aloud. ScrubReply cleans what the
// chat bubble shows; ScrubForSpeech goes further for the synthesizer.

var (
	reMathDelims = regexp.MustCompile(`\\[()\[\]]`)
	reFrac       = regexp.MustCompile(`\\frac\{([^}]+)\}\{([^}]+)\}`)
	reTextCmd    = regexp.MustCompile(`\\text\{([^}]+)\}`)

	reCodeSpan   = regexp.MustCompile("`{1,3}[^`]*`{1,3}")
	reHeading    = regexp.MustCompile(`(?m)^#{1,6}\s*`)
	reLink       = regexp.MustCompile(`!?\[([^\]]*)\]\([^)]+\)`)
	reBlockquote = regexp.MustCompile(`(?m)^>\s*`)
	reListMarker = regexp.MustCompile(`(?m)^[-*+]\s+`)
	reOrderedLi  = regexp.MustCompile(`(?m)^\d+\.\s+`)
	reBullets    = regexp.MustCompile(`[•●○■□▪▫]`)
	reDashes     = regexp.MustCompile(`[-–—]`)
	reParaBreak  = regexp.MustCompile(`\n{2,}`)
	reSpaces     = regexp.MustCompile(`\s{2,}`)
)

// ScrubReply strips inline-math delimiters and escape artifacts from an
// extracted reply before it is shown or stored.
func ScrubReply(reply string) string {
	out := reMathDelims.ReplaceAllString(reply, "")
	out = reFrac.ReplaceAllString(out, "$1/$2")
	out = reTextCmd.ReplaceAllString(out, "$1")
	out = strings.ReplaceAll(out, `\\`, "")
	out = strings.ReplaceAll(out, `\`, "")
	return strings.TrimSpace(out)
}

// ScrubForSpeech removes markdown emphasis, headings, code, links, list and
// table formatting, and collapses newlines into sentence breaks so the
// synthesizer doesn't vocalize markup. An all-markup input scrubs to "".
func ScrubForSpeech(text string) string {
	out := text
	for _, tok := range []string{"***", "**", "*", "___", "__", "_", "~~~", "~~"} {
		out = strings.ReplaceAll(out, tok, "")
	}
	out = reCodeSpan.ReplaceAllString(out, "")
	out = strings.ReplaceAll(out, "`", "")
	out = reHeading.ReplaceAllString(out, "")
	out = reLink.ReplaceAllString(out, "$1")
	out = reBlockquote.ReplaceAllString(out, "")
	out = reListMarker.ReplaceAllString(out, "")
	out = reOrderedLi.ReplaceAllString(out, "")
	out = reBullets.ReplaceAllString(out, "")
	out = reDashes.ReplaceAllString(out, " ")
	out = strings.ReplaceAll(out, "<", "")
	out = strings.ReplaceAll(out, ">", "")
	out = strings.ReplaceAll(out, "|", " ")
	out = strings.ReplaceAll(out, `\`, "")
	out = reParaBreak.ReplaceAllString(out, ". ")
	out = strings.ReplaceAll(out, "\n", ", ")
	out = reSpaces.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}
