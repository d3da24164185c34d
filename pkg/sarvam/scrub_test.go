package sarvam

import (
	"strings"
	"testing"
)

func TestScrubReplyStripsMathDelimiters(t *testing.T) {
	got := ScrubReply(`The answer is \(x = 5\).`)
	if got != "The answer is x = 5." {
		t.Errorf("Expected math delimiters removed, got %q", got)
	}
}

func TestScrubReplyRewritesFractions(t *testing.T) {
	got := ScrubReply(`\frac{1}{2} of the total`)
	if got != "1/2 of the total" {
		t.Errorf("Expected fraction rewritten, got %q", got)
	}
}

func TestScrubReplyUnwrapsTextCommand(t *testing.T) {
	got := ScrubReply(`\text{velocity} is constant`)
	if got != "velocity is constant" {
		t.Errorf("Expected text command unwrapped, got %q", got)
	}
}

func TestScrubReplyLeavesPlainTextAlone(t *testing.T) {
	in := "Chennai is the capital of Tamil Nadu."
	if got := ScrubReply(in); got != in {
		t.Errorf("Plain text should pass through, got %q", got)
	}
}

func TestScrubForSpeechStripsMarkdown(t *testing.T) {
	got := ScrubForSpeech("**Bold** and *italic* and `code`")
	if got != "Bold and italic and" {
		t.Errorf("Expected markdown removed, got %q", got)
	}
}

func TestScrubForSpeechStripsHeadingsAndLists(t *testing.T) {
	got := ScrubForSpeech("## Steps\n- first\n- second")
	if strings.Contains(got, "#") || strings.Contains(got, "-") {
		t.Errorf("Headings and list markers should be gone, got %q", got)
	}
	if !strings.Contains(got, "first") || !strings.Contains(got, "second") {
		t.Errorf("List content should survive, got %q", got)
	}
}

func TestScrubForSpeechKeepsLinkText(t *testing.T) {
	got := ScrubForSpeech("See [the docs](https://example.com) for more")
	if got != "See the docs for more" {
		t.Errorf("Expected link text kept and URL dropped, got %q", got)
	}
}

func TestScrubForSpeechNewlinesBecomeSentenceBreaks(t *testing.T) {
	got := ScrubForSpeech("First paragraph.\n\nSecond paragraph.")
	if !strings.Contains(got, "First paragraph.. Second paragraph.") &&
		!strings.Contains(got, "First paragraph. Second paragraph.") {
		t.Errorf("Paragraph break should become a pause, got %q", got)
	}
	if strings.Contains(got, "\n") {
		t.Errorf("No newlines should survive, got %q", got)
	}
}

func TestScrubForSpeechAllMarkupScrubsToEmpty(t *testing.T) {
	if got := ScrubForSpeech("** ** `` ~~ ~~ ---"); got != "" {
		t.Errorf("Pure markup should scrub to empty, got %q", got)
	}
}
