package message

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestPreview_AttachmentLabels(t *testing.T) {
	cases := []struct {
		msgType  Type
		fileName string
		want     string
	}{
		{TypeImage, "photo.png", "📷 Image"},
		{TypeVoice, "", "🎤 Voice message"},
		{TypeFile, "report.pdf", "📎 report.pdf"},
		{TypeFile, "", "📎 File"},
	}
	for _, c := range cases {
		if got := Preview(c.msgType, "ignored", c.fileName, 100); got != c.want {
			t.Errorf("Preview(%s, %q) = %q, want %q", c.msgType, c.fileName, got, c.want)
		}
	}
}

func TestPreview_TextPassthrough(t *testing.T) {
	if got := Preview(TypeText, "kickoff at 9am", "", 100); got != "kickoff at 9am" {
		t.Errorf("Expected text unchanged, got %q", got)
	}
}

func TestPreview_TruncatesByRunes(t *testing.T) {
	long := strings.Repeat("ü", 120)
	got := Preview(TypeText, long, "", 100)
	if utf8.RuneCountInString(got) != 100 {
		t.Errorf("Expected 100 runes, got %d", utf8.RuneCountInString(got))
	}
	if !utf8.ValidString(got) {
		t.Error("Truncation produced invalid UTF-8")
	}
	if !strings.HasPrefix(long, got) {
		t.Error("Truncated preview is not a prefix of the original")
	}
}

func TestPreview_ExactLimitNotTruncated(t *testing.T) {
	exact := strings.Repeat("a", 100)
	if got := Preview(TypeText, exact, "", 100); got != exact {
		t.Errorf("Expected no truncation at the limit, got %d runes", utf8.RuneCountInString(got))
	}
}
