package caption

import (
	"testing"
)

func TestParseTranscript(t *testing.T) {
	blob := `1
00:00:01,000 --> 00:00:04,000
Hello, world!

2
00:00:05,500 --> 00:00:08,200
This is a test.
With multiple lines.

3
00:00:10,000 --> 00:00:12,500
Final subtitle.
`

	captions := ParseTranscript(blob)
	if len(captions) != 3 {
		t.Fatalf("expected 3 captions, got %d", len(captions))
	}

	for i, c := range captions {
		if c.ID != int64(i+1) {
			t.Errorf("caption %d: expected sequential id %d, got %d", i, i+1, c.ID)
		}
	}

	if captions[0].StartTime != "00:00:01,000" || captions[0].EndTime != "00:00:04,000" {
		t.Errorf("caption 0: unexpected times %s - %s", captions[0].StartTime, captions[0].EndTime)
	}
	if captions[0].Text != "Hello, world!" {
		t.Errorf("caption 0: expected 'Hello, world!', got %q", captions[0].Text)
	}

	expected := "This is a test.\nWith multiple lines."
	if captions[1].Text != expected {
		t.Errorf("caption 1: expected %q, got %q", expected, captions[1].Text)
	}
}

func TestParseTranscriptSkipsMalformedBlocks(t *testing.T) {
	// a two-line block is dropped without affecting its neighbors
	blob := `1
00:00:01,000 --> 00:00:02,000
First.

2
00:00:03,000 --> 00:00:04,000

3
00:00:05,000 --> 00:00:06,000
Third.
`

	captions := ParseTranscript(blob)
	if len(captions) != 2 {
		t.Fatalf("expected 2 captions, got %d", len(captions))
	}
	if captions[0].Text != "First." || captions[1].Text != "Third." {
		t.Errorf("unexpected texts: %q, %q", captions[0].Text, captions[1].Text)
	}
	if captions[0].ID != 1 || captions[1].ID != 2 {
		t.Errorf("expected ids 1 and 2, got %d and %d", captions[0].ID, captions[1].ID)
	}
}

func TestParseTranscriptSkipsBadTimeRange(t *testing.T) {
	blob := `1
not a time range
Some text.

2
00:00:01,000 --> 00:00:02,000
Valid.
`

	captions := ParseTranscript(blob)
	if len(captions) != 1 {
		t.Fatalf("expected 1 caption, got %d", len(captions))
	}
	if captions[0].Text != "Valid." {
		t.Errorf("expected 'Valid.', got %q", captions[0].Text)
	}
}

func TestParseTranscriptEmptyInput(t *testing.T) {
	for _, blob := range []string{"", "   \n\n  ", "garbage"} {
		if got := ParseTranscript(blob); len(got) != 0 {
			t.Errorf("expected no captions for %q, got %d", blob, len(got))
		}
	}
}

func TestParseTranscriptTrimsTimeFields(t *testing.T) {
	blob := "1\n  00:00:01,000  -->  00:00:02,000  \nPadded times.\n"

	captions := ParseTranscript(blob)
	if len(captions) != 1 {
		t.Fatalf("expected 1 caption, got %d", len(captions))
	}
	if captions[0].StartTime != "00:00:01,000" {
		t.Errorf("start time not trimmed: %q", captions[0].StartTime)
	}
	if captions[0].EndTime != "00:00:02,000" {
		t.Errorf("end time not trimmed: %q", captions[0].EndTime)
	}
}

func TestParseTranscriptStripsByteOrderMark(t *testing.T) {
	blob := "\uFEFF1\n00:00:01,000 --> 00:00:02,000\nMarked file.\n"

	captions := ParseTranscript(blob)
	if len(captions) != 1 {
		t.Fatalf("expected 1 caption, got %d", len(captions))
	}
	if captions[0].Text != "Marked file." {
		t.Errorf("unexpected text %q", captions[0].Text)
	}
}

func TestParseTranscriptCRLF(t *testing.T) {
	blob := "1\r\n00:00:01,000 --> 00:00:02,000\r\nWindows line endings.\r\n"

	captions := ParseTranscript(blob)
	if len(captions) != 1 {
		t.Fatalf("expected 1 caption, got %d", len(captions))
	}
	if captions[0].Text != "Windows line endings." {
		t.Errorf("unexpected text %q", captions[0].Text)
	}
}
