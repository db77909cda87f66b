package subtitle

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/ivlev/lyric2video/internal/timeline"
)

func TestFormatSRTSingle(t *testing.T) {
	got := FormatSRT([]timeline.Event{{Text: "Hello", Start: 1.0, End: 2.5}})
	want := "1\r\n00:00:01,000 --> 00:00:02,500\r\nHello"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatSRTMultiple(t *testing.T) {
	got := FormatSRT([]timeline.Event{
		{Text: "One", Start: 0, End: 1.2345},
		{Text: "Two\nlines", Start: 3661.5, End: 3662},
	})
	want := "1\r\n00:00:00,000 --> 00:00:01,235\r\nOne\r\n\r\n" +
		"2\r\n01:01:01,500 --> 01:01:02,000\r\nTwo\r\nlines"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		sec  float64
		want string
	}{
		{0, "00:00:00,000"},
		{59.9999, "00:01:00,000"},
		{83.04, "00:01:23,040"},
		{-3, "00:00:00,000"},
	}
	for _, tt := range tests {
		if got := FormatTime(tt.sec); got != tt.want {
			t.Errorf("FormatTime(%v) = %s, want %s", tt.sec, got, tt.want)
		}
	}
}

func TestSRTRoundTrip(t *testing.T) {
	srt := FormatSRT([]timeline.Event{{Text: "Hello", Start: 1.0, End: 2.5}})
	events, err := ParseSRT(srt)
	if err != nil {
		t.Fatalf("ParseSRT failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	e := events[0]
	if e.Text != "Hello" || math.Abs(e.Start-1.0) > 0.001 || math.Abs(e.End-2.5) > 0.001 {
		t.Errorf("round trip mismatch: %+v", e)
	}
}

func TestParseSRTVariants(t *testing.T) {
	input := "\uFEFF1\n00:00:01,000 --> 00:00:02,000\nfirst\nline\n\n\n" +
		"00:00:03.5 --> 00:00:04.25\nno index\n\n" +
		"3\r\n00:00:05,000 --> 00:00:06,000 X1:10\r\nthird\r\n"

	events, err := ParseSRT(input)
	if err != nil {
		t.Fatalf("ParseSRT failed: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d: %+v", len(events), events)
	}
	if events[0].Text != "first\nline" {
		t.Errorf("multi-line text = %q", events[0].Text)
	}
	if events[1].Start != 3.5 || events[1].End != 4.25 {
		t.Errorf("dot separator times = %v..%v", events[1].Start, events[1].End)
	}
	if events[2].Text != "third" {
		t.Errorf("third text = %q", events[2].Text)
	}
}

func TestParseSRTMalformed(t *testing.T) {
	bad := []string{
		"1\nnot a time\ntext",
		"abc\n00:00:01,000 --> 00:00:02,000\ntext",
		"1\n00:00:03,000 --> 00:00:02,000\ntext",
		"1",
	}
	for _, in := range bad {
		if _, err := ParseSRT(in); !errors.Is(err, ErrMalformed) {
			t.Errorf("ParseSRT(%q) error = %v, want ErrMalformed", in, err)
		}
	}
}

func TestWriteReadSRT(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.srt")
	events := []timeline.Event{
		{Text: "a", Start: 0.5, End: 1},
		{Text: "b", Start: 2, End: 3.75},
	}
	if err := WriteSRT(events, path); err != nil {
		t.Fatal(err)
	}
	got, err := ReadSRT(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[1] != events[1] {
		t.Errorf("got %+v", got)
	}
}
