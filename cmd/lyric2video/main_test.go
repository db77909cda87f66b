package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ivlev/lyric2video/internal/fade"
	"github.com/ivlev/lyric2video/internal/timeline"
)

var lines = []timeline.Event{
	{Text: "a", Start: 1, End: 2},
	{Text: "b", Start: 2, End: 5},
}

func TestSnapshotFrameRegimes(t *testing.T) {
	f := snapshotFrame(lines, 2.0, false)
	if f.Event == nil || f.Event.Text != "b" {
		t.Fatalf("export lookup at a shared boundary should pick the next line, got %+v", f.Event)
	}
	if *f.Envelope != fade.Export(2, 5, 2.0) {
		t.Errorf("export envelope %+v", *f.Envelope)
	}

	f = snapshotFrame(lines, 4.8, true)
	if f.Event == nil || f.Event.Text != "b" {
		t.Fatalf("preview lookup failed: %+v", f.Event)
	}
	if *f.Envelope != fade.Preview(2, 5, 4.8) {
		t.Errorf("preview envelope %+v", *f.Envelope)
	}

	if f := snapshotFrame(lines, 0.5, false); f.Event != nil || f.Envelope != nil {
		t.Error("no line should be active before the first one")
	}
}

func TestLyricsEnd(t *testing.T) {
	if got := lyricsEnd(lines); got != 6 {
		t.Errorf("lyricsEnd = %v, want 6", got)
	}
	if got := lyricsEnd(nil); got != 0 {
		t.Errorf("lyricsEnd(nil) = %v", got)
	}
}

func TestNames(t *testing.T) {
	if got := subtitleName("Hey  Jude"); got != "Hey_Jude.srt" {
		t.Errorf("subtitleName = %s", got)
	}
	if got := formatClock(83.47); got != "01:23.4" {
		t.Errorf("formatClock = %s", got)
	}
	if got := opacityBar(0.5, 4); got != "[##..]" {
		t.Errorf("opacityBar = %s", got)
	}
	if got := firstNonEmpty("", "x", "y"); got != "x" {
		t.Errorf("firstNonEmpty = %s", got)
	}
}

func TestMakeDirs(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "file")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatal(err)
	}
	good := filepath.Join(root, "a", "b")

	if err := makeDirs(filepath.Join(file, "sub"), good); err == nil {
		t.Error("a dir under a regular file should fail")
	}
	if fi, err := os.Stat(good); err != nil || !fi.IsDir() {
		t.Errorf("valid dir must still be created: %v", err)
	}
	if err := makeDirs(good); err != nil {
		t.Errorf("existing dir: %v", err)
	}
}
