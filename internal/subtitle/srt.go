package subtitle

import (
	"errors"
	"fmt"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/ivlev/lyric2video/internal/timeline"
)

// ErrMalformed is wrapped by every ParseSRT error.
var ErrMalformed = errors.New("некорректный SRT")

var timeRegex = regexp.MustCompile(`^(\d{1,2}):(\d{2}):(\d{2})[,.](\d{1,3})\s*-->\s*(\d{1,2}):(\d{2}):(\d{2})[,.](\d{1,3})`)

// FormatTime renders seconds as HH:MM:SS,mmm.
func FormatTime(sec float64) string {
	if sec < 0 {
		sec = 0
	}
	ms := int64(math.Round(sec * 1000))
	h := ms / 3600000
	m := (ms % 3600000) / 60000
	s := (ms % 60000) / 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms%1000)
}

// FormatSRT serialises events with CRLF line endings and 1-based indices.
// Blocks are separated by one blank line; there is no trailing separator.
func FormatSRT(events []timeline.Event) string {
	blocks := make([]string, 0, len(events))
	for i, e := range events {
		text := strings.ReplaceAll(strings.ReplaceAll(e.Text, "\r\n", "\n"), "\n", "\r\n")
		blocks = append(blocks, fmt.Sprintf("%d\r\n%s --> %s\r\n%s", i+1, FormatTime(e.Start), FormatTime(e.End), text))
	}
	return strings.Join(blocks, "\r\n\r\n")
}

// WriteSRT writes FormatSRT output to path.
func WriteSRT(events []timeline.Event, path string) error {
	return os.WriteFile(path, []byte(FormatSRT(events)), 0644)
}

// ParseSRT reads SRT text with either LF or CRLF line endings. Cue numbers
// are optional; multi-line cue text is joined with "\n".
func ParseSRT(data string) ([]timeline.Event, error) {
	data = strings.TrimPrefix(data, "\uFEFF")
	data = strings.ReplaceAll(data, "\r\n", "\n")
	data = strings.ReplaceAll(data, "\r", "\n")

	var events []timeline.Event
	var block []string
	blockNum := 0

	flush := func() error {
		if len(block) == 0 {
			return nil
		}
		blockNum++
		e, err := parseBlock(block)
		block = block[:0]
		if err != nil {
			return fmt.Errorf("%w: блок %d: %v", ErrMalformed, blockNum, err)
		}
		events = append(events, e)
		return nil
	}

	for _, line := range strings.Split(data, "\n") {
		if strings.TrimSpace(line) == "" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		block = append(block, line)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return events, nil
}

// ReadSRT parses an SRT file.
func ReadSRT(path string) ([]timeline.Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSRT(string(data))
}

func parseBlock(lines []string) (timeline.Event, error) {
	i := 0
	if !timeRegex.MatchString(strings.TrimSpace(lines[0])) {
		if _, err := strconv.Atoi(strings.TrimSpace(lines[0])); err != nil {
			return timeline.Event{}, fmt.Errorf("ожидался номер, получено %q", lines[0])
		}
		i = 1
	}
	if i >= len(lines) {
		return timeline.Event{}, errors.New("нет строки времени")
	}

	m := timeRegex.FindStringSubmatch(strings.TrimSpace(lines[i]))
	if m == nil {
		return timeline.Event{}, fmt.Errorf("некорректная строка времени %q", lines[i])
	}

	start := clockSeconds(m[1], m[2], m[3], m[4])
	end := clockSeconds(m[5], m[6], m[7], m[8])
	if end < start {
		return timeline.Event{}, fmt.Errorf("конец %s раньше начала %s", FormatTime(end), FormatTime(start))
	}

	text := make([]string, 0, len(lines)-i-1)
	for _, l := range lines[i+1:] {
		text = append(text, strings.TrimRight(l, " \t"))
	}
	return timeline.Event{Text: strings.Join(text, "\n"), Start: start, End: end}, nil
}

func clockSeconds(h, m, s, frac string) float64 {
	hh, _ := strconv.Atoi(h)
	mm, _ := strconv.Atoi(m)
	ss, _ := strconv.Atoi(s)
	// "5" after the comma is 500 ms, as most players read it.
	for len(frac) < 3 {
		frac += "0"
	}
	ms, _ := strconv.Atoi(frac)
	return float64(hh*3600+mm*60+ss) + float64(ms)/1000
}
