package extract

import (
	"regexp"
	"strings"
)

var (
	reCRLF       = regexp.MustCompile(`\r\n?`)
	reTabs       = regexp.MustCompile(`\t+`)
	reMultiSpace = regexp.MustCompile(` {2,}`)
)

// Lines is OCR text split into trimmed, non-empty lines in reading order.
// Position matters to every extractor, so it is never re-sorted.
type Lines []string

// NewLines normalizes line endings and whitespace, then drops blank lines
func NewLines(text string) Lines {
	if text == "" {
		return nil
	}
	text = reCRLF.ReplaceAllString(text, "\n")
	text = reTabs.ReplaceAllString(text, " ")

	var lines Lines
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(reMultiSpace.ReplaceAllString(line, " "))
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// window returns the inclusive bounds of the lines within radius of i
func (l Lines) window(i, radius int) (int, int) {
	start := i - radius
	if start < 0 {
		start = 0
	}
	end := i + radius
	if end > len(l)-1 {
		end = len(l) - 1
	}
	return start, end
}
