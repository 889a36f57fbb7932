package sector

import (
	"strings"
	"unicode/utf8"
)

// DescriptionWidth is the column width descriptions are wrapped to.
const DescriptionWidth = 50

// Wrapped holds a description split into display lines.
type Wrapped struct {
	Lines    []string
	Markdown string // lines joined with "\n"
	HTML     string // lines joined with "<br>"
}

// Wrap greedily fills lines of at most width runes. Runs of whitespace
// collapse to single spaces. A word longer than width is left whole on its
// own line, so strings.Join(lines, " ") equals strings.Join(strings.Fields(text), " ").
func Wrap(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if width < 1 {
		width = 1
	}

	var (
		lines []string
		cur   strings.Builder
		n     int
	)
	for _, w := range words {
		wn := utf8.RuneCountInString(w)
		if n > 0 && n+1+wn > width {
			lines = append(lines, cur.String())
			cur.Reset()
			n = 0
		}
		if n > 0 {
			cur.WriteByte(' ')
			n++
		}
		cur.WriteString(w)
		n += wn
	}
	lines = append(lines, cur.String())
	return lines
}

// WrapDescription wraps text at DescriptionWidth. The HTML form is not
// escaped; renderers escape at output time.
func WrapDescription(text string) Wrapped {
	lines := Wrap(text, DescriptionWidth)
	return Wrapped{
		Lines:    lines,
		Markdown: strings.Join(lines, "\n"),
		HTML:     strings.Join(lines, "<br>"),
	}
}
