package blocks

import "strings"

const (
	emphasisMarker = "**"
	bulletMarker   = "- "
)

// LineClass is the classification of a single trimmed input line.
type LineClass int

const (
	LineBlank LineClass = iota
	LineHeading
	LineBullet
	LineProse
)

// ClassifyLine classifies an already trimmed line by its prefix/suffix shape.
// Heading requires length >= 4 so that "**" alone, or "***", stays prose.
func ClassifyLine(line string) LineClass {
	switch {
	case line == "":
		return LineBlank
	case len(line) >= 2*len(emphasisMarker) &&
		strings.HasPrefix(line, emphasisMarker) &&
		strings.HasSuffix(line, emphasisMarker):
		return LineHeading
	case strings.HasPrefix(line, bulletMarker):
		return LineBullet
	default:
		return LineProse
	}
}

// Convert turns raw menu text into blocks, in source order.
//
// Prose lines accumulate into a pending paragraph which is flushed by a blank line,
// by a heading, or at end of input. Bullet lines are emitted immediately and do not
// flush pending prose, so a paragraph interrupted by bullets is emitted after them.
func Convert(text string) []Block {
	var (
		out     []Block
		pending []string
	)

	flush := func() {
		if len(pending) == 0 {
			return
		}
		out = append(out, Paragraph(strings.Join(pending, "\n")))
		pending = pending[:0]
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		switch ClassifyLine(line) {
		case LineBlank:
			flush()
		case LineHeading:
			flush()
			out = append(out, Heading(line[len(emphasisMarker):len(line)-len(emphasisMarker)]))
		case LineBullet:
			out = append(out, BulletItem(line[len(bulletMarker):]))
		case LineProse:
			pending = append(pending, line)
		}
	}
	flush()

	return out
}
