package blocks

import "strings"

const (
	dividerMarker = "---"
	titleMarker   = "## "
)

// Render writes blocks back to the markdown shape Convert reads.
// Every paragraph is followed by a blank line so that Convert(Render(bs)) returns bs
// for any sequence produced by Convert.
func Render(bs []Block) string {
	var sb strings.Builder
	for _, b := range bs {
		switch b.Kind {
		case KindHeading:
			sb.WriteString(emphasisMarker + b.Text + emphasisMarker + "\n")
		case KindBulletItem:
			sb.WriteString(bulletMarker + b.Text + "\n")
		case KindParagraph:
			sb.WriteString(b.Text + "\n\n")
		case KindDivider:
			sb.WriteString(dividerMarker + "\n")
		case KindTitle:
			sb.WriteString(titleMarker + b.Text + "\n\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

// PlainText returns the block texts joined by newline, markers dropped.
// Used for notification previews.
func PlainText(bs []Block) string {
	lines := make([]string, 0, len(bs))
	for _, b := range bs {
		if b.Kind == KindDivider {
			continue
		}
		if b.Kind == KindBulletItem {
			lines = append(lines, "• "+b.Text)
			continue
		}
		lines = append(lines, b.Text)
	}
	return strings.Join(lines, "\n")
}
