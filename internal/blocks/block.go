// Package blocks converts the loosely structured markdown returned by the LLM into an
// ordered sequence of typed content blocks for a document-store page body.
package blocks

// Kind discriminates the variants of Block.
type Kind int

const (
	// KindParagraph is one or more consecutive prose lines joined by newline.
	KindParagraph Kind = iota
	// KindHeading is a line wrapped in "**" markers, markers removed.
	KindHeading
	// KindBulletItem is a line starting with "- ", marker removed.
	KindBulletItem
	// KindDivider is a horizontal rule. Convert never produces it; publishers add it.
	KindDivider
	// KindTitle is the page-level heading. Like KindDivider it is only added by publishers.
	KindTitle
)

// String returns the kind name used in logs.
func (k Kind) String() string {
	switch k {
	case KindParagraph:
		return "paragraph"
	case KindHeading:
		return "heading"
	case KindBulletItem:
		return "bullet_item"
	case KindDivider:
		return "divider"
	case KindTitle:
		return "title"
	default:
		return "unknown"
	}
}

// Block is one unit of page content.
type Block struct {
	Kind Kind
	Text string
}

// Heading returns a heading block.
func Heading(text string) Block { return Block{Kind: KindHeading, Text: text} }

// Paragraph returns a paragraph block.
func Paragraph(text string) Block { return Block{Kind: KindParagraph, Text: text} }

// BulletItem returns a bulleted list item block.
func BulletItem(text string) Block { return Block{Kind: KindBulletItem, Text: text} }

// Divider returns a divider block.
func Divider() Block { return Block{Kind: KindDivider} }

// Title returns a page title block.
func Title(text string) Block { return Block{Kind: KindTitle, Text: text} }
