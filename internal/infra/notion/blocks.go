package notion

import (
	"weekly-menu/internal/blocks"
	"weekly-menu/internal/utils/text"
)

// MaxRichTextLength is the API limit on the content of one rich text object.
const MaxRichTextLength = 2000

// MaxChildrenPerRequest is the API limit on blocks per create or append call.
const MaxChildrenPerRequest = 100

// ToBlocks maps body blocks to their API representation.
// Headings become bold heading_3 blocks; titles become heading_2.
func ToBlocks(bs []blocks.Block) []Block {
	out := make([]Block, 0, len(bs))
	for _, b := range bs {
		switch b.Kind {
		case blocks.KindTitle:
			out = append(out, Block{Object: "block", Type: "heading_2",
				Heading2: &RichTextBlock{RichText: richText(b.Text, false)}})
		case blocks.KindHeading:
			out = append(out, Block{Object: "block", Type: "heading_3",
				Heading3: &RichTextBlock{RichText: richText(b.Text, true)}})
		case blocks.KindBulletItem:
			out = append(out, Block{Object: "block", Type: "bulleted_list_item",
				BulletedListItem: &RichTextBlock{RichText: richText(b.Text, false)}})
		case blocks.KindParagraph:
			out = append(out, Block{Object: "block", Type: "paragraph",
				Paragraph: &RichTextBlock{RichText: richText(b.Text, false)}})
		case blocks.KindDivider:
			out = append(out, Block{Object: "block", Type: "divider", Divider: &struct{}{}})
		}
	}
	return out
}

// TextProperty builds rich text for a title property.
func TextProperty(s string) []RichText {
	return richText(s, false)
}

// richText splits s into objects of at most MaxRichTextLength UTF-16 code units,
// the unit the API counts in.
func richText(s string, bold bool) []RichText {
	var ann *Annotations
	if bold {
		ann = &Annotations{Bold: true}
	}
	chunks := text.SplitUTF16(s, MaxRichTextLength)
	out := make([]RichText, 0, len(chunks))
	for _, c := range chunks {
		out = append(out, RichText{Type: "text", Text: &TextContent{Content: c}, Annotations: ann})
	}
	return out
}

// chunk splits bs into slices of at most size elements.
func chunk(bs []Block, size int) [][]Block {
	var out [][]Block
	for len(bs) > size {
		out = append(out, bs[:size:size])
		bs = bs[size:]
	}
	if len(bs) > 0 {
		out = append(out, bs)
	}
	return out
}
