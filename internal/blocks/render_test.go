package blocks

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	bs := []Block{
		Heading("月曜日 (01/15)"),
		BulletItem("肉じゃが"),
		Paragraph("line1\nline2"),
		Divider(),
		Paragraph("end"),
	}

	want := "**月曜日 (01/15)**\n- 肉じゃが\nline1\nline2\n\n---\nend"
	assert.Equal(t, want, Render(bs))
}

func TestRender_Title(t *testing.T) {
	bs := []Block{Title("2024年01月15日週の夕食献立"), Divider(), Heading("月曜日")}
	assert.Equal(t, "## 2024年01月15日週の夕食献立\n\n---\n**月曜日**", Render(bs))
}

func TestRender_Empty(t *testing.T) {
	assert.Equal(t, "", Render(nil))
}

func TestPlainText(t *testing.T) {
	bs := []Block{
		Heading("火曜日"),
		Divider(),
		BulletItem("カレー"),
		Paragraph("メモ"),
	}

	assert.Equal(t, "火曜日\n• カレー\nメモ", PlainText(bs))
}
