package text

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountRunes(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"hello", 5},
		{"肉じゃが", 4},
		{"鮭の塩焼き🐟", 6},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CountRunes(tt.in), tt.in)
	}
}

func TestCountUTF16(t *testing.T) {
	assert.Equal(t, 0, CountUTF16(""))
	assert.Equal(t, 4, CountUTF16("肉じゃが"))
	assert.Equal(t, 2, CountUTF16("🐟"))
	assert.Equal(t, 7, CountUTF16("鮭の塩焼き🐟"))
}

func TestSplitUTF16(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want []string
	}{
		{name: "fits", in: "abc", n: 3, want: []string{"abc"}},
		{name: "bmp only", in: "月火水木金", n: 2, want: []string{"月火", "水木", "金"}},
		{name: "surrogate pair not split", in: "a🐟b", n: 2, want: []string{"a", "🐟", "b"}},
		{name: "emoji fill", in: "🍙🍙🍙", n: 4, want: []string{"🍙🍙", "🍙"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitUTF16(tt.in, tt.n))
		})
	}
}

func TestSplitUTF16_EmojiStaysWithinLimit(t *testing.T) {
	in := strings.Repeat("🍛", 1500)
	parts := SplitUTF16(in, 2000)
	assert.Len(t, parts, 2)
	for _, p := range parts {
		assert.LessOrEqual(t, CountUTF16(p), 2000)
	}
	assert.Equal(t, in, strings.Join(parts, ""))
}
