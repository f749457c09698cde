// Package text counts and splits text by Unicode characters rather than bytes.
package text

import "unicode/utf16"

// CountRunes counts the Unicode characters in s.
//
//	CountRunes("hello")     // 5
//	CountRunes("肉じゃが")     // 4
func CountRunes(s string) int {
	return len([]rune(s))
}

// CountUTF16 counts the UTF-16 code units in s. Characters outside the Basic
// Multilingual Plane, such as most emoji, count as two.
func CountUTF16(s string) int {
	n := 0
	for _, r := range s {
		n += utf16Len(r)
	}
	return n
}

// SplitUTF16 splits s into pieces of at most n UTF-16 code units without
// breaking a character. A string that already fits is returned as a single piece.
func SplitUTF16(s string, n int) []string {
	if n <= 0 || CountUTF16(s) <= n {
		return []string{s}
	}
	var out []string
	start, size := 0, 0
	for i, r := range s {
		l := utf16Len(r)
		if size+l > n {
			out = append(out, s[start:i])
			start, size = i, 0
		}
		size += l
	}
	return append(out, s[start:])
}

func utf16Len(r rune) int {
	if l := utf16.RuneLen(r); l > 0 {
		return l
	}
	// invalid runes are encoded as U+FFFD
	return 1
}
