package integration

import "golang.org/x/text/unicode/norm"

// RuneByteWidth is the number of bytes a rune occupies in the ERP's
// double-byte legacy encoding: ASCII takes one byte, everything else two.
func RuneByteWidth(r rune) int {
	if r > 127 {
		return 2
	}
	return 1
}

// ByteWidth returns the encoded width of s in the ERP's legacy encoding.
func ByteWidth(s string) int {
	n := 0
	for _, r := range s {
		n += RuneByteWidth(r)
	}
	return n
}

// TruncateBytes shortens s so that its encoded width does not exceed budget.
// It cuts between runes, so the last kept character is always whole. The
// input is NFC-normalised first so combining sequences are counted the way
// the ERP stores them. A non-positive budget yields an empty string.
func TruncateBytes(s string, budget int) string {
	if budget <= 0 || s == "" {
		return ""
	}
	s = norm.NFC.String(s)

	used := 0
	for i, r := range s {
		w := RuneByteWidth(r)
		if used+w > budget {
			return s[:i]
		}
		used += w
	}
	return s
}

// TruncatePtr is TruncateBytes for optional values; nil stays nil.
func TruncatePtr(s *string, budget int) *string {
	if s == nil {
		return nil
	}
	v := TruncateBytes(*s, budget)
	return &v
}
