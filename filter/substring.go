package filter

import "strings"

// splitPieces splits a raw "=" operand around its unescaped stars and decodes
// escapes in each piece. A leading or trailing star becomes an empty first or
// last piece. ok is false when two stars are adjacent.
func splitPieces(raw string) (pieces []string, ok bool) {
	if !strings.ContainsAny(raw, `*\`) {
		return []string{raw}, true
	}

	var (
		sb        strings.Builder
		wasStar   bool
		leftStar  bool
		rightStar bool
		escaped   bool
	)
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case !escaped && c == '*':
			if wasStar {
				return nil, false
			}
			if sb.Len() > 0 {
				pieces = append(pieces, sb.String())
				sb.Reset()
			}
			if len(pieces) == 0 {
				leftStar = true
			}
			wasStar = true
		case !escaped && c == '\\':
			escaped = true
		default:
			escaped = false
			wasStar = false
			sb.WriteByte(c)
		}
	}

	if wasStar {
		rightStar = true
	} else {
		pieces = append(pieces, sb.String())
	}
	if rightStar {
		pieces = append(pieces, "")
	}
	if leftStar {
		pieces = append([]string{""}, pieces...)
	}
	return pieces, true
}

// matchSubstring reports whether s matches the pieces with an implicit
// wildcard between each pair. Interior pieces must occur in order without
// overlapping.
func matchSubstring(pieces []string, s string) bool {
	if len(pieces) == 1 {
		return s == pieces[0]
	}

	last := len(pieces) - 1
	if !strings.HasPrefix(s, pieces[0]) {
		return false
	}
	index := len(pieces[0])
	for _, piece := range pieces[1:last] {
		i := strings.Index(s[index:], piece)
		if i < 0 {
			return false
		}
		index += i + len(piece)
	}
	return strings.HasSuffix(s, pieces[last]) && len(s) >= index+len(pieces[last])
}
