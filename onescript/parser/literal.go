package parser

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// StringValue decodes the literal of a string token: the quotes are
// removed, "" becomes ", and continuation lines are joined with "\n".
func StringValue(literal string) string {
	var b strings.Builder
	s := strings.TrimPrefix(literal, `"`)
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch == '"' && i+1 < len(s) && s[i+1] == '"':
			b.WriteByte('"')
			i++
		case ch == '"':
			return b.String()
		case ch == '\n' || ch == '\r':
			bar := continuationBar(s, i)
			if bar < 0 {
				return b.String()
			}
			b.WriteByte('\n')
			i = bar
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}

// continuationBar returns the index of the '|' that continues a string
// after the line break at i, or -1.
func continuationBar(s string, i int) int {
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case isSpace(r):
			i += size
		case s[i] == '/' && i+1 < len(s) && s[i+1] == '/':
			for i < len(s) && s[i] != '\n' {
				i++
			}
		case s[i] == '|':
			return i
		default:
			return -1
		}
	}
	return -1
}

// DateValue converts the literal of a date token ('YYYYMMDD' or
// 'YYYYMMDDHHmmss') to a time in UTC.
func DateValue(literal string) (time.Time, error) {
	digits := strings.Trim(literal, "'")
	if len(digits) < 8 || len(digits) > 14 {
		return time.Time{}, fmt.Errorf("date literal %s: want 8 to 14 digits", literal)
	}
	padded := digits + strings.Repeat("0", 14-len(digits))
	t, err := time.Parse("20060102150405", padded)
	if err != nil {
		return time.Time{}, fmt.Errorf("date literal %s: %w", literal, err)
	}
	return t, nil
}

// NumberValue converts the literal of a number token.
func NumberValue(literal string) (float64, error) {
	v, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		return 0, fmt.Errorf("number literal %s: %w", literal, err)
	}
	return v, nil
}
