package ffmpeg

import (
	"strconv"
	"strings"
)

// DefaultFrameRate is used when a source does not report a usable rate.
var DefaultFrameRate = Rational{Num: 30, Den: 1}

// Rational is a frame rate expressed as num/den.
type Rational struct {
	Num int
	Den int
}

// ParseRational parses "num/den" or a bare integer. It reports false when the
// value is malformed, non-positive, or has a zero denominator.
func ParseRational(value string) (Rational, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Rational{}, false
	}
	numStr, denStr, hasDen := strings.Cut(value, "/")
	num, err := strconv.Atoi(strings.TrimSpace(numStr))
	if err != nil || num <= 0 {
		return Rational{}, false
	}
	den := 1
	if hasDen {
		den, err = strconv.Atoi(strings.TrimSpace(denStr))
		if err != nil || den <= 0 {
			return Rational{}, false
		}
	}
	return Rational{Num: num, Den: den}, true
}

func (r Rational) String() string {
	if r.Den == 1 {
		return strconv.Itoa(r.Num)
	}
	return strconv.Itoa(r.Num) + "/" + strconv.Itoa(r.Den)
}
