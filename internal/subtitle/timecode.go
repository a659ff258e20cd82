package subtitle

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrInvalidTimecode = errors.New("invalid timecode")

// converts an HH:MM:SS,mmm timestamp to seconds.
// A period is accepted in place of the comma.
func ParseTimecode(text string) (float64, error) {
	value := strings.TrimSpace(text)
	parts := strings.Split(value, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("%w %q: expected HH:MM:SS,mmm", ErrInvalidTimecode, text)
	}

	hours, err := parseWhole(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w %q: hours: %v", ErrInvalidTimecode, text, err)
	}
	minutes, err := parseWhole(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%w %q: minutes: %v", ErrInvalidTimecode, text, err)
	}
	seconds, err := parseSeconds(parts[2])
	if err != nil {
		return 0, fmt.Errorf("%w %q: seconds: %v", ErrInvalidTimecode, text, err)
	}

	return float64(hours)*3600 + float64(minutes)*60 + seconds, nil
}

func parseWhole(field string) (int, error) {
	if field == "" || !isDigits(field) {
		return 0, fmt.Errorf("not a number: %q", field)
	}
	return strconv.Atoi(field)
}

// whole seconds with an optional comma or period fraction
func parseSeconds(field string) (float64, error) {
	whole, frac, hasFrac := strings.Cut(field, ",")
	if !hasFrac {
		whole, frac, hasFrac = strings.Cut(field, ".")
	}
	if whole == "" || !isDigits(whole) {
		return 0, fmt.Errorf("not a number: %q", field)
	}
	if hasFrac && (frac == "" || !isDigits(frac)) {
		return 0, fmt.Errorf("bad fraction: %q", field)
	}
	if !hasFrac {
		frac = "0"
	}
	return strconv.ParseFloat(whole+"."+frac, 64)
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// renders seconds as HH:MM:SS<sep>mmm, rounding to the nearest millisecond
func FormatTimecode(seconds float64, sep byte) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	totalMillis := int64(math.Round(seconds * 1000))
	hours := totalMillis / 3_600_000
	minutes := (totalMillis / 60_000) % 60
	secs := (totalMillis / 1000) % 60
	millis := totalMillis % 1000

	return fmt.Sprintf("%02d:%02d:%02d%c%03d", hours, minutes, secs, sep, millis)
}
