package filehandler

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Periodicity is the width of the time bucket that shares one file name.
// The zero value is Daily.
type Periodicity uint8

const (
	Daily Periodicity = iota
	Hourly
	Minutely
	Monthly
)

var periodicityLayouts = [...]string{
	Daily:    "20060102",
	Hourly:   "2006010215",
	Minutely: "200601021504",
	Monthly:  "200601",
}

// String returns the string representation of the periodicity
func (p Periodicity) String() string {
	switch p {
	case Daily:
		return "daily"
	case Hourly:
		return "hourly"
	case Minutely:
		return "minutely"
	case Monthly:
		return "monthly"
	default:
		return "Periodicity(" + strconv.Itoa(int(p)) + ")"
	}
}

// ParsePeriodicity converts a name such as "day", "Daily" or "minute" to a
// Periodicity.
func ParsePeriodicity(s string) (Periodicity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "minute", "minutely":
		return Minutely, nil
	case "hour", "hourly":
		return Hourly, nil
	case "day", "daily":
		return Daily, nil
	case "month", "monthly":
		return Monthly, nil
	default:
		return Daily, fmt.Errorf("%w %q", ErrUnknownPeriodicity, s)
	}
}

func (p Periodicity) valid() bool {
	return int(p) < len(periodicityLayouts)
}

// Truncate returns the start of the bucket containing t, in t's location.
func (p Periodicity) Truncate(t time.Time) time.Time {
	y, mo, d := t.Date()
	h, mi := t.Hour(), t.Minute()
	switch p {
	case Monthly:
		d, h, mi = 1, 0, 0
	case Daily:
		h, mi = 0, 0
	case Hourly:
		mi = 0
	}
	return time.Date(y, mo, d, h, mi, 0, 0, t.Location())
}

// BucketKey returns the fixed-width digits naming the bucket of t, e.g.
// "20160504" for Daily. Two times share a key exactly when their
// truncated times are equal.
func (p Periodicity) BucketKey(t time.Time) string {
	return t.Format(periodicityLayouts[p])
}

// width is the number of digits in a bucket key
func (p Periodicity) width() int {
	return len(periodicityLayouts[p])
}

// fileName builds "{prefix}{key}[.{counter}][.{ext}]". A negative counter
// omits the counter segment.
func fileName(prefix, key string, counter int, ext string) string {
	var sb strings.Builder
	sb.Grow(len(prefix) + len(key) + len(ext) + 8)
	sb.WriteString(prefix)
	sb.WriteString(key)
	if counter >= 0 {
		sb.WriteByte('.')
		sb.WriteString(strconv.Itoa(counter))
	}
	if ext != "" {
		sb.WriteByte('.')
		sb.WriteString(ext)
	}
	return sb.String()
}

// parsedName is a file name split back into its parts
type parsedName struct {
	key     string
	counter int // -1 when the name has no counter segment
}

// parseFileName is the inverse of fileName. It rejects anything that does
// not match the pattern exactly, so foreign files in the directory are
// never mistaken for log files.
func parseFileName(name, prefix string, width int, ext string) (parsedName, bool) {
	rest, ok := strings.CutPrefix(name, prefix)
	if !ok || len(rest) < width {
		return parsedName{}, false
	}
	key := rest[:width]
	if !allDigits(key) {
		return parsedName{}, false
	}
	rest = rest[width:]

	if ext != "" {
		if rest, ok = strings.CutSuffix(rest, "."+ext); !ok {
			return parsedName{}, false
		}
	}
	if rest == "" {
		return parsedName{key: key, counter: -1}, true
	}

	digits, ok := strings.CutPrefix(rest, ".")
	if !ok || digits == "" || !allDigits(digits) {
		return parsedName{}, false
	}
	counter, err := strconv.Atoi(digits)
	if err != nil {
		return parsedName{}, false
	}
	return parsedName{key: key, counter: counter}, true
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
