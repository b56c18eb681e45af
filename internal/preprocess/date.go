package preprocess

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// DateLayout is the output format of every publication date.
const DateLayout = "2006-01-02"

// ErrInvalidDate is returned for values that are not a recognizable date.
var ErrInvalidDate = errors.New("invalid date")

// numeric dates are read day first: 02/01/2019 is the 2nd of January
var dayFirst = regexp.MustCompile(`^(\d{1,2})[/.-](\d{1,2})[/.-](\d{4})$`)

var layouts = []string{
	DateLayout,
	"2 January 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"Jan 2, 2006",
}

// ParseDate parses the mixed date formats found in raw publication files.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if !strings.ContainsAny(s, "0123456789") {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	if m := dayFirst.FindStringSubmatch(s); m != nil {
		t, err := time.Parse("2/1/2006", m[1]+"/"+m[2]+"/"+m[3])
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
		}
		return t, nil
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	t, err := dateparse.ParseStrict(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// FormatDate parses s and renders it as YYYY-MM-DD.
func FormatDate(s string) (string, error) {
	t, err := ParseDate(s)
	if err != nil {
		return "", err
	}
	return t.Format(DateLayout), nil
}
