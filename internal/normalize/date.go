package normalize

import (
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/spf13/cast"
)

// DateLayout is the canonical birth date format
const DateLayout = "2006-01-02"

var canonicalDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// dateLayouts is tried in order; the first successful parse wins, so "03/04/1997"
// is read month first.
var dateLayouts = []string{
	"1/2/2006",
	"1-2-2006",
	"1/2/06",
	"1-2-06",
	"2/1/2006",
	"2-1-2006",
	"2/1/06",
	"2-1-06",
	"2006/1/2",
	"2006-1-2",
	"2006.1.2",
	"2.1.2006",
}

// Date formats a birth date as YYYY-MM-DD. When nothing parses, the original text
// is returned with ok set to false.
func Date(value interface{}) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case time.Time:
		return v.Format(DateLayout), true
	case *time.Time:
		if v == nil {
			return "", false
		}
		return v.Format(DateLayout), true
	}

	text := strings.TrimSpace(cast.ToString(value))
	if text == "" {
		return text, false
	}
	if canonicalDate.MatchString(text) {
		if _, err := time.Parse(DateLayout, text); err == nil {
			return text, true
		}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t.Format(DateLayout), true
		}
	}
	if t, err := dateparse.ParseAny(text); err == nil {
		return t.Format(DateLayout), true
	}
	return cast.ToString(value), false
}
