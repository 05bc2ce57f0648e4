package normalize

import (
	"regexp"
	"strings"
)

var ptkpPattern = regexp.MustCompile(`(?i)^(TK|K)(\d)$`)

// PTKP inserts the "/" separator into tax status codes such as TK2 or K3.
// ok is false when there is no value to keep.
func PTKP(value string) (string, bool) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", false
	}
	m := ptkpPattern.FindStringSubmatch(v)
	if m == nil {
		return v, true
	}
	return strings.ToUpper(m[1]) + "/" + m[2], true
}
