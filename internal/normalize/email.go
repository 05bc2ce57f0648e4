package normalize

import "strings"

// DefaultEmailDomain is appended to bare usernames
const DefaultEmailDomain = "gmail.com"

// Email lowercases and trims an address, turning a bare username into user@domain.
// repaired reports that the domain was appended; ok is false when nothing usable remains.
func Email(value, domain string) (out string, repaired bool, ok bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return "", false, false
	}
	if strings.Contains(v, "@") && strings.Contains(v, ".") {
		return v, false, true
	}

	user := v
	if i := strings.Index(v, "@"); i >= 0 {
		user = v[:i]
	}
	if user == "" {
		return "", false, false
	}
	if domain == "" {
		domain = DefaultEmailDomain
	}
	return user + "@" + strings.TrimPrefix(strings.ToLower(domain), "@"), true, true
}
