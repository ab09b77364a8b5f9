// Package normalize turns company names, URLs and emails into comparison keys.
package normalize

import (
	"regexp"
	"strings"
)

var (
	legalSuffix   = regexp.MustCompile(`[\s,]+(inc|llc|ltd|corp|co|company)\.?$`)
	nonKeyChars   = regexp.MustCompile(`[^a-z0-9\s]`)
	whitespace    = regexp.MustCompile(`\s+`)
	parenthetical = regexp.MustCompile(`\s*\([^)]*\)\s*`)
	trailingInc   = regexp.MustCompile(`,\s*Inc\.?$`)
)

// Name returns the equality key for a company name. It lower-cases, strips a
// trailing legal-entity suffix, removes everything outside [a-z0-9 ] and
// collapses whitespace. The key is for matching only, never for display.
func Name(name string) string {
	key := nameOnce(name)
	// Removing punctuation can expose another suffix ("Foo (Inc)"), so run to a fixpoint.
	for {
		next := nameOnce(key)
		if next == key {
			return key
		}
		key = next
	}
}

func nameOnce(name string) string {
	s := strings.TrimSpace(strings.ToLower(name))
	s = legalSuffix.ReplaceAllString(s, "")
	s = nonKeyChars.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// SameName reports whether two names share a key. Empty names never match.
func SameName(a, b string) bool {
	ka := Name(a)
	return ka != "" && ka == Name(b)
}

// CleanDisplayName tidies a company name for the spreadsheet: parenthetical
// tags such as "(YC W24)", non-ASCII symbols and a trailing ", Inc." go.
func CleanDisplayName(name string) string {
	s := parenthetical.ReplaceAllString(name, " ")
	s = strings.TrimSpace(s)
	s = strings.Map(func(r rune) rune {
		if r > 127 {
			return -1
		}
		return r
	}, s)
	s = strings.TrimSpace(s)
	s = trailingInc.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(strings.TrimSpace(s), " ")
	return strings.TrimSpace(strings.TrimRight(s, ".,"))
}

// DomainFromURL reduces a website URL to its bare host
func DomainFromURL(rawURL string) string {
	s := strings.TrimSpace(strings.ToLower(rawURL))
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "www.")
	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		s = s[:i]
	}
	return s
}

// DomainFromEmail returns the lower-cased part after the @, or "" without one
func DomainFromEmail(email string) string {
	i := strings.LastIndex(email, "@")
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(strings.ToLower(email[i+1:]))
}

// Domain lower-cases and trims a domain for exact comparison
func Domain(domain string) string {
	return strings.TrimSpace(strings.ToLower(domain))
}

// FirstName returns the first whitespace-separated token of a full name
func FirstName(fullName string) string {
	fields := strings.Fields(fullName)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Truncate flattens newlines and cuts s to limit characters, adding "..."
func Truncate(s string, limit int) string {
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}
