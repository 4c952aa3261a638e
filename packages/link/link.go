// Package link parses RFC 8288 (formerly RFC 5988) Link header values and
// finds the "next" page target used for pagination.
package link

import (
	"net/url"
	"strings"

	"github.com/abdul-hamid-achik/linkwalk/packages/http"
)

// HeaderName is the header the next link is read from. Lookups are exact.
const HeaderName = "Link"

// RelNext is the relation type that marks the following page.
const RelNext = "next"

// Link is one link-value of a Link header.
type Link struct {
	Target string
	Rel    string
	Params map[string]string
}

// HasRel reports whether rel is one of the space-separated relation types.
func (l Link) HasRel(rel string) bool {
	for _, r := range strings.Fields(l.Rel) {
		if r == rel {
			return true
		}
	}
	return false
}

// Next returns the target of the first rel="next" link in headers. Several
// Link lines are read in order, as if joined by commas. A missing header, a
// header without a next relation and a target that is not an absolute URL
// all report false.
func Next(headers http.Headers) (*url.URL, bool) {
	var links []Link
	for _, value := range headers.Values(HeaderName) {
		links = append(links, Parse(value)...)
	}
	l, ok := Find(links, RelNext)
	if !ok {
		return nil, false
	}
	u, err := url.Parse(l.Target)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return nil, false
	}
	return u, true
}

// Find returns the first link carrying rel.
func Find(links []Link, rel string) (Link, bool) {
	for _, l := range links {
		if l.HasRel(rel) {
			return l, true
		}
	}
	return Link{}, false
}

// Parse splits a Link header value into its link-values. Entries that do not
// start with a <target> are skipped.
func Parse(value string) []Link {
	var links []Link
	for _, entry := range split(value, ',') {
		l, ok := parseEntry(entry)
		if ok {
			links = append(links, l)
		}
	}
	return links
}

func parseEntry(entry string) (Link, bool) {
	entry = strings.TrimSpace(entry)
	if !strings.HasPrefix(entry, "<") {
		return Link{}, false
	}
	end := strings.IndexByte(entry, '>')
	if end < 0 {
		return Link{}, false
	}

	l := Link{
		Target: strings.TrimSpace(entry[1:end]),
		Params: make(map[string]string),
	}
	for _, param := range split(entry[end+1:], ';') {
		param = strings.TrimSpace(param)
		if param == "" {
			continue
		}
		key, val, _ := strings.Cut(param, "=")
		key = strings.ToLower(strings.TrimSpace(key))
		val = unquote(strings.TrimSpace(val))
		// the first occurrence of a parameter wins
		if _, seen := l.Params[key]; seen {
			continue
		}
		l.Params[key] = val
	}
	l.Rel = l.Params["rel"]
	return l, true
}

// split cuts s on sep, ignoring separators inside <...> or double quotes.
func split(s string, sep byte) []string {
	var parts []string
	var inQuote, inAngle, escaped bool
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inQuote && c == '\\':
			escaped = true
		case c == '"' && !inAngle:
			inQuote = !inQuote
		case c == '<' && !inQuote:
			inAngle = true
		case c == '>' && !inQuote:
			inAngle = false
		case c == sep && !inQuote && !inAngle:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

func unquote(s string) string {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return s
	}
	s = s[1 : len(s)-1]
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
