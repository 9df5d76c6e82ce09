package news

import (
	"net/url"
	"strings"
)

// AbsoluteURL resolves ref against base and returns it only when the
// result is an http(s) URL. Protocol-relative refs get https when base
// is empty or unparsable.
func AbsoluteURL(base, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.HasPrefix(ref, "data:") {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	if !u.IsAbs() {
		b, err := url.Parse(strings.TrimSpace(base))
		if err != nil || !b.IsAbs() {
			if strings.HasPrefix(ref, "//") {
				return "https:" + ref
			}
			return ""
		}
		u = b.ResolveReference(u)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	if u.Host == "" {
		return ""
	}
	return u.String()
}
