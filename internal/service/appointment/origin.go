package appointment

import (
	"net/url"
	"strings"
)

// frontendBase picks the URL checkout redirects return to: the configured
// frontend first, then the request Origin, then the Referer's scheme and host.
func frontendBase(configured string, o RequestOrigin) (string, bool) {
	if v := strings.TrimSpace(configured); v != "" {
		return strings.TrimRight(v, "/"), true
	}
	if v := strings.TrimSpace(o.Origin); v != "" && v != "null" {
		return strings.TrimRight(v, "/"), true
	}
	if v := strings.TrimSpace(o.Referer); v != "" {
		u, err := url.Parse(v)
		if err == nil && u.Scheme != "" && u.Host != "" {
			return u.Scheme + "://" + u.Host, true
		}
	}
	return "", false
}
