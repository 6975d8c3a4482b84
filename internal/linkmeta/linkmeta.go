// Package linkmeta derives display metadata (hostname, icon class)
// from social link URLs. Nothing here is persisted.
package linkmeta

import (
	"fmt"
	"net/url"
	"strings"
)

// IconOther is the fallback icon class for unmapped domains.
const IconOther = "other"

// iconByDomain maps a bare hostname (no www.) to an icon class.
var iconByDomain = map[string]string{
	"facebook.com":  "facebook",
	"fb.com":        "facebook",
	"instagram.com": "instagram",
	"twitter.com":   "twitter",
	"x.com":         "twitter",
	"linkedin.com":  "linkedin",
	"github.com":    "github",
	"youtube.com":   "youtube",
	"youtu.be":      "youtube",
	"tiktok.com":    "tiktok",
	"telegram.org":  "telegram",
	"t.me":          "telegram",
	"whatsapp.com":  "whatsapp",
	"wa.me":         "whatsapp",
	"snapchat.com":  "snapchat",
	"pinterest.com": "pinterest",
	"behance.net":   "behance",
	"dribbble.com":  "dribbble",
}

// HostnameFromURL extracts the hostname from a link URL, lowercased,
// with any port and a leading "www." stripped.
func HostnameFromURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("invalid url: %w", err)
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", fmt.Errorf("url has no hostname: %q", raw)
	}

	return strings.TrimPrefix(host, "www."), nil
}

// IconForDomain resolves the icon class for a hostname. Unmapped
// domains get IconOther.
func IconForDomain(domain string) string {
	if icon, ok := iconByDomain[domain]; ok {
		return icon
	}
	return IconOther
}

// IconForURL is the composed lookup used by serializers. Unparseable
// URLs also fall back to IconOther.
func IconForURL(raw string) string {
	domain, err := HostnameFromURL(raw)
	if err != nil {
		return IconOther
	}
	return IconForDomain(domain)
}
