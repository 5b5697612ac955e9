package session

import (
	"strings"

	"github.com/mssola/useragent"
)

// ClientLabel turns a User-Agent header into a short label such as
// "Chrome 120.0 on Linux x86_64". Empty headers give an empty label.
func ClientLabel(header string) string {
	if strings.TrimSpace(header) == "" {
		return ""
	}

	ua := useragent.New(header)
	name, version := ua.Browser()
	if ua.Bot() {
		return "bot " + name
	}

	label := name
	if version != "" {
		label += " " + version
	}
	if os := ua.OS(); os != "" {
		label += " on " + os
	}
	if ua.Mobile() {
		label += " (mobile)"
	}
	return strings.TrimSpace(label)
}
