package entity

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// maxWebhookURLLength bounds webhook URLs read from the environment.
const maxWebhookURLLength = 2048

// ValidateWebhookURL checks that rawURL is an absolute http(s) URL whose host
// is not a loopback, link-local or private address literal.
// Host names are not resolved.
func ValidateWebhookURL(rawURL string) error {
	if rawURL == "" {
		return &ValidationError{Field: "url", Message: "url is required"}
	}
	if len(rawURL) > maxWebhookURLLength {
		return &ValidationError{
			Field:   "url",
			Message: fmt.Sprintf("url must not exceed %d characters", maxWebhookURLLength),
		}
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return &ValidationError{Field: "url", Message: "url is malformed"}
	}

	// HTTPまたはHTTPSスキームのみ許可
	if u.Scheme != "http" && u.Scheme != "https" {
		return &ValidationError{Field: "url", Message: "url must use http or https scheme"}
	}
	host := u.Hostname()
	if host == "" {
		return &ValidationError{Field: "url", Message: "url must have a valid host"}
	}

	if strings.EqualFold(host, "localhost") {
		return &ValidationError{Field: "url", Message: "url cannot point to private network"}
	}
	if ip := net.ParseIP(host); ip != nil && isPrivateIP(ip) {
		return &ValidationError{Field: "url", Message: "url cannot point to private network"}
	}
	return nil
}

// isPrivateIP reports loopback, link-local (including cloud metadata),
// private and unspecified addresses.
func isPrivateIP(ip net.IP) bool {
	return ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsPrivate() || ip.IsUnspecified()
}
