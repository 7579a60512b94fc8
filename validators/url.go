// Package validators contains input validation helpers shared by the app
package validators

import (
	"net/url"
	"strings"

	"github.com/spf13/viper"
)

// AllowedHost checks the URL's host against the configured allow-list.
// Matching is a loose substring check ("tiktok.com" matches m.tiktok.com but
// also anything else containing it), which is deliberately permissive and not
// a security boundary.
func AllowedHost(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return false
	}

	for _, allowed := range viper.GetStringSlice("downloads.allowed_hosts") {
		if strings.Contains(host, strings.ToLower(allowed)) {
			return true
		}
	}

	return false
}
