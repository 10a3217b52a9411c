// Package clientip extracts the originating client IP from an HTTP request,
// walking the usual proxy headers before falling back to the socket address.
// The isolation guard attaches the result to security incidents.
package clientip

import (
	"net"
	"net/http"
	"strings"
)

// GetIP returns the client's IP address. Priority order:
//
//  1. X-Forwarded-For (first valid entry)
//  2. X-Real-IP
//  3. RemoteAddr
//
// Forwarded headers are client-controlled; treat the result as best-effort
// attribution, not authentication.
func GetIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		for entry := range strings.SplitSeq(forwarded, ",") {
			if ip := parseIP(strings.TrimSpace(entry)); ip != "" {
				return ip
			}
		}
	}

	if ip := parseIP(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RemoteAddr without a port, assume it is already just an IP.
		return parseIP(r.RemoteAddr)
	}
	return parseIP(host)
}

// parseIP validates and normalizes an IP address string, returning "" for
// anything net.ParseIP rejects.
func parseIP(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	ip := net.ParseIP(s)
	if ip == nil {
		return ""
	}
	return ip.String()
}
