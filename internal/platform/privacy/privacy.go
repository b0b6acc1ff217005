// Package privacy masks the personally identifiable information the
// gateway touches (admin client IPs, buyer contact fields) before any of it
// reaches a log line.
package privacy

import (
	"fmt"
	"net"
	"strings"
)

// AnonymizeIP truncates an IP address so the logged value cannot identify
// a single host. IPv4 loses its last octet, IPv6 keeps only its /48 prefix.
// Returns "invalid" for unparseable addresses and "unknown" for empty ones.
func AnonymizeIP(ip string) string {
	if ip == "" {
		return "unknown"
	}

	parsed := net.ParseIP(ip)
	if parsed == nil {
		return "invalid"
	}

	if v4 := parsed.To4(); v4 != nil {
		return fmt.Sprintf("%d.%d.%d.0", v4[0], v4[1], v4[2])
	}
	return fmt.Sprintf("%02x%02x:%02x%02x:%02x%02x::",
		parsed[0], parsed[1], parsed[2], parsed[3], parsed[4], parsed[5])
}

// MaskMobile keeps the last two digits of a phone number.
func MaskMobile(mobile string) string {
	if len(mobile) <= 2 {
		return strings.Repeat("*", len(mobile))
	}
	return strings.Repeat("*", len(mobile)-2) + mobile[len(mobile)-2:]
}

// MaskEmail keeps the first character of the local part and the full
// domain, enough to recognize an account without exposing the address.
func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return strings.Repeat("*", len(email))
	}
	return email[:1] + strings.Repeat("*", at-1) + email[at:]
}
