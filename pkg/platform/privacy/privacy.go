// Package privacy reduces personal data to a form safe for logs.
package privacy

import (
	"fmt"
	"net"
	"strings"
)

// MaskPhone keeps the operator prefix and the last four digits of a phone
// number ("09121234567" -> "0912***4567"). Anything shorter than eight
// characters is fully masked.
func MaskPhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if len(phone) < 8 {
		return "***"
	}
	return phone[:4] + "***" + phone[len(phone)-4:]
}

// AnonymizeIP zeroes the host part of an address: IPv4 keeps its /24 and
// IPv6 its /48. It accepts "host:port" as found in http.Request.RemoteAddr.
func AnonymizeIP(addr string) string {
	if addr == "" {
		return "unknown"
	}
	if host, _, err := net.SplitHostPort(addr); err == nil {
		addr = host
	}

	parsed := net.ParseIP(addr)
	if parsed == nil {
		return "invalid"
	}
	if v4 := parsed.To4(); v4 != nil {
		return fmt.Sprintf("%d.%d.%d.0", v4[0], v4[1], v4[2])
	}
	return fmt.Sprintf("%02x%02x:%02x%02x:%02x%02x::",
		parsed[0], parsed[1],
		parsed[2], parsed[3],
		parsed[4], parsed[5])
}
