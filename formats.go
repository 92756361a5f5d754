// Credit to https://github.com/santhosh-tekuri/jsonschema
package yamlls

import (
	"net"
	"net/mail"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Formats holds the built-in format validators spec 4.E names: a small
// table of regex/parser-validated string formats, plus color-hex. Each
// function reports true when the value either isn't a string (format
// only constrains strings) or matches the format.
var Formats = map[string]func(any) bool{
	"color-hex":     IsColorHex,
	"date-time":     IsDateTime,
	"date":          IsDate,
	"time":          IsTime,
	"email":         IsEmail,
	"ipv4":          IsIPV4,
	"ipv6":          IsIPV6,
	"uri":           IsURI,
	"uri-reference": IsURIReference,
}

// IsColorHex tells whether given string is a CSS-style hex color: "#"
// followed by 3, 4, 6, or 8 hex digits.
func IsColorHex(v any) bool {
	s, ok := v.(string)
	if !ok {
		return true
	}
	if len(s) == 0 || s[0] != '#' {
		return false
	}
	digits := s[1:]
	switch len(digits) {
	case 3, 4, 6, 8:
	default:
		return false
	}
	for _, c := range digits {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}

// IsDateTime tells whether given string is a valid date representation
// as defined by RFC 3339, section 5.6.
func IsDateTime(v any) bool {
	s, ok := v.(string)
	if !ok {
		return true
	}
	if len(s) < 20 { // yyyy-mm-ddThh:mm:ssZ
		return false
	}
	if s[10] != 'T' && s[10] != 't' {
		return false
	}
	return IsDate(s[:10]) && IsTime(s[11:])
}

// IsDate tells whether given string is a valid full-date production as
// defined by RFC 3339, section 5.6.
func IsDate(v any) bool {
	s, ok := v.(string)
	if !ok {
		return true
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// IsTime tells whether given string is a valid full-time production as
// defined by RFC 3339, section 5.6. Parsed manually because the Go time
// package does not support leap seconds.
func IsTime(v any) bool {
	str, ok := v.(string)
	if !ok {
		return true
	}

	// hh:mm:ss
	// 01234567
	if len(str) < 9 || str[2] != ':' || str[5] != ':' {
		return false
	}
	isInRange := func(str string, min, max int) (int, bool) {
		n, err := strconv.Atoi(str)
		if err != nil {
			return 0, false
		}
		if n < min || n > max {
			return 0, false
		}
		return n, true
	}
	var h, m, s int
	if h, ok = isInRange(str[0:2], 0, 23); !ok {
		return false
	}
	if m, ok = isInRange(str[3:5], 0, 59); !ok {
		return false
	}
	if s, ok = isInRange(str[6:8], 0, 60); !ok {
		return false
	}
	str = str[8:]

	// parse secfrac if present
	if len(str) > 0 && str[0] == '.' {
		str = str[1:]
		var numDigits int
		for str != "" && str[0] >= '0' && str[0] <= '9' {
			numDigits++
			str = str[1:]
		}
		if numDigits == 0 {
			return false
		}
	}

	// time-numoffset / "Z"
	if str == "" {
		return false
	}
	if str == "Z" || str == "z" {
		return true
	}
	if str[0] != '+' && str[0] != '-' {
		return false
	}
	str = str[1:]
	if len(str) != 5 || str[2] != ':' {
		return false
	}
	offH, ok := isInRange(str[0:2], 0, 23)
	if !ok {
		return false
	}
	offM, ok := isInRange(str[3:5], 0, 59)
	if !ok {
		return false
	}

	// leap second is only valid at 23:59:60Z
	if s == 60 {
		return h == 23 && m == 59 && offH == 0 && offM == 0
	}
	return true
}

// IsHostname tells whether given string is a valid representation for an
// Internet host name, as defined by RFC 1123, section 2.1.
func IsHostname(v any) bool {
	s, ok := v.(string)
	if !ok {
		return true
	}
	s = strings.TrimSuffix(s, ".")
	if len(s) > 253 {
		return false
	}

	for _, label := range strings.Split(s, ".") {
		if labelLen := len(label); labelLen < 1 || labelLen > 63 {
			return false
		}
		if label[0] == '-' || label[len(label)-1] == '-' {
			return false
		}
		for _, c := range label {
			if valid := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || (c == '-'); !valid {
				return false
			}
		}
	}
	return true
}

// IsEmail tells whether given string is a valid Internet email address as
// defined by RFC 5322, section 3.4.1.
func IsEmail(v any) bool {
	s, ok := v.(string)
	if !ok {
		return true
	}
	if len(s) > 254 {
		return false
	}

	at := strings.LastIndexByte(s, '@')
	if at == -1 {
		return false
	}
	local := s[0:at]
	domain := s[at+1:]

	if len(local) > 64 {
		return false
	}

	if len(domain) >= 2 && domain[0] == '[' && domain[len(domain)-1] == ']' {
		ip := domain[1 : len(domain)-1]
		if strings.HasPrefix(ip, "IPv6:") {
			return IsIPV6(strings.TrimPrefix(ip, "IPv6:"))
		}
		return IsIPV4(ip)
	}

	if !IsHostname(domain) {
		return false
	}

	_, err := mail.ParseAddress(s)
	return err == nil
}

// IsIPV4 tells whether given string is a valid representation of an IPv4
// address according to the "dotted-quad" ABNF syntax defined in RFC
// 2673, section 3.2.
func IsIPV4(v any) bool {
	s, ok := v.(string)
	if !ok {
		return true
	}
	groups := strings.Split(s, ".")
	if len(groups) != 4 {
		return false
	}
	for _, group := range groups {
		n, err := strconv.Atoi(group)
		if err != nil {
			return false
		}
		if n < 0 || n > 255 {
			return false
		}
		if n != 0 && group[0] == '0' {
			return false // leading zeroes are treated as octals, reject them
		}
	}
	return true
}

// IsIPV6 tells whether given string is a valid representation of an IPv6
// address as defined by RFC 2373, section 2.2.
func IsIPV6(v any) bool {
	s, ok := v.(string)
	if !ok {
		return true
	}
	if !strings.Contains(s, ":") {
		return false
	}
	return net.ParseIP(s) != nil
}

// IsURI tells whether given string is a valid, absolute URI per RFC
// 3986, using the standard library URI parser rather than a regex.
func IsURI(v any) bool {
	s, ok := v.(string)
	if !ok {
		return true
	}
	u, err := parseURIChecked(s)
	return err == nil && u.IsAbs()
}

// IsURIReference tells whether given string is a valid URI Reference
// (either a URI or a relative-reference), according to RFC 3986.
func IsURIReference(v any) bool {
	s, ok := v.(string)
	if !ok {
		return true
	}
	_, err := parseURIChecked(s)
	return err == nil && !strings.Contains(s, `\`)
}

func parseURIChecked(s string) (*url.URL, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, err
	}

	hostname := u.Hostname()
	if strings.IndexByte(hostname, ':') != -1 {
		if strings.IndexByte(u.Host, '[') == -1 || strings.IndexByte(u.Host, ']') == -1 {
			return nil, ErrIPv6AddressNotEnclosed
		}
		if !IsIPV6(hostname) {
			return nil, ErrInvalidIPv6Address
		}
	}
	return u, nil
}
