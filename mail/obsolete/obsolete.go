// Package obsolete implements the best-effort salvage parsers the message
// dispatcher falls back to when the strict RFC 5322 address-list or
// message-id parser rejects a header outright. Real mailboxes still emit
// RFC 822 source routes and comment-laden message-ids decades after they
// were deprecated; this package recovers what it can instead of discarding
// the header.
package obsolete

import (
	"strings"

	"github.com/cpkb-bluezoo/gumdrop-sub012/mail"
	"github.com/cpkb-bluezoo/gumdrop-sub012/mail/address"
	"github.com/cpkb-bluezoo/gumdrop-sub012/mail/rfc2047"
)

// ParseAddressList splits raw at top-level commas, RFC 2047-decodes each
// segment, and tries in order: a source-routed address
// ("@dom1,@dom2:user@host", keeping only the trailing mailbox), a
// "display <addr>" form, then a bare addr-spec. Segments that salvage
// nothing are dropped; if none salvage, the result is (nil, false).
func ParseAddressList(raw string, smtputf8 bool) ([]mail.EmailAddress, bool) {
	var result []mail.EmailAddress
	for _, seg := range splitTopLevelCommas(raw) {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		decoded := strings.TrimSpace(rfc2047.Default.Decode(seg))
		if decoded == "" {
			continue
		}
		if addr, ok := trySourceRouted(decoded, smtputf8); ok {
			result = append(result, addr)
			continue
		}
		if addr, ok := tryAngleAddr(decoded, smtputf8); ok {
			result = append(result, addr)
			continue
		}
		if addr, ok := address.ParseEnvelope(decoded, smtputf8); ok {
			result = append(result, addr)
		}
	}
	if len(result) == 0 {
		return nil, false
	}
	return result, true
}

func trySourceRouted(seg string, smtputf8 bool) (mail.EmailAddress, bool) {
	if !strings.HasPrefix(seg, "@") {
		return mail.EmailAddress{}, false
	}
	idx := strings.LastIndexByte(seg, ':')
	if idx < 0 {
		return mail.EmailAddress{}, false
	}
	return address.ParseEnvelope(strings.TrimSpace(seg[idx+1:]), smtputf8)
}

func tryAngleAddr(seg string, smtputf8 bool) (mail.EmailAddress, bool) {
	open := strings.IndexByte(seg, '<')
	closeIdx := strings.LastIndexByte(seg, '>')
	if open < 0 || closeIdx < 0 || closeIdx < open {
		return mail.EmailAddress{}, false
	}
	inner := strings.TrimSpace(seg[open+1 : closeIdx])
	addrSpec, ok := address.ParseEnvelope(inner, smtputf8)
	if !ok {
		return mail.EmailAddress{}, false
	}
	display := strings.Trim(strings.TrimSpace(seg[:open]), `"`)
	return mail.NewEmailAddress(display, addrSpec.LocalPart(), addrSpec.Domain(), false, nil), true
}

func splitTopLevelCommas(s string) []string {
	var parts []string
	start, i := 0, 0
	for i < len(s) {
		switch {
		case s[i] == '\\' && i+1 < len(s):
			i += 2
		case s[i] == '"':
			i = skipQuotedStr(s, i)
		case s[i] == '(':
			i = skipCommentStr(s, i)
		case s[i] == ',':
			parts = append(parts, s[start:i])
			i++
			start = i
		default:
			i++
		}
	}
	return append(parts, s[start:])
}

func skipQuotedStr(s string, pos int) int {
	if pos >= len(s) || s[pos] != '"' {
		return pos
	}
	pos++
	for pos < len(s) {
		c := s[pos]
		if c == '\\' && pos+1 < len(s) {
			pos += 2
			continue
		}
		pos++
		if c == '"' {
			return pos
		}
	}
	return pos
}

func skipCommentStr(s string, pos int) int {
	depth := 0
	for pos < len(s) {
		switch {
		case s[pos] == '\\' && pos+1 < len(s):
			pos += 2
		case s[pos] == '(':
			depth++
			pos++
		case s[pos] == ')':
			depth--
			pos++
			if depth == 0 {
				return pos
			}
		default:
			pos++
		}
	}
	return pos
}

// ParseMessageIDList splits raw on runs of whitespace and/or commas,
// RFC 2047-decodes and strips RFC 822 parenthetical comments from each
// token, then accepts "<x@y>" or bare "x@y" forms. The local-part is
// checked against an extended printable-ASCII set; the domain must contain
// a dot and may not start or end with '.' or '-'.
func ParseMessageIDList(raw string) ([]mail.ContentID, bool) {
	var result []mail.ContentID
	for _, field := range splitWhitespaceOrComma(raw) {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		decoded := strings.TrimSpace(stripParenComments(rfc2047.Default.Decode(field)))
		if decoded == "" {
			continue
		}
		if strings.HasPrefix(decoded, "<") && strings.HasSuffix(decoded, ">") {
			decoded = decoded[1 : len(decoded)-1]
		}
		at := strings.LastIndexByte(decoded, '@')
		if at < 0 {
			continue
		}
		local, domain := decoded[:at], decoded[at+1:]
		if !validObsoleteLocalPart(local) || !validObsoleteDomain(domain) {
			continue
		}
		result = append(result, mail.NewContentID(local, domain))
	}
	if len(result) == 0 {
		return nil, false
	}
	return result, true
}

func splitWhitespaceOrComma(s string) []string {
	var fields []string
	start := -1
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == ',' {
			if start >= 0 {
				fields = append(fields, s[start:i])
				start = -1
			}
		} else if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		fields = append(fields, s[start:])
	}
	return fields
}

func stripParenComments(s string) string {
	var b strings.Builder
	i := 0
	for i < len(s) {
		if s[i] == '(' {
			depth := 1
			i++
			for i < len(s) && depth > 0 {
				switch s[i] {
				case '\\':
					if i+1 < len(s) {
						i++
					}
				case '(':
					depth++
				case ')':
					depth--
				}
				i++
			}
			continue
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}

func validObsoleteLocalPart(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 33 || c > 126 || c == '@' || c == '<' || c == '>' {
			return false
		}
	}
	return true
}

func validObsoleteDomain(s string) bool {
	if s == "" || !strings.Contains(s, ".") {
		return false
	}
	if s[0] == '.' || s[0] == '-' || s[len(s)-1] == '.' || s[len(s)-1] == '-' {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 33 || s[i] > 126 {
			return false
		}
	}
	return true
}
