// Package messageid parses "<id-left@id-right>" token lists as found in
// Message-ID, In-Reply-To, References and Resent-Message-ID, tolerating
// both comma and bare-whitespace separators — real-world senders (Outlook
// chief among them) use either, so both are treated as equivalent per the
// spec's resolution of that ambiguity (see DESIGN.md).
package messageid

import (
	"strings"

	"github.com/cpkb-bluezoo/gumdrop-sub012/internal/scanner"
	"github.com/cpkb-bluezoo/gumdrop-sub012/mail"
)

// ParseList parses a whitespace/comma separated list of message-id tokens.
// Empty input yields an empty, non-nil list. Any malformed token aborts the
// whole parse and returns (nil, false).
func ParseList(s string, smtputf8 bool) ([]mail.ContentID, bool) {
	return ParseListBytes([]byte(s), smtputf8)
}

// ParseOne parses a single message-id token; it returns (zero, false) if
// the input holds zero or more than one id.
func ParseOne(s string, smtputf8 bool) (mail.ContentID, bool) {
	return ParseOneBytes([]byte(s), smtputf8)
}

// ParseListBytes is the byte-buffer-authoritative form of ParseList.
func ParseListBytes(buf []byte, smtputf8 bool) ([]mail.ContentID, bool) {
	p := &parser{buf: buf, smtputf8: smtputf8}
	p.pos = scanner.SkipCFWS(p.buf, p.pos)
	if p.pos >= len(p.buf) {
		return []mail.ContentID{}, true
	}

	var result []mail.ContentID
	for {
		id, ok := p.parseID()
		if !ok {
			return nil, false
		}
		result = append(result, id)

		p.pos = scanner.SkipCFWS(p.buf, p.pos)
		if p.pos < len(p.buf) && p.buf[p.pos] == ',' {
			p.pos++
			p.pos = scanner.SkipCFWS(p.buf, p.pos)
		}
		if p.pos >= len(p.buf) {
			break
		}
		if p.buf[p.pos] != '<' {
			return nil, false
		}
	}
	return result, true
}

// ParseOneBytes is the byte-buffer-authoritative form of ParseOne.
func ParseOneBytes(buf []byte, smtputf8 bool) (mail.ContentID, bool) {
	list, ok := ParseListBytes(buf, smtputf8)
	if !ok || len(list) != 1 {
		return mail.ContentID{}, false
	}
	return list[0], true
}

type parser struct {
	buf      []byte
	pos      int
	smtputf8 bool
}

func isAtext(c byte, smtputf8 bool) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	case c == '!' || c == '#' || c == '$' || c == '%' || c == '&' || c == '\'' ||
		c == '*' || c == '+' || c == '-' || c == '/' || c == '=' || c == '?' ||
		c == '^' || c == '_' || c == '`' || c == '{' || c == '|' || c == '}' || c == '~':
		return true
	case smtputf8 && c >= 0x80:
		return true
	}
	return false
}

func (p *parser) parseAtomRaw() (string, bool) {
	start := p.pos
	for p.pos < len(p.buf) && isAtext(p.buf[p.pos], p.smtputf8) {
		p.pos++
	}
	if p.pos == start {
		return "", false
	}
	return string(p.buf[start:p.pos]), true
}

func (p *parser) parseDotAtom() (string, bool) {
	start := p.pos
	a, ok := p.parseAtomRaw()
	if !ok {
		p.pos = start
		return "", false
	}
	var b strings.Builder
	b.WriteString(a)
	for p.pos < len(p.buf) && p.buf[p.pos] == '.' {
		dotPos := p.pos
		p.pos++
		a2, ok2 := p.parseAtomRaw()
		if !ok2 {
			p.pos = dotPos
			break
		}
		b.WriteByte('.')
		b.WriteString(a2)
	}
	return b.String(), true
}

// parseDomainLiteral accepts "[" dtext "]", widened to non-ASCII dtext when
// smtputf8 is set, same as isAtext's widening.
func (p *parser) parseDomainLiteral() (string, bool) {
	start := p.pos
	if p.pos >= len(p.buf) || p.buf[p.pos] != '[' {
		return "", false
	}
	var b strings.Builder
	b.WriteByte('[')
	p.pos++
	for p.pos < len(p.buf) {
		c := p.buf[p.pos]
		switch {
		case c == ']':
			b.WriteByte(']')
			p.pos++
			return b.String(), true
		case c == '[':
			p.pos = start
			return "", false
		case c == '\\' && p.pos+1 < len(p.buf):
			b.WriteByte(c)
			b.WriteByte(p.buf[p.pos+1])
			p.pos += 2
		case c >= 0x80 && !p.smtputf8:
			p.pos = start
			return "", false
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	p.pos = start
	return "", false
}

func (p *parser) parseID() (mail.ContentID, bool) {
	p.pos = scanner.SkipCFWS(p.buf, p.pos)
	if p.pos >= len(p.buf) || p.buf[p.pos] != '<' {
		return mail.ContentID{}, false
	}
	p.pos++
	local, ok := p.parseDotAtom()
	if !ok {
		return mail.ContentID{}, false
	}
	if p.pos >= len(p.buf) || p.buf[p.pos] != '@' {
		return mail.ContentID{}, false
	}
	p.pos++
	var domain string
	if p.pos < len(p.buf) && p.buf[p.pos] == '[' {
		domain, ok = p.parseDomainLiteral()
	} else {
		domain, ok = p.parseDotAtom()
	}
	if !ok {
		return mail.ContentID{}, false
	}
	if p.pos >= len(p.buf) || p.buf[p.pos] != '>' {
		return mail.ContentID{}, false
	}
	p.pos++
	return mail.NewContentID(local, domain), true
}
