// Package address parses RFC 5322 address lists and envelope addresses
// directly over byte slices, in the next()/peek()/accept-buffer style the
// teacher's mail/rfc5321 SMTP path parser uses for MAIL FROM/RCPT TO. The
// grammar here is address-list/mailbox/group rather than SMTP's
// Reverse-path/Forward-path, so the state machine is rewritten from
// scratch, but the cursor idiom (an explicit pos, a raw-byte lookahead, a
// tentative-parse-then-rollback position save) is carried over directly.
package address

import (
	"strings"

	"github.com/cpkb-bluezoo/gumdrop-sub012/mail"
)

// ParseList parses an RFC 5322 address-list. It returns (nil, false) on any
// syntax violation; an empty or all-whitespace input returns an empty,
// non-nil slice and true. Groups are flattened into their member mailboxes,
// since the event-sink contract carries only a flat address list.
func ParseList(s string, smtputf8 bool) ([]mail.EmailAddress, bool) {
	return ParseListBytes([]byte(s), smtputf8)
}

// ParseEnvelope parses a single addr-spec with no display name, comments,
// or angle brackets, applying the envelope length and character-set bounds.
func ParseEnvelope(s string, smtputf8 bool) (mail.EmailAddress, bool) {
	return ParseEnvelopeBytes([]byte(s), smtputf8)
}

// ParseListBytes is the byte-buffer-authoritative form of ParseList; the
// string form above is derived from it.
func ParseListBytes(buf []byte, smtputf8 bool) ([]mail.EmailAddress, bool) {
	p := &parser{buf: buf, smtputf8: smtputf8}
	p.skipCFWS()
	if p.pos >= len(p.buf) {
		return []mail.EmailAddress{}, true
	}

	var result []mail.EmailAddress
	for {
		item, ok := p.parseAddress()
		if !ok {
			return nil, false
		}
		if item.isGroup {
			result = append(result, item.group.Members()...)
		} else {
			result = append(result, item.mailbox)
		}
		p.skipCFWS()
		if p.pos < len(p.buf) && p.buf[p.pos] == ',' {
			p.pos++
			p.skipCFWS()
			continue
		}
		break
	}
	if p.pos != len(p.buf) {
		return nil, false
	}
	if result == nil {
		result = []mail.EmailAddress{}
	}
	return result, true
}

// ParseEnvelopeBytes is the byte-buffer-authoritative form of ParseEnvelope.
func ParseEnvelopeBytes(buf []byte, smtputf8 bool) (mail.EmailAddress, bool) {
	p := &parser{buf: buf, smtputf8: smtputf8}
	local, domain, ok := p.parseAddrSpecParts()
	if !ok || p.pos != len(p.buf) {
		return mail.EmailAddress{}, false
	}
	if len(local) > 64 || len(domain) > 255 {
		return mail.EmailAddress{}, false
	}
	if !validEnvelopeDomain(domain, smtputf8) {
		return mail.EmailAddress{}, false
	}
	return mail.NewEmailAddress("", local, domain, true, nil), true
}

func validEnvelopeDomain(domain string, smtputf8 bool) bool {
	if strings.HasPrefix(domain, "[") {
		for i := 1; i < len(domain)-1; i++ {
			if domain[i] < 33 || domain[i] > 126 {
				return false
			}
		}
		return true
	}
	if smtputf8 {
		return true
	}
	for i := 0; i < len(domain); i++ {
		c := domain[i]
		if !(c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '-' || c == '.') {
			return false
		}
	}
	return true
}

// addressItem is the result of parsing one element of an address-list:
// either a single mailbox or a group.
type addressItem struct {
	isGroup bool
	mailbox mail.EmailAddress
	group   mail.GroupEmailAddress
}

type parser struct {
	buf      []byte
	pos      int
	smtputf8 bool
	comments []string
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

func (p *parser) skipCFWS() {
	for p.pos < len(p.buf) {
		c := p.buf[p.pos]
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' {
			p.pos++
			continue
		}
		if c == '(' {
			text := p.parseComment()
			if text != "" {
				p.comments = append(p.comments, text)
			}
			continue
		}
		break
	}
}

// parseComment assumes buf[pos] == '(' and consumes a balanced, possibly
// nested, backslash-escape-aware comment. An unterminated comment at the
// end of the buffer is tolerated: the cursor simply lands at len(buf).
func (p *parser) parseComment() string {
	p.pos++
	depth := 1
	var b strings.Builder
	for p.pos < len(p.buf) && depth > 0 {
		c := p.buf[p.pos]
		switch {
		case c == '\\' && p.pos+1 < len(p.buf):
			b.WriteByte(p.buf[p.pos+1])
			p.pos += 2
		case c == '(':
			depth++
			b.WriteByte('(')
			p.pos++
		case c == ')':
			depth--
			p.pos++
			if depth == 0 {
				return b.String()
			}
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	return b.String()
}

func (p *parser) takeComments() []string {
	if len(p.comments) == 0 {
		return nil
	}
	c := p.comments
	p.comments = nil
	return c
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

func (p *parser) parseQuotedStringContent() (string, bool) {
	if p.pos >= len(p.buf) || p.buf[p.pos] != '"' {
		return "", false
	}
	start := p.pos
	p.pos++
	var b strings.Builder
	for p.pos < len(p.buf) {
		c := p.buf[p.pos]
		if c == '\\' && p.pos+1 < len(p.buf) {
			b.WriteByte(p.buf[p.pos+1])
			p.pos += 2
			continue
		}
		if c == '"' {
			p.pos++
			return b.String(), true
		}
		b.WriteByte(c)
		p.pos++
	}
	p.pos = start
	return "", false
}

// parseDomainLiteral keeps the brackets and backslash escapes verbatim, per
// the spec's "carries its brackets through in the canonical string form"
// rule — unlike local-part/domain dot-atoms and quoted-strings, this token
// is not unescaped.
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
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	p.pos = start
	return "", false
}

func (p *parser) parseAddrSpecParts() (localPart, domain string, ok bool) {
	p.skipCFWS()
	if p.pos < len(p.buf) && p.buf[p.pos] == '"' {
		localPart, ok = p.parseQuotedStringContent()
	} else {
		localPart, ok = p.parseDotAtom()
	}
	if !ok {
		return "", "", false
	}
	p.skipCFWS()
	if p.pos >= len(p.buf) || p.buf[p.pos] != '@' {
		return "", "", false
	}
	p.pos++
	p.skipCFWS()
	if p.pos < len(p.buf) && p.buf[p.pos] == '[' {
		domain, ok = p.parseDomainLiteral()
	} else {
		domain, ok = p.parseDotAtom()
	}
	if !ok {
		return "", "", false
	}
	p.skipCFWS()
	return localPart, domain, true
}

// parsePhrase parses a run of words (atom or quoted-string tokens,
// separated by CFWS) such as a display-name. quotedOnly reports whether
// the phrase was exactly a single quoted-string with no other tokens, per
// the canonical-form quote-stripping rule.
func (p *parser) parsePhrase() (words []string, quotedOnly bool, ok bool) {
	quotedCount, atomCount := 0, 0
	for {
		save := p.pos
		p.skipCFWS()
		if p.pos >= len(p.buf) {
			p.pos = save
			break
		}
		c := p.buf[p.pos]
		if c == '"' {
			s, qok := p.parseQuotedStringContent()
			if !qok {
				p.pos = save
				break
			}
			words = append(words, s)
			quotedCount++
			continue
		}
		if isAtext(c, p.smtputf8) {
			s, aok := p.parseAtomRaw()
			if !aok {
				p.pos = save
				break
			}
			words = append(words, s)
			atomCount++
			continue
		}
		p.pos = save
		break
	}
	ok = len(words) > 0
	quotedOnly = ok && quotedCount == 1 && atomCount == 0 && len(words) == 1
	return
}

func canonicalDisplayName(words []string, quotedOnly bool) string {
	if quotedOnly {
		return words[0]
	}
	return strings.Join(words, " ")
}

// parseMailbox parses "[display-name] '<' addr-spec '>'" or a bare
// addr-spec, per the spec's tie-break: a phrase followed by anything other
// than '<' means no display-name was actually present, so the cursor
// rewinds and the whole thing is re-read as a bare addr-spec.
func (p *parser) parseMailbox() (mail.EmailAddress, bool) {
	save := p.pos
	words, quotedOnly, ok := p.parsePhrase()
	p.skipCFWS()
	if ok && p.pos < len(p.buf) && p.buf[p.pos] == '<' {
		displayName := canonicalDisplayName(words, quotedOnly)
		p.pos++
		local, domain, ok2 := p.parseAddrSpecParts()
		if !ok2 {
			return mail.EmailAddress{}, false
		}
		if p.pos >= len(p.buf) || p.buf[p.pos] != '>' {
			return mail.EmailAddress{}, false
		}
		p.pos++
		return mail.NewEmailAddress(displayName, local, domain, false, p.takeComments()), true
	}
	p.pos = save
	p.comments = nil
	local, domain, ok2 := p.parseAddrSpecParts()
	if !ok2 {
		return mail.EmailAddress{}, false
	}
	return mail.NewEmailAddress("", local, domain, true, p.takeComments()), true
}

func (p *parser) parseMailboxList() ([]mail.EmailAddress, bool) {
	p.skipCFWS()
	if p.pos < len(p.buf) && p.buf[p.pos] == ';' {
		p.pos++
		return []mail.EmailAddress{}, true
	}
	var members []mail.EmailAddress
	for {
		m, ok := p.parseMailbox()
		if !ok {
			return nil, false
		}
		members = append(members, m)
		p.skipCFWS()
		if p.pos < len(p.buf) && p.buf[p.pos] == ',' {
			p.pos++
			p.skipCFWS()
			continue
		}
		break
	}
	if p.pos >= len(p.buf) || p.buf[p.pos] != ';' {
		return nil, false
	}
	p.pos++
	if members == nil {
		members = []mail.EmailAddress{}
	}
	return members, true
}

// parseAddress parses one address-list element: a group, if a top-level
// ':' follows the leading phrase before any '<', or a mailbox otherwise.
func (p *parser) parseAddress() (addressItem, bool) {
	save := p.pos
	words, quotedOnly, ok := p.parsePhrase()
	p.skipCFWS()
	if ok && p.pos < len(p.buf) && p.buf[p.pos] == ':' {
		p.pos++
		groupName := canonicalDisplayName(words, quotedOnly)
		members, ok2 := p.parseMailboxList()
		if !ok2 {
			return addressItem{}, false
		}
		return addressItem{isGroup: true, group: mail.NewGroupEmailAddress(groupName, members)}, true
	}
	p.pos = save
	p.comments = nil
	m, ok2 := p.parseMailbox()
	if !ok2 {
		return addressItem{}, false
	}
	return addressItem{mailbox: m}, true
}
