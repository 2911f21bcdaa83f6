// Package mimeheader parses Content-Type and Content-Disposition header
// values: "type/subtype *(; parameter)" and "disposition-type
// *(; parameter)" respectively. The token/quoted-string/parameter scanning
// is the teacher's mail/mime contentType/token/quotedString/parameter
// state machine generalized to serve both header kinds instead of
// Content-Type alone, ported from its channel-blocking next()/peek() onto
// a plain string cursor since there is no streaming requirement here — a
// header value is always fully assembled before this package sees it.
package mimeheader

import (
	"strings"

	"github.com/cpkb-bluezoo/gumdrop-sub012/mail"
	"github.com/cpkb-bluezoo/gumdrop-sub012/mail/rfc2047"
)

func isTokenSpecial(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '@', ',', ';', ':', '\\', '"', '/', '[', ']', '?', '=':
		return true
	}
	return false
}

type scanner struct {
	s   string
	pos int
	ch  byte
}

func newScanner(s string) *scanner {
	sc := &scanner{s: s, pos: -1}
	sc.next()
	return sc
}

func (sc *scanner) next() byte {
	sc.pos++
	if sc.pos < len(sc.s) {
		sc.ch = sc.s[sc.pos]
	} else {
		sc.ch = 0
	}
	return sc.ch
}

func (sc *scanner) peek() byte {
	if sc.pos+1 < len(sc.s) {
		return sc.s[sc.pos+1]
	}
	return 0
}

func (sc *scanner) skipCFWS() {
	for {
		if sc.ch == ' ' || sc.ch == '\t' {
			sc.next()
			continue
		}
		if sc.ch == '(' {
			sc.skipComment()
			continue
		}
		break
	}
}

func (sc *scanner) skipComment() {
	depth := 0
	for sc.ch != 0 {
		switch {
		case sc.ch == '\\' && sc.peek() != 0:
			sc.next()
			sc.next()
		case sc.ch == '(':
			depth++
			sc.next()
		case sc.ch == ')':
			depth--
			sc.next()
			if depth == 0 {
				return
			}
		default:
			sc.next()
		}
	}
}

func (sc *scanner) token(lower bool) (string, bool) {
	var b strings.Builder
	matched := false
	for sc.ch > 32 && sc.ch < 128 && !isTokenSpecial(sc.ch) {
		c := sc.ch
		if lower && c >= 'A' && c <= 'Z' {
			c += 32
		}
		b.WriteByte(c)
		matched = true
		sc.next()
	}
	if !matched {
		return "", false
	}
	return b.String(), true
}

func (sc *scanner) quotedString() (string, bool) {
	if sc.ch != '"' {
		return "", false
	}
	sc.next()
	var b strings.Builder
	for {
		switch {
		case sc.ch == '"':
			sc.next()
			return b.String(), true
		case sc.ch == '\\':
			sc.next()
			if sc.ch == 0 {
				return "", false
			}
			b.WriteByte(sc.ch)
			sc.next()
		case sc.ch == 0:
			return "", false
		default:
			b.WriteByte(sc.ch)
			sc.next()
		}
	}
}

func (sc *scanner) parameter() (mail.Parameter, bool) {
	name, ok := sc.token(true)
	if !ok {
		return mail.Parameter{}, false
	}
	sc.skipCFWS()
	if sc.ch != '=' {
		return mail.Parameter{}, false
	}
	sc.next()
	sc.skipCFWS()
	var value string
	if sc.ch == '"' {
		value, ok = sc.quotedString()
	} else {
		value, ok = sc.token(false)
	}
	if !ok {
		return mail.Parameter{}, false
	}
	return mail.Parameter{Name: name, Value: rfc2047.Default.Decode(value)}, true
}

func (sc *scanner) parameters() ([]mail.Parameter, bool) {
	var params []mail.Parameter
	for {
		sc.skipCFWS()
		if sc.ch != ';' {
			break
		}
		sc.next()
		sc.skipCFWS()
		if sc.ch == 0 {
			break
		}
		p, ok := sc.parameter()
		if !ok {
			return nil, false
		}
		params = append(params, p)
	}
	return params, true
}

// ParseContentType parses a Content-Type header value.
func ParseContentType(value string) (mail.ContentType, bool) {
	sc := newScanner(value)
	sc.skipCFWS()
	primary, ok := sc.token(true)
	if !ok {
		return mail.ContentType{}, false
	}
	sc.skipCFWS()
	if sc.ch != '/' {
		return mail.ContentType{}, false
	}
	sc.next()
	sc.skipCFWS()
	sub, ok := sc.token(true)
	if !ok {
		return mail.ContentType{}, false
	}
	params, ok := sc.parameters()
	if !ok {
		return mail.ContentType{}, false
	}
	return mail.NewContentType(primary, sub, params), true
}

// ParseContentDisposition parses a Content-Disposition header value.
func ParseContentDisposition(value string) (mail.ContentDisposition, bool) {
	sc := newScanner(value)
	sc.skipCFWS()
	dtype, ok := sc.token(true)
	if !ok {
		return mail.ContentDisposition{}, false
	}
	params, ok := sc.parameters()
	if !ok {
		return mail.ContentDisposition{}, false
	}
	return mail.NewContentDisposition(dtype, params), true
}
