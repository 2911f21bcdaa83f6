// Package rfc2047 decodes RFC 2047 encoded-words ("=?charset?enc?text?=")
// found in structured header values (display names, unstructured text).
// Charset conversion is delegated to golang.org/x/net/html/charset, the
// same dependency the teacher wires for transport-encoding charset
// conversion (see mail/encoding in the reference pack) — this package
// reuses it directly instead of round-tripping through an io.Reader.
package rfc2047

import (
	"strings"

	cs "golang.org/x/net/html/charset"

	"github.com/cpkb-bluezoo/gumdrop-sub012/mail/transfer"
)

// CharsetDecoder converts bytes in the named charset to a UTF-8 string. It
// returns ok=false when the charset is unrecognized, in which case callers
// fall back to treating the encoded-word as literal text.
type CharsetDecoder func(charset string, b []byte) (string, bool)

// DefaultCharsetDecoder adapts golang.org/x/net/html/charset's label
// registry to the CharsetDecoder shape.
func DefaultCharsetDecoder(charset string, b []byte) (string, bool) {
	if strings.EqualFold(charset, "utf-8") || strings.EqualFold(charset, "us-ascii") {
		return string(b), true
	}
	r, err := cs.NewReaderLabel(charset, strings.NewReader(string(b)))
	if err != nil {
		return "", false
	}
	var out strings.Builder
	buf := make([]byte, 4096)
	for {
		n, rerr := r.Read(buf)
		if n > 0 {
			out.Write(buf[:n])
		}
		if rerr != nil {
			break
		}
	}
	return out.String(), true
}

// Decoder decodes RFC 2047 encoded-words within header text.
type Decoder struct {
	// Charset resolves an encoded-word's charset token. Defaults to
	// DefaultCharsetDecoder when nil.
	Charset CharsetDecoder
}

// Default is a ready-to-use Decoder backed by DefaultCharsetDecoder.
var Default = &Decoder{Charset: DefaultCharsetDecoder}

// Decode scans s for encoded-words and replaces each with its decoded
// text. Linear whitespace that appears only between two encoded-words is
// elided, per RFC 2047 section 6.2, so a display name split across
// multiple encoded-words reassembles without spurious spaces. Text outside
// encoded-words, and any token that fails to parse as one, passes through
// unchanged.
func (d *Decoder) Decode(s string) string {
	charsetFn := d.Charset
	if charsetFn == nil {
		charsetFn = DefaultCharsetDecoder
	}

	var b strings.Builder
	i := 0
	lastWasWord := false
	for i < len(s) {
		start := i
		if s[i] == ' ' || s[i] == '\t' {
			wsStart := i
			for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
				i++
			}
			if w, n, ok := parseEncodedWord(s[i:], charsetFn); ok && lastWasWord {
				b.WriteString(w)
				i += n
				lastWasWord = true
				continue
			}
			b.WriteString(s[wsStart:i])
			lastWasWord = false
			continue
		}
		if w, n, ok := parseEncodedWord(s[i:], charsetFn); ok {
			b.WriteString(w)
			i += n
			lastWasWord = true
			continue
		}
		b.WriteByte(s[i])
		i++
		_ = start
		lastWasWord = false
	}
	return b.String()
}

// parseEncodedWord parses a single "=?charset?enc?text?=" token at the
// front of s. It returns the decoded text, the number of bytes consumed
// from s, and whether a well-formed token was found.
func parseEncodedWord(s string, charsetFn CharsetDecoder) (string, int, bool) {
	if len(s) < 2 || s[0] != '=' || s[1] != '?' {
		return "", 0, false
	}
	rest := s[2:]
	p1 := strings.IndexByte(rest, '?')
	if p1 < 0 {
		return "", 0, false
	}
	charset := rest[:p1]
	rest = rest[p1+1:]
	if len(rest) < 2 {
		return "", 0, false
	}
	enc := rest[0]
	if rest[1] != '?' {
		return "", 0, false
	}
	rest = rest[2:]
	p2 := strings.Index(rest, "?=")
	if p2 < 0 {
		return "", 0, false
	}
	encodedText := rest[:p2]
	total := 2 + len(charset) + 1 + 2 + p2 + 2

	var raw []byte
	switch enc {
	case 'B', 'b':
		raw = decodeB(encodedText)
		if raw == nil {
			return "", 0, false
		}
	case 'Q', 'q':
		raw = decodeQ(encodedText)
	default:
		return "", 0, false
	}

	text, ok := charsetFn(charset, raw)
	if !ok {
		return "", 0, false
	}
	return text, total, true
}

func decodeB(s string) []byte {
	dec := transfer.Base64Decoder{}
	dst := make([]byte, dec.EstimateDecodedSize(len(s)))
	r := dec.Decode(dst, []byte(s), true)
	if r.Consumed != len(s) {
		return nil
	}
	return dst[:r.Decoded]
}

// decodeQ decodes RFC 2047's "Q" encoding: like quoted-printable, but "_"
// denotes a space and there are no soft line breaks.
func decodeQ(s string) []byte {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_':
			out = append(out, ' ')
		case c == '=' && i+2 < len(s):
			if h1, ok1 := hexVal(s[i+1]); ok1 {
				if h2, ok2 := hexVal(s[i+2]); ok2 {
					out = append(out, h1<<4|h2)
					i += 2
					continue
				}
			}
			out = append(out, c)
		default:
			out = append(out, c)
		}
	}
	return out
}

func hexVal(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	default:
		return 0, false
	}
}
