// Package message implements the dispatch layer that sits above the raw
// mail/mime entity engine: it classifies every non-MIME header the engine
// forwards, routes it to the matching structured sub-parser (date,
// address list, message-id list) with a strict-then-obsolete fallback,
// and republishes the result as the fully typed mail.EventSink events.
// This is composition over inheritance, the way the teacher's
// mail.MimeDotReader wraps mime.Parser by holding it as a field rather
// than embedding it: Parser holds an unexported *mime.Parser and installs
// a delegating mime.EventSink that intercepts and reclassifies headers
// before they ever reach the caller's sink.
package message

import (
	"strings"

	"github.com/cpkb-bluezoo/gumdrop-sub012/mail"
	"github.com/cpkb-bluezoo/gumdrop-sub012/mail/address"
	"github.com/cpkb-bluezoo/gumdrop-sub012/mail/datetime"
	"github.com/cpkb-bluezoo/gumdrop-sub012/mail/messageid"
	"github.com/cpkb-bluezoo/gumdrop-sub012/mail/mime"
	"github.com/cpkb-bluezoo/gumdrop-sub012/mail/obsolete"
	"github.com/cpkb-bluezoo/gumdrop-sub012/mail/rfc2047"
)

var dateHeaders = map[string]bool{
	"date":        true,
	"resent-date": true,
}

var addressHeaders = map[string]bool{
	"from": true, "sender": true, "to": true, "cc": true, "bcc": true,
	"reply-to": true, "resent-from": true, "resent-sender": true,
	"resent-to": true, "resent-cc": true, "resent-bcc": true,
	"resent-reply-to": true, "return-path": true, "envelope-to": true,
	"delivered-to": true, "x-original-to": true, "errors-to": true,
	"apparently-to": true,
}

var messageIDHeaders = map[string]bool{
	"message-id": true, "in-reply-to": true, "references": true,
	"resent-message-id": true,
}

// Parser is the message-level dispatcher. It is not safe for concurrent
// use.
type Parser struct {
	inner    *mime.Parser
	outer    mail.EventSink
	smtputf8 bool
}

type settings struct {
	strict       bool
	maxHeaderLen int
	maxDepth     int
	smtputf8     bool
}

// Option configures a Parser at construction time.
type Option func(*settings)

// WithStrict enables strict mode in the underlying MIME engine: a missing
// multipart close-delimiter at end of input becomes fatal instead of an
// implicit close.
func WithStrict(strict bool) Option { return func(s *settings) { s.strict = strict } }

// WithMaxHeaderLen caps a single header line's length.
func WithMaxHeaderLen(n int) Option { return func(s *settings) { s.maxHeaderLen = n } }

// WithMaxDepth caps multipart nesting depth; 0 is unlimited.
func WithMaxDepth(n int) Option { return func(s *settings) { s.maxDepth = n } }

// WithSMTPUTF8 enables the process-wide SMTPUTF8 switch: header bytes are
// treated as UTF-8 (with replacement of malformed sequences) rather than
// ISO-8859-1, and non-ASCII atext/dtext is accepted in the address,
// message-id, and content-id sub-parsers.
func WithSMTPUTF8(on bool) Option { return func(s *settings) { s.smtputf8 = on } }

// New creates a Parser that drives sink.
func New(sink mail.EventSink, opts ...Option) *Parser {
	cfg := &settings{maxHeaderLen: 0, maxDepth: 0}
	for _, opt := range opts {
		opt(cfg)
	}
	p := &Parser{outer: sink, smtputf8: cfg.smtputf8}
	delegate := &dispatchSink{outer: sink, smtputf8: cfg.smtputf8}
	var mopts []mime.Option
	mopts = append(mopts, mime.WithStrict(cfg.strict), mime.WithSMTPUTF8(cfg.smtputf8))
	if cfg.maxHeaderLen > 0 {
		mopts = append(mopts, mime.WithMaxHeaderLen(cfg.maxHeaderLen))
	}
	if cfg.maxDepth > 0 {
		mopts = append(mopts, mime.WithMaxDepth(cfg.maxDepth))
	}
	p.inner = mime.New(delegate, mopts...)
	return p
}

// Receive feeds chunk into the underlying engine. See mime.Parser.Receive.
func (p *Parser) Receive(chunk []byte) error { return p.inner.Receive(chunk) }

// Close signals end of input. See mime.Parser.Close.
func (p *Parser) Close() error { return p.inner.Close() }

// Reset returns the parser to its initial state.
func (p *Parser) Reset() { p.inner.Reset() }

// dispatchSink is the mime.EventSink installed on the inner engine. It
// forwards MIME-structural events untouched and reclassifies every
// generic Header/UnexpectedHeader callback.
type dispatchSink struct {
	outer    mail.EventSink
	smtputf8 bool
}

func (d *dispatchSink) SetLocator(loc mail.Locator) { d.outer.SetLocator(loc) }
func (d *dispatchSink) StartEntity(boundary *string) { d.outer.StartEntity(boundary) }
func (d *dispatchSink) EndEntity(boundary *string)   { d.outer.EndEntity(boundary) }

func (d *dispatchSink) ContentType(ct mail.ContentType)               { d.outer.ContentType(ct) }
func (d *dispatchSink) ContentDisposition(cd mail.ContentDisposition) { d.outer.ContentDisposition(cd) }
func (d *dispatchSink) ContentTransferEncoding(text string)           { d.outer.ContentTransferEncoding(text) }
func (d *dispatchSink) ContentID(id mail.ContentID)                   { d.outer.ContentID(id) }
func (d *dispatchSink) ContentDescription(text string)                { d.outer.ContentDescription(text) }
func (d *dispatchSink) MIMEVersion(v mail.MIMEVersion)                { d.outer.MIMEVersion(v) }
func (d *dispatchSink) EndHeaders()                                   { d.outer.EndHeaders() }

func (d *dispatchSink) BodyContent(p []byte)       { d.outer.BodyContent(p) }
func (d *dispatchSink) UnexpectedContent(p []byte) { d.outer.UnexpectedContent(p) }

func (d *dispatchSink) ObsoleteStructure(kind mail.ObsoleteStructureType) {
	d.outer.ObsoleteStructure(kind)
}

func (d *dispatchSink) UnexpectedHeader(name, rawValue string) {
	d.outer.UnexpectedHeader(name, rfc2047.Default.Decode(rawValue))
}

func (d *dispatchSink) Header(name, rawValue string) {
	lower := strings.ToLower(name)
	switch {
	case dateHeaders[lower]:
		d.dispatchDate(name, rawValue)
	case addressHeaders[lower]:
		d.dispatchAddress(name, rawValue)
	case messageIDHeaders[lower]:
		d.dispatchMessageID(name, rawValue)
	default:
		d.outer.Header(name, rfc2047.Default.Decode(rawValue))
	}
}

func (d *dispatchSink) dispatchDate(name, rawValue string) {
	decoded := rfc2047.Default.Decode(rawValue)
	t, obsoleteForm, ok := datetime.Parse(decoded)
	if !ok {
		d.outer.UnexpectedHeader(name, decoded)
		return
	}
	if obsoleteForm {
		d.outer.ObsoleteStructure(mail.ObsoleteDateTimeSyntax)
	}
	d.outer.DateHeader(name, t)
}

func (d *dispatchSink) dispatchAddress(name, rawValue string) {
	decoded := strings.TrimSpace(rfc2047.Default.Decode(rawValue))
	if list, ok := address.ParseList(decoded, d.smtputf8); ok && len(list) > 0 {
		d.outer.AddressHeader(name, list)
		return
	}
	if list, ok := obsolete.ParseAddressList(decoded, d.smtputf8); ok {
		d.outer.ObsoleteStructure(mail.ObsoleteAddressSyntax)
		d.outer.AddressHeader(name, list)
		return
	}
	d.outer.UnexpectedHeader(name, decoded)
}

func (d *dispatchSink) dispatchMessageID(name, rawValue string) {
	decoded := strings.TrimSpace(rfc2047.Default.Decode(rawValue))
	if list, ok := messageid.ParseList(decoded, d.smtputf8); ok && len(list) > 0 {
		d.outer.MessageIDHeader(name, list)
		return
	}
	if list, ok := obsolete.ParseMessageIDList(decoded); ok {
		d.outer.ObsoleteStructure(mail.ObsoleteMessageIDSyntax)
		d.outer.MessageIDHeader(name, list)
		return
	}
	d.outer.UnexpectedHeader(name, decoded)
}

var _ mime.EventSink = (*dispatchSink)(nil)
