package mime

import "github.com/cpkb-bluezoo/gumdrop-sub012/mail"

// EventSink is the callback interface the core engine drives synchronously.
// It is narrower than mail.EventSink: the engine classifies and parses only
// the six MIME-structural headers itself (it needs their values to drive
// its own state machine); every other header is forwarded raw via Header
// for a higher layer — mail/message.Parser — to classify, decode, and
// re-dispatch as DateHeader/AddressHeader/MessageIDHeader/Header.
type EventSink interface {
	SetLocator(loc mail.Locator)

	StartEntity(boundary *string)
	EndEntity(boundary *string)

	ContentType(ct mail.ContentType)
	ContentDisposition(cd mail.ContentDisposition)
	ContentTransferEncoding(text string)
	ContentID(id mail.ContentID)
	ContentDescription(text string)
	MIMEVersion(v mail.MIMEVersion)
	EndHeaders()

	// Header carries the folded, whitespace-collapsed raw header value,
	// not yet RFC 2047-decoded, for every header not among the six above.
	Header(name, rawValue string)
	// UnexpectedHeader is used when this engine's own MIME-header parse
	// (Content-Type, Content-Disposition, MIME-Version, Content-ID) fails.
	UnexpectedHeader(name, rawValue string)

	// ObsoleteStructure fires for the one obsolete flavor this engine
	// itself detects in the raw header syntax: space before the
	// header-name colon (ObsoleteHeaderSyntax). ObsoleteFoldingWhitespace
	// is never emitted. Address/date/message-id obsolete flavors are
	// detected and emitted by mail/message instead.
	ObsoleteStructure(kind mail.ObsoleteStructureType)

	BodyContent(p []byte)
	UnexpectedContent(p []byte)
}

// NopSink implements EventSink with no-op bodies.
type NopSink struct{}

func (NopSink) SetLocator(mail.Locator)                    {}
func (NopSink) StartEntity(*string)                        {}
func (NopSink) EndEntity(*string)                          {}
func (NopSink) ContentType(mail.ContentType)                {}
func (NopSink) ContentDisposition(mail.ContentDisposition)  {}
func (NopSink) ContentTransferEncoding(string)              {}
func (NopSink) ContentID(mail.ContentID)                    {}
func (NopSink) ContentDescription(string)                   {}
func (NopSink) MIMEVersion(mail.MIMEVersion)                {}
func (NopSink) EndHeaders()                                 {}
func (NopSink) Header(string, string)                       {}
func (NopSink) UnexpectedHeader(string, string)              {}
func (NopSink) ObsoleteStructure(mail.ObsoleteStructureType) {}
func (NopSink) BodyContent([]byte)                           {}
func (NopSink) UnexpectedContent([]byte)                     {}

var _ EventSink = NopSink{}
