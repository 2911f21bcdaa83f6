package mail

import "time"

// Locator exposes the engine's current position to an EventSink, set once
// via EventSink.SetLocator before any other callback fires.
type Locator interface {
	// Offset returns the number of input bytes consumed so far.
	Offset() int64
	// Depth returns the current multipart nesting depth (0 at the top).
	Depth() int
}

// EventSink is implemented by the caller and driven synchronously from
// Parser.Receive and Parser.Close. Every method may panic with a value that
// implements error to cancel the parse; the parsers do not recover it, so
// the panic propagates out of Receive or Close. One method per event
// variant, per the Design Notes'
// preferred rendering of the MessageHandler contract as a Go interface.
type EventSink interface {
	// SetLocator is called once, before any other event, so the sink may
	// retain loc for use during later callbacks.
	SetLocator(loc Locator)

	// StartEntity announces the beginning of a MIME entity. boundary is nil
	// for the top-level message and non-nil (the boundary string) for every
	// part of a multipart body.
	StartEntity(boundary *string)
	// EndEntity closes the entity most recently opened with the same
	// boundary value.
	EndEntity(boundary *string)

	ContentType(ct ContentType)
	ContentDisposition(cd ContentDisposition)
	ContentTransferEncoding(text string)
	ContentID(id ContentID)
	ContentDescription(text string)
	MIMEVersion(v MIMEVersion)
	EndHeaders()

	Header(name, text string)
	UnexpectedHeader(name, rawText string)

	DateHeader(name string, t time.Time)
	AddressHeader(name string, list []EmailAddress)
	MessageIDHeader(name string, list []ContentID)

	// ObsoleteStructure is emitted strictly before the paired typed event
	// for a header salvaged by the obsolete fallback parsers.
	ObsoleteStructure(kind ObsoleteStructureType)

	BodyContent(p []byte)
	UnexpectedContent(p []byte)
}

// NopSink implements EventSink with no-op bodies for every method, so a
// caller can embed it and override only the events it cares about.
type NopSink struct{}

func (NopSink) SetLocator(Locator)                       {}
func (NopSink) StartEntity(*string)                      {}
func (NopSink) EndEntity(*string)                        {}
func (NopSink) ContentType(ContentType)                  {}
func (NopSink) ContentDisposition(ContentDisposition)    {}
func (NopSink) ContentTransferEncoding(string)           {}
func (NopSink) ContentID(ContentID)                      {}
func (NopSink) ContentDescription(string)                {}
func (NopSink) MIMEVersion(MIMEVersion)                  {}
func (NopSink) EndHeaders()                              {}
func (NopSink) Header(string, string)                    {}
func (NopSink) UnexpectedHeader(string, string)          {}
func (NopSink) DateHeader(string, time.Time)              {}
func (NopSink) AddressHeader(string, []EmailAddress)     {}
func (NopSink) MessageIDHeader(string, []ContentID)      {}
func (NopSink) ObsoleteStructure(ObsoleteStructureType)  {}
func (NopSink) BodyContent([]byte)                       {}
func (NopSink) UnexpectedContent([]byte)                 {}

var _ EventSink = NopSink{}
