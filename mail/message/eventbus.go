package message

import (
	"time"

	evbus "github.com/asaskevich/EventBus"

	"github.com/cpkb-bluezoo/gumdrop-sub012/mail"
)

// Topic names an EventBusSink publishes under, one per mail.EventSink
// event kind. Grounded on the teacher's ev.EventHandler, which wraps
// *evbus.EventBus the same way to notify subscribers of envelope
// processing milestones; here the topics are the parser's own event
// vocabulary instead of the teacher's config/server lifecycle events.
const (
	TopicStartEntity             = "mail.start_entity"
	TopicEndEntity               = "mail.end_entity"
	TopicContentType             = "mail.content_type"
	TopicContentDisposition      = "mail.content_disposition"
	TopicContentTransferEncoding = "mail.content_transfer_encoding"
	TopicContentID               = "mail.content_id"
	TopicContentDescription      = "mail.content_description"
	TopicMIMEVersion             = "mail.mime_version"
	TopicEndHeaders              = "mail.end_headers"
	TopicHeader                  = "mail.header"
	TopicUnexpectedHeader        = "mail.unexpected_header"
	TopicDateHeader              = "mail.date_header"
	TopicAddressHeader           = "mail.address_header"
	TopicMessageIDHeader         = "mail.message_id_header"
	TopicObsoleteStructure       = "mail.obsolete_structure"
	TopicBodyContent             = "mail.body_content"
	TopicUnexpectedContent       = "mail.unexpected_content"
)

// EventBusSink wraps a mail.EventSink, forwarding every call to it
// unchanged and also publishing the same event onto bus under a topic
// name derived from the event kind, so a subscriber can observe a live
// parse without being the primary sink.
type EventBusSink struct {
	Inner mail.EventSink
	Bus   *evbus.EventBus
}

// NewEventBusSink wraps inner, creating a fresh bus if bus is nil.
func NewEventBusSink(inner mail.EventSink, bus *evbus.EventBus) *EventBusSink {
	if bus == nil {
		bus = evbus.New()
	}
	return &EventBusSink{Inner: inner, Bus: bus}
}

func (e *EventBusSink) SetLocator(loc mail.Locator) { e.Inner.SetLocator(loc) }

func (e *EventBusSink) StartEntity(boundary *string) {
	e.Inner.StartEntity(boundary)
	e.Bus.Publish(TopicStartEntity, boundary)
}

func (e *EventBusSink) EndEntity(boundary *string) {
	e.Inner.EndEntity(boundary)
	e.Bus.Publish(TopicEndEntity, boundary)
}

func (e *EventBusSink) ContentType(ct mail.ContentType) {
	e.Inner.ContentType(ct)
	e.Bus.Publish(TopicContentType, ct)
}

func (e *EventBusSink) ContentDisposition(cd mail.ContentDisposition) {
	e.Inner.ContentDisposition(cd)
	e.Bus.Publish(TopicContentDisposition, cd)
}

func (e *EventBusSink) ContentTransferEncoding(text string) {
	e.Inner.ContentTransferEncoding(text)
	e.Bus.Publish(TopicContentTransferEncoding, text)
}

func (e *EventBusSink) ContentID(id mail.ContentID) {
	e.Inner.ContentID(id)
	e.Bus.Publish(TopicContentID, id)
}

func (e *EventBusSink) ContentDescription(text string) {
	e.Inner.ContentDescription(text)
	e.Bus.Publish(TopicContentDescription, text)
}

func (e *EventBusSink) MIMEVersion(v mail.MIMEVersion) {
	e.Inner.MIMEVersion(v)
	e.Bus.Publish(TopicMIMEVersion, v)
}

func (e *EventBusSink) EndHeaders() {
	e.Inner.EndHeaders()
	e.Bus.Publish(TopicEndHeaders)
}

func (e *EventBusSink) Header(name, text string) {
	e.Inner.Header(name, text)
	e.Bus.Publish(TopicHeader, name, text)
}

func (e *EventBusSink) UnexpectedHeader(name, rawText string) {
	e.Inner.UnexpectedHeader(name, rawText)
	e.Bus.Publish(TopicUnexpectedHeader, name, rawText)
}

func (e *EventBusSink) DateHeader(name string, t time.Time) {
	e.Inner.DateHeader(name, t)
	e.Bus.Publish(TopicDateHeader, name, t)
}

func (e *EventBusSink) AddressHeader(name string, list []mail.EmailAddress) {
	e.Inner.AddressHeader(name, list)
	e.Bus.Publish(TopicAddressHeader, name, list)
}

func (e *EventBusSink) MessageIDHeader(name string, list []mail.ContentID) {
	e.Inner.MessageIDHeader(name, list)
	e.Bus.Publish(TopicMessageIDHeader, name, list)
}

func (e *EventBusSink) ObsoleteStructure(kind mail.ObsoleteStructureType) {
	e.Inner.ObsoleteStructure(kind)
	e.Bus.Publish(TopicObsoleteStructure, kind)
}

func (e *EventBusSink) BodyContent(p []byte) {
	e.Inner.BodyContent(p)
	e.Bus.Publish(TopicBodyContent, p)
}

func (e *EventBusSink) UnexpectedContent(p []byte) {
	e.Inner.UnexpectedContent(p)
	e.Bus.Publish(TopicUnexpectedContent, p)
}

var _ mail.EventSink = (*EventBusSink)(nil)
