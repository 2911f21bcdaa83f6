package message_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cpkb-bluezoo/gumdrop-sub012/mail"
	"github.com/cpkb-bluezoo/gumdrop-sub012/mail/message"
)

type event struct {
	kind string
	args []interface{}
}

type recordingSink struct {
	mail.NopSink
	events []event
}

func (r *recordingSink) StartEntity(boundary *string) {
	r.events = append(r.events, event{"start_entity", []interface{}{boundary}})
}
func (r *recordingSink) EndEntity(boundary *string) {
	r.events = append(r.events, event{"end_entity", []interface{}{boundary}})
}
func (r *recordingSink) ContentType(ct mail.ContentType) {
	r.events = append(r.events, event{"content_type", []interface{}{ct}})
}
func (r *recordingSink) EndHeaders() {
	r.events = append(r.events, event{"end_headers", nil})
}
func (r *recordingSink) Header(name, text string) {
	r.events = append(r.events, event{"header", []interface{}{name, text}})
}
func (r *recordingSink) UnexpectedHeader(name, rawText string) {
	r.events = append(r.events, event{"unexpected_header", []interface{}{name, rawText}})
}
func (r *recordingSink) DateHeader(name string, t time.Time) {
	r.events = append(r.events, event{"date_header", []interface{}{name, t}})
}
func (r *recordingSink) AddressHeader(name string, list []mail.EmailAddress) {
	r.events = append(r.events, event{"address_header", []interface{}{name, list}})
}
func (r *recordingSink) MessageIDHeader(name string, list []mail.ContentID) {
	r.events = append(r.events, event{"message_id_header", []interface{}{name, list}})
}
func (r *recordingSink) ObsoleteStructure(kind mail.ObsoleteStructureType) {
	r.events = append(r.events, event{"obsolete_structure", []interface{}{kind}})
}
func (r *recordingSink) BodyContent(p []byte) {
	r.events = append(r.events, event{"body_content", []interface{}{string(p)}})
}

func kinds(events []event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.kind
	}
	return out
}

func run(t *testing.T, input string) *recordingSink {
	t.Helper()
	sink := &recordingSink{}
	p := message.New(sink)
	require.NoError(t, p.Receive([]byte(input)))
	require.NoError(t, p.Close())
	return sink
}

// S1: a simple To: header with a display-name mailbox and a bare mailbox.
func TestScenario_S1_AddressHeader(t *testing.T) {
	sink := run(t, "To: \"John Doe\" <john@example.com>, jane@example.com\r\n\r\n")

	require.Equal(t, []string{"start_entity", "address_header", "end_headers", "end_entity"}, kinds(sink.events))

	addrEvent := sink.events[1]
	require.Equal(t, "To", addrEvent.args[0])
	list := addrEvent.args[1].([]mail.EmailAddress)
	require.Len(t, list, 2)
	require.Equal(t, "John Doe", list[0].DisplayName())
	require.Equal(t, "john", list[0].LocalPart())
	require.Equal(t, "example.com", list[0].Domain())
	require.False(t, list[0].Simple())
	require.Equal(t, "", list[1].DisplayName())
	require.Equal(t, "jane", list[1].LocalPart())
	require.True(t, list[1].Simple())
}

// S2: References with mixed comma/whitespace separators.
func TestScenario_S2_MessageIDHeader(t *testing.T) {
	sink := run(t, "References: <a@x.com>,<b@x.com> <c@y.com>\r\n\r\n")

	var found *event
	for i := range sink.events {
		if sink.events[i].kind == "message_id_header" {
			found = &sink.events[i]
		}
	}
	require.NotNil(t, found)
	list := found.args[1].([]mail.ContentID)
	require.Len(t, list, 3)
	require.Equal(t, "a", list[0].LocalPart())
	require.Equal(t, "x.com", list[0].Domain())
	require.Equal(t, "b", list[1].LocalPart())
	require.Equal(t, "c", list[2].LocalPart())
	require.Equal(t, "y.com", list[2].Domain())
}

// S3: a strict RFC 5322 date.
func TestScenario_S3_StrictDate(t *testing.T) {
	sink := run(t, "Date: Fri, 21 Nov 1997 09:55:06 -0600\r\n\r\n")

	var found *event
	for i := range sink.events {
		if sink.events[i].kind == "date_header" {
			found = &sink.events[i]
		}
	}
	require.NotNil(t, found)
	require.Equal(t, "Date", found.args[0])
	got := found.args[1].(time.Time)
	want := time.Date(1997, time.November, 21, 9, 55, 6, 0, time.FixedZone("", -6*3600))
	require.True(t, want.Equal(got))

	for _, e := range sink.events {
		require.NotEqual(t, "obsolete_structure", e.kind)
	}
}

// S4: an obsolete two-digit-year, named-zone date.
func TestScenario_S4_ObsoleteDate(t *testing.T) {
	sink := run(t, "Date: 21 Nov 97 09:55 EST\r\n\r\n")

	require.Equal(t, "obsolete_structure", sink.events[1].kind)
	require.Equal(t, mail.ObsoleteDateTimeSyntax, sink.events[1].args[0])

	dateEvt := sink.events[2]
	require.Equal(t, "date_header", dateEvt.kind)
	got := dateEvt.args[1].(time.Time)
	want := time.Date(1997, time.November, 21, 9, 55, 0, 0, time.FixedZone("", -5*3600))
	require.True(t, want.Equal(got))
}

// S5: a two-part multipart body.
func TestScenario_S5_Multipart(t *testing.T) {
	input := "Content-Type: multipart/mixed; boundary=X\r\n\r\n" +
		"--X\r\n\r\nA\r\n--X\r\n\r\nB\r\n--X--\r\n"
	sink := run(t, input)

	got := kinds(sink.events)
	want := []string{
		"start_entity", "content_type", "end_headers",
		"start_entity", "end_headers", "body_content", "end_entity",
		"start_entity", "end_headers", "body_content", "end_entity",
		"end_entity",
	}
	require.Equal(t, want, got)

	require.Nil(t, sink.events[0].args[0])
	require.Equal(t, "A", sink.events[5].args[0])
	require.Equal(t, "B", sink.events[9].args[0])
}

func TestAddressParsingStability_StrictNeverTriggersObsolete(t *testing.T) {
	sink := run(t, "From: alice@example.com\r\n\r\n")
	for _, e := range sink.events {
		require.NotEqual(t, "obsolete_structure", e.kind)
	}
}

func TestIdempotentClose(t *testing.T) {
	sink := &recordingSink{}
	p := message.New(sink)
	require.NoError(t, p.Receive([]byte("Subject: hi\r\n\r\n")))
	require.NoError(t, p.Close())
	first := append([]event{}, sink.events...)
	require.NoError(t, p.Close())
	require.Equal(t, first, sink.events)
}

func TestChunkInvariance(t *testing.T) {
	input := "To: a@x.com\r\nSubject: hi there\r\n\r\nbody text\r\n"

	whole := run(t, input)

	chunked := &recordingSink{}
	p := message.New(chunked)
	for i := 0; i < len(input); i++ {
		require.NoError(t, p.Receive([]byte{input[i]}))
	}
	require.NoError(t, p.Close())

	require.Equal(t, kinds(whole.events), kinds(chunked.events))
}
