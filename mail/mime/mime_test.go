package mime_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cpkb-bluezoo/gumdrop-sub012/mail"
	"github.com/cpkb-bluezoo/gumdrop-sub012/mail/mime"
)

type recordingSink struct {
	mime.NopSink
	kinds []string
	boundaries []*string
	bodies     [][]byte
}

func (r *recordingSink) StartEntity(boundary *string) {
	r.kinds = append(r.kinds, "start_entity")
	r.boundaries = append(r.boundaries, boundary)
}
func (r *recordingSink) EndEntity(boundary *string) { r.kinds = append(r.kinds, "end_entity") }
func (r *recordingSink) ContentType(mail.ContentType) {
	r.kinds = append(r.kinds, "content_type")
}
func (r *recordingSink) EndHeaders() { r.kinds = append(r.kinds, "end_headers") }
func (r *recordingSink) Header(name, text string) { r.kinds = append(r.kinds, "header") }
func (r *recordingSink) BodyContent(p []byte) {
	r.kinds = append(r.kinds, "body_content")
	r.bodies = append(r.bodies, append([]byte{}, p...))
}
func (r *recordingSink) ObsoleteStructure(mail.ObsoleteStructureType) {
	r.kinds = append(r.kinds, "obsolete_structure")
}

func TestMultipartTwoParts(t *testing.T) {
	sink := &recordingSink{}
	p := mime.New(sink)
	input := "Content-Type: multipart/mixed; boundary=X\r\n\r\n" +
		"--X\r\n\r\nA\r\n--X\r\n\r\nB\r\n--X--\r\n"
	require.NoError(t, p.Receive([]byte(input)))
	require.NoError(t, p.Close())

	require.Equal(t, []string{
		"start_entity", "content_type", "end_headers",
		"start_entity", "end_headers", "body_content", "end_entity",
		"start_entity", "end_headers", "body_content", "end_entity",
		"end_entity",
	}, sink.kinds)
	require.Equal(t, "A", string(sink.bodies[0]))
	require.Equal(t, "B", string(sink.bodies[1]))
}

func TestToleratesMissingCloseDelimiterByDefault(t *testing.T) {
	sink := &recordingSink{}
	p := mime.New(sink)
	input := "Content-Type: multipart/mixed; boundary=X\r\n\r\n--X\r\n\r\nonly part\r\n"
	require.NoError(t, p.Receive([]byte(input)))
	require.NoError(t, p.Close())
}

func TestStrictModeFailsOnMissingCloseDelimiter(t *testing.T) {
	sink := &recordingSink{}
	p := mime.New(sink, mime.WithStrict(true))
	input := "Content-Type: multipart/mixed; boundary=X\r\n\r\n--X\r\n\r\nonly part\r\n"
	require.NoError(t, p.Receive([]byte(input)))
	require.ErrorIs(t, p.Close(), mime.ErrBoundaryNotFound)
}

func TestMalformedBoundaryIsFatal(t *testing.T) {
	sink := &recordingSink{}
	p := mime.New(sink)
	input := "Content-Type: multipart/mixed\r\n\r\nwhatever"
	require.ErrorIs(t, p.Receive([]byte(input)), mime.ErrMalformedBoundary)
}

func TestHeaderTooLarge(t *testing.T) {
	sink := &recordingSink{}
	p := mime.New(sink, mime.WithMaxHeaderLen(8))
	longHeader := "Subject: " + string(make([]byte, 64))
	require.ErrorIs(t, p.Receive([]byte(longHeader)), mime.ErrHeaderTooLarge)
}

func TestChunkInvarianceAcrossReceiveCalls(t *testing.T) {
	input := "Content-Type: text/plain\r\n\r\nhello world"

	whole := &recordingSink{}
	pw := mime.New(whole)
	require.NoError(t, pw.Receive([]byte(input)))
	require.NoError(t, pw.Close())

	chunked := &recordingSink{}
	pc := mime.New(chunked)
	for i := 0; i < len(input); i++ {
		require.NoError(t, pc.Receive([]byte{input[i]}))
	}
	require.NoError(t, pc.Close())

	require.Equal(t, whole.kinds, chunked.kinds)
	require.Equal(t, whole.bodies, chunked.bodies)
}

func TestObsoleteHeaderSyntax_SpaceBeforeColon(t *testing.T) {
	sink := &recordingSink{}
	p := mime.New(sink)
	require.NoError(t, p.Receive([]byte("Subject : hi\r\n\r\n")))
	require.NoError(t, p.Close())
	require.Contains(t, sink.kinds, "obsolete_structure")
}
