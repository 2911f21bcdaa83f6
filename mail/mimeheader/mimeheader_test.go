package mimeheader

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseContentType_Basic(t *testing.T) {
	ct, ok := ParseContentType("text/plain; charset=us-ascii")
	require.True(t, ok)
	require.Equal(t, "text", ct.PrimaryType())
	require.Equal(t, "plain", ct.SubType())
	require.Equal(t, "us-ascii", ct.Charset())
}

func TestParseContentType_QuotedBoundary(t *testing.T) {
	ct, ok := ParseContentType(`multipart/mixed; boundary="simple boundary"`)
	require.True(t, ok)
	require.True(t, ct.Is("multipart", "mixed"))
	require.Equal(t, "simple boundary", ct.Boundary())
}

func TestParseContentType_CaseInsensitiveTypeSubtype(t *testing.T) {
	ct, ok := ParseContentType("Text/HTML; Charset=UTF-8")
	require.True(t, ok)
	require.Equal(t, "text", ct.PrimaryType())
	require.Equal(t, "html", ct.SubType())
	v, ok := ct.GetParameter("CHARSET")
	require.True(t, ok)
	require.Equal(t, "UTF-8", v)
}

func TestParseContentType_Malformed(t *testing.T) {
	_, ok := ParseContentType("not-a-type-at-all;;;")
	require.False(t, ok)
}

func TestParseContentType_EncodedWordParameter(t *testing.T) {
	ct, ok := ParseContentType(`application/octet-stream; name="=?UTF-8?Q?r=C3=A9sum=C3=A9.pdf?="`)
	require.True(t, ok)
	v, ok := ct.GetParameter("name")
	require.True(t, ok)
	require.Equal(t, "résumé.pdf", v)
}

func TestParseContentDisposition_Basic(t *testing.T) {
	cd, ok := ParseContentDisposition(`attachment; filename="report.pdf"`)
	require.True(t, ok)
	require.Equal(t, "attachment", cd.Type())
	v, ok := cd.GetParameter("filename")
	require.True(t, ok)
	require.Equal(t, "report.pdf", v)
}

func TestParseContentDisposition_NoParameters(t *testing.T) {
	cd, ok := ParseContentDisposition("inline")
	require.True(t, ok)
	require.Equal(t, "inline", cd.Type())
	require.Empty(t, cd.Parameters())
}
