package rfc2047

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecode_QEncoding(t *testing.T) {
	got := Default.Decode("=?UTF-8?Q?Andr=C3=A9?=")
	require.Equal(t, "André", got)
}

func TestDecode_BEncoding(t *testing.T) {
	// "Hello" base64-encoded
	got := Default.Decode("=?UTF-8?B?SGVsbG8=?=")
	require.Equal(t, "Hello", got)
}

func TestDecode_AdjacentWordsElideWhitespace(t *testing.T) {
	got := Default.Decode("=?UTF-8?Q?Hello?= =?UTF-8?Q?_World?=")
	require.Equal(t, "Hello World", got)
}

func TestDecode_PlainTextPassesThrough(t *testing.T) {
	require.Equal(t, "just plain text", Default.Decode("just plain text"))
}

func TestDecode_MalformedWordPassesThrough(t *testing.T) {
	got := Default.Decode("=?broken")
	require.Equal(t, "=?broken", got)
}
