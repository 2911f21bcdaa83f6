package transfer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQuotedPrintableDecoder_Literal(t *testing.T) {
	var d QuotedPrintableDecoder
	dst := make([]byte, 64)
	res := d.Decode(dst, []byte("Caf=C3=A9"), true)
	require.Equal(t, len("Caf=C3=A9"), res.Consumed)
	require.Equal(t, "Caf\xc3\xa9", string(dst[:res.Decoded]))
}

func TestQuotedPrintableDecoder_SoftLineBreak(t *testing.T) {
	var d QuotedPrintableDecoder
	dst := make([]byte, 64)
	res := d.Decode(dst, []byte("long line=\r\ncontinues"), true)
	require.Equal(t, "long linecontinues", string(dst[:res.Decoded]))
	_ = res
}

func TestQuotedPrintableDecoder_TrailingEqualsWaitsForLookahead(t *testing.T) {
	var d QuotedPrintableDecoder
	dst := make([]byte, 64)

	res := d.Decode(dst, []byte("abc="), false)
	require.Equal(t, 3, res.Consumed)
	require.Equal(t, "abc", string(dst[:res.Decoded]))

	res2 := d.Decode(dst, []byte("=3D"), true)
	require.Equal(t, 3, res2.Consumed)
	require.Equal(t, "=", string(dst[:res2.Decoded]))
}

func TestQuotedPrintableDecoder_JoinedEqualsSplit(t *testing.T) {
	whole := []byte("Hello=20W=C3=B6rld!=\r\nMore text here.")
	var joined QuotedPrintableDecoder
	dstJoined := make([]byte, 128)
	resJoined := joined.Decode(dstJoined, whole, true)
	want := string(dstJoined[:resJoined.Decoded])

	for split := 1; split < len(whole); split++ {
		var d QuotedPrintableDecoder
		dst := make([]byte, 128)
		var out []byte
		carry := whole[:split]
		rest := whole[split:]
		res := d.Decode(dst, carry, false)
		out = append(out, dst[:res.Decoded]...)
		carry = carry[res.Consumed:]
		buf := append(append([]byte{}, carry...), rest...)
		final := d.Decode(dst, buf, true)
		out = append(out, dst[:final.Decoded]...)
		require.Equalf(t, want, string(out), "split at %d", split)
	}
}
