package transfer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// S6 from the testable-properties scenarios: a base64 stream split across
// two Decode calls at an arbitrary byte boundary must produce the same
// output as a single call on the joined stream, with the caller
// responsible for re-submitting any unconsumed tail alongside new bytes.
func TestBase64Decoder_SplitBoundary(t *testing.T) {
	var d Base64Decoder
	dst := make([]byte, 64)

	res1 := d.Decode(dst, []byte("SGVsb"), false)
	require.Equal(t, 4, res1.Consumed)
	require.Equal(t, "Hel", string(dst[:res1.Decoded]))

	tail := []byte("SGVsb")[res1.Consumed:]
	next := append(append([]byte{}, tail...), []byte("G8=")...)

	res2 := d.Decode(dst, next, false)
	require.Equal(t, len(next), res2.Consumed)
	require.Equal(t, "lo", string(dst[:res2.Decoded]))
}

func TestBase64Decoder_JoinedEqualsSplit(t *testing.T) {
	whole := []byte("SGVsbG8sIFdvcmxkIQ==")
	var joined Base64Decoder
	dstJoined := make([]byte, 64)
	resJoined := joined.Decode(dstJoined, whole, true)
	want := string(dstJoined[:resJoined.Decoded])
	require.Equal(t, "Hello, World!", want)

	for split := 1; split < len(whole); split++ {
		var d Base64Decoder
		dst := make([]byte, 64)
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

func TestBase64Decoder_EstimateDecodedSize(t *testing.T) {
	var d Base64Decoder
	require.Equal(t, 3, d.EstimateDecodedSize(4))
	require.Equal(t, 6, d.EstimateDecodedSize(8))
}
