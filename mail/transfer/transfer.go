// Package transfer implements the two content-transfer-encoding
// transducers the MIME engine needs: base64 and quoted-printable. Both are
// hand-rolled rather than wrapping encoding/base64 or mime/quotedprintable,
// because the engine needs the exact decoded/consumed pair a streaming
// body reader can use to resume mid-quantum across receive() calls, and
// neither stdlib package exposes that contract (see DESIGN.md).
package transfer

// Result is returned by every Decoder.Decode call.
type Result struct {
	// Decoded is the number of bytes written to dst.
	Decoded int
	// Consumed is the number of bytes read from src.
	Consumed int
}

// Decoder is a streaming content-transfer-encoding transducer. Callers feed
// it successive slices of the encoded stream; Decode writes as many decoded
// bytes as will fit in dst and reports how much of src it consumed. Bytes
// left unconsumed (a partial quantum) must be represented again, unchanged,
// at the front of the next call's src, together with whatever new bytes
// arrived meanwhile — the classic "compact and refill" rolling buffer.
//
// When endOfStream is true, the decoder flushes any retained partial
// quantum instead of waiting for more input.
type Decoder interface {
	Decode(dst, src []byte, endOfStream bool) Result
	// EstimateDecodedSize returns an upper bound on the number of decoded
	// bytes n encoded bytes could produce, for sizing a destination buffer.
	EstimateDecodedSize(n int) int
}

// ByName returns the Decoder for a Content-Transfer-Encoding token
// (case-insensitive), or nil if the name is unknown, 7bit/8bit/binary, or
// empty — all of which pass the body through unchanged.
func ByName(name string) Decoder {
	switch normalize(name) {
	case "base64":
		return &Base64Decoder{}
	case "quoted-printable":
		return &QuotedPrintableDecoder{}
	default:
		return nil
	}
}

func normalize(s string) string {
	b := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 32
		}
		b[i] = c
	}
	// trim surrounding CFWS the caller may not have stripped yet
	start, end := 0, len(b)
	for start < end && (b[start] == ' ' || b[start] == '\t') {
		start++
	}
	for end > start && (b[end-1] == ' ' || b[end-1] == '\t') {
		end--
	}
	return string(b[start:end])
}
