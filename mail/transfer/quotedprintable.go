package transfer

// QuotedPrintableDecoder implements RFC 2045 quoted-printable decoding as
// the same kind of stateless transducer as Base64Decoder: each Decode call
// derives everything from src, and an unconsumed tail (an "=" that doesn't
// yet have enough lookahead to resolve) is reported via Result.Consumed for
// the caller to resubmit.
type QuotedPrintableDecoder struct{}

func hexVal(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	default:
		return 0, false
	}
}

// Decode implements Decoder. See the package doc and spec section 4.3 for
// the literal/hex-escape/soft-line-break contract.
func (QuotedPrintableDecoder) Decode(dst, src []byte, endOfStream bool) Result {
	decoded := 0
	lastBoundary := 0

	for i := 0; i < len(src); i++ {
		c := src[i]
		if c != '=' {
			if decoded+1 > len(dst) {
				return Result{Decoded: decoded, Consumed: lastBoundary}
			}
			dst[decoded] = c
			decoded++
			lastBoundary = i + 1
			continue
		}

		// c == '='; figure out how much lookahead we have.
		if i+1 >= len(src) {
			if !endOfStream {
				return Result{Decoded: decoded, Consumed: lastBoundary}
			}
			if decoded+1 > len(dst) {
				return Result{Decoded: decoded, Consumed: lastBoundary}
			}
			dst[decoded] = '='
			decoded++
			lastBoundary = i + 1
			continue
		}

		next := src[i+1]
		if next == '\n' {
			lastBoundary = i + 2
			i++
			continue
		}
		if next == '\r' {
			if i+2 >= len(src) {
				if !endOfStream {
					return Result{Decoded: decoded, Consumed: lastBoundary}
				}
				if decoded+2 > len(dst) {
					return Result{Decoded: decoded, Consumed: lastBoundary}
				}
				dst[decoded], dst[decoded+1] = '=', '\r'
				decoded += 2
				lastBoundary = i + 2
				i++
				continue
			}
			if src[i+2] == '\n' {
				lastBoundary = i + 3
				i += 2
				continue
			}
			if decoded+2 > len(dst) {
				return Result{Decoded: decoded, Consumed: lastBoundary}
			}
			dst[decoded], dst[decoded+1] = '=', '\r'
			decoded += 2
			lastBoundary = i + 2
			i++
			continue
		}

		// next is a candidate first hex digit.
		if i+2 >= len(src) {
			if !endOfStream {
				return Result{Decoded: decoded, Consumed: lastBoundary}
			}
			if decoded+2 > len(dst) {
				return Result{Decoded: decoded, Consumed: lastBoundary}
			}
			dst[decoded], dst[decoded+1] = '=', next
			decoded += 2
			lastBoundary = i + 2
			i++
			continue
		}

		h1, ok1 := hexVal(next)
		h2, ok2 := hexVal(src[i+2])
		if ok1 && ok2 {
			if decoded+1 > len(dst) {
				return Result{Decoded: decoded, Consumed: lastBoundary}
			}
			dst[decoded] = h1<<4 | h2
			decoded++
			lastBoundary = i + 3
			i += 2
			continue
		}

		// Invalid escape: emit the "=" literally and let the following
		// bytes fall through the loop as ordinary literals.
		if decoded+1 > len(dst) {
			return Result{Decoded: decoded, Consumed: lastBoundary}
		}
		dst[decoded] = '='
		decoded++
		lastBoundary = i + 1
	}

	return Result{Decoded: decoded, Consumed: lastBoundary}
}

// EstimateDecodedSize returns n: quoted-printable decoding never grows the
// input, so the input length is always a safe upper bound.
func (QuotedPrintableDecoder) EstimateDecodedSize(n int) int {
	return n
}

var _ Decoder = QuotedPrintableDecoder{}
