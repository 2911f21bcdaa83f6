package transfer

// Base64Decoder implements RFC 2045 base64 content-transfer-encoding
// decoding as a pure, stateless transducer: every Decode call recomputes
// its quantum register from src alone, so the only state a caller needs to
// carry between calls is the unconsumed tail of src itself (Result.Consumed
// tells it exactly how much that tail is).
type Base64Decoder struct{}

const (
	b64KindSkip = iota
	b64KindAlphabet
	b64KindPadding
)

func classifyBase64(c byte) (kind int, val byte) {
	switch {
	case c >= 'A' && c <= 'Z':
		return b64KindAlphabet, c - 'A'
	case c >= 'a' && c <= 'z':
		return b64KindAlphabet, c - 'a' + 26
	case c >= '0' && c <= '9':
		return b64KindAlphabet, c - '0' + 52
	case c == '+':
		return b64KindAlphabet, 62
	case c == '/':
		return b64KindAlphabet, 63
	case c == '=':
		return b64KindPadding, 0
	default:
		return b64KindSkip, 0
	}
}

// Decode implements Decoder. See the package doc and spec section 4.2 for
// the full quantum/padding/overflow contract.
func (Base64Decoder) Decode(dst, src []byte, endOfStream bool) Result {
	var slot [4]byte
	filled := 0
	padCount := 0
	decoded := 0
	lastBoundary := 0

	for i := 0; i < len(src); i++ {
		c := src[i]
		kind, val := classifyBase64(c)
		if kind == b64KindSkip {
			if filled == 0 {
				lastBoundary = i + 1
			}
			continue
		}
		if filled < 4 {
			if kind == b64KindAlphabet && padCount == 0 {
				slot[filled] = val
			} else if kind == b64KindPadding {
				padCount++
			}
			filled++
		}
		if filled == 4 {
			nOut := 3 - padCount
			if nOut < 0 {
				nOut = 0
			}
			if decoded+nOut > len(dst) {
				return Result{Decoded: decoded, Consumed: lastBoundary}
			}
			decoded += emitBase64Quantum(dst[decoded:], slot, nOut)
			lastBoundary = i + 1
			filled = 0
			padCount = 0
		}
	}

	if endOfStream && filled > 0 {
		var nOut int
		switch filled {
		case 2:
			nOut = 1
		case 3:
			nOut = 2
		}
		if nOut == 0 {
			lastBoundary = len(src)
		} else if decoded+nOut <= len(dst) {
			decoded += emitBase64Quantum(dst[decoded:], slot, nOut)
			lastBoundary = len(src)
		}
	}

	return Result{Decoded: decoded, Consumed: lastBoundary}
}

func emitBase64Quantum(dst []byte, slot [4]byte, nOut int) int {
	b0 := slot[0]<<2 | slot[1]>>4
	b1 := slot[1]<<4 | slot[2]>>2
	b2 := slot[2]<<6 | slot[3]
	switch nOut {
	case 1:
		dst[0] = b0
	case 2:
		dst[0], dst[1] = b0, b1
	case 3:
		dst[0], dst[1], dst[2] = b0, b1, b2
	}
	return nOut
}

// EstimateDecodedSize returns ceil(n*3/4), the maximum number of bytes n
// encoded base64 bytes (ignoring skip characters) can produce.
func (Base64Decoder) EstimateDecodedSize(n int) int {
	return (n*3 + 3) / 4
}

var _ Decoder = Base64Decoder{}
