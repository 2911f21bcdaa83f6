package mime

import "errors"

// Sentinel structural errors, following the teacher's mime.NotMime /
// message/parse.go's ErrNoBoundary/ErrLargeHeader convention: fatal
// conditions the engine cannot route around, as opposed to the
// recoverable header/value failures surfaced as UnexpectedHeader events.
var (
	// ErrHeaderTooLarge is returned when a header line exceeds the
	// configured maximum length, whether or not its line terminator has
	// arrived yet.
	ErrHeaderTooLarge = errors.New("mime: header line exceeds maximum length")
	// ErrMalformedBoundary is returned when a multipart Content-Type is
	// missing its boundary parameter, or the boundary violates the
	// RFC 2046 bcharsnospace/length-70 constraint.
	ErrMalformedBoundary = errors.New("mime: missing or malformed multipart boundary")
	// ErrBoundaryNotFound is returned in strict mode when the input ends
	// without a close-delimiter for an open multipart body.
	ErrBoundaryNotFound = errors.New("mime: multipart close-delimiter not found before end of input")
	// ErrMaxDepthExceeded is returned when nested multiparts exceed the
	// configured maximum depth.
	ErrMaxDepthExceeded = errors.New("mime: multipart nesting exceeds maximum depth")
)
