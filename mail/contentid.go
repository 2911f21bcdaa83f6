package mail

// ContentID is a "<local-part@domain>" token as found in Message-ID,
// In-Reply-To, References and the MIME Content-ID header.
type ContentID struct {
	localPart string
	domain    string
}

// NewContentID builds a ContentID value.
func NewContentID(localPart, domain string) ContentID {
	return ContentID{localPart: localPart, domain: domain}
}

// LocalPart returns the id-left token.
func (c ContentID) LocalPart() string { return c.localPart }

// Domain returns the id-right token (a dot-atom or domain-literal).
func (c ContentID) Domain() string { return c.domain }

// String renders the canonical "<local@domain>" form.
func (c ContentID) String() string {
	return "<" + c.localPart + "@" + c.domain + ">"
}

// Equal compares two ContentID values byte-for-byte; RFC 5322 gives
// message-id tokens no case-folding rule the way mailbox domains get one.
func (c ContentID) Equal(o ContentID) bool {
	return c.localPart == o.localPart && c.domain == o.domain
}
