package mail

import "strings"

// EmailAddress is an immutable RFC 5322 mailbox: an optional display name
// plus a required local-part and domain, or a group wrapper (see
// GroupEmailAddress). Construct one only through a parser in mail/address
// or mail/obsolete.
type EmailAddress struct {
	displayName    string
	localPart      string
	domain         string
	simpleAddress  bool
	comments       []string
}

// NewEmailAddress builds an EmailAddress. It is exported so sub-parsers in
// other packages (mail/address, mail/obsolete) can construct values; callers
// assembling a message by hand should prefer those parsers instead of this
// constructor, since it performs no grammar validation itself.
func NewEmailAddress(displayName, localPart, domain string, simple bool, comments []string) EmailAddress {
	return EmailAddress{
		displayName:   displayName,
		localPart:     localPart,
		domain:        domain,
		simpleAddress: simple,
		comments:      comments,
	}
}

// DisplayName returns the optional display name, or "" if absent.
func (a EmailAddress) DisplayName() string { return a.displayName }

// LocalPart returns the local-part, case-sensitive.
func (a EmailAddress) LocalPart() string { return a.localPart }

// Domain returns the domain, compared case-insensitively.
func (a EmailAddress) Domain() string { return a.domain }

// Simple reports whether the address was parsed without angle brackets
// (addr-spec form) rather than as a canonical name-addr.
func (a EmailAddress) Simple() bool { return a.simpleAddress }

// Comments returns the ordered list of CFWS comments collected while
// parsing this address, or nil if none were collected/retained.
func (a EmailAddress) Comments() []string { return a.comments }

// String renders the canonical "user@domain" or "Display Name <user@domain>"
// form.
func (a EmailAddress) String() string {
	addr := a.localPart + "@" + a.domain
	if a.displayName == "" {
		return addr
	}
	return a.displayName + " <" + addr + ">"
}

// Equal implements the spec's equality rule: local-part is compared
// case-sensitively, domain case-insensitively. Display name and comments do
// not participate in equality.
func (a EmailAddress) Equal(b EmailAddress) bool {
	return a.localPart == b.localPart && strings.EqualFold(a.domain, b.domain)
}

// CanonicalKey returns a value suitable for use as a map key implementing
// the same equality rule as Equal (domain case-folded, local-part as-is).
func (a EmailAddress) CanonicalKey() string {
	return a.localPart + "@" + strings.ToLower(a.domain)
}

// GroupEmailAddress is the RFC 5322 "group" production: a symbolic name
// followed by an ordered, possibly empty list of member mailboxes.
type GroupEmailAddress struct {
	groupName string
	members   []EmailAddress
}

// NewGroupEmailAddress builds a GroupEmailAddress. members is copied so the
// returned value's member list cannot be mutated by the caller afterward.
func NewGroupEmailAddress(groupName string, members []EmailAddress) GroupEmailAddress {
	cp := make([]EmailAddress, len(members))
	copy(cp, members)
	return GroupEmailAddress{groupName: groupName, members: cp}
}

// GroupName returns the symbolic name preceding the ':'.
func (g GroupEmailAddress) GroupName() string { return g.groupName }

// Members returns an unmodifiable ordered view of the group's mailboxes.
func (g GroupEmailAddress) Members() []EmailAddress {
	cp := make([]EmailAddress, len(g.members))
	copy(cp, g.members)
	return cp
}

func (g GroupEmailAddress) String() string {
	parts := make([]string, len(g.members))
	for i, m := range g.members {
		parts[i] = m.String()
	}
	return g.groupName + ": " + strings.Join(parts, ", ") + ";"
}
