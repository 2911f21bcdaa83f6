package address

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cpkb-bluezoo/gumdrop-sub012/mail"
)

func TestParseList_SimpleAndDisplayName(t *testing.T) {
	list, ok := ParseList(`"John Doe" <john@example.com>, jane@example.com`, false)
	require.True(t, ok)
	require.Len(t, list, 2)
	require.Equal(t, "John Doe", list[0].DisplayName())
	require.False(t, list[0].Simple())
	require.Equal(t, "jane", list[1].LocalPart())
	require.True(t, list[1].Simple())
}

func TestParseList_Group(t *testing.T) {
	list, ok := ParseList("undisclosed-recipients: a@x.com, b@x.com;", false)
	require.True(t, ok)
	require.Len(t, list, 2)
	require.Equal(t, "a", list[0].LocalPart())
	require.Equal(t, "b", list[1].LocalPart())
}

func TestParseList_EmptyIsEmptyNotNil(t *testing.T) {
	list, ok := ParseList("", false)
	require.True(t, ok)
	require.NotNil(t, list)
	require.Empty(t, list)
}

func TestParseList_RejectsInternalDotAtomDot(t *testing.T) {
	_, ok := ParseList("john..doe@example.com", false)
	require.False(t, ok)
}

func TestParseList_RejectsMalformed(t *testing.T) {
	_, ok := ParseList("not an address list @@", false)
	require.False(t, ok)
}

func TestParseEnvelope_DomainLiteral(t *testing.T) {
	addr, ok := ParseEnvelope("user@[192.168.0.1]", false)
	require.True(t, ok)
	require.Equal(t, "user", addr.LocalPart())
	require.Equal(t, "[192.168.0.1]", addr.Domain())
}

func TestEmailAddress_EqualityCaseRules(t *testing.T) {
	a := mustParseOne(t, "U@x.com")
	b := mustParseOne(t, "U@X.COM")
	require.True(t, a.Equal(b))

	c := mustParseOne(t, "u@x.com")
	require.False(t, a.Equal(c))
}

func mustParseOne(t *testing.T, s string) mail.EmailAddress {
	t.Helper()
	list, ok := ParseList(s, false)
	if !ok || len(list) != 1 {
		t.Fatalf("ParseList(%q) = %v, %v", s, list, ok)
	}
	return list[0]
}
