package messageid

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseList_Single(t *testing.T) {
	list, ok := ParseList("<abc123@mail.example.com>", false)
	require.True(t, ok)
	require.Len(t, list, 1)
	require.Equal(t, "abc123", list[0].LocalPart())
	require.Equal(t, "mail.example.com", list[0].Domain())
	require.Equal(t, "<abc123@mail.example.com>", list[0].String())
}

func TestParseList_CommaSeparated(t *testing.T) {
	list, ok := ParseList("<a@x.com>, <b@y.com>", false)
	require.True(t, ok)
	require.Len(t, list, 2)
}

func TestParseList_BareWhitespaceSeparated(t *testing.T) {
	// Outlook-style References header: no commas between ids.
	list, ok := ParseList("<a@x.com> <b@y.com> <c@z.com>", false)
	require.True(t, ok)
	require.Len(t, list, 3)
	require.Equal(t, "a", list[0].LocalPart())
	require.Equal(t, "c", list[2].LocalPart())
}

func TestParseList_EmptyIsEmptyNotNil(t *testing.T) {
	list, ok := ParseList("", false)
	require.True(t, ok)
	require.NotNil(t, list)
	require.Empty(t, list)
}

func TestParseList_DomainLiteral(t *testing.T) {
	list, ok := ParseList("<id@[192.168.1.1]>", false)
	require.True(t, ok)
	require.Len(t, list, 1)
	require.Equal(t, "[192.168.1.1]", list[0].Domain())
}

func TestParseList_RejectsMalformedToken(t *testing.T) {
	_, ok := ParseList("<missing-close-angle@x.com", false)
	require.False(t, ok)
}

func TestParseOne_RejectsMultiple(t *testing.T) {
	_, ok := ParseOne("<a@x.com> <b@y.com>", false)
	require.False(t, ok)
}

func TestParseOne_Single(t *testing.T) {
	id, ok := ParseOne("<only@x.com>", false)
	require.True(t, ok)
	require.Equal(t, "only", id.LocalPart())
}

func TestContentID_Equal_CaseSensitive(t *testing.T) {
	a, _ := ParseOne("<ID@x.com>", false)
	b, _ := ParseOne("<id@x.com>", false)
	require.False(t, a.Equal(b))
}
