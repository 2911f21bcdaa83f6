package obsolete

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAddressList_SourceRouted(t *testing.T) {
	list, ok := ParseAddressList("@host1,@host2:user@example.com", false)
	require.True(t, ok)
	require.Len(t, list, 1)
	require.Equal(t, "user", list[0].LocalPart())
	require.Equal(t, "example.com", list[0].Domain())
}

func TestParseAddressList_DisplayNameAngleAddr(t *testing.T) {
	list, ok := ParseAddressList(`"Obsolete Form" <user@example.com>`, false)
	require.True(t, ok)
	require.Len(t, list, 1)
	require.Equal(t, "Obsolete Form", list[0].DisplayName())
	require.Equal(t, "user", list[0].LocalPart())
}

func TestParseAddressList_EmptyInput(t *testing.T) {
	_, ok := ParseAddressList("", false)
	require.False(t, ok)
}

func TestParseMessageIDList_CommentLaden(t *testing.T) {
	list, ok := ParseMessageIDList("<a@x.com> (a comment) <b@y.com>")
	require.True(t, ok)
	require.Len(t, list, 2)
	require.Equal(t, "a", list[0].LocalPart())
	require.Equal(t, "b", list[1].LocalPart())
}
