package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLobbies_JoinAndMembers(t *testing.T) {
	r := NewLobbies()

	r.Join("s1", "LOBBY1")
	r.Join("s2", "LOBBY1")
	r.Join("s3", "OTHER")

	assert.ElementsMatch(t, []string{"s1", "s2"}, r.Members("LOBBY1"))
	assert.ElementsMatch(t, []string{"s3"}, r.Members("OTHER"))
	assert.Empty(t, r.Members("UNSEEN"))

	code, ok := r.CodeOf("s1")
	require.True(t, ok)
	assert.Equal(t, "LOBBY1", code)
}

func TestLobbies_CodesAreCaseSensitive(t *testing.T) {
	r := NewLobbies()

	r.Join("s1", "abc")
	r.Join("s2", "ABC")

	assert.ElementsMatch(t, []string{"s1"}, r.Members("abc"))
	assert.ElementsMatch(t, []string{"s2"}, r.Members("ABC"))
}

func TestLobbies_RejoinMoves(t *testing.T) {
	r := NewLobbies()

	r.Join("s1", "A")
	prev, moved := r.Join("s1", "B")

	require.True(t, moved)
	assert.Equal(t, "A", prev)
	assert.False(t, r.Has("A"), "empty lobby should be gone")
	assert.ElementsMatch(t, []string{"s1"}, r.Members("B"))
}

func TestLobbies_LeaveIdempotent(t *testing.T) {
	r := NewLobbies()

	r.Join("s1", "A")

	code, ok := r.Leave("s1")
	require.True(t, ok)
	assert.Equal(t, "A", code)

	_, ok = r.Leave("s1")
	assert.False(t, ok)

	_, ok = r.Leave("never-joined")
	assert.False(t, ok)
}

func TestLobbies_EmptyLobbyRemoved(t *testing.T) {
	r := NewLobbies()

	r.Join("s1", "A")
	r.Join("s2", "A")
	require.True(t, r.Has("A"))

	r.Leave("s1")
	assert.True(t, r.Has("A"))

	r.Leave("s2")
	assert.False(t, r.Has("A"))
	assert.Empty(t, r.Members("A"))
}
