package schema_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kiruse/hiproto/schema"
)

func TestMessageGetSet(t *testing.T) {
	m := schema.NewMessage()
	_, ok := m.Get("missing")
	require.False(t, ok)

	m.Set("x", int32(7))
	v, ok := m.Get("x")
	require.True(t, ok)
	require.Equal(t, int32(7), v)
}

func TestNewMessageHasNoUnknownFields(t *testing.T) {
	m := schema.NewMessage()
	require.Empty(t, m.UnknownFieldIndexes())
}
