package transcript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSeedsSystemInstruction(t *testing.T) {
	tr := New("be helpful")

	require.Equal(t, 1, tr.Len())
	first := tr.Messages()[0]
	assert.Equal(t, RoleSystem, first.Role)
	assert.Equal(t, "be helpful", first.Text)
	assert.Equal(t, "be helpful", tr.Instructions())
}

func TestAppendKeepsOrder(t *testing.T) {
	tr := New("sys")
	require.NoError(t, tr.Append(RoleHuman, "hi"))
	require.NoError(t, tr.Append(RoleSystem, "Tool result: x"))
	require.NoError(t, tr.Append(RoleAssistant, "hello"))
	require.NoError(t, tr.Append(RoleHuman, "hi"))

	msgs := tr.Messages()
	require.Len(t, msgs, 5)
	assert.Equal(t, []Message{
		{Role: RoleSystem, Text: "sys"},
		{Role: RoleHuman, Text: "hi"},
		{Role: RoleSystem, Text: "Tool result: x"},
		{Role: RoleAssistant, Text: "hello"},
		{Role: RoleHuman, Text: "hi"},
	}, msgs)
	assert.Equal(t, Message{Role: RoleHuman, Text: "hi"}, tr.Last())
}

func TestAppendRejectsUnknownRole(t *testing.T) {
	tr := New("sys")
	err := tr.Append(Role("tool"), "x")
	require.Error(t, err)
	assert.Equal(t, 1, tr.Len())
}

func TestMessagesReturnsCopy(t *testing.T) {
	tr := New("sys")
	msgs := tr.Messages()
	msgs[0].Text = "mutated"

	assert.Equal(t, "sys", tr.Messages()[0].Text)
}
