package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyKnownTypes(t *testing.T) {
	for wire, want := range kinds {
		m := ClientMessage{Type: wire}
		require.True(t, m.Classify(), wire)
		assert.Equal(t, want, m.Kind)
	}
}

func TestClassifyUnknownType(t *testing.T) {
	m := ClientMessage{Type: "dropTable"}
	assert.False(t, m.Classify())
	assert.Equal(t, KindUnknown, m.Kind)
}

func TestClientMessageDecoding(t *testing.T) {
	raw := []byte(`{"type":"checkConfig","config":[95,0,0,0]}`)

	var m ClientMessage
	require.NoError(t, json.Unmarshal(raw, &m))
	require.True(t, m.Classify())
	assert.Equal(t, KindCheckConfig, m.Kind)
	assert.Equal(t, [4]uint32{95, 0, 0, 0}, m.Config)
}

func TestStateMessageOmitsAbsentElement(t *testing.T) {
	payload, err := json.Marshal(StateMessage{Type: TypeChangeState, Phase: "online"})
	require.NoError(t, err)
	assert.NotContains(t, string(payload), `"element"`)
	assert.NotContains(t, string(payload), `"opElement"`)
}
