package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdditionalData(t *testing.T) {
	var msg ClientMessage
	payload := `{"context":"abc","action":"takeSeat","additionalData":{"seat":3,"buyIn":100,"allIn":true,"name":"alice"}}`
	assert.NoError(t, json.Unmarshal([]byte(payload), &msg))

	assert.Equal(t, "abc", msg.Context)
	assert.Equal(t, ActionTakeSeat, msg.Action)

	seat, ok := msg.AdditionalData.GetInt("seat")
	assert.True(t, ok)
	assert.Equal(t, 3, seat)

	buyIn, ok := msg.AdditionalData.GetInt64("buyIn")
	assert.True(t, ok)
	assert.Equal(t, int64(100), buyIn)

	name, ok := msg.AdditionalData.GetString("name")
	assert.True(t, ok)
	assert.Equal(t, "alice", name)

	assert.True(t, msg.AdditionalData.GetBool("allIn"))
	assert.False(t, msg.AdditionalData.GetBool("missing"))

	_, ok = msg.AdditionalData.GetInt("name")
	assert.False(t, ok)
	_, ok = msg.AdditionalData.GetString("seat")
	assert.False(t, ok)
}

func TestErrorEvent(t *testing.T) {
	event := ErrorEvent("ctx-1", assert.AnError)
	assert.Equal(t, EventError, event.Key)
	assert.Equal(t, "ctx-1", event.Context)
	assert.Equal(t, assert.AnError.Error(), event.Data)
}
