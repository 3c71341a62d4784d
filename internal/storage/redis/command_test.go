package redis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetCommand(t *testing.T) {
	cmd := getCommand("session:abc")
	assert.Equal(t, "GET", cmd.Name())
	assert.Equal(t, []interface{}{"GET", "session:abc"}, cmd.Args())
}

func TestSetCommandAppliesExpiryAtomically(t *testing.T) {
	cmd := setCommand("session:abc", `{"bar":42}`, 90*time.Second)

	// Expiry rides on the write itself and the previous value comes back in
	// the same round trip
	assert.Equal(t, []interface{}{"SET", "session:abc", `{"bar":42}`, "EX", int64(90), "GET"}, cmd.Args())
}

func TestSetCommandTruncatesToWholeSeconds(t *testing.T) {
	cmd := setCommand("k", "v", 2500*time.Millisecond)
	assert.Equal(t, int64(2), cmd.Args()[4])
}

func TestDeleteCommandReturnsPriorValue(t *testing.T) {
	cmd := deleteCommand("session:abc")
	assert.Equal(t, []interface{}{"GETDEL", "session:abc"}, cmd.Args())
}

func TestExistsCommand(t *testing.T) {
	cmd := existsCommand("session:abc")
	assert.Equal(t, []interface{}{"EXISTS", "session:abc"}, cmd.Args())
}

func TestTTLCommand(t *testing.T) {
	cmd := ttlCommand("session:abc")
	assert.Equal(t, []interface{}{"TTL", "session:abc"}, cmd.Args())
}
