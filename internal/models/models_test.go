package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPairKeyOrderInsensitive(t *testing.T) {
	assert.Equal(t, PairKey("alice", "bob"), PairKey("bob", "alice"))
	assert.NotEqual(t, PairKey("alice", "bob"), PairKey("alice", "carol"))
}

func TestHasParticipant(t *testing.T) {
	c := Conversation{Participants: []string{"alice", "bob"}}
	assert.True(t, c.HasParticipant("alice"))
	assert.False(t, c.HasParticipant("carol"))
}
