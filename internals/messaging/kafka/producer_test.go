package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProducer_PublishBufferAndClose(t *testing.T) {
	p := NewProducer([]string{"127.0.0.1:1"}, "order-events", 1)

	assert.True(t, p.Publish([]byte("k"), []byte("v1")))
	assert.False(t, p.Publish([]byte("k"), []byte("v2")), "buffer of one is full")

	p.Close()
	p.Close()
	assert.False(t, p.Publish([]byte("k"), []byte("v3")))
}
