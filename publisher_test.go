package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoopPublisher(t *testing.T) {
	var p EventPublisher = NoopPublisher{}
	assert.NoError(t, p.Publish(DistributionEvent{Type: eventDistributionCreated, DistributionID: 1}))
}

func TestNewRabbitMQPublisher_BadURL(t *testing.T) {
	_, err := NewRabbitMQPublisher("http://not-amqp", discardLogger())
	assert.ErrorContains(t, err, "failed to dial rabbitmq")
}
