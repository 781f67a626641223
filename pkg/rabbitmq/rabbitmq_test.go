package rabbitmq

import (
	"testing"

	amqp "github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
)

func TestNilClientPublishesNothing(t *testing.T) {
	var c *Client
	assert.NoError(t, c.PublishOrderPlaced(OrderPlacedEvent{OrderID: "65a1b2c3"}))
}

func TestNilClientRefusesConsume(t *testing.T) {
	var c *Client
	err := c.ConsumeOrderEvents(func(msg amqp.Delivery) error { return nil })
	assert.Error(t, err)
}
