package message_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cpkb-bluezoo/gumdrop-sub012/mail"
	"github.com/cpkb-bluezoo/gumdrop-sub012/mail/message"
)

func TestEventBusSink_PublishesAndForwards(t *testing.T) {
	inner := &recordingSink{}
	bus := message.NewEventBusSink(inner, nil)

	var published []string
	require.NoError(t, bus.Bus.Subscribe(message.TopicHeader, func(name, text string) {
		published = append(published, name+"="+text)
	}))

	bus.Header("Subject", "hello")

	require.Equal(t, []string{"header"}, kinds(inner.events))
	require.Equal(t, []string{"Subject=hello"}, published)
}

func TestEventBusSink_UsesGivenBus(t *testing.T) {
	inner := &recordingSink{}
	sharedA := message.NewEventBusSink(inner, nil)
	sharedB := message.NewEventBusSink(&recordingSink{}, sharedA.Bus)
	require.Same(t, sharedA.Bus, sharedB.Bus)
}

func TestEventBusSink_DrivenByParser(t *testing.T) {
	inner := &recordingSink{}
	bus := message.NewEventBusSink(inner, nil)

	var addressEvents int
	require.NoError(t, bus.Bus.Subscribe(message.TopicAddressHeader, func(name string, list []mail.EmailAddress) {
		addressEvents++
	}))

	p := message.New(bus)
	require.NoError(t, p.Receive([]byte("To: a@x.com\r\n\r\n")))
	require.NoError(t, p.Close())

	require.Equal(t, 1, addressEvents)
}
