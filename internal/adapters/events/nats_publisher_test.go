package events

import (
	"context"
	"delivery-routing-engine/internal/ports"
	"encoding/json"
	"testing"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startNATS(t *testing.T) *nats.Conn {
	t.Helper()
	ns, err := natsserver.NewServer(&natsserver.Options{Port: -1})
	require.NoError(t, err)
	ns.Start()
	t.Cleanup(ns.Shutdown)
	require.True(t, ns.ReadyForConnections(2*time.Second), "nats not ready")

	nc, err := nats.Connect(ns.ClientURL())
	require.NoError(t, err)
	t.Cleanup(nc.Close)
	return nc
}

func TestNATSPublisherPublishesRoutePlanned(t *testing.T) {
	nc := startNATS(t)

	sub, err := nc.SubscribeSync(DefaultRoutePlannedSubject)
	require.NoError(t, err)
	require.NoError(t, nc.Flush())

	evt := ports.RoutePlannedEvent{
		Locations:       []string{"Guadalajara", "Zapopan"},
		Optimized:       true,
		DistanceKm:      12.5,
		DurationSeconds: 900,
		BoundingBox:     "20.1,-103.1,20,-103",
		PlannedAt:       time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC),
	}

	p := NewNATSPublisher(nc, "")
	require.NoError(t, p.PublishRoutePlanned(context.Background(), evt))

	msg, err := sub.NextMsg(2 * time.Second)
	require.NoError(t, err)

	var got ports.RoutePlannedEvent
	require.NoError(t, json.Unmarshal(msg.Data, &got))
	assert.Equal(t, evt, got)
}

func TestNATSPublisherNilConn(t *testing.T) {
	p := NewNATSPublisher(nil, "custom")
	require.Error(t, p.PublishRoutePlanned(context.Background(), ports.RoutePlannedEvent{}))
}

func TestNopPublisher(t *testing.T) {
	assert.NoError(t, NopPublisher{}.PublishRoutePlanned(context.Background(), ports.RoutePlannedEvent{}))
}

func TestHeaderCarrier(t *testing.T) {
	msg := &nats.Msg{}
	c := (*headerCarrier)(msg)
	assert.Equal(t, "", c.Get("traceparent"))
	assert.Nil(t, c.Keys())

	c.Set("traceparent", "00-abc-def-01")
	assert.Equal(t, "00-abc-def-01", c.Get("traceparent"))
	assert.Len(t, c.Keys(), 1)
}
