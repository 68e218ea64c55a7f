package events

import (
	"context"
	"delivery-routing-engine/internal/platform/obs"
	"delivery-routing-engine/internal/ports"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
)

const DefaultRoutePlannedSubject = "routes.planned"

// headerCarrier adapts nats.Msg headers for OTel propagation.
type headerCarrier nats.Msg

func (c *headerCarrier) Get(key string) string {
	if c.Header == nil {
		return ""
	}
	return c.Header.Get(key)
}

func (c *headerCarrier) Set(key, val string) {
	if c.Header == nil {
		c.Header = make(nats.Header)
	}
	c.Header.Set(key, val)
}

func (c *headerCarrier) Keys() []string {
	if c.Header == nil {
		return nil
	}
	keys := make([]string, 0, len(c.Header))
	for k := range c.Header {
		keys = append(keys, k)
	}
	return keys
}

// NATSPublisher emits route events as JSON with trace context in headers.
type NATSPublisher struct {
	nc      *nats.Conn
	subject string
}

func NewNATSPublisher(nc *nats.Conn, subject string) *NATSPublisher {
	if subject == "" {
		subject = DefaultRoutePlannedSubject
	}
	return &NATSPublisher{nc: nc, subject: subject}
}

func (p *NATSPublisher) PublishRoutePlanned(ctx context.Context, evt ports.RoutePlannedEvent) (err error) {
	defer obs.Time(ctx, "events.nats.PublishRoutePlanned")(&err)

	if p.nc == nil {
		return errors.New("nats publisher: connection is nil")
	}

	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("publish route planned: encode: %w", err)
	}

	msg := &nats.Msg{Subject: p.subject, Data: data}
	otel.GetTextMapPropagator().Inject(ctx, (*headerCarrier)(msg))

	if err := p.nc.PublishMsg(msg); err != nil {
		return fmt.Errorf("publish route planned: %w", err)
	}
	return nil
}

// NopPublisher drops events; used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishRoutePlanned(context.Context, ports.RoutePlannedEvent) error { return nil }
