// Package events publishes content lifecycle events as CloudEvents.
package events

import (
	"context"
	"fmt"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/google/uuid"
)

// Event types.
const (
	TypeContentImported    = "com.simple-site.content.imported"
	TypeLargeTreeCreated   = "com.simple-site.large-tree.created"
	TypePermissionsApplied = "com.simple-site.permissions.applied"
)

// Publisher emits an event about the content at subject.
type Publisher interface {
	Publish(ctx context.Context, eventType, subject string, data any) error
}

// Noop discards every event
type Noop struct{}

func (Noop) Publish(ctx context.Context, eventType, subject string, data any) error {
	return nil
}

// CloudEventsPublisher sends events over HTTP in binary mode
type CloudEventsPublisher struct {
	client cloudevents.Client
	source string
}

// NewCloudEventsPublisher creates a publisher posting to target.
func NewCloudEventsPublisher(target, source string) (*CloudEventsPublisher, error) {
	if target == "" {
		return nil, fmt.Errorf("event target is required")
	}
	client, err := cloudevents.NewClientHTTP(cloudevents.WithTarget(target))
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudevents client: %w", err)
	}
	return &CloudEventsPublisher{client: client, source: source}, nil
}

func (p *CloudEventsPublisher) Publish(ctx context.Context, eventType, subject string, data any) error {
	e := cloudevents.NewEvent()
	e.SetID(uuid.NewString())
	e.SetSource(p.source)
	e.SetType(eventType)
	e.SetSubject(subject)
	e.SetTime(time.Now())
	if err := e.SetData(cloudevents.ApplicationJSON, data); err != nil {
		return fmt.Errorf("failed to encode event %s: %w", eventType, err)
	}

	result := p.client.Send(ctx, e)
	if cloudevents.IsUndelivered(result) {
		return fmt.Errorf("failed to deliver event %s: %w", eventType, result)
	}
	if !cloudevents.IsACK(result) {
		return fmt.Errorf("event %s rejected: %w", eventType, result)
	}
	return nil
}
