package service

import (
	"context"
	"time"

	"github.com/ikkim/hairable-backend/internal/app/model"
	"github.com/ikkim/hairable-backend/internal/queue"
	"github.com/ikkim/hairable-backend/pkg/logger"
)

// EventPublisher delivers reservation lifecycle events. Delivery is best effort.
type EventPublisher interface {
	Publish(ctx context.Context, event queue.ReservationEvent) error
}

type noopPublisher struct{}

func NewNoopPublisher() EventPublisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(context.Context, queue.ReservationEvent) error {
	return nil
}

func reservationEvent(eventType string, r *model.Reservation, previous model.ReservationStatus) queue.ReservationEvent {
	return queue.ReservationEvent{
		Type:            eventType,
		ReservationID:   r.ID,
		StoreID:         r.StoreID,
		StaffID:         r.StaffMembershipID,
		Status:          string(r.Status),
		PreviousStatus:  string(previous),
		ReservationTime: r.ReservationTime,
		OccurredAt:      time.Now().UTC(),
	}
}

func publishEvent(ctx context.Context, publisher EventPublisher, event queue.ReservationEvent) {
	if err := publisher.Publish(ctx, event); err != nil {
		logger.Warn("Failed to publish reservation event", map[string]interface{}{
			"type":           event.Type,
			"reservation_id": event.ReservationID,
			"error":          err.Error(),
		})
	}
}
