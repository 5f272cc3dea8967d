package audit

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"

	"orbit/pkg/requestcontext"
)

// Sink mirrors audit entries to an external system (Kafka). Failures must
// never fail the append: the store is the source of truth.
type Sink interface {
	Produce(ctx context.Context, key, value []byte) error
}

// Publisher fronts the audit store. It fills in identity and time, persists
// the entry, then best-effort mirrors it to the sink.
type Publisher struct {
	store  Store
	sink   Sink
	logger *slog.Logger
}

// NewPublisher builds a publisher. sink may be nil when Kafka is not
// configured.
func NewPublisher(store Store, sink Sink, logger *slog.Logger) *Publisher {
	return &Publisher{store: store, sink: sink, logger: logger}
}

// Append records a lifecycle event for a hallmark.
func (p *Publisher) Append(ctx context.Context, hallmarkID uuid.UUID, action, actor string, details map[string]any) (*Entry, error) {
	entry := Entry{
		ID:         uuid.New(),
		HallmarkID: hallmarkID,
		Action:     action,
		Actor:      actor,
		Details:    details,
		CreatedAt:  requestcontext.Now(ctx),
	}
	if err := p.store.Append(ctx, entry); err != nil {
		return nil, err
	}

	if p.sink != nil {
		payload, err := json.Marshal(entry)
		if err == nil {
			err = p.sink.Produce(ctx, []byte(hallmarkID.String()), payload)
		}
		if err != nil && p.logger != nil {
			p.logger.WarnContext(ctx, "audit sink publish failed",
				"hallmark_id", hallmarkID,
				"action", action,
				"error", err,
			)
		}
	}

	return &entry, nil
}

// List returns a hallmark's audit trail, newest first.
func (p *Publisher) List(ctx context.Context, hallmarkID uuid.UUID) ([]Entry, error) {
	return p.store.ListByHallmark(ctx, hallmarkID)
}
