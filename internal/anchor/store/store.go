package store

import (
	"context"

	"github.com/google/uuid"

	"orbit/internal/anchor"
)

// Store persists anchor queue entries.
type Store interface {
	Create(ctx context.Context, entry *anchor.QueueEntry) error
	FindByID(ctx context.Context, id uuid.UUID) (*anchor.QueueEntry, error)
	FindByHallmark(ctx context.Context, hallmarkID uuid.UUID) (*anchor.QueueEntry, error)
	ListByStatus(ctx context.Context, status anchor.Status, limit int) ([]*anchor.QueueEntry, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status anchor.Status, txSignature, lastError string) (*anchor.QueueEntry, error)
}
