package storage

import (
	"context"
	"errors"
	"io"

	"github.com/aman-zulfiqar/multichain-swap/internal/models"
)

// ErrSnapshotNotFound is returned by a SnapshotStore that holds no snapshot.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// SwapArchive defines the interface for persistent swap record storage
type SwapArchive interface {
	// InsertSwap inserts a new swap record
	InsertSwap(ctx context.Context, swap *models.SwapRecord) error

	// UpdateSwapStatus records a status transition for an archived swap
	UpdateSwapStatus(ctx context.Context, swap *models.SwapRecord) error

	// Ping checks if the store is reachable
	Ping(ctx context.Context) error

	// Close closes the store connection
	io.Closer
}

// SwapPublisher fans recorded swaps out to subscribers
type SwapPublisher interface {
	// PublishSwap publishes a swap record to the Pub/Sub channels
	PublishSwap(ctx context.Context, swap *models.SwapRecord) error
}

// SnapshotStore keeps the latest serialized ledger snapshot
type SnapshotStore interface {
	// SaveSnapshot overwrites the stored snapshot
	SaveSnapshot(ctx context.Context, data []byte) error

	// LoadSnapshot returns the stored snapshot or ErrSnapshotNotFound
	LoadSnapshot(ctx context.Context) ([]byte, error)
}
