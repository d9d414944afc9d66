package cart

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"haldeki/internal/domain/cart"
	"haldeki/internal/logkey"
)

// Storage persists the cart blob under an owner key. Load returns (nil, nil)
// when nothing is stored yet.
type Storage interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}

// envelope is the persisted shape: {version, items}. Tolerant read, eager
// write — reads accept older versions through explicit upgrade functions,
// writes always use the current shape.
type envelope struct {
	Version int         `json:"version"`
	Items   []cart.Item `json:"items"`
}

// Load hydrates the engine from storage. Missing blobs start an empty cart.
// Corrupt blobs are logged and discarded — the cart resets to empty and the
// caller never sees an error for it.
func (e *Engine) Load(ctx context.Context) error {
	data, err := e.store.Load(ctx, e.key)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		e.items = nil
		return nil
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		slog.Warn("discarding corrupt cart blob",
			slog.String(logkey.CartKey, e.key), slog.String(logkey.ERROR, err.Error()))
		e.items = nil
		return nil
	}

	items := env.Items
	if env.Version < storageVersion {
		items = upgradeFromV1(items)
	}
	e.items = items
	return nil
}

// upgradeFromV1 backfills the supplier attribution fields that version 1
// blobs predate. Pointer fields already decode to nil; the price source tag
// defaults to "product". Prices are not re-derived.
func upgradeFromV1(items []cart.Item) []cart.Item {
	for i := range items {
		if items[i].PriceSource == "" {
			items[i].PriceSource = cart.PriceSourceProduct
		}
	}
	return items
}

// Save serializes the current state at the current version.
func (e *Engine) Save(ctx context.Context) error {
	data, err := json.Marshal(envelope{Version: storageVersion, Items: e.items})
	if err != nil {
		return err
	}
	return e.store.Save(ctx, e.key, data)
}

// MemStore is an in-memory Storage, used in tests and as a substitute when
// no database is wired.
type MemStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func NewMemStore() *MemStore {
	return &MemStore{blobs: map[string][]byte{}}
}

func (s *MemStore) Load(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.blobs[key], nil
}

func (s *MemStore) Save(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := make([]byte, len(data))
	copy(b, data)
	s.blobs[key] = b
	return nil
}
