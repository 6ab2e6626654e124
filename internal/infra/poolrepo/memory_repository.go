package poolrepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AlexHuggler/LCI-tracker/internal/domain/pool"
)

// MemoryRepository keeps everything in process memory for tests/dev.
type MemoryRepository struct {
	mu sync.RWMutex

	pools     map[uuid.UUID]pool.Pool
	events    map[uuid.UUID][]pool.ServiceEvent
	inventory []pool.InventoryItem
}

// NewMemoryRepository constructs a repo backed by memory.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		pools:  make(map[uuid.UUID]pool.Pool),
		events: make(map[uuid.UUID][]pool.ServiceEvent),
	}
}

// CreatePool implements pool.Repository.
func (r *MemoryRepository) CreatePool(_ context.Context, p pool.Pool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pools[p.ID] = p
	return nil
}

// GetPool implements pool.Repository.
func (r *MemoryRepository) GetPool(_ context.Context, id uuid.UUID) (pool.Pool, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.pools[id]
	return p, ok, nil
}

// ListPools implements pool.Repository, oldest first.
func (r *MemoryRepository) ListPools(_ context.Context) ([]pool.Pool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]pool.Pool, 0, len(r.pools))
	for _, p := range r.pools {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// UpdatePool implements pool.Repository. Unknown pools are ignored.
func (r *MemoryRepository) UpdatePool(_ context.Context, p pool.Pool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pools[p.ID]; ok {
		r.pools[p.ID] = p
	}
	return nil
}

// InsertEvent implements pool.Repository.
func (r *MemoryRepository) InsertEvent(_ context.Context, ev pool.ServiceEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev.Doses = append([]pool.ChemicalDose(nil), ev.Doses...)
	r.events[ev.PoolID] = append(r.events[ev.PoolID], ev)
	return nil
}

// ListEvents implements pool.Repository.
func (r *MemoryRepository) ListEvents(_ context.Context, poolID uuid.UUID, since time.Time) ([]pool.ServiceEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []pool.ServiceEvent
	for _, ev := range r.events[poolID] {
		if ev.Timestamp.Before(since) {
			continue
		}
		out = append(out, ev)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

// LatestEvent implements pool.Repository.
func (r *MemoryRepository) LatestEvent(ctx context.Context, poolID uuid.UUID) (pool.ServiceEvent, bool, error) {
	events, err := r.ListEvents(ctx, poolID, time.Time{})
	if err != nil || len(events) == 0 {
		return pool.ServiceEvent{}, false, err
	}
	return events[0], true, nil
}

// ListInventory implements pool.InventoryRepository.
func (r *MemoryRepository) ListInventory(_ context.Context) ([]pool.InventoryItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]pool.InventoryItem(nil), r.inventory...), nil
}

// UpsertInventory implements pool.InventoryRepository. Updates keep their position.
func (r *MemoryRepository) UpsertInventory(_ context.Context, item pool.InventoryItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.inventory {
		if r.inventory[i].ID == item.ID {
			r.inventory[i] = item
			return nil
		}
	}
	r.inventory = append(r.inventory, item)
	return nil
}

var _ Store = (*MemoryRepository)(nil)
