package pool

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/AlexHuggler/LCI-tracker/internal/domain/lsi"
)

// Repository persists pools and their service history.
type Repository interface {
	CreatePool(ctx context.Context, p Pool) error
	GetPool(ctx context.Context, id uuid.UUID) (Pool, bool, error)
	ListPools(ctx context.Context) ([]Pool, error)
	UpdatePool(ctx context.Context, p Pool) error
	InsertEvent(ctx context.Context, ev ServiceEvent) error
	// ListEvents returns events at or after since, newest first.
	ListEvents(ctx context.Context, poolID uuid.UUID, since time.Time) ([]ServiceEvent, error)
	LatestEvent(ctx context.Context, poolID uuid.UUID) (ServiceEvent, bool, error)
}

// InventoryRepository persists truck stock. ListInventory keeps insertion order.
type InventoryRepository interface {
	ListInventory(ctx context.Context) ([]InventoryItem, error)
	UpsertInventory(ctx context.Context, item InventoryItem) error
}

// ReadingCache keeps the last reading per pool to prefill the next visit.
type ReadingCache interface {
	LastReading(ctx context.Context, poolID uuid.UUID) (lsi.Reading, bool, error)
	SaveReading(ctx context.Context, poolID uuid.UUID, reading lsi.Reading) error
}

// CalculationRecord is the audit entry for one calculator run.
type CalculationRecord struct {
	At                  time.Time
	PoolID              uuid.UUID
	Reading             lsi.Reading
	PoolVolumeGallons   float64
	LSIValue            float64
	Status              lsi.WaterCondition
	RecommendationCount int
	TotalEstimatedCost  float64
}

// Recorder keeps an append-only history for later analysis.
type Recorder interface {
	RecordCalculation(ctx context.Context, rec CalculationRecord) error
	RecordServiceEvent(ctx context.Context, ev ServiceEvent) error
	RecordProfitReport(ctx context.Context, report ProfitReport) error
}
