package poolrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AlexHuggler/LCI-tracker/internal/domain/dosing"
	"github.com/AlexHuggler/LCI-tracker/internal/domain/pool"
)

// PostgresRepository implements Store using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(p *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: p}
}

// EnsureSchema creates the tables when they do not exist yet.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS pools (
			id                     UUID PRIMARY KEY,
			customer_name          TEXT NOT NULL,
			address                TEXT NOT NULL DEFAULT '',
			latitude               DOUBLE PRECISION NOT NULL DEFAULT 0,
			longitude              DOUBLE PRECISION NOT NULL DEFAULT 0,
			water_temp_f           DOUBLE PRECISION NOT NULL,
			ph                     DOUBLE PRECISION NOT NULL,
			calcium_hardness       DOUBLE PRECISION NOT NULL,
			total_alkalinity       DOUBLE PRECISION NOT NULL,
			total_dissolved_solids DOUBLE PRECISION NOT NULL,
			monthly_service_fee    DOUBLE PRECISION NOT NULL,
			pool_volume_gallons    DOUBLE PRECISION NOT NULL,
			notes                  TEXT NOT NULL DEFAULT '',
			service_day_of_week    SMALLINT NOT NULL,
			route_order            INTEGER NOT NULL DEFAULT 0,
			created_at             TIMESTAMPTZ NOT NULL,
			updated_at             TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS service_events (
			id                  UUID PRIMARY KEY,
			pool_id             UUID NOT NULL REFERENCES pools(id) ON DELETE CASCADE,
			ts                  TIMESTAMPTZ NOT NULL,
			water_temp_f        DOUBLE PRECISION NOT NULL,
			ph                  DOUBLE PRECISION NOT NULL,
			calcium_hardness    DOUBLE PRECISION NOT NULL,
			total_alkalinity    DOUBLE PRECISION NOT NULL,
			lsi_value           DOUBLE PRECISION NOT NULL,
			total_chemical_cost DOUBLE PRECISION NOT NULL,
			tech_notes          TEXT NOT NULL DEFAULT '',
			doses               JSONB NOT NULL DEFAULT '[]'
		)`,
		`CREATE INDEX IF NOT EXISTS idx_service_events_pool_ts ON service_events (pool_id, ts DESC)`,
		`CREATE TABLE IF NOT EXISTS chemical_inventory (
			id               UUID PRIMARY KEY,
			seq              BIGSERIAL,
			name             TEXT NOT NULL,
			chemical_type    TEXT NOT NULL,
			cost_per_oz      DOUBLE PRECISION NOT NULL,
			current_stock_oz DOUBLE PRECISION NOT NULL DEFAULT 0,
			unit_label       TEXT NOT NULL DEFAULT 'oz',
			concentration    DOUBLE PRECISION NOT NULL DEFAULT 0
		)`,
	}
	for _, stmt := range stmts {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

const poolColumns = `id, customer_name, address, latitude, longitude, water_temp_f, ph,
	calcium_hardness, total_alkalinity, total_dissolved_solids, monthly_service_fee,
	pool_volume_gallons, notes, service_day_of_week, route_order, created_at, updated_at`

// CreatePool inserts a new pool row.
func (r *PostgresRepository) CreatePool(ctx context.Context, p pool.Pool) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO pools (`+poolColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`, poolArgs(p)...)
	return err
}

// GetPool fetches one pool.
func (r *PostgresRepository) GetPool(ctx context.Context, id uuid.UUID) (pool.Pool, bool, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+poolColumns+` FROM pools WHERE id = $1`, id)
	p, err := scanPool(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return pool.Pool{}, false, nil
	}
	if err != nil {
		return pool.Pool{}, false, err
	}
	return p, true, nil
}

// ListPools returns every pool, oldest first.
func (r *PostgresRepository) ListPools(ctx context.Context) ([]pool.Pool, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+poolColumns+` FROM pools ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []pool.Pool
	for rows.Next() {
		p, err := scanPool(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpdatePool overwrites the mutable columns.
func (r *PostgresRepository) UpdatePool(ctx context.Context, p pool.Pool) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE pools SET
			customer_name = $2, address = $3, latitude = $4, longitude = $5,
			water_temp_f = $6, ph = $7, calcium_hardness = $8, total_alkalinity = $9,
			total_dissolved_solids = $10, monthly_service_fee = $11, pool_volume_gallons = $12,
			notes = $13, service_day_of_week = $14, route_order = $15, updated_at = $16
		WHERE id = $1
	`, p.ID, p.CustomerName, p.Address, p.Latitude, p.Longitude, p.WaterTempF, p.PH,
		p.CalciumHardness, p.TotalAlkalinity, p.TotalDissolvedSolids, p.MonthlyServiceFee,
		p.PoolVolumeGallons, p.Notes, p.ServiceDayOfWeek, p.RouteOrder, p.UpdatedAt)
	return err
}

// InsertEvent stores a service event with its doses as JSON.
func (r *PostgresRepository) InsertEvent(ctx context.Context, ev pool.ServiceEvent) error {
	doses := ev.Doses
	if doses == nil {
		doses = []pool.ChemicalDose{}
	}
	payload, err := json.Marshal(doses)
	if err != nil {
		return fmt.Errorf("encode doses: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO service_events (id, pool_id, ts, water_temp_f, ph, calcium_hardness,
			total_alkalinity, lsi_value, total_chemical_cost, tech_notes, doses)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, ev.ID, ev.PoolID, ev.Timestamp, ev.WaterTempF, ev.PH, ev.CalciumHardness,
		ev.TotalAlkalinity, ev.LSIValue, ev.TotalChemicalCost, ev.TechNotes, payload)
	return err
}

const eventColumns = `id, pool_id, ts, water_temp_f, ph, calcium_hardness, total_alkalinity,
	lsi_value, total_chemical_cost, tech_notes, doses`

// ListEvents returns events at or after since, newest first.
func (r *PostgresRepository) ListEvents(ctx context.Context, poolID uuid.UUID, since time.Time) ([]pool.ServiceEvent, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+eventColumns+`
		FROM service_events
		WHERE pool_id = $1 AND ts >= $2
		ORDER BY ts DESC
	`, poolID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []pool.ServiceEvent
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// LatestEvent returns the most recent event for a pool.
func (r *PostgresRepository) LatestEvent(ctx context.Context, poolID uuid.UUID) (pool.ServiceEvent, bool, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+eventColumns+`
		FROM service_events
		WHERE pool_id = $1
		ORDER BY ts DESC
		LIMIT 1
	`, poolID)
	ev, err := scanEvent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return pool.ServiceEvent{}, false, nil
	}
	if err != nil {
		return pool.ServiceEvent{}, false, err
	}
	return ev, true, nil
}

// ListInventory returns items in insertion order.
func (r *PostgresRepository) ListInventory(ctx context.Context) ([]pool.InventoryItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, chemical_type, cost_per_oz, current_stock_oz, unit_label, concentration
		FROM chemical_inventory
		ORDER BY seq
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []pool.InventoryItem
	for rows.Next() {
		var (
			item         pool.InventoryItem
			chemicalType string
		)
		if err := rows.Scan(&item.ID, &item.Name, &chemicalType, &item.CostPerOz, &item.CurrentStockOz, &item.UnitLabel, &item.Concentration); err != nil {
			return nil, err
		}
		item.ChemicalType = dosing.ChemicalType(chemicalType)
		out = append(out, item)
	}
	return out, rows.Err()
}

// UpsertInventory inserts or updates an item by ID.
func (r *PostgresRepository) UpsertInventory(ctx context.Context, item pool.InventoryItem) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO chemical_inventory (id, name, chemical_type, cost_per_oz, current_stock_oz, unit_label, concentration)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			chemical_type = EXCLUDED.chemical_type,
			cost_per_oz = EXCLUDED.cost_per_oz,
			current_stock_oz = EXCLUDED.current_stock_oz,
			unit_label = EXCLUDED.unit_label,
			concentration = EXCLUDED.concentration
	`, item.ID, item.Name, string(item.ChemicalType), item.CostPerOz, item.CurrentStockOz, item.UnitLabel, item.Concentration)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func poolArgs(p pool.Pool) []any {
	return []any{
		p.ID, p.CustomerName, p.Address, p.Latitude, p.Longitude, p.WaterTempF, p.PH,
		p.CalciumHardness, p.TotalAlkalinity, p.TotalDissolvedSolids, p.MonthlyServiceFee,
		p.PoolVolumeGallons, p.Notes, p.ServiceDayOfWeek, p.RouteOrder, p.CreatedAt, p.UpdatedAt,
	}
}

func scanPool(row rowScanner) (pool.Pool, error) {
	var (
		p   pool.Pool
		day int16
	)
	err := row.Scan(
		&p.ID, &p.CustomerName, &p.Address, &p.Latitude, &p.Longitude, &p.WaterTempF, &p.PH,
		&p.CalciumHardness, &p.TotalAlkalinity, &p.TotalDissolvedSolids, &p.MonthlyServiceFee,
		&p.PoolVolumeGallons, &p.Notes, &day, &p.RouteOrder, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return pool.Pool{}, err
	}
	p.ServiceDayOfWeek = int(day)
	return p, nil
}

func scanEvent(row rowScanner) (pool.ServiceEvent, error) {
	var (
		ev    pool.ServiceEvent
		doses []byte
	)
	err := row.Scan(&ev.ID, &ev.PoolID, &ev.Timestamp, &ev.WaterTempF, &ev.PH, &ev.CalciumHardness,
		&ev.TotalAlkalinity, &ev.LSIValue, &ev.TotalChemicalCost, &ev.TechNotes, &doses)
	if err != nil {
		return pool.ServiceEvent{}, err
	}
	if len(doses) > 0 {
		if err := json.Unmarshal(doses, &ev.Doses); err != nil {
			return pool.ServiceEvent{}, fmt.Errorf("decode doses: %w", err)
		}
	}
	return ev, nil
}

var _ Store = (*PostgresRepository)(nil)
