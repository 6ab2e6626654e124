package recorder

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/AlexHuggler/LCI-tracker/internal/domain/pool"
)

// SQLiteRecorder appends calculator runs, visits and profit reports to a SQLite file.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.Mutex
	logger *slog.Logger
}

// NewSQLiteRecorder opens (or creates) the database and runs migrations.
func NewSQLiteRecorder(dbPath string, logger *slog.Logger) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets reporting tools read while the service writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, logger: logger.With("component", "recorder.sqlite")}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.logger.Info("sqlite recorder opened", "path", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS calculations (
			id                   INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp            INTEGER NOT NULL,
			pool_id              TEXT,
			ph                   REAL,
			water_temp_f         REAL,
			calcium_hardness     REAL,
			total_alkalinity     REAL,
			tds                  REAL,
			pool_volume_gallons  REAL,
			lsi_value            REAL,
			status               TEXT,
			recommendation_count INTEGER,
			total_estimated_cost REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_calculations_ts ON calculations(timestamp)`,

		`CREATE TABLE IF NOT EXISTS service_events (
			id                  TEXT PRIMARY KEY,
			timestamp           INTEGER NOT NULL,
			pool_id             TEXT NOT NULL,
			ph                  REAL,
			water_temp_f        REAL,
			calcium_hardness    REAL,
			total_alkalinity    REAL,
			lsi_value           REAL,
			total_chemical_cost REAL,
			dose_count          INTEGER,
			tech_notes          TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_service_events_pool_ts ON service_events(pool_id, timestamp)`,

		`CREATE TABLE IF NOT EXISTS profit_reports (
			id                  INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp           INTEGER NOT NULL,
			billing_period_days INTEGER,
			pool_count          INTEGER,
			in_the_red_count    INTEGER,
			total_revenue       REAL,
			total_chem_cost     REAL,
			total_profit        REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_profit_reports_ts ON profit_reports(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// RecordCalculation implements pool.Recorder.
func (r *SQLiteRecorder) RecordCalculation(ctx context.Context, rec pool.CalculationRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, err := r.db.ExecContext(ctx, `INSERT INTO calculations
		(timestamp, pool_id, ph, water_temp_f, calcium_hardness, total_alkalinity, tds,
		 pool_volume_gallons, lsi_value, status, recommendation_count, total_estimated_cost)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.At.Unix(), nullablePoolID(rec.PoolID),
		rec.Reading.PH, rec.Reading.WaterTempF, rec.Reading.CalciumHardness, rec.Reading.TotalAlkalinity, rec.Reading.TDS,
		rec.PoolVolumeGallons, rec.LSIValue, string(rec.Status), rec.RecommendationCount, rec.TotalEstimatedCost,
	)
	if err != nil {
		return fmt.Errorf("insert calculation: %w", err)
	}
	return nil
}

// RecordServiceEvent implements pool.Recorder.
func (r *SQLiteRecorder) RecordServiceEvent(ctx context.Context, ev pool.ServiceEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, err := r.db.ExecContext(ctx, `INSERT OR REPLACE INTO service_events
		(id, timestamp, pool_id, ph, water_temp_f, calcium_hardness, total_alkalinity,
		 lsi_value, total_chemical_cost, dose_count, tech_notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.ID.String(), ev.Timestamp.Unix(), ev.PoolID.String(), ev.PH, ev.WaterTempF, ev.CalciumHardness,
		ev.TotalAlkalinity, ev.LSIValue, ev.TotalChemicalCost, len(ev.Doses), ev.TechNotes,
	)
	if err != nil {
		return fmt.Errorf("insert service event: %w", err)
	}
	return nil
}

// RecordProfitReport implements pool.Recorder.
func (r *SQLiteRecorder) RecordProfitReport(ctx context.Context, report pool.ProfitReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, err := r.db.ExecContext(ctx, `INSERT INTO profit_reports
		(timestamp, billing_period_days, pool_count, in_the_red_count, total_revenue, total_chem_cost, total_profit)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		report.GeneratedAt.Unix(), report.BillingPeriodDays, len(report.Pools), len(report.InTheRed),
		report.TotalRevenue, report.TotalChemCost, report.TotalProfit,
	)
	if err != nil {
		return fmt.Errorf("insert profit report: %w", err)
	}
	return nil
}

// Close closes the database.
func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}

func nullablePoolID(id uuid.UUID) any {
	if id == uuid.Nil {
		return nil
	}
	return id.String()
}

var _ pool.Recorder = (*SQLiteRecorder)(nil)
